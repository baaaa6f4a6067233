package domain

// ComparisonResult is one priced match between a listed product and its
// catalog entry. All amounts are whole units of the target currency.
type ComparisonResult struct {
	Product        ListedProduct `json:"product"`
	Match          CatalogMatch  `json:"match"`
	SourcePrice    int           `json:"sourcePrice"`
	OriginalPrice  int           `json:"originalPrice"`
	FinalPrice     int           `json:"finalPrice"`
	Savings        int           `json:"savings"`
	SavingsPercent int           `json:"savingsPercent"`
	DiscountLabel  string        `json:"discountLabel,omitempty"`
}

// ComparisonReport is the outcome of one comparison run. Games is ordered by
// descending savings; NotFound lists products that were skipped and why.
// A product that matched but fell below the savings threshold appears in
// neither list.
type ComparisonReport struct {
	TotalGames      int                `json:"totalGames"`
	DiscountedGames int                `json:"discountedGames"`
	Games           []ComparisonResult `json:"games"`
	NotFound        []UnmatchedProduct `json:"notFound"`
}
