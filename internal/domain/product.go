package domain

// ListedProduct is one entry scraped from the source storefront's listing
// page. Immutable after creation; cached per listing URL for one run.
type ListedProduct struct {
	ID              string `json:"id"`
	RawTitle        string `json:"rawTitle"`
	NormalizedTitle string `json:"normalizedTitle"`
	PriceText       string `json:"priceText"`
	DetailURL       string `json:"detailUrl,omitempty"`
}

// ScrapedItem is the raw extraction from a listing page, before titles are
// normalized and ids assigned.
type ScrapedItem struct {
	Title     string
	PriceText string
	Link      string
}

// UnmatchedProduct records a listed product that could not be compared,
// together with the reason it was skipped.
type UnmatchedProduct struct {
	Product ListedProduct `json:"product"`
	Reason  string        `json:"reason"`
}
