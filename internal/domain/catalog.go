package domain

// Catalog entry kinds as reported by the reference storefront.
const (
	KindGame = "game"
	KindDLC  = "dlc"
)

// CatalogItem is a single candidate returned by the catalog search endpoint.
type CatalogItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// CatalogDetails is the detailed record for one catalog entry. Prices are in
// minor units of the store currency (1/100 KRW), the way the store API
// reports them.
type CatalogDetails struct {
	Name                 string
	IsFree               bool
	PriceMinor           int
	DiscountedPriceMinor int
	DiscountPercent      int
	HeaderImage          string
	Screenshots          []string
	Developer            string
}

// CatalogMatch is the resolution of a free-text product name against the
// reference catalog. MatchStage records which search-term variant produced
// the hit; it is informational only and never affects ranking.
type CatalogMatch struct {
	ExternalID int    `json:"externalId"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	MatchStage string `json:"matchStage"`
}

// PriceQuote is the comparable price for a resolved catalog entry, in whole
// units of the target currency. Free marks entries with no list price;
// callers exclude those from savings comparison rather than reporting an
// infinite discount.
type PriceQuote struct {
	ExternalID    int    `json:"externalId"`
	Name          string `json:"name"`
	OriginalPrice int    `json:"originalPrice"`
	FinalPrice    int    `json:"finalPrice"`
	DiscountLabel string `json:"discountLabel,omitempty"`
	Currency      string `json:"currency"`
	Free          bool   `json:"free"`
}

// GameMetadata holds the descriptive fields used by the spreadsheet export.
// Best-effort: any of these may be empty when the detail fetch fails.
type GameMetadata struct {
	Title          string   `json:"title"`
	HeaderImage    string   `json:"headerImage"`
	Screenshots    []string `json:"screenshots"`
	Developer      string   `json:"developer"`
	LocalizedTitle string   `json:"localizedTitle,omitempty"`
}

// ExchangeRates is an immutable snapshot of conversion rates into the target
// currency (KRW per one unit of the foreign currency).
type ExchangeRates struct {
	USD float64
	EUR float64
	JPY float64
}
