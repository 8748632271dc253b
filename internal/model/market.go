package model

// Listing is a symbol offered on an exchange together with its latest price.
type Listing struct {
	Symbol      string  `json:"symbol"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}
