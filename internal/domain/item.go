package domain

import "github.com/shopspring/decimal"

// Item is a catalog entry. Items are never modified after the catalog is loaded.
type Item struct {
	ID          int             `json:"id" toml:"id"`
	Name        string          `json:"name" toml:"name"`
	Image       string          `json:"image" toml:"image"`
	Description string          `json:"description" toml:"description"`
	Price       decimal.Decimal `json:"price" toml:"price"`
}
