package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock is never allowed to go negative:
// the orders repository decrements it with a conditional update, and the
// table carries a CHECK constraint as a last line of defense.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Images      pq.StringArray  `json:"images"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	SalesCount  int             `json:"salesCount"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// MainImage returns the first image, or "" for products without one.
func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
