package models

import "time"

// Product is an admin-managed catalog entry.
type Product struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Price       Amount     `json:"price"`
	Category    string     `json:"category"`
	Description string     `json:"description,omitempty"`
	Image       string     `json:"image,omitempty"`
	Stock       int        `json:"stock"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type SourceRating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// SourceProduct is a product served by the external catalog API. Its ids do
// not share a space with Product ids.
type SourceProduct struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Price       Amount       `json:"price"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	Rating      SourceRating `json:"rating"`
}
