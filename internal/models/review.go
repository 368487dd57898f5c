package models

import "time"

type Review struct {
	ID        int64      `json:"id"`
	ProductID int64      `json:"productId"`
	UserName  string     `json:"userName"`
	UserEmail string     `json:"userEmail"`
	Rating    int        `json:"rating"`
	Title     string     `json:"title"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Helpful   int        `json:"helpful"`
	Unhelpful int        `json:"unhelpful"`
}
