package reviews

import "errors"

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrAlreadyReviewed = errors.New("product already reviewed by this user")
	ErrNotAuthor       = errors.New("review belongs to another user")
)
