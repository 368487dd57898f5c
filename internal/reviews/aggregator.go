package reviews

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/models"
	"storefront/internal/store"
)

const (
	minRating = 1
	maxRating = 5
)

// Input is a new review. The author fields come from the signed-in user.
type Input struct {
	UserName  string
	UserEmail string
	Rating    int
	Title     string
	Comment   string
}

// Edit carries the author-editable fields. Nil fields are left untouched.
type Edit struct {
	Rating  *int    `json:"rating"`
	Title   *string `json:"title"`
	Comment *string `json:"comment"`
}

// Aggregator owns the product reviews collection. Reviews are stored newest
// first.
type Aggregator struct {
	mu         sync.Mutex
	reviews    *store.Collection[models.Review]
	log        *zap.Logger
	now        func() time.Time
	lastID     int64
	onePerUser bool
}

type Option func(*Aggregator)

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithOneReviewPerUser rejects a second review of the same product by the
// same email.
func WithOneReviewPerUser() Option {
	return func(a *Aggregator) { a.onePerUser = true }
}

func NewAggregator(s store.Store, log *zap.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		reviews: store.NewCollection[models.Review](s, store.KeyReviews),
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func validRating(rating int) bool {
	return rating >= minRating && rating <= maxRating
}

func (a *Aggregator) Add(ctx context.Context, productID int64, in Input) (models.Review, error) {
	if !validRating(in.Rating) {
		return models.Review{}, fmt.Errorf("%w: got %d", ErrInvalidRating, in.Rating)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	items, err := a.reviews.Items(ctx)
	if err != nil {
		return models.Review{}, err
	}

	if a.onePerUser && findUserReview(items, productID, in.UserEmail) >= 0 {
		return models.Review{}, fmt.Errorf("%w: product %d", ErrAlreadyReviewed, productID)
	}

	now := a.now()
	review := models.Review{
		ID:        a.nextID(items, now),
		ProductID: productID,
		UserName:  strings.TrimSpace(in.UserName),
		UserEmail: strings.TrimSpace(in.UserEmail),
		Rating:    in.Rating,
		Title:     strings.TrimSpace(in.Title),
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: now,
	}

	updated := make([]models.Review, 0, len(items)+1)
	updated = append(updated, review)
	updated = append(updated, items...)
	if err := a.reviews.Replace(ctx, updated); err != nil {
		return models.Review{}, err
	}

	a.log.Info("[REVIEW] review added",
		zap.Int64("id", review.ID),
		zap.Int64("productId", productID),
		zap.Int("rating", review.Rating),
	)
	return review, nil
}

func (a *Aggregator) nextID(items []models.Review, now time.Time) int64 {
	id := now.UnixMilli()
	floor := a.lastID
	for _, r := range items {
		floor = max(floor, r.ID)
	}
	if id <= floor {
		id = floor + 1
	}
	a.lastID = id
	return id
}

// ForProduct returns the product's reviews, newest first.
func (a *Aggregator) ForProduct(ctx context.Context, productID int64) ([]models.Review, error) {
	items, err := a.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Review, 0)
	for _, r := range items {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Average is the mean rating rounded half away from zero to one decimal,
// e.g. "4.3". A product without reviews averages "0".
func (a *Aggregator) Average(ctx context.Context, productID int64) (string, error) {
	reviews, err := a.ForProduct(ctx, productID)
	if err != nil {
		return "", err
	}
	return averageOf(reviews), nil
}

func averageOf(reviews []models.Review) string {
	if len(reviews) == 0 {
		return "0"
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	// The mean is exact decimal, so a true .x5 rounds up ("4.35" -> "4.4")
	// where float formatting of the same mean can round down.
	mean := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(reviews))))
	return mean.StringFixed(1)
}

// Distribution counts reviews per star. Keys 1 through 5 are always present.
func (a *Aggregator) Distribution(ctx context.Context, productID int64) (map[int]int, error) {
	reviews, err := a.ForProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return distributionOf(reviews), nil
}

func distributionOf(reviews []models.Review) map[int]int {
	dist := make(map[int]int, maxRating)
	for star := minRating; star <= maxRating; star++ {
		dist[star] = 0
	}
	for _, r := range reviews {
		if validRating(r.Rating) {
			dist[r.Rating]++
		}
	}
	return dist
}

// Summary bundles a product's reviews with their aggregates.
type Summary struct {
	Reviews      []models.Review `json:"reviews"`
	Average      string          `json:"average"`
	Distribution map[int]int     `json:"distribution"`
	Count        int             `json:"count"`
}

func (a *Aggregator) Summary(ctx context.Context, productID int64) (Summary, error) {
	reviews, err := a.ForProduct(ctx, productID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Reviews:      reviews,
		Average:      averageOf(reviews),
		Distribution: distributionOf(reviews),
		Count:        len(reviews),
	}, nil
}

// MarkHelpful adds one helpful vote. Votes are not deduplicated per user.
func (a *Aggregator) MarkHelpful(ctx context.Context, reviewID int64) (models.Review, error) {
	return a.mutate(ctx, reviewID, func(r *models.Review) error {
		r.Helpful++
		return nil
	})
}

func (a *Aggregator) MarkUnhelpful(ctx context.Context, reviewID int64) (models.Review, error) {
	return a.mutate(ctx, reviewID, func(r *models.Review) error {
		r.Unhelpful++
		return nil
	})
}

func (a *Aggregator) HasUserReviewed(ctx context.Context, productID int64, email string) (bool, error) {
	items, err := a.snapshot(ctx)
	if err != nil {
		return false, err
	}
	return findUserReview(items, productID, email) >= 0, nil
}

// UserReview returns the user's review of the product, or ErrReviewNotFound.
func (a *Aggregator) UserReview(ctx context.Context, productID int64, email string) (models.Review, error) {
	items, err := a.snapshot(ctx)
	if err != nil {
		return models.Review{}, err
	}
	idx := findUserReview(items, productID, email)
	if idx < 0 {
		return models.Review{}, fmt.Errorf("%w: product %d", ErrReviewNotFound, productID)
	}
	return items[idx], nil
}

// Update applies the author's edit. An empty authorEmail skips the
// ownership check.
func (a *Aggregator) Update(ctx context.Context, reviewID int64, authorEmail string, edit Edit) (models.Review, error) {
	if edit.Rating != nil && !validRating(*edit.Rating) {
		return models.Review{}, fmt.Errorf("%w: got %d", ErrInvalidRating, *edit.Rating)
	}

	review, err := a.mutate(ctx, reviewID, func(r *models.Review) error {
		if authorEmail != "" && !strings.EqualFold(r.UserEmail, authorEmail) {
			return ErrNotAuthor
		}
		if edit.Rating != nil {
			r.Rating = *edit.Rating
		}
		if edit.Title != nil {
			r.Title = strings.TrimSpace(*edit.Title)
		}
		if edit.Comment != nil {
			r.Comment = strings.TrimSpace(*edit.Comment)
		}
		now := a.now()
		r.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return models.Review{}, err
	}

	a.log.Info("[REVIEW] review updated", zap.Int64("id", reviewID))
	return review, nil
}

func (a *Aggregator) Delete(ctx context.Context, reviewID int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	items, err := a.reviews.Items(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(items, reviewID)
	if idx < 0 {
		return fmt.Errorf("%w: %d", ErrReviewNotFound, reviewID)
	}
	if err := a.reviews.Replace(ctx, append(items[:idx:idx], items[idx+1:]...)); err != nil {
		return err
	}

	a.log.Info("[REVIEW] review deleted", zap.Int64("id", reviewID))
	return nil
}

func (a *Aggregator) mutate(ctx context.Context, reviewID int64, fn func(r *models.Review) error) (models.Review, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	items, err := a.reviews.Items(ctx)
	if err != nil {
		return models.Review{}, err
	}
	idx := indexOf(items, reviewID)
	if idx < 0 {
		return models.Review{}, fmt.Errorf("%w: %d", ErrReviewNotFound, reviewID)
	}

	review := items[idx]
	if err := fn(&review); err != nil {
		return models.Review{}, err
	}
	items[idx] = review

	if err := a.reviews.Replace(ctx, items); err != nil {
		return models.Review{}, err
	}
	return review, nil
}

func (a *Aggregator) snapshot(ctx context.Context) ([]models.Review, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reviews.Items(ctx)
}

func indexOf(items []models.Review, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func findUserReview(items []models.Review, productID int64, email string) int {
	email = strings.TrimSpace(email)
	if email == "" {
		return -1
	}
	for i := range items {
		if items[i].ProductID == productID && strings.EqualFold(items[i].UserEmail, email) {
			return i
		}
	}
	return -1
}
