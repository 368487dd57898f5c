package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/models"
)

//go:generate mockgen -source=source.go -destination=catalogmock/source.go -package=catalogmock

// Source is the external read-only product catalog.
type Source interface {
	List(ctx context.Context) ([]models.SourceProduct, error)
	GetByID(ctx context.Context, id int64) (models.SourceProduct, error)
	Categories(ctx context.Context) ([]string, error)
}

type SourceErrorKind int

const (
	SourceTimeout SourceErrorKind = iota + 1
	SourceHTTP
	SourceNoResponse
	SourceOther
)

func (k SourceErrorKind) String() string {
	switch k {
	case SourceTimeout:
		return "timeout"
	case SourceHTTP:
		return "http"
	case SourceNoResponse:
		return "no_response"
	default:
		return "other"
	}
}

// SourceError is returned by Source implementations. Error() is safe to show
// to shoppers.
type SourceError struct {
	Kind       SourceErrorKind
	StatusCode int
	// Op is the failed operation: "products", "product" or "categories".
	Op  string
	Err error
}

func (e *SourceError) Error() string {
	switch e.Kind {
	case SourceTimeout:
		return "Request timeout. Please check your internet connection."
	case SourceHTTP:
		return fmt.Sprintf("API Error: %d - %s", e.StatusCode, http.StatusText(e.StatusCode))
	case SourceNoResponse:
		return "No response from server. Please check your internet connection."
	}
	switch e.Op {
	case "product":
		return "Failed to fetch product details. Please try again later."
	case "categories":
		return "Failed to fetch categories"
	default:
		return "Failed to fetch products. Please try again later."
	}
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is lets a 404 from the source match ErrProductNotFound.
func (e *SourceError) Is(target error) bool {
	return target == ErrProductNotFound && e.Kind == SourceHTTP && e.StatusCode == http.StatusNotFound
}

// IsSourceError reports whether err came from the catalog source.
func IsSourceError(err error) bool {
	var srcErr *SourceError
	return errors.As(err, &srcErr)
}
