package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProducts = `[
	{"id":1,"title":"Backpack","price":109.95,"category":"men's clothing","description":"Fits 15 inch laptops","image":"https://fakestoreapi.com/img/1.jpg","rating":{"rate":3.9,"count":120}},
	{"id":2,"title":"T-Shirt","price":22.3,"category":"men's clothing","description":"Slim fit","image":"https://fakestoreapi.com/img/2.jpg","rating":{"rate":4.1,"count":259}}
]`

func newFakeStore(t *testing.T, handler http.HandlerFunc) *FakeStoreClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewFakeStoreClient(srv.URL, time.Second)
}

func requireSourceError(t *testing.T, err error) *SourceError {
	t.Helper()
	require.Error(t, err)
	var srcErr *SourceError
	require.ErrorAs(t, err, &srcErr)
	return srcErr
}

func TestFakeStoreList(t *testing.T) {
	client := newFakeStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleProducts))
	})

	products, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Backpack", products[0].Title)
	assert.Equal(t, "109.95", products[0].Price.String())
	assert.Equal(t, 120, products[0].Rating.Count)
}

func TestFakeStoreGetByID(t *testing.T) {
	client := newFakeStore(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/2":
			_, _ = w.Write([]byte(`{"id":2,"title":"T-Shirt","price":"22.30"}`))
		case "/products/99":
			w.WriteHeader(http.StatusOK)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	product, err := client.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "T-Shirt", product.Title)
	assert.Equal(t, "22.30", product.Price.Display())

	_, err = client.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrProductNotFound, "empty body means unknown id")

	_, err = client.GetByID(ctx, 404)
	srcErr := requireSourceError(t, err)
	assert.Equal(t, SourceHTTP, srcErr.Kind)
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, "API Error: 404 - Not Found", err.Error())
}

func TestFakeStoreHTTPError(t *testing.T) {
	client := newFakeStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.List(context.Background())
	srcErr := requireSourceError(t, err)
	assert.Equal(t, SourceHTTP, srcErr.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, srcErr.StatusCode)
	assert.Equal(t, "API Error: 503 - Service Unavailable", srcErr.Error())
	assert.NotErrorIs(t, err, ErrProductNotFound)
}

func TestFakeStoreTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	client := NewFakeStoreClient(srv.URL, 50*time.Millisecond)
	_, err := client.List(context.Background())
	srcErr := requireSourceError(t, err)
	assert.Equal(t, SourceTimeout, srcErr.Kind)
	assert.Equal(t, "Request timeout. Please check your internet connection.", srcErr.Error())
}

func TestFakeStoreNoResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewFakeStoreClient(url, time.Second).Categories(context.Background())
	srcErr := requireSourceError(t, err)
	assert.Equal(t, SourceNoResponse, srcErr.Kind)
	assert.Equal(t, "No response from server. Please check your internet connection.", srcErr.Error())
}

func TestFakeStoreMalformedBody(t *testing.T) {
	client := newFakeStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"oops":`))
	})

	_, err := client.GetByID(context.Background(), 1)
	srcErr := requireSourceError(t, err)
	assert.Equal(t, SourceOther, srcErr.Kind)
	assert.Equal(t, "Failed to fetch product details. Please try again later.", srcErr.Error())

	_, err = client.Categories(context.Background())
	assert.Equal(t, "Failed to fetch categories", err.Error())
}

func TestFakeStoreCategories(t *testing.T) {
	client := newFakeStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/categories", r.URL.Path)
		_, _ = w.Write([]byte(`["electronics","jewelery"]`))
	})

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"electronics", "jewelery"}, categories)
}

func TestNewFakeStoreClientDefaults(t *testing.T) {
	client := NewFakeStoreClient("", 0)
	assert.Equal(t, DefaultSourceURL, client.baseURL)
	assert.Equal(t, DefaultSourceTimeout, client.client.Timeout)
}
