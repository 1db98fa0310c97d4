package api

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/grocart/internal/models"
)

// Items is the client of the items resource: name search, lookup by
// identifier, and paginated browsing by category pair.
type Items struct {
	http *resty.Client
}

// NewItems creates an items client bound to the given base URL.
func NewItems(baseURL string, timeout time.Duration) *Items {
	return &Items{http: newRestyClient(baseURL, timeout)}
}

// SearchByName returns the items whose name matches the query.
func (c *Items) SearchByName(ctx context.Context, name string) ([]models.Item, error) {
	var items []models.Item

	response, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("name", name).
		SetResult(&items).
		Get("/search/by-name")
	if err := checkResponse(response, err); err != nil {
		return nil, err
	}

	if err := validateItems(items); err != nil {
		return nil, err
	}

	return items, nil
}

// ByID returns a single item by its identifier.
func (c *Items) ByID(ctx context.Context, itemID string) (models.Item, error) {
	var item models.Item

	response, err := c.http.R().
		SetContext(ctx).
		SetPathParam("itemID", itemID).
		SetResult(&item).
		Get("/search/by-id/{itemID}")
	if err := checkResponse(response, err); err != nil {
		return models.Item{}, err
	}

	if err := validateShape(item); err != nil {
		return models.Item{}, err
	}

	return item, nil
}

// ByCategory returns one page of items belonging to the general and sub
// category pair.
func (c *Items) ByCategory(ctx context.Context, general, sub string, page, size int) ([]models.Item, error) {
	var items []models.Item

	response, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("generalCategory", general).
		SetQueryParam("subCategory", sub).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("size", strconv.Itoa(size)).
		SetResult(&items).
		Get("")
	if err := checkResponse(response, err); err != nil {
		return nil, err
	}

	if err := validateItems(items); err != nil {
		return nil, err
	}

	return items, nil
}
