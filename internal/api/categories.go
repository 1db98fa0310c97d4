package api

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Categories is the client of the categories resource. The hierarchy has
// three levels (general, sub, specific) addressed by one endpoint each.
type Categories struct {
	http *resty.Client
}

// NewCategories creates a categories client bound to the given base URL.
func NewCategories(baseURL string, timeout time.Duration) *Categories {
	return &Categories{http: newRestyClient(baseURL, timeout)}
}

// General returns the top-level category labels.
func (c *Categories) General(ctx context.Context) ([]string, error) {
	var categories []string

	response, err := c.http.R().
		SetContext(ctx).
		SetResult(&categories).
		Get("/general")
	if err := checkResponse(response, err); err != nil {
		return nil, err
	}

	return categories, nil
}

// Sub returns the sub-category labels of a general category.
func (c *Categories) Sub(ctx context.Context, general string) ([]string, error) {
	var categories []string

	response, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("general", general).
		SetResult(&categories).
		Get("/sub")
	if err := checkResponse(response, err); err != nil {
		return nil, err
	}

	return categories, nil
}

// Specific returns the most specific category labels of a general and
// sub category pair.
func (c *Categories) Specific(ctx context.Context, general, sub string) ([]string, error) {
	var categories []string

	response, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("general", general).
		SetQueryParam("sub", sub).
		SetResult(&categories).
		Get("/specific")
	if err := checkResponse(response, err); err != nil {
		return nil, err
	}

	return categories, nil
}
