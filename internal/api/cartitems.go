package api

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// CartItems is the client of the cart-items resource: adding to and
// removing from a cart by quantity deltas. The backend has no
// set-quantity endpoint; callers express every change as a delta.
type CartItems struct {
	http *resty.Client
}

// NewCartItems creates a cart-items client bound to the given base URL.
func NewCartItems(baseURL string, timeout time.Duration) *CartItems {
	return &CartItems{http: newRestyClient(baseURL, timeout)}
}

// Add adds the given quantity of an item to the cart.
func (c *CartItems) Add(ctx context.Context, cartID, itemID string, quantity int) error {
	response, err := c.http.R().
		SetContext(ctx).
		SetPathParam("cartID", cartID).
		SetPathParam("itemID", itemID).
		SetQueryParam("quantity", strconv.Itoa(quantity)).
		Post("/{cartID}/items/{itemID}")

	return checkResponse(response, err)
}

// Remove removes the given quantity of an item from the cart.
func (c *CartItems) Remove(ctx context.Context, cartID, itemID string, quantity int) error {
	response, err := c.http.R().
		SetContext(ctx).
		SetPathParam("cartID", cartID).
		SetPathParam("itemID", itemID).
		SetQueryParam("quantity", strconv.Itoa(quantity)).
		Delete("/{cartID}/items/{itemID}")

	return checkResponse(response, err)
}
