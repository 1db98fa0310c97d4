package api

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/patric-chuzhbe/grocart/internal/models"
)

// Carts is the client of the shopping-carts resource: cart lifecycle and
// saved-cart history.
type Carts struct {
	http *resty.Client
}

// NewCarts creates a carts client bound to the given base URL.
func NewCarts(baseURL string, timeout time.Duration) *Carts {
	return &Carts{http: newRestyClient(baseURL, timeout)}
}

// Create allocates a new server-side cart owned by the given user and
// returns it. The returned cart carries the server-assigned identifier.
func (c *Carts) Create(ctx context.Context, owner models.User) (models.SavedCart, error) {
	var created models.SavedCart

	response, err := c.http.R().
		SetContext(ctx).
		SetBody(owner).
		SetResult(&created).
		Post("/new")
	if err := checkResponse(response, err); err != nil {
		return models.SavedCart{}, err
	}

	if err := validateShape(created); err != nil {
		return models.SavedCart{}, err
	}

	return created, nil
}

// Archive turns the cart into a named immutable snapshot.
func (c *Carts) Archive(ctx context.Context, cartID, name string) error {
	response, err := c.http.R().
		SetContext(ctx).
		SetBody(models.ArchiveRequest{Name: name}).
		SetPathParam("cartID", cartID).
		Put("/{cartID}/archive")

	return checkResponse(response, err)
}

// Activate marks a previously saved cart as the active one server-side.
func (c *Carts) Activate(ctx context.Context, cartID string) error {
	response, err := c.http.R().
		SetContext(ctx).
		SetPathParam("cartID", cartID).
		Put("/{cartID}/activate")

	return checkResponse(response, err)
}

// Delete removes a cart or snapshot by identifier.
func (c *Carts) Delete(ctx context.Context, cartID string) error {
	response, err := c.http.R().
		SetContext(ctx).
		SetPathParam("cartID", cartID).
		Delete("/{cartID}")

	return checkResponse(response, err)
}

// History fetches every cart recorded for the user, in whatever order
// the backend returns them. Sorting is the presentation layer's job.
func (c *Carts) History(ctx context.Context, userID string) ([]models.SavedCart, error) {
	var history []models.SavedCart

	response, err := c.http.R().
		SetContext(ctx).
		SetPathParam("userID", userID).
		SetResult(&history).
		Get("/history/{userID}")
	if err := checkResponse(response, err); err != nil {
		return nil, err
	}

	for _, cart := range history {
		if err := validateShape(cart); err != nil {
			return nil, err
		}
	}

	return history, nil
}
