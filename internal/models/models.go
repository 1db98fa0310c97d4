// Package models defines the data shapes exchanged with the
// price-comparison backend and shared between the stores.
// Every response payload gets an explicit schema with validation tags
// so a shape mismatch fails at the network boundary instead of
// propagating zero values through the UI.
package models

import (
	"fmt"
	"time"
)

// User represents an authenticated shopper as returned by the
// login/register endpoints. Session is the server-issued session number
// required by the logout endpoint.
type User struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name"`
	Email   string `json:"email" validate:"required,email"`
	Session string `json:"session"`
}

// Item is a catalog entry. Prices maps a supermarket chain name to the
// item's price in that chain. Items are immutable on the client side and
// mirrored verbatim from search/category responses.
type Item struct {
	ID          string             `json:"id" validate:"required"`
	Name        string             `json:"name" validate:"required"`
	Category    string             `json:"category"`
	Prices      map[string]float64 `json:"prices"`
	Rating      float64            `json:"rating"`
	Description string             `json:"description"`
}

// HasPrices reports whether the item carries at least one per-chain
// price. Items without any price mapping are rendered as unavailable.
func (i Item) HasPrices() bool {
	return len(i.Prices) > 0
}

// Line is a single cart position: an item plus a quantity.
// Quantity is always >= 1; a line decremented to zero is removed from
// its cart. At most one line per item ID exists within a cart.
type Line struct {
	Item     Item `json:"item"`
	Quantity int  `json:"quantity" validate:"gte=1"`
}

// SavedCart is a server-side cart record. While active it backs the
// current shopping session; once archived it becomes a named, immutable
// snapshot enumerable via the history endpoint.
type SavedCart struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	Items     []Line    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	Archived  bool      `json:"archived"`
}

// CategoryRow is one row of the flat three-level category hierarchy.
type CategoryRow struct {
	GeneralCategory  string `json:"generalCategory"`
	SubCategory      string `json:"subCategory"`
	SpecificCategory string `json:"specificCategory"`
}

// CategoryTree is the assembled hierarchy: general -> sub -> specifics.
type CategoryTree map[string]map[string][]string

// RegisterRequest is the payload of POST /register. It is validated
// client-side before any network call is made.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// ArchiveRequest names the snapshot produced by PUT /{id}/archive.
type ArchiveRequest struct {
	Name string `json:"name" validate:"required"`
}

// ErrorResponse is the JSON error body the backend attaches to non-2xx
// responses where available.
type ErrorResponse struct {
	Message string `json:"message"`
}

// APIError carries the HTTP status and the server-supplied message of a
// failed backend call.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.StatusCode)
	}

	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Message)
}
