// Package cart is the shopping cart store. A cart is either absent or
// active with a server-assigned identifier; every mutation is sent to
// the backend first and applied to the local line list only after the
// server acknowledged it. The local list mirrors the server cart; when
// in doubt, Reconcile re-adopts the authoritative lines from history.
package cart

import (
	"context"
	"errors"
	"sort"
	"sync"

	funk "github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/grocart/internal/logger"
	"github.com/patric-chuzhbe/grocart/internal/models"
)

// ErrEmptyCart is returned by SaveCart when the active cart has no
// lines. The check happens before any network call.
var ErrEmptyCart = errors.New("cannot save an empty cart")

// ErrCartNotFound is returned when an activated cart cannot be found in
// the user's history.
var ErrCartNotFound = errors.New("cart not found in history")

type cartsCaller interface {
	Create(ctx context.Context, owner models.User) (models.SavedCart, error)
	Archive(ctx context.Context, cartID, name string) error
	Activate(ctx context.Context, cartID string) error
	Delete(ctx context.Context, cartID string) error
	History(ctx context.Context, userID string) ([]models.SavedCart, error)
}

type cartItemsCaller interface {
	Add(ctx context.Context, cartID, itemID string, quantity int) error
	Remove(ctx context.Context, cartID, itemID string, quantity int) error
}

type currentUserProvider interface {
	Current() (models.User, bool)
}

// Store is the cart store.
type Store struct {
	mu           sync.Mutex
	cartsAPI     cartsCaller
	cartItemsAPI cartItemsCaller
	sessions     currentUserProvider

	lines        []models.Line
	activeCartID string
	history      []models.SavedCart
	loading      bool
	lastError    string
}

// New creates a cart store in the no-active-cart state.
func New(cartsAPI cartsCaller, cartItemsAPI cartItemsCaller, sessions currentUserProvider) *Store {
	return &Store{
		cartsAPI:     cartsAPI,
		cartItemsAPI: cartItemsAPI,
		sessions:     sessions,
	}
}

// ActiveCartID returns the server identifier of the active cart, empty
// when no cart is active.
func (s *Store) ActiveCartID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.activeCartID
}

// Lines returns a copy of the current line list.
func (s *Store) Lines() []models.Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]models.Line, len(s.lines))
	copy(lines, s.lines)

	return lines
}

// Loading reports whether a backend call is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

// LastError returns the stored message of the most recent failed
// operation, empty when the last operation succeeded.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastError
}

// History returns the saved carts sorted by creation time, newest first.
func (s *Store) History() []models.SavedCart {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]models.SavedCart, len(s.history))
	copy(history, s.history)
	sort.Slice(history, func(i, j int) bool {
		return history[i].CreatedAt.After(history[j].CreatedAt)
	})

	return history
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()
}

func (s *Store) end(message string, err error) error {
	if err != nil {
		logger.Log.Debugln(message+":", err)
	}

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.lastError = message
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}

	return nil
}

// StartNewCart allocates a server-side cart for the current user and
// resets the local line list. It transitions the store from
// no-active-cart to active.
func (s *Store) StartNewCart(ctx context.Context) error {
	owner, ok := s.sessions.Current()
	if !ok {
		return errors.New("no authenticated user")
	}

	s.begin()

	created, err := s.cartsAPI.Create(ctx, owner)
	if err != nil {
		return s.end("failed to create a new cart", err)
	}

	s.mu.Lock()
	s.activeCartID = created.ID
	s.lines = nil
	s.mu.Unlock()

	return s.end("", nil)
}

// AddToCart adds quantity units of the item to the active cart. Without
// an active cart it is a no-op. The local line list is updated only
// after the server acknowledged the addition: an existing line grows by
// the delta, otherwise a new line is appended.
func (s *Store) AddToCart(ctx context.Context, item models.Item, quantity int) error {
	s.mu.Lock()
	cartID := s.activeCartID
	s.mu.Unlock()
	if cartID == "" || quantity <= 0 {
		return nil
	}

	s.begin()

	if err := s.cartItemsAPI.Add(ctx, cartID, item.ID, quantity); err != nil {
		return s.end("failed to add the item to the cart", err)
	}

	s.mu.Lock()
	merged := false
	for i := range s.lines {
		if s.lines[i].Item.ID == item.ID {
			s.lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, models.Line{Item: item, Quantity: quantity})
	}
	s.mu.Unlock()

	return s.end("", nil)
}

// RemoveFromCart removes quantity units of the item from the active
// cart. The matching line is decremented; a line reaching zero or below
// is dropped from the list.
func (s *Store) RemoveFromCart(ctx context.Context, itemID string, quantity int) error {
	s.mu.Lock()
	cartID := s.activeCartID
	s.mu.Unlock()
	if cartID == "" || quantity <= 0 {
		return nil
	}

	s.begin()

	if err := s.cartItemsAPI.Remove(ctx, cartID, itemID, quantity); err != nil {
		return s.end("failed to remove the item from the cart", err)
	}

	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].Item.ID == itemID {
			s.lines[i].Quantity -= quantity
			break
		}
	}
	s.lines = funk.Filter(s.lines, func(line models.Line) bool {
		return line.Quantity > 0
	}).([]models.Line)
	s.mu.Unlock()

	return s.end("", nil)
}

// UpdateQuantity sets the line of itemID to newQuantity by deriving a
// delta and delegating to AddToCart or RemoveFromCart; the backend has
// no set-quantity endpoint. A newQuantity equal to the current one is a
// no-op; zero or negative removes the line entirely.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, newQuantity int) error {
	s.mu.Lock()
	var current *models.Line
	for i := range s.lines {
		if s.lines[i].Item.ID == itemID {
			current = &s.lines[i]
			break
		}
	}
	if current == nil {
		s.mu.Unlock()
		return nil
	}
	item := current.Item
	currentQuantity := current.Quantity
	s.mu.Unlock()

	switch {
	case newQuantity > currentQuantity:
		return s.AddToCart(ctx, item, newQuantity-currentQuantity)
	case newQuantity < currentQuantity:
		delta := currentQuantity - newQuantity
		if newQuantity < 0 {
			delta = currentQuantity
		}
		return s.RemoveFromCart(ctx, itemID, delta)
	default:
		return nil
	}
}

// ClearCart deletes the server-side cart and resets the store to the
// no-active-cart state.
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	cartID := s.activeCartID
	s.mu.Unlock()
	if cartID == "" {
		return nil
	}

	s.begin()

	if err := s.cartsAPI.Delete(ctx, cartID); err != nil {
		return s.end("failed to clear the cart", err)
	}

	s.mu.Lock()
	s.activeCartID = ""
	s.lines = nil
	s.mu.Unlock()

	return s.end("", nil)
}

// SaveCart archives the active cart under the given name, turning it
// into an immutable snapshot, and transitions the store to the
// no-active-cart state. An empty cart is rejected before any network
// call.
func (s *Store) SaveCart(ctx context.Context, name string) error {
	s.mu.Lock()
	cartID := s.activeCartID
	empty := len(s.lines) == 0
	s.mu.Unlock()

	if cartID == "" || empty {
		return ErrEmptyCart
	}

	s.begin()

	if err := s.cartsAPI.Archive(ctx, cartID, name); err != nil {
		return s.end("failed to save the cart", err)
	}

	s.mu.Lock()
	s.activeCartID = ""
	s.lines = nil
	s.mu.Unlock()

	return s.end("", nil)
}

func (s *Store) fetchLinesFromHistory(ctx context.Context, cartID string) ([]models.Line, error) {
	owner, ok := s.sessions.Current()
	if !ok {
		return nil, errors.New("no authenticated user")
	}

	history, err := s.cartsAPI.History(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.history = history
	s.mu.Unlock()

	for _, saved := range history {
		if saved.ID == cartID {
			return saved.Items, nil
		}
	}

	return nil, ErrCartNotFound
}

// LoadSavedCart activates a saved cart server-side, adopts its
// identifier as the active cart, and re-fetches its authoritative line
// items from history so the local mirror matches the server.
func (s *Store) LoadSavedCart(ctx context.Context, cartID string) error {
	s.begin()

	if err := s.cartsAPI.Activate(ctx, cartID); err != nil {
		return s.end("failed to load the saved cart", err)
	}

	lines, err := s.fetchLinesFromHistory(ctx, cartID)
	if err != nil {
		return s.end("failed to fetch the loaded cart's items", err)
	}

	s.mu.Lock()
	s.activeCartID = cartID
	s.lines = lines
	s.mu.Unlock()

	return s.end("", nil)
}

// Reconcile re-adopts the active cart's authoritative lines from
// history, recovering from any drift between the local mirror and the
// server. Without an active cart it is a no-op.
func (s *Store) Reconcile(ctx context.Context) error {
	s.mu.Lock()
	cartID := s.activeCartID
	s.mu.Unlock()
	if cartID == "" {
		return nil
	}

	s.begin()

	lines, err := s.fetchLinesFromHistory(ctx, cartID)
	if err != nil {
		return s.end("failed to reconcile the cart", err)
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()

	return s.end("", nil)
}

// RefreshHistory re-fetches the saved carts of the current user.
func (s *Store) RefreshHistory(ctx context.Context) error {
	owner, ok := s.sessions.Current()
	if !ok {
		return errors.New("no authenticated user")
	}

	s.begin()

	history, err := s.cartsAPI.History(ctx, owner.ID)
	if err != nil {
		return s.end("failed to fetch the cart history", err)
	}

	s.mu.Lock()
	s.history = history
	s.mu.Unlock()

	return s.end("", nil)
}

// DeleteSavedCart removes a snapshot by identifier and re-fetches the
// history afterwards; the deletion is only trusted once the backend
// reports the new list.
func (s *Store) DeleteSavedCart(ctx context.Context, cartID string) error {
	s.begin()

	if err := s.cartsAPI.Delete(ctx, cartID); err != nil {
		return s.end("failed to delete the saved cart", err)
	}

	if err := s.end("", nil); err != nil {
		return err
	}

	return s.RefreshHistory(ctx)
}

// SupermarketTotals distributes price times quantity of every line into
// a running total per supermarket chain, across all chains present in
// any line's price mapping. An empty cart yields an empty map.
func (s *Store) SupermarketTotals() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := map[string]float64{}
	for _, line := range s.lines {
		for market, price := range line.Item.Prices {
			totals[market] += price * float64(line.Quantity)
		}
	}

	return totals
}
