// Package catalog is the item and category store. Item lists are
// replaced wholesale by every fetch, never merged: the store is a mirror
// of the latest backend response, not a cache.
package catalog

import (
	"context"
	"sync"

	funk "github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/grocart/internal/logger"
	"github.com/patric-chuzhbe/grocart/internal/models"
)

type itemsFetcher interface {
	SearchByName(ctx context.Context, name string) ([]models.Item, error)
	ByCategory(ctx context.Context, general, sub string, page, size int) ([]models.Item, error)
}

type categoriesFetcher interface {
	General(ctx context.Context) ([]string, error)
	Sub(ctx context.Context, general string) ([]string, error)
	Specific(ctx context.Context, general, sub string) ([]string, error)
}

// Store holds the current item list and the category hierarchy.
type Store struct {
	mu            sync.Mutex
	itemsAPI      itemsFetcher
	categoriesAPI categoriesFetcher
	pageSize      int

	items     []models.Item
	tree      models.CategoryTree
	loading   bool
	lastError string
}

// New creates a catalog store. pageSize bounds category browsing pages.
func New(itemsAPI itemsFetcher, categoriesAPI categoriesFetcher, pageSize int) *Store {
	return &Store{
		itemsAPI:      itemsAPI,
		categoriesAPI: categoriesAPI,
		pageSize:      pageSize,
		tree:          models.CategoryTree{},
	}
}

// Items returns the current item list.
func (s *Store) Items() []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.items
}

// Categories returns the assembled category tree.
func (s *Store) Categories() models.CategoryTree {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tree
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loading
}

// LastError returns the human-readable message of the most recent failed
// fetch, empty when the last fetch succeeded.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastError
}

func (s *Store) beginFetch() {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()
}

func (s *Store) endFetch(message string) {
	s.mu.Lock()
	s.loading = false
	s.lastError = message
	s.mu.Unlock()
}

// LoadCategories walks the three hierarchy endpoints once and assembles
// the category tree. Errors are stored as a message; a partial walk
// leaves the previously assembled tree untouched.
func (s *Store) LoadCategories(ctx context.Context) {
	s.beginFetch()

	tree := models.CategoryTree{}

	generals, err := s.categoriesAPI.General(ctx)
	if err != nil {
		logger.Log.Debugln("Error fetching general categories:", err)
		s.endFetch("failed to load categories")
		return
	}

	for _, general := range generals {
		subs, err := s.categoriesAPI.Sub(ctx, general)
		if err != nil {
			logger.Log.Debugln("Error fetching sub categories:", err)
			s.endFetch("failed to load categories")
			return
		}

		tree[general] = map[string][]string{}
		for _, sub := range subs {
			specifics, err := s.categoriesAPI.Specific(ctx, general, sub)
			if err != nil {
				logger.Log.Debugln("Error fetching specific categories:", err)
				s.endFetch("failed to load categories")
				return
			}
			tree[general][sub] = funk.UniqString(specifics)
		}
	}

	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()

	s.endFetch("")
}

// FetchItemsByCategory replaces the item list with the first page of the
// given category pair and returns it. On failure it stores a message and
// returns an empty list.
func (s *Store) FetchItemsByCategory(ctx context.Context, general, sub string) []models.Item {
	s.beginFetch()

	items, err := s.itemsAPI.ByCategory(ctx, general, sub, 0, s.pageSize)
	if err != nil {
		logger.Log.Debugln("Error fetching items by category:", err)
		s.endFetch("failed to fetch items by category")
		return []models.Item{}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.endFetch("")

	return items
}

// SearchItems replaces the item list with the search result and returns
// it, discarding whatever category filter produced the previous list.
// On failure it stores a message and returns an empty list.
func (s *Store) SearchItems(ctx context.Context, query string) []models.Item {
	s.beginFetch()

	items, err := s.itemsAPI.SearchByName(ctx, query)
	if err != nil {
		logger.Log.Debugln("Error searching items:", err)
		s.endFetch("search failed")
		return []models.Item{}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.endFetch("")

	return items
}
