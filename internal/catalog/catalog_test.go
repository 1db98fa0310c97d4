package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/grocart/internal/models"
)

type fakeItemsAPI struct {
	byName     map[string][]models.Item
	byCategory map[string][]models.Item
	failed     bool
}

func (f *fakeItemsAPI) SearchByName(_ context.Context, name string) ([]models.Item, error) {
	if f.failed {
		return nil, errors.New("network down")
	}
	return f.byName[name], nil
}

func (f *fakeItemsAPI) ByCategory(_ context.Context, general, sub string, _, _ int) ([]models.Item, error) {
	if f.failed {
		return nil, errors.New("network down")
	}
	return f.byCategory[general+"/"+sub], nil
}

type fakeCategoriesAPI struct {
	rows   []models.CategoryRow
	failed bool
}

func (f *fakeCategoriesAPI) General(_ context.Context) ([]string, error) {
	if f.failed {
		return nil, errors.New("network down")
	}
	var generals []string
	seen := map[string]bool{}
	for _, row := range f.rows {
		if !seen[row.GeneralCategory] {
			generals = append(generals, row.GeneralCategory)
			seen[row.GeneralCategory] = true
		}
	}
	return generals, nil
}

func (f *fakeCategoriesAPI) Sub(_ context.Context, general string) ([]string, error) {
	var subs []string
	seen := map[string]bool{}
	for _, row := range f.rows {
		if row.GeneralCategory == general && !seen[row.SubCategory] {
			subs = append(subs, row.SubCategory)
			seen[row.SubCategory] = true
		}
	}
	return subs, nil
}

func (f *fakeCategoriesAPI) Specific(_ context.Context, general, sub string) ([]string, error) {
	var specifics []string
	for _, row := range f.rows {
		if row.GeneralCategory == general && row.SubCategory == sub {
			specifics = append(specifics, row.SpecificCategory)
		}
	}
	return specifics, nil
}

func dairyItems() []models.Item {
	return []models.Item{
		{ID: "1", Name: "Milk", Prices: map[string]float64{"ShopA": 2}},
		{ID: "2", Name: "Yogurt", Prices: map[string]float64{"ShopA": 1.5}},
	}
}

func milkSearchResult() []models.Item {
	return []models.Item{
		{ID: "1", Name: "Milk", Prices: map[string]float64{"ShopA": 2}},
	}
}

func TestSearchReplacesCategoryResults(t *testing.T) {
	itemsAPI := &fakeItemsAPI{
		byName:     map[string][]models.Item{"milk": milkSearchResult()},
		byCategory: map[string][]models.Item{"Dairy/Milk": dairyItems()},
	}
	store := New(itemsAPI, &fakeCategoriesAPI{}, 10)
	ctx := context.Background()

	fetched := store.FetchItemsByCategory(ctx, "Dairy", "Milk")
	require.Len(t, fetched, 2)
	require.Len(t, store.Items(), 2)

	// A search must replace the list wholesale, discarding the category
	// filter results.
	found := store.SearchItems(ctx, "milk")
	require.Len(t, found, 1)
	assert.Equal(t, milkSearchResult(), store.Items())
}

func TestFetchErrorYieldsEmptyListAndMessage(t *testing.T) {
	store := New(&fakeItemsAPI{failed: true}, &fakeCategoriesAPI{}, 10)

	fetched := store.FetchItemsByCategory(context.Background(), "Dairy", "Milk")

	assert.Empty(t, fetched)
	assert.NotEmpty(t, store.LastError())
	assert.False(t, store.Loading())
}

func TestSearchErrorYieldsEmptyListAndMessage(t *testing.T) {
	store := New(&fakeItemsAPI{failed: true}, &fakeCategoriesAPI{}, 10)

	found := store.SearchItems(context.Background(), "milk")

	assert.Empty(t, found)
	assert.Equal(t, "search failed", store.LastError())
}

func TestSuccessClearsPreviousError(t *testing.T) {
	itemsAPI := &fakeItemsAPI{failed: true}
	store := New(itemsAPI, &fakeCategoriesAPI{}, 10)
	ctx := context.Background()

	store.SearchItems(ctx, "milk")
	require.NotEmpty(t, store.LastError())

	itemsAPI.failed = false
	itemsAPI.byName = map[string][]models.Item{"milk": milkSearchResult()}
	store.SearchItems(ctx, "milk")
	assert.Empty(t, store.LastError())
}

func TestLoadCategoriesBuildsTree(t *testing.T) {
	categoriesAPI := &fakeCategoriesAPI{
		rows: []models.CategoryRow{
			{GeneralCategory: "Dairy", SubCategory: "Milk", SpecificCategory: "Fresh Milk"},
			{GeneralCategory: "Dairy", SubCategory: "Milk", SpecificCategory: "Plant Milk"},
			{GeneralCategory: "Dairy", SubCategory: "Cheese", SpecificCategory: "Soft Cheese"},
			{GeneralCategory: "Produce", SubCategory: "Fruit", SpecificCategory: "Bananas"},
		},
	}
	store := New(&fakeItemsAPI{}, categoriesAPI, 10)

	store.LoadCategories(context.Background())

	require.Empty(t, store.LastError())
	tree := store.Categories()
	require.Len(t, tree, 2)
	assert.ElementsMatch(t, []string{"Fresh Milk", "Plant Milk"}, tree["Dairy"]["Milk"])
	assert.ElementsMatch(t, []string{"Soft Cheese"}, tree["Dairy"]["Cheese"])
	assert.ElementsMatch(t, []string{"Bananas"}, tree["Produce"]["Fruit"])
}

func TestLoadCategoriesErrorKeepsPreviousTree(t *testing.T) {
	categoriesAPI := &fakeCategoriesAPI{
		rows: []models.CategoryRow{
			{GeneralCategory: "Dairy", SubCategory: "Milk", SpecificCategory: "Fresh Milk"},
		},
	}
	store := New(&fakeItemsAPI{}, categoriesAPI, 10)
	ctx := context.Background()

	store.LoadCategories(ctx)
	require.Len(t, store.Categories(), 1)

	categoriesAPI.failed = true
	store.LoadCategories(ctx)

	assert.NotEmpty(t, store.LastError())
	assert.Len(t, store.Categories(), 1)
}
