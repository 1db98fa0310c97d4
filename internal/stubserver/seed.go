package stubserver

import "github.com/patric-chuzhbe/grocart/internal/models"

// seedItem couples a catalog item with its position in the category
// hierarchy. The stub derives the category endpoints from these rows.
type seedItem struct {
	item models.Item
	row  models.CategoryRow
}

func seedCatalog() []seedItem {
	return []seedItem{
		{
			item: models.Item{
				ID:       "1",
				Name:     "Milk 3% 1L",
				Category: "Fresh Milk",
				Prices:   map[string]float64{"ShopRight": 1.90, "FreshMart": 2.10, "GreenGrocer": 2.05},
				Rating:   4.6,
			},
			row: models.CategoryRow{GeneralCategory: "Dairy", SubCategory: "Milk", SpecificCategory: "Fresh Milk"},
		},
		{
			item: models.Item{
				ID:       "2",
				Name:     "Oat Milk 1L",
				Category: "Plant Milk",
				Prices:   map[string]float64{"ShopRight": 2.80, "FreshMart": 2.60},
				Rating:   4.2,
			},
			row: models.CategoryRow{GeneralCategory: "Dairy", SubCategory: "Milk", SpecificCategory: "Plant Milk"},
		},
		{
			item: models.Item{
				ID:       "3",
				Name:     "Cottage Cheese 250g",
				Category: "Soft Cheese",
				Prices:   map[string]float64{"ShopRight": 1.50, "FreshMart": 1.45, "GreenGrocer": 1.60},
				Rating:   4.8,
			},
			row: models.CategoryRow{GeneralCategory: "Dairy", SubCategory: "Cheese", SpecificCategory: "Soft Cheese"},
		},
		{
			item: models.Item{
				ID:       "4",
				Name:     "Sourdough Bread",
				Category: "Bread",
				Prices:   map[string]float64{"ShopRight": 3.20, "GreenGrocer": 2.95},
				Rating:   4.4,
			},
			row: models.CategoryRow{GeneralCategory: "Bakery", SubCategory: "Bread", SpecificCategory: "Sourdough"},
		},
		{
			item: models.Item{
				ID:       "5",
				Name:     "Whole Wheat Pita x10",
				Category: "Bread",
				Prices:   map[string]float64{"ShopRight": 1.80, "FreshMart": 1.75, "GreenGrocer": 1.85},
				Rating:   4.1,
			},
			row: models.CategoryRow{GeneralCategory: "Bakery", SubCategory: "Bread", SpecificCategory: "Pita"},
		},
		{
			item: models.Item{
				ID:       "6",
				Name:     "Tomatoes 1kg",
				Category: "Vegetables",
				Prices:   map[string]float64{"ShopRight": 1.20, "FreshMart": 1.40, "GreenGrocer": 1.10},
				Rating:   4.0,
			},
			row: models.CategoryRow{GeneralCategory: "Produce", SubCategory: "Vegetables", SpecificCategory: "Tomatoes"},
		},
		{
			item: models.Item{
				ID:       "7",
				Name:     "Cucumbers 1kg",
				Category: "Vegetables",
				Prices:   map[string]float64{"ShopRight": 0.95, "FreshMart": 1.05, "GreenGrocer": 0.90},
				Rating:   3.9,
			},
			row: models.CategoryRow{GeneralCategory: "Produce", SubCategory: "Vegetables", SpecificCategory: "Cucumbers"},
		},
		{
			item: models.Item{
				ID:       "8",
				Name:     "Bananas 1kg",
				Category: "Fruit",
				Prices:   map[string]float64{"ShopRight": 1.60, "FreshMart": 1.50, "GreenGrocer": 1.70},
				Rating:   4.3,
			},
			row: models.CategoryRow{GeneralCategory: "Produce", SubCategory: "Fruit", SpecificCategory: "Bananas"},
		},
		{
			item: models.Item{
				ID:          "9",
				Name:        "Ground Coffee 500g",
				Category:    "Coffee",
				Prices:      map[string]float64{"ShopRight": 6.90, "FreshMart": 7.20},
				Rating:      4.7,
				Description: "Medium roast, 100% arabica.",
			},
			row: models.CategoryRow{GeneralCategory: "Pantry", SubCategory: "Hot Drinks", SpecificCategory: "Coffee"},
		},
		{
			item: models.Item{
				ID:       "10",
				Name:     "Spaghetti 500g",
				Category: "Pasta",
				Prices:   map[string]float64{"ShopRight": 1.10, "FreshMart": 1.00, "GreenGrocer": 1.15},
				Rating:   4.2,
			},
			row: models.CategoryRow{GeneralCategory: "Pantry", SubCategory: "Pasta & Rice", SpecificCategory: "Pasta"},
		},
		{
			item: models.Item{
				ID:       "11",
				Name:     "Basmati Rice 1kg",
				Category: "Rice",
				Prices:   map[string]float64{"ShopRight": 2.40, "FreshMart": 2.55, "GreenGrocer": 2.35},
				Rating:   4.5,
			},
			row: models.CategoryRow{GeneralCategory: "Pantry", SubCategory: "Pasta & Rice", SpecificCategory: "Rice"},
		},
		{
			// No price mapping on purpose: exercises the client's
			// "price unavailable" rendering path.
			item: models.Item{
				ID:       "12",
				Name:     "Seasonal Strawberries 500g",
				Category: "Fruit",
				Rating:   4.9,
			},
			row: models.CategoryRow{GeneralCategory: "Produce", SubCategory: "Fruit", SpecificCategory: "Berries"},
		},
	}
}
