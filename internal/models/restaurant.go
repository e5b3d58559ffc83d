package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PriceRating is the "$" to "$$$$" price band of a restaurant.
type PriceRating string

const (
	PriceLow     PriceRating = "$"
	PriceMedium  PriceRating = "$$"
	PriceHigh    PriceRating = "$$$"
	PriceWealthy PriceRating = "$$$$"
)

// MenuItem is one of a restaurant's highlighted dishes.
type MenuItem struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	MenuCategory string  `json:"menu_category"`
	IsVegan      bool    `json:"is_vegan"`
	FoodCategory string  `json:"food_category"`
}

// Restaurant represents a venue dates can be scheduled at.
type Restaurant struct {
	gorm.Model
	Name         string      `gorm:"size:255;not null"`
	City         string      `gorm:"size:255;not null;index"`
	OpenTableURL string      `gorm:"size:512"`
	ReviewRating float64     `gorm:"not null;default:0"`
	PriceRating  PriceRating `gorm:"size:4;not null"`
	Category     string      `gorm:"size:50;not null;index"`
	Lat          float64     `gorm:"not null"`
	Long         float64     `gorm:"not null"`

	TopMenuItems datatypes.JSONSlice[MenuItem]
}

// Snapshot copies the restaurant's current fields into a value that can be
// embedded in other records.
func (r Restaurant) Snapshot() RestaurantSnapshot {
	return RestaurantSnapshot{
		ID:           r.ID,
		Name:         r.Name,
		City:         r.City,
		OpenTableURL: r.OpenTableURL,
		ReviewRating: r.ReviewRating,
		PriceRating:  string(r.PriceRating),
		Category:     r.Category,
		Lat:          r.Lat,
		Long:         r.Long,
	}
}

// RestaurantSnapshot is the denormalized copy of a restaurant stored on a
// scheduled date. It is never updated after the date is created.
type RestaurantSnapshot struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	City         string  `json:"city"`
	OpenTableURL string  `json:"open_table_url,omitempty"`
	ReviewRating float64 `json:"review_rating"`
	PriceRating  string  `json:"price_rating"`
	Category     string  `json:"category"`
	Lat          float64 `json:"lat"`
	Long         float64 `json:"long"`
}
