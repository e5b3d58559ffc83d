package store

import (
	"context"

	"datefinder/backend/internal/models"
	"datefinder/backend/internal/relationship"

	"gorm.io/gorm"
)

// RestaurantStore reads restaurant snapshots.
type RestaurantStore struct{ db *gorm.DB }

// Restaurants returns the restaurant store bound to s.
func (s *Store) Restaurants() relationship.RestaurantStore { return &RestaurantStore{db: s.DB} }

// FindByID returns a value copy of the restaurant with the given id.
func (r *RestaurantStore) FindByID(ctx context.Context, id uint) (relationship.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		return relationship.Restaurant{}, notFound(err, "restaurant %d", id)
	}
	return relationship.Restaurant(restaurant.Snapshot()), nil
}
