package handler

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"datefinder/backend/internal/geo"
	"datefinder/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// region --- DTOs ---

type RestaurantInput struct {
	Name         string            `json:"name" binding:"required"`
	City         string            `json:"city" binding:"required"`
	OpenTableURL string            `json:"open_table_url" binding:"omitempty,url"`
	ReviewRating float64           `json:"review_rating" binding:"min=0,max=5"`
	PriceRating  string            `json:"price_rating" binding:"required,oneof=$ $$ $$$ $$$$"`
	Category     string            `json:"category" binding:"required"`
	Lat          float64           `json:"lat" binding:"min=-90,max=90"`
	Long         float64           `json:"long" binding:"min=-180,max=180"`
	TopMenuItems []models.MenuItem `json:"top_menu_items"`
}

type RestaurantResponse struct {
	ID           uint              `json:"id"`
	Name         string            `json:"name"`
	City         string            `json:"city"`
	OpenTableURL string            `json:"open_table_url,omitempty"`
	ReviewRating float64           `json:"review_rating"`
	PriceRating  string            `json:"price_rating"`
	Category     string            `json:"category"`
	Lat          float64           `json:"lat"`
	Long         float64           `json:"long"`
	TopMenuItems []models.MenuItem `json:"top_menu_items"`
	// DistanceKm is only set by the discover endpoint.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

func newRestaurantResponse(r models.Restaurant) RestaurantResponse {
	items := []models.MenuItem(r.TopMenuItems)
	if items == nil {
		items = []models.MenuItem{}
	}
	return RestaurantResponse{
		ID:           r.ID,
		Name:         r.Name,
		City:         r.City,
		OpenTableURL: r.OpenTableURL,
		ReviewRating: r.ReviewRating,
		PriceRating:  string(r.PriceRating),
		Category:     r.Category,
		Lat:          r.Lat,
		Long:         r.Long,
		TopMenuItems: items,
	}
}

func (in RestaurantInput) apply(r *models.Restaurant) {
	r.Name = in.Name
	r.City = in.City
	r.OpenTableURL = in.OpenTableURL
	r.ReviewRating = in.ReviewRating
	r.PriceRating = models.PriceRating(in.PriceRating)
	r.Category = in.Category
	r.Lat = in.Lat
	r.Long = in.Long
	r.TopMenuItems = datatypes.JSONSlice[models.MenuItem](in.TopMenuItems)
}

// PaginatedRestaurantResponse defines the structure for a paginated list of restaurants.
type PaginatedRestaurantResponse struct {
	Data []RestaurantResponse `json:"data"`
	Meta PaginationMeta       `json:"meta"`
}

// endregion

// region --- Admin Handlers ---

// CreateRestaurant godoc
// @Summary      Create a new restaurant
// @Tags         admin-restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RestaurantInput true "Restaurant Info"
// @Success      201  {object}  RestaurantResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/restaurants [post]
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var input RestaurantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var restaurant models.Restaurant
	input.apply(&restaurant)
	if err := h.db.Create(&restaurant).Error; err != nil {
		h.log.Error("failed to create restaurant", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create restaurant"})
		return
	}

	c.JSON(http.StatusCreated, newRestaurantResponse(restaurant))
}

// UpdateRestaurant godoc
// @Summary      Update a restaurant
// @Description  Replaces a restaurant's details. Dates already scheduled keep their copy.
// @Tags         admin-restaurants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Restaurant ID"
// @Param        input body      RestaurantInput true  "New Restaurant Info"
// @Success      200   {object}  RestaurantResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "Restaurant not found"
// @Router       /admin/restaurants/{id} [put]
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := h.db.First(&restaurant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load restaurant"})
		return
	}

	var input RestaurantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input.apply(&restaurant)
	if err := h.db.Save(&restaurant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update restaurant"})
		return
	}

	c.JSON(http.StatusOK, newRestaurantResponse(restaurant))
}

// DeleteRestaurant godoc
// @Summary      Delete a restaurant
// @Tags         admin-restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Restaurant ID"
// @Success      200 {object} map[string]string "{"message": "Restaurant deleted"}"
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      404 {object} ErrorResponse "Restaurant not found"
// @Router       /admin/restaurants/{id} [delete]
func (h *Handler) DeleteRestaurant(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	result := h.db.Delete(&models.Restaurant{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete restaurant"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted"})
}

// endregion

// region --- Public Handlers ---

// GetRestaurantByID godoc
// @Summary      Get a single restaurant by ID
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Restaurant ID"
// @Success      200 {object} RestaurantResponse
// @Failure      404 {object} ErrorResponse "Restaurant not found"
// @Router       /restaurants/{id} [get]
func (h *Handler) GetRestaurantByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var restaurant models.Restaurant
	if err := h.db.First(&restaurant, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	c.JSON(http.StatusOK, newRestaurantResponse(restaurant))
}

// GetRestaurants godoc
// @Summary      Get a list of restaurants
// @Description  Retrieves a paginated list of restaurants, optionally filtered by city and category.
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        city     query     string  false  "City"
// @Param        category query     string  false  "Category"
// @Param        page     query     int     false  "Page number" default(1)
// @Param        limit    query     int     false  "Items per page" default(10)
// @Success      200 {object} PaginatedRestaurantResponse
// @Router       /restaurants [get]
func (h *Handler) GetRestaurants(c *gin.Context) {
	page, limit := pageParams(c)

	dbQuery := h.db.Model(&models.Restaurant{})
	if city := c.Query("city"); city != "" {
		dbQuery = dbQuery.Where("city = ?", city)
	}
	if category := c.Query("category"); category != "" {
		dbQuery = dbQuery.Where("category = ?", category)
	}

	result, err := Paginate[models.Restaurant](dbQuery.Order("review_rating DESC, id"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve restaurants"})
		return
	}

	c.JSON(http.StatusOK, mapPage(result, newRestaurantResponse))
}

// DiscoverRestaurants godoc
// @Summary      Find restaurants nearby
// @Description  Returns restaurants within radius kilometres of a point, nearest first.
// @Tags         restaurants
// @Produce      json
// @Security     BearerAuth
// @Param        lat      query     number  true   "Latitude"
// @Param        long     query     number  true   "Longitude"
// @Param        radius   query     number  false  "Radius in km" default(10)
// @Param        category query     string  false  "Category"
// @Success      200 {array}  RestaurantResponse
// @Failure      400 {object} ErrorResponse
// @Router       /restaurants/discover [get]
func (h *Handler) DiscoverRestaurants(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	long, longErr := strconv.ParseFloat(c.Query("long"), 64)
	if latErr != nil || longErr != nil || lat < -90 || lat > 90 || long < -180 || long > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Valid 'lat' and 'long' query parameters are required"})
		return
	}
	radius, err := strconv.ParseFloat(c.DefaultQuery("radius", "10"), 64)
	if err != nil || radius <= 0 || radius > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'radius' must be between 0 and 500 km"})
		return
	}

	minLat, maxLat, minLong, maxLong := geo.BoundingBox(lat, long, radius)
	dbQuery := h.db.Where("lat BETWEEN ? AND ? AND long BETWEEN ? AND ?", minLat, maxLat, minLong, maxLong)
	if category := c.Query("category"); category != "" {
		dbQuery = dbQuery.Where("category = ?", category)
	}

	var candidates []models.Restaurant
	if err := dbQuery.Find(&candidates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve restaurants"})
		return
	}

	response := make([]RestaurantResponse, 0, len(candidates))
	for _, r := range candidates {
		d := geo.DistanceKm(lat, long, r.Lat, r.Long)
		if d > radius {
			continue
		}
		resp := newRestaurantResponse(r)
		resp.DistanceKm = &d
		response = append(response, resp)
	}
	sort.SliceStable(response, func(i, j int) bool {
		return *response[i].DistanceKm < *response[j].DistanceKm
	})

	c.JSON(http.StatusOK, response)
}

// endregion
