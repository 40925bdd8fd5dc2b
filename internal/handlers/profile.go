package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"boutique/internal/checkout"
	"boutique/internal/storage"
)

type UpdateProfileRequest struct {
	DefaultPhone          string `json:"defaultPhone"`
	DefaultCountry        string `json:"defaultCountry"`
	DefaultPostcode       string `json:"defaultPostcode"`
	DefaultTownOrCity     string `json:"defaultTownOrCity"`
	DefaultStreetAddress1 string `json:"defaultStreetAddress1"`
	DefaultStreetAddress2 string `json:"defaultStreetAddress2"`
	DefaultCounty         string `json:"defaultCounty"`
}

// GetProfile returns the signed-in shopper's delivery defaults.
func GetProfile(profiles *storage.ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /profile"
		defer handlePanic(c, route)

		profile, err := profiles.FindByUsername(c.Request.Context(), c.GetString("username"))
		if errors.Is(err, checkout.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "profile not found")
			return
		}
		if err != nil {
			log.Println("[PROFILE] [ERROR] lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not load profile")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": profile})
	}
}

// UpdateProfile replaces the shopper's delivery defaults.
func UpdateProfile(profiles *storage.ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /profile"
		defer handlePanic(c, route)

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx := c.Request.Context()
		username := c.GetString("username")
		profile, err := profiles.FindByUsername(ctx, username)
		if errors.Is(err, checkout.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "profile not found")
			return
		}
		if err != nil {
			log.Println("[PROFILE] [ERROR] lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not load profile")
			return
		}

		profile.SetDefaults(req.DefaultPhone, req.DefaultCountry, req.DefaultPostcode,
			req.DefaultTownOrCity, req.DefaultStreetAddress1, req.DefaultStreetAddress2, req.DefaultCounty)
		if err := profiles.Save(ctx, profile); err != nil {
			log.Println("[PROFILE] [ERROR] save failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not update profile")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": profile})
	}
}

// GetProfileOrders returns the shopper's order history, newest first. Both
// storefront orders and webhook-materialized orders show up here as long as
// the event carried the username.
func GetProfileOrders(orders *storage.OrderStore, profiles *storage.ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /profile/orders"
		defer handlePanic(c, route)

		ctx := c.Request.Context()
		profile, err := profiles.FindByUsername(ctx, c.GetString("username"))
		if errors.Is(err, checkout.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "profile not found")
			return
		}
		if err != nil {
			log.Println("[PROFILE] [ERROR] lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not load profile")
			return
		}

		history, err := orders.ListByProfile(ctx, profile.ID)
		if err != nil {
			log.Println("[PROFILE] [ERROR] order history failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not load orders")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": history})
	}
}
