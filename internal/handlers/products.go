package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"boutique/internal/checkout"
	"boutique/internal/storage"
)

// GetProducts lists the catalog, optionally narrowed to one category.
func GetProducts(products *storage.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination parameters")
			return
		}

		list, err := products.List(c.Request.Context(), strings.TrimSpace(c.Query("category")), page, limit)
		if err != nil {
			log.Println("[PRODUCTS] [ERROR] list failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not list products")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": list, "page": page, "limit": limit})
	}
}

// GetProduct returns a single product by object id.
func GetProduct(products *storage.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param("id")))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid product id")
			return
		}

		product, err := products.FindByID(c.Request.Context(), id)
		if errors.Is(err, checkout.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			log.Println("[PRODUCTS] [ERROR] lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not load product")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": product})
	}
}

// GetCategories lists the category names the storefront can filter by.
func GetCategories(products *storage.ProductStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		categories, err := products.ListCategories(c.Request.Context())
		if err != nil {
			log.Println("[PRODUCTS] [ERROR] categories failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not list categories")
			return
		}

		c.JSON(http.StatusOK, gin.H{"data": categories})
	}
}

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errors.New("invalid page")
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 || l > 100 {
			return 0, 0, errors.New("invalid limit")
		}
		limit = l
	}

	return page, limit, nil
}
