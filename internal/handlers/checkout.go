package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"boutique/internal/checkout"
	"boutique/internal/models"
	"boutique/internal/storage"
)

type CheckoutRequest struct {
	FullName       string `json:"fullName" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone"`
	Country        string `json:"country" binding:"required"`
	Postcode       string `json:"postcode"`
	TownOrCity     string `json:"townOrCity" binding:"required"`
	StreetAddress1 string `json:"streetAddress1" binding:"required"`
	StreetAddress2 string `json:"streetAddress2"`
	County         string `json:"county"`
	CartSnapshot   string `json:"cartSnapshot" binding:"required"`
	StripePID      string `json:"stripePid" binding:"required"`
	SaveInfo       bool   `json:"saveInfo"`
}

// CreateOrder is the storefront checkout writer. It stores the exact cart
// snapshot text and payment reference it was given; the webhook engine later
// matches on both, so neither may be reformatted on the way in.
func CreateOrder(orders *storage.OrderStore, products *storage.ProductStore, profiles *storage.ProfileStore, freeDeliveryMin, deliveryPct float64) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout"
		defer handlePanic(c, route)

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		cart, err := checkout.ParseCartSnapshot(req.CartSnapshot)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx := c.Request.Context()
		pending, err := checkout.ResolveCart(ctx, products, cart)
		if err != nil {
			var notFound *checkout.ProductNotFoundError
			if errors.As(err, &notFound) {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
			log.Println("[CHECKOUT] [ERROR] cart resolution failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not price cart")
			return
		}

		orderTotal, deliveryCost, grandTotal := priceOrder(pending, freeDeliveryMin, deliveryPct)

		order := &models.Order{
			OrderNumber:    checkout.NewOrderNumber(),
			FullName:       strings.TrimSpace(req.FullName),
			Email:          strings.TrimSpace(req.Email),
			Phone:          strings.TrimSpace(req.Phone),
			Country:        strings.TrimSpace(req.Country),
			Postcode:       strings.TrimSpace(req.Postcode),
			TownOrCity:     strings.TrimSpace(req.TownOrCity),
			StreetAddress1: strings.TrimSpace(req.StreetAddress1),
			StreetAddress2: strings.TrimSpace(req.StreetAddress2),
			County:         strings.TrimSpace(req.County),
			DeliveryCost:   deliveryCost,
			OrderTotal:     orderTotal,
			GrandTotal:     grandTotal,
			OriginalCart:   req.CartSnapshot,
			StripePID:      strings.TrimSpace(req.StripePID),
			CreatedAt:      time.Now(),
		}

		if username := c.GetString("username"); username != "" {
			profile, err := profiles.FindByUsername(ctx, username)
			switch {
			case err == nil:
				order.UserProfileID = &profile.ID
				if req.SaveInfo {
					profile.SetDefaults(order.Phone, order.Country, order.Postcode,
						order.TownOrCity, order.StreetAddress1, order.StreetAddress2, order.County)
					if err := profiles.Save(ctx, profile); err != nil {
						log.Println("[CHECKOUT] [ERROR] profile save failed:", err)
					}
				}
			case !errors.Is(err, checkout.ErrNotFound):
				log.Println("[CHECKOUT] [ERROR] profile lookup failed:", err)
			}
		}

		if err := orders.Create(ctx, order); err != nil {
			log.Println("[CHECKOUT] [ERROR] order insert failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not create order")
			return
		}
		for _, p := range pending {
			item := &models.OrderLineItem{
				OrderID:   order.ID,
				ProductID: p.Product.ID,
				SKU:       p.Product.SKU,
				Quantity:  p.Quantity,
				Size:      p.Size,
				LineTotal: checkout.LineTotal(p.Product.Price, p.Quantity),
			}
			if err := orders.CreateLineItem(ctx, item); err != nil {
				log.Println("[CHECKOUT] [ERROR] line item insert failed:", err)
				if delErr := orders.DeleteLineItems(ctx, order.ID); delErr != nil {
					log.Println("[CHECKOUT] [ERROR] line item rollback failed:", delErr)
				}
				if delErr := orders.Delete(ctx, order.ID); delErr != nil {
					log.Println("[CHECKOUT] [ERROR] order rollback failed:", delErr)
				}
				respondWithError(c, http.StatusInternalServerError, route, "could not create order")
				return
			}
		}

		c.JSON(http.StatusCreated, gin.H{
			"message":     "order created",
			"orderNumber": order.OrderNumber,
			"orderTotal":  order.OrderTotal,
			"delivery":    order.DeliveryCost,
			"grandTotal":  order.GrandTotal,
		})
	}
}

// priceOrder totals the resolved cart and applies the delivery rule: carts
// under the free-delivery threshold pay a percentage of the order total.
func priceOrder(items []checkout.PendingLineItem, freeDeliveryMin, deliveryPct float64) (orderTotal, deliveryCost, grandTotal float64) {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(checkout.LineTotal(item.Product.Price, item.Quantity)))
	}

	delivery := decimal.Zero
	if total.LessThan(decimal.NewFromFloat(freeDeliveryMin)) {
		delivery = total.
			Mul(decimal.NewFromFloat(deliveryPct)).
			Div(decimal.NewFromInt(100)).
			Round(2)
	}

	orderTotal, _ = total.Round(2).Float64()
	deliveryCost, _ = delivery.Float64()
	grandTotal, _ = total.Add(delivery).Round(2).Float64()
	return orderTotal, deliveryCost, grandTotal
}

// GetOrder returns one order with its line items, looked up by the
// shopper-facing order number from the confirmation email.
func GetOrder(orders *storage.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /checkout/orders/:orderNumber"
		defer handlePanic(c, route)

		number := strings.ToUpper(strings.TrimSpace(c.Param("orderNumber")))
		if number == "" {
			respondWithError(c, http.StatusBadRequest, route, "order number is required")
			return
		}

		ctx := c.Request.Context()
		order, err := orders.FindByNumber(ctx, number)
		if errors.Is(err, checkout.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			log.Println("[CHECKOUT] [ERROR] order lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not load order")
			return
		}

		items, err := orders.ListLineItems(ctx, order.ID)
		if err != nil {
			log.Println("[CHECKOUT] [ERROR] line item lookup failed:", err)
			respondWithError(c, http.StatusInternalServerError, route, "could not load order")
			return
		}

		c.JSON(http.StatusOK, gin.H{"order": order, "lineItems": items})
	}
}
