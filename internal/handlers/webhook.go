package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"

	"boutique/internal/checkout"
)

// StripeWebhook receives payment events from the provider, verifies their
// signature and hands them to the reconciliation engine. The status code
// steers redelivery: 2xx settles the event, 4xx marks the payload itself as
// unusable, 5xx asks the provider to try again later.
func StripeWebhook(engine *checkout.Engine, webhookSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /checkout/wh"
		defer handlePanic(c, route)

		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			log.Println("[WEBHOOK] [ERROR] reading body failed:", err)
			respondWithError(c, http.StatusBadRequest, route, "could not read body")
			return
		}

		event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), webhookSecret)
		if err != nil {
			log.Println("[WEBHOOK] [ERROR] signature verification failed:", err)
			respondWithError(c, http.StatusBadRequest, route, "invalid signature")
			return
		}

		evt, err := paymentEventFromStripe(event)
		if err != nil {
			log.Println("[WEBHOOK] [ERROR] event payload unreadable:", err)
			respondWithError(c, http.StatusBadRequest, route, "invalid event payload")
			return
		}

		outcome, err := engine.Process(c.Request.Context(), evt)
		if err != nil {
			respondWithError(c, webhookErrorStatus(err), route, err.Error())
			return
		}

		c.JSON(http.StatusOK, webhookResponse(event.Type, outcome))
	}
}

// paymentEventFromStripe flattens the provider's payment intent into the
// engine's event shape. The settled amount prefers amount_received and falls
// back to amount; the billing email prefers the latest charge's billing
// details and falls back to the intent's receipt email.
func paymentEventFromStripe(event stripe.Event) (checkout.PaymentEvent, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return checkout.PaymentEvent{}, err
	}

	evt := checkout.PaymentEvent{
		Type:          string(event.Type),
		PaymentRef:    intent.ID,
		Metadata:      intent.Metadata,
		BillingEmail:  intent.ReceiptEmail,
		SettledAmount: intent.AmountReceived,
	}
	if evt.SettledAmount == 0 {
		evt.SettledAmount = intent.Amount
	}
	if intent.LatestCharge != nil && intent.LatestCharge.BillingDetails != nil &&
		intent.LatestCharge.BillingDetails.Email != "" {
		evt.BillingEmail = intent.LatestCharge.BillingDetails.Email
	}
	if intent.Shipping != nil {
		shipping := &checkout.ShippingDetails{
			Name:  intent.Shipping.Name,
			Phone: intent.Shipping.Phone,
		}
		if intent.Shipping.Address != nil {
			shipping.Address = &checkout.Address{
				Country:  intent.Shipping.Address.Country,
				Postcode: intent.Shipping.Address.PostalCode,
				City:     intent.Shipping.Address.City,
				Line1:    intent.Shipping.Address.Line1,
				Line2:    intent.Shipping.Address.Line2,
				Region:   intent.Shipping.Address.State,
			}
		}
		evt.Shipping = shipping
	}
	return evt, nil
}

// webhookErrorStatus maps engine errors onto response codes. Bad payloads
// must not be redelivered, so they get 400; anything unexpected gets 500 and
// another delivery attempt.
func webhookErrorStatus(err error) int {
	var validationErr *checkout.ValidationError
	var cartErr *checkout.CartFormatError
	var productErr *checkout.ProductNotFoundError
	switch {
	case errors.As(err, &validationErr), errors.As(err, &cartErr), errors.As(err, &productErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func webhookResponse(eventType stripe.EventType, outcome checkout.Outcome) gin.H {
	switch outcome.Result {
	case checkout.ResultMatched:
		return gin.H{
			"message":     "verified order already in database",
			"type":        string(eventType),
			"orderNumber": outcome.Order.OrderNumber,
		}
	case checkout.ResultMaterialized:
		return gin.H{
			"message":     "created order in webhook",
			"type":        string(eventType),
			"orderNumber": outcome.Order.OrderNumber,
		}
	case checkout.ResultPaymentFailed:
		return gin.H{"message": "payment failure acknowledged", "type": string(eventType)}
	default:
		return gin.H{"message": "unhandled event received", "type": string(eventType)}
	}
}
