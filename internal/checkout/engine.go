package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"boutique/internal/models"
)

// Result says how the engine disposed of a payment event.
type Result int

const (
	// ResultIgnored means the event type is not one the engine handles.
	ResultIgnored Result = iota
	// ResultPaymentFailed means the provider reported a failed payment and
	// the event was acknowledged without side effects.
	ResultPaymentFailed
	// ResultMatched means an order written by the storefront checkout was
	// found, so the event only confirmed it.
	ResultMatched
	// ResultMaterialized means no matching order existed and the engine
	// created one from the event's cart snapshot.
	ResultMaterialized
)

// Outcome is the engine's answer for one event delivery. Order is set for
// ResultMatched and ResultMaterialized.
type Outcome struct {
	Result Result
	Order  *models.Order
}

// Engine reconciles payment events against locally created orders. It is
// safe for concurrent use; each Process call is independent.
type Engine struct {
	orders   OrderStore
	products ProductStore
	profiles ProfileStore
	notifier Notifier
	log      *slog.Logger

	// Poll settings are fixed in production and overridden in tests.
	attempts int
	delay    time.Duration
	sleep    func(time.Duration)
}

// NewEngine wires the engine to its collaborators.
func NewEngine(orders OrderStore, products ProductStore, profiles ProfileStore, notifier Notifier, logger *slog.Logger) *Engine {
	return &Engine{
		orders:   orders,
		products: products,
		profiles: profiles,
		notifier: notifier,
		log:      logger,
		attempts: pollAttempts,
		delay:    pollDelay,
		sleep:    time.Sleep,
	}
}

// Process reconciles one delivery of a payment event. It detaches from the
// caller's cancellation first thing: once a delivery is accepted, the order
// write must run to completion even if the provider hangs up mid-poll.
//
// Errors out of Process describe why the delivery was rejected; redeliveries
// of an already-reconciled event converge on ResultMatched.
func (e *Engine) Process(ctx context.Context, evt PaymentEvent) (Outcome, error) {
	ctx = context.WithoutCancel(ctx)

	switch evt.Kind() {
	case KindPaymentSucceeded:
		return e.reconcile(ctx, evt)
	case KindPaymentFailed:
		e.log.Info("payment failed event acknowledged", "type", evt.Type, "paymentRef", evt.PaymentRef)
		return Outcome{Result: ResultPaymentFailed}, nil
	default:
		e.log.Info("unhandled event type", "type", evt.Type, "paymentRef", evt.PaymentRef)
		return Outcome{Result: ResultIgnored}, nil
	}
}

func (e *Engine) reconcile(ctx context.Context, evt PaymentEvent) (Outcome, error) {
	validated, err := ValidateEvent(evt)
	if err != nil {
		e.log.Error("payment event rejected", "type", evt.Type, "paymentRef", evt.PaymentRef, "err", err)
		return Outcome{}, err
	}

	fp := ExtractFingerprint(validated)
	profile := e.applyProfile(ctx, validated)

	order, err := e.pollForOrder(ctx, fp)
	switch {
	case err == nil:
		e.log.Info("order already present", "paymentRef", fp.PaymentRef, "orderNumber", order.OrderNumber)
		e.notify(ctx, order)
		return Outcome{Result: ResultMatched, Order: order}, nil
	case !errors.Is(err, ErrNotFound):
		e.log.Error("order lookup failed", "paymentRef", fp.PaymentRef, "err", err)
		return Outcome{}, fmt.Errorf("order lookup: %w", err)
	}

	order, err = e.materialize(ctx, fp, validated.CartSnapshot, profile)
	if err != nil {
		e.log.Error("order materialization aborted", "paymentRef", fp.PaymentRef, "err", err)
		return Outcome{}, err
	}

	e.log.Info("order created from event", "paymentRef", fp.PaymentRef, "orderNumber", order.OrderNumber)
	e.notify(ctx, order)
	return Outcome{Result: ResultMaterialized, Order: order}, nil
}

// applyProfile resolves the event's username to a profile and, when the
// shopper asked for it, writes the shipping details back as profile defaults.
// Every failure here is logged and swallowed: profile upkeep must never block
// the order write.
func (e *Engine) applyProfile(ctx context.Context, evt ValidatedEvent) *models.UserProfile {
	if evt.Username == "" {
		return nil
	}
	profile, err := e.profiles.FindByUsername(ctx, evt.Username)
	if errors.Is(err, ErrNotFound) {
		e.log.Info("no profile for event username", "username", evt.Username, "paymentRef", evt.PaymentRef)
		return nil
	}
	if err != nil {
		e.log.Error("profile lookup failed", "username", evt.Username, "paymentRef", evt.PaymentRef, "err", err)
		return nil
	}
	if evt.SaveInfo {
		profile.SetDefaults(evt.ShippingPhone, evt.Address.Country, evt.Address.Postcode,
			evt.Address.City, evt.Address.Line1, evt.Address.Line2, evt.Address.Region)
		if err := e.profiles.Save(ctx, profile); err != nil {
			e.log.Error("profile save failed", "username", evt.Username, "paymentRef", evt.PaymentRef, "err", err)
		}
	}
	return profile
}

func (e *Engine) notify(ctx context.Context, order *models.Order) {
	if err := e.notifier.SendConfirmation(ctx, order); err != nil {
		e.log.Error("confirmation send failed", "orderNumber", order.OrderNumber, "email", order.Email, "err", err)
	}
}
