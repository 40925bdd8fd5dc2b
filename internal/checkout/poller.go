package checkout

import (
	"context"
	"errors"
	"time"

	"boutique/internal/models"
)

// Order creation on the storefront path may still be in flight when the
// payment event lands, so a missing order is retried on a short fixed
// schedule before the engine writes one itself.
const (
	pollAttempts = 5
	pollDelay    = time.Second
)

// pollForOrder looks for an order matching fp, waiting between attempts. It
// returns ErrNotFound once every attempt has missed; any other store error
// surfaces immediately.
func (e *Engine) pollForOrder(ctx context.Context, fp Fingerprint) (*models.Order, error) {
	for attempt := 1; ; attempt++ {
		order, err := e.orders.FindByFingerprint(ctx, fp)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if attempt == e.attempts {
			return nil, ErrNotFound
		}
		e.sleep(e.delay)
	}
}
