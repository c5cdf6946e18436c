// Package events publishes budget-change notifications for listening views.
//
// Delivery is best effort: a mutation that succeeded never fails because
// the notification could not be published.
package events

import (
	"context"

	"github.com/careplan/backend/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Publisher broadcasts that the budget of a client and year changed.
type Publisher interface {
	PublishBudgetChanged(ctx context.Context, clientID uuid.UUID, year types.FiscalYear) error
	Close() error
}

// Default is the publisher used by PublishBudgetChanged. It is set in main
// and replaced with a nop publisher when no broker is configured.
var Default Publisher = NopPublisher{}

// PublishBudgetChanged publishes a budget-change notification through the
// Default publisher, fire-and-forget. Errors are logged, never returned.
func PublishBudgetChanged(ctx context.Context, clientID uuid.UUID, year types.FiscalYear) {
	err := Default.PublishBudgetChanged(ctx, clientID, year)
	if err != nil {
		log.Error().
			Err(err).
			Str("clientId", clientID.String()).
			Str("year", year.String()).
			Msg("budget change notification failed")
	}
}

// NopPublisher drops all notifications.
type NopPublisher struct{}

func (NopPublisher) PublishBudgetChanged(_ context.Context, _ uuid.UUID, _ types.FiscalYear) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
