// Package events describes what the circulation service announces after a
// command commits, and the publishers that carry those announcements.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	AssetCheckedOut Type = "asset.checked_out"
	AssetCheckedIn  Type = "asset.checked_in"
	HoldPlaced      Type = "hold.placed"
	HoldFulfilled   Type = "hold.fulfilled"
	HoldCancelled   Type = "hold.cancelled"
	AssetLost       Type = "asset.lost"
	AssetFound      Type = "asset.found"
)

const SchemaVersion = "1"

type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	AssetID    string    `json:"asset_id"`
	CardID     string    `json:"card_id,omitempty"`
	HoldID     string    `json:"hold_id,omitempty"`
	CheckoutID string    `json:"checkout_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(t Type, assetID string, at time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		AssetID:    assetID,
		OccurredAt: at,
	}
}

func (e Event) WithCard(cardID string) Event {
	e.CardID = cardID
	return e
}

func (e Event) WithHold(holdID string) Event {
	e.HoldID = holdID
	return e
}

func (e Event) WithCheckout(checkoutID string) Event {
	e.CheckoutID = checkoutID
	return e
}

func (e Event) WithStatus(status string) Event {
	e.Status = status
	return e
}

// Publisher delivers the events of one committed command, in order.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }
func (NopPublisher) Close() error                            { return nil }
