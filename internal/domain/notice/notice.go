// Package notice holds the announcements the placement cell posts for
// students: standing notices and dated events.
package notice

import (
	"context"
	"time"

	"placementcell/internal/common"
)

type Notice struct {
	ID          common.UUID `json:"id" bson:"_id"`
	Title       string      `json:"title" bson:"title"`
	Description string      `json:"description" bson:"description"`
	PostedAt    time.Time   `json:"posted_at" bson:"posted_at"`
	PostedBy    string      `json:"posted_by" bson:"posted_by"`
	IsActive    bool        `json:"is_active" bson:"is_active"`
}

// Event is a dated entry on the placement calendar. Month and Day are the
// short labels shown on the calendar tile ("Oct", "05") and always follow
// Date.
type Event struct {
	ID          common.UUID `json:"id" bson:"_id"`
	Title       string      `json:"title" bson:"title"`
	Description string      `json:"description" bson:"description"`
	Date        string      `json:"date" bson:"date"`
	Month       string      `json:"month" bson:"month"`
	Day         string      `json:"day" bson:"day"`
	PostedAt    time.Time   `json:"posted_at" bson:"posted_at"`
	PostedBy    string      `json:"posted_by" bson:"posted_by"`
	IsActive    bool        `json:"is_active" bson:"is_active"`
}

// NoticeRepository lists notices newest first.
type NoticeRepository interface {
	GetAll(ctx context.Context) ([]Notice, error)
	Get(ctx context.Context, id common.UUID) (*Notice, error)
	Save(ctx context.Context, n Notice) error
	Delete(ctx context.Context, id common.UUID) error
}

// EventRepository lists events by date, earliest first.
type EventRepository interface {
	GetAll(ctx context.Context) ([]Event, error)
	Get(ctx context.Context, id common.UUID) (*Event, error)
	Save(ctx context.Context, e Event) error
	Delete(ctx context.Context, id common.UUID) error
}
