package repository

import (
	"context"
	"database/sql"

	"growbox_dashboard/internal/models"
)

// TargetRepo persists the single row of control targets.
type TargetRepo interface {
	Save(ctx context.Context, t models.Targets) error
	// Load returns the zero Targets when nothing was saved yet.
	Load(ctx context.Context) (models.Targets, error)
}

// EventRepo is the append-only actuation log.
type EventRepo interface {
	Append(ctx context.Context, e models.DeviceEvent) error
	List(ctx context.Context, q models.EventQuery) ([]models.DeviceEvent, error)
}

type Repository struct {
	TargetRepo TargetRepo
	EventRepo  EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		TargetRepo: NewTargetSQLite(db),
		EventRepo:  NewEventSQLite(db),
	}
}
