package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"growbox_dashboard/internal/models"
)

type TargetSQLite struct {
	db *sql.DB
}

func NewTargetSQLite(db *sql.DB) *TargetSQLite {
	return &TargetSQLite{db: db}
}

const (
	targetsRowID = 1

	upsertTargetsSQL = `
		INSERT INTO targets (id, air_humidity, light_on, light_off, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			air_humidity=excluded.air_humidity,
			light_on=excluded.light_on,
			light_off=excluded.light_off,
			updated_at=excluded.updated_at
	`

	selectTargetsSQL = `
		SELECT air_humidity, light_on, light_off, updated_at
		FROM targets WHERE id=?
	`
)

// Save writes the targets row. A zero UpdatedAt is replaced by now; times are stored in UTC.
func (r *TargetSQLite) Save(ctx context.Context, t models.Targets) error {
	ts := t.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.ExecContext(ctx, upsertTargetsSQL,
		targetsRowID,
		t.AirHumidity,
		t.LightOnTime,
		t.LightOffTime,
		ts.UTC(),
	)
	return err
}

func (r *TargetSQLite) Load(ctx context.Context) (models.Targets, error) {
	var t models.Targets
	err := r.db.QueryRowContext(ctx, selectTargetsSQL, targetsRowID).Scan(
		&t.AirHumidity,
		&t.LightOnTime,
		&t.LightOffTime,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Targets{}, nil
		}
		return models.Targets{}, err
	}
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}
