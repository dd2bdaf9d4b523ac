package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"growbox_dashboard/internal/models"

	"github.com/google/uuid"
)

// sqliteTimestamp is the layout occurred_at is stored with.
const sqliteTimestamp = "2006-01-02 15:04:05"

const insertEventSQL = `
		INSERT INTO device_events (id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?)
	`

const selectEventsSQL = `SELECT id, occurred_at, type, message, meta FROM device_events`

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// Append inserts e, filling in a missing id and timestamp.
func (r *EventSQLite) Append(ctx context.Context, e models.DeviceEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	var meta *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			meta = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.OccurredAt.UTC().Format(sqliteTimestamp),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.Description,
		meta,
	)
	return err
}

// List returns the events matching q, oldest first.
func (r *EventSQLite) List(ctx context.Context, q models.EventQuery) ([]models.DeviceEvent, error) {
	query, args := buildEventQuery(q)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.DeviceEvent, 0, 64)
	for rows.Next() {
		var ev models.DeviceEvent
		var meta sql.NullString
		if err := rows.Scan(&ev.EventID, &ev.OccurredAt, &ev.Type, &ev.Description, &meta); err != nil {
			return nil, err
		}
		ev.OccurredAt = ev.OccurredAt.UTC()
		if meta.Valid && meta.String != "" {
			var v any
			if err := json.Unmarshal([]byte(meta.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = meta.String
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// buildEventQuery renders q as SQL. Bounds are compared in the stored
// timestamp layout.
func buildEventQuery(q models.EventQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if !q.From.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, q.From.UTC().Format(sqliteTimestamp))
	}
	if !q.To.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, q.To.UTC().Format(sqliteTimestamp))
	}
	if len(q.Types) > 0 {
		conds = append(conds, "type IN (?"+strings.Repeat(", ?", len(q.Types)-1)+")")
		for _, t := range q.Types {
			args = append(args, strings.ToUpper(strings.TrimSpace(t)))
		}
	}

	query := selectEventsSQL
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	return query + " ORDER BY occurred_at ASC", args
}
