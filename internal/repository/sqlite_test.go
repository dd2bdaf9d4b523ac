package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"growbox_dashboard/internal/models"
	"growbox_dashboard/internal/repository"
	"growbox_dashboard/internal/repository/db"
)

// Round trip against a real SQLite file.
func TestRepository_SQLiteRoundTrip(t *testing.T) {
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "growbox.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	defer conn.Close()

	repos := repository.NewRepository(conn)
	ctx := context.Background()

	empty, err := repos.TargetRepo.Load(ctx)
	if err != nil {
		t.Fatalf("Load empty: %v", err)
	}
	if !empty.UpdatedAt.IsZero() {
		t.Fatalf("expected no targets yet, got %+v", empty)
	}

	want := models.Targets{AirHumidity: 58.5, LightOnTime: "07:15", LightOffTime: "19:45"}
	if err := repos.TargetRepo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	want.AirHumidity = 60
	if err := repos.TargetRepo.Save(ctx, want); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	got, err := repos.TargetRepo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.AirHumidity != 60 || got.LightOnTime != "07:15" || got.LightOffTime != "19:45" || got.UpdatedAt.IsZero() {
		t.Fatalf("unexpected targets: %+v", got)
	}

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, typ := range []string{models.EventLightOn, models.EventHumidifierOn, models.EventLightOff} {
		err := repos.EventRepo.Append(ctx, models.DeviceEvent{
			OccurredAt:  base.Add(time.Duration(i) * time.Minute),
			Type:        typ,
			Description: typ,
			Metadata:    map[string]any{"i": i},
		})
		if err != nil {
			t.Fatalf("Append %s: %v", typ, err)
		}
	}

	all, err := repos.EventRepo.List(ctx, models.EventQuery{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].Type != models.EventLightOn || all[2].Type != models.EventLightOff {
		t.Fatalf("unexpected events: %+v", all)
	}

	lights, err := repos.EventRepo.List(ctx, models.EventQuery{
		From:  base.Add(time.Minute),
		Types: []string{models.EventLightOn, models.EventLightOff},
	})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if len(lights) != 1 || lights[0].Description != models.EventLightOff {
		t.Fatalf("unexpected filtered events: %+v", lights)
	}
}
