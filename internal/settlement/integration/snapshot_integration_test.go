package integration_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	settlementapp "cleanops/internal/settlement/application"
	settlement "cleanops/internal/settlement/domain"
	settlementrepo "cleanops/internal/settlement/infrastructure/postgres"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func TestSnapshot_PostgresEndToEnd(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := applySnapshotMigrations(ctx, db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if err := cleanSnapshotTables(ctx, db); err != nil {
		t.Fatalf("clean tables: %v", err)
	}
	if err := seedSnapshotFixtures(ctx, db); err != nil {
		t.Fatalf("seed fixtures: %v", err)
	}

	source := settlementrepo.NewDataSource(db, settlementrepo.WithCapabilities(settlement.DefaultCapabilities()))
	service, err := settlementapp.NewSnapshotService(source, nil, settlement.DefaultCapabilities(), nil)
	if err != nil {
		t.Fatalf("snapshot service: %v", err)
	}

	snapshot, err := service.Build(ctx, settlementapp.SnapshotQuery{
		Month:      "2025-06",
		ActorRoles: []string{"admin"},
	})
	if err != nil {
		t.Fatalf("build snapshot: %v", err)
	}

	if len(snapshot.HostOptions) != 2 {
		t.Fatalf("expected 2 host options, got %d", len(snapshot.HostOptions))
	}
	// Host 2's only room ended before June: selectable but no statement.
	if len(snapshot.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(snapshot.Statements))
	}
	st := snapshot.Statements[0]
	if st.HostID != 1 {
		t.Fatalf("expected statement for host 1, got %d", st.HostID)
	}
	// Cancelled event excluded: 2 cleanings at 50000 plus one ad-hoc charge.
	if st.Totals.Cleaning != 100000 {
		t.Fatalf("expected cleaning 100000, got %f", st.Totals.Cleaning)
	}
	if st.Totals.Misc != 25000 {
		t.Fatalf("expected misc 25000, got %f", st.Totals.Misc)
	}
	if st.Totals.GrandTotal != 137500 {
		t.Fatalf("expected grand total 137500, got %f", st.Totals.GrandTotal)
	}
	for _, line := range st.Lines {
		if line.RoomLabel != "GA101" {
			t.Fatalf("expected building-prefixed room label, got %s", line.RoomLabel)
		}
	}

	scoped, err := service.Build(ctx, settlementapp.SnapshotQuery{
		Month:      "2025-06",
		ActorRoles: []string{"host"},
		RegisterNo: "123-45-67890",
	})
	if err != nil {
		t.Fatalf("build scoped snapshot: %v", err)
	}
	if len(scoped.HostOptions) != 1 || scoped.HostOptions[0].ID != 1 {
		t.Fatalf("expected register-no scope to narrow to host 1, got %+v", scoped.HostOptions)
	}
}

func applySnapshotMigrations(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS hosts (
			id BIGINT PRIMARY KEY,
			name TEXT NOT NULL,
			register_no TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS buildings (
			id BIGINT PRIMARY KEY,
			host_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			short_name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rooms (
			id BIGINT PRIMARY KEY,
			host_id BIGINT NOT NULL,
			building_id BIGINT NOT NULL,
			room_no TEXT NOT NULL,
			bed_count INT NOT NULL DEFAULT 1,
			checkout_time TEXT NOT NULL DEFAULT '11:00',
			checkin_time TEXT NOT NULL DEFAULT '15:00',
			rule_set_id BIGINT,
			closed BOOLEAN NOT NULL DEFAULT FALSE,
			start_date DATE NOT NULL,
			end_date DATE
		)`,
		`CREATE TABLE IF NOT EXISTS price_rules (
			id BIGINT PRIMARY KEY,
			rule_set_id BIGINT NOT NULL,
			seq INT NOT NULL,
			kind INT NOT NULL,
			title TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL,
			discount BOOLEAN NOT NULL DEFAULT FALSE,
			ratio BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS work_events (
			id BIGINT PRIMARY KEY,
			room_id BIGINT NOT NULL,
			date DATE NOT NULL,
			checkout_time TEXT NOT NULL DEFAULT '',
			checkin_time TEXT NOT NULL DEFAULT '',
			amenity_qty INT NOT NULL DEFAULT 0,
			blanket_qty INT NOT NULL DEFAULT 0,
			cancelled BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS adhoc_charges (
			id BIGINT PRIMARY KEY,
			room_id BIGINT NOT NULL,
			date DATE NOT NULL,
			title TEXT NOT NULL,
			amount DOUBLE PRECISION NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func cleanSnapshotTables(ctx context.Context, db *sql.DB) error {
	for _, table := range []string{"adhoc_charges", "work_events", "price_rules", "rooms", "buildings", "hosts"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func seedSnapshotFixtures(ctx context.Context, db *sql.DB) error {
	statements := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO hosts (id, name, register_no) VALUES ($1,$2,$3)`, []any{1, "Alpha Stay", "123-45-67890"}},
		{`INSERT INTO hosts (id, name, register_no) VALUES ($1,$2,$3)`, []any{2, "Beta House", "987-65-43210"}},
		{`INSERT INTO buildings (id, host_id, name, short_name) VALUES ($1,$2,$3,$4)`, []any{1, 1, "Gangnam Annex", "G"}},
		{`INSERT INTO buildings (id, host_id, name, short_name) VALUES ($1,$2,$3,$4)`, []any{2, 2, "Busan Tower", "B"}},
		{`INSERT INTO rooms (id, host_id, building_id, room_no, bed_count, rule_set_id, start_date) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			[]any{10, 1, 1, "A101", 2, 5, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}},
		{`INSERT INTO rooms (id, host_id, building_id, room_no, bed_count, rule_set_id, closed, start_date, end_date) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			[]any{20, 2, 2, "B201", 1, 5, true, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)}},
		{`INSERT INTO price_rules (id, rule_set_id, seq, kind, title, amount) VALUES ($1,$2,$3,$4,$5,$6)`,
			[]any{1, 5, 1, 1, "Cleaning", 50000.0}},
		{`INSERT INTO work_events (id, room_id, date, checkout_time, checkin_time) VALUES ($1,$2,$3,$4,$5)`,
			[]any{100, 10, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC), "11:00", "15:00"}},
		{`INSERT INTO work_events (id, room_id, date, checkout_time, checkin_time) VALUES ($1,$2,$3,$4,$5)`,
			[]any{101, 10, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), "11:00", "15:00"}},
		{`INSERT INTO work_events (id, room_id, date, checkout_time, checkin_time, cancelled) VALUES ($1,$2,$3,$4,$5,$6)`,
			[]any{102, 10, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), "11:00", "15:00", true}},
		{`INSERT INTO adhoc_charges (id, room_id, date, title, amount) VALUES ($1,$2,$3,$4,$5)`,
			[]any{200, 10, time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), "Lock replacement", 25000.0}},
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return err
		}
	}
	return nil
}
