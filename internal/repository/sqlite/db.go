// Package sqlite stores local save slots and the simulation archive in a
// single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
)

// Store wraps a SQLite connection.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the database at path. ":memory:" is accepted for tests.
func Open(path string) (*Store, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	if path == ":memory:" {
		dsn = path
	}
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS save_slots (
		player_id TEXT NOT NULL,
		slot TEXT NOT NULL,
		campaign_id TEXT NOT NULL,
		faction_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		world BLOB NOT NULL,
		saved_at INTEGER NOT NULL,
		PRIMARY KEY (player_id, slot)
	);

	CREATE TABLE IF NOT EXISTS simulation_runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		faction_id TEXT NOT NULL,
		turns INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		cities INTEGER NOT NULL,
		battles INTEGER NOT NULL,
		duels INTEGER NOT NULL,
		finished_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_finished ON simulation_runs(finished_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

type slotRow struct {
	PlayerID   string `db:"player_id"`
	Slot       string `db:"slot"`
	CampaignID string `db:"campaign_id"`
	FactionID  string `db:"faction_id"`
	Turn       int    `db:"turn"`
	World      []byte `db:"world"`
	SavedAt    int64  `db:"saved_at"`
}

func (r slotRow) model() model.SaveSlot {
	return model.SaveSlot{
		PlayerID:   r.PlayerID,
		Slot:       r.Slot,
		CampaignID: r.CampaignID,
		FactionID:  r.FactionID,
		Turn:       r.Turn,
		World:      json.RawMessage(r.World),
		SavedAt:    time.UnixMilli(r.SavedAt).UTC(),
	}
}

// PutSlot writes a save slot, replacing any previous save under the same name.
func (s *Store) PutSlot(ctx context.Context, slot model.SaveSlot) error {
	if slot.SavedAt.IsZero() {
		slot.SavedAt = time.Now()
	}
	_, err := s.conn.NamedExecContext(ctx,
		`INSERT INTO save_slots (player_id, slot, campaign_id, faction_id, turn, world, saved_at)
		 VALUES (:player_id, :slot, :campaign_id, :faction_id, :turn, :world, :saved_at)
		 ON CONFLICT (player_id, slot) DO UPDATE SET
		   campaign_id = excluded.campaign_id, faction_id = excluded.faction_id,
		   turn = excluded.turn, world = excluded.world, saved_at = excluded.saved_at`,
		slotRow{
			PlayerID:   slot.PlayerID,
			Slot:       slot.Slot,
			CampaignID: slot.CampaignID,
			FactionID:  slot.FactionID,
			Turn:       slot.Turn,
			World:      []byte(slot.World),
			SavedAt:    slot.SavedAt.UnixMilli(),
		})
	if err != nil {
		return fmt.Errorf("put slot: %w", err)
	}
	return nil
}

// GetSlot returns a save slot with its world, or nil when absent.
func (s *Store) GetSlot(ctx context.Context, playerID, slot string) (*model.SaveSlot, error) {
	var row slotRow
	err := s.conn.GetContext(ctx, &row,
		`SELECT * FROM save_slots WHERE player_id = ? AND slot = ?`, playerID, slot)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	m := row.model()
	return &m, nil
}

// ListSlots returns a player's saves without world blobs, newest first.
func (s *Store) ListSlots(ctx context.Context, playerID string) ([]model.SaveSlot, error) {
	var rows []slotRow
	err := s.conn.SelectContext(ctx, &rows,
		`SELECT player_id, slot, campaign_id, faction_id, turn, x'' AS world, saved_at
		 FROM save_slots WHERE player_id = ? ORDER BY saved_at DESC, slot`, playerID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	slots := make([]model.SaveSlot, 0, len(rows))
	for _, r := range rows {
		m := r.model()
		m.World = nil
		slots = append(slots, m)
	}
	return slots, nil
}

// DeleteSlot removes a save slot. Deleting a missing slot is not an error.
func (s *Store) DeleteSlot(ctx context.Context, playerID, slot string) error {
	if _, err := s.conn.ExecContext(ctx,
		`DELETE FROM save_slots WHERE player_id = ? AND slot = ?`, playerID, slot); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

type runRow struct {
	ID         string `db:"id"`
	Seed       int64  `db:"seed"`
	FactionID  string `db:"faction_id"`
	Turns      int    `db:"turns"`
	Outcome    string `db:"outcome"`
	Cities     int    `db:"cities"`
	Battles    int    `db:"battles"`
	Duels      int    `db:"duels"`
	FinishedAt int64  `db:"finished_at"`
}

// RecordRun archives a finished simulation.
func (s *Store) RecordRun(ctx context.Context, run model.SimulationRun) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	_, err := s.conn.NamedExecContext(ctx,
		`INSERT INTO simulation_runs (id, seed, faction_id, turns, outcome, cities, battles, duels, finished_at)
		 VALUES (:id, :seed, :faction_id, :turns, :outcome, :cities, :battles, :duels, :finished_at)`,
		runRow{
			ID:         run.ID,
			Seed:       run.Seed,
			FactionID:  run.FactionID,
			Turns:      run.Turns,
			Outcome:    run.Outcome,
			Cities:     run.Cities,
			Battles:    run.Battles,
			Duels:      run.Duels,
			FinishedAt: run.FinishedAt.UnixMilli(),
		})
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]model.SimulationRun, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []runRow
	if err := s.conn.SelectContext(ctx, &rows,
		`SELECT * FROM simulation_runs ORDER BY finished_at DESC, id LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	runs := make([]model.SimulationRun, 0, len(rows))
	for _, r := range rows {
		runs = append(runs, model.SimulationRun{
			ID:         r.ID,
			Seed:       r.Seed,
			FactionID:  r.FactionID,
			Turns:      r.Turns,
			Outcome:    r.Outcome,
			Cities:     r.Cities,
			Battles:    r.Battles,
			Duels:      r.Duels,
			FinishedAt: time.UnixMilli(r.FinishedAt).UTC(),
		})
	}
	return runs, nil
}
