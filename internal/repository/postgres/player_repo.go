package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
)

// PlayerRepo handles player database operations.
type PlayerRepo struct {
	db *sql.DB
}

// NewPlayerRepo creates a PlayerRepo.
func NewPlayerRepo(db *sql.DB) *PlayerRepo {
	return &PlayerRepo{db: db}
}

// Create inserts a guest player.
func (r *PlayerRepo) Create(ctx context.Context, displayName string) (*model.Player, error) {
	var p model.Player
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO players (display_name) VALUES ($1)
		 RETURNING id, display_name, created_at, updated_at`,
		displayName,
	).Scan(&p.ID, &p.DisplayName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return &p, nil
}

// FindByID looks up a player by UUID. Returns nil when absent.
func (r *PlayerRepo) FindByID(ctx context.Context, id string) (*model.Player, error) {
	var p model.Player
	err := r.db.QueryRowContext(ctx,
		`SELECT id, display_name, created_at, updated_at FROM players WHERE id = $1`, id,
	).Scan(&p.ID, &p.DisplayName, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find player: %w", err)
	}
	return &p, nil
}

// UpdateDisplayName renames a player.
func (r *PlayerRepo) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE players SET display_name = $1, updated_at = now() WHERE id = $2`,
		displayName, id,
	)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	return nil
}
