package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
)

const campaignColumns = `id, player_id, name, faction_id, status, outcome, turn, turn_duration, created_at, finished_at`

// CampaignRepo handles campaign registry operations.
type CampaignRepo struct {
	db *sql.DB
}

// NewCampaignRepo creates a CampaignRepo.
func NewCampaignRepo(db *sql.DB) *CampaignRepo {
	return &CampaignRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCampaign(row rowScanner) (*model.Campaign, error) {
	var c model.Campaign
	var outcome sql.NullString
	if err := row.Scan(&c.ID, &c.PlayerID, &c.Name, &c.FactionID, &c.Status, &outcome,
		&c.Turn, &c.TurnDuration, &c.CreatedAt, &c.FinishedAt); err != nil {
		return nil, err
	}
	c.Outcome = outcome.String
	return &c, nil
}

// Create inserts a new active campaign at turn 1.
func (r *CampaignRepo) Create(ctx context.Context, playerID, name, factionID, turnDuration string) (*model.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRowContext(ctx,
		`INSERT INTO campaigns (player_id, name, faction_id, turn_duration)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+campaignColumns,
		playerID, name, factionID, turnDuration,
	))
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	return c, nil
}

// FindByID returns a campaign, or nil when absent.
func (r *CampaignRepo) FindByID(ctx context.Context, id string) (*model.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find campaign: %w", err)
	}
	return c, nil
}

// ListByPlayer returns a player's campaigns, newest first.
func (r *CampaignRepo) ListByPlayer(ctx context.Context, playerID string) ([]model.Campaign, error) {
	return r.list(ctx, "list player campaigns",
		`SELECT `+campaignColumns+` FROM campaigns WHERE player_id = $1 ORDER BY created_at DESC LIMIT 50`, playerID)
}

// ListActive returns all campaigns still in play.
func (r *CampaignRepo) ListActive(ctx context.Context) ([]model.Campaign, error) {
	return r.list(ctx, "list active campaigns",
		`SELECT `+campaignColumns+` FROM campaigns WHERE status = 'active' ORDER BY created_at`)
}

func (r *CampaignRepo) list(ctx context.Context, op, query string, args ...any) ([]model.Campaign, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var campaigns []model.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

// UpdateTurn records the campaign's current turn number.
func (r *CampaignRepo) UpdateTurn(ctx context.Context, id string, turn int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE campaigns SET turn = $1 WHERE id = $2`, turn, id)
	if err != nil {
		return fmt.Errorf("update campaign turn: %w", err)
	}
	return nil
}

// SetFinished marks a campaign as finished with the given outcome.
func (r *CampaignRepo) SetFinished(ctx context.Context, id, outcome string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE campaigns SET status = 'finished', outcome = $1, finished_at = now() WHERE id = $2`,
		outcome, id,
	)
	if err != nil {
		return fmt.Errorf("set campaign finished: %w", err)
	}
	return nil
}

// Delete removes a campaign and its history.
func (r *CampaignRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	return nil
}
