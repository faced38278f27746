package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
)

// TurnRepo handles turn history, battle reports and the chronicle.
type TurnRepo struct {
	db *sql.DB
}

// NewTurnRepo creates a TurnRepo.
func NewTurnRepo(db *sql.DB) *TurnRepo {
	return &TurnRepo{db: db}
}

// CreateTurn opens a turn record with the world as it stood before resolution.
func (r *TurnRepo) CreateTurn(ctx context.Context, campaignID string, turn int, stateBefore json.RawMessage, deadline *time.Time) (*model.TurnRecord, error) {
	var t model.TurnRecord
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO turns (campaign_id, turn, state_before, deadline)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, campaign_id, turn, state_before, deadline, created_at`,
		campaignID, turn, []byte(stateBefore), deadline,
	).Scan(&t.ID, &t.CampaignID, &t.Turn, &t.StateBefore, &t.Deadline, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create turn: %w", err)
	}
	return &t, nil
}

// CurrentTurn returns the latest unresolved turn for a campaign.
func (r *TurnRepo) CurrentTurn(ctx context.Context, campaignID string) (*model.TurnRecord, error) {
	var t model.TurnRecord
	var stateAfter []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, campaign_id, turn, state_before, state_after, deadline, resolved_at, created_at
		 FROM turns WHERE campaign_id = $1 AND resolved_at IS NULL
		 ORDER BY created_at DESC LIMIT 1`, campaignID,
	).Scan(&t.ID, &t.CampaignID, &t.Turn, &t.StateBefore, &stateAfter, &t.Deadline, &t.ResolvedAt, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("current turn: %w", err)
	}
	if stateAfter != nil {
		t.StateAfter = json.RawMessage(stateAfter)
	}
	return &t, nil
}

// ListTurns returns a campaign's turns in order.
func (r *TurnRepo) ListTurns(ctx context.Context, campaignID string) ([]model.TurnRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, campaign_id, turn, state_before, state_after, deadline, resolved_at, created_at
		 FROM turns WHERE campaign_id = $1 ORDER BY turn, created_at`, campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var turns []model.TurnRecord
	for rows.Next() {
		var t model.TurnRecord
		var stateAfter []byte
		if err := rows.Scan(&t.ID, &t.CampaignID, &t.Turn, &t.StateBefore, &stateAfter, &t.Deadline, &t.ResolvedAt, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		if stateAfter != nil {
			t.StateAfter = json.RawMessage(stateAfter)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// ResolveTurn closes a turn record with the resulting world.
func (r *TurnRepo) ResolveTurn(ctx context.Context, turnID string, stateAfter json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE turns SET state_after = $1, resolved_at = now() WHERE id = $2`,
		[]byte(stateAfter), turnID,
	)
	if err != nil {
		return fmt.Errorf("resolve turn: %w", err)
	}
	return nil
}

// ListExpired returns the latest unresolved turn per active campaign whose
// deadline has passed.
func (r *TurnRepo) ListExpired(ctx context.Context) ([]model.TurnRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, campaign_id, turn, deadline, created_at FROM (
		   SELECT DISTINCT ON (t.campaign_id) t.id, t.campaign_id, t.turn, t.deadline, t.created_at
		   FROM turns t
		   JOIN campaigns c ON c.id = t.campaign_id
		   WHERE t.resolved_at IS NULL AND c.status = 'active'
		   ORDER BY t.campaign_id, t.created_at DESC
		 ) latest
		 WHERE deadline IS NOT NULL AND deadline < now()`)
	if err != nil {
		return nil, fmt.Errorf("list expired turns: %w", err)
	}
	defer rows.Close()

	var turns []model.TurnRecord
	for rows.Next() {
		var t model.TurnRecord
		if err := rows.Scan(&t.ID, &t.CampaignID, &t.Turn, &t.Deadline, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expired turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// SaveBattles inserts a batch of battle reports.
func (r *TurnRepo) SaveBattles(ctx context.Context, reports []model.BattleReport) error {
	if len(reports) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO battle_reports (id, campaign_id, turn, city_id, attacker, defender, winner, captured, detail)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)
	if err != nil {
		return fmt.Errorf("prepare insert battle: %w", err)
	}
	defer stmt.Close()

	for _, b := range reports {
		_, err := stmt.ExecContext(ctx, b.ID, b.CampaignID, b.Turn, b.CityID, b.Attacker, b.Defender,
			b.Winner, b.Captured, []byte(b.Detail))
		if err != nil {
			return fmt.Errorf("insert battle: %w", err)
		}
	}
	return tx.Commit()
}

// ListBattles returns a campaign's battle reports, oldest first.
func (r *TurnRepo) ListBattles(ctx context.Context, campaignID string) ([]model.BattleReport, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, campaign_id, turn, city_id, attacker, defender, winner, captured, detail, created_at
		 FROM battle_reports WHERE campaign_id = $1 ORDER BY turn, created_at`, campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("list battles: %w", err)
	}
	defer rows.Close()

	var reports []model.BattleReport
	for rows.Next() {
		var b model.BattleReport
		if err := rows.Scan(&b.ID, &b.CampaignID, &b.Turn, &b.CityID, &b.Attacker, &b.Defender,
			&b.Winner, &b.Captured, &b.Detail, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan battle: %w", err)
		}
		reports = append(reports, b)
	}
	return reports, rows.Err()
}

// AppendChronicle inserts chronicle entries in order.
func (r *TurnRepo) AppendChronicle(ctx context.Context, entries []model.ChronicleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chronicle (campaign_id, turn, kind, message) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return fmt.Errorf("prepare insert chronicle: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.CampaignID, e.Turn, e.Kind, e.Message); err != nil {
			return fmt.Errorf("insert chronicle: %w", err)
		}
	}
	return tx.Commit()
}

// ListChronicle returns the most recent entries in chronological order.
func (r *TurnRepo) ListChronicle(ctx context.Context, campaignID string, limit int) ([]model.ChronicleEntry, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, campaign_id, turn, kind, message, created_at FROM (
		   SELECT * FROM chronicle WHERE campaign_id = $1 ORDER BY id DESC LIMIT $2
		 ) recent ORDER BY id`, campaignID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list chronicle: %w", err)
	}
	defer rows.Close()

	var entries []model.ChronicleEntry
	for rows.Next() {
		var e model.ChronicleEntry
		if err := rows.Scan(&e.ID, &e.CampaignID, &e.Turn, &e.Kind, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chronicle: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
