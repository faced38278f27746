package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
)

// PlayerRepository defines player data operations.
type PlayerRepository interface {
	Create(ctx context.Context, displayName string) (*model.Player, error)
	FindByID(ctx context.Context, id string) (*model.Player, error)
	UpdateDisplayName(ctx context.Context, id, displayName string) error
}

// CampaignRepository defines campaign registry operations.
type CampaignRepository interface {
	Create(ctx context.Context, playerID, name, factionID, turnDuration string) (*model.Campaign, error)
	FindByID(ctx context.Context, id string) (*model.Campaign, error)
	ListByPlayer(ctx context.Context, playerID string) ([]model.Campaign, error)
	ListActive(ctx context.Context) ([]model.Campaign, error)
	UpdateTurn(ctx context.Context, id string, turn int) error
	SetFinished(ctx context.Context, id, outcome string) error
	Delete(ctx context.Context, id string) error
}

// TurnRepository defines turn history, battle report and chronicle operations.
type TurnRepository interface {
	CreateTurn(ctx context.Context, campaignID string, turn int, stateBefore json.RawMessage, deadline *time.Time) (*model.TurnRecord, error)
	CurrentTurn(ctx context.Context, campaignID string) (*model.TurnRecord, error)
	ListTurns(ctx context.Context, campaignID string) ([]model.TurnRecord, error)
	ResolveTurn(ctx context.Context, turnID string, stateAfter json.RawMessage) error
	ListExpired(ctx context.Context) ([]model.TurnRecord, error)
	SaveBattles(ctx context.Context, reports []model.BattleReport) error
	ListBattles(ctx context.Context, campaignID string) ([]model.BattleReport, error)
	AppendChronicle(ctx context.Context, entries []model.ChronicleEntry) error
	ListChronicle(ctx context.Context, campaignID string, limit int) ([]model.ChronicleEntry, error)
}

// CampaignCache defines live campaign state operations (Redis). The world
// blob includes the engine's resolution state.
type CampaignCache interface {
	SetWorld(ctx context.Context, campaignID string, world json.RawMessage) error
	GetWorld(ctx context.Context, campaignID string) (json.RawMessage, error)
	SetTimer(ctx context.Context, campaignID string, deadline time.Time) error
	ClearTimer(ctx context.Context, campaignID string) error
	DeleteCampaignData(ctx context.Context, campaignID string) error
}

// SaveStore defines local save slot operations (SQLite).
type SaveStore interface {
	PutSlot(ctx context.Context, slot model.SaveSlot) error
	GetSlot(ctx context.Context, playerID, slot string) (*model.SaveSlot, error)
	ListSlots(ctx context.Context, playerID string) ([]model.SaveSlot, error)
	DeleteSlot(ctx context.Context, playerID, slot string) error
}

// SimulationArchive records headless simulation runs (SQLite).
type SimulationArchive interface {
	RecordRun(ctx context.Context, run model.SimulationRun) error
	ListRuns(ctx context.Context, limit int) ([]model.SimulationRun, error)
}
