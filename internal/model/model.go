package model

import (
	"encoding/json"
	"time"
)

// Player is a guest identity that owns campaigns.
type Player struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Campaign status and outcome values.
const (
	StatusActive   = "active"
	StatusFinished = "finished"

	OutcomeVictory = "victory"
	OutcomeDefeat  = "defeat"
)

// Campaign is one single-player game against the AI factions.
type Campaign struct {
	ID           string     `json:"id"`
	PlayerID     string     `json:"player_id"`
	Name         string     `json:"name"`
	FactionID    string     `json:"faction_id"`
	Status       string     `json:"status"` // active, finished
	Outcome      string     `json:"outcome,omitempty"`
	Turn         int        `json:"turn"`
	TurnDuration string     `json:"turn_duration"`
	CreatedAt    time.Time  `json:"created_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}

// TurnRecord holds the world snapshot around one resolution.
type TurnRecord struct {
	ID          string          `json:"id"`
	CampaignID  string          `json:"campaign_id"`
	Turn        int             `json:"turn"`
	StateBefore json.RawMessage `json:"state_before"`
	StateAfter  json.RawMessage `json:"state_after,omitempty"`
	Deadline    *time.Time      `json:"deadline,omitempty"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BattleReport is a stored battle result. Detail carries the full result
// as produced by the engine.
type BattleReport struct {
	ID         string          `json:"id"`
	CampaignID string          `json:"campaign_id"`
	Turn       int             `json:"turn"`
	CityID     string          `json:"city_id"`
	Attacker   string          `json:"attacker"`
	Defender   string          `json:"defender"`
	Winner     string          `json:"winner"`
	Captured   bool            `json:"captured"`
	Detail     json.RawMessage `json:"detail"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ChronicleEntry is one persisted log line.
type ChronicleEntry struct {
	ID         int64     `json:"id"`
	CampaignID string    `json:"campaign_id"`
	Turn       int       `json:"turn"`
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

// SaveSlot is a named local snapshot of a campaign world.
type SaveSlot struct {
	PlayerID   string          `json:"player_id"`
	Slot       string          `json:"slot"`
	CampaignID string          `json:"campaign_id"`
	FactionID  string          `json:"faction_id"`
	Turn       int             `json:"turn"`
	World      json.RawMessage `json:"world,omitempty"`
	SavedAt    time.Time       `json:"saved_at"`
}

// SimulationRun summarises one headless all-AI campaign.
type SimulationRun struct {
	ID         string    `json:"id"`
	Seed       int64     `json:"seed"`
	FactionID  string    `json:"faction_id"`
	Turns      int       `json:"turns"`
	Outcome    string    `json:"outcome"`
	Cities     int       `json:"cities"`
	Battles    int       `json:"battles"`
	Duels      int       `json:"duels"`
	FinishedAt time.Time `json:"finished_at"`
}
