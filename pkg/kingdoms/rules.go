package kingdoms

import "time"

// Rules holds the tunable constants of turn resolution and the economy.
type Rules struct {
	CaptureRatio        float64       `mapstructure:"capture_ratio" json:"capture_ratio"`
	DuelChance          float64       `mapstructure:"duel_chance" json:"duel_chance"`
	AttackLevy          int           `mapstructure:"attack_levy" json:"attack_levy"`
	AttackerDuelBonus   float64       `mapstructure:"attacker_duel_bonus" json:"attacker_duel_bonus"`
	DefenderDuelPenalty float64       `mapstructure:"defender_duel_penalty" json:"defender_duel_penalty"`
	ObservationDelay    time.Duration `mapstructure:"observation_delay" json:"observation_delay"`
	RumorInterval       int           `mapstructure:"rumor_interval" json:"rumor_interval"`
	AllianceCost        int           `mapstructure:"alliance_cost" json:"alliance_cost"`
	BribeCost           int           `mapstructure:"bribe_cost" json:"bribe_cost"`
	TavernCost          int           `mapstructure:"tavern_cost" json:"tavern_cost"`
	TavernHistoricalPct float64       `mapstructure:"tavern_historical_chance" json:"tavern_historical_chance"`
	SearchGeneralChance float64       `mapstructure:"search_general_chance" json:"search_general_chance"`
	SearchHistoricalPct float64       `mapstructure:"search_historical_chance" json:"search_historical_chance"`
	MinAITroops         int           `mapstructure:"min_ai_troops" json:"min_ai_troops"`
}

// DefaultRules returns the standard tuning.
func DefaultRules() Rules {
	return Rules{
		CaptureRatio:        2.0,
		DuelChance:          0.5,
		AttackLevy:          2000,
		AttackerDuelBonus:   1.5,
		DefenderDuelPenalty: 0.8,
		ObservationDelay:    2 * time.Second,
		RumorInterval:       3,
		AllianceCost:        500,
		BribeCost:           200,
		TavernCost:          800,
		TavernHistoricalPct: 0.6,
		SearchGeneralChance: 0.15,
		SearchHistoricalPct: 0.4,
		MinAITroops:         2000,
	}
}

// Normalize replaces unusable values with defaults.
func (r Rules) Normalize() Rules {
	d := DefaultRules()
	if r.CaptureRatio <= 0 {
		r.CaptureRatio = d.CaptureRatio
	}
	if r.DuelChance < 0 || r.DuelChance > 1 {
		r.DuelChance = d.DuelChance
	}
	if r.AttackLevy <= 0 {
		r.AttackLevy = d.AttackLevy
	}
	if r.AttackerDuelBonus <= 0 {
		r.AttackerDuelBonus = d.AttackerDuelBonus
	}
	if r.DefenderDuelPenalty <= 0 {
		r.DefenderDuelPenalty = d.DefenderDuelPenalty
	}
	if r.ObservationDelay < 0 {
		r.ObservationDelay = 0
	}
	if r.RumorInterval <= 0 {
		r.RumorInterval = d.RumorInterval
	}
	return r
}
