package kingdoms

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EntryKind tags a chronicle entry for presentation.
type EntryKind string

const (
	KindInfo  EntryKind = "info"
	KindWar   EntryKind = "war"
	KindEvent EntryKind = "event"
	KindGain  EntryKind = "gain"
)

// ChronicleEntry is one narrated line of the game log.
type ChronicleEntry struct {
	Turn    int       `json:"turn"`
	Kind    EntryKind `json:"kind"`
	Message string    `json:"message"`
}

// BattleResult is the structured record of one battle involving the player.
type BattleResult struct {
	ID                 string `json:"id"`
	Turn               int    `json:"turn"`
	CityID             string `json:"city_id"`
	Location           string `json:"location"`
	Attacker           string `json:"attacker"`
	Defender           string `json:"defender"`
	AttackerFactionID  string `json:"attacker_faction_id"`
	DefenderFactionID  string `json:"defender_faction_id"`
	AttackerTroops     int    `json:"attacker_troops"`
	DefenderTroops     int    `json:"defender_troops"`
	AttackerTroopsLost int    `json:"attacker_troops_lost"`
	DefenderTroopsLost int    `json:"defender_troops_lost"`
	DefenseDamage      int    `json:"defense_damage"`
	Winner             string `json:"winner"`
	Captured           bool   `json:"captured"`
	Prisoners          int    `json:"prisoners"`
	DuelInfo           string `json:"duel_info,omitempty"`
}

// ActiveAttack is the transient projection of one pending attack.
type ActiveAttack struct {
	TaskID       string `json:"task_id"`
	SourceCityID string `json:"source_city_id"`
	TargetCityID string `json:"target_city_id"`
	FactionID    string `json:"faction_id"`
	Color        string `json:"color"`
}

var printer = message.NewPrinter(language.English)

// chronicle accumulates entries for one resolution pass.
type chronicle struct {
	turn    int
	entries []ChronicleEntry
}

func (c *chronicle) add(kind EntryKind, format string, args ...any) {
	c.entries = append(c.entries, ChronicleEntry{
		Turn:    c.turn,
		Kind:    kind,
		Message: printer.Sprintf(format, args...),
	})
}

// OpeningEntry is the first line of a new campaign's chronicle.
func OpeningEntry(w *World) ChronicleEntry {
	return ChronicleEntry{
		Turn:    w.Turn,
		Kind:    KindInfo,
		Message: printer.Sprintf("The year is %d AD. You lead the %s faction.", w.Year(), w.FactionName(w.PlayerFactionID, "unknown")),
	}
}
