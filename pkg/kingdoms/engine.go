package kingdoms

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EngineStatus is the resolution state persisted on the world.
type EngineStatus string

const (
	StatusIdle         EngineStatus = "idle"
	StatusAwaitingDuel EngineStatus = "awaiting_duel"
	StatusResolving    EngineStatus = "resolving"
)

// DuelData is one engagement waiting for a champion bout.
type DuelData struct {
	AttackerID string   `json:"attacker_id"`
	DefenderID string   `json:"defender_id"`
	CityID     string   `json:"city_id"`
	TaskIDs    []string `json:"task_ids"`
}

// Resolution is the in-flight part of a turn that must survive a duel pause.
type Resolution struct {
	Status        EngineStatus       `json:"status"`
	DuelQueue     []DuelData         `json:"duel_queue,omitempty"`
	DuelBonus     map[string]float64 `json:"duel_bonus,omitempty"`
	ActiveAttacks []ActiveAttack     `json:"active_attacks,omitempty"`
}

// Idle reports whether new orders and end-turn requests may be accepted.
func (r Resolution) Idle() bool {
	return r.Status == "" || r.Status == StatusIdle
}

// PendingDuel returns the duel at the head of the queue, or nil.
func (r Resolution) PendingDuel() *DuelData {
	if r.Status != StatusAwaitingDuel || len(r.DuelQueue) == 0 {
		return nil
	}
	d := r.DuelQueue[0]
	return &d
}

func (r Resolution) clone() Resolution {
	c := Resolution{Status: r.Status}
	for _, d := range r.DuelQueue {
		d.TaskIDs = append([]string(nil), d.TaskIDs...)
		c.DuelQueue = append(c.DuelQueue, d)
	}
	if r.DuelBonus != nil {
		c.DuelBonus = make(map[string]float64, len(r.DuelBonus))
		for k, v := range r.DuelBonus {
			c.DuelBonus[k] = v
		}
	}
	c.ActiveAttacks = append([]ActiveAttack(nil), r.ActiveAttacks...)
	return c
}

// OrderGenerator produces the orders of every non-player faction. It may
// flag the generals it assigns as busy but must not otherwise mutate w.
type OrderGenerator interface {
	Generate(w *World) ([]Task, []string)
}

// SearchQuery describes a search for the narrative collaborator.
type SearchQuery struct {
	CityName    string
	GeneralName string
	// Taken lists names already in play, so found generals are not duplicated.
	Taken []string
}

// SearchResult is what a search turned up. At most one reward is set.
type SearchResult struct {
	Description string   `json:"description"`
	Gold        int      `json:"gold,omitempty"`
	Food        int      `json:"food,omitempty"`
	Wood        int      `json:"wood,omitempty"`
	Stone       int      `json:"stone,omitempty"`
	General     *General `json:"general,omitempty"`
}

// Narrator supplies flavour text. Implementations never fail: they fall
// back to local text when a remote source is unavailable.
type Narrator interface {
	DescribeSearch(ctx context.Context, q SearchQuery) SearchResult
	DescribeRumor(ctx context.Context, turn int) string
}

// Outcome is what one call into the engine produced.
type Outcome struct {
	Status        EngineStatus     `json:"status"`
	Duel          *DuelData        `json:"duel,omitempty"`
	ActiveAttacks []ActiveAttack   `json:"active_attacks,omitempty"`
	Chronicle     []ChronicleEntry `json:"chronicle"`
	Battles       []BattleResult   `json:"battles,omitempty"`
	Events        []ScriptedEvent  `json:"events,omitempty"`
	Turn          int              `json:"turn"`
}

// Engine resolves turns. Its zero collaborators are valid: without an AI
// no orders are generated, without a Narrator rumours use a fixed line.
type Engine struct {
	Rules    Rules
	AI       OrderGenerator
	Narrator Narrator
	Rand     Rand
	// Observe receives the active attacks before resolution pauses for
	// ObservationDelay.
	Observe func(ctx context.Context, attacks []ActiveAttack)
	NewID   func() string
}

// NewEngine returns an engine with the given collaborators.
func NewEngine(rules Rules, ai OrderGenerator, narrator Narrator, rng Rand) *Engine {
	if rng == nil {
		rng = NewSeededRand()
	}
	return &Engine{
		Rules:    rules.Normalize(),
		AI:       ai,
		Narrator: narrator,
		Rand:     rng,
		NewID:    uuid.NewString,
	}
}

func (e *Engine) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}

// Resolve runs a fresh end-turn. It either finalizes the turn or suspends
// with StatusAwaitingDuel, in which case ResolveAfterDuel must be called
// once per queued duel.
func (e *Engine) Resolve(ctx context.Context, w *World) (*Outcome, error) {
	if !w.Resolution.Idle() {
		return nil, ErrResolutionInProgress
	}
	w.Resolution = Resolution{Status: StatusResolving}
	chron := &chronicle{turn: w.Turn}
	out := &Outcome{}

	out.Events = e.fireEvents(w, chron)

	if e.AI != nil {
		tasks, logs := e.AI.Generate(w)
		for _, msg := range logs {
			chron.add(KindWar, "%s", msg)
		}
		for _, t := range tasks {
			if t.ID == "" {
				t.ID = "ai_" + e.newID()
			}
			if t.TurnsRemaining <= 0 {
				t.TurnsRemaining = 1
			}
			t.AI = true
			w.Tasks = append(w.Tasks, t)
		}
	}

	attacks := e.activeAttacks(w)
	w.Resolution.ActiveAttacks = attacks
	out.ActiveAttacks = attacks
	if len(attacks) > 0 && e.Observe != nil {
		e.Observe(ctx, attacks)
		if e.Rules.ObservationDelay > 0 {
			select {
			case <-time.After(e.Rules.ObservationDelay):
			case <-ctx.Done():
			}
		}
	}

	groups := groupAttacks(w.Tasks)
	if queue := e.scanDuels(w, groups); len(queue) > 0 {
		w.Resolution.DuelQueue = queue
		w.Resolution.DuelBonus = map[string]float64{}
		w.Resolution.Status = StatusAwaitingDuel
		out.Status = StatusAwaitingDuel
		out.Duel = w.Resolution.PendingDuel()
		out.Chronicle = chron.entries
		out.Turn = w.Turn
		return out, nil
	}

	e.finalize(ctx, w, chron, out)
	return out, nil
}

// ResolveAfterDuel reports the winner of the duel at the head of the queue.
// It suspends again while duels remain and finalizes the turn after the last.
func (e *Engine) ResolveAfterDuel(ctx context.Context, w *World, winnerID string) (*Outcome, error) {
	duel := w.Resolution.PendingDuel()
	if duel == nil {
		return nil, ErrNoDuelPending
	}
	if winnerID != duel.AttackerID && winnerID != duel.DefenderID {
		return nil, ErrUnknownDuelist
	}

	chron := &chronicle{turn: w.Turn}
	if w.Resolution.DuelBonus == nil {
		w.Resolution.DuelBonus = map[string]float64{}
	}
	if winnerID == duel.AttackerID {
		w.Resolution.DuelBonus[duel.CityID] = e.Rules.AttackerDuelBonus
	} else {
		w.Resolution.DuelBonus[duel.CityID] = e.Rules.DefenderDuelPenalty
	}
	winner := winnerID
	if g := w.General(winnerID); g != nil {
		winner = g.Name
	}
	chron.add(KindWar, "DUEL: %s was victorious! The army is inspired!", winner)

	w.Resolution.DuelQueue = w.Resolution.DuelQueue[1:]
	out := &Outcome{ActiveAttacks: w.Resolution.ActiveAttacks}
	if len(w.Resolution.DuelQueue) > 0 {
		out.Status = StatusAwaitingDuel
		out.Duel = w.Resolution.PendingDuel()
		out.Chronicle = chron.entries
		out.Turn = w.Turn
		return out, nil
	}

	w.Resolution.DuelQueue = nil
	w.Resolution.Status = StatusResolving
	e.finalize(ctx, w, chron, out)
	return out, nil
}

func (e *Engine) activeAttacks(w *World) []ActiveAttack {
	var out []ActiveAttack
	for _, t := range w.Tasks {
		if t.Type != TaskAttack {
			continue
		}
		a := ActiveAttack{TaskID: t.ID, SourceCityID: t.CityID, TargetCityID: t.TargetID}
		if g := w.General(t.GeneralID); g != nil {
			a.FactionID = g.FactionID
			if f := w.Faction(g.FactionID); f != nil {
				a.Color = f.Color
			}
		}
		out = append(out, a)
	}
	return out
}

// attackGroup is one battle: every attack on one city this pass.
type attackGroup struct {
	CityID string
	Tasks  []Task
}

// groupAttacks partitions attack tasks by target city, in order of first
// appearance.
func groupAttacks(tasks []Task) []*attackGroup {
	var groups []*attackGroup
	index := map[string]*attackGroup{}
	for _, t := range tasks {
		if t.Type != TaskAttack {
			continue
		}
		grp, ok := index[t.TargetID]
		if !ok {
			grp = &attackGroup{CityID: t.TargetID}
			index[t.TargetID] = grp
			groups = append(groups, grp)
		}
		grp.Tasks = append(grp.Tasks, t)
	}
	return groups
}

func (e *Engine) scanDuels(w *World, groups []*attackGroup) []DuelData {
	var queue []DuelData
	for _, grp := range groups {
		city := w.City(grp.CityID)
		if city == nil {
			continue
		}
		// The player's own general steps forward when the attack is shared.
		var attacker *General
		for _, t := range grp.Tasks {
			g := w.General(t.GeneralID)
			if g == nil || g.State == StateCaptured || g.FactionID == city.FactionID {
				continue
			}
			if attacker == nil || (g.FactionID == w.PlayerFactionID && attacker.FactionID != w.PlayerFactionID) {
				attacker = g
			}
		}
		defender := defendingGeneral(w, city)
		if attacker == nil || defender == nil {
			continue
		}
		if attacker.FactionID != w.PlayerFactionID && city.FactionID != w.PlayerFactionID {
			continue
		}
		if e.Rand.Float64() >= e.Rules.DuelChance {
			continue
		}
		d := DuelData{AttackerID: attacker.ID, DefenderID: defender.ID, CityID: city.ID}
		for _, t := range grp.Tasks {
			d.TaskIDs = append(d.TaskIDs, t.ID)
		}
		queue = append(queue, d)
	}
	return queue
}

// defendingGeneral is the first free general of the owning faction in city.
func defendingGeneral(w *World, city *City) *General {
	for _, g := range w.GeneralsIn(city.ID) {
		if g.FactionID == city.FactionID && g.State != StateCaptured {
			return g
		}
	}
	return nil
}

// finalize runs the shared tail of the turn exactly once.
func (e *Engine) finalize(ctx context.Context, w *World, chron *chronicle, out *Outcome) {
	remaining, attacks := e.completeTasks(w)

	for _, grp := range groupAttacks(attacks) {
		if r := e.resolveBattle(w, grp, chron); r != nil {
			out.Battles = append(out.Battles, *r)
		}
	}

	decayLoyalty(w)
	e.collectIncome(w, chron)

	if w.Turn%e.Rules.RumorInterval == 0 {
		rumor := ""
		if e.Narrator != nil {
			rumor = e.Narrator.DescribeRumor(ctx, w.Turn)
		}
		if rumor == "" {
			rumor = "The winds of change are blowing."
		}
		chron.add(KindEvent, "RUMOR: %s", rumor)
	}

	w.Turn++
	w.Tasks = remaining
	w.Resolution = Resolution{Status: StatusIdle}

	out.Status = StatusIdle
	out.Chronicle = append(out.Chronicle, chron.entries...)
	out.Turn = w.Turn
}
