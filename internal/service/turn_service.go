package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

// DuelView is the pending duel with both combatants resolved for display.
type DuelView struct {
	Duel     kingdoms.DuelData `json:"duel"`
	Attacker kingdoms.Duelist  `json:"attacker"`
	Defender kingdoms.Duelist  `json:"defender"`
}

// TurnService drives turn resolution: end-turn, duel hand-off, timer-driven
// auto end-turn and recovery after restart.
type TurnService struct {
	worlds
	cfg         EngineConfig
	broadcaster Broadcaster
}

// NewTurnService creates a TurnService.
func NewTurnService(
	campaignRepo repository.CampaignRepository,
	turnRepo repository.TurnRepository,
	cache repository.CampaignCache,
	locks *Locks,
	cfg EngineConfig,
	broadcaster Broadcaster,
) *TurnService {
	if locks == nil {
		locks = &Locks{}
	}
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &TurnService{
		worlds:      worlds{campaignRepo: campaignRepo, turnRepo: turnRepo, cache: cache, locks: locks},
		cfg:         cfg,
		broadcaster: broadcaster,
	}
}

// engine builds an engine whose observation hook pushes active attacks to
// the campaign's subscribers.
func (s *TurnService) engine(campaignID string) *kingdoms.Engine {
	e := s.cfg.engine()
	e.Observe = func(_ context.Context, attacks []kingdoms.ActiveAttack) {
		s.broadcaster.BroadcastCampaignEvent(campaignID, EventActiveAttacks, attacks)
	}
	return e
}

// EndTurn starts resolution of the player's turn. The outcome is either a
// finished turn or a pending duel.
func (s *TurnService) EndTurn(ctx context.Context, campaignID, playerID string) (*kingdoms.Outcome, error) {
	c, err := s.active(ctx, campaignID, playerID)
	if err != nil {
		return nil, err
	}
	mu := s.locks.For(campaignID)
	mu.Lock()
	defer mu.Unlock()

	w, err := s.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("campaignId", campaignID).Int("turn", w.Turn).Msg("Resolving turn")
	out, err := s.engine(campaignID).Resolve(ctx, w)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, c, w, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitDuelWinner reports the pending duel's winner and continues resolution.
func (s *TurnService) SubmitDuelWinner(ctx context.Context, campaignID, playerID, winnerID string) (*kingdoms.Outcome, error) {
	c, err := s.active(ctx, campaignID, playerID)
	if err != nil {
		return nil, err
	}
	mu := s.locks.For(campaignID)
	mu.Lock()
	defer mu.Unlock()

	w, err := s.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	out, err := s.engine(campaignID).ResolveAfterDuel(ctx, w, winnerID)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, c, w, out); err != nil {
		return nil, err
	}
	return out, nil
}

// PendingDuel returns the duel awaiting a winner, or nil.
func (s *TurnService) PendingDuel(ctx context.Context, campaignID, playerID string) (*DuelView, error) {
	if _, err := s.owned(ctx, campaignID, playerID); err != nil {
		return nil, err
	}
	mu := s.locks.For(campaignID)
	mu.Lock()
	defer mu.Unlock()

	w, err := s.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return duelView(w), nil
}

func duelView(w *kingdoms.World) *DuelView {
	d := w.Resolution.PendingDuel()
	if d == nil {
		return nil
	}
	a, b, ok := kingdoms.Duelists(w, *d)
	if !ok {
		return nil
	}
	return &DuelView{Duel: *d, Attacker: a, Defender: b}
}

// AutoEndTurn resolves a campaign whose turn deadline has passed, playing
// out any duels itself. Called by the timer listener.
func (s *TurnService) AutoEndTurn(ctx context.Context, campaignID string) error {
	mu := s.locks.For(campaignID)
	mu.Lock()
	defer mu.Unlock()

	c, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		return fmt.Errorf("find campaign: %w", err)
	}
	if c == nil {
		return ErrCampaignNotFound
	}
	if c.Status != model.StatusActive {
		log.Info().Str("campaignId", campaignID).Str("status", c.Status).Msg("Skipping auto end-turn for finished campaign")
		return nil
	}
	cur, err := s.turnRepo.CurrentTurn(ctx, campaignID)
	if err != nil {
		return fmt.Errorf("get current turn: %w", err)
	}
	if cur == nil {
		return ErrNoOpenTurn
	}
	if cur.Deadline == nil || time.Now().Before(*cur.Deadline) {
		log.Debug().Str("campaignId", campaignID).Msg("Turn deadline not yet reached, skipping")
		return nil
	}

	w, err := s.load(ctx, campaignID)
	if err != nil {
		return err
	}
	log.Info().Str("campaignId", campaignID).Int("turn", w.Turn).Time("deadline", *cur.Deadline).Msg("Auto-ending turn")

	e := s.engine(campaignID)
	var out *kingdoms.Outcome
	if w.Resolution.Idle() {
		if out, err = e.Resolve(ctx, w); err != nil {
			return err
		}
		if err := s.apply(ctx, c, w, out); err != nil {
			return err
		}
	}
	for w.Resolution.PendingDuel() != nil {
		d := *w.Resolution.PendingDuel()
		a, b, ok := kingdoms.Duelists(w, d)
		winner := d.AttackerID
		if ok {
			winner = kingdoms.SimulateDuel(e.Rand, a, b)
		}
		if out, err = e.ResolveAfterDuel(ctx, w, winner); err != nil {
			return err
		}
		if err := s.apply(ctx, c, w, out); err != nil {
			return err
		}
	}
	return nil
}

// apply persists an engine outcome and pushes it to subscribers. Once the
// engine has moved the world on, the writes finish even if the caller goes away.
func (s *TurnService) apply(ctx context.Context, c *model.Campaign, w *kingdoms.World, out *kingdoms.Outcome) error {
	ctx = context.WithoutCancel(ctx)
	if err := s.appendChronicle(ctx, c.ID, out.Chronicle); err != nil {
		return fmt.Errorf("append chronicle: %w", err)
	}
	for _, evt := range out.Events {
		s.broadcaster.BroadcastCampaignEvent(c.ID, EventScriptedEvent, evt)
	}
	if len(out.Chronicle) > 0 {
		s.broadcaster.BroadcastCampaignEvent(c.ID, EventChronicle, out.Chronicle)
	}

	if out.Status == kingdoms.StatusAwaitingDuel {
		if _, err := s.store(ctx, c.ID, w); err != nil {
			return err
		}
		s.broadcaster.BroadcastCampaignEvent(c.ID, EventDuelPending, duelView(w))
		return nil
	}
	return s.advance(ctx, c, w, out)
}

// advance closes the resolved turn, records its battles and opens the next
// turn, or finishes the campaign.
func (s *TurnService) advance(ctx context.Context, c *model.Campaign, w *kingdoms.World, out *kingdoms.Outcome) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("marshal world: %w", err)
	}
	cur, err := s.turnRepo.CurrentTurn(ctx, c.ID)
	if err != nil {
		return fmt.Errorf("get current turn: %w", err)
	}
	if cur != nil {
		if err := s.turnRepo.ResolveTurn(ctx, cur.ID, data); err != nil {
			return fmt.Errorf("resolve turn: %w", err)
		}
	}

	if err := s.turnRepo.SaveBattles(ctx, battleReports(c.ID, out.Battles)); err != nil {
		return fmt.Errorf("save battles: %w", err)
	}
	for _, b := range out.Battles {
		s.broadcaster.BroadcastCampaignEvent(c.ID, EventBattleResult, b)
	}
	if err := s.campaignRepo.UpdateTurn(ctx, c.ID, w.Turn); err != nil {
		return fmt.Errorf("update turn: %w", err)
	}

	if finished, victory := w.Outcome(); finished {
		outcome := model.OutcomeDefeat
		if victory {
			outcome = model.OutcomeVictory
		}
		log.Info().Str("campaignId", c.ID).Str("outcome", outcome).Int("turn", w.Turn).Msg("Campaign finished")
		if err := s.campaignRepo.SetFinished(ctx, c.ID, outcome); err != nil {
			return fmt.Errorf("set finished: %w", err)
		}
		s.broadcaster.BroadcastCampaignEvent(c.ID, EventCampaignEnded, map[string]any{"outcome": outcome, "turn": w.Turn})
		return s.cache.DeleteCampaignData(ctx, c.ID)
	}

	deadline := turnDeadline(c, time.Now())
	if _, err := s.turnRepo.CreateTurn(ctx, c.ID, w.Turn, data, deadline); err != nil {
		return fmt.Errorf("create next turn: %w", err)
	}
	if err := s.cache.SetWorld(ctx, c.ID, data); err != nil {
		return fmt.Errorf("set world: %w", err)
	}
	if deadline != nil {
		if err := s.cache.SetTimer(ctx, c.ID, *deadline); err != nil {
			return fmt.Errorf("set timer: %w", err)
		}
	}

	log.Info().Str("campaignId", c.ID).Int("turn", w.Turn).Int("year", w.Year()).Int("month", w.Month()).
		Int("battles", len(out.Battles)).Msg("Campaign advanced to next turn")

	view := map[string]any{"turn": w.Turn, "year": w.Year(), "month": w.Month()}
	if deadline != nil {
		view["deadline"] = deadline.Format(time.RFC3339)
	}
	s.broadcaster.BroadcastCampaignEvent(c.ID, EventTurnAdvanced, view)
	return nil
}

func battleReports(campaignID string, battles []kingdoms.BattleResult) []model.BattleReport {
	reports := make([]model.BattleReport, 0, len(battles))
	for _, b := range battles {
		detail, _ := json.Marshal(b)
		reports = append(reports, model.BattleReport{
			ID:         b.ID,
			CampaignID: campaignID,
			Turn:       b.Turn,
			CityID:     b.CityID,
			Attacker:   b.Attacker,
			Defender:   b.Defender,
			Winner:     b.Winner,
			Captured:   b.Captured,
			Detail:     detail,
		})
	}
	return reports
}

// RecoverActiveCampaigns restores live worlds and timers for every active
// campaign after a restart. Worlds still in Redis are left untouched.
func (s *TurnService) RecoverActiveCampaigns(ctx context.Context) error {
	campaigns, err := s.campaignRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active campaigns: %w", err)
	}
	if len(campaigns) == 0 {
		log.Info().Msg("No active campaigns to recover")
		return nil
	}
	log.Info().Int("count", len(campaigns)).Msg("Recovering active campaigns after restart")

	for _, c := range campaigns {
		cur, err := s.turnRepo.CurrentTurn(ctx, c.ID)
		if err != nil {
			log.Error().Err(err).Str("campaignId", c.ID).Msg("Failed to get current turn during recovery")
			continue
		}
		if cur == nil {
			log.Warn().Str("campaignId", c.ID).Msg("Active campaign has no open turn, skipping")
			continue
		}

		cached, err := s.cache.GetWorld(ctx, c.ID)
		if err != nil {
			log.Error().Err(err).Str("campaignId", c.ID).Msg("Failed to read cached world")
			continue
		}
		if cached == nil {
			if err := s.cache.SetWorld(ctx, c.ID, cur.StateBefore); err != nil {
				log.Error().Err(err).Str("campaignId", c.ID).Msg("Failed to restore world")
				continue
			}
		}
		if cur.Deadline != nil && time.Now().Before(*cur.Deadline) {
			if err := s.cache.SetTimer(ctx, c.ID, *cur.Deadline); err != nil {
				log.Error().Err(err).Str("campaignId", c.ID).Msg("Failed to restore timer")
			}
		}
		log.Info().Str("campaignId", c.ID).Int("turn", cur.Turn).Bool("cached", cached != nil).Msg("Recovered campaign")
	}
	return nil
}
