package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

// OrderInput is a player order from the client. The faction is always the
// campaign's own.
type OrderInput struct {
	Type      kingdoms.TaskType `json:"type"`
	GeneralID string            `json:"general_id"`
	CityID    string            `json:"city_id"`
	TargetID  string            `json:"target_id,omitempty"`
	Payload   *kingdoms.Payload `json:"payload,omitempty"`
}

// OrderService applies player actions to a live world: task orders, search,
// diplomacy, recruitment, market and garrisons.
type OrderService struct {
	worlds
	cfg         EngineConfig
	broadcaster Broadcaster
}

// NewOrderService creates an OrderService.
func NewOrderService(
	campaignRepo repository.CampaignRepository,
	turnRepo repository.TurnRepository,
	cache repository.CampaignCache,
	locks *Locks,
	cfg EngineConfig,
	broadcaster Broadcaster,
) *OrderService {
	if locks == nil {
		locks = &Locks{}
	}
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &OrderService{
		worlds:      worlds{campaignRepo: campaignRepo, turnRepo: turnRepo, cache: cache, locks: locks},
		cfg:         cfg,
		broadcaster: broadcaster,
	}
}

// mutate runs fn against the campaign's live world under its lock and
// stores the world only when fn succeeds.
func (s *OrderService) mutate(ctx context.Context, campaignID, playerID string, fn func(e *kingdoms.Engine, w *kingdoms.World) error) error {
	if _, err := s.active(ctx, campaignID, playerID); err != nil {
		return err
	}
	mu := s.locks.For(campaignID)
	mu.Lock()
	defer mu.Unlock()

	w, err := s.load(ctx, campaignID)
	if err != nil {
		return err
	}
	if err := fn(s.cfg.engine(), w); err != nil {
		var rej *kingdoms.RejectionError
		if errors.As(err, &rej) {
			return fmt.Errorf("%w: %w", ErrOrderRejected, err)
		}
		return err
	}
	if _, err := s.store(ctx, campaignID, w); err != nil {
		return err
	}
	s.broadcaster.BroadcastCampaignEvent(campaignID, EventWorldUpdated, map[string]any{"turn": w.Turn})
	return nil
}

// IssueOrder admits a task order. A godspeed move completes at once and
// returns a nil task.
func (s *OrderService) IssueOrder(ctx context.Context, campaignID, playerID string, in OrderInput) (*kingdoms.Task, error) {
	var task *kingdoms.Task
	err := s.mutate(ctx, campaignID, playerID, func(e *kingdoms.Engine, w *kingdoms.World) error {
		var err error
		task, err = e.Issue(w, kingdoms.OrderRequest{
			Type:      in.Type,
			FactionID: w.PlayerFactionID,
			GeneralID: in.GeneralID,
			CityID:    in.CityID,
			TargetID:  in.TargetID,
			Payload:   in.Payload,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Str("campaignId", campaignID).Str("type", string(in.Type)).Str("generalId", in.GeneralID).Msg("Order issued")
	return task, nil
}

// Search sends a general to search a city; the find is applied at once.
func (s *OrderService) Search(ctx context.Context, campaignID, playerID, generalID, cityID string) (kingdoms.SearchResult, error) {
	var res kingdoms.SearchResult
	err := s.mutate(ctx, campaignID, playerID, func(e *kingdoms.Engine, w *kingdoms.World) error {
		var err error
		if res, err = e.Search(ctx, w, w.PlayerFactionID, generalID, cityID); err != nil {
			return err
		}
		return s.record(ctx, campaignID, w, kingdoms.KindGain, res.Description)
	})
	return res, err
}

// FormAlliance allies the player with another faction.
func (s *OrderService) FormAlliance(ctx context.Context, campaignID, playerID, targetID string) error {
	return s.mutate(ctx, campaignID, playerID, func(e *kingdoms.Engine, w *kingdoms.World) error {
		if err := e.FormAlliance(w, w.PlayerFactionID, targetID); err != nil {
			return err
		}
		return s.record(ctx, campaignID, w, kingdoms.KindInfo, "An alliance has been formed with the "+w.FactionName(targetID, targetID)+" faction.")
	})
}

// DeclareWar puts the player at war with another faction.
func (s *OrderService) DeclareWar(ctx context.Context, campaignID, playerID, targetID string) error {
	return s.mutate(ctx, campaignID, playerID, func(e *kingdoms.Engine, w *kingdoms.World) error {
		if err := e.DeclareWar(w, w.PlayerFactionID, targetID); err != nil {
			return err
		}
		return s.record(ctx, campaignID, w, kingdoms.KindWar, "War has been declared on the "+w.FactionName(targetID, targetID)+" faction!")
	})
}

// Persuade attempts to recruit a prisoner the player holds.
func (s *OrderService) Persuade(ctx context.Context, campaignID, playerID, recruiterID, prisonerID string) (kingdoms.PersuasionResult, error) {
	var res kingdoms.PersuasionResult
	err := s.mutate(ctx, campaignID, playerID, func(e *kingdoms.Engine, w *kingdoms.World) error {
		var err error
		if res, err = e.AttemptPersuasion(w, w.PlayerFactionID, recruiterID, prisonerID); err != nil {
			return err
		}
		name := prisonerID
		if g := w.General(prisonerID); g != nil {
			name = g.Name
		}
		if res.Success {
			return s.record(ctx, campaignID, w, kingdoms.KindGain, name+" has agreed to serve you!")
		}
		return s.record(ctx, campaignID, w, kingdoms.KindInfo, name+" refused your offer.")
	})
	return res, err
}

// Bribe softens a prisoner's loyalty for gold.
func (s *OrderService) Bribe(ctx context.Context, campaignID, playerID, prisonerID string) error {
	return s.mutate(ctx, campaignID, playerID, func(e *kingdoms.Engine, w *kingdoms.World) error {
		return e.Bribe(w, w.PlayerFactionID, prisonerID)
	})
}

// Tavern hires a general in the player's capital.
func (s *OrderService) Tavern(ctx context.Context, campaignID, playerID, cityID string) (*kingdoms.General, error) {
	var hired *kingdoms.General
	err := s.mutate(ctx, campaignID, playerID, func(e *kingdoms.Engine, w *kingdoms.World) error {
		var err error
		if hired, err = e.Tavern(w, w.PlayerFactionID, cityID); err != nil {
			return err
		}
		return s.record(ctx, campaignID, w, kingdoms.KindGain, hired.Name+" was recruited at the tavern.")
	})
	return hired, err
}

// BuyItem buys a catalogue item for one of the player's generals.
func (s *OrderService) BuyItem(ctx context.Context, campaignID, playerID, generalID, itemID string) error {
	return s.mutate(ctx, campaignID, playerID, func(e *kingdoms.Engine, w *kingdoms.World) error {
		return e.BuyItem(w, w.PlayerFactionID, generalID, itemID)
	})
}

// AssignGarrison posts a general to a sub-location.
func (s *OrderService) AssignGarrison(ctx context.Context, campaignID, playerID, generalID, subID string) error {
	return s.mutate(ctx, campaignID, playerID, func(e *kingdoms.Engine, w *kingdoms.World) error {
		return e.AssignGarrison(w, w.PlayerFactionID, generalID, subID)
	})
}

// RecallGarrison returns a sub-location's garrison to idle.
func (s *OrderService) RecallGarrison(ctx context.Context, campaignID, playerID, subID string) error {
	return s.mutate(ctx, campaignID, playerID, func(e *kingdoms.Engine, w *kingdoms.World) error {
		return e.RecallGarrison(w, w.PlayerFactionID, subID)
	})
}

// record persists and pushes one chronicle line produced outside resolution.
func (s *OrderService) record(ctx context.Context, campaignID string, w *kingdoms.World, kind kingdoms.EntryKind, msg string) error {
	entry := kingdoms.ChronicleEntry{Turn: w.Turn, Kind: kind, Message: msg}
	if err := s.appendChronicle(ctx, campaignID, []kingdoms.ChronicleEntry{entry}); err != nil {
		return err
	}
	s.broadcaster.BroadcastCampaignEvent(campaignID, EventChronicle, []kingdoms.ChronicleEntry{entry})
	return nil
}
