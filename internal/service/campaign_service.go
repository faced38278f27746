package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

var (
	ErrInvalidDuration = errors.New("invalid turn duration")
	ErrSavesDisabled   = errors.New("save slots are not configured")
	ErrSlotNotFound    = errors.New("save slot not found")
	ErrInvalidSlot     = errors.New("slot name must be 1-40 characters")
)

// minTurnDuration keeps auto end-turn from racing the observation delay.
const minTurnDuration = 30 * time.Second

// CampaignService handles campaign lifecycle, history and save slots.
type CampaignService struct {
	worlds
	saves repository.SaveStore // optional: enables save slots
	rng   func() kingdoms.Rand
}

// NewCampaignService creates a CampaignService.
func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	turnRepo repository.TurnRepository,
	cache repository.CampaignCache,
	locks *Locks,
) *CampaignService {
	if locks == nil {
		locks = &Locks{}
	}
	return &CampaignService{
		worlds: worlds{campaignRepo: campaignRepo, turnRepo: turnRepo, cache: cache, locks: locks},
		rng:    kingdoms.NewSeededRand,
	}
}

// SetSaveStore configures the optional save slot store.
func (s *CampaignService) SetSaveStore(store repository.SaveStore) {
	s.saves = store
}

// CreateCampaign builds a fresh scenario for factionID and opens turn 1.
// An empty turnDuration disables auto end-turn.
func (s *CampaignService) CreateCampaign(ctx context.Context, playerID, name, factionID, turnDuration string) (*model.Campaign, *kingdoms.World, error) {
	if turnDuration != "" {
		d, err := time.ParseDuration(turnDuration)
		if err != nil || d < minTurnDuration {
			return nil, nil, fmt.Errorf("%w: %q", ErrInvalidDuration, turnDuration)
		}
	}
	w, err := kingdoms.NewScenario(factionID, s.rng())
	if err != nil {
		return nil, nil, err
	}
	if name = strings.TrimSpace(name); name == "" {
		name = w.FactionName(factionID, factionID) + " campaign"
	}

	c, err := s.campaignRepo.Create(ctx, playerID, name, factionID, turnDuration)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.store(ctx, c.ID, w)
	if err != nil {
		return nil, nil, err
	}
	deadline := turnDeadline(c, time.Now())
	if _, err := s.turnRepo.CreateTurn(ctx, c.ID, w.Turn, data, deadline); err != nil {
		return nil, nil, fmt.Errorf("create first turn: %w", err)
	}
	if deadline != nil {
		if err := s.cache.SetTimer(ctx, c.ID, *deadline); err != nil {
			return nil, nil, fmt.Errorf("set timer: %w", err)
		}
	}
	if err := s.appendChronicle(ctx, c.ID, []kingdoms.ChronicleEntry{kingdoms.OpeningEntry(w)}); err != nil {
		log.Warn().Err(err).Str("campaignId", c.ID).Msg("Failed to record opening entry")
	}

	log.Info().Str("campaignId", c.ID).Str("playerId", playerID).Str("faction", factionID).Msg("Campaign created")
	return c, w, nil
}

// GetCampaign returns one of the player's campaigns.
func (s *CampaignService) GetCampaign(ctx context.Context, campaignID, playerID string) (*model.Campaign, error) {
	return s.owned(ctx, campaignID, playerID)
}

// ListCampaigns returns the player's campaigns, newest first.
func (s *CampaignService) ListCampaigns(ctx context.Context, playerID string) ([]model.Campaign, error) {
	return s.campaignRepo.ListByPlayer(ctx, playerID)
}

// World returns the live world of one of the player's campaigns.
func (s *CampaignService) World(ctx context.Context, campaignID, playerID string) (*kingdoms.World, error) {
	if _, err := s.owned(ctx, campaignID, playerID); err != nil {
		return nil, err
	}
	mu := s.locks.For(campaignID)
	mu.Lock()
	defer mu.Unlock()
	return s.load(ctx, campaignID)
}

// DeleteCampaign removes a campaign with its history and live state.
func (s *CampaignService) DeleteCampaign(ctx context.Context, campaignID, playerID string) error {
	if _, err := s.owned(ctx, campaignID, playerID); err != nil {
		return err
	}
	mu := s.locks.For(campaignID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.campaignRepo.Delete(ctx, campaignID); err != nil {
		return err
	}
	if err := s.cache.DeleteCampaignData(ctx, campaignID); err != nil {
		log.Warn().Err(err).Str("campaignId", campaignID).Msg("Failed to clear live campaign data")
	}
	s.locks.Forget(campaignID)
	log.Info().Str("campaignId", campaignID).Msg("Campaign deleted")
	return nil
}

// Turns returns the campaign's turn history.
func (s *CampaignService) Turns(ctx context.Context, campaignID, playerID string) ([]model.TurnRecord, error) {
	if _, err := s.owned(ctx, campaignID, playerID); err != nil {
		return nil, err
	}
	return s.turnRepo.ListTurns(ctx, campaignID)
}

// Battles returns the campaign's battle reports.
func (s *CampaignService) Battles(ctx context.Context, campaignID, playerID string) ([]model.BattleReport, error) {
	if _, err := s.owned(ctx, campaignID, playerID); err != nil {
		return nil, err
	}
	return s.turnRepo.ListBattles(ctx, campaignID)
}

// Chronicle returns up to limit of the latest chronicle entries.
func (s *CampaignService) Chronicle(ctx context.Context, campaignID, playerID string, limit int) ([]model.ChronicleEntry, error) {
	if _, err := s.owned(ctx, campaignID, playerID); err != nil {
		return nil, err
	}
	return s.turnRepo.ListChronicle(ctx, campaignID, limit)
}

func validSlot(slot string) bool {
	return slot != "" && len(slot) <= 40 && strings.TrimSpace(slot) == slot
}

// SaveGame snapshots the live world into a named slot. Saving mid-duel is
// allowed: the pending resolution is part of the world.
func (s *CampaignService) SaveGame(ctx context.Context, campaignID, playerID, slot string) (*model.SaveSlot, error) {
	if s.saves == nil {
		return nil, ErrSavesDisabled
	}
	if !validSlot(slot) {
		return nil, ErrInvalidSlot
	}
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
	data, err := s.store(ctx, campaignID, w)
	if err != nil {
		return nil, err
	}
	save := model.SaveSlot{
		PlayerID:   playerID,
		Slot:       slot,
		CampaignID: campaignID,
		FactionID:  c.FactionID,
		Turn:       w.Turn,
		World:      data,
		SavedAt:    time.Now().UTC(),
	}
	if err := s.saves.PutSlot(ctx, save); err != nil {
		return nil, err
	}
	save.World = nil
	log.Info().Str("campaignId", campaignID).Str("slot", slot).Int("turn", w.Turn).Msg("Campaign saved")
	return &save, nil
}

// LoadGame replaces the live world with a slot saved from the same campaign.
func (s *CampaignService) LoadGame(ctx context.Context, campaignID, playerID, slot string) (*kingdoms.World, error) {
	if s.saves == nil {
		return nil, ErrSavesDisabled
	}
	c, err := s.active(ctx, campaignID, playerID)
	if err != nil {
		return nil, err
	}
	save, err := s.saves.GetSlot(ctx, playerID, slot)
	if err != nil {
		return nil, err
	}
	if save == nil || save.CampaignID != campaignID {
		return nil, ErrSlotNotFound
	}

	mu := s.locks.For(campaignID)
	mu.Lock()
	defer mu.Unlock()

	if err := s.cache.SetWorld(ctx, campaignID, save.World); err != nil {
		return nil, fmt.Errorf("set world: %w", err)
	}
	w, err := s.load(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if err := s.campaignRepo.UpdateTurn(ctx, campaignID, w.Turn); err != nil {
		return nil, err
	}

	// the open turn record must describe the restored world
	deadline := turnDeadline(c, time.Now())
	if _, err := s.turnRepo.CreateTurn(ctx, campaignID, w.Turn, save.World, deadline); err != nil {
		return nil, fmt.Errorf("create restored turn: %w", err)
	}
	if deadline != nil {
		if err := s.cache.SetTimer(ctx, campaignID, *deadline); err != nil {
			return nil, fmt.Errorf("set timer: %w", err)
		}
	} else if err := s.cache.ClearTimer(ctx, campaignID); err != nil {
		log.Warn().Err(err).Str("campaignId", campaignID).Msg("Failed to clear timer")
	}

	log.Info().Str("campaignId", campaignID).Str("slot", slot).Int("turn", w.Turn).Msg("Campaign loaded")
	return w, nil
}

// ListSaves returns the player's save slots without world data.
func (s *CampaignService) ListSaves(ctx context.Context, playerID string) ([]model.SaveSlot, error) {
	if s.saves == nil {
		return nil, ErrSavesDisabled
	}
	return s.saves.ListSlots(ctx, playerID)
}

// DeleteSave removes one of the player's save slots.
func (s *CampaignService) DeleteSave(ctx context.Context, playerID, slot string) error {
	if s.saves == nil {
		return ErrSavesDisabled
	}
	return s.saves.DeleteSlot(ctx, playerID, slot)
}
