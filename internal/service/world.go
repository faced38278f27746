package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrNotYourCampaign  = errors.New("campaign belongs to another player")
	ErrCampaignFinished = errors.New("campaign is finished")
	ErrOrderRejected    = errors.New("order rejected")
	ErrWorldMissing     = errors.New("campaign world not found")
	ErrNoOpenTurn       = errors.New("campaign has no open turn")
)

// Locks hands out one mutex per campaign. Every service that reads and
// writes a live world must hold it, so share one Locks between them.
type Locks struct {
	m sync.Map
}

// For returns the campaign's mutex.
func (l *Locks) For(campaignID string) *sync.Mutex {
	v, _ := l.m.LoadOrStore(campaignID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Forget drops a deleted campaign's mutex.
func (l *Locks) Forget(campaignID string) {
	l.m.Delete(campaignID)
}

// EngineConfig holds the collaborators every engine shares.
type EngineConfig struct {
	Rules    kingdoms.Rules
	AI       kingdoms.OrderGenerator
	Narrator kingdoms.Narrator
	// Rand, when set, is used for every engine. Leave nil in servers: each
	// call then gets its own crypto-seeded source.
	Rand kingdoms.Rand
}

func (c EngineConfig) engine() *kingdoms.Engine {
	return kingdoms.NewEngine(c.Rules, c.AI, c.Narrator, c.Rand)
}

// worlds loads and stores live worlds: Redis first, with the open turn's
// snapshot in Postgres as the fallback.
type worlds struct {
	campaignRepo repository.CampaignRepository
	turnRepo     repository.TurnRepository
	cache        repository.CampaignCache
	locks        *Locks
}

// owned returns the campaign if playerID may act on it.
func (s *worlds) owned(ctx context.Context, campaignID, playerID string) (*model.Campaign, error) {
	c, err := s.campaignRepo.FindByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCampaignNotFound
	}
	if c.PlayerID != playerID {
		return nil, ErrNotYourCampaign
	}
	return c, nil
}

// active is owned plus a check that the campaign is still in play.
func (s *worlds) active(ctx context.Context, campaignID, playerID string) (*model.Campaign, error) {
	c, err := s.owned(ctx, campaignID, playerID)
	if err != nil {
		return nil, err
	}
	if c.Status != model.StatusActive {
		return nil, ErrCampaignFinished
	}
	return c, nil
}

func (s *worlds) load(ctx context.Context, campaignID string) (*kingdoms.World, error) {
	data, err := s.cache.GetWorld(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("get cached world: %w", err)
	}
	if data == nil {
		t, err := s.turnRepo.CurrentTurn(ctx, campaignID)
		if err != nil {
			return nil, fmt.Errorf("get current turn: %w", err)
		}
		if t == nil {
			return nil, ErrWorldMissing
		}
		data = t.StateBefore
	}
	var w kingdoms.World
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("unmarshal world: %w", err)
	}
	if w.Relations == nil {
		w.Relations = kingdoms.Relations{}
	}
	return &w, nil
}

func (s *worlds) store(ctx context.Context, campaignID string, w *kingdoms.World) (json.RawMessage, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("marshal world: %w", err)
	}
	if err := s.cache.SetWorld(ctx, campaignID, data); err != nil {
		return nil, fmt.Errorf("set world: %w", err)
	}
	return data, nil
}

// appendChronicle persists engine entries for a campaign.
func (s *worlds) appendChronicle(ctx context.Context, campaignID string, entries []kingdoms.ChronicleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]model.ChronicleEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, model.ChronicleEntry{CampaignID: campaignID, Turn: e.Turn, Kind: string(e.Kind), Message: e.Message})
	}
	return s.turnRepo.AppendChronicle(ctx, rows)
}

// turnDeadline returns when a turn opened now should auto-end, or nil.
func turnDeadline(c *model.Campaign, now time.Time) *time.Time {
	d, err := time.ParseDuration(c.TurnDuration)
	if err != nil || d <= 0 {
		return nil
	}
	deadline := now.Add(d)
	return &deadline
}
