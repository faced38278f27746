package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
)

type mockPlayerRepo struct {
	players map[string]*model.Player
	seq     int
}

func newMockPlayerRepo() *mockPlayerRepo {
	return &mockPlayerRepo{players: make(map[string]*model.Player)}
}

func (m *mockPlayerRepo) Create(_ context.Context, displayName string) (*model.Player, error) {
	m.seq++
	p := &model.Player{
		ID:          fmt.Sprintf("player-%d", m.seq),
		DisplayName: displayName,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	m.players[p.ID] = p
	return p, nil
}

func (m *mockPlayerRepo) FindByID(_ context.Context, id string) (*model.Player, error) {
	p, ok := m.players[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (m *mockPlayerRepo) UpdateDisplayName(_ context.Context, id, displayName string) error {
	p, ok := m.players[id]
	if !ok {
		return fmt.Errorf("player not found")
	}
	p.DisplayName = displayName
	return nil
}

type mockCampaignRepo struct {
	campaigns map[string]*model.Campaign
}

func newMockCampaignRepo() *mockCampaignRepo {
	return &mockCampaignRepo{campaigns: make(map[string]*model.Campaign)}
}

func (m *mockCampaignRepo) Create(_ context.Context, playerID, name, factionID, turnDuration string) (*model.Campaign, error) {
	c := &model.Campaign{
		ID:           fmt.Sprintf("campaign-%d", len(m.campaigns)+1),
		PlayerID:     playerID,
		Name:         name,
		FactionID:    factionID,
		Status:       model.StatusActive,
		Turn:         1,
		TurnDuration: turnDuration,
		CreatedAt:    time.Now(),
	}
	m.campaigns[c.ID] = c
	cp := *c
	return &cp, nil
}

func (m *mockCampaignRepo) FindByID(_ context.Context, id string) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *mockCampaignRepo) ListByPlayer(_ context.Context, playerID string) ([]model.Campaign, error) {
	var result []model.Campaign
	for _, c := range m.campaigns {
		if c.PlayerID == playerID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (m *mockCampaignRepo) ListActive(_ context.Context) ([]model.Campaign, error) {
	var result []model.Campaign
	for _, c := range m.campaigns {
		if c.Status == model.StatusActive {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockCampaignRepo) UpdateTurn(_ context.Context, id string, turn int) error {
	if c, ok := m.campaigns[id]; ok {
		c.Turn = turn
	}
	return nil
}

func (m *mockCampaignRepo) SetFinished(_ context.Context, id, outcome string) error {
	if c, ok := m.campaigns[id]; ok {
		c.Status = model.StatusFinished
		c.Outcome = outcome
		now := time.Now()
		c.FinishedAt = &now
	}
	return nil
}

func (m *mockCampaignRepo) Delete(_ context.Context, id string) error {
	delete(m.campaigns, id)
	return nil
}

type mockTurnRepo struct {
	turns     []*model.TurnRecord
	battles   []model.BattleReport
	chronicle []model.ChronicleEntry
	expired   []model.TurnRecord
}

func newMockTurnRepo() *mockTurnRepo {
	return &mockTurnRepo{}
}

func (m *mockTurnRepo) CreateTurn(_ context.Context, campaignID string, turn int, stateBefore json.RawMessage, deadline *time.Time) (*model.TurnRecord, error) {
	t := &model.TurnRecord{
		ID:          fmt.Sprintf("turn-%d", len(m.turns)+1),
		CampaignID:  campaignID,
		Turn:        turn,
		StateBefore: stateBefore,
		Deadline:    deadline,
		CreatedAt:   time.Now(),
	}
	m.turns = append(m.turns, t)
	return t, nil
}

func (m *mockTurnRepo) CurrentTurn(_ context.Context, campaignID string) (*model.TurnRecord, error) {
	for i := len(m.turns) - 1; i >= 0; i-- {
		t := m.turns[i]
		if t.CampaignID == campaignID && t.ResolvedAt == nil {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockTurnRepo) ListTurns(_ context.Context, campaignID string) ([]model.TurnRecord, error) {
	var result []model.TurnRecord
	for _, t := range m.turns {
		if t.CampaignID == campaignID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (m *mockTurnRepo) ResolveTurn(_ context.Context, turnID string, stateAfter json.RawMessage) error {
	for _, t := range m.turns {
		if t.ID == turnID {
			t.StateAfter = stateAfter
			now := time.Now()
			t.ResolvedAt = &now
		}
	}
	return nil
}

func (m *mockTurnRepo) ListExpired(_ context.Context) ([]model.TurnRecord, error) {
	return m.expired, nil
}

func (m *mockTurnRepo) SaveBattles(_ context.Context, reports []model.BattleReport) error {
	m.battles = append(m.battles, reports...)
	return nil
}

func (m *mockTurnRepo) ListBattles(_ context.Context, campaignID string) ([]model.BattleReport, error) {
	var result []model.BattleReport
	for _, b := range m.battles {
		if b.CampaignID == campaignID {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockTurnRepo) AppendChronicle(_ context.Context, entries []model.ChronicleEntry) error {
	for _, e := range entries {
		e.ID = int64(len(m.chronicle) + 1)
		m.chronicle = append(m.chronicle, e)
	}
	return nil
}

func (m *mockTurnRepo) ListChronicle(_ context.Context, campaignID string, limit int) ([]model.ChronicleEntry, error) {
	var result []model.ChronicleEntry
	for _, e := range m.chronicle {
		if e.CampaignID == campaignID {
			result = append(result, e)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}

// mockCache implements repository.CampaignCache for testing.
type mockCache struct {
	worlds map[string]json.RawMessage
	timers map[string]time.Time
}

func newMockCache() *mockCache {
	return &mockCache{
		worlds: make(map[string]json.RawMessage),
		timers: make(map[string]time.Time),
	}
}

func (c *mockCache) SetWorld(_ context.Context, campaignID string, world json.RawMessage) error {
	c.worlds[campaignID] = world
	return nil
}

func (c *mockCache) GetWorld(_ context.Context, campaignID string) (json.RawMessage, error) {
	return c.worlds[campaignID], nil
}

func (c *mockCache) SetTimer(_ context.Context, campaignID string, deadline time.Time) error {
	c.timers[campaignID] = deadline
	return nil
}

func (c *mockCache) ClearTimer(_ context.Context, campaignID string) error {
	delete(c.timers, campaignID)
	return nil
}

func (c *mockCache) DeleteCampaignData(_ context.Context, campaignID string) error {
	delete(c.worlds, campaignID)
	delete(c.timers, campaignID)
	return nil
}

// mockSaveStore implements repository.SaveStore for testing.
type mockSaveStore struct {
	slots map[string]model.SaveSlot // key: "playerID/slot"
}

func newMockSaveStore() *mockSaveStore {
	return &mockSaveStore{slots: make(map[string]model.SaveSlot)}
}

func (m *mockSaveStore) PutSlot(_ context.Context, slot model.SaveSlot) error {
	m.slots[slot.PlayerID+"/"+slot.Slot] = slot
	return nil
}

func (m *mockSaveStore) GetSlot(_ context.Context, playerID, slot string) (*model.SaveSlot, error) {
	s, ok := m.slots[playerID+"/"+slot]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *mockSaveStore) ListSlots(_ context.Context, playerID string) ([]model.SaveSlot, error) {
	var result []model.SaveSlot
	for _, s := range m.slots {
		if s.PlayerID == playerID {
			s.World = nil
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockSaveStore) DeleteSlot(_ context.Context, playerID, slot string) error {
	delete(m.slots, playerID+"/"+slot)
	return nil
}

