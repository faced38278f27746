//go:build integration

package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository/postgres"
	redisrepo "github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository/redis"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository/sqlite"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/testutil"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

// integrationEnv holds shared test infrastructure.
type integrationEnv struct {
	db           *sql.DB
	rdb          *goredis.Client
	playerRepo   *postgres.PlayerRepo
	campaignRepo *postgres.CampaignRepo
	turnRepo     *postgres.TurnRepo
	cache        *redisrepo.Client
}

var shared *integrationEnv

func setupIntegration(t *testing.T) *integrationEnv {
	t.Helper()
	if shared == nil {
		db := testutil.SetupDB(t)
		rdb := testutil.SetupRedis(t)
		shared = &integrationEnv{
			db:           db,
			rdb:          rdb,
			playerRepo:   postgres.NewPlayerRepo(db),
			campaignRepo: postgres.NewCampaignRepo(db),
			turnRepo:     postgres.NewTurnRepo(db),
			cache:        redisrepo.NewClientFromPool(rdb),
		}
	}
	testutil.CleanupDB(t, shared.db)
	testutil.CleanupRedis(t, shared.rdb)
	return shared
}

func (e *integrationEnv) services() (*CampaignService, *TurnService, *OrderService) {
	locks := &Locks{}
	rules := kingdoms.DefaultRules()
	rules.ObservationDelay = 0
	cfg := EngineConfig{Rules: rules}
	return NewCampaignService(e.campaignRepo, e.turnRepo, e.cache, locks),
		NewTurnService(e.campaignRepo, e.turnRepo, e.cache, locks, cfg, nil),
		NewOrderService(e.campaignRepo, e.turnRepo, e.cache, locks, cfg, nil)
}

func createPlayer(t *testing.T, e *integrationEnv) *model.Player {
	t.Helper()
	p, err := e.playerRepo.Create(context.Background(), "Tester")
	if err != nil {
		t.Fatalf("create player: %v", err)
	}
	return p
}

func TestIntegrationCampaignTurns(t *testing.T) {
	e := setupIntegration(t)
	ctx := context.Background()
	campaigns, turns, _ := e.services()
	p := createPlayer(t, e)

	c, w, err := campaigns.CreateCampaign(ctx, p.ID, "", "f2", "")
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if w.Turn != 1 {
		t.Fatalf("expected turn 1, got %d", w.Turn)
	}

	for i := 0; i < 2; i++ {
		out, err := turns.EndTurn(ctx, c.ID, p.ID)
		if err != nil {
			t.Fatalf("EndTurn %d: %v", i+1, err)
		}
		if out.Status != kingdoms.StatusIdle {
			t.Fatalf("no orders were issued, expected no duel, got %s", out.Status)
		}
	}

	got, err := campaigns.GetCampaign(ctx, c.ID, p.ID)
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if got.Turn != 3 {
		t.Errorf("expected campaign at turn 3, got %d", got.Turn)
	}
	history, err := campaigns.Turns(ctx, c.ID, p.ID)
	if err != nil {
		t.Fatalf("Turns: %v", err)
	}
	if len(history) != 3 || history[0].ResolvedAt == nil || history[2].ResolvedAt != nil {
		t.Errorf("expected two resolved turns and one open, got %d records", len(history))
	}
	entries, err := campaigns.Chronicle(ctx, c.ID, p.ID, 0)
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected chronicle entries, got %d (%v)", len(entries), err)
	}
	if entries[0].Message != "The year is 184 AD. You lead the Cao Cao faction." {
		t.Errorf("unexpected first entry %q", entries[0].Message)
	}
}

func TestIntegrationRecoverAfterRedisLoss(t *testing.T) {
	e := setupIntegration(t)
	ctx := context.Background()
	campaigns, turns, _ := e.services()
	p := createPlayer(t, e)

	c, _, err := campaigns.CreateCampaign(ctx, p.ID, "Recovery", "f2", "1h")
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if _, err := turns.EndTurn(ctx, c.ID, p.ID); err != nil {
		t.Fatalf("EndTurn: %v", err)
	}
	testutil.CleanupRedis(t, e.rdb)

	if err := turns.RecoverActiveCampaigns(ctx); err != nil {
		t.Fatalf("RecoverActiveCampaigns: %v", err)
	}
	w, err := campaigns.World(ctx, c.ID, p.ID)
	if err != nil {
		t.Fatalf("World: %v", err)
	}
	if w.Turn != 2 {
		t.Errorf("expected recovered world at turn 2, got %d", w.Turn)
	}
	ttl, err := e.rdb.TTL(ctx, "campaign:"+c.ID+":timer").Result()
	if err != nil || ttl <= 0 {
		t.Errorf("expected timer restored, got ttl %v (%v)", ttl, err)
	}
}

func TestIntegrationExpiredTurnAutoEnds(t *testing.T) {
	e := setupIntegration(t)
	ctx := context.Background()
	campaigns, turns, _ := e.services()
	p := createPlayer(t, e)

	c, _, err := campaigns.CreateCampaign(ctx, p.ID, "Timed", "f2", "30s")
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	if _, err := e.db.Exec(`UPDATE turns SET deadline = now() - interval '1 second' WHERE campaign_id = $1`, c.ID); err != nil {
		t.Fatalf("expire turn: %v", err)
	}

	NewTimerListener(nil, turns, e.turnRepo).checkExpiredTurns(ctx)

	got, err := campaigns.GetCampaign(ctx, c.ID, p.ID)
	if err != nil {
		t.Fatalf("GetCampaign: %v", err)
	}
	if got.Turn != 2 {
		t.Errorf("expected auto end-turn to reach turn 2, got %d", got.Turn)
	}
	expired, err := e.turnRepo.ListExpired(ctx)
	if err != nil || len(expired) != 0 {
		t.Errorf("expected no expired turns left, got %d (%v)", len(expired), err)
	}
}

func TestIntegrationSaveAndLoad(t *testing.T) {
	e := setupIntegration(t)
	ctx := context.Background()
	campaigns, turns, orders := e.services()
	p := createPlayer(t, e)

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "saves.db"))
	if err != nil {
		t.Fatalf("open save store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	campaigns.SetSaveStore(store)

	c, w, err := campaigns.CreateCampaign(ctx, p.ID, "", "f2", "")
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	gold := w.Faction("f2").Treasury.Gold

	if _, err := campaigns.SaveGame(ctx, c.ID, p.ID, "opening"); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if err := orders.FormAlliance(ctx, c.ID, p.ID, "f3"); err != nil {
		t.Fatalf("FormAlliance: %v", err)
	}
	if _, err := turns.EndTurn(ctx, c.ID, p.ID); err != nil {
		t.Fatalf("EndTurn: %v", err)
	}

	loaded, err := campaigns.LoadGame(ctx, c.ID, p.ID, "opening")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if loaded.Turn != 1 || loaded.Faction("f2").Treasury.Gold != gold {
		t.Errorf("expected opening world, got turn %d gold %d", loaded.Turn, loaded.Faction("f2").Treasury.Gold)
	}
	if loaded.Relations.Allied("f2", "f3") {
		t.Error("alliance made after the save should be gone")
	}
	cur, err := e.turnRepo.CurrentTurn(ctx, c.ID)
	if err != nil || cur == nil || cur.Turn != 1 {
		t.Errorf("expected open turn 1, got %+v (%v)", cur, err)
	}
}
