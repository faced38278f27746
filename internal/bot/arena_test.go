package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

type recordingArchive struct {
	runs []model.SimulationRun
}

func (a *recordingArchive) RecordRun(_ context.Context, run model.SimulationRun) error {
	a.runs = append(a.runs, run)
	return nil
}

func (a *recordingArchive) ListRuns(context.Context, int) ([]model.SimulationRun, error) {
	return a.runs, nil
}

func TestRunCampaign(t *testing.T) {
	SeedBotRng(42)
	defer ResetBotRng()
	archive := &recordingArchive{}

	res, err := RunCampaign(context.Background(), ArenaConfig{
		FactionID: "f2",
		Rules:     kingdoms.DefaultRules(),
		MaxTurns:  3,
		Seed:      42,
	}, archive)
	if err != nil {
		t.Fatalf("RunCampaign: %v", err)
	}
	if res.Turns < 2 || res.Turns > 4 {
		t.Errorf("expected the run to stop after turn 3, got turn %d", res.Turns)
	}
	if res.Cities["f2"] == 0 {
		t.Error("expected Cao Cao to hold cities after three turns")
	}
	if len(archive.runs) != 1 {
		t.Fatalf("expected 1 archived run, got %d", len(archive.runs))
	}
	if got := archive.runs[0]; got.ID != res.ID || got.Cities != res.Cities["f2"] || got.Seed != 42 {
		t.Errorf("archived run does not match result: %+v", got)
	}
}

func TestRunCampaignHoldingFactions(t *testing.T) {
	overrides := map[string]Strategy{}
	for _, f := range kingdoms.Factions() {
		overrides[f.ID] = HoldStrategy{}
	}
	res, err := RunCampaign(context.Background(), ArenaConfig{
		FactionID: "f1",
		Rules:     kingdoms.DefaultRules(),
		MaxTurns:  2,
		Seed:      7,
		Overrides: overrides,
	}, nil)
	if err != nil {
		t.Fatalf("RunCampaign: %v", err)
	}
	if res.Battles != 0 || res.Duels != 0 {
		t.Errorf("expected no fighting when every faction holds, got %d battles %d duels", res.Battles, res.Duels)
	}
	if res.Outcome != "draw" {
		t.Errorf("expected draw, got %s", res.Outcome)
	}
}

func TestRunCampaignUnknownFaction(t *testing.T) {
	_, err := RunCampaign(context.Background(), ArenaConfig{FactionID: "f99", Rules: kingdoms.DefaultRules()}, nil)
	if !errors.Is(err, kingdoms.ErrUnknownFaction) {
		t.Errorf("expected ErrUnknownFaction, got %v", err)
	}
}

func TestRunCampaignCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunCampaign(ctx, ArenaConfig{FactionID: "f2", Rules: kingdoms.DefaultRules(), Seed: 1}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
