package service

import (
	"context"
	"errors"
	"testing"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/model"
	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

// stubNarrator always finds the same purse.
type stubNarrator struct{}

func (stubNarrator) DescribeSearch(_ context.Context, q kingdoms.SearchQuery) kingdoms.SearchResult {
	return kingdoms.SearchResult{Description: q.GeneralName + " found a purse in " + q.CityName + ".", Gold: 120}
}

func (stubNarrator) DescribeRumor(context.Context, int) string { return "All is quiet." }

func TestIssueOrder(t *testing.T) {
	env := newTestEnv(0)
	c := env.seed(t, frontierWorld(), "", nil)

	task, err := env.orderService().IssueOrder(context.Background(), c.ID, "player-1", OrderInput{
		Type: kingdoms.TaskFortify, GeneralID: "g1", CityID: "a",
	})
	if err != nil {
		t.Fatalf("IssueOrder: %v", err)
	}
	if task == nil || task.Type != kingdoms.TaskFortify {
		t.Fatalf("unexpected task %+v", task)
	}
	w := env.world(t, c.ID)
	if len(w.Tasks) != 1 {
		t.Errorf("expected 1 stored task, got %d", len(w.Tasks))
	}
	if w.General("g1").State == kingdoms.StateIdle {
		t.Error("expected g1 bound to the task")
	}
	if !env.bc.has(EventWorldUpdated) {
		t.Error("expected world_updated broadcast")
	}
}

func TestIssueOrderRejected(t *testing.T) {
	tests := []struct {
		name string
		in   OrderInput
	}{
		{"unknown type", OrderInput{Type: "pillage", GeneralID: "g1", CityID: "a"}},
		{"enemy general", OrderInput{Type: kingdoms.TaskTrain, GeneralID: "g2", CityID: "b"}},
		{"not connected", OrderInput{Type: kingdoms.TaskAttack, GeneralID: "g1", CityID: "a", TargetID: "c"}},
		{"own city", OrderInput{Type: kingdoms.TaskAttack, GeneralID: "g1", CityID: "a", TargetID: "a"}},
		{"empty transport", OrderInput{Type: kingdoms.TaskTransport, GeneralID: "g1", CityID: "a", TargetID: "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(0)
			c := env.seed(t, frontierWorld(), "", nil)
			before := string(env.cache.worlds[c.ID])

			_, err := env.orderService().IssueOrder(context.Background(), c.ID, "player-1", tt.in)
			if !errors.Is(err, ErrOrderRejected) {
				t.Fatalf("expected ErrOrderRejected, got %v", err)
			}
			var rej *kingdoms.RejectionError
			if !errors.As(err, &rej) {
				t.Errorf("expected a RejectionError in %v", err)
			}
			if string(env.cache.worlds[c.ID]) != before {
				t.Error("rejected order must not change the stored world")
			}
			if env.bc.has(EventWorldUpdated) {
				t.Error("rejected order must not broadcast")
			}
		})
	}
}

func TestOrdersNeedActiveOwnedCampaign(t *testing.T) {
	env := newTestEnv(0)
	c := env.seed(t, frontierWorld(), "", nil)
	svc := env.orderService()
	in := OrderInput{Type: kingdoms.TaskTrain, GeneralID: "g1", CityID: "a"}

	if _, err := svc.IssueOrder(context.Background(), c.ID, "player-2", in); !errors.Is(err, ErrNotYourCampaign) {
		t.Errorf("expected ErrNotYourCampaign, got %v", err)
	}
	env.campaigns.SetFinished(context.Background(), c.ID, model.OutcomeDefeat)
	if _, err := svc.IssueOrder(context.Background(), c.ID, "player-1", in); !errors.Is(err, ErrCampaignFinished) {
		t.Errorf("expected ErrCampaignFinished, got %v", err)
	}
}

func TestSearchRecordsFind(t *testing.T) {
	env := newTestEnv(0)
	env.cfg.Narrator = stubNarrator{}
	c := env.seed(t, frontierWorld(), "", nil)

	res, err := env.orderService().Search(context.Background(), c.ID, "player-1", "g1", "a")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Gold != 120 {
		t.Errorf("expected 120 gold, got %d", res.Gold)
	}
	w := env.world(t, c.ID)
	if got := w.Faction("p").Treasury.Gold; got != 2120 {
		t.Errorf("expected treasury 2120, got %d", got)
	}
	if !chronicleHas(env.turns.chronicle, "Hero found a purse in Alpha.") {
		t.Errorf("expected search line, got %+v", env.turns.chronicle)
	}
}

func TestDiplomacy(t *testing.T) {
	env := newTestEnv(0)
	c := env.seed(t, frontierWorld(), "", nil)
	svc := env.orderService()
	ctx := context.Background()

	if err := svc.FormAlliance(ctx, c.ID, "player-1", "e"); err != nil {
		t.Fatalf("FormAlliance: %v", err)
	}
	if !chronicleHas(env.turns.chronicle, "An alliance has been formed with the Enemy faction.") {
		t.Error("expected alliance line")
	}
	if err := svc.FormAlliance(ctx, c.ID, "player-1", "e"); !errors.Is(err, ErrOrderRejected) {
		t.Errorf("expected second alliance rejected, got %v", err)
	}
	_, err := svc.IssueOrder(ctx, c.ID, "player-1", OrderInput{Type: kingdoms.TaskAttack, GeneralID: "g1", CityID: "a", TargetID: "b"})
	if !errors.Is(err, ErrOrderRejected) {
		t.Errorf("expected attack on an ally rejected, got %v", err)
	}

	if err := svc.DeclareWar(ctx, c.ID, "player-1", "e"); err != nil {
		t.Fatalf("DeclareWar: %v", err)
	}
	if !chronicleHas(env.turns.chronicle, "War has been declared on the Enemy faction!") {
		t.Error("expected war line")
	}
	w := env.world(t, c.ID)
	if !w.Relations.AtWar("p", "e") {
		t.Error("expected p and e at war")
	}
}

func TestPersuadeAndBribe(t *testing.T) {
	env := newTestEnv(0)
	w := frontierWorld()
	g2 := w.General("g2")
	g2.FactionID = "e"
	g2.CityID = "a"
	g2.State = kingdoms.StateCaptured
	g2.HeldBy = "p"
	g2.Loyalty = 20
	c := env.seed(t, w, "", nil)
	svc := env.orderService()
	ctx := context.Background()

	if err := svc.Bribe(ctx, c.ID, "player-1", "g2"); err != nil {
		t.Fatalf("Bribe: %v", err)
	}
	if got := env.world(t, c.ID).General("g2").Loyalty; got != 10 {
		t.Errorf("expected loyalty 10 after bribe, got %v", got)
	}

	res, err := svc.Persuade(ctx, c.ID, "player-1", "g1", "g2")
	if err != nil {
		t.Fatalf("Persuade: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected certain success at chance %v", res.Chance)
	}
	if !chronicleHas(env.turns.chronicle, "Guard has agreed to serve you!") {
		t.Error("expected persuasion line")
	}
	if got := env.world(t, c.ID).General("g2"); got.FactionID != "p" || got.State != kingdoms.StateIdle {
		t.Errorf("expected Guard serving p, got %+v", got)
	}

	if _, err := svc.Persuade(ctx, c.ID, "player-1", "g3", "g2"); !errors.Is(err, ErrOrderRejected) {
		t.Errorf("expected persuading a free officer rejected, got %v", err)
	}
}

func TestTavern(t *testing.T) {
	env := newTestEnv(0)
	c := env.seed(t, frontierWorld(), "", nil)

	g, err := env.orderService().Tavern(context.Background(), c.ID, "player-1", "a")
	if err != nil {
		t.Fatalf("Tavern: %v", err)
	}
	if g == nil || g.FactionID != "p" || g.CityID != "a" {
		t.Fatalf("unexpected recruit %+v", g)
	}
	w := env.world(t, c.ID)
	if w.General(g.ID) == nil {
		t.Error("expected recruit stored")
	}
	if got := w.Faction("p").Treasury.Gold; got != 1200 {
		t.Errorf("expected 1200 gold left, got %d", got)
	}
	if !chronicleHas(env.turns.chronicle, g.Name+" was recruited at the tavern.") {
		t.Error("expected tavern line")
	}
}

func TestBuyItem(t *testing.T) {
	env := newTestEnv(0)
	c := env.seed(t, frontierWorld(), "", nil)
	svc := env.orderService()

	if err := svc.BuyItem(context.Background(), c.ID, "player-1", "g1", "item_sword1"); err != nil {
		t.Fatalf("BuyItem: %v", err)
	}
	if items := env.world(t, c.ID).General("g1").Items; len(items) != 1 || items[0].ID != "item_sword1" {
		t.Errorf("unexpected items %+v", items)
	}
	if err := svc.BuyItem(context.Background(), c.ID, "player-1", "g1", "item_nothing"); !errors.Is(err, ErrOrderRejected) {
		t.Errorf("expected unknown item rejected, got %v", err)
	}
}

func TestGarrison(t *testing.T) {
	env := newTestEnv(0)
	c := env.seed(t, frontierWorld(), "", nil)
	svc := env.orderService()
	ctx := context.Background()

	if err := svc.AssignGarrison(ctx, c.ID, "player-1", "g3", "sub_a_0"); err != nil {
		t.Fatalf("AssignGarrison: %v", err)
	}
	w := env.world(t, c.ID)
	if w.SubLocation("sub_a_0").GeneralID != "g3" || w.General("g3").State != kingdoms.StateGarrisoned {
		t.Error("expected g3 garrisoned")
	}
	if err := svc.AssignGarrison(ctx, c.ID, "player-1", "g1", "sub_a_0"); !errors.Is(err, ErrOrderRejected) {
		t.Errorf("expected occupied site rejected, got %v", err)
	}

	if err := svc.RecallGarrison(ctx, c.ID, "player-1", "sub_a_0"); err != nil {
		t.Fatalf("RecallGarrison: %v", err)
	}
	w = env.world(t, c.ID)
	if w.SubLocation("sub_a_0").GeneralID != "" || w.General("g3").State != kingdoms.StateIdle {
		t.Error("expected g3 released")
	}
}
