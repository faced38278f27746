package bot

import (
	"testing"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/pkg/kingdoms"
)

func TestHardStrategy_Name(t *testing.T) {
	s := HardStrategy{}
	if s.Name() != "hard" {
		t.Errorf("expected 'hard', got %s", s.Name())
	}
}

func TestHardStrategy_FortifiesThreatenedCity(t *testing.T) {
	SeedBotRng(3)
	defer ResetBotRng()

	// home 1500 vs neighbour 6000: no attack, but under threat
	w := borderWorld(1500, 6000, 0)
	w.Cities[0].Defense, w.Cities[0].MaxDefense = 200, 1000

	tasks, logs := HardStrategy{}.GenerateOrders(w, "ai")
	if len(logs) != 0 {
		t.Errorf("unexpected attack logs %v", logs)
	}
	if len(tasks) != 1 || tasks[0].Type != kingdoms.TaskFortify {
		t.Fatalf("expected one fortify order, got %+v", tasks)
	}
}

func TestHardStrategy_TrainsSafeCity(t *testing.T) {
	SeedBotRng(3)
	defer ResetBotRng()

	w := borderWorld(1500, 100, 0)
	w.Cities[0].Morale = 80
	w.Relations.Set("ai", "other", kingdoms.Allied)

	tasks, _ := HardStrategy{}.GenerateOrders(w, "ai")
	if len(tasks) != 1 || tasks[0].Type != kingdoms.TaskTrain {
		t.Fatalf("expected one train order, got %+v", tasks)
	}
}

func TestHardStrategy_AttackFirst(t *testing.T) {
	SeedBotRng(3)
	defer ResetBotRng()

	w := borderWorld(5000, 1000, 100)
	tasks, _ := HardStrategy{}.GenerateOrders(w, "ai")
	if len(tasks) != 1 || tasks[0].Type != kingdoms.TaskAttack {
		t.Fatalf("expected the only general to attack, got %+v", tasks)
	}
}
