package kingdoms

// TaskType identifies the kind of pending order.
type TaskType string

const (
	TaskDevelopGold TaskType = "develop_gold"
	TaskDevelopFood TaskType = "develop_food"
	TaskHarvestWood TaskType = "harvest_wood"
	TaskQuarryStone TaskType = "quarry_stone"
	TaskFortify     TaskType = "fortify"
	TaskConscript   TaskType = "conscript"
	TaskPatrol      TaskType = "patrol"
	TaskBuildSiege  TaskType = "build_siege"
	TaskTrain       TaskType = "train"
	TaskMove        TaskType = "move"
	TaskAttack      TaskType = "attack"
	TaskTransport   TaskType = "transport"
	// TaskGarrison names the garrison assignment. Garrisons are held through
	// AssignGarrison and RecallGarrison and never enter the task queue.
	TaskGarrison TaskType = "garrison"
	// TaskSearch and TaskPersuade bind a general for the rest of the turn
	// after an immediate action; they complete with no further effect.
	TaskSearch   TaskType = "search"
	TaskPersuade TaskType = "persuade"
)

// Payload is the convoy carried by a transport task.
type Payload struct {
	Gold   int `json:"gold"`
	Food   int `json:"food"`
	Troops int `json:"troops"`
}

// Task is a pending order binding a general to an effect applied at
// end of turn.
type Task struct {
	ID             string   `json:"id"`
	Type           TaskType `json:"type"`
	GeneralID      string   `json:"general_id"`
	CityID         string   `json:"city_id"`
	TargetID       string   `json:"target_id,omitempty"`
	Payload        *Payload `json:"payload,omitempty"`
	TurnsRemaining int      `json:"turns_remaining"`
	AI             bool     `json:"ai,omitempty"`
}

// taskCost is the faction cost of an economic or military order.
type taskCost struct {
	Gold, Food, Wood, Stone int
}

var taskCosts = map[TaskType]taskCost{
	TaskFortify:    {Stone: 100},
	TaskConscript:  {Gold: 100, Food: 200},
	TaskPatrol:     {Food: 50},
	TaskBuildSiege: {Wood: 300, Gold: 200},
	TaskTrain:      {Food: 100},
}

func (c taskCost) affordable(r Resources) bool {
	return r.Gold >= c.Gold && r.Food >= c.Food && r.Wood >= c.Wood && r.Stone >= c.Stone
}

func (c taskCost) charge(r *Resources) {
	spend(&r.Gold, c.Gold)
	spend(&r.Food, c.Food)
	spend(&r.Wood, c.Wood)
	spend(&r.Stone, c.Stone)
}

// economicTasks use the general's politics for effectiveness; the rest use war.
func isEconomic(t TaskType) bool {
	switch t {
	case TaskDevelopGold, TaskDevelopFood, TaskHarvestWood, TaskQuarryStone:
		return true
	}
	return false
}

// busyState is the state a general enters when a task of type t is issued.
func busyState(t TaskType) GeneralState {
	switch t {
	case TaskMove, TaskTransport:
		return StateTraveling
	case TaskAttack:
		return StateCampaigning
	}
	return StateWorking
}

// ValidTaskType reports whether t is an order the queue accepts.
func ValidTaskType(t TaskType) bool {
	switch t {
	case TaskDevelopGold, TaskDevelopFood, TaskHarvestWood, TaskQuarryStone,
		TaskFortify, TaskConscript, TaskPatrol, TaskBuildSiege, TaskTrain,
		TaskMove, TaskAttack, TaskTransport:
		return true
	}
	return false
}
