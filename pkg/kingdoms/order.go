package kingdoms

// OrderRequest asks for a general to be bound to a task.
type OrderRequest struct {
	Type      TaskType `json:"type"`
	FactionID string   `json:"faction_id"`
	GeneralID string   `json:"general_id"`
	CityID    string   `json:"city_id"`
	TargetID  string   `json:"target_id,omitempty"`
	Payload   *Payload `json:"payload,omitempty"`
}

// Issue validates an order against the issuing faction's treasury and the
// general's availability and admits it into the pending set. Transport
// payloads are reserved at once; every other cost is charged on completion.
// A godspeed move completes immediately and returns a nil task.
func (e *Engine) Issue(w *World, req OrderRequest) (*Task, error) {
	if !w.Resolution.Idle() {
		return nil, ErrResolutionInProgress
	}
	if !ValidTaskType(req.Type) {
		return nil, reject(req.Type, "unknown order")
	}
	g, city, err := commandable(w, req.Type, req.FactionID, req.GeneralID, req.CityID)
	if err != nil {
		return nil, err
	}
	faction := w.Faction(req.FactionID)
	if faction == nil {
		return nil, reject(req.Type, "unknown faction %s", req.FactionID)
	}

	var target *City
	switch req.Type {
	case TaskMove, TaskAttack, TaskTransport:
		target = w.City(req.TargetID)
		if target == nil || !city.ConnectedTo(target.ID) {
			return nil, reject(req.Type, "%s is not connected to %s", req.TargetID, city.Name)
		}
		if req.Type == TaskAttack {
			if target.FactionID == faction.ID {
				return nil, reject(req.Type, "cannot attack your own city")
			}
			if w.Relations.Allied(faction.ID, target.FactionID) {
				return nil, reject(req.Type, "cannot attack an ally")
			}
		} else if target.FactionID != faction.ID {
			return nil, reject(req.Type, "%s is not under your control", target.Name)
		}
	}

	if cost, ok := taskCosts[req.Type]; ok && !cost.affordable(faction.Treasury) {
		return nil, reject(req.Type, "insufficient resources")
	}

	var payload *Payload
	if req.Type == TaskTransport {
		if req.Payload == nil {
			return nil, reject(req.Type, "nothing to transport")
		}
		p := *req.Payload
		if p.Gold < 0 || p.Food < 0 || p.Troops < 0 || p.Gold+p.Food+p.Troops == 0 {
			return nil, reject(req.Type, "invalid payload")
		}
		if p.Troops > city.Troops {
			return nil, reject(req.Type, "insufficient garrison in %s", city.Name)
		}
		if p.Gold > faction.Treasury.Gold || p.Food > faction.Treasury.Food {
			return nil, reject(req.Type, "insufficient resources")
		}
		faction.Treasury.Gold -= p.Gold
		faction.Treasury.Food -= p.Food
		city.Troops -= p.Troops
		payload = &p
	}

	if req.Type == TaskMove && HasCapability(g, TraitGodspeed) {
		g.CityID = target.ID
		return nil, nil
	}

	t := Task{
		ID:             e.newID(),
		Type:           req.Type,
		GeneralID:      g.ID,
		CityID:         city.ID,
		TargetID:       req.TargetID,
		Payload:        payload,
		TurnsRemaining: 1,
	}
	g.State = busyState(req.Type)
	w.Tasks = append(w.Tasks, t)
	return &t, nil
}

// commandable checks that an idle general of the faction stands in one of
// its cities.
func commandable(w *World, order any, factionID, generalID, cityID string) (*General, *City, error) {
	g := w.General(generalID)
	if g == nil || g.FactionID != factionID || g.State == StateCaptured {
		return nil, nil, reject(order, "no general available")
	}
	if g.State != StateIdle {
		return nil, nil, reject(order, "%s is %s", g.Name, g.State)
	}
	city := w.City(cityID)
	if city == nil || g.CityID != city.ID {
		return nil, nil, reject(order, "%s is not in %s", g.Name, cityID)
	}
	if city.FactionID != factionID {
		return nil, nil, reject(order, "%s is not under your control", city.Name)
	}
	return g, city, nil
}

func (e *Engine) bind(w *World, g *General, typ TaskType) {
	g.State = StateWorking
	w.Tasks = append(w.Tasks, Task{
		ID:             e.newID(),
		Type:           typ,
		GeneralID:      g.ID,
		CityID:         g.CityID,
		TurnsRemaining: 1,
	})
}
