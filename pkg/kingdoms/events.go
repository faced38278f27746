package kingdoms

import "slices"

// ScriptedEvent is a historical event tied to a year of the calendar.
type ScriptedEvent struct {
	ID          string `json:"id"`
	Year        int    `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Announcement is the chronicle line written when the event fires.
	Announcement string `json:"announcement"`
	// BreakAlliance, when both set, names a pair whose alliance collapses.
	BreakAlliance [2]string `json:"break_alliance,omitempty"`
	DeclareWar    bool      `json:"declare_war,omitempty"`
}

// fireEvents applies every scripted event due this turn that has not fired
// before. Events trigger on the first month of their year.
func (e *Engine) fireEvents(w *World, chron *chronicle) []ScriptedEvent {
	if w.Turn%12 != 0 {
		return nil
	}
	var fired []ScriptedEvent
	for _, ev := range HistoricalEvents {
		if ev.Year != w.Year() || slices.Contains(w.FiredEvents, ev.ID) {
			continue
		}
		w.FiredEvents = append(w.FiredEvents, ev.ID)
		if a, b := ev.BreakAlliance[0], ev.BreakAlliance[1]; a != "" && b != "" {
			if w.Relations == nil {
				w.Relations = Relations{}
			}
			if ev.DeclareWar {
				w.Relations.Set(a, b, AtWar)
			} else {
				w.Relations.Set(a, b, Neutral)
			}
		}
		chron.add(KindEvent, "EVENT: %s", ev.Announcement)
		fired = append(fired, ev)
	}
	return fired
}
