package service

// Broadcaster sends real-time campaign events to connected clients.
// Implemented by the WebSocket hub.
type Broadcaster interface {
	BroadcastCampaignEvent(campaignID string, eventType string, data any)
}

// NoopBroadcaster discards events, for tests or when WS is disabled.
type NoopBroadcaster struct{}

func (NoopBroadcaster) BroadcastCampaignEvent(string, string, any) {}

// Event types pushed to clients.
const (
	EventActiveAttacks = "active_attacks"
	EventDuelPending   = "duel_pending"
	EventChronicle     = "chronicle"
	EventBattleResult  = "battle_result"
	EventTurnAdvanced  = "turn_advanced"
	EventWorldUpdated  = "world_updated"
	EventCampaignEnded = "campaign_ended"
	EventScriptedEvent = "scripted_event"
)
