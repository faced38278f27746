package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository"
	rediscache "github.com/XiaoFeng75a/ThreeKingdomsWarlord/internal/repository/redis"
)

// autoEnder is the part of TurnService the timer drives.
type autoEnder interface {
	AutoEndTurn(ctx context.Context, campaignID string) error
}

// TimerListener ends turns whose deadline has passed. Redis keyspace
// notifications on expired timer keys are the fast path; a poller over
// Postgres deadlines covers servers without notifications enabled.
type TimerListener struct {
	rdb      *redis.Client
	turns    autoEnder
	turnRepo repository.TurnRepository
	interval time.Duration
}

// NewTimerListener creates a TimerListener. rdb may be nil to run the poller only.
func NewTimerListener(rdb *redis.Client, turns autoEnder, turnRepo repository.TurnRepository) *TimerListener {
	return &TimerListener{rdb: rdb, turns: turns, turnRepo: turnRepo, interval: 10 * time.Second}
}

// Start listens for expired keys and polls until ctx is done.
func (t *TimerListener) Start(ctx context.Context) {
	if t.rdb != nil {
		go t.listenKeyspace(ctx)
	}
	t.pollExpiredTurns(ctx)
}

func (t *TimerListener) listenKeyspace(ctx context.Context) {
	pubsub := t.rdb.PSubscribe(ctx, "__keyevent@*__:expired")
	defer pubsub.Close()

	log.Info().Msg("Timer listener started, listening for expired keys")
	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			t.handleExpiry(ctx, msg.Payload)
		}
	}
}

func (t *TimerListener) pollExpiredTurns(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", t.interval).Msg("Turn deadline poller started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Turn deadline poller stopped")
			return
		case <-ticker.C:
			t.checkExpiredTurns(ctx)
		}
	}
}

func (t *TimerListener) checkExpiredTurns(ctx context.Context) {
	turns, err := t.turnRepo.ListExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list expired turns")
		return
	}
	for _, tr := range turns {
		log.Info().Str("campaignId", tr.CampaignID).Int("turn", tr.Turn).Msg("Poller ending expired turn")
		if err := t.turns.AutoEndTurn(ctx, tr.CampaignID); err != nil {
			log.Error().Err(err).Str("campaignId", tr.CampaignID).Msg("Auto end-turn failed from poller")
		}
	}
}

// handleExpiry acts only on campaign timer keys.
func (t *TimerListener) handleExpiry(ctx context.Context, key string) {
	id, ok := rediscache.CampaignFromTimerKey(key)
	if !ok {
		return
	}
	log.Info().Str("campaignId", id).Msg("Timer expired, ending turn")
	if err := t.turns.AutoEndTurn(ctx, id); err != nil {
		log.Error().Err(err).Str("campaignId", id).Msg("Auto end-turn failed after timer expiry")
	}
}
