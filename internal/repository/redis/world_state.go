package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix   = "campaign:"
	timerSuffix = ":timer"
)

func worldKey(campaignID string) string { return keyPrefix + campaignID + ":world" }
func timerKey(campaignID string) string { return keyPrefix + campaignID + timerSuffix }

// CampaignFromTimerKey extracts the campaign id from an expired timer key.
// ok is false for any other key.
func CampaignFromTimerKey(key string) (id string, ok bool) {
	if !strings.HasPrefix(key, keyPrefix) || !strings.HasSuffix(key, timerSuffix) {
		return "", false
	}
	id = strings.TrimSuffix(strings.TrimPrefix(key, keyPrefix), timerSuffix)
	return id, id != ""
}

// SetWorld stores the live world JSON, engine state included.
func (c *Client) SetWorld(ctx context.Context, campaignID string, world json.RawMessage) error {
	return c.rdb.Set(ctx, worldKey(campaignID), []byte(world), 0).Err()
}

// GetWorld returns the live world JSON, or nil when none is stored.
func (c *Client) GetWorld(ctx context.Context, campaignID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, worldKey(campaignID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get world: %w", err)
	}
	return json.RawMessage(data), nil
}

const turnGracePeriod = 5 * time.Second

// SetTimer creates a timer key that expires shortly after the deadline.
// Expiry is delivered through keyspace notifications.
func (c *Client) SetTimer(ctx context.Context, campaignID string, deadline time.Time) error {
	ttl := time.Until(deadline) + turnGracePeriod
	if ttl <= 0 {
		ttl = time.Second
	}
	return c.rdb.Set(ctx, timerKey(campaignID), deadline.Unix(), ttl).Err()
}

// ClearTimer removes a campaign's timer.
func (c *Client) ClearTimer(ctx context.Context, campaignID string) error {
	return c.rdb.Del(ctx, timerKey(campaignID)).Err()
}

// DeleteCampaignData removes every live key for a campaign.
func (c *Client) DeleteCampaignData(ctx context.Context, campaignID string) error {
	return c.rdb.Del(ctx, worldKey(campaignID), timerKey(campaignID)).Err()
}
