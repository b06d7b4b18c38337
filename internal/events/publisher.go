package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/trekker/logger"
)

// Poll lifecycle event kinds. The notification subsystem subscribes to these;
// delivering anything to a device is its problem, not ours.
const (
	KindPollCreated  = "poll_created"
	KindPollLive     = "poll_live"
	KindResultsReady = "results_ready"
)

type Event struct {
	Kind      string `json:"kind"`
	SchoolID  string `json:"school_id"`
	PollID    string `json:"poll_id"`
	EmittedAt int64  `json:"emitted_at"`
}

type Publisher struct {
	enabled    bool
	redis      *redis.Client
	channelTpl string
}

func NewPublisher(enabled bool, redisURL, channelTemplate string) (*Publisher, error) {
	if !enabled {
		return &Publisher{enabled: false}, nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if channelTemplate == "" {
		channelTemplate = "cheers:events:{school}"
	}

	return &Publisher{
		enabled:    true,
		redis:      client,
		channelTpl: channelTemplate,
	}, nil
}

func (p *Publisher) Close() error {
	if p.redis != nil {
		return p.redis.Close()
	}
	return nil
}

func (p *Publisher) Publish(ctx context.Context, kind, schoolID, pollID string) error {
	if !p.enabled {
		logger.Debug.Printf("Events disabled, skipping %s for poll %s", kind, pollID)
		return nil
	}

	ev := Event{
		Kind:      kind,
		SchoolID:  schoolID,
		PollID:    pollID,
		EmittedAt: time.Now().UTC().Unix(),
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	channel := strings.NewReplacer(
		"{school}", schoolID,
	).Replace(p.channelTpl)

	if err := p.redis.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", kind, channel, err)
	}

	return nil
}
