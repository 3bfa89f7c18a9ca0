package redisx

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ContestantsPubSub broadcasts vote-tally changes so frontends polling the
// public leaderboard can refresh without waiting on the cache TTL.
type ContestantsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewContestantsPubSub(rdb *redis.Client) *ContestantsPubSub {
	return &ContestantsPubSub{
		rdb:     rdb,
		channel: ChannelContestantsChanged(),
	}
}

type contestantChangedMsg struct {
	Type         string `json:"type"`
	ContestantID string `json:"contestant_id"`
	TsUnix       int64  `json:"ts_unix"`
}

func (p *ContestantsPubSub) PublishContestantChanged(ctx context.Context, contestantID string) error {
	msg := contestantChangedMsg{
		Type:         "contestant_changed",
		ContestantID: contestantID,
		TsUnix:       time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *ContestantsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, contestantID string)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev contestantChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.ContestantID != "" {
				handler(ctx, ev.ContestantID)
			}
		}
	}
}
