package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	memoryTurns = 20
	memoryTTL   = 7 * 24 * time.Hour
)

// ChatMemory keeps recent turns per signed-in user.
type ChatMemory interface {
	History(ctx context.Context, userID string) ([]ChatTurn, error)
	Append(ctx context.Context, userID string, turns ...ChatTurn) error
}

type redisMemory struct {
	rdb *redis.Client
}

func NewRedisMemory(rdb *redis.Client) ChatMemory {
	return &redisMemory{rdb: rdb}
}

func memoryKey(userID string) string {
	return "chat:history:" + userID
}

func (m *redisMemory) History(ctx context.Context, userID string) ([]ChatTurn, error) {
	raw, err := m.rdb.LRange(ctx, memoryKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	turns := make([]ChatTurn, 0, len(raw))
	for _, r := range raw {
		var t ChatTurn
		if err := json.Unmarshal([]byte(r), &t); err != nil {
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}

// Append pushes turns, keeps only the newest memoryTurns and refreshes the
// expiry.
func (m *redisMemory) Append(ctx context.Context, userID string, turns ...ChatTurn) error {
	if len(turns) == 0 {
		return nil
	}

	values := make([]any, 0, len(turns))
	for _, t := range turns {
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		values = append(values, string(b))
	}

	key := memoryKey(userID)
	pipe := m.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -memoryTurns, -1)
	pipe.Expire(ctx, key, memoryTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save chat history: %w", err)
	}
	return nil
}
