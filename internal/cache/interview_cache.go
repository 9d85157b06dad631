package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hireloop/internal/model"
)

// InterviewCache handles Redis operations for interview metadata. Websocket
// auth and session lookups hit this before falling back to the database.
type InterviewCache interface {
	SetMeta(ctx context.Context, roomCode string, meta *model.InterviewMeta) error
	GetMeta(ctx context.Context, roomCode string) (*model.InterviewMeta, error)
	Delete(ctx context.Context, roomCode string) error
}

type interviewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewInterviewCache creates a new interview metadata cache.
func NewInterviewCache(client *redis.Client) InterviewCache {
	return &interviewCache{
		client: client,
		ttl:    24 * time.Hour, // Outlives the longest interview window
	}
}

func (c *interviewCache) key(roomCode string) string {
	return fmt.Sprintf("interview:%s", roomCode)
}

func (c *interviewCache) SetMeta(ctx context.Context, roomCode string, meta *model.InterviewMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(roomCode), data, c.ttl).Err()
}

func (c *interviewCache) GetMeta(ctx context.Context, roomCode string) (*model.InterviewMeta, error) {
	data, err := c.client.Get(ctx, c.key(roomCode)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var meta model.InterviewMeta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (c *interviewCache) Delete(ctx context.Context, roomCode string) error {
	return c.client.Del(ctx, c.key(roomCode)).Err()
}
