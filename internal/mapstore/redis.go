package mapstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "qiq:doc:"

// Redis is the durable backend. Mappings survive process restarts, so an
// update arriving after a redeploy still hits the original calendar event
// instead of creating a duplicate.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Get(ctx context.Context, docID string) (string, bool, error) {
	id, err := s.client.Get(ctx, keyPrefix+docID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (s *Redis) Put(ctx context.Context, docID, eventID string) error {
	return s.client.Set(ctx, keyPrefix+docID, eventID, 0).Err()
}

func (s *Redis) Remove(ctx context.Context, docID string) error {
	return s.client.Del(ctx, keyPrefix+docID).Err()
}
