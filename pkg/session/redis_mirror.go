package session

import (
	"context"
	"time"

	"github.com/matst80/slask-shelf/pkg/common/jsoncompat"
	"github.com/matst80/slask-shelf/pkg/store"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "shelf:session:"

type RedisMirror struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMirror(addr, password string, db int, ttl time.Duration) *RedisMirror {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisMirror{client: rdb, ttl: ttl}
}

func sessionKey(sessionId string) string {
	return keyPrefix + sessionId
}

func (m *RedisMirror) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

func (m *RedisMirror) Load(ctx context.Context, sessionId string) (store.Snapshot, bool, error) {
	data, err := m.client.Get(ctx, sessionKey(sessionId)).Bytes()
	if errors.Is(err, redis.Nil) {
		return store.Snapshot{}, false, nil
	}
	if err != nil {
		return store.Snapshot{}, false, errors.Wrapf(err, "load session %s", sessionId)
	}
	var snapshot store.Snapshot
	if err := jsoncompat.Unmarshal(data, &snapshot); err != nil {
		return store.Snapshot{}, false, errors.Wrapf(err, "decode session %s", sessionId)
	}
	return snapshot, true, nil
}

func (m *RedisMirror) Save(ctx context.Context, sessionId string, snapshot store.Snapshot) error {
	data, err := jsoncompat.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}
	return errors.Wrapf(m.client.Set(ctx, sessionKey(sessionId), data, m.ttl).Err(), "save session %s", sessionId)
}

func (m *RedisMirror) Delete(ctx context.Context, sessionId string) error {
	return errors.Wrapf(m.client.Del(ctx, sessionKey(sessionId)).Err(), "delete session %s", sessionId)
}

func (m *RedisMirror) Close() error {
	return m.client.Close()
}
