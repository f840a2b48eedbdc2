package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ziadkadry99/city-intake/internal/department"
)

const redisKeyPrefix = "intake:conversation:"

// RedisStore keeps each conversation in a Redis hash. A positive TTL lets
// abandoned conversations expire.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store backed by a new Redis client.
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb, ttl: ttl}
}

// Ping checks that the server is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Save(ctx context.Context, st State) error {
	if st.SessionID == "" {
		return nil
	}
	key := redisKeyPrefix + st.SessionID

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"session_id":        st.SessionID,
			"department":        string(st.Department),
			"issue_description": st.IssueDescription,
			"severity_level":    st.SeverityLevel,
			"location":          st.Location,
			"status":            string(st.Status),
			"last_message":      st.LastMessage,
			"ai_response":       st.AIResponse,
			"updated_at":        time.Now().UTC().Format(time.RFC3339Nano),
		})
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save conversation: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*State, error) {
	fields, err := s.client.HGetAll(ctx, redisKeyPrefix+sessionID).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load conversation: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	st := State{
		SessionID:        fields["session_id"],
		Department:       department.Department(fields["department"]),
		IssueDescription: fields["issue_description"],
		Location:         fields["location"],
		Status:           Status(fields["status"]),
		LastMessage:      fields["last_message"],
		AIResponse:       fields["ai_response"],
		UpdatedAt:        parseTimestamp(fields["updated_at"]),
	}
	if st.SessionID == "" {
		st.SessionID = sessionID
	}
	if v := fields["severity_level"]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("redis conversation %s: bad severity_level %q", sessionID, v)
		}
		st.SeverityLevel = n
	}
	return &st, nil
}
