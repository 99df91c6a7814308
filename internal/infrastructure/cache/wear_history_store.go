package cache

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wardrobe/backend/internal/domain/recommendation"
)

const wearHistoryKeyPrefix = "wardrobe:wear_history:"

// RedisWearHistoryStore keeps each user's wear log in a sorted set scored by
// the wear time in milliseconds. Members are "<item id>:<ms>" so the same
// item worn twice yields two entries.
type RedisWearHistoryStore struct {
	client    *redis.Client
	keyPrefix string
	retention time.Duration
}

// NewRedisWearHistoryStore creates a store on an existing client
func NewRedisWearHistoryStore(client *redis.Client) *RedisWearHistoryStore {
	return &RedisWearHistoryStore{
		client:    client,
		keyPrefix: wearHistoryKeyPrefix,
		retention: recommendation.WearHistoryRetention,
	}
}

func (s *RedisWearHistoryStore) key(userID string) string {
	return s.keyPrefix + userID
}

// Append stores entries and refreshes the key expiry to the retention period
func (s *RedisWearHistoryStore) Append(ctx context.Context, userID string, entries ...recommendation.WearEntry) error {
	if len(entries) == 0 {
		return nil
	}
	members := make([]redis.Z, len(entries))
	for i, e := range entries {
		ms := e.WornAt.UnixMilli()
		members[i] = redis.Z{
			Score:  float64(ms),
			Member: e.ItemID + ":" + strconv.FormatInt(ms, 10),
		}
	}

	key := s.key(userID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, members...)
		pipe.Expire(ctx, key, s.retention)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append wear history: %w", err)
	}
	return nil
}

// List returns the entries worn at or after since, newest first
func (s *RedisWearHistoryStore) List(ctx context.Context, userID string, since time.Time) ([]recommendation.WearEntry, error) {
	res, err := s.client.ZRevRangeByScoreWithScores(ctx, s.key(userID), &redis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list wear history: %w", err)
	}

	entries := make([]recommendation.WearEntry, 0, len(res))
	for _, z := range res {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		itemID := member
		if i := strings.LastIndexByte(member, ':'); i > 0 {
			itemID = member[:i]
		}
		entries = append(entries, recommendation.WearEntry{
			ItemID: itemID,
			WornAt: time.UnixMilli(int64(z.Score)),
		})
	}
	return entries, nil
}

// Prune removes the entries worn before cutoff
func (s *RedisWearHistoryStore) Prune(ctx context.Context, userID string, cutoff time.Time) error {
	err := s.client.ZRemRangeByScore(ctx, s.key(userID), "-inf", "("+strconv.FormatInt(cutoff.UnixMilli(), 10)).Err()
	if err != nil {
		return fmt.Errorf("failed to prune wear history: %w", err)
	}
	return nil
}

var _ recommendation.WearHistoryStore = (*RedisWearHistoryStore)(nil)

// InMemoryWearHistoryStore keeps wear logs in process memory. State is lost
// on restart and not shared between instances.
type InMemoryWearHistoryStore struct {
	mu      sync.RWMutex
	entries map[string][]recommendation.WearEntry
}

// NewInMemoryWearHistoryStore creates an empty in-memory store
func NewInMemoryWearHistoryStore() *InMemoryWearHistoryStore {
	return &InMemoryWearHistoryStore{entries: make(map[string][]recommendation.WearEntry)}
}

// Append stores entries for a user
func (s *InMemoryWearHistoryStore) Append(_ context.Context, userID string, entries ...recommendation.WearEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = append(s.entries[userID], entries...)
	return nil
}

// List returns the entries worn at or after since, newest first
func (s *InMemoryWearHistoryStore) List(_ context.Context, userID string, since time.Time) ([]recommendation.WearEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]recommendation.WearEntry, 0)
	for _, e := range s.entries[userID] {
		if !e.WornAt.Before(since) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].WornAt.After(out[b].WornAt) })
	return out, nil
}

// Prune removes the entries worn before cutoff
func (s *InMemoryWearHistoryStore) Prune(_ context.Context, userID string, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[userID][:0]
	for _, e := range s.entries[userID] {
		if !e.WornAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		delete(s.entries, userID)
		return nil
	}
	s.entries[userID] = kept
	return nil
}

var _ recommendation.WearHistoryStore = (*InMemoryWearHistoryStore)(nil)
