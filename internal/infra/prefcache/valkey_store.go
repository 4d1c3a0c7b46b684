// Package prefcache tracks how often categories get recommended and holds
// short-lived group snapshots, backed by Valkey or an in-process map.
package prefcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/playfriends/playfriends/internal/domain/group"
	"github.com/playfriends/playfriends/internal/domain/planner"
)

// snapshotTTL bounds how stale a cached group snapshot can get. Mutations
// invalidate eagerly; the TTL covers writers this process never sees, such
// as the expiry sweep.
const snapshotTTL = 5 * time.Minute

// ValkeyStore counts recommendations in a sorted set and caches group
// snapshots as JSON values with a TTL.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "playfriends"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) IncrementCategory(ctx context.Context, name string) error {
	if name == "" {
		return nil
	}
	cmd := s.client.B().Zincrby().Key(s.trendingKey()).Increment(1).Member(name).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) TopCategories(ctx context.Context, limit int) ([]planner.TrendingCategory, error) {
	if limit <= 0 {
		limit = 10
	}
	cmd := s.client.B().Zrevrange().Key(s.trendingKey()).Start(0).Stop(int64(limit - 1)).Withscores().Build()
	arr, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]planner.TrendingCategory, 0, len(arr))
	for i := 0; i < len(arr); {
		var (
			member string
			score  float64
		)
		if tuple, tupleErr := arr[i].ToArray(); tupleErr == nil && len(tuple) == 2 {
			// RESP3 returns [member, score] per element.
			if member, err = tuple[0].ToString(); err != nil {
				return nil, err
			}
			if score, err = tuple[1].ToFloat64(); err != nil {
				return nil, err
			}
			i++
		} else {
			// RESP2 returns a flat alternating array.
			if i+1 >= len(arr) {
				break
			}
			if member, err = arr[i].ToString(); err != nil {
				return nil, err
			}
			if score, err = arr[i+1].ToFloat64(); err != nil {
				return nil, err
			}
			i += 2
		}
		out = append(out, planner.TrendingCategory{Name: member, Count: int64(score)})
	}
	return out, nil
}

func (s *ValkeyStore) GetSnapshot(ctx context.Context, groupID string) (group.Group, bool, error) {
	cmd := s.client.B().Get().Key(s.snapshotKey(groupID)).Build()
	raw, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return group.Group{}, false, nil
		}
		return group.Group{}, false, err
	}
	var g group.Group
	if err := json.Unmarshal(raw, &g); err != nil {
		return group.Group{}, false, err
	}
	return g, true, nil
}

func (s *ValkeyStore) SetSnapshot(ctx context.Context, g group.Group) error {
	payload, err := json.Marshal(g)
	if err != nil {
		return err
	}
	cmd := s.client.B().Set().Key(s.snapshotKey(g.ID)).Value(string(payload)).
		Ex(snapshotTTL).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) InvalidateSnapshot(ctx context.Context, groupID string) error {
	cmd := s.client.B().Del().Key(s.snapshotKey(groupID)).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) trendingKey() string {
	return s.prefix + ":trending:categories"
}

func (s *ValkeyStore) snapshotKey(groupID string) string {
	return s.prefix + ":group:snapshot:" + groupID
}

var (
	_ planner.TrendingStore = (*ValkeyStore)(nil)
	_ group.SnapshotCache   = (*ValkeyStore)(nil)
)
