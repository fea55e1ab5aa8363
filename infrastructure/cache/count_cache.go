package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"

	"github.com/redis/go-redis/v9"
)

const (
	fieldLikes    = "likes"
	fieldDislikes = "dislikes"

	defaultCountTTL = 30 * time.Second
	versionTTL      = 24 * time.Hour
)

// KEYS[1] counts hash, KEYS[2] version; ARGV version, likes, dislikes, ttl ms.
var fillScript = redis.NewScript(`
if (redis.call("GET", KEYS[2]) or "0") ~= ARGV[1] then
	return 0
end
redis.call("HSET", KEYS[1], "likes", ARGV[2], "dislikes", ARGV[3])
redis.call("PEXPIRE", KEYS[1], ARGV[4])
return 1
`)

// CountCache keeps like/dislike counts of a video in a redis hash for a short
// TTL. Reactions invalidate the entry and bump its version key.
type CountCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCountCache(client redis.Cmdable, ttl time.Duration) repository.IReactionCountCache {
	if ttl <= 0 {
		ttl = defaultCountTTL
	}
	return &CountCache{client: client, ttl: ttl}
}

func countKey(videoID string) string {
	return "video:counts:" + videoID
}

func versionKey(videoID string) string {
	return countKey(videoID) + ":version"
}

// Get returns nil on a miss.
func (c *CountCache) Get(ctx context.Context, videoID string) (*model.ReactionCounts, error) {
	values, err := c.client.HGetAll(ctx, countKey(videoID)).Result()
	if err != nil {
		return nil, err
	}
	return parseCounts(values)
}

func parseCounts(values map[string]string) (*model.ReactionCounts, error) {
	likes, okLikes := values[fieldLikes]
	dislikes, okDislikes := values[fieldDislikes]
	if !okLikes || !okDislikes {
		return nil, nil
	}
	l, err := strconv.ParseInt(likes, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse cached likes: %w", err)
	}
	d, err := strconv.ParseInt(dislikes, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse cached dislikes: %w", err)
	}
	return &model.ReactionCounts{Likes: l, Dislikes: d}, nil
}

func (c *CountCache) Version(ctx context.Context, videoID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(videoID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *CountCache) Fill(ctx context.Context, videoID string, version int64, counts model.ReactionCounts) (bool, error) {
	keys := []string{countKey(videoID), versionKey(videoID)}
	stored, err := fillScript.Run(ctx, c.client, keys, version, counts.Likes, counts.Dislikes, c.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("fill count cache: %w", err)
	}
	return stored == 1, nil
}

func (c *CountCache) Invalidate(ctx context.Context, videoID string) error {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, countKey(videoID))
		p.Incr(ctx, versionKey(videoID))
		p.Expire(ctx, versionKey(videoID), versionTTL)
		return nil
	})
	return err
}
