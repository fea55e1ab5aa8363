package usecase

import (
	"context"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"

	"golang.org/x/sync/errgroup"
)

// reactionCounter reads like/dislike counts, going through the optional
// cache first. The two counts are separate reads and may be skewed under
// concurrent writes.
type reactionCounter struct {
	reactions repository.IReaction
	cache     repository.IReactionCountCache
}

func (c reactionCounter) counts(ctx context.Context, videoID string) (model.ReactionCounts, error) {
	if c.cache == nil {
		return c.fresh(ctx, videoID)
	}
	cached, err := c.cache.Get(ctx, videoID)
	if err != nil {
		logger.FromContext(ctx).WithField("error", err).Warn("Count cache read failed")
	} else if cached != nil {
		return *cached, nil
	}
	return c.refill(ctx, videoID)
}

// refill counts from the store and caches the result unless a reaction
// invalidated the entry while counting.
func (c reactionCounter) refill(ctx context.Context, videoID string) (model.ReactionCounts, error) {
	if c.cache == nil {
		return c.fresh(ctx, videoID)
	}
	version, err := c.cache.Version(ctx, videoID)
	if err != nil {
		logger.FromContext(ctx).WithField("error", err).Warn("Count cache version read failed")
		return c.fresh(ctx, videoID)
	}

	counts, err := c.fresh(ctx, videoID)
	if err != nil {
		return counts, err
	}
	stored, err := c.cache.Fill(ctx, videoID, version, counts)
	if err != nil {
		logger.FromContext(ctx).WithField("error", err).Warn("Count cache write failed")
	} else if !stored {
		logger.FromContext(ctx).WithField("videoId", videoID).Debug("Count cache entry changed while counting")
	}
	return counts, nil
}

func (c reactionCounter) fresh(ctx context.Context, videoID string) (model.ReactionCounts, error) {
	var counts model.ReactionCounts
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := c.reactions.CountReactions(gctx, videoID, model.ReactionLike)
		counts.Likes = n
		return err
	})
	g.Go(func() error {
		n, err := c.reactions.CountReactions(gctx, videoID, model.ReactionDislike)
		counts.Dislikes = n
		return err
	})
	return counts, g.Wait()
}

func (c reactionCounter) invalidate(ctx context.Context, videoID string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Invalidate(ctx, videoID); err != nil {
		logger.FromContext(ctx).WithField("error", err).WithField("videoId", videoID).Warn("Count cache invalidation failed")
	}
}
