package usecase

import (
	"context"
	"iter"
	"slices"
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/dto"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"

	"github.com/google/uuid"
)

const publishTimeout = 3 * time.Second

// NamedPublisher is an event sink labelled for logs and failure metrics.
type NamedPublisher struct {
	Name      string
	Publisher repository.IEventPublisher
}

type IEngagementUsecase interface {
	ReactToVideo(ctx context.Context, rc model.RequestContext, videoID string, kind model.ReactionKind) (*dto.ReactionStats, error)
	AddComment(ctx context.Context, rc model.RequestContext, videoID, text string) (*model.Comment, error)
	// ListComments yields the thread newest first. The sequence can be ranged
	// over more than once.
	ListComments(ctx context.Context, videoID string) (iter.Seq[model.Comment], error)
}

type engagementUsecase struct {
	videos     repository.IVideo
	reactions  repository.IReaction
	comments   repository.IComment
	counter    reactionCounter
	recorder   Recorder
	publishers []NamedPublisher
}

// NewEngagementUsecase wires the engagement operations. cache and recorder
// may be nil.
func NewEngagementUsecase(
	videos repository.IVideo,
	reactions repository.IReaction,
	comments repository.IComment,
	cache repository.IReactionCountCache,
	recorder Recorder,
	publishers ...NamedPublisher,
) IEngagementUsecase {
	return &engagementUsecase{
		videos:     videos,
		reactions:  reactions,
		comments:   comments,
		counter:    reactionCounter{reactions: reactions, cache: cache},
		recorder:   recorderOrNoop(recorder),
		publishers: publishers,
	}
}

func (u *engagementUsecase) ReactToVideo(ctx context.Context, rc model.RequestContext, videoID string, kind model.ReactionKind) (*dto.ReactionStats, error) {
	if err := rc.Require(model.CapReact); err != nil {
		return nil, err
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if _, err := u.videos.GetByID(ctx, videoID, model.VideoFilter{}); err != nil {
		return nil, err
	}

	rec, err := u.reactions.SetReaction(ctx, rc.UserID(), videoID, kind)
	if err != nil {
		return nil, err
	}
	u.recorder.Reaction(string(rec.Kind))
	u.counter.invalidate(ctx, videoID)

	counts, err := u.counter.refill(ctx, videoID)
	if err != nil {
		return nil, err
	}

	u.publish(ctx, model.EngagementEvent{
		Type:    model.EventReactionSet,
		VideoID: videoID,
		UserID:  rc.UserID(),
		Kind:    rec.Kind,
		Stats:   &counts,
	})

	return &dto.ReactionStats{
		Likes:     counts.Likes,
		Dislikes:  counts.Dislikes,
		IsLike:    rec.Kind == model.ReactionLike,
		IsDislike: rec.Kind == model.ReactionDislike,
	}, nil
}

func (u *engagementUsecase) AddComment(ctx context.Context, rc model.RequestContext, videoID, text string) (*model.Comment, error) {
	if err := rc.Require(model.CapComment); err != nil {
		return nil, err
	}
	text, err := model.NormalizeCommentText(text)
	if err != nil {
		return nil, err
	}
	if _, err := u.videos.GetByID(ctx, videoID, model.VideoFilter{}); err != nil {
		return nil, err
	}

	comment, err := u.comments.AppendComment(ctx, videoID, rc.UserID(), text)
	if err != nil {
		return nil, err
	}
	u.recorder.Comment()
	u.publish(ctx, model.EngagementEvent{
		Type:    model.EventCommentAdded,
		VideoID: videoID,
		UserID:  rc.UserID(),
		Comment: comment,
	})
	return comment, nil
}

func (u *engagementUsecase) ListComments(ctx context.Context, videoID string) (iter.Seq[model.Comment], error) {
	if _, err := u.videos.GetByID(ctx, videoID, model.VideoFilter{}); err != nil {
		return nil, err
	}
	comments, err := u.comments.ListComments(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return slices.Values(comments), nil
}

// publish hands the event to every sink. Failures are logged and counted,
// never returned.
func (u *engagementUsecase) publish(ctx context.Context, event model.EngagementEvent) {
	if len(u.publishers) == 0 {
		return
	}
	event.ID = uuid.NewString()
	event.OccurredAt = time.Now().UTC()

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	for _, p := range u.publishers {
		if err := p.Publisher.Publish(pctx, event); err != nil {
			u.recorder.EventFailed(p.Name)
			logger.FromContext(ctx).
				WithField("error", err).
				WithField("driver", p.Name).
				WithField("eventId", event.ID).
				Warn("Engagement event not delivered")
		}
	}
}
