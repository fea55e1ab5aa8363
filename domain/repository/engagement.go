package repository

import (
	"context"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
)

// IReaction keeps one reaction per (user, video).
type IReaction interface {
	// SetReaction atomically creates or overwrites the caller's reaction.
	SetReaction(ctx context.Context, userID, videoID string, kind model.ReactionKind) (*model.ReactionRecord, error)
	CountReactions(ctx context.Context, videoID string, kind model.ReactionKind) (int64, error)
	// GetReaction returns nil when the user has not reacted.
	GetReaction(ctx context.Context, userID, videoID string) (*model.ReactionRecord, error)
	DeleteByVideo(ctx context.Context, videoID string) error
}

// IComment keeps one append-only comment thread per video.
type IComment interface {
	// AppendComment creates the thread on first use.
	AppendComment(ctx context.Context, videoID, userID, text string) (*model.Comment, error)
	// ListComments returns comments newest first, or an empty slice when the
	// video has no thread.
	ListComments(ctx context.Context, videoID string) ([]model.Comment, error)
	DeleteByVideo(ctx context.Context, videoID string) error
}

// IReactionCountCache is an optional cache in front of CountReactions. Each
// video entry carries a version that Invalidate bumps; Fill only stores counts
// taken under the version that is still current.
type IReactionCountCache interface {
	// Get returns nil on a miss.
	Get(ctx context.Context, videoID string) (*model.ReactionCounts, error)
	// Version returns the current version of the entry, 0 when it has none.
	Version(ctx context.Context, videoID string) (int64, error)
	// Fill stores counts when version is still current and reports whether it
	// did.
	Fill(ctx context.Context, videoID string, version int64, counts model.ReactionCounts) (bool, error)
	// Invalidate drops the entry and bumps its version.
	Invalidate(ctx context.Context, videoID string) error
}
