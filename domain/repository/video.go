package repository

import (
	"context"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
)

// IVideo stores videos. Identifiers are opaque strings whose order is
// defined by the implementation.
type IVideo interface {
	// GetByID returns a NotFound error when the video is missing or fails the filter.
	GetByID(ctx context.Context, id string, filter model.VideoFilter) (*model.Video, error)
	Count(ctx context.Context, filter model.VideoFilter) (int64, error)
	// Sample returns a uniformly chosen matching video, or nil when none match.
	Sample(ctx context.Context, filter model.VideoFilter) (*model.Video, error)
	// Neighbor returns the closest matching video after (Forward) or before
	// (Backward) the cursor, or nil when there is none.
	Neighbor(ctx context.Context, cursor model.FeedCursor, dir model.Direction) (*model.Video, error)
	// List returns matching videos newest first.
	List(ctx context.Context, filter model.VideoFilter, offset, limit int) ([]model.Video, error)
	// Search matches title, tags and hashtags case-insensitively, newest first.
	Search(ctx context.Context, query string, offset, limit int) ([]model.Video, error)
	// Create assigns ID and CreatedAt.
	Create(ctx context.Context, video *model.Video) error
	Update(ctx context.Context, video *model.Video) error
	Delete(ctx context.Context, id string) error
}
