package usecase

import (
	"context"
	"strings"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/dto"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"

	"github.com/google/go-querystring/query"
	"golang.org/x/sync/errgroup"
)

// RandomVideoID is the id alias that asks for a random video.
const RandomVideoID = "random"

type FeedOptions struct {
	MaxPageSize    int
	SearchPageSize int
}

type IFeedUsecase interface {
	// GetVideo resolves idOrRandom within filter and composes the feed item.
	GetVideo(ctx context.Context, rc model.RequestContext, idOrRandom string, filter model.VideoFilter) (*dto.FeedItemView, error)
	BuildFeedItem(ctx context.Context, rc model.RequestContext, video *model.Video, filter model.VideoFilter) (*dto.FeedItemView, error)
	// ListFeedPage pages through videos newest first. Pages are 1-based.
	ListFeedPage(ctx context.Context, page, pageSize int, filter model.VideoFilter) (*dto.FeedPage, error)
	SearchVideos(ctx context.Context, q string, page int) (*dto.SearchPage, error)
}

type feedUsecase struct {
	videos   repository.IVideo
	selector IFeedSelector
	counter  reactionCounter
	comments repository.IComment
	opts     FeedOptions
}

// NewFeedUsecase composes feed items from the selector and the stores. cache
// may be nil.
func NewFeedUsecase(
	videos repository.IVideo,
	selector IFeedSelector,
	reactions repository.IReaction,
	comments repository.IComment,
	cache repository.IReactionCountCache,
	opts FeedOptions,
) IFeedUsecase {
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 100
	}
	if opts.SearchPageSize <= 0 {
		opts.SearchPageSize = 10
	}
	return &feedUsecase{
		videos:   videos,
		selector: selector,
		counter:  reactionCounter{reactions: reactions, cache: cache},
		comments: comments,
		opts:     opts,
	}
}

func (u *feedUsecase) GetVideo(ctx context.Context, rc model.RequestContext, idOrRandom string, filter model.VideoFilter) (*dto.FeedItemView, error) {
	criteria := model.ByID(idOrRandom, filter)
	if strings.EqualFold(idOrRandom, RandomVideoID) {
		criteria = model.Random(filter)
	}
	video, err := u.selector.SelectVideo(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return u.BuildFeedItem(ctx, rc, video, filter)
}

// BuildFeedItem runs the independent reads concurrently. The first failure
// cancels the others and is returned unchanged.
func (u *feedUsecase) BuildFeedItem(ctx context.Context, rc model.RequestContext, video *model.Video, filter model.VideoFilter) (*dto.FeedItemView, error) {
	if video == nil {
		return nil, model.NotFound(model.MsgVideoNotFound)
	}
	var (
		counts     model.ReactionCounts
		own        *model.ReactionRecord
		next, prev *model.Video
		comments   []model.Comment
	)
	cursor := model.FeedCursor{VideoID: video.ID, Filter: filter}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = u.counter.counts(gctx, video.ID)
		return err
	})
	if !rc.IsAnonymous() {
		g.Go(func() (err error) {
			own, err = u.counter.reactions.GetReaction(gctx, rc.UserID(), video.ID)
			return err
		})
	}
	g.Go(func() (err error) {
		next, err = u.videos.Neighbor(gctx, cursor, model.Forward)
		return err
	})
	g.Go(func() (err error) {
		prev, err = u.videos.Neighbor(gctx, cursor, model.Backward)
		return err
	})
	g.Go(func() (err error) {
		comments, err = u.comments.ListComments(gctx, video.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}

	item := dto.FeedVideo{
		Video:    *video,
		NextID:   videoID(next),
		PrevID:   videoID(prev),
		Likes:    FormatCount(counts.Likes),
		Dislikes: FormatCount(counts.Dislikes),
	}
	if own != nil {
		item.IsLike = own.Kind == model.ReactionLike
		item.IsDislike = own.Kind == model.ReactionDislike
	}
	return &dto.FeedItemView{Video: item, Comments: comments}, nil
}

func videoID(v *model.Video) *string {
	if v == nil {
		return nil
	}
	id := v.ID
	return &id
}

func (u *feedUsecase) ListFeedPage(ctx context.Context, page, pageSize int, filter model.VideoFilter) (*dto.FeedPage, error) {
	if page <= 0 || pageSize <= 0 {
		return nil, model.InvalidArgument("Page and limit must be positive")
	}
	pageSize = min(pageSize, u.opts.MaxPageSize)

	total, err := u.videos.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	videos, err := u.videos.List(ctx, filter, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	p := dto.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalVideos: total,
		PerPage:     pageSize,
	}
	if page < totalPages {
		p.Next = feedLink(dto.FeedPageQuery{Page: page + 1, Limit: pageSize, Creator: filter.Creator})
	}
	if page > 1 && page <= totalPages+1 {
		p.Prev = feedLink(dto.FeedPageQuery{Page: page - 1, Limit: pageSize, Creator: filter.Creator})
	}
	return &dto.FeedPage{Videos: videos, Pagination: p}, nil
}

func (u *feedUsecase) SearchVideos(ctx context.Context, q string, page int) (*dto.SearchPage, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, model.InvalidArgument("Search query is required")
	}
	if page <= 0 {
		return nil, model.InvalidArgument("Page must be positive")
	}
	size := u.opts.SearchPageSize
	videos, err := u.videos.Search(ctx, q, (page-1)*size, size)
	if err != nil {
		return nil, err
	}
	res := &dto.SearchPage{Videos: videos, Page: page, PerPage: size}
	if len(videos) == size {
		res.Next = searchLink(dto.SearchQuery{Query: q, Page: page + 1})
	}
	return res, nil
}

func feedLink(q dto.FeedPageQuery) string {
	v, err := query.Values(q)
	if err != nil {
		return ""
	}
	return "/video?" + v.Encode()
}

func searchLink(q dto.SearchQuery) string {
	v, err := query.Values(q)
	if err != nil {
		return ""
	}
	return "/video/search?" + v.Encode()
}
