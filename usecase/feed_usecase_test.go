package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/dto"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/persistence"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var alice = model.Authenticated(model.Identity{UserID: "alice", Role: model.RoleUser})

func newFeed(s *persistence.MemoryStore) usecase.IFeedUsecase {
	return usecase.NewFeedUsecase(
		s.Videos(),
		usecase.NewFeedSelector(s.Videos(), nil),
		s.Reactions(),
		s.Comments(),
		nil,
		usecase.FeedOptions{MaxPageSize: 2, SearchPageSize: 2},
	)
}

func TestGetVideo_ComposesFeedItem(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, err := s.Reactions().SetReaction(ctx, "alice", "10", model.ReactionLike)
	require.NoError(t, err)
	_, err = s.Reactions().SetReaction(ctx, "bob", "10", model.ReactionDislike)
	require.NoError(t, err)
	_, err = s.Comments().AppendComment(ctx, "10", "bob", "nice")
	require.NoError(t, err)

	view, err := newFeed(s).GetVideo(ctx, alice, "10", model.VideoFilter{Creator: "X"})
	require.NoError(t, err)

	assert.Equal(t, "A", view.Video.Title)
	require.NotNil(t, view.Video.NextID)
	assert.Equal(t, "20", *view.Video.NextID)
	assert.Nil(t, view.Video.PrevID)
	assert.Equal(t, "1", view.Video.Likes)
	assert.Equal(t, "1", view.Video.Dislikes)
	assert.True(t, view.Video.IsLike)
	assert.False(t, view.Video.IsDislike)
	require.Len(t, view.Comments, 1)
	assert.Equal(t, "nice", view.Comments[0].Text)
}

func TestGetVideo_ReactionFlagsAreTheRequesters(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, err := s.Reactions().SetReaction(ctx, "bob", "15", model.ReactionLike)
	require.NoError(t, err)

	view, err := newFeed(s).GetVideo(ctx, alice, "15", model.VideoFilter{})
	require.NoError(t, err)
	assert.Equal(t, "1", view.Video.Likes)
	assert.False(t, view.Video.IsLike)
	assert.False(t, view.Video.IsDislike)
}

func TestGetVideo_Anonymous(t *testing.T) {
	s := newStore(t)
	view, err := newFeed(s).GetVideo(context.Background(), model.Anonymous(), "15", model.VideoFilter{})
	require.NoError(t, err)

	assert.False(t, view.Video.IsLike)
	assert.Equal(t, "0", view.Video.Likes)
	require.NotNil(t, view.Video.NextID)
	require.NotNil(t, view.Video.PrevID)
	assert.Equal(t, "20", *view.Video.NextID)
	assert.Equal(t, "10", *view.Video.PrevID)
	assert.NotNil(t, view.Comments)
	assert.Empty(t, view.Comments)
}

func TestGetVideo_Random(t *testing.T) {
	s := newStore(t)
	feed := newFeed(s)

	view, err := feed.GetVideo(context.Background(), model.Anonymous(), "random", model.VideoFilter{Creator: "Y"})
	require.NoError(t, err)
	assert.Equal(t, "15", view.Video.ID)

	_, err = feed.GetVideo(context.Background(), model.Anonymous(), "RANDOM", model.VideoFilter{Creator: "Z"})
	assert.ErrorIs(t, err, model.ErrUnavailable)
}

func TestGetVideo_NotFound(t *testing.T) {
	_, err := newFeed(newStore(t)).GetVideo(context.Background(), alice, "999", model.VideoFilter{})
	require.ErrorIs(t, err, model.ErrNotFound)
	assert.EqualError(t, err, model.MsgVideoNotFound)
}

func TestBuildFeedItem_ForwardsCollaboratorError(t *testing.T) {
	s := newStore(t)
	comments := new(MockComment)
	boom := errors.New("comment store down")
	comments.On("ListComments", mock.Anything, "10").Return(nil, boom)

	feed := usecase.NewFeedUsecase(s.Videos(), usecase.NewFeedSelector(s.Videos(), nil), s.Reactions(), comments, nil, usecase.FeedOptions{})
	_, err := feed.GetVideo(context.Background(), alice, "10", model.VideoFilter{})
	assert.ErrorIs(t, err, boom)
	comments.AssertExpectations(t)
}

func TestBuildFeedItem_NilVideo(t *testing.T) {
	_, err := newFeed(newStore(t)).BuildFeedItem(context.Background(), alice, nil, model.VideoFilter{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBuildFeedItem_UsesCachedCounts(t *testing.T) {
	s := newStore(t)
	cache := new(MockCountCache)
	cache.On("Get", mock.Anything, "20").Return(&model.ReactionCounts{Likes: 1500, Dislikes: 2}, nil)

	feed := usecase.NewFeedUsecase(s.Videos(), usecase.NewFeedSelector(s.Videos(), nil), s.Reactions(), s.Comments(), cache, usecase.FeedOptions{})
	view, err := feed.GetVideo(context.Background(), alice, "20", model.VideoFilter{})
	require.NoError(t, err)

	assert.Equal(t, "1.5K", view.Video.Likes)
	assert.Equal(t, "2", view.Video.Dislikes)
	cache.AssertNotCalled(t, "Fill", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBuildFeedItem_FillsCacheOnMiss(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, err := s.Reactions().SetReaction(ctx, "bob", "20", model.ReactionLike)
	require.NoError(t, err)

	cache := new(MockCountCache)
	cache.On("Get", mock.Anything, "20").Return(nil, nil)
	cache.On("Version", mock.Anything, "20").Return(int64(4), nil)
	cache.On("Fill", mock.Anything, "20", int64(4), model.ReactionCounts{Likes: 1}).Return(true, nil).Once()

	feed := usecase.NewFeedUsecase(s.Videos(), usecase.NewFeedSelector(s.Videos(), nil), s.Reactions(), s.Comments(), cache, usecase.FeedOptions{})
	view, err := feed.GetVideo(ctx, alice, "20", model.VideoFilter{})
	require.NoError(t, err)
	assert.Equal(t, "1", view.Video.Likes)
	cache.AssertExpectations(t)
}

func TestBuildFeedItem_CacheFailureFallsBack(t *testing.T) {
	s := newStore(t)
	cache := new(MockCountCache)
	cache.On("Get", mock.Anything, "20").Return(nil, errors.New("redis down"))
	cache.On("Version", mock.Anything, "20").Return(int64(0), errors.New("redis down"))

	feed := usecase.NewFeedUsecase(s.Videos(), usecase.NewFeedSelector(s.Videos(), nil), s.Reactions(), s.Comments(), cache, usecase.FeedOptions{})
	view, err := feed.GetVideo(context.Background(), alice, "20", model.VideoFilter{})
	require.NoError(t, err)
	assert.Equal(t, "0", view.Video.Likes)
	cache.AssertNotCalled(t, "Fill", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetVideo_SlowReadDoesNotCacheStaleCounts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	cache := newVersionedCache()
	held := &heldReactions{IReaction: s.Reactions(), counted: make(chan struct{}, 2), release: make(chan struct{})}

	feed := usecase.NewFeedUsecase(s.Videos(), usecase.NewFeedSelector(s.Videos(), nil), held, s.Comments(), cache, usecase.FeedOptions{})
	engagement := usecase.NewEngagementUsecase(s.Videos(), s.Reactions(), s.Comments(), cache, nil)

	type result struct {
		view *dto.FeedItemView
		err  error
	}
	slow := make(chan result, 1)
	go func() {
		view, err := feed.GetVideo(context.WithValue(ctx, holdCountsKey{}, true), alice, "10", model.VideoFilter{})
		slow <- result{view, err}
	}()
	<-held.counted
	<-held.counted

	stats, err := engagement.ReactToVideo(ctx, alice, "10", model.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Likes)

	close(held.release)
	r := <-slow
	require.NoError(t, r.err)
	assert.Equal(t, "0", r.view.Video.Likes)

	cached, err := cache.Get(ctx, "10")
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, int64(1), cached.Likes)

	view, err := feed.GetVideo(ctx, alice, "10", model.VideoFilter{})
	require.NoError(t, err)
	assert.Equal(t, "1", view.Video.Likes)
	assert.True(t, view.Video.IsLike)
}

func TestListFeedPage(t *testing.T) {
	feed := newFeed(newStore(t))
	ctx := context.Background()

	first, err := feed.ListFeedPage(ctx, 1, 2, model.VideoFilter{})
	require.NoError(t, err)
	require.Len(t, first.Videos, 2)
	assert.Equal(t, "20", first.Videos[0].ID)
	assert.Equal(t, "15", first.Videos[1].ID)
	assert.Equal(t, 2, first.Pagination.TotalPages)
	assert.Equal(t, int64(3), first.Pagination.TotalVideos)
	assert.Equal(t, "/video?limit=2&page=2", first.Pagination.Next)
	assert.Empty(t, first.Pagination.Prev)

	second, err := feed.ListFeedPage(ctx, 2, 50, model.VideoFilter{Creator: "X"})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Pagination.PerPage)
	assert.Empty(t, second.Videos)
	assert.Equal(t, "/video?creator=X&limit=2&page=1", second.Pagination.Prev)
	assert.Empty(t, second.Pagination.Next)
}

func TestListFeedPage_Invalid(t *testing.T) {
	feed := newFeed(newStore(t))
	_, err := feed.ListFeedPage(context.Background(), 0, 10, model.VideoFilter{})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	_, err = feed.ListFeedPage(context.Background(), 1, -1, model.VideoFilter{})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestListFeedPage_EmptyStore(t *testing.T) {
	feed := newFeed(persistence.NewMemoryStore())
	page, err := feed.ListFeedPage(context.Background(), 1, 10, model.VideoFilter{})
	require.NoError(t, err)
	assert.Empty(t, page.Videos)
	assert.Equal(t, 0, page.Pagination.TotalPages)
}

func TestSearchVideos(t *testing.T) {
	s := persistence.NewMemoryStore()
	require.NoError(t, s.Seed(
		model.Video{ID: "1", Title: "Pasta one"},
		model.Video{ID: "2", Title: "Pasta two"},
		model.Video{ID: "3", Title: "Pasta three"},
	))
	feed := newFeed(s)

	res, err := feed.SearchVideos(context.Background(), "  pasta ", 1)
	require.NoError(t, err)
	assert.Len(t, res.Videos, 2)
	assert.Equal(t, "/video/search?page=2&query=pasta", res.Next)

	res, err = feed.SearchVideos(context.Background(), "pasta", 2)
	require.NoError(t, err)
	assert.Len(t, res.Videos, 1)
	assert.Empty(t, res.Next)

	_, err = feed.SearchVideos(context.Background(), "   ", 1)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestGetVideo_RecordsOnlyTheRequestedSelection(t *testing.T) {
	s := newStore(t)
	recorder := new(MockRecorder)
	recorder.On("FeedSelection", "by_id").Return().Once()

	feed := usecase.NewFeedUsecase(s.Videos(), usecase.NewFeedSelector(s.Videos(), recorder), s.Reactions(), s.Comments(), nil, usecase.FeedOptions{})
	view, err := feed.GetVideo(context.Background(), alice, "10", model.VideoFilter{Creator: "X"})
	require.NoError(t, err)
	require.NotNil(t, view.Video.NextID)

	recorder.AssertExpectations(t)
	recorder.AssertNumberOfCalls(t, "FeedSelection", 1)
}
