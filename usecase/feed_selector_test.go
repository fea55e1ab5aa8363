package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/persistence"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStore seeds A(10, X), B(20, X) and C(15, Y).
func newStore(t *testing.T) *persistence.MemoryStore {
	t.Helper()
	s := persistence.NewMemoryStore()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Seed(
		model.Video{ID: "10", Creator: "X", Title: "A", CreatedAt: base},
		model.Video{ID: "20", Creator: "X", Title: "B", CreatedAt: base.Add(2 * time.Minute)},
		model.Video{ID: "15", Creator: "Y", Title: "C", CreatedAt: base.Add(time.Minute)},
	))
	return s
}

func TestFeedSelector_NextAndPreviousWithinCreator(t *testing.T) {
	ctx := context.Background()
	selector := usecase.NewFeedSelector(newStore(t).Videos(), nil)
	x := model.VideoFilter{Creator: "X"}

	next, err := selector.SelectVideo(ctx, model.Next(model.FeedCursor{VideoID: "10", Filter: x}))
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "20", next.ID)

	prev, err := selector.SelectVideo(ctx, model.Previous(model.FeedCursor{VideoID: "20", Filter: x}))
	require.NoError(t, err)
	require.NotNil(t, prev)
	assert.Equal(t, "10", prev.ID)

	unfiltered, err := selector.SelectVideo(ctx, model.Next(model.FeedCursor{VideoID: "10"}))
	require.NoError(t, err)
	assert.Equal(t, "15", unfiltered.ID)

	last, err := selector.SelectVideo(ctx, model.Next(model.FeedCursor{VideoID: "20", Filter: x}))
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestFeedSelector_ByID(t *testing.T) {
	ctx := context.Background()
	selector := usecase.NewFeedSelector(newStore(t).Videos(), nil)

	v, err := selector.SelectVideo(ctx, model.ByID("15", model.VideoFilter{}))
	require.NoError(t, err)
	assert.Equal(t, "C", v.Title)

	_, err = selector.SelectVideo(ctx, model.ByID("15", model.VideoFilter{Creator: "X"}))
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = selector.SelectVideo(ctx, model.ByID("404", model.VideoFilter{}))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestFeedSelector_RandomEmptyIsUnavailable(t *testing.T) {
	selector := usecase.NewFeedSelector(newStore(t).Videos(), nil)

	_, err := selector.SelectVideo(context.Background(), model.Random(model.VideoFilter{Creator: "Z"}))
	require.ErrorIs(t, err, model.ErrUnavailable)
	assert.EqualError(t, err, model.MsgNoVideosAvailable)
}

func TestFeedSelector_RandomStaysInFilter(t *testing.T) {
	selector := usecase.NewFeedSelector(newStore(t).Videos(), nil)
	for range 50 {
		v, err := selector.SelectVideo(context.Background(), model.Random(model.VideoFilter{Creator: "X"}))
		require.NoError(t, err)
		assert.Equal(t, "X", v.Creator)
	}
}

func TestFeedSelector_RecordsSelections(t *testing.T) {
	recorder := new(MockRecorder)
	recorder.On("FeedSelection", "random").Return().Once()
	recorder.On("FeedSelection", "by_id").Return().Once()

	selector := usecase.NewFeedSelector(newStore(t).Videos(), recorder)
	_, err := selector.SelectVideo(context.Background(), model.Random(model.VideoFilter{}))
	require.NoError(t, err)
	_, err = selector.SelectVideo(context.Background(), model.ByID("10", model.VideoFilter{}))
	require.NoError(t, err)
	_, err = selector.SelectVideo(context.Background(), model.Next(model.FeedCursor{VideoID: "20"}))
	require.NoError(t, err)

	recorder.AssertExpectations(t)
	recorder.AssertNotCalled(t, "FeedSelection", "next")
	recorder.AssertNumberOfCalls(t, "FeedSelection", 2)
}
