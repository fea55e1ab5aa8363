package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/dto"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var creatorX = model.Authenticated(model.Identity{UserID: "X", Role: model.RoleCreator})

func uploadRequest(title string) *dto.VideoUploadRequest {
	return &dto.VideoUploadRequest{
		Title:       title,
		Description: "desc",
		Tags:        []string{" go ", "", "go", "feed"},
		FileName:    "clip.mp4",
		ContentType: "video/mp4",
		Size:        4,
		Content:     strings.NewReader("data"),
	}
}

func TestUploadVideo(t *testing.T) {
	s := newStore(t)
	storage := new(MockStorage)
	storage.On("Upload", mock.Anything, "clip.mp4", mock.Anything, int64(4), "video/mp4").
		Return("http://cdn/videos/k.mp4", "k.mp4", nil).Once()

	videos := usecase.NewVideoUsecase(s.Videos(), s.Reactions(), s.Comments(), storage, nil)
	v, err := videos.UploadVideo(context.Background(), creatorX, uploadRequest(" My clip "))
	require.NoError(t, err)

	assert.Equal(t, "21", v.ID)
	assert.Equal(t, "X", v.Creator)
	assert.Equal(t, "My clip", v.Title)
	assert.Equal(t, []string{"go", "feed"}, v.Tags)
	assert.Equal(t, "http://cdn/videos/k.mp4", v.URL)
	assert.Equal(t, "k.mp4", v.PublicID)
	storage.AssertExpectations(t)
}

func TestUploadVideo_Rejections(t *testing.T) {
	s := newStore(t)
	storage := new(MockStorage)
	videos := usecase.NewVideoUsecase(s.Videos(), s.Reactions(), s.Comments(), storage, nil)
	ctx := context.Background()

	_, err := videos.UploadVideo(ctx, alice, uploadRequest("t"))
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = videos.UploadVideo(ctx, creatorX, uploadRequest("   "))
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = videos.UploadVideo(ctx, creatorX, &dto.VideoUploadRequest{Title: "t"})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadVideo_StorageFailure(t *testing.T) {
	s := newStore(t)
	storage := new(MockStorage)
	boom := errors.New("bucket unavailable")
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", "", boom)

	videos := usecase.NewVideoUsecase(s.Videos(), s.Reactions(), s.Comments(), storage, nil)
	_, err := videos.UploadVideo(context.Background(), creatorX, uploadRequest("t"))
	assert.ErrorIs(t, err, boom)

	n, err := s.Videos().Count(context.Background(), model.VideoFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestUpdateVideo(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	videos := usecase.NewVideoUsecase(s.Videos(), s.Reactions(), s.Comments(), nil, nil)

	v, err := videos.UpdateVideo(ctx, creatorX, "10", dto.VideoUpdateRequest{Title: "A2"})
	require.NoError(t, err)
	assert.Equal(t, "A2", v.Title)

	stored, err := s.Videos().GetByID(ctx, "10", model.VideoFilter{})
	require.NoError(t, err)
	assert.Equal(t, "A2", stored.Title)

	_, err = videos.UpdateVideo(ctx, creatorX, "15", dto.VideoUpdateRequest{Title: "stolen"})
	assert.ErrorIs(t, err, model.ErrForbidden)

	admin := model.Authenticated(model.Identity{UserID: "root", Role: model.RoleAdmin})
	_, err = videos.UpdateVideo(ctx, admin, "15", dto.VideoUpdateRequest{Title: "stolen"})
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = videos.UpdateVideo(ctx, alice, "10", dto.VideoUpdateRequest{Title: "x"})
	assert.ErrorIs(t, err, model.ErrForbidden)

	_, err = videos.UpdateVideo(ctx, creatorX, "404", dto.VideoUpdateRequest{Title: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteVideo_PurgesEngagement(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Seed(model.Video{ID: "30", Creator: "X", Title: "D", PublicID: "d.mp4"}))
	_, err := s.Reactions().SetReaction(ctx, "alice", "30", model.ReactionLike)
	require.NoError(t, err)
	_, err = s.Comments().AppendComment(ctx, "30", "alice", "bye")
	require.NoError(t, err)

	storage := new(MockStorage)
	storage.On("Remove", mock.Anything, "d.mp4").Return(errors.New("already gone")).Once()
	cache := new(MockCountCache)
	cache.On("Invalidate", mock.Anything, "30").Return(nil).Once()

	videos := usecase.NewVideoUsecase(s.Videos(), s.Reactions(), s.Comments(), storage, cache)
	require.NoError(t, videos.DeleteVideo(ctx, creatorX, "30"))

	_, err = s.Videos().GetByID(ctx, "30", model.VideoFilter{})
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 0, s.ReactionCount())
	assert.Equal(t, 0, s.ThreadCount())
	storage.AssertExpectations(t)
	cache.AssertExpectations(t)

	assert.ErrorIs(t, videos.DeleteVideo(ctx, creatorX, "30"), model.ErrNotFound)
}
