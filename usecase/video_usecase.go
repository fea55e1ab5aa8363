package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/dto"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"
)

type IVideoUsecase interface {
	UploadVideo(ctx context.Context, rc model.RequestContext, req *dto.VideoUploadRequest) (*model.Video, error)
	UpdateVideo(ctx context.Context, rc model.RequestContext, videoID string, req dto.VideoUpdateRequest) (*model.Video, error)
	// DeleteVideo removes the record first. Media and engagement cleanup is
	// best effort.
	DeleteVideo(ctx context.Context, rc model.RequestContext, videoID string) error
}

type videoUsecase struct {
	videos    repository.IVideo
	reactions repository.IReaction
	comments  repository.IComment
	storage   repository.IMediaStorage
	counter   reactionCounter
}

func NewVideoUsecase(
	videos repository.IVideo,
	reactions repository.IReaction,
	comments repository.IComment,
	storage repository.IMediaStorage,
	cache repository.IReactionCountCache,
) IVideoUsecase {
	return &videoUsecase{
		videos:    videos,
		reactions: reactions,
		comments:  comments,
		storage:   storage,
		counter:   reactionCounter{reactions: reactions, cache: cache},
	}
}

func (u *videoUsecase) UploadVideo(ctx context.Context, rc model.RequestContext, req *dto.VideoUploadRequest) (*model.Video, error) {
	if err := rc.Require(model.CapUpload); err != nil {
		return nil, err
	}
	if req == nil || req.Content == nil {
		return nil, model.InvalidArgument("Video file is required")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.InvalidArgument("Title is required")
	}
	if u.storage == nil {
		return nil, errors.New("media storage not configured")
	}

	url, ref, err := u.storage.Upload(ctx, req.FileName, req.Content, req.Size, req.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}
	video := &model.Video{
		Creator:     rc.UserID(),
		Title:       title,
		Description: req.Description,
		Tags:        cleanList(req.Tags),
		Hashtags:    cleanList(req.Hashtags),
		URL:         url,
		PublicID:    ref,
	}
	if err := u.videos.Create(ctx, video); err != nil {
		u.removeMedia(ctx, ref)
		return nil, fmt.Errorf("create video: %w", err)
	}
	return video, nil
}

func (u *videoUsecase) UpdateVideo(ctx context.Context, rc model.RequestContext, videoID string, req dto.VideoUpdateRequest) (*model.Video, error) {
	video, err := u.ownedVideo(ctx, rc, videoID, "You can only update your own videos")
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(req.Title); t != "" {
		video.Title = t
	}
	if req.Description != "" {
		video.Description = req.Description
	}
	if tags := cleanList(req.Tags); len(tags) > 0 {
		video.Tags = tags
	}
	if err := u.videos.Update(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

func (u *videoUsecase) DeleteVideo(ctx context.Context, rc model.RequestContext, videoID string) error {
	video, err := u.ownedVideo(ctx, rc, videoID, "You can only delete your own videos")
	if err != nil {
		return err
	}
	if err := u.videos.Delete(ctx, video.ID); err != nil {
		return err
	}

	log := logger.FromContext(ctx).WithField("videoId", video.ID)
	u.removeMedia(ctx, video.PublicID)
	if err := u.reactions.DeleteByVideo(ctx, video.ID); err != nil {
		log.WithField("error", err).Warn("Reaction cleanup failed")
	}
	if err := u.comments.DeleteByVideo(ctx, video.ID); err != nil {
		log.WithField("error", err).Warn("Comment cleanup failed")
	}
	u.counter.invalidate(ctx, video.ID)
	return nil
}

func (u *videoUsecase) ownedVideo(ctx context.Context, rc model.RequestContext, videoID, denied string) (*model.Video, error) {
	if err := rc.Require(model.CapManageOwnVideo); err != nil {
		return nil, err
	}
	video, err := u.videos.GetByID(ctx, videoID, model.VideoFilter{})
	if err != nil {
		return nil, err
	}
	if !video.OwnedBy(rc.UserID()) {
		return nil, model.Forbidden(denied)
	}
	return video, nil
}

func (u *videoUsecase) removeMedia(ctx context.Context, ref string) {
	if u.storage == nil || ref == "" {
		return
	}
	if err := u.storage.Remove(ctx, ref); err != nil {
		logger.FromContext(ctx).WithField("error", err).WithField("ref", ref).Warn("Media cleanup failed")
	}
}

// cleanList trims entries and drops blanks and duplicates.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
