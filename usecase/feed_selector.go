package usecase

import (
	"context"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
)

type IFeedSelector interface {
	// SelectVideo returns the video the criteria point at. Next and Previous
	// return nil without error when there is no neighbour.
	SelectVideo(ctx context.Context, criteria model.SelectionCriteria) (*model.Video, error)
}

type feedSelector struct {
	videos   repository.IVideo
	recorder Recorder
}

// NewFeedSelector builds a selector over videos. recorder may be nil.
func NewFeedSelector(videos repository.IVideo, recorder Recorder) IFeedSelector {
	return &feedSelector{videos: videos, recorder: recorderOrNoop(recorder)}
}

func (s *feedSelector) SelectVideo(ctx context.Context, criteria model.SelectionCriteria) (*model.Video, error) {
	var (
		video *model.Video
		err   error
	)
	switch criteria.Mode {
	case model.SelectByID:
		video, err = s.videos.GetByID(ctx, criteria.VideoID, criteria.Filter)
	case model.SelectRandom:
		video, err = s.videos.Sample(ctx, criteria.Filter)
		if err == nil && video == nil {
			err = model.Unavailable(model.MsgNoVideosAvailable)
		}
	case model.SelectNext:
		video, err = s.videos.Neighbor(ctx, model.FeedCursor{VideoID: criteria.VideoID, Filter: criteria.Filter}, model.Forward)
	case model.SelectPrevious:
		video, err = s.videos.Neighbor(ctx, model.FeedCursor{VideoID: criteria.VideoID, Filter: criteria.Filter}, model.Backward)
	default:
		return nil, model.InvalidArgument("Unknown selection mode")
	}
	if err != nil {
		return nil, err
	}
	if video != nil {
		s.recorder.FeedSelection(criteria.Mode.String())
	}
	return video, nil
}
