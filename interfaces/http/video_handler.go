package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/dto"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/interfaces/middleware"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/usecase"

	"github.com/gin-gonic/gin"
)

type IVideoHandler interface {
	// Feed
	GetVideo(ctx *gin.Context)
	GetRandomVideo(ctx *gin.Context)
	ListVideos(ctx *gin.Context)
	SearchVideos(ctx *gin.Context)

	// Engagement
	ListComments(ctx *gin.Context)
	React(ctx *gin.Context)
	Comment(ctx *gin.Context)

	// Management
	Upload(ctx *gin.Context)
	Update(ctx *gin.Context)
	Delete(ctx *gin.Context)
}

type VideoHandler struct {
	feed            usecase.IFeedUsecase
	engagement      usecase.IEngagementUsecase
	videos          usecase.IVideoUsecase
	defaultPageSize int
}

func NewVideoHandler(
	feed usecase.IFeedUsecase,
	engagement usecase.IEngagementUsecase,
	videos usecase.IVideoUsecase,
	defaultPageSize int,
) IVideoHandler {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &VideoHandler{
		feed:            feed,
		engagement:      engagement,
		videos:          videos,
		defaultPageSize: defaultPageSize,
	}
}

func creatorFilter(ctx *gin.Context) model.VideoFilter {
	return model.VideoFilter{Creator: strings.TrimSpace(ctx.Query("creator"))}
}

// GetVideo handles GET /video/:videoId
func (h *VideoHandler) GetVideo(ctx *gin.Context) {
	h.getVideo(ctx, ctx.Param("videoId"))
}

// GetRandomVideo handles GET /video/random
func (h *VideoHandler) GetRandomVideo(ctx *gin.Context) {
	h.getVideo(ctx, usecase.RandomVideoID)
}

func (h *VideoHandler) getVideo(ctx *gin.Context, videoID string) {
	view, err := h.feed.GetVideo(ctx.Request.Context(), middleware.RequestContext(ctx), videoID, creatorFilter(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

// ListVideos handles GET /video?page=&limit=&creator=
func (h *VideoHandler) ListVideos(ctx *gin.Context) {
	page, ok := intQuery(ctx, "page", 1)
	if !ok {
		return
	}
	limit, ok := intQuery(ctx, "limit", h.defaultPageSize)
	if !ok {
		return
	}
	res, err := h.feed.ListFeedPage(ctx.Request.Context(), page, limit, creatorFilter(ctx))
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// SearchVideos handles GET /video/search?query=&page=
func (h *VideoHandler) SearchVideos(ctx *gin.Context) {
	page, ok := intQuery(ctx, "page", 1)
	if !ok {
		return
	}
	res, err := h.feed.SearchVideos(ctx.Request.Context(), ctx.Query("query"), page)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// ListComments handles GET /video/:videoId/comments
func (h *VideoHandler) ListComments(ctx *gin.Context) {
	seq, err := h.engagement.ListComments(ctx.Request.Context(), ctx.Param("videoId"))
	if err != nil {
		writeError(ctx, err)
		return
	}
	comments := []model.Comment{}
	for c := range seq {
		comments = append(comments, c)
	}
	ctx.JSON(http.StatusOK, gin.H{"comments": comments})
}

// React handles POST /video/react
func (h *VideoHandler) React(ctx *gin.Context) {
	var req dto.ReactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.FromContext(ctx.Request.Context()).WithField("error", err).Info(ErrorUnmarshal)
		badRequest(ctx, "videoId and type are required")
		return
	}
	kind, err := model.ParseReactionKind(req.Type)
	if err != nil {
		writeError(ctx, err)
		return
	}
	stats, err := h.engagement.ReactToVideo(ctx.Request.Context(), middleware.RequestContext(ctx), req.VideoID, kind)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"success": "Video " + string(kind) + "d successfully",
		"stats":   stats,
	})
}

// Comment handles POST /video/comment
func (h *VideoHandler) Comment(ctx *gin.Context) {
	var req dto.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.FromContext(ctx.Request.Context()).WithField("error", err).Info(ErrorUnmarshal)
		badRequest(ctx, "videoId is required")
		return
	}
	comment, err := h.engagement.AddComment(ctx.Request.Context(), middleware.RequestContext(ctx), req.VideoID, req.Comment)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"success": "Comment added successfully",
		"comment": comment,
	})
}

// Upload handles POST /video/upload (multipart, file field "video")
func (h *VideoHandler) Upload(ctx *gin.Context) {
	header, err := ctx.FormFile("video")
	if err != nil {
		badRequest(ctx, "No video file uploaded")
		return
	}
	file, err := header.Open()
	if err != nil {
		writeError(ctx, err)
		return
	}
	defer file.Close()

	req := &dto.VideoUploadRequest{
		Title:       ctx.PostForm("title"),
		Description: ctx.PostForm("description"),
		Tags:        splitList(ctx.PostForm("tags")),
		Hashtags:    splitList(ctx.PostForm("hashtags")),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	}
	video, err := h.videos.UploadVideo(ctx.Request.Context(), middleware.RequestContext(ctx), req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"message": "Video uploaded successfully", "video": video})
}

// Update handles PUT /video/:videoId
func (h *VideoHandler) Update(ctx *gin.Context) {
	var req dto.VideoUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.FromContext(ctx.Request.Context()).WithField("error", err).Info(ErrorUnmarshal)
		badRequest(ctx, ErrorUnmarshal)
		return
	}
	video, err := h.videos.UpdateVideo(ctx.Request.Context(), middleware.RequestContext(ctx), ctx.Param("videoId"), req)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Video updated successfully", "video": video})
}

// Delete handles DELETE /video/:videoId
func (h *VideoHandler) Delete(ctx *gin.Context) {
	if err := h.videos.DeleteVideo(ctx.Request.Context(), middleware.RequestContext(ctx), ctx.Param("videoId")); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}

// intQuery returns fallback when key is absent and writes a 400 when it is
// not a number. Range checks belong to the usecase.
func intQuery(ctx *gin.Context, key string, fallback int) (int, bool) {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(ctx, "Invalid "+key)
		return 0, false
	}
	return n, true
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return strings.Split(raw, ",")
}
