package dto

import "io"

// VideoUploadRequest carries an uploaded media file and its metadata.
type VideoUploadRequest struct {
	Title       string
	Description string
	Tags        []string
	Hashtags    []string
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// VideoUpdateRequest replaces only the fields that are non-empty.
type VideoUpdateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type ReactRequest struct {
	VideoID string `json:"videoId" binding:"required"`
	Type    string `json:"type" binding:"required"`
}

type CommentRequest struct {
	VideoID string `json:"videoId" binding:"required"`
	Comment string `json:"comment"`
}

// ErrorResponse is the body of every error response. Reference is set for
// internal errors only and matches the logged entry.
type ErrorResponse struct {
	Message   string `json:"message"`
	Reference string `json:"reference,omitempty"`
}
