package model

import (
	"strings"
	"time"
)

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

// ParseReactionKind rejects anything other than like or dislike.
func ParseReactionKind(s string) (ReactionKind, error) {
	k := ReactionKind(s)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k ReactionKind) Validate() error {
	switch k {
	case ReactionLike, ReactionDislike:
		return nil
	}
	return InvalidArgument("Invalid action type")
}

// ReactionRecord is the single reaction a user holds on a video.
type ReactionRecord struct {
	UserID    string       `json:"user"`
	VideoID   string       `json:"video"`
	Kind      ReactionKind `json:"type"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// Comment is an immutable entry of a video's comment thread.
type Comment struct {
	ID      string    `json:"_id"`
	VideoID string    `json:"-"`
	UserID  string    `json:"user"`
	Text    string    `json:"comment"`
	Date    time.Time `json:"date"`
}

// NormalizeCommentText trims the text and rejects blank comments.
func NormalizeCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", InvalidArgument("Comment text is required")
	}
	return text, nil
}
