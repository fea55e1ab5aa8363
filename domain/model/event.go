package model

import "time"

type EventType string

const (
	EventReactionSet  EventType = "reaction.set"
	EventCommentAdded EventType = "comment.added"
)

// EngagementEvent is emitted after a reaction or comment is stored.
// Delivery is best effort.
type EngagementEvent struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	VideoID    string          `json:"videoId"`
	UserID     string          `json:"userId"`
	Kind       ReactionKind    `json:"kind,omitempty"`
	Comment    *Comment        `json:"comment,omitempty"`
	Stats      *ReactionCounts `json:"stats,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// ReactionCounts is a point-in-time pair of counts. The two values are read
// separately and may be skewed under concurrent writes.
type ReactionCounts struct {
	Likes    int64 `json:"likes"`
	Dislikes int64 `json:"dislikes"`
}
