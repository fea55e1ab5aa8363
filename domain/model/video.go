package model

import "time"

// Video is a creator-owned media entry. ID ordering is defined by the store
// and is what next/previous traversal compares.
type Video struct {
	ID          string    `json:"_id"`
	Creator     string    `json:"creator"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Hashtags    []string  `json:"hashtags"`
	URL         string    `json:"url"`
	PublicID    string    `json:"public_id"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OwnedBy reports whether userID created the video.
func (v *Video) OwnedBy(userID string) bool {
	return v != nil && userID != "" && v.Creator == userID
}

// VideoFilter narrows selection to one creator. The zero value matches every video.
type VideoFilter struct {
	Creator string
}

func (f VideoFilter) Matches(v *Video) bool {
	return v != nil && (f.Creator == "" || v.Creator == f.Creator)
}
