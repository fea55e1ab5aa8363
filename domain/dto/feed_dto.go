package dto

import "github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"

// FeedVideo is a video enriched with navigation and engagement state.
type FeedVideo struct {
	model.Video
	NextID    *string `json:"nextId"`
	PrevID    *string `json:"prevId"`
	Likes     string  `json:"likes"`
	Dislikes  string  `json:"dislikes"`
	IsLike    bool    `json:"isLike"`
	IsDislike bool    `json:"isDislike"`
}

// FeedItemView is the composed response of GetVideo.
type FeedItemView struct {
	Video    FeedVideo       `json:"video"`
	Comments []model.Comment `json:"comments"`
}

// ReactionStats is returned after a reaction is stored. Counts are raw.
type ReactionStats struct {
	Likes     int64 `json:"likes"`
	Dislikes  int64 `json:"dislikes"`
	IsLike    bool  `json:"isLike"`
	IsDislike bool  `json:"isDislike"`
}

type Pagination struct {
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	TotalVideos int64  `json:"totalVideos"`
	PerPage     int    `json:"perPage"`
	Next        string `json:"next,omitempty"`
	Prev        string `json:"prev,omitempty"`
}

type FeedPage struct {
	Videos     []model.Video `json:"videos"`
	Pagination Pagination    `json:"pagination"`
}

// FeedPageQuery is the query string of a feed page link.
type FeedPageQuery struct {
	Page    int    `url:"page"`
	Limit   int    `url:"limit"`
	Creator string `url:"creator,omitempty"`
}

// SearchQuery is the query string of a search page link.
type SearchQuery struct {
	Query string `url:"query"`
	Page  int    `url:"page"`
}

// SearchPage is one fixed-size page of search results. Next is set when the
// page is full.
type SearchPage struct {
	Videos  []model.Video `json:"videos"`
	Page    int           `json:"page"`
	PerPage int           `json:"perPage"`
	Next    string        `json:"next,omitempty"`
}
