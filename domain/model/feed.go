package model

type SelectionMode int

const (
	SelectByID SelectionMode = iota
	SelectRandom
	SelectNext
	SelectPrevious
)

func (m SelectionMode) String() string {
	switch m {
	case SelectByID:
		return "by_id"
	case SelectRandom:
		return "random"
	case SelectNext:
		return "next"
	case SelectPrevious:
		return "previous"
	}
	return "unknown"
}

// Direction is the traversal direction relative to a FeedCursor.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// FeedCursor is the last-seen position in the id-ordered feed. It is passed
// explicitly by callers and never kept by the server.
type FeedCursor struct {
	VideoID string
	Filter  VideoFilter
}

// SelectionCriteria describes which video a caller wants.
type SelectionCriteria struct {
	Mode    SelectionMode
	VideoID string
	Filter  VideoFilter
}

func ByID(id string, filter VideoFilter) SelectionCriteria {
	return SelectionCriteria{Mode: SelectByID, VideoID: id, Filter: filter}
}

func Random(filter VideoFilter) SelectionCriteria {
	return SelectionCriteria{Mode: SelectRandom, Filter: filter}
}

func Next(cursor FeedCursor) SelectionCriteria {
	return SelectionCriteria{Mode: SelectNext, VideoID: cursor.VideoID, Filter: cursor.Filter}
}

func Previous(cursor FeedCursor) SelectionCriteria {
	return SelectionCriteria{Mode: SelectPrevious, VideoID: cursor.VideoID, Filter: cursor.Filter}
}
