package persistence

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
)

var (
	_ repository.IVideo    = (*MemoryVideoRepository)(nil)
	_ repository.IReaction = (*MemoryReactionRepository)(nil)
	_ repository.IComment  = (*MemoryCommentRepository)(nil)
)

// MemoryStore is a process-local store for development and tests. It
// implements IVideo through Videos(), IReaction through Reactions() and
// IComment through Comments(). Ids are decimal sequence numbers.
type MemoryStore struct {
	mu        sync.RWMutex
	seq       int64
	commentID int64
	videos    map[int64]model.Video
	reactions map[reactionKey]model.ReactionRecord
	threads   map[int64][]model.Comment
}

type reactionKey struct {
	user  string
	video int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		videos:    make(map[int64]model.Video),
		reactions: make(map[reactionKey]model.ReactionRecord),
		threads:   make(map[int64][]model.Comment),
	}
}

func (s *MemoryStore) Videos() *MemoryVideoRepository       { return &MemoryVideoRepository{s} }
func (s *MemoryStore) Reactions() *MemoryReactionRepository { return &MemoryReactionRepository{s} }
func (s *MemoryStore) Comments() *MemoryCommentRepository   { return &MemoryCommentRepository{s} }

// Seed inserts videos with explicit ids. The sequence continues after the
// largest seeded id.
func (s *MemoryStore) Seed(videos ...model.Video) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range videos {
		key, err := parseSQLID(v.ID)
		if err != nil {
			return model.InvalidArgument("invalid seed id " + v.ID)
		}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = time.Now().UTC()
		}
		s.videos[key] = cloneVideo(v)
		s.seq = max(s.seq, key)
	}
	return nil
}

func cloneVideo(v model.Video) model.Video {
	v.Tags = slices.Clone(v.Tags)
	v.Hashtags = slices.Clone(v.Hashtags)
	return v
}

type MemoryVideoRepository struct{ s *MemoryStore }

func (r *MemoryVideoRepository) GetByID(_ context.Context, id string, filter model.VideoFilter) (*model.Video, error) {
	key, err := parseSQLID(id)
	if err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	v, ok := r.s.videos[key]
	if !ok || !filter.Matches(&v) {
		return nil, model.NotFound(model.MsgVideoNotFound)
	}
	out := cloneVideo(v)
	return &out, nil
}

func (r *MemoryVideoRepository) Count(_ context.Context, filter model.VideoFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, v := range r.s.videos {
		if filter.Matches(&v) {
			n++
		}
	}
	return n, nil
}

// Sample draws by reservoir sampling in one pass without collecting the
// matching set.
func (r *MemoryVideoRepository) Sample(_ context.Context, filter model.VideoFilter) (*model.Video, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var (
		picked model.Video
		seen   int64
	)
	for _, v := range r.s.videos {
		if !filter.Matches(&v) {
			continue
		}
		seen++
		if rand.Int64N(seen) == 0 {
			picked = v
		}
	}
	if seen == 0 {
		return nil, nil
	}
	out := cloneVideo(picked)
	return &out, nil
}

func (r *MemoryVideoRepository) Neighbor(_ context.Context, cursor model.FeedCursor, dir model.Direction) (*model.Video, error) {
	key, err := parseSQLID(cursor.VideoID)
	if err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var (
		best  int64
		found bool
	)
	for id, v := range r.s.videos {
		if !cursor.Filter.Matches(&v) {
			continue
		}
		switch {
		case dir == model.Forward && id > key && (!found || id < best),
			dir == model.Backward && id < key && (!found || id > best):
			best, found = id, true
		}
	}
	if !found {
		return nil, nil
	}
	out := cloneVideo(r.s.videos[best])
	return &out, nil
}

func (r *MemoryVideoRepository) List(_ context.Context, filter model.VideoFilter, offset, limit int) ([]model.Video, error) {
	return r.collect(func(v *model.Video) bool { return filter.Matches(v) }, offset, limit), nil
}

func (r *MemoryVideoRepository) Search(_ context.Context, query string, offset, limit int) ([]model.Video, error) {
	q := strings.ToLower(query)
	contains := func(list []string) bool {
		return slices.ContainsFunc(list, func(s string) bool { return strings.Contains(strings.ToLower(s), q) })
	}
	return r.collect(func(v *model.Video) bool {
		return strings.Contains(strings.ToLower(v.Title), q) || contains(v.Tags) || contains(v.Hashtags)
	}, offset, limit), nil
}

// collect returns the matching videos newest first, ties by id descending.
func (r *MemoryVideoRepository) collect(match func(*model.Video) bool, offset, limit int) []model.Video {
	r.s.mu.RLock()
	type entry struct {
		key int64
		v   model.Video
	}
	var all []entry
	for k, v := range r.s.videos {
		if match(&v) {
			all = append(all, entry{k, cloneVideo(v)})
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(all, func(a, b entry) int {
		if c := b.v.CreatedAt.Compare(a.v.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.key, a.key)
	})
	out := []model.Video{}
	if offset >= len(all) {
		return out
	}
	for _, e := range all[offset:min(len(all), offset+limit)] {
		out = append(out, e.v)
	}
	return out
}

func (r *MemoryVideoRepository) Create(_ context.Context, video *model.Video) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.seq++
	video.ID = strconv.FormatInt(r.s.seq, 10)
	video.CreatedAt = time.Now().UTC()
	r.s.videos[r.s.seq] = cloneVideo(*video)
	return nil
}

func (r *MemoryVideoRepository) Update(_ context.Context, video *model.Video) error {
	key, err := parseSQLID(video.ID)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.videos[key]
	if !ok {
		return model.NotFound(model.MsgVideoNotFound)
	}
	cur.Title = video.Title
	cur.Description = video.Description
	cur.Tags = slices.Clone(video.Tags)
	r.s.videos[key] = cur
	return nil
}

func (r *MemoryVideoRepository) Delete(_ context.Context, id string) error {
	key, err := parseSQLID(id)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.videos[key]; !ok {
		return model.NotFound(model.MsgVideoNotFound)
	}
	delete(r.s.videos, key)
	return nil
}

type MemoryReactionRepository struct{ s *MemoryStore }

func (r *MemoryReactionRepository) SetReaction(_ context.Context, userID, videoID string, kind model.ReactionKind) (*model.ReactionRecord, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	key, err := parseSQLID(videoID)
	if err != nil {
		return nil, err
	}
	rec := model.ReactionRecord{UserID: userID, VideoID: videoID, Kind: kind, UpdatedAt: time.Now().UTC()}
	r.s.mu.Lock()
	r.s.reactions[reactionKey{userID, key}] = rec
	r.s.mu.Unlock()
	return &rec, nil
}

func (r *MemoryReactionRepository) CountReactions(_ context.Context, videoID string, kind model.ReactionKind) (int64, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}
	key, err := parseSQLID(videoID)
	if err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for k, rec := range r.s.reactions {
		if k.video == key && rec.Kind == kind {
			n++
		}
	}
	return n, nil
}

func (r *MemoryReactionRepository) GetReaction(_ context.Context, userID, videoID string) (*model.ReactionRecord, error) {
	key, err := parseSQLID(videoID)
	if err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.reactions[reactionKey{userID, key}]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r *MemoryReactionRepository) DeleteByVideo(_ context.Context, videoID string) error {
	key, err := parseSQLID(videoID)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k := range r.s.reactions {
		if k.video == key {
			delete(r.s.reactions, k)
		}
	}
	return nil
}

type MemoryCommentRepository struct{ s *MemoryStore }

func (r *MemoryCommentRepository) AppendComment(_ context.Context, videoID, userID, text string) (*model.Comment, error) {
	text, err := model.NormalizeCommentText(text)
	if err != nil {
		return nil, err
	}
	key, err := parseSQLID(videoID)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.commentID++
	c := model.Comment{
		ID:      strconv.FormatInt(r.s.commentID, 10),
		VideoID: videoID,
		UserID:  userID,
		Text:    text,
		Date:    time.Now().UTC(),
	}
	r.s.threads[key] = append(r.s.threads[key], c)
	return &c, nil
}

func (r *MemoryCommentRepository) ListComments(_ context.Context, videoID string) ([]model.Comment, error) {
	key, err := parseSQLID(videoID)
	if err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	comments := slices.Clone(r.s.threads[key])
	r.s.mu.RUnlock()
	if comments == nil {
		return []model.Comment{}, nil
	}
	sortNewestFirst(comments)
	return comments, nil
}

func (r *MemoryCommentRepository) DeleteByVideo(_ context.Context, videoID string) error {
	key, err := parseSQLID(videoID)
	if err != nil {
		return err
	}
	r.s.mu.Lock()
	delete(r.s.threads, key)
	r.s.mu.Unlock()
	return nil
}

// ThreadCount reports how many videos have a comment thread.
func (s *MemoryStore) ThreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.threads)
}

// ReactionCount reports the number of stored reaction records.
func (s *MemoryStore) ReactionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reactions)
}
