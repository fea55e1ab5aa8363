package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"

	"github.com/stretchr/testify/mock"
)

type MockComment struct {
	mock.Mock
}

func (m *MockComment) AppendComment(ctx context.Context, videoID, userID, text string) (*model.Comment, error) {
	args := m.Called(ctx, videoID, userID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockComment) ListComments(ctx context.Context, videoID string) ([]model.Comment, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockComment) DeleteByVideo(ctx context.Context, videoID string) error {
	return m.Called(ctx, videoID).Error(0)
}

type MockCountCache struct {
	mock.Mock
}

func (m *MockCountCache) Get(ctx context.Context, videoID string) (*model.ReactionCounts, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReactionCounts), args.Error(1)
}

func (m *MockCountCache) Version(ctx context.Context, videoID string) (int64, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCountCache) Fill(ctx context.Context, videoID string, version int64, counts model.ReactionCounts) (bool, error) {
	args := m.Called(ctx, videoID, version, counts)
	return args.Bool(0), args.Error(1)
}

func (m *MockCountCache) Invalidate(ctx context.Context, videoID string) error {
	return m.Called(ctx, videoID).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event model.EngagementEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, name string, content io.Reader, size int64, contentType string) (string, string, error) {
	args := m.Called(ctx, name, content, size, contentType)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockStorage) Remove(ctx context.Context, ref string) error {
	return m.Called(ctx, ref).Error(0)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) FeedSelection(mode string) { m.Called(mode) }
func (m *MockRecorder) Reaction(kind string)      { m.Called(kind) }
func (m *MockRecorder) Comment()                  { m.Called() }
func (m *MockRecorder) EventFailed(driver string) { m.Called(driver) }

// versionedCache is an in-process count cache with the same version rules as
// the redis one.
type versionedCache struct {
	mu       sync.Mutex
	entries  map[string]model.ReactionCounts
	versions map[string]int64
}

func newVersionedCache() *versionedCache {
	return &versionedCache{entries: map[string]model.ReactionCounts{}, versions: map[string]int64{}}
}

func (c *versionedCache) Get(_ context.Context, videoID string) (*model.ReactionCounts, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts, ok := c.entries[videoID]
	if !ok {
		return nil, nil
	}
	return &counts, nil
}

func (c *versionedCache) Version(_ context.Context, videoID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[videoID], nil
}

func (c *versionedCache) Fill(_ context.Context, videoID string, version int64, counts model.ReactionCounts) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[videoID] != version {
		return false, nil
	}
	c.entries[videoID] = counts
	return true, nil
}

func (c *versionedCache) Invalidate(_ context.Context, videoID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, videoID)
	c.versions[videoID]++
	return nil
}

type holdCountsKey struct{}

// heldReactions parks CountReactions calls made under holdCountsKey after
// they have read the store, until release is closed.
type heldReactions struct {
	repository.IReaction
	counted chan struct{}
	release chan struct{}
}

func (r *heldReactions) CountReactions(ctx context.Context, videoID string, kind model.ReactionKind) (int64, error) {
	n, err := r.IReaction.CountReactions(ctx, videoID, kind)
	if ctx.Value(holdCountsKey{}) != nil {
		r.counted <- struct{}{}
		<-r.release
	}
	return n, err
}
