package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"

	"github.com/gin-gonic/gin"
)

const subscriberBuffer = 8

// Hub fans engagement events out to SSE subscribers of each video. Slow
// subscribers drop events instead of blocking publishers.
type Hub struct {
	mu     sync.RWMutex
	videos map[string]map[chan model.EngagementEvent]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

var _ repository.IEventPublisher = (*Hub)(nil)

func NewEngagementHub() *Hub {
	return &Hub{
		videos: make(map[string]map[chan model.EngagementEvent]struct{}),
		done:   make(chan struct{}),
	}
}

// Close ends every open stream; later streams return right after the
// handshake. Register it with http.Server.RegisterOnShutdown.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Serve streams the engagement events of the video in the videoId path param.
func (h *Hub) Serve(c *gin.Context) {
	videoID := c.Param("videoId")
	if videoID == "" {
		c.Status(http.StatusBadRequest)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	events, unsubscribe := h.Subscribe(videoID)
	defer unsubscribe()

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-h.done:
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: " + string(evt.Type) + "\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		}
	}
}

// Subscribe registers a subscriber for videoID. The returned func removes it
// and closes the channel.
func (h *Hub) Subscribe(videoID string) (<-chan model.EngagementEvent, func()) {
	ch := make(chan model.EngagementEvent, subscriberBuffer)
	h.mu.Lock()
	if h.videos[videoID] == nil {
		h.videos[videoID] = make(map[chan model.EngagementEvent]struct{})
	}
	h.videos[videoID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.removeSubscriber(videoID, ch) })
	}
}

func (h *Hub) removeSubscriber(videoID string, ch chan model.EngagementEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.videos[videoID]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.videos, videoID)
		}
	}
}

// Subscribers reports the number of live subscribers of videoID.
func (h *Hub) Subscribers(videoID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.videos[videoID])
}

// Publish delivers the event to current subscribers of its video. It never blocks.
func (h *Hub) Publish(_ context.Context, event model.EngagementEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.videos[event.VideoID] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}
