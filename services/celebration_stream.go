package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"course-learning-system/tracker"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CelebrationHub fans celebration payloads out to each user's open SSE
// streams. Slow subscribers drop events — later celebrations supersede
// earlier ones anyway, so there is nothing worth queueing.
type CelebrationHub struct {
	mu   sync.Mutex
	subs map[string]map[string]chan tracker.CelebrationPayload // userID → subID → ch
}

func NewCelebrationHub() *CelebrationHub {
	return &CelebrationHub{subs: make(map[string]map[string]chan tracker.CelebrationPayload)}
}

// Publish delivers a payload to every open stream for the user.
func (h *CelebrationHub) Publish(userID string, payload tracker.CelebrationPayload) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[userID] {
		select {
		case ch <- payload:
		default:
			// subscriber is not draining; drop rather than block the tracker
		}
	}
}

// Subscribe opens a stream for the user; the returned cancel func must run on
// every disconnect path.
func (h *CelebrationHub) Subscribe(userID string) (<-chan tracker.CelebrationPayload, func()) {
	ch := make(chan tracker.CelebrationPayload, 4)
	subID := uuid.NewString()

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[string]chan tracker.CelebrationPayload)
	}
	h.subs[userID][subID] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if m, ok := h.subs[userID]; ok {
			delete(m, subID)
			if len(m) == 0 {
				delete(h.subs, userID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// SubscriberCount reports open streams for a user (used in tests and metrics logs).
func (h *CelebrationHub) SubscriberCount(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}

// StreamCelebrationsSSE streams celebration payloads for the authenticated user
func (h *CelebrationHub) StreamCelebrationsSSE(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	// SSE headers
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no") // nginx

	events, cancel := h.Subscribe(userID)
	ctx := c.Context()

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		keepalive := time.NewTicker(15 * time.Second)
		defer keepalive.Stop()

		// Initial keepalive (comment event)
		w.WriteString(":\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case payload := <-events:
				data, err := json.Marshal(payload)
				if err != nil {
					log.Printf("SSE marshal error for user %s: %v", userID, err)
					continue
				}
				fmt.Fprintf(w, "event: celebration\ndata: %s\n\n", data)
				if err := w.Flush(); err != nil {
					// Client disconnected
					return
				}

			case <-keepalive.C:
				w.WriteString(":\n\n")
				if err := w.Flush(); err != nil {
					return
				}

			case <-ctx.Done():
				// Client closed connection
				return
			}
		}
	})

	return nil
}
