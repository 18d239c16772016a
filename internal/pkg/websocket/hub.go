package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types published to lecture subscribers
const (
	EventQuestionCreated     = "question.created"
	EventQuestionDeleted     = "question.deleted"
	EventQuestionResolved    = "question.resolved"
	EventQuestionUnresolved  = "question.unresolved"
	EventQuestionTagsUpdated = "question.tags_updated"
	EventAnswerCreated       = "answer.created"
	EventLectureDeleted      = "lecture.deleted"
)

// Event is a change notification for one lecture. It carries ids only so
// subscribers refetch through the regular endpoints, where author names are
// shaped for the viewer.
type Event struct {
	Type       string    `json:"type"`
	LectureID  int64     `json:"lectureId"`
	QuestionID int64     `json:"questionId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Observer receives hub activity, e.g. for metrics
type Observer interface {
	SubscriberConnected()
	SubscriberDisconnected()
	EventPublished(eventType string)
}

type nopObserver struct{}

func (nopObserver) SubscriberConnected()    {}
func (nopObserver) SubscriberDisconnected() {}
func (nopObserver) EventPublished(string)   {}

// Hub maintains the set of subscribed clients per lecture and fans events out to them
type Hub struct {
	// Registered clients organized by lecture ID
	clients map[int64]map[*Client]bool

	broadcast  chan Event
	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Guards clients for readers outside the run loop
	mu sync.RWMutex

	observer Observer
	logger   zerolog.Logger
	now      func() time.Time
}

// NewHub creates a new Hub instance. observer may be nil.
func NewHub(logger zerolog.Logger, observer Observer) *Hub {
	if observer == nil {
		observer = nopObserver{}
	}
	return &Hub{
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[int64]map[*Client]bool),
		observer:   observer,
		logger:     logger,
		now:        time.Now,
	}
}

// Run processes registrations and broadcasts until ctx is cancelled, then
// closes every remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Publish queues an event for the lecture's subscribers. It never blocks; when
// the queue is full the event is dropped and clients catch up on their next poll.
func (h *Hub) Publish(eventType string, lectureID, questionID int64) {
	event := Event{
		Type:       eventType,
		LectureID:  lectureID,
		QuestionID: questionID,
		Timestamp:  h.now().UTC(),
	}

	select {
	case h.broadcast <- event:
		h.observer.EventPublished(eventType)
	default:
		h.logger.Warn().
			Str("type", eventType).
			Int64("lectureID", lectureID).
			Msg("Event queue full, dropping lecture event")
	}
}

// ClientCount returns the number of connected clients for a lecture
func (h *Hub) ClientCount(lectureID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[lectureID])
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.lectureID]; !ok {
		h.clients[client.lectureID] = make(map[*Client]bool)
	}
	h.clients[client.lectureID][client] = true
	h.observer.SubscriberConnected()

	h.logger.Info().
		Int64("lectureID", client.lectureID).
		Int64("userID", client.userID).
		Msg("Event subscriber registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client)
}

// removeLocked drops client and closes its send channel. Callers hold mu.
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.lectureID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	h.observer.SubscriberDisconnected()
	if len(clients) == 0 {
		delete(h.clients, client.lectureID)
	}

	h.logger.Info().
		Int64("lectureID", client.lectureID).
		Int64("userID", client.userID).
		Msg("Event subscriber unregistered")
}

func (h *Hub) broadcastEvent(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[event.LectureID]
	if !ok {
		h.logger.Debug().
			Int64("lectureID", event.LectureID).
			Str("type", event.Type).
			Msg("No subscribers for lecture event")
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Int64("lectureID", event.LectureID).Msg("Failed to marshal lecture event")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// slow consumer
			h.removeLocked(client)
		}
	}

	h.logger.Debug().
		Int64("lectureID", event.LectureID).
		Str("type", event.Type).
		Int("clientCount", len(clients)).
		Msg("Lecture event broadcast")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}
