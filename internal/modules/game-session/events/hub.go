package events

import (
	"net/http"
	"sync"
	"time"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	subscriberBuffer = 16
	writeWait        = 5 * time.Second
)

// SessionUpdate is pushed to subscribers after every accepted invite and
// every applied move.
type SessionUpdate struct {
	SessionID domain.SessionID `json:"sessionId"`
	Status    string           `json:"status"`
	Winner    string           `json:"winner"`
	Board     [][]domain.Role  `json:"board"`
}

func NewSessionUpdate(id domain.SessionID, session domain.GameSession) SessionUpdate {
	status, winner := session.Status()
	return SessionUpdate{
		SessionID: id,
		Status:    status,
		Winner:    winner,
		Board:     session.Board.Rows(),
	}
}

type Publisher interface {
	Publish(update SessionUpdate)
}

var _ Publisher = (*Hub)(nil)

// Hub fans session updates out to the subscribers of each session.
type Hub struct {
	mu          sync.Mutex
	subscribers map[domain.SessionID]map[chan SessionUpdate]struct{}
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[domain.SessionID]map[chan SessionUpdate]struct{}),
		logger:      logger,
	}
}

// Subscribe registers interest in id. The returned channel is closed by
// unsubscribe, or by the hub when the subscriber falls behind.
func (h *Hub) Subscribe(id domain.SessionID) (<-chan SessionUpdate, func()) {
	ch := make(chan SessionUpdate, subscriberBuffer)

	h.mu.Lock()
	if h.subscribers[id] == nil {
		h.subscribers[id] = make(map[chan SessionUpdate]struct{})
	}
	h.subscribers[id][ch] = struct{}{}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.remove(id, ch)
	}
}

// Publish never blocks. Subscribers whose buffer is full are dropped.
func (h *Hub) Publish(update SessionUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers[update.SessionID] {
		select {
		case ch <- update:
		default:
			h.logger.Warn("dropping slow subscriber", zap.Stringer("session_id", update.SessionID))
			h.remove(update.SessionID, ch)
		}
	}
}

func (h *Hub) Subscribers(id domain.SessionID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[id])
}

// remove expects h.mu to be held.
func (h *Hub) remove(id domain.SessionID, ch chan SessionUpdate) {
	subs, found := h.subscribers[id]
	if !found {
		return
	}

	if _, found := subs[ch]; !found {
		return
	}

	delete(subs, ch)
	close(ch)

	if len(subs) == 0 {
		delete(h.subscribers, id)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Serve upgrades the request to a websocket, writes initial and then every
// update until the game ends, the client goes away or the subscription is dropped.
func Serve(w http.ResponseWriter, r *http.Request, initial SessionUpdate, updates <-chan SessionUpdate) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(update SessionUpdate) error {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return err
		}
		return conn.WriteJSON(update)
	}

	if err := write(initial); err != nil {
		return err
	}

	last := initial
	for last.Status != domain.StatusGameOver {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if err := write(update); err != nil {
				return err
			}
			last = update

		case <-closed:
			return nil

		case <-r.Context().Done():
			return nil
		}
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over")
	return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
