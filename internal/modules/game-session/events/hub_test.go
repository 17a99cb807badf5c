package events

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eskrenkovic/tictactoe-sessions/internal/modules/game-session/domain"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func Test_Hub_Publish_Reaches_Session_Subscribers_Only(t *testing.T) {
	// Arrange
	hub := NewHub(zap.NewNop())

	first, unsubscribeFirst := hub.Subscribe(domain.NewSessionID(1))
	defer unsubscribeFirst()
	other, unsubscribeOther := hub.Subscribe(domain.NewSessionID(2))
	defer unsubscribeOther()

	// Act
	hub.Publish(SessionUpdate{SessionID: domain.NewSessionID(1), Status: domain.StatusPlaying})

	// Assert
	select {
	case update := <-first:
		require.Equal(t, domain.NewSessionID(1), update.SessionID)
	case <-time.After(time.Second):
		t.Fatal("expected update")
	}

	require.Empty(t, other)
}

func Test_Hub_Unsubscribe_Closes_Channel(t *testing.T) {
	// Arrange
	hub := NewHub(zap.NewNop())
	updates, unsubscribe := hub.Subscribe(domain.NewSessionID(1))

	// Act
	unsubscribe()
	unsubscribe()

	// Assert
	_, ok := <-updates
	require.False(t, ok)
	require.Zero(t, hub.Subscribers(domain.NewSessionID(1)))
}

func Test_Hub_Drops_Slow_Subscriber_Without_Blocking(t *testing.T) {
	// Arrange
	hub := NewHub(zap.NewNop())
	updates, unsubscribe := hub.Subscribe(domain.NewSessionID(1))
	defer unsubscribe()

	// Act
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i <= subscriberBuffer; i++ {
			hub.Publish(SessionUpdate{SessionID: domain.NewSessionID(1)})
		}
	}()

	// Assert
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked")
	}

	require.Zero(t, hub.Subscribers(domain.NewSessionID(1)))

	received := 0
	for range updates {
		received++
	}
	require.Equal(t, subscriberBuffer, received)
}

func Test_Serve_Streams_Until_Game_Over(t *testing.T) {
	// Arrange
	hub := NewHub(zap.NewNop())
	subscribed := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		updates, unsubscribe := hub.Subscribe(domain.NewSessionID(7))
		defer unsubscribe()
		close(subscribed)

		initial := SessionUpdate{SessionID: domain.NewSessionID(7), Status: domain.StatusPlaying, Winner: domain.WinnerNone}
		_ = Serve(w, r, initial, updates)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var initial SessionUpdate
	require.NoError(t, conn.ReadJSON(&initial))
	require.Equal(t, domain.StatusPlaying, initial.Status)

	<-subscribed

	// Act
	hub.Publish(SessionUpdate{SessionID: domain.NewSessionID(7), Status: domain.StatusGameOver, Winner: "Alice"})

	// Assert
	var final SessionUpdate
	require.NoError(t, conn.ReadJSON(&final))
	require.Equal(t, domain.StatusGameOver, final.Status)
	require.Equal(t, "Alice", final.Winner)

	_, _, err = conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}
