package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

type statusMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// myWebSocket is one authenticated dashboard connection.
type myWebSocket struct {
	userID string
	once   sync.Once
	done   chan struct{}
	sendCh chan any
}

func newMyWebSocket(userID string) *myWebSocket {
	return &myWebSocket{
		userID: userID,
		done:   make(chan struct{}),
		sendCh: make(chan any, 8),
	}
}

func (s *myWebSocket) safeClose() {
	s.once.Do(func() {
		close(s.done)
	})
}

// pushToChannel drops the message when the connection is closed or its
// buffer is full. A refresh carries the whole dashboard, so a later one
// replaces a dropped one.
func (s *myWebSocket) pushToChannel(msg any) bool {
	select {
	case <-s.done:
		return false
	case s.sendCh <- msg:
		return true
	default:
		return false
	}
}
