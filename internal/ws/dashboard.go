package ws

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/euRhuanOLiveira/Driverpro/pkg"
	"github.com/gorilla/websocket"
)

const (
	authWait   = 5 * time.Second
	pingPeriod = 30 * time.Second
	pongWait   = 60 * time.Second
	writeWait  = 5 * time.Second
)

// DashboardHub pushes dashboard refreshes to every open tab of a user.
type DashboardHub struct {
	secret  []byte
	srv     *http.Server
	slogger *slog.Logger
	clients sync.Map // *myWebSocket -> struct{}
}

func NewDashboardHub(slogger *slog.Logger, secret []byte, port uint16) *DashboardHub {
	hub := &DashboardHub{
		secret:  secret,
		slogger: slogger,
	}
	hub.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: hub.Handler(),
	}
	return hub
}

func (hub *DashboardHub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/dashboard", hub.connectDashboard)
	return mux
}

func (hub *DashboardHub) StartServer() error {
	return hub.srv.ListenAndServe()
}

func (hub *DashboardHub) CloseServer() error {
	hub.clients.Range(func(key, _ any) bool {
		key.(*myWebSocket).safeClose()
		return true
	})
	defer hub.clients.Clear()
	return hub.srv.Close()
}

// Push queues msg on every connection of userID and reports how many took it.
func (hub *DashboardHub) Push(userID string, msg any) int {
	delivered := 0
	hub.clients.Range(func(key, _ any) bool {
		ws, ok := key.(*myWebSocket)
		if !ok {
			hub.slogger.Info("cannot parse myWebSocket", "action", "push dashboard")
			return true
		}
		if ws.userID == userID && ws.pushToChannel(msg) {
			delivered++
		}
		return true
	})
	return delivered
}

func (hub *DashboardHub) connectDashboard(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.slogger.Error("upgrade error", "action", "connect dashboard", "error", err)
		return
	}
	defer conn.Close()

	userID, err := hub.authenticate(conn)
	if err != nil {
		hub.slogger.Info("websocket auth failed", "action", "connect dashboard", "error", err)
		_ = conn.WriteJSON(statusMessage{Type: "error", Error: err.Error()})
		return
	}

	myWS := newMyWebSocket(userID)
	hub.clients.Store(myWS, struct{}{})
	defer hub.clients.Delete(myWS)
	defer myWS.safeClose()

	if err := conn.WriteJSON(statusMessage{Type: "connected", Message: "aguardando atualizações"}); err != nil {
		return
	}
	hub.slogger.Debug("dashboard connected", "action", "connect dashboard", "user_id", userID)

	go hub.writer(conn, myWS)
	hub.reader(conn, myWS)
}

func (hub *DashboardHub) authenticate(conn *websocket.Conn) (string, error) {
	if err := conn.SetReadDeadline(time.Now().Add(authWait)); err != nil {
		return "", err
	}
	auth := new(authMessage)
	if err := conn.ReadJSON(auth); err != nil {
		return "", err
	}
	if auth.Type != "auth" {
		return "", fmt.Errorf("invalid auth type: %s", auth.Type)
	}
	claim, err := pkg.ParseTokenMyClaims(auth.Token, hub.secret)
	if err != nil {
		return "", err
	}
	return claim.UserID(), nil
}

// reader only keeps the read deadline moving; clients send nothing after
// the auth frame.
func (hub *DashboardHub) reader(conn *websocket.Conn, ws *myWebSocket) {
	defer ws.safeClose()
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writer owns every write after the handshake, pings included.
func (hub *DashboardHub) writer(conn *websocket.Conn, ws *myWebSocket) {
	defer ws.safeClose()
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ws.done:
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case msg := <-ws.sendCh:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				hub.slogger.Debug("dashboard write failed", "action", "push dashboard", "user_id", ws.userID, "error", err)
				conn.Close()
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
				conn.Close()
				return
			}
		}
	}
}
