package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"alto_bot/internal/model"
	"alto_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	MessageWithdrawalRequested = "withdrawal_requested"

	feedBufferSize = 16
	writeWait      = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed pushes withdrawal requests to connected operator dashboards. A client
// that cannot keep up misses messages rather than blocking the bot.
type Feed struct {
	mu      sync.RWMutex
	clients map[*feedClient]struct{}
	log     *zap.Logger
}

func NewFeed() *Feed {
	return &Feed{
		clients: make(map[*feedClient]struct{}),
		log:     logger.Named("feed"),
	}
}

func (f *Feed) NotifyWithdrawal(_ context.Context, req model.WithdrawalRequest) {
	data, err := json.Marshal(Message{Type: MessageWithdrawalRequested, Data: req})
	if err != nil {
		f.log.Error("failed to marshal withdrawal", zap.Error(err))
		return
	}
	f.broadcast(data)
}

func (f *Feed) broadcast(data []byte) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for client := range f.clients {
		select {
		case client.send <- data:
		default:
			f.log.Warn("feed client too slow, message dropped")
		}
	}
}

func (f *Feed) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		f.log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{
		conn: conn,
		send: make(chan []byte, feedBufferSize),
	}

	f.mu.Lock()
	f.clients[client] = struct{}{}
	f.mu.Unlock()
	f.log.Info("feed client connected", zap.String("remote", conn.RemoteAddr().String()))

	go f.writeLoop(client)
	go f.readLoop(client)
}

// readLoop only watches for the client going away.
func (f *Feed) readLoop(client *feedClient) {
	defer f.remove(client)

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				f.log.Info("feed client closed unexpectedly", zap.Error(err))
			}
			return
		}
	}
}

func (f *Feed) writeLoop(client *feedClient) {
	defer client.conn.Close()

	for data := range client.send {
		_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			f.log.Info("failed to write to feed client", zap.Error(err))
			f.remove(client)
			return
		}
	}
	_ = client.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (f *Feed) remove(client *feedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.clients[client]; ok {
		delete(f.clients, client)
		close(client.send)
	}
}

func (f *Feed) Clients() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// Close disconnects every client.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for client := range f.clients {
		delete(f.clients, client)
		close(client.send)
	}
}
