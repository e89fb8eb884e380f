package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"guitarla/internal/domain"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsSendBuffer = 8
)

type outgoingMessage struct {
	Type      string       `json:"type"`
	Data      cartResponse `json:"data"`
	Timestamp int64        `json:"timestamp"`
}

type wsClient struct {
	send chan domain.Cart
	// seen is set once a broadcast reached the client; guarded by cartHub.mu.
	seen bool
}

// cartHub fans cart changes out to WebSocket clients. The store callback only
// enqueues; each connection has its own writer goroutine.
type cartHub struct {
	store       cartStore
	logger      *zap.Logger
	upgrader    websocket.Upgrader
	unsubscribe func()

	mu      sync.Mutex
	clients map[*wsClient]struct{}
	closed  bool
}

func newCartHub(store cartStore, logger *zap.Logger) *cartHub {
	h := &cartHub{
		store:  store,
		logger: logger.Named("ws"),
		upgrader: websocket.Upgrader{
			// Origin checks are done by the CORS middleware.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*wsClient]struct{}),
	}
	h.unsubscribe = store.Subscribe(h.broadcast)
	return h
}

func (h *cartHub) broadcast(c domain.Cart) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		push(cl, c)
		cl.seen = true
	}
}

// prime queues the snapshot read right after registration. A broadcast that
// reached the client in the meantime carries a cart at least as new, so the
// snapshot is dropped then.
func (h *cartHub) prime(cl *wsClient, snapshot domain.Cart) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok && !cl.seen {
		push(cl, snapshot)
	}
}

// push never blocks: a slow client loses its oldest pending snapshot.
// Callers hold h.mu so send cannot be closed underneath.
func push(cl *wsClient, c domain.Cart) {
	select {
	case cl.send <- c:
		return
	default:
	}
	select {
	case <-cl.send:
	default:
	}
	select {
	case cl.send <- c:
	default:
	}
}

func (h *cartHub) register() (*wsClient, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	cl := &wsClient{send: make(chan domain.Cart, wsSendBuffer)}
	h.clients[cl] = struct{}{}
	return cl, true
}

func (h *cartHub) unregister(cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// Close stops the subscription and ends every open stream.
func (h *cartHub) Close() {
	h.unsubscribe()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
}

func (h *cartHub) serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	cl, ok := h.register()
	if !ok {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(wsWriteWait))
		conn.Close()
		return
	}
	h.logger.Debug("client connected", zap.String("remote", conn.RemoteAddr().String()))

	// Current state first, then every change after it.
	h.prime(cl, h.store.Cart())

	go h.readLoop(conn, cl)
	h.writeLoop(conn, cl)
}

// readLoop only exists to process control frames and notice when the peer goes away.
func (h *cartHub) readLoop(conn *websocket.Conn, cl *wsClient) {
	defer h.unregister(cl)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("read failed", zap.Error(err))
			}
			return
		}
	}
}

func (h *cartHub) writeLoop(conn *websocket.Conn, cl *wsClient) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case snapshot, ok := <-cl.send:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			msg := outgoingMessage{Type: "cart", Data: toCartResponse(snapshot), Timestamp: time.Now().UnixMilli()}
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("write failed", zap.Error(err))
				h.unregister(cl)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(cl)
				return
			}
		}
	}
}
