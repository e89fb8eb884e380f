package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"guitarla/internal/domain"
)

func cartOfSize(n int) domain.Cart {
	c := make(domain.Cart, 0, n)
	for i := range n {
		c = append(c, domain.CartLine{Item: domain.Item{ID: i + 1}, Quantity: 1})
	}
	return c
}

func dialCart(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/cart/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readCart(t *testing.T, conn *websocket.Conn) outgoingMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg outgoingMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "cart", msg.Type)
	return msg
}

func TestCartStream(t *testing.T) {
	env := newTestEnv(t, nil, Deps{})
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn := dialCart(t, srv)
	first := readCart(t, conn)
	require.True(t, first.Data.IsEmpty)

	resp, err := http.Post(srv.URL+"/api/cart/items", "application/json", strings.NewReader(`{"id":7}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	next := readCart(t, conn)
	require.Len(t, next.Data.Lines, 1)
	require.Equal(t, 7, next.Data.Lines[0].ID)
	require.Equal(t, 1, next.Data.ItemCount)
}

func TestCartStreamEndsOnClose(t *testing.T) {
	env := newTestEnv(t, nil, Deps{})
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	conn := dialCart(t, srv)
	readCart(t, conn)

	env.hub.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestPushDropsOldestWhenFull(t *testing.T) {
	env := newTestEnv(t, nil, Deps{})
	cl, ok := env.hub.register()
	require.True(t, ok)

	for i := range wsSendBuffer + 3 {
		env.hub.broadcast(cartOfSize(i))
	}
	require.Len(t, cl.send, wsSendBuffer)

	var last int
	for len(cl.send) > 0 {
		last = len(<-cl.send)
	}
	require.Equal(t, wsSendBuffer+2, last, "newest snapshot must survive")
}

// racingStore applies a change while the hub reads the current cart, then
// returns the cart as it was before that change.
type racingStore struct {
	cart    domain.Cart
	next    domain.Cart
	publish func(domain.Cart)
	raced   bool
}

func (s *racingStore) Cart() domain.Cart {
	if s.raced {
		return s.cart
	}
	s.raced = true
	before := s.cart
	s.cart = s.next
	s.publish(s.next)
	return before
}

func (s *racingStore) Subscribe(fn func(domain.Cart)) func() {
	s.publish = fn
	return func() {}
}

func (s *racingStore) AddToCart(context.Context, domain.Item) error { return nil }
func (s *racingStore) RemoveFromCart(context.Context, int) error { return nil }
func (s *racingStore) IncreaseQuantity(context.Context, int) error { return nil }
func (s *racingStore) DecreaseQuantity(context.Context, int) error { return nil }
func (s *racingStore) ClearCart(context.Context) error { return nil }

func TestPrimeSkipsSnapshotOlderThanBroadcast(t *testing.T) {
	store := &racingStore{cart: cartOfSize(1), next: cartOfSize(2)}
	hub := newCartHub(store, zap.NewNop())
	defer hub.Close()

	cl, ok := hub.register()
	require.True(t, ok)
	hub.prime(cl, store.Cart())

	require.Len(t, cl.send, 1)
	require.Len(t, <-cl.send, 2)
}

func TestPrimeQueuesSnapshotWithoutConcurrentChange(t *testing.T) {
	env := newTestEnv(t, nil, Deps{})
	cl, ok := env.hub.register()
	require.True(t, ok)
	env.hub.prime(cl, env.store.Cart())

	require.Len(t, cl.send, 1)
	require.Empty(t, <-cl.send)
}

func TestCartStreamLastFrameIsCurrentWhenChangeRacesConnect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &racingStore{cart: cartOfSize(1), next: cartOfSize(2)}
	hub := newCartHub(store, zap.NewNop())
	t.Cleanup(hub.Close)
	srv := httptest.NewServer(buildRouter(zap.NewNop(), Deps{Cart: store}, hub))
	defer srv.Close()

	conn := dialCart(t, srv)
	first := readCart(t, conn)
	require.Len(t, first.Data.Lines, 2)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var stale outgoingMessage
	err := conn.ReadJSON(&stale)
	require.Error(t, err, "no older snapshot may follow, got %d lines", len(stale.Data.Lines))
}
