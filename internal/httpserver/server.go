package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"guitarla/internal/domain"
)

type catalogReader interface {
	List() []domain.Item
	Get(id int) (domain.Item, error)
}

type cartStore interface {
	Cart() domain.Cart
	Subscribe(fn func(domain.Cart)) (unsubscribe func())
	AddToCart(ctx context.Context, item domain.Item) error
	RemoveFromCart(ctx context.Context, id int) error
	IncreaseQuantity(ctx context.Context, id int) error
	DecreaseQuantity(ctx context.Context, id int) error
	ClearCart(ctx context.Context) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer renders and dispatches to.
type Deps struct {
	Catalog     catalogReader
	Cart        cartStore
	Storage     pinger
	CORSOrigins []string
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	hub        *cartHub
}

// New builds a Server with the storefront routes.
func New(addr string, logger *zap.Logger, deps Deps) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	hub := newCartHub(deps.Cart, logger)
	router := buildRouter(logger, deps, hub)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
		hub:        hub,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown closes open cart streams and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(storage pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if storage == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := storage.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "storage not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
