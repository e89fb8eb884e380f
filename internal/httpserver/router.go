package httpserver

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps, hub *cartHub) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		requestID(),
		gin.LoggerWithWriter(zap.NewStdLog(logger.Named("http")).Writer()),
		gin.Recovery(),
		cors.New(corsConfig(deps.CORSOrigins)),
	)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Storage))

	h := &handlers{catalog: deps.Catalog, cart: deps.Cart, logger: logger}

	api := router.Group("/api")
	api.GET("/items", h.listItems)
	api.GET("/items/:id", h.getItem)

	cart := api.Group("/cart")
	cart.GET("", h.getCart)
	cart.DELETE("", h.clearCart)
	cart.POST("/items", h.addToCart)
	cart.DELETE("/items/:id", h.removeFromCart)
	cart.POST("/items/:id/increase", h.increaseQuantity)
	cart.POST("/items/:id/decrease", h.decreaseQuantity)
	cart.GET("/ws", hub.serve)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders:   []string{requestIDHeader},
		AllowWebSockets: true,
		MaxAge:          12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
