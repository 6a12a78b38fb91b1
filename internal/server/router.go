// Package server assembles the HTTP router.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/stayvista/backend/internal/auth"
	"github.com/stayvista/backend/internal/bookings"
	"github.com/stayvista/backend/internal/metrics"
	"github.com/stayvista/backend/internal/middleware"
	"github.com/stayvista/backend/internal/models"
	"github.com/stayvista/backend/internal/notify"
	"github.com/stayvista/backend/internal/payments"
	"github.com/stayvista/backend/internal/rooms"
	"github.com/stayvista/backend/internal/stats"
	"github.com/stayvista/backend/internal/users"
	"github.com/stayvista/backend/pkg/response"
)

// Liveness is the body of GET /.
const Liveness = "Hello from StayVista Server.."

// Handlers groups the endpoint handlers. Images and Notifications may be nil.
type Handlers struct {
	Auth          *auth.Handler
	Users         *users.Handler
	Rooms         *rooms.Handler
	Images        *rooms.ImageHandler
	Bookings      *bookings.Handler
	Payments      *payments.Handler
	Stats         *stats.Handler
	Notifications *notify.Handler
}

// Deps is everything NewRouter needs.
type Deps struct {
	Tokens            *auth.TokenService
	Gate              *auth.Gate
	Handlers          Handlers
	Metrics           *metrics.Collector
	Gatherer          prometheus.Gatherer
	CORSOrigins       []string
	AuthRatePerMinute int
	Health            func(ctx context.Context) error
	Logger            *zap.Logger
}

// NewRouter builds the gin engine with every route and its auth level.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	h := d.Handlers

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := users.RegisterValidations(v); err != nil {
			d.Logger.Error("register validations", zap.Error(err))
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(d.CORSOrigins))
	router.Use(middleware.Logger(d.Logger))
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware())
	}

	session := middleware.Session(d.Tokens)
	admin := middleware.RequireRole(d.Gate, models.RoleAdmin)
	host := middleware.RequireRole(d.Gate, models.RoleHost)

	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, Liveness) })
	router.GET("/health", func(c *gin.Context) {
		if d.Health != nil {
			if err := d.Health(c.Request.Context()); err != nil {
				d.Logger.Warn("health check failed", zap.Error(err))
				response.ServiceUnavailable(c, "unhealthy")
				return
			}
		}
		response.OK(c, gin.H{"status": "ok"})
	})
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler(d.Gatherer)))
	}

	// Sessions
	limiter := middleware.NewRateLimiter(d.AuthRatePerMinute)
	router.POST("/jwt", limiter.Middleware(), h.Auth.Issue)
	router.GET("/logout", h.Auth.Logout)

	// Payments
	router.POST("/create-payment-intent", session, h.Payments.CreateIntent)

	// Users
	router.PUT("/user", h.Users.Upsert)
	router.GET("/users", session, admin, h.Users.List)
	router.GET("/user/:email", h.Users.Get)
	router.PATCH("/user/:email", session, admin, h.Users.Update)

	// Rooms
	router.GET("/rooms", h.Rooms.List)
	router.GET("/rooms/:id", h.Rooms.Get)
	router.POST("/room", session, host, h.Rooms.Create)
	router.GET("/my-listings/:email", session, host, h.Rooms.ListForHost)
	router.DELETE("/room/:id", session, host, h.Rooms.Delete)
	router.PATCH("/room/status/:id", session, h.Rooms.SetStatus)
	router.PATCH("/room/update/:id", session, host, h.Rooms.Update)
	if h.Images != nil {
		router.POST("/room/image", session, host, h.Images.Upload)
	}

	// Bookings
	router.POST("/booking", session, h.Bookings.Create)
	router.GET("/my-bookings/:email", session, h.Bookings.ListForGuest)
	router.DELETE("/booking/:id", session, h.Bookings.Cancel)
	router.GET("/manage-bookings/:email", session, host, h.Bookings.ListForHost)

	// Statistics
	router.GET("/admin-stat", session, admin, h.Stats.Admin)
	router.GET("/host-stat", session, host, h.Stats.Host)
	router.GET("/guest-stat", session, h.Stats.Guest)

	if h.Notifications != nil {
		router.GET("/notifications", session, admin, h.Notifications.List)
	}

	return router
}
