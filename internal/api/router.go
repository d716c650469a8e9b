package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/academy-console/internal/appointment"
	apptHttp "github.com/nekogravitycat/academy-console/internal/appointment/http"
	"github.com/nekogravitycat/academy-console/internal/auth"
	authHttp "github.com/nekogravitycat/academy-console/internal/auth/http"
	"github.com/nekogravitycat/academy-console/internal/catalog"
	catalogHttp "github.com/nekogravitycat/academy-console/internal/catalog/http"
)

// Config carries everything the router needs to mount the modules.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	// Mode is "demo" or "backend" and is reported by /healthz.
	Mode   string
	Logger *zap.Logger

	Catalog       catalog.Reader
	Booking       *appointment.BookingService
	Availability  *appointment.AvailabilityService
	Calendar      *appointment.CalendarService
	Authenticator *auth.StaffAuthenticator
	JWTManager    *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (request id, logger, recovery, CORS, auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()

	// Global Middleware:
	// - RequestID: tags every request so log lines can be correlated.
	// - Logger: structured access log.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestID(), Logger(logger), Recovery(logger))

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins(cfg.IsProduction, cfg.ProdOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "mode": cfg.Mode})
	})

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	authHandler := authHttp.NewHandler(cfg.Authenticator, cfg.JWTManager)
	catalogHandler := catalogHttp.NewHandler(cfg.Catalog)
	apptHandler := apptHttp.NewHandler(cfg.Booking, cfg.Availability, cfg.Calendar)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		authHttp.RegisterRoutes(v1, authHandler, authMiddleware)
		catalogHttp.RegisterRoutes(v1, catalogHandler)
		apptHttp.RegisterRoutes(v1, apptHandler, authMiddleware)
	}

	return r
}

func allowedOrigins(isProduction bool, prodOrigins string) []string {
	if isProduction {
		var origins []string
		for _, o := range strings.Split(prodOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			return origins
		}
	}
	return []string{
		"http://localhost:3000", // Console dev server
		"http://localhost:8081", // Swagger
	}
}
