package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/academy-console/internal/api"
	"github.com/nekogravitycat/academy-console/internal/appointment"
	"github.com/nekogravitycat/academy-console/internal/auth"
	"github.com/nekogravitycat/academy-console/internal/catalog"
	"github.com/nekogravitycat/academy-console/internal/fixture"
	"github.com/nekogravitycat/academy-console/internal/lock"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger

	// BackendConfigured selects the Postgres stores. When false the fixture
	// is served from memory and DBPool is ignored.
	BackendConfigured bool
	DBPool            *pgxpool.Pool
	StoreTimeout      time.Duration

	Locker    lock.Locker
	Publisher appointment.Publisher

	Location *time.Location
	// Now overrides the calendar clock; nil means time.Now.
	Now func() time.Time

	JWTSecret         string
	JWTTTL            time.Duration
	StaffEmail        string
	StaffPasswordHash string
	BcryptCost        int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Booking    *appointment.BookingService
	Calendar   *appointment.CalendarService
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Stores
	var (
		catalogRepo catalog.Repository
		apptRepo    appointment.Repository
		mode        string
	)
	if cfg.BackendConfigured {
		catalogRepo = catalog.NewPgxRepository(cfg.DBPool)
		apptRepo = appointment.NewPgxRepository(cfg.DBPool)
		mode = "backend"
	} else {
		catalogRepo = catalog.NewMemoryRepository(fixture.Services(), fixture.Locations())
		apptRepo = appointment.NewMemoryRepository(fixture.Appointments())
		mode = "demo"
	}

	locker := cfg.Locker
	if locker == nil {
		locker = lock.NewMemoryLocker()
	}

	// Auth
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	authenticator := auth.NewStaffAuthenticator(cfg.StaffEmail, cfg.StaffPasswordHash, passwordHasher)

	// Catalog Module
	catalogReader := catalog.NewReader(catalogRepo)

	// Appointment Module
	availability := appointment.NewAvailabilityService(apptRepo, cfg.StoreTimeout)
	booking := appointment.NewBookingService(
		apptRepo, catalogReader, availability, locker, cfg.Publisher,
		logger.Named("booking"), cfg.StoreTimeout,
	)
	var calendarOpts []appointment.CalendarOption
	if cfg.Now != nil {
		calendarOpts = append(calendarOpts, appointment.WithClock(cfg.Now))
	}
	calendar := appointment.NewCalendarService(apptRepo, cfg.Location, cfg.StoreTimeout, calendarOpts...)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:  cfg.IsProduction,
		ProdOrigins:   cfg.ProdOrigins,
		Mode:          mode,
		Logger:        logger.Named("http"),
		Catalog:       catalogReader,
		Booking:       booking,
		Availability:  availability,
		Calendar:      calendar,
		Authenticator: authenticator,
		JWTManager:    jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Booking:    booking,
		Calendar:   calendar,
	}
}
