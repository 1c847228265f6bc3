package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dadasys/parkovaci-app/internal/api"
	"github.com/dadasys/parkovaci-app/internal/auth"
	"github.com/dadasys/parkovaci-app/internal/booking"
	"github.com/dadasys/parkovaci-app/internal/logging"
	"github.com/dadasys/parkovaci-app/internal/reservation"
	"github.com/dadasys/parkovaci-app/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	Store          reservation.Store
	Users          user.Repository
	JWTSecret      string
	JWTTTL         time.Duration
	WindowDays     int
	Places         []int
	Location       *time.Location
	Clock          booking.Clock
	Logger         logging.Logger
	RateLimitRPS   float64
	RateLimitBurst int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Engine     *booking.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}

	// Init Components
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userService := user.NewService(cfg.Users)

	// Booking Module
	engine, err := booking.NewEngine(cfg.Store, booking.Options{
		Window:   cfg.WindowDays,
		Places:   cfg.Places,
		Location: cfg.Location,
		Clock:    cfg.Clock,
		Logger:   cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init booking engine: %w", err)
	}

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		BookingService: engine,
		JWTManager:     jwtManager,
		Logger:         cfg.Logger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Engine:     engine,
	}, nil
}
