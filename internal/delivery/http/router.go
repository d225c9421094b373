package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gocampus/carpool/internal/delivery/http/middleware"
	"github.com/gocampus/carpool/internal/pkg/config"
	"github.com/gocampus/carpool/internal/pkg/jwt"
	"github.com/gocampus/carpool/internal/pkg/logger"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	authHandler    *AuthHandler
	vehicleHandler *VehicleHandler
	rideHandler    *RideHandler
	bookingHandler *BookingHandler
	tokenService   *jwt.TokenService
	config         *config.Config
	logger         logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	authHandler *AuthHandler,
	vehicleHandler *VehicleHandler,
	rideHandler *RideHandler,
	bookingHandler *BookingHandler,
	tokenService *jwt.TokenService,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		authHandler:    authHandler,
		vehicleHandler: vehicleHandler,
		rideHandler:    rideHandler,
		bookingHandler: bookingHandler,
		tokenService:   tokenService,
		config:         config,
		logger:         logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint (публичный)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (без аутентификации)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
		})

		// Публичный поиск поездок и свободных мест
		r.Get("/rides", rt.rideHandler.SearchRides)
		r.Get("/rides/{id}/seats", rt.bookingHandler.GetRemainingSeats)

		// Protected routes (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenService))

			r.Get("/auth/me", rt.authHandler.GetMe)

			// Vehicle endpoints
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/me", rt.vehicleHandler.GetMyVehicles)
				r.Post("/", rt.vehicleHandler.CreateVehicle)
				r.Get("/{id}", rt.vehicleHandler.GetVehicleByID)
				r.Delete("/{id}", rt.vehicleHandler.DeleteVehicle)
			})

			// Ride endpoints
			r.Route("/rides", func(r chi.Router) {
				r.Get("/me", rt.rideHandler.GetMyRides)
				r.Post("/", rt.rideHandler.PublishRide)
				r.Get("/{id}", rt.rideHandler.GetRideByID)
				r.Post("/{id}/cancel", rt.rideHandler.CancelRide)
				r.Post("/{id}/finish", rt.rideHandler.FinishRide)
			})

			// Reservation endpoints
			r.Route("/reservations", func(r chi.Router) {
				r.Get("/me", rt.bookingHandler.GetMyReservations)
				r.Post("/", rt.bookingHandler.Book)
				r.Post("/{id}/cancel", rt.bookingHandler.CancelReservation)
			})
		})
	})

	return r
}
