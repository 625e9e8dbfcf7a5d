package rest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	core_port "rental-client/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers - все обработчики API представления.
type Handlers struct {
	Listings        *ListingsHandler
	Account         *AccountHandler
	Favorites       *FavoritesHandler
	Recommendations *RecommendationsHandler
	Events          *EventsHandler
}

// Server - REST API сервер представления.
type Server struct {
	httpServer *http.Server
	cancelBase context.CancelFunc
	logger     core_port.LoggerPort
}

// NewRouter собирает маршруты API представления.
func NewRouter(h Handlers, session core_port.SessionPort, allowedOrigins []string, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		// AllowedOrigins - список доменов, с которых разрешены запросы
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		// Поток событий отдаёт text/event-stream, поэтому он вне группы JSON.
		r.Get("/events", h.Events.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(middleware.SetHeader("Content-Type", "application/json"))

			r.Get("/state", h.Listings.GetState)
			r.Patch("/filters", h.Listings.UpdateFilters)
			r.Delete("/filters", h.Listings.ClearFilters)
			r.Put("/page", h.Listings.SetPage)
			r.Post("/refresh", h.Listings.Refresh)

			r.Post("/listings", h.Listings.CreateListing)
			r.Put("/listings/{id}", h.Listings.UpdateListing)
			r.Delete("/listings/{id}", h.Listings.DeleteListing)
			r.Post("/listings/{id}/favorite", h.Listings.ToggleFavorite)

			r.Post("/forms/create", h.Listings.OpenCreateForm)
			r.Post("/forms/edit/{id}", h.Listings.OpenEditForm)
			r.Delete("/forms", h.Listings.CloseForm)

			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", h.Account.Login)
				r.Post("/register", h.Account.Register)
				r.Post("/logout", h.Account.Logout)
				r.Get("/me", h.Account.Me)
			})

			r.Get("/locations/states", ListStates)
			r.Get("/locations/states/{state}/cities", ListCities)

			// Страницы, доступные только после входа
			r.Group(func(r chi.Router) {
				r.Use(SessionGuard(session))

				r.Get("/profile", h.Account.GetProfile)
				r.Put("/profile", h.Account.UpdateProfile)

				r.Get("/favorites", h.Favorites.GetFavorites)
				r.Delete("/favorites/{favoriteID}", h.Favorites.RemoveFavorite)

				r.Get("/recommendations", h.Recommendations.GetReceived)
				r.Post("/recommendations", h.Recommendations.Send)
			})
		})
	})

	return r
}

// NewServer создает новый экземпляр сервера.
func NewServer(port string, handler http.Handler, baseLogger core_port.LoggerPort) *Server {
	// Базовый контекст отменяется в Stop, чтобы долгоживущие SSE-соединения не держали Shutdown.
	baseCtx, cancel := context.WithCancel(context.Background())

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     handler,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}

	return &Server{
		httpServer: srv,
		cancelBase: cancel,
		logger:     baseLogger.WithFields(core_port.Fields{"component": "rest_server"}),
	}
}

// Start запускает HTTP-сервер.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	s.cancelBase()
	return s.httpServer.Shutdown(ctx)
}
