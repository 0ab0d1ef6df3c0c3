package api

import (
	"net/http"
	"time"
	"userhub/internal/api/handler"
	"userhub/internal/api/middleware"
	"userhub/internal/app/service"
	"userhub/internal/common/security"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	issuer *security.TokenIssuer,
	authService *service.AuthService,
	userService *service.UserService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Parses a bearer token when present and puts claims in context; routes
	// stay public until middleware.Authenticator gates them.
	r.Use(jwtauth.Verifier(issuer.Auth()))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Hello World!"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public)
		v1.Group(func(publicAuth chi.Router) {
			authHandler.RegisterRoutes(publicAuth)
		})

		// Public user lookups
		v1.Route("/users", func(users chi.Router) {
			userHandler.RegisterPublicRoutes(users)

			// Mutations require a bearer token
			users.Group(func(protected chi.Router) {
				protected.Use(middleware.Authenticator)
				userHandler.RegisterProtectedRoutes(protected)
			})
		})

		// Current user (authenticated)
		v1.Group(func(protected chi.Router) {
			protected.Use(middleware.Authenticator)
			protected.Get("/me", userHandler.Me)
		})
	})

	return r
}
