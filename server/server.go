// Package server wires the drawlang API, auth middleware, and persistence
// layer together into a runnable HTTP server.
//
//   - POST   /api/v1/login            - log in and receive a JWT.
//   - DELETE /api/v1/login/{id}       - invalidate a login.
//   - POST   /api/v1/token            - refresh the caller's token.
//   - POST   /api/v1/users            - register a new account.
//   - GET    /api/v1/users            - list all users (admin only).
//   - GET    /api/v1/users/{id}       - get a user.
//   - POST   /api/v1/programs         - run and save a drawlang program.
//   - GET    /api/v1/programs         - list the caller's programs.
//   - GET    /api/v1/programs/{id}    - get a program and its rendered PNG.
//   - DELETE /api/v1/programs/{id}    - delete a program.
//   - GET    /api/v1/info             - get version info on the server.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dekarrin/drawlang/server/api"
	"github.com/dekarrin/drawlang/server/dao"
	"github.com/dekarrin/drawlang/server/middle"
	"github.com/dekarrin/drawlang/server/tunas"
	"github.com/go-chi/chi/v5"
)

// Server holds the running drawlang server's dependencies.
type Server struct {
	api    api.API
	db     dao.Store
	router chi.Router
}

// New creates a Server from cfg, connecting to the configured persistence
// layer. Call Close when done with it to release that connection.
func New(cfg Config) (Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Server{}, fmt.Errorf("invalid config: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return Server{}, fmt.Errorf("connect to DB: %w", err)
	}

	srv := Server{
		db: db,
		api: api.API{
			Backend:     tunas.Service{DB: db},
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}
	srv.router = srv.buildRouter()

	return srv, nil
}

func (s Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middle.DontPanic())

	requireAuth := middle.RequireAuth(s.db.Users(), s.api.Secret, s.api.UnauthDelay)
	optionalAuth := middle.OptionalAuth(s.db.Users(), s.api.Secret, s.api.UnauthDelay)

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.With(optionalAuth).Get("/info", s.api.HTTPGetInfo())

		r.Post("/users", s.api.HTTPCreateUser())
		r.With(requireAuth).Get("/users", s.api.HTTPGetAllUsers())
		r.With(requireAuth).Get("/users/{id}", s.api.HTTPGetUser())

		r.Post("/login", s.api.HTTPCreateLogin())
		r.With(requireAuth).Delete("/login/{id}", s.api.HTTPDeleteLogin())
		r.With(requireAuth).Post("/token", s.api.HTTPCreateToken())

		r.With(requireAuth).Post("/programs", s.api.HTTPCreateProgram())
		r.With(requireAuth).Get("/programs", s.api.HTTPGetAllPrograms())
		r.With(requireAuth).Get("/programs/{id}", s.api.HTTPGetProgram())
		r.With(requireAuth).Delete("/programs/{id}", s.api.HTTPDeleteProgram())
	})

	return r
}

// CreateUser registers a new user directly, bypassing the HTTP layer. Used
// by the CLI to seed an initial admin account.
func (s Server) CreateUser(ctx context.Context, username, password, email string, role dao.Role) (dao.User, error) {
	return s.api.Backend.CreateUser(ctx, username, password, email, role)
}

// ServeForever listens on addr:port and serves requests until the process is
// killed or an unrecoverable error occurs.
func (s Server) ServeForever(addr string, port int) error {
	listenOn := fmt.Sprintf("%s:%d", addr, port)
	return http.ListenAndServe(listenOn, s.router)
}

// Close releases the Server's persistence connection.
func (s Server) Close() error {
	return s.db.Close()
}
