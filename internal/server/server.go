// Package server wires the application together and runs the HTTP server.
package server

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"chatrelay/internal/config"
	"chatrelay/internal/database"
	"chatrelay/internal/gateway"
	"chatrelay/internal/handlers"
	"chatrelay/internal/pubsub"
	appsession "chatrelay/internal/session"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E   *echo.Echo
	Cfg *config.Config

	db       *sqlx.DB
	bus      *pubsub.Bus
	resolver *appsession.Resolver
	auth     *handlers.AuthHandler
	users    *handlers.UsersHandler
	gateway  *gateway.Gateway
}

// New assembles a Server from its external dependencies. The database is
// injected so tests can run against an in-memory store.
func New(cfg *config.Config, db *sqlx.DB) (*Server, error) {
	userStore := database.NewUserStore(db)
	messageStore := database.NewMessageStore(db)

	bus := pubsub.NewBus()
	resolver := appsession.NewResolver(userStore)

	presence := gateway.NewDirectory()
	router := gateway.NewRouter(messageStore, bus)
	history := gateway.NewHistoryLoader(messageStore, cfg.HistoryLimit)
	gw := gateway.New(presence, router, history, bus)
	if err := gw.Start(context.Background(), bus); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(session.Middleware(appsession.NewStore(cfg.SessionSecret)))

	return &Server{
		E:        e,
		Cfg:      cfg,
		db:       db,
		bus:      bus,
		resolver: resolver,
		auth:     handlers.NewAuthHandler(userStore, cfg.BcryptCost),
		users:    handlers.NewUsersHandler(userStore, messageStore),
		gateway:  gw,
	}, nil
}

// Gateway exposes the websocket gateway, useful for tests.
func (s *Server) Gateway() *gateway.Gateway {
	return s.gateway
}
