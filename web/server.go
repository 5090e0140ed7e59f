/* server.go
 * Contains the HTTP server Start function that registers routes and listens for
 * incoming connections
 */

package web

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const routePrefix = "/akll-match"

// NewServer builds the echo instance with every route registered. Split from Start
// so handler tests can drive it without binding a port
func NewServer(cfg Config) (*Server, *echo.Echo) {
	s := &Server{
		api:       cfg.API,
		jwtSecret: cfg.JWTSecret,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	g := e.Group(routePrefix)

	// Read endpoints
	g.GET("/match/confirmed", s.ConfirmedMatchesHandler)
	g.GET("/match/search", s.SearchMatchesHandler)
	g.GET("/match/:matchId/info", s.GetMatchHandler, s.requireAuth)
	g.GET("/match/by-challonge/:challongeMatchId", s.GetMatchByChallongeHandler, s.requireAuth)
	g.GET("/match/team/:teamId", s.MatchesForTeamHandler, s.requireAuth)

	// Negotiation endpoints
	g.POST("/timeslot/propose", s.ProposeTimeslotHandler, s.requireAuth)
	g.POST("/timeslot/accept", s.AcceptTimeslotHandler, s.requireAuth)
	g.POST("/timeslot/cancel", s.CancelTimeslotHandler, s.requireAuth)

	// Admin endpoints
	g.POST("/match/create", s.CreateMatchHandler, s.requireAuth)
	g.POST("/match/challonge/:tournamentId/import", s.ImportMatchesHandler, s.requireAuth)
	g.POST("/match/:matchId/result", s.SetMatchResultHandler, s.requireAuth)
	g.POST("/server/create", s.CreateServerHandler, s.requireAuth)

	return s, e
}

// Start initializes and starts the HTTP server with the given configuration
func Start(cfg Config) error {
	_, e := NewServer(cfg)
	log.Println("HTTP server listening on", cfg.Addr)
	return e.Start(cfg.Addr)
}
