/* handlers.go
 * Contains the HTTP handlers. Handlers only bind JSON, call the API and translate
 * the returned error kind to a status code; all negotiation rules live in api/api
 */

package web

import (
	"errors"
	"net/http"

	"match-service/api/api"
	"match-service/api/shared"

	"github.com/labstack/echo/v4"
)

// writeError maps a core error kind to its transport status
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	kind := "Internal Server Error"

	switch {
	case errors.Is(err, shared.ErrValidation):
		status, kind = http.StatusBadRequest, "Bad Request"
	case errors.Is(err, shared.ErrUnauthorized):
		status, kind = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, shared.ErrForbidden):
		status, kind = http.StatusForbidden, "Forbidden"
	case errors.Is(err, shared.ErrNotFound):
		status, kind = http.StatusNotFound, "Not Found"
	case errors.Is(err, shared.ErrConflict):
		status, kind = http.StatusConflict, "Conflict"
	case errors.Is(err, shared.ErrUpstream):
		status, kind = http.StatusBadGateway, "Bad Gateway"
	}

	return c.JSON(status, statusResponse{Status: "ERROR", Error: kind, Message: err.Error()})
}

// ProposeTimeslotHandler handles POST /timeslot/propose
func (s *Server) ProposeTimeslotHandler(c echo.Context) error {
	var req api.ProposeTimeslotRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "ERROR", Error: "Bad Request"})
	}

	ts, err := s.api.ProposeTimeslot(currentUser(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "OK", "timeslot": ts})
}

// AcceptTimeslotHandler handles POST /timeslot/accept
func (s *Server) AcceptTimeslotHandler(c echo.Context) error {
	var req api.AcceptTimeslotRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "ERROR", Error: "Bad Request"})
	}

	if err := s.api.AcceptTimeslot(currentUser(c), req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "OK"})
}

// CancelTimeslotHandler handles POST /timeslot/cancel
func (s *Server) CancelTimeslotHandler(c echo.Context) error {
	var req struct {
		MatchID string `json:"matchId"`
	}
	if err := c.Bind(&req); err != nil || req.MatchID == "" {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "ERROR", Error: "Bad Request"})
	}

	if err := s.api.CancelTimeslot(currentUser(c), req.MatchID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "OK"})
}

// CreateMatchHandler handles POST /match/create
func (s *Server) CreateMatchHandler(c echo.Context) error {
	var req api.CreateMatchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "ERROR", Error: "Bad Request"})
	}

	id, err := s.api.CreateMatch(currentUser(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "OK", "matchId": id.Hex()})
}

// ImportMatchesHandler handles POST /match/challonge/:tournamentId/import
func (s *Server) ImportMatchesHandler(c echo.Context) error {
	var req struct {
		Game   string `json:"game"`
		BestOf int    `json:"bestOf"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "ERROR", Error: "Bad Request"})
	}

	inserted, err := s.api.ImportBracketMatches(currentUser(c), c.Param("tournamentId"), req.Game, req.BestOf)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "OK", "inserted": inserted})
}

// CreateServerHandler handles POST /server/create
func (s *Server) CreateServerHandler(c echo.Context) error {
	var req api.CreateServerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "ERROR", Error: "Bad Request"})
	}

	id, err := s.api.CreateServer(currentUser(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "OK", "serverId": id.Hex()})
}

// SetMatchResultHandler handles POST /match/:matchId/result
func (s *Server) SetMatchResultHandler(c echo.Context) error {
	var req api.MatchResultRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, statusResponse{Status: "ERROR", Error: "Bad Request"})
	}

	if err := s.api.SetMatchResult(currentUser(c), c.Param("matchId"), req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "OK"})
}

// GetMatchHandler handles GET /match/:matchId/info
func (s *Server) GetMatchHandler(c echo.Context) error {
	detail, err := s.api.GetMatch(c.Param("matchId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "OK", "match": detail})
}

// GetMatchByChallongeHandler handles GET /match/challonge/:challongeMatchId
func (s *Server) GetMatchByChallongeHandler(c echo.Context) error {
	match, err := s.api.MatchByChallongeID(c.Param("challongeMatchId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "OK", "match": match})
}

// MatchesForTeamHandler handles GET /match/team/:teamId
func (s *Server) MatchesForTeamHandler(c echo.Context) error {
	var locked *bool
	switch c.QueryParam("matchDateLocked") {
	case "true":
		v := true
		locked = &v
	case "false":
		v := false
		locked = &v
	}

	matches, err := s.api.MatchesForTeam(c.Param("teamId"), locked)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "OK", "matches": matches})
}

// ConfirmedMatchesHandler handles GET /match/confirmed
func (s *Server) ConfirmedMatchesHandler(c echo.Context) error {
	matches, err := s.api.ConfirmedMatches()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "OK", "matches": matches})
}

// SearchMatchesHandler handles GET /match/search?team=<name>
func (s *Server) SearchMatchesHandler(c echo.Context) error {
	matches, err := s.api.SearchMatchesByTeamName(c.QueryParam("team"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "OK", "matches": matches})
}
