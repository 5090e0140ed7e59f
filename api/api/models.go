/* models.go
 * Contains the request and response structs for the public API methods
 */

package api

import (
	"time"

	"match-service/api/store"
)

// ProposeTimeslotRequest proposes one play window for a match
type ProposeTimeslotRequest struct {
	MatchID   string    `json:"matchId"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// AcceptTimeslotRequest accepts one of a match's proposed timeslots
type AcceptTimeslotRequest struct {
	MatchID    string `json:"matchId"`
	TimeslotID string `json:"timeslotId"`
}

// TeamInput identifies one side of a directly created match
type TeamInput struct {
	CoreID      string `json:"coreId"`
	Name        string `json:"name"`
	ChallongeID string `json:"challongeId,omitempty"`
}

// CreateMatchRequest creates a match outside of a bracket import
type CreateMatchRequest struct {
	ChallongeMatchID string     `json:"challongeMatchId,omitempty"`
	ChallongeRound   int        `json:"challongeRound,omitempty"`
	TeamOne          TeamInput  `json:"teamOne"`
	TeamTwo          TeamInput  `json:"teamTwo"`
	Game             string     `json:"game"`
	BestOf           int        `json:"bestOf"`
	MatchDeadline    *time.Time `json:"matchDeadline,omitempty"`
}

// CreateServerRequest registers a game server in the pool
type CreateServerRequest struct {
	Name     string `json:"name"`
	IP       string `json:"ip"`
	Port     int    `json:"port"`
	Password string `json:"password,omitempty"`
	League   string `json:"league,omitempty"`
}

// MatchResultRequest records the outcome of a played match
type MatchResultRequest struct {
	WinnerID    string `json:"winnerId"`
	WinnerName  string `json:"winnerName"`
	WinnerScore int    `json:"winnerScore"`
	LoserScore  int    `json:"loserScore"`
}

// MatchDetail is a match with its timeslot and server references resolved
type MatchDetail struct {
	Match             store.Match      `json:"match"`
	ProposedTimeslots []store.Timeslot `json:"proposedTimeslots,omitempty"`
	AcceptedTimeslot  *store.Timeslot  `json:"acceptedTimeslot,omitempty"`
	Server            *store.Server    `json:"server,omitempty"`
}
