/* models.go
 * Contains the payload structs exchanged with the roster, match-config and
 * bracket services
 */

package external

import "time"

// Player is one member of a team roster as the roster service reports it
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SteamID64 string `json:"steamID64,omitempty"`
}

// TeamRoster is the full roster of one team
type TeamRoster struct {
	TeamID  string   `json:"teamId"`
	Name    string   `json:"name"`
	Tag     string   `json:"tag"`
	Players []Player `json:"players"`
}

// ConfigTeam is one side of a match-config provisioning request
type ConfigTeam struct {
	Name    string   `json:"name"`
	Tag     string   `json:"tag"`
	Players []Player `json:"players"`
}

// MatchConfigRequest is the provisioning payload posted to the match-config
// service when a timeslot is locked
type MatchConfigRequest struct {
	MatchID    string     `json:"matchId"`
	ServerName string     `json:"serverName"`
	StartTime  time.Time  `json:"startTime"`
	EndTime    time.Time  `json:"endTime"`
	BestOf     int        `json:"bestOf"`
	MapPool    []string   `json:"mapPool"`
	Spectators []string   `json:"spectators"`
	TeamOne    ConfigTeam `json:"teamOne"`
	TeamTwo    ConfigTeam `json:"teamTwo"`
}

// BracketMatch is one pairing as reported by the bracket (challonge) service
type BracketMatch struct {
	MatchID        string `json:"matchId"`
	Round          int    `json:"round"`
	TeamOne        string `json:"teamOne"`
	TeamTwo        string `json:"teamTwo"`
	TeamOneCoreID  string `json:"teamOneCoreId"`
	TeamOneName    string `json:"teamOneName"`
	TeamTwoCoreID  string `json:"teamTwoCoreId"`
	TeamTwoName    string `json:"teamTwoName"`
}
