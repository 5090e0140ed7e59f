/* models.go
 * This file contains the structs that map to documents in the matches, timeslots
 * and servers collections
 */

package store

import (
	"time"

	"match-service/api/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Timeslot is a proposed play window for a match, tagged with the captain who
// proposed it and their team
type Timeslot struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ProposerID     string             `bson:"proposerId,omitempty"`
	ProposerTeamID string             `bson:"proposerTeamId,omitempty"`
	StartTime      time.Time          `bson:"startTime"`
	EndTime        time.Time          `bson:"endTime"`
}

// TeamRef is a weak reference to a team owned by the external roster service
type TeamRef struct {
	CoreID      string `bson:"coreId"`
	Name        string `bson:"name"`
	ChallongeID string `bson:"challongeId,omitempty"`
}

// LockedSlot is a timeslot committed to a server. The times are embedded so
// the overlap condition can be expressed in the lock write itself
type LockedSlot struct {
	TimeslotID primitive.ObjectID `bson:"timeslotId"`
	StartTime  time.Time          `bson:"startTime"`
	EndTime    time.Time          `bson:"endTime"`
}

// Server is a game server in the shared pool. LockedTimeslots is the
// authoritative record of its commitments
type Server struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	IP              string             `bson:"ip"`
	Port            int                `bson:"port"`
	Password        string             `bson:"password,omitempty"`
	League          string             `bson:"league,omitempty"` // all, pro or division
	LockedTimeslots []LockedSlot       `bson:"lockedTimeslots,omitempty"`
}

// EndScore records the outcome of a played match
type EndScore struct {
	WinnerID    string `bson:"winnerId,omitempty"`
	WinnerName  string `bson:"winnerName,omitempty"`
	WinnerScore int    `bson:"winnerScore"`
	LoserScore  int    `bson:"loserScore"`
}

// Match is a scheduled pairing between two teams
type Match struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty"`
	ChallongeMatchID  string               `bson:"challongeMatchId,omitempty"`
	ChallongeRound    int                  `bson:"challongeRound,omitempty"`
	TeamOne           TeamRef              `bson:"teamOne"`
	TeamTwo           TeamRef              `bson:"teamTwo"`
	Game              shared.Game          `bson:"game"`
	BestOf            int                  `bson:"bestOf"`
	ProposedTimeslots []primitive.ObjectID `bson:"proposedTimeslots,omitempty"`
	AcceptedTimeslot  *primitive.ObjectID  `bson:"acceptedTimeslot,omitempty"`
	MatchDateLocked   bool                 `bson:"matchDateLocked"`
	MatchPlayed       bool                 `bson:"matchPlayed"`
	ServerID          *primitive.ObjectID  `bson:"server,omitempty"`
	MatchDeadline     *time.Time           `bson:"matchDeadline,omitempty"`
	EndScore          *EndScore            `bson:"endScore,omitempty"`
}

// HasTeam reports whether the match involves the given team core id
func (m Match) HasTeam(teamCoreID string) bool {
	return m.TeamOne.CoreID == teamCoreID || m.TeamTwo.CoreID == teamCoreID
}

// HasProposedTimeslot reports whether the timeslot id is one of the match's
// open proposals
func (m Match) HasProposedTimeslot(id primitive.ObjectID) bool {
	for _, ts := range m.ProposedTimeslots {
		if ts == id {
			return true
		}
	}
	return false
}
