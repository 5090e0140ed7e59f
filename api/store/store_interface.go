/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 */

package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	// timeslots
	InsertTimeslot(ts Timeslot) (primitive.ObjectID, error)
	GetTimeslot(id primitive.ObjectID) (Timeslot, error)
	GetTimeslots(ids []primitive.ObjectID) ([]Timeslot, error)
	ExtendTimeslot(id primitive.ObjectID, endTime time.Time) error

	// matches
	CreateMatch(m Match) (primitive.ObjectID, error)
	InsertMatches(matches []Match) (int, error)
	GetMatch(id primitive.ObjectID) (Match, error)
	GetMatchByChallongeID(challongeMatchID string) (Match, error)
	ListMatchesForTeam(teamCoreID string, locked *bool) ([]Match, error)
	ListConfirmedMatches() ([]Match, error)
	ListMatches() ([]Match, error)
	AppendProposedTimeslot(matchID primitive.ObjectID, timeslotID primitive.ObjectID) error
	AcceptTimeslot(matchID primitive.ObjectID, timeslotID primitive.ObjectID, serverID *primitive.ObjectID) error
	CancelAcceptedTimeslot(matchID primitive.ObjectID) error
	SetMatchResult(matchID primitive.ObjectID, score EndScore) error

	// servers
	CreateServer(srv Server) (primitive.ObjectID, error)
	GetServer(id primitive.ObjectID) (Server, error)
	ListServers(league string) ([]Server, error)
	LockServerSlot(serverID primitive.ObjectID, slot LockedSlot) error
	ReleaseServerSlot(serverID primitive.ObjectID, timeslotID primitive.ObjectID) error
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)
