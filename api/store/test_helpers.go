/* test_helpers.go
 * Contains test helper functions and sample data builders for store package tests
 */

package store

import (
	"context"
	"time"

	"match-service/api/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateTestStore creates a Store connected to a test database.
// Returns the store and a cleanup function.
func CreateTestStore(mongoURI string) (*Store, func(), error) {
	store, err := NewStore("test_match_service", mongoURI)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store.Client != nil {
			// Drop test database
			store.Database.Drop(context.TODO())
			// Disconnect client
			store.Client.Disconnect(context.TODO())
		}
	}

	return store, cleanup, nil
}

// CreateSampleMatch creates sample Match data for testing.
func CreateSampleMatch() Match {
	return Match{
		TeamOne: TeamRef{CoreID: "team-1", Name: "Natus Vincere"},
		TeamTwo: TeamRef{CoreID: "team-2", Name: "FaZe Clan"},
		Game:    shared.GameCSGO,
		BestOf:  3,
	}
}

// CreateSampleTimeslot creates sample Timeslot data for testing.
func CreateSampleTimeslot(proposerID, teamID string) Timeslot {
	start := time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC)
	return Timeslot{
		ProposerID:     proposerID,
		ProposerTeamID: teamID,
		StartTime:      start,
		EndTime:        start.Add(2 * time.Hour),
	}
}

// CreateSampleServer creates sample Server data for testing.
func CreateSampleServer(name string) Server {
	return Server{
		Name:   name,
		IP:     "10.0.0.1",
		Port:   27015,
		League: "all",
	}
}

// CreateSampleLockedSlot creates a LockedSlot covering the given window.
func CreateSampleLockedSlot(start, end time.Time) LockedSlot {
	return LockedSlot{
		TimeslotID: primitive.NewObjectID(),
		StartTime:  start,
		EndTime:    end,
	}
}
