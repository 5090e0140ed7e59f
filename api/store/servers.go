/* servers.go
 * Contains the methods for interacting with the servers collection. The lock write is
 * the critical one: its filter excludes servers that already hold an overlapping
 * locked timeslot, which keeps the no-double-booking invariant inside a single
 * conditional update instead of a read-then-write race
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"match-service/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Function to create a game server in the pool
// Preconditions: Receives a Server with name, ip and port set
// Postconditions: Returns the id of the inserted document, or error
func (s *Store) CreateServer(srv Server) (primitive.ObjectID, error) {
	if srv.League == "" {
		srv.League = "all"
	}
	res, err := s.Collections.Servers.InsertOne(context.TODO(), srv)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: failed to insert server: %v", shared.ErrInternal, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("%w: unexpected inserted id type", shared.ErrInternal)
	}
	return id, nil
}

// Function to fetch a single server by id
// Preconditions: Receives the server's ObjectID
// Postconditions: Returns the Server, shared.ErrNotFound if no document exists, or error
func (s *Store) GetServer(id primitive.ObjectID) (Server, error) {
	var srv Server
	err := s.Collections.Servers.FindOne(context.TODO(), bson.M{"_id": id}).Decode(&srv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Server{}, fmt.Errorf("%w: server %s", shared.ErrNotFound, id.Hex())
		}
		return Server{}, fmt.Errorf("%w: failed to fetch server: %v", shared.ErrInternal, err)
	}
	return srv, nil
}

// Function to list pool servers with their locked timeslots, in stable insertion
// order. The allocation scan depends on a deterministic iteration order for its
// first-fit selection
// Preconditions: Receives a league filter; servers registered with league "all" are
// always included, and an empty filter returns the whole pool
// Postconditions: Returns the Server documents, or error
func (s *Store) ListServers(league string) ([]Server, error) {
	filter := bson.M{}
	if league != "" && league != "all" {
		filter["league"] = bson.M{"$in": bson.A{league, "all"}}
	}

	cursor, err := s.Collections.Servers.Find(context.TODO(), filter)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch servers: %v", shared.ErrInternal, err)
	}

	var servers []Server
	if err := cursor.All(context.TODO(), &servers); err != nil {
		return nil, fmt.Errorf("%w: failed to decode servers: %v", shared.ErrInternal, err)
	}
	return servers, nil
}

// Function to lock a timeslot on a server. The filter only matches the server if none
// of its locked timeslots overlap the [start, end) window being claimed, so a
// concurrent acceptance that got there first makes this write fail instead of
// double-booking
// Preconditions: Receives the server id and the slot to lock, with the grace-extended
// end time already applied
// Postconditions: Appends the slot to lockedTimeslots. Returns shared.ErrConflict if
// the server picked up a conflicting lock since the scan, shared.ErrNotFound if the
// server is missing, or error
func (s *Store) LockServerSlot(serverID primitive.ObjectID, slot LockedSlot) error {
	filter := bson.M{
		"_id": serverID,
		"lockedTimeslots": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"startTime": bson.M{"$lt": slot.EndTime},
			"endTime":   bson.M{"$gt": slot.StartTime},
		}}},
	}

	res, err := s.Collections.Servers.UpdateOne(context.TODO(), filter,
		bson.M{"$push": bson.M{"lockedTimeslots": slot}})
	if err != nil {
		return fmt.Errorf("%w: failed to lock server timeslot: %v", shared.ErrInternal, err)
	}
	if res.MatchedCount == 0 {
		if _, getErr := s.GetServer(serverID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: server already has an overlapping locked timeslot", shared.ErrConflict)
	}
	return nil
}

// Function to release a locked timeslot from a server after a cancellation
// Preconditions: Receives the server id and the timeslot id being released
// Postconditions: Pulls the slot from lockedTimeslots. Returns shared.ErrNotFound if
// the server is missing, or error
func (s *Store) ReleaseServerSlot(serverID primitive.ObjectID, timeslotID primitive.ObjectID) error {
	res, err := s.Collections.Servers.UpdateOne(context.TODO(),
		bson.M{"_id": serverID},
		bson.M{"$pull": bson.M{"lockedTimeslots": bson.M{"timeslotId": timeslotID}}})
	if err != nil {
		return fmt.Errorf("%w: failed to release server timeslot: %v", shared.ErrInternal, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: server %s", shared.ErrNotFound, serverID.Hex())
	}
	return nil
}
