/* timeslots.go
 * Contains the methods for interacting with the timeslots collection
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"match-service/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Function to insert a proposed timeslot
// Preconditions: Receives a Timeslot with proposer identity and team already resolved
// Postconditions: Returns the id of the inserted document, or error if the insert fails
func (s *Store) InsertTimeslot(ts Timeslot) (primitive.ObjectID, error) {
	res, err := s.Collections.Timeslots.InsertOne(context.TODO(), ts)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: failed to insert timeslot: %v", shared.ErrInternal, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("%w: unexpected inserted id type", shared.ErrInternal)
	}
	return id, nil
}

// Function to fetch a single timeslot by id
// Preconditions: Receives the timeslot's ObjectID
// Postconditions: Returns the Timeslot, shared.ErrNotFound if no document exists, or error
func (s *Store) GetTimeslot(id primitive.ObjectID) (Timeslot, error) {
	var ts Timeslot
	err := s.Collections.Timeslots.FindOne(context.TODO(), bson.M{"_id": id}).Decode(&ts)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Timeslot{}, fmt.Errorf("%w: timeslot %s", shared.ErrNotFound, id.Hex())
		}
		return Timeslot{}, fmt.Errorf("%w: failed to fetch timeslot: %v", shared.ErrInternal, err)
	}
	return ts, nil
}

// Function to fetch multiple timeslots by id, used when returning a match with its
// proposals resolved
// Preconditions: Receives a slice of timeslot ObjectIDs
// Postconditions: Returns the found Timeslots (missing ids are skipped), or error
func (s *Store) GetTimeslots(ids []primitive.ObjectID) ([]Timeslot, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := s.Collections.Timeslots.Find(context.TODO(), bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch timeslots: %v", shared.ErrInternal, err)
	}

	var slots []Timeslot
	if err := cursor.All(context.TODO(), &slots); err != nil {
		return nil, fmt.Errorf("%w: failed to decode timeslots: %v", shared.ErrInternal, err)
	}
	return slots, nil
}

// Function to persist the grace-extended end time of an accepted timeslot. Only called
// on the commit path of an acceptance, after a server has been found
// Preconditions: Receives the timeslot id and the new end time
// Postconditions: Returns shared.ErrNotFound if the timeslot is missing, or error
func (s *Store) ExtendTimeslot(id primitive.ObjectID, endTime time.Time) error {
	res, err := s.Collections.Timeslots.UpdateOne(context.TODO(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"endTime": endTime}})
	if err != nil {
		return fmt.Errorf("%w: failed to extend timeslot: %v", shared.ErrInternal, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: timeslot %s", shared.ErrNotFound, id.Hex())
	}
	return nil
}
