/* matches.go
 * Contains the methods for interacting with the matches collection. The accept and
 * cancel writes are conditional updates: the filter re-states the precondition so a
 * concurrent request that lost the race fails cleanly instead of clobbering state
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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Function to create a single match
// Preconditions: Receives a Match with both team references and game set
// Postconditions: Returns the id of the inserted document, shared.ErrConflict if the
// challonge match id is already taken, or error
func (s *Store) CreateMatch(m Match) (primitive.ObjectID, error) {
	res, err := s.Collections.Matches.InsertOne(context.TODO(), m)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, fmt.Errorf("%w: match with challonge id %s already exists", shared.ErrConflict, m.ChallongeMatchID)
		}
		return primitive.NilObjectID, fmt.Errorf("%w: failed to insert match: %v", shared.ErrInternal, err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("%w: unexpected inserted id type", shared.ErrInternal)
	}
	return id, nil
}

// Function to bulk insert matches from a bracket import. The insert is unordered so a
// duplicate challonge id only drops that pairing, not the whole batch
// Preconditions: Receives a non-empty slice of Match documents
// Postconditions: Returns the number of matches inserted, or error
func (s *Store) InsertMatches(matches []Match) (int, error) {
	if len(matches) == 0 {
		return 0, fmt.Errorf("%w: matches input has length 0, requires at least 1", shared.ErrValidation)
	}

	docs := make([]interface{}, len(matches))
	for i, m := range matches {
		docs[i] = m
	}

	opts := options.InsertMany().SetOrdered(false)
	res, err := s.Collections.Matches.InsertMany(context.TODO(), docs, opts)
	inserted := 0
	if res != nil {
		inserted = len(res.InsertedIDs)
	}
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if errors.As(err, &bulkErr) {
			for _, we := range bulkErr.WriteErrors {
				if !mongo.IsDuplicateKeyError(we.WriteError) {
					return inserted, fmt.Errorf("%w: failed to insert matches: %v", shared.ErrInternal, err)
				}
			}
			// Only duplicate-key failures; the rest of the batch went in
			return inserted, nil
		}
		return inserted, fmt.Errorf("%w: failed to insert matches: %v", shared.ErrInternal, err)
	}
	return inserted, nil
}

// Function to fetch a single match by id
// Preconditions: Receives the match's ObjectID
// Postconditions: Returns the Match, shared.ErrNotFound if no document exists, or error
func (s *Store) GetMatch(id primitive.ObjectID) (Match, error) {
	var m Match
	err := s.Collections.Matches.FindOne(context.TODO(), bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Match{}, fmt.Errorf("%w: match %s", shared.ErrNotFound, id.Hex())
		}
		return Match{}, fmt.Errorf("%w: failed to fetch match: %v", shared.ErrInternal, err)
	}
	return m, nil
}

// Function to fetch a single match by its challonge match id, used when the bracket
// service refers to a pairing by its own identifier
// Preconditions: Receives a non-empty challonge match id
// Postconditions: Returns the Match, shared.ErrNotFound if no document exists, or error
func (s *Store) GetMatchByChallongeID(challongeMatchID string) (Match, error) {
	var m Match
	err := s.Collections.Matches.FindOne(context.TODO(), bson.M{"challongeMatchId": challongeMatchID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Match{}, fmt.Errorf("%w: match with challonge id %s", shared.ErrNotFound, challongeMatchID)
		}
		return Match{}, fmt.Errorf("%w: failed to fetch match: %v", shared.ErrInternal, err)
	}
	return m, nil
}

// Function to list every match involving a team, optionally filtered by lock state
// Preconditions: Receives the team's core id and an optional matchDateLocked filter
// Postconditions: Returns the matching Match documents, or error
func (s *Store) ListMatchesForTeam(teamCoreID string, locked *bool) ([]Match, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"teamOne.coreId": teamCoreID},
		bson.M{"teamTwo.coreId": teamCoreID},
	}}
	if locked != nil {
		filter["matchDateLocked"] = *locked
	}
	return s.findMatches(filter)
}

// Function to list every match whose date has been locked
// Postconditions: Returns the confirmed Match documents, or error
func (s *Store) ListConfirmedMatches() ([]Match, error) {
	return s.findMatches(bson.M{"matchDateLocked": true})
}

// Function to list all matches, used by the team-name search
// Postconditions: Returns every Match document, or error
func (s *Store) ListMatches() ([]Match, error) {
	return s.findMatches(bson.M{})
}

func (s *Store) findMatches(filter bson.M) ([]Match, error) {
	cursor, err := s.Collections.Matches.Find(context.TODO(), filter)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch matches: %v", shared.ErrInternal, err)
	}

	var matches []Match
	if err := cursor.All(context.TODO(), &matches); err != nil {
		return nil, fmt.Errorf("%w: failed to decode matches: %v", shared.ErrInternal, err)
	}
	return matches, nil
}

// Function to append a proposed timeslot reference to a match. The push is atomic and
// conditioned on the match still being open, so concurrent proposals accumulate safely
// Preconditions: Receives the match id and the id of an already-inserted timeslot
// Postconditions: Returns shared.ErrConflict if the match is locked or played,
// shared.ErrNotFound if it does not exist, or error
func (s *Store) AppendProposedTimeslot(matchID primitive.ObjectID, timeslotID primitive.ObjectID) error {
	res, err := s.Collections.Matches.UpdateOne(context.TODO(),
		bson.M{"_id": matchID, "matchDateLocked": false, "matchPlayed": false},
		bson.M{"$push": bson.M{"proposedTimeslots": timeslotID}})
	if err != nil {
		return fmt.Errorf("%w: failed to append proposed timeslot: %v", shared.ErrInternal, err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing match from one that already moved on
		if _, getErr := s.GetMatch(matchID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: match date already locked or match played", shared.ErrConflict)
	}
	return nil
}

// Function to commit an accepted timeslot on a match. The filter requires that no
// timeslot has been accepted yet, so of two concurrent acceptances exactly one
// succeeds and the other observes the conflict
// Preconditions: Receives the match id, the accepted timeslot id, and the assigned
// server id (nil for games that play without a pool server)
// Postconditions: Sets acceptedTimeslot, clears proposedTimeslots, sets
// matchDateLocked and the server reference. Returns shared.ErrConflict if another
// acceptance won the race, shared.ErrNotFound if the match is missing, or error
func (s *Store) AcceptTimeslot(matchID primitive.ObjectID, timeslotID primitive.ObjectID, serverID *primitive.ObjectID) error {
	set := bson.M{
		"acceptedTimeslot":  timeslotID,
		"proposedTimeslots": bson.A{},
		"matchDateLocked":   true,
	}
	if serverID != nil {
		set["server"] = *serverID
	}

	res := s.Collections.Matches.FindOneAndUpdate(context.TODO(),
		bson.M{"_id": matchID, "acceptedTimeslot": nil, "matchPlayed": false},
		bson.M{"$set": set})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, getErr := s.GetMatch(matchID); getErr != nil {
				return getErr
			}
			return fmt.Errorf("%w: match date already locked", shared.ErrConflict)
		}
		return fmt.Errorf("%w: failed to accept timeslot: %v", shared.ErrInternal, err)
	}
	return nil
}

// Function to clear the accepted timeslot on a locked match. The filter re-states the
// locked-and-unplayed precondition so a concurrent cancellation fails cleanly
// Preconditions: Receives the match id
// Postconditions: Clears acceptedTimeslot, server and matchDateLocked. Returns
// shared.ErrConflict if the match is no longer in a cancellable state,
// shared.ErrNotFound if it is missing, or error
func (s *Store) CancelAcceptedTimeslot(matchID primitive.ObjectID) error {
	res, err := s.Collections.Matches.UpdateOne(context.TODO(),
		bson.M{"_id": matchID, "matchDateLocked": true, "matchPlayed": false},
		bson.M{"$set": bson.M{
			"acceptedTimeslot": nil,
			"server":           nil,
			"matchDateLocked":  false,
		}})
	if err != nil {
		return fmt.Errorf("%w: failed to cancel accepted timeslot: %v", shared.ErrInternal, err)
	}
	if res.MatchedCount == 0 {
		if _, getErr := s.GetMatch(matchID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: match is not in a cancellable state", shared.ErrConflict)
	}
	return nil
}

// Function to record the final score of a match and mark it played
// Preconditions: Receives the match id and the end score
// Postconditions: Returns shared.ErrConflict if the match was already marked played,
// shared.ErrNotFound if it is missing, or error
func (s *Store) SetMatchResult(matchID primitive.ObjectID, score EndScore) error {
	res, err := s.Collections.Matches.UpdateOne(context.TODO(),
		bson.M{"_id": matchID, "matchPlayed": false},
		bson.M{"$set": bson.M{"endScore": score, "matchPlayed": true}})
	if err != nil {
		return fmt.Errorf("%w: failed to set match result: %v", shared.ErrInternal, err)
	}
	if res.MatchedCount == 0 {
		if _, getErr := s.GetMatch(matchID); getErr != nil {
			return getErr
		}
		return fmt.Errorf("%w: match result already recorded", shared.ErrConflict)
	}
	return nil
}
