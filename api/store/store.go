/* store.go
 * Contains the Store struct and NewStore function. The methods for this package were split into three
 * files: matches.go, timeslots.go and servers.go. Each of these files contains the methods for
 * interacting with that collection
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Matches   *mongo.Collection
		Timeslots *mongo.Collection
		Servers   *mongo.Collection
	}
}

// Function for initialising Store. Connects to mongo and binds the collections
// Preconditions: Receives strings containing dbName and mongoURI
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(dbName string, mongoURI string) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName cannot be empty")
	}

	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	s := &Store{
		Client:   client,
		Database: db,
	}
	s.Collections.Matches = db.Collection("matches")
	s.Collections.Timeslots = db.Collection("timeslots")
	s.Collections.Servers = db.Collection("servers")

	return s, nil
}

// Function to create the indexes the store relies on. The sparse unique index on
// challongeMatchId is what keeps a repeated bracket import from inserting the same
// pairing twice; matches created without a challonge linkage are unaffected
// Preconditions: Receives receiver pointer for Store
// Postconditions: Returns error if index creation fails
func (s *Store) EnsureIndexes() error {
	_, err := s.Collections.Matches.Indexes().CreateOne(context.TODO(), mongo.IndexModel{
		Keys:    bson.D{{Key: "challongeMatchId", Value: 1}},
		Options: options.Index().SetUnique(true).SetSparse(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create challongeMatchId index: %w", err)
	}
	return nil
}
