package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a MongoDB-backed Store for deployments where runs must
// survive restarts and be shared between instances.
type MongoStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	// URI is the connection string, e.g. "mongodb://localhost:27017".
	URI string

	// Database is the database name; "semigroups" when empty.
	Database string
}

// NewMongoStore connects to MongoDB and verifies the connection with a
// ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	db := cfg.Database
	if db == "" {
		db = "semigroups"
	}
	return &MongoStore{
		client: client,
		runs:   client.Database(db).Collection("runs"),
	}, nil
}

// Create inserts a new run.
func (s *MongoStore) Create(ctx context.Context, run *Run) error {
	_, err := s.runs.InsertOne(ctx, run)
	return err
}

// Get retrieves a run by ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Update replaces a stored run.
func (s *MongoStore) Update(ctx context.Context, run *Run) error {
	res, err := s.runs.ReplaceOne(ctx, bson.M{"_id": run.ID}, run)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all runs, newest first.
func (s *MongoStore) List(ctx context.Context) ([]*Run, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*Run
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a run.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.runs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
