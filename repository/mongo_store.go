package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dailydsa/errs"
)

type snapshotDocument struct {
	Record    string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoStore keeps one document per record in the snapshots collection.
// Payloads are stored as JSON text so map keys survive untouched.
type MongoStore struct {
	collection *mongo.Collection
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{
		collection: client.Database(database).Collection("snapshots"),
	}
}

func (m *MongoStore) Load(ctx context.Context, record string, v any) error {
	var doc snapshotDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": record}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("%w, find %s: %w", errs.ErrStorageIO, record, err)
	}
	if err := json.Unmarshal([]byte(doc.Payload), v); err != nil {
		return fmt.Errorf("decode %s: %w", record, err)
	}
	return nil
}

func (m *MongoStore) Save(ctx context.Context, record string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", record, err)
	}
	doc := snapshotDocument{
		Record:    record,
		Payload:   string(data),
		UpdatedAt: time.Now().UTC(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection.ReplaceOne(ctx, bson.M{"_id": record}, doc, opts); err != nil {
		return fmt.Errorf("%w, replace %s: %w", errs.ErrStorageIO, record, err)
	}
	return nil
}
