package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinica-nutricion/turnos-client/internal/core/ports"
)

const storeCollection = "device_storage"

// Store is a ports.KeyValueStore over one MongoDB collection.
// Document _id format: <prefix>:<key>
type Store struct {
	coll   *mongo.Collection
	prefix string
}

// NewStore returns a Store on db's device_storage collection.
func NewStore(db *mongo.Database, prefix string) *Store {
	if prefix == "" {
		prefix = "turnos"
	}
	return &Store{coll: db.Collection(storeCollection), prefix: prefix}
}

type storeEntry struct {
	ID        string `bson:"_id"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var doc storeEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": s.key(key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("find %s: %w", key, err)
	}
	return doc.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	id := s.key(key)
	doc := storeEntry{ID: id, Value: value, UpdatedAt: time.Now().UTC().Unix()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ids := make(bson.A, len(keys))
	for i, k := range keys {
		ids[i] = s.key(k)
	}
	if _, err := s.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("delete keys: %w", err)
	}
	return nil
}

// Ping checks the connection for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

func (s *Store) key(k string) string {
	return s.prefix + ":" + k
}

var _ ports.KeyValueStore = (*Store)(nil)
