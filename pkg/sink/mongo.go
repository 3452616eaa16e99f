package sink

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoSink writes each table to a collection of the same name. Each row
// becomes one document with fields in column order; nulls are stored as null.
type MongoSink struct {
	client *mongo.Client
	dbName string
}

// OpenMongo connects to uri and writes into database dbName.
func OpenMongo(uri, dbName string) (*MongoSink, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo uri is required")
	}
	if dbName == "" {
		dbName = "f1"
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	return &MongoSink{client: client, dbName: dbName}, nil
}

// Ping verifies connectivity.
func (m *MongoSink) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return m.client.Ping(ctx, nil)
}

// Kind implements Sink.
func (m *MongoSink) Kind() string { return "mongo" }

// Write drops the collection and inserts one document per row.
func (m *MongoSink) Write(ctx context.Context, t Table) (string, error) {
	if err := t.validate(); err != nil {
		return "", err
	}

	name := t.TableName()
	coll := m.client.Database(m.dbName).Collection(name)

	if err := coll.Drop(ctx); err != nil {
		return "", fmt.Errorf("drop collection %s: %w", name, err)
	}

	if len(t.Rows) > 0 {
		docs := make([]any, len(t.Rows))
		for i := range t.Rows {
			docs[i] = document(t, i)
		}
		if _, err := coll.InsertMany(ctx, docs); err != nil {
			return "", fmt.Errorf("insert into %s: %w", name, err)
		}
	}

	return fmt.Sprintf("mongo collection %s.%s", m.dbName, name), nil
}

// document renders row i as a bson.D in column order.
func document(t Table, i int) bson.D {
	cells, valid := t.Values(i)
	doc := make(bson.D, 0, len(t.Columns))
	for j, col := range t.Columns {
		var v any
		if valid[j] {
			v = cells[j]
		}
		doc = append(doc, bson.E{Key: col, Value: v})
	}
	return doc
}

// Count returns the number of documents in a collection.
func (m *MongoSink) Count(ctx context.Context, name string) (int64, error) {
	return m.client.Database(m.dbName).Collection(name).CountDocuments(ctx, bson.D{})
}

// Close implements Sink.
func (m *MongoSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
