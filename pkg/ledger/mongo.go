package ledger

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kjhansen/streamcapture/pkg/errors"
)

// MongoLedger persists RunRecords to a MongoDB collection, for
// deployments that run the optimizer as a shared service and want run
// history to survive process restarts.
type MongoLedger struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoLedger connects to uri and uses database/"runs" as the
// backing collection.
func NewMongoLedger(ctx context.Context, uri, database string) (*MongoLedger, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "connect to mongo at %q", uri)
	}
	return &MongoLedger{
		client: client,
		coll:   client.Database(database).Collection("runs"),
	}, nil
}

// Record implements Ledger.
func (l *MongoLedger) Record(ctx context.Context, rec RunRecord) error {
	if _, err := l.coll.InsertOne(ctx, rec); err != nil {
		return errors.Wrap(errors.ErrCodeUnavailable, err, "insert run record %q", rec.ID)
	}
	return nil
}

// Recent implements Ledger, returning up to limit records most-recent-first.
func (l *MongoLedger) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := l.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "find run records")
	}
	defer cursor.Close(ctx)

	var records []RunRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnavailable, err, "decode run records")
	}
	return records, nil
}

// Close implements Ledger.
func (l *MongoLedger) Close() error {
	return l.client.Disconnect(context.Background())
}

var _ Ledger = (*MongoLedger)(nil)
