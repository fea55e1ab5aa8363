package persistence

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	videoCollection    = "videos"
	reactionCollection = "likedislikes"
	commentCollection  = "comments"
)

// NewMongoDb connects to MongoDB. A non-empty uri takes precedence over the
// host/port/credential parts.
func NewMongoDb(uri, host, port, user, password, name string) (*mongo.Client, error) {
	if uri == "" {
		if user != "" {
			uri = fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin", user, password, host, port, name)
		} else {
			uri = fmt.Sprintf("mongodb://%s:%s/%s", host, port, name)
		}
	}
	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetMaxPoolSize(50))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// EnsureMongoIndexes creates the unique indexes the atomic upserts rely on.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{reactionCollection, mongo.IndexModel{
			Keys:    bsonKeys("user", "video"),
			Options: options.Index().SetUnique(true).SetName("user_video_unique"),
		}},
		{reactionCollection, mongo.IndexModel{
			Keys:    bsonKeys("video", "type"),
			Options: options.Index().SetName("video_type"),
		}},
		{commentCollection, mongo.IndexModel{
			Keys:    bsonKeys("video"),
			Options: options.Index().SetUnique(true).SetName("video_unique"),
		}},
		{videoCollection, mongo.IndexModel{
			Keys:    bsonKeys("creator"),
			Options: options.Index().SetName("creator"),
		}},
	}
	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.collection, err)
		}
	}
	return nil
}

func bsonKeys(keys ...string) bson.D {
	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: 1})
	}
	return d
}
