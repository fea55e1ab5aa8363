package persistence

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type videoDocument struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Creator     string        `bson:"creator"`
	Title       string        `bson:"title"`
	Description string        `bson:"description"`
	Tags        []string      `bson:"tags"`
	Hashtags    []string      `bson:"hashtags"`
	URL         string        `bson:"url"`
	PublicID    string        `bson:"public_id"`
	CreatedAt   time.Time     `bson:"createdAt"`
}

func (d videoDocument) toModel() *model.Video {
	return &model.Video{
		ID:          d.ID.Hex(),
		Creator:     d.Creator,
		Title:       d.Title,
		Description: d.Description,
		Tags:        d.Tags,
		Hashtags:    d.Hashtags,
		URL:         d.URL,
		PublicID:    d.PublicID,
		CreatedAt:   d.CreatedAt,
	}
}

// MongoVideoRepository stores videos in the "videos" collection. ObjectIDs
// are monotonically increasing, so _id order is creation order.
type MongoVideoRepository struct {
	coll *mongo.Collection
}

func NewMongoVideoRepository(db *mongo.Database) repository.IVideo {
	return &MongoVideoRepository{coll: db.Collection(videoCollection)}
}

func creatorFilter(filter model.VideoFilter) bson.M {
	m := bson.M{}
	if filter.Creator != "" {
		m["creator"] = filter.Creator
	}
	return m
}

func (r *MongoVideoRepository) GetByID(ctx context.Context, id string, filter model.VideoFilter) (*model.Video, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, model.NotFound(model.MsgVideoNotFound)
	}
	q := creatorFilter(filter)
	q["_id"] = oid

	var doc videoDocument
	if err := r.coll.FindOne(ctx, q).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.NotFound(model.MsgVideoNotFound)
		}
		return nil, fmt.Errorf("find video: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoVideoRepository) Count(ctx context.Context, filter model.VideoFilter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, creatorFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return n, nil
}

func samplePipeline(filter model.VideoFilter) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: creatorFilter(filter)}},
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}
}

// neighborQuery selects the closest _id after (Forward) or before (Backward)
// oid within filter.
func neighborQuery(oid bson.ObjectID, filter model.VideoFilter, dir model.Direction) (bson.M, bson.D) {
	op, order := "$gt", 1
	if dir == model.Backward {
		op, order = "$lt", -1
	}
	q := creatorFilter(filter)
	q["_id"] = bson.M{op: oid}
	return q, bson.D{{Key: "_id", Value: order}}
}

func searchQuery(query string) bson.M {
	re := bson.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"title": re},
		bson.M{"tags": re},
		bson.M{"hashtags": re},
	}}
}

// Sample uses the server-side $sample stage, which picks uniformly among the
// documents passed by $match.
func (r *MongoVideoRepository) Sample(ctx context.Context, filter model.VideoFilter) (*model.Video, error) {
	cursor, err := r.coll.Aggregate(ctx, samplePipeline(filter))
	if err != nil {
		return nil, fmt.Errorf("sample video: %w", err)
	}
	defer closeCursor(ctx, cursor)

	if !cursor.Next(ctx) {
		return nil, cursor.Err()
	}
	var doc videoDocument
	if err := cursor.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode sampled video: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoVideoRepository) Neighbor(ctx context.Context, cursor model.FeedCursor, dir model.Direction) (*model.Video, error) {
	oid, err := bson.ObjectIDFromHex(cursor.VideoID)
	if err != nil {
		return nil, model.NotFound(model.MsgVideoNotFound)
	}
	q, sort := neighborQuery(oid, cursor.Filter, dir)

	var doc videoDocument
	err = r.coll.FindOne(ctx, q, options.FindOne().SetSort(sort)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find neighbour: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoVideoRepository) List(ctx context.Context, filter model.VideoFilter, offset, limit int) ([]model.Video, error) {
	return r.find(ctx, creatorFilter(filter), offset, limit)
}

func (r *MongoVideoRepository) Search(ctx context.Context, query string, offset, limit int) ([]model.Video, error) {
	return r.find(ctx, searchQuery(query), offset, limit)
}

func (r *MongoVideoRepository) find(ctx context.Context, q bson.M, offset, limit int) ([]model.Video, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer closeCursor(ctx, cursor)

	var docs []videoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}
	videos := make([]model.Video, 0, len(docs))
	for _, d := range docs {
		videos = append(videos, *d.toModel())
	}
	return videos, nil
}

func (r *MongoVideoRepository) Create(ctx context.Context, video *model.Video) error {
	doc := videoDocument{
		ID:          bson.NewObjectID(),
		Creator:     video.Creator,
		Title:       video.Title,
		Description: video.Description,
		Tags:        video.Tags,
		Hashtags:    video.Hashtags,
		URL:         video.URL,
		PublicID:    video.PublicID,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	video.ID = doc.ID.Hex()
	video.CreatedAt = doc.CreatedAt
	return nil
}

func (r *MongoVideoRepository) Update(ctx context.Context, video *model.Video) error {
	oid, err := bson.ObjectIDFromHex(video.ID)
	if err != nil {
		return model.NotFound(model.MsgVideoNotFound)
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{
		"title":       video.Title,
		"description": video.Description,
		"tags":        video.Tags,
	}})
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	if res.MatchedCount == 0 {
		return model.NotFound(model.MsgVideoNotFound)
	}
	return nil
}

func (r *MongoVideoRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return model.NotFound(model.MsgVideoNotFound)
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	if res.DeletedCount == 0 {
		return model.NotFound(model.MsgVideoNotFound)
	}
	return nil
}

func closeCursor(ctx context.Context, cursor *mongo.Cursor) {
	if err := cursor.Close(ctx); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while closing cursor")
	}
}
