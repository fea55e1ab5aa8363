package persistence

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// upsertAttempts bounds retries of an upsert that lost the insert race to a
// concurrent upsert on the same unique key.
const upsertAttempts = 3

// retryDuplicateKey runs op again while it fails with a duplicate key error,
// at most attempts times in total.
func retryDuplicateKey(attempts int, op func() error) error {
	var err error
	for range attempts {
		if err = op(); !mongo.IsDuplicateKeyError(err) {
			return err
		}
	}
	return err
}

type reactionDocument struct {
	ID        bson.ObjectID      `bson:"_id,omitempty"`
	User      string             `bson:"user"`
	Video     bson.ObjectID      `bson:"video"`
	Type      model.ReactionKind `bson:"type"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d reactionDocument) toModel() *model.ReactionRecord {
	return &model.ReactionRecord{
		UserID:    d.User,
		VideoID:   d.Video.Hex(),
		Kind:      d.Type,
		UpdatedAt: d.UpdatedAt,
	}
}

// MongoReactionRepository keeps one document per (user, video) in
// "likedislikes", guarded by a unique index.
type MongoReactionRepository struct {
	coll *mongo.Collection
}

func NewMongoReactionRepository(db *mongo.Database) repository.IReaction {
	return &MongoReactionRepository{coll: db.Collection(reactionCollection)}
}

func (r *MongoReactionRepository) SetReaction(ctx context.Context, userID, videoID string, kind model.ReactionKind) (*model.ReactionRecord, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	vid, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return nil, model.NotFound(model.MsgVideoNotFound)
	}

	filter := bson.M{"user": userID, "video": vid}
	update := bson.M{"$set": bson.M{"type": kind, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc reactionDocument
	// two first reactions racing: the loser retries as an update
	err = retryDuplicateKey(upsertAttempts, func() error {
		return r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	})
	if err != nil {
		return nil, fmt.Errorf("upsert reaction: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoReactionRepository) CountReactions(ctx context.Context, videoID string, kind model.ReactionKind) (int64, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}
	vid, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return 0, model.NotFound(model.MsgVideoNotFound)
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"video": vid, "type": kind})
	if err != nil {
		return 0, fmt.Errorf("count reactions: %w", err)
	}
	return n, nil
}

func (r *MongoReactionRepository) GetReaction(ctx context.Context, userID, videoID string) (*model.ReactionRecord, error) {
	vid, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return nil, model.NotFound(model.MsgVideoNotFound)
	}
	var doc reactionDocument
	err = r.coll.FindOne(ctx, bson.M{"user": userID, "video": vid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find reaction: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoReactionRepository) DeleteByVideo(ctx context.Context, videoID string) error {
	vid, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return model.NotFound(model.MsgVideoNotFound)
	}
	res, err := r.coll.DeleteMany(ctx, bson.M{"video": vid})
	if err != nil {
		return fmt.Errorf("delete reactions: %w", err)
	}
	logger.GetLogger().WithField("videoId", videoID).WithField("deleted", res.DeletedCount).Debug("Reactions purged")
	return nil
}

type commentEntry struct {
	ID      bson.ObjectID `bson:"_id"`
	User    string        `bson:"user"`
	Comment string        `bson:"comment"`
	Date    time.Time     `bson:"date"`
}

type commentThreadDocument struct {
	ID       bson.ObjectID  `bson:"_id,omitempty"`
	Video    bson.ObjectID  `bson:"video"`
	Comments []commentEntry `bson:"comments"`
}

// MongoCommentRepository keeps one thread document per video in "comments".
// The thread is created by the first $push upsert.
type MongoCommentRepository struct {
	coll *mongo.Collection
}

func NewMongoCommentRepository(db *mongo.Database) repository.IComment {
	return &MongoCommentRepository{coll: db.Collection(commentCollection)}
}

func (r *MongoCommentRepository) AppendComment(ctx context.Context, videoID, userID, text string) (*model.Comment, error) {
	text, err := model.NormalizeCommentText(text)
	if err != nil {
		return nil, err
	}
	vid, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return nil, model.NotFound(model.MsgVideoNotFound)
	}

	entry := commentEntry{ID: bson.NewObjectID(), User: userID, Comment: text, Date: time.Now().UTC()}
	update := bson.M{"$push": bson.M{"comments": entry}}
	opts := options.UpdateOne().SetUpsert(true)
	err = retryDuplicateKey(upsertAttempts, func() error {
		_, err := r.coll.UpdateOne(ctx, bson.M{"video": vid}, update, opts)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("append comment: %w", err)
	}
	return &model.Comment{ID: entry.ID.Hex(), VideoID: videoID, UserID: userID, Text: text, Date: entry.Date}, nil
}

func (r *MongoCommentRepository) ListComments(ctx context.Context, videoID string) ([]model.Comment, error) {
	vid, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return nil, model.NotFound(model.MsgVideoNotFound)
	}
	var doc commentThreadDocument
	err = r.coll.FindOne(ctx, bson.M{"video": vid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []model.Comment{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment thread: %w", err)
	}

	comments := make([]model.Comment, 0, len(doc.Comments))
	for _, c := range doc.Comments {
		comments = append(comments, model.Comment{ID: c.ID.Hex(), VideoID: videoID, UserID: c.User, Text: c.Comment, Date: c.Date})
	}
	sortNewestFirst(comments)
	return comments, nil
}

func (r *MongoCommentRepository) DeleteByVideo(ctx context.Context, videoID string) error {
	vid, err := bson.ObjectIDFromHex(videoID)
	if err != nil {
		return model.NotFound(model.MsgVideoNotFound)
	}
	if _, err := r.coll.DeleteOne(ctx, bson.M{"video": vid}); err != nil {
		return fmt.Errorf("delete comment thread: %w", err)
	}
	return nil
}

// sortNewestFirst orders comments stored in insertion order by descending
// date. Equal dates keep insertion order.
func sortNewestFirst(comments []model.Comment) {
	slices.SortStableFunc(comments, func(a, b model.Comment) int {
		return b.Date.Compare(a.Date)
	})
}
