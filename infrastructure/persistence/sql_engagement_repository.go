package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
)

// SQLReactionRepository keeps reactions in "likedislikes" with a unique
// (user_id, video_id) constraint.
type SQLReactionRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLReactionRepository(db *sql.DB, dialect Dialect) repository.IReaction {
	return &SQLReactionRepository{db: db, dialect: dialect}
}

func (r *SQLReactionRepository) SetReaction(ctx context.Context, userID, videoID string, kind model.ReactionKind) (*model.ReactionRecord, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	key, err := parseSQLID(videoID)
	if err != nil {
		return nil, err
	}

	var (
		rec    model.ReactionRecord
		vid    int64
		stored string
	)
	err = r.db.QueryRowContext(ctx, r.dialect.UpsertReaction(), userID, key, string(kind), time.Now().UTC()).
		Scan(&rec.UserID, &vid, &stored, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert reaction: %w", err)
	}
	rec.VideoID = strconv.FormatInt(vid, 10)
	rec.Kind = model.ReactionKind(stored)
	return &rec, nil
}

func (r *SQLReactionRepository) CountReactions(ctx context.Context, videoID string, kind model.ReactionKind) (int64, error) {
	if err := kind.Validate(); err != nil {
		return 0, err
	}
	key, err := parseSQLID(videoID)
	if err != nil {
		return 0, err
	}
	var n int64
	q := r.dialect.Rebind("SELECT COUNT(*) FROM likedislikes WHERE video_id = ? AND kind = ?")
	if err := r.db.QueryRowContext(ctx, q, key, string(kind)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reactions: %w", err)
	}
	return n, nil
}

func (r *SQLReactionRepository) GetReaction(ctx context.Context, userID, videoID string) (*model.ReactionRecord, error) {
	key, err := parseSQLID(videoID)
	if err != nil {
		return nil, err
	}
	rec := model.ReactionRecord{UserID: userID, VideoID: videoID}
	var kind string
	q := r.dialect.Rebind("SELECT kind, updated_at FROM likedislikes WHERE user_id = ? AND video_id = ?")
	err = r.db.QueryRowContext(ctx, q, userID, key).Scan(&kind, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query reaction: %w", err)
	}
	rec.Kind = model.ReactionKind(kind)
	return &rec, nil
}

func (r *SQLReactionRepository) DeleteByVideo(ctx context.Context, videoID string) error {
	key, err := parseSQLID(videoID)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind("DELETE FROM likedislikes WHERE video_id = ?"), key); err != nil {
		return fmt.Errorf("delete reactions: %w", err)
	}
	return nil
}

// SQLCommentRepository stores each comment as a row of "comments". A video's
// thread is the set of its rows, so the first insert creates it.
type SQLCommentRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLCommentRepository(db *sql.DB, dialect Dialect) repository.IComment {
	return &SQLCommentRepository{db: db, dialect: dialect}
}

func (r *SQLCommentRepository) AppendComment(ctx context.Context, videoID, userID, text string) (*model.Comment, error) {
	text, err := model.NormalizeCommentText(text)
	if err != nil {
		return nil, err
	}
	key, err := parseSQLID(videoID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	var id int64
	q := r.dialect.InsertReturningID("comments", "video_id", "user_id", "body", "created_at")
	if err := r.db.QueryRowContext(ctx, q, key, userID, text, now).Scan(&id); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &model.Comment{ID: strconv.FormatInt(id, 10), VideoID: videoID, UserID: userID, Text: text, Date: now}, nil
}

func (r *SQLCommentRepository) ListComments(ctx context.Context, videoID string) ([]model.Comment, error) {
	key, err := parseSQLID(videoID)
	if err != nil {
		return nil, err
	}
	q := r.dialect.Rebind("SELECT id, user_id, body, created_at FROM comments WHERE video_id = ? ORDER BY created_at DESC, id ASC")
	rows, err := r.db.QueryContext(ctx, q, key)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var (
			c  model.Comment
			id int64
		)
		if err := rows.Scan(&id, &c.UserID, &c.Text, &c.Date); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.ID = strconv.FormatInt(id, 10)
		c.VideoID = videoID
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *SQLCommentRepository) DeleteByVideo(ctx context.Context, videoID string) error {
	key, err := parseSQLID(videoID)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, r.dialect.Rebind("DELETE FROM comments WHERE video_id = ?"), key); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	return nil
}
