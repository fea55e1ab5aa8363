package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureVideoSchema creates the PostgreSQL tables of the SQL video store when
// they are missing. Safe to call at startup.
func EnsureVideoSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS videos (
			id BIGSERIAL PRIMARY KEY,
			creator TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			tags TEXT,
			hashtags TEXT,
			url TEXT,
			public_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_creator ON videos (creator, id)`,
		`CREATE INDEX IF NOT EXISTS idx_videos_created_at ON videos (created_at DESC, id DESC)`,
		`CREATE TABLE IF NOT EXISTS likedislikes (
			user_id TEXT NOT NULL,
			video_id BIGINT NOT NULL,
			kind TEXT NOT NULL CHECK (kind IN ('like', 'dislike')),
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, video_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_likedislikes_video ON likedislikes (video_id, kind)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id BIGSERIAL PRIMARY KEY,
			video_id BIGINT NOT NULL,
			user_id TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_video ON comments (video_id, created_at DESC)`,
	}
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure video schema: %w", err)
		}
	}
	return nil
}
