package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureVideoSchemaMSSQL creates the SQL Server tables of the video store when
// they are missing.
func EnsureVideoSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createIfMissing := func(table, ddl string) error {
		q := fmt.Sprintf(`IF OBJECT_ID('%s', 'U') IS NULL BEGIN %s END`, table, ddl)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure table %s: %w", table, err)
		}
		return nil
	}
	if err := createIfMissing("dbo.videos", `CREATE TABLE dbo.[videos] (
		id BIGINT IDENTITY(1,1) PRIMARY KEY,
		creator NVARCHAR(64) NOT NULL,
		title NVARCHAR(255) NOT NULL,
		description NVARCHAR(MAX) NULL,
		tags NVARCHAR(MAX) NULL,
		hashtags NVARCHAR(MAX) NULL,
		url NVARCHAR(1024) NULL,
		public_id NVARCHAR(255) NULL,
		created_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME(),
		INDEX idx_videos_creator (creator, id)
	)`); err != nil {
		return err
	}
	if err := createIfMissing("dbo.likedislikes", `CREATE TABLE dbo.[likedislikes] (
		user_id NVARCHAR(64) NOT NULL,
		video_id BIGINT NOT NULL,
		kind NVARCHAR(16) NOT NULL CHECK (kind IN ('like', 'dislike')),
		updated_at DATETIME2 NOT NULL,
		CONSTRAINT pk_likedislikes PRIMARY KEY (user_id, video_id),
		INDEX idx_likedislikes_video (video_id, kind)
	)`); err != nil {
		return err
	}
	return createIfMissing("dbo.comments", `CREATE TABLE dbo.[comments] (
		id BIGINT IDENTITY(1,1) PRIMARY KEY,
		video_id BIGINT NOT NULL,
		user_id NVARCHAR(64) NOT NULL,
		body NVARCHAR(MAX) NOT NULL,
		created_at DATETIME2 NOT NULL,
		INDEX idx_comments_video (video_id, created_at)
	)`)
}
