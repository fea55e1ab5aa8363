package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/model"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"
)

const videoColumns = "id, creator, title, description, tags, hashtags, url, public_id, created_at"

// sampleAttempts bounds the count-then-offset retry when the matching set
// shrinks between the two reads.
const sampleAttempts = 3

// SQLVideoRepository stores videos in a "videos" table with a BIGINT
// identity key. Tags and hashtags are JSON arrays in text columns.
type SQLVideoRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLVideoRepository(db *sql.DB, dialect Dialect) repository.IVideo {
	return &SQLVideoRepository{db: db, dialect: dialect}
}

// parseSQLID converts an opaque id into the BIGINT key.
func parseSQLID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, model.NotFound(model.MsgVideoNotFound)
	}
	return n, nil
}

func whereCreator(filter model.VideoFilter) (string, []any) {
	if filter.Creator == "" {
		return " WHERE 1=1", nil
	}
	return " WHERE creator = ?", []any{filter.Creator}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*model.Video, error) {
	var (
		v                  model.Video
		id                 int64
		tags, hashtags     sql.NullString
		url, publicID, dsc sql.NullString
	)
	if err := row.Scan(&id, &v.Creator, &v.Title, &dsc, &tags, &hashtags, &url, &publicID, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.ID = strconv.FormatInt(id, 10)
	v.Description = dsc.String
	v.URL = url.String
	v.PublicID = publicID.String
	v.Tags = decodeStrings(tags.String)
	v.Hashtags = decodeStrings(hashtags.String)
	return &v, nil
}

func decodeStrings(s string) []string {
	out := []string{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Malformed string list column")
		return []string{}
	}
	return out
}

func encodeStrings(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func (r *SQLVideoRepository) GetByID(ctx context.Context, id string, filter model.VideoFilter) (*model.Video, error) {
	key, err := parseSQLID(id)
	if err != nil {
		return nil, err
	}
	where, args := whereCreator(filter)
	q := r.dialect.Rebind("SELECT " + videoColumns + " FROM videos" + where + " AND id = ?")
	v, err := scanVideo(r.db.QueryRowContext(ctx, q, append(args, key)...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.NotFound(model.MsgVideoNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query video: %w", err)
	}
	return v, nil
}

func (r *SQLVideoRepository) Count(ctx context.Context, filter model.VideoFilter) (int64, error) {
	where, args := whereCreator(filter)
	var n int64
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind("SELECT COUNT(*) FROM videos"+where), args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count videos: %w", err)
	}
	return n, nil
}

// Sample counts the matches and reads the row at a uniformly chosen offset
// in id order. A row that vanished between the reads triggers a retry.
func (r *SQLVideoRepository) Sample(ctx context.Context, filter model.VideoFilter) (*model.Video, error) {
	where, args := whereCreator(filter)
	for range sampleAttempts {
		n, err := r.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, nil
		}
		offset := rand.Int64N(n)
		q := r.dialect.Rebind("SELECT "+videoColumns+" FROM videos"+where+" ORDER BY id") + r.dialect.Page(1, int(offset))
		v, err := scanVideo(r.db.QueryRowContext(ctx, q, args...))
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("sample video: %w", err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("sample video: matches kept vanishing after %d attempts", sampleAttempts)
}

func (r *SQLVideoRepository) Neighbor(ctx context.Context, cursor model.FeedCursor, dir model.Direction) (*model.Video, error) {
	key, err := parseSQLID(cursor.VideoID)
	if err != nil {
		return nil, err
	}
	cmp, order := ">", "ASC"
	if dir == model.Backward {
		cmp, order = "<", "DESC"
	}
	where, args := whereCreator(cursor.Filter)
	q := r.dialect.Rebind("SELECT "+videoColumns+" FROM videos"+where+" AND id "+cmp+" ? ORDER BY id "+order) + r.dialect.Page(1, 0)
	v, err := scanVideo(r.db.QueryRowContext(ctx, q, append(args, key)...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query neighbour: %w", err)
	}
	return v, nil
}

func (r *SQLVideoRepository) List(ctx context.Context, filter model.VideoFilter, offset, limit int) ([]model.Video, error) {
	where, args := whereCreator(filter)
	return r.query(ctx, where, args, offset, limit)
}

func (r *SQLVideoRepository) Search(ctx context.Context, query string, offset, limit int) ([]model.Video, error) {
	pattern := "%" + r.dialect.EscapeLike(strings.ToLower(query)) + "%"
	where := ` WHERE LOWER(title) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\' OR LOWER(hashtags) LIKE ? ESCAPE '\'`
	return r.query(ctx, where, []any{pattern, pattern, pattern}, offset, limit)
}

func (r *SQLVideoRepository) query(ctx context.Context, where string, args []any, offset, limit int) ([]model.Video, error) {
	q := r.dialect.Rebind("SELECT "+videoColumns+" FROM videos"+where+" ORDER BY created_at DESC, id DESC") + r.dialect.Page(limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	videos := []model.Video{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, *v)
	}
	return videos, rows.Err()
}

func (r *SQLVideoRepository) Create(ctx context.Context, video *model.Video) error {
	now := time.Now().UTC()
	q := r.dialect.InsertReturningID("videos", "creator", "title", "description", "tags", "hashtags", "url", "public_id", "created_at")
	var id int64
	err := r.db.QueryRowContext(ctx, q,
		video.Creator, video.Title, video.Description,
		encodeStrings(video.Tags), encodeStrings(video.Hashtags),
		video.URL, video.PublicID, now,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert video: %w", err)
	}
	video.ID = strconv.FormatInt(id, 10)
	video.CreatedAt = now
	return nil
}

func (r *SQLVideoRepository) Update(ctx context.Context, video *model.Video) error {
	key, err := parseSQLID(video.ID)
	if err != nil {
		return err
	}
	q := r.dialect.Rebind("UPDATE videos SET title = ?, description = ?, tags = ? WHERE id = ?")
	res, err := r.db.ExecContext(ctx, q, video.Title, video.Description, encodeStrings(video.Tags), key)
	if err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	return requireAffected(res)
}

func (r *SQLVideoRepository) Delete(ctx context.Context, id string) error {
	key, err := parseSQLID(id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind("DELETE FROM videos WHERE id = ?"), key)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.NotFound(model.MsgVideoNotFound)
	}
	return nil
}
