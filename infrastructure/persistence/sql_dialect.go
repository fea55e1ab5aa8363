package persistence

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect holds the statement differences between PostgreSQL and SQL Server.
// Queries are written with ? placeholders and rebound per dialect.
type Dialect struct {
	Name        string
	placeholder func(n int) string
}

var (
	PostgresDialect = Dialect{Name: "postgres", placeholder: func(n int) string { return "$" + strconv.Itoa(n) }}
	MSSQLDialect    = Dialect{Name: "mssql", placeholder: func(n int) string { return "@p" + strconv.Itoa(n) }}
)

func (d Dialect) IsMSSQL() bool { return d.Name == MSSQLDialect.Name }

var (
	likeEscaper      = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	mssqlLikeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`, `[`, `\[`)
)

// EscapeLike escapes s for a LIKE pattern with ESCAPE '\'. SQL Server also
// treats [ as the start of a character class.
func (d Dialect) EscapeLike(s string) string {
	if d.IsMSSQL() {
		return mssqlLikeEscaper.Replace(s)
	}
	return likeEscaper.Replace(s)
}

// Rebind replaces each ? with the dialect's positional placeholder.
func (d Dialect) Rebind(q string) string {
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString(d.placeholder(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Page returns the paging clause. It must follow an ORDER BY.
func (d Dialect) Page(limit, offset int) string {
	if d.IsMSSQL() {
		return fmt.Sprintf(" OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", offset, limit)
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}

// InsertReturningID builds an INSERT that yields the generated id column.
func (d Dialect) InsertReturningID(table string, columns ...string) string {
	marks := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
	cols := strings.Join(columns, ", ")
	if d.IsMSSQL() {
		return d.Rebind(fmt.Sprintf("INSERT INTO %s (%s) OUTPUT INSERTED.id VALUES (%s)", table, cols, marks))
	}
	return d.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id", table, cols, marks))
}

// UpsertReaction is one atomic statement keyed on (user_id, video_id) that
// returns the stored row.
func (d Dialect) UpsertReaction() string {
	if d.IsMSSQL() {
		return d.Rebind(`MERGE likedislikes WITH (HOLDLOCK) AS t
USING (SELECT ? AS user_id, ? AS video_id, ? AS kind, ? AS updated_at) AS s
ON t.user_id = s.user_id AND t.video_id = s.video_id
WHEN MATCHED THEN UPDATE SET kind = s.kind, updated_at = s.updated_at
WHEN NOT MATCHED THEN INSERT (user_id, video_id, kind, updated_at) VALUES (s.user_id, s.video_id, s.kind, s.updated_at)
OUTPUT inserted.user_id, inserted.video_id, inserted.kind, inserted.updated_at;`)
	}
	return d.Rebind(`INSERT INTO likedislikes (user_id, video_id, kind, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, video_id) DO UPDATE SET kind = EXCLUDED.kind, updated_at = EXCLUDED.updated_at
RETURNING user_id, video_id, kind, updated_at`)
}
