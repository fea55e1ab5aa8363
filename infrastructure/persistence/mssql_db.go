package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/configuration"

	_ "github.com/microsoft/go-mssqldb"
)

const pingTimeout = 5 * time.Second

// mssqlDSN builds a sqlserver:// URL. Encryption is always on; loopback hosts
// trust the server certificate.
func mssqlDSN(cfg configuration.Db) string {
	if cfg.URI != "" {
		return cfg.URI
	}
	q := url.Values{"encrypt": {"true"}}
	if cfg.Name != "" {
		q.Set("database", cfg.Name)
	}
	switch cfg.Host {
	case "localhost", "127.0.0.1", "::1":
		q.Set("TrustServerCertificate", "true")
	}

	u := url.URL{Scheme: "sqlserver", Host: fmt.Sprintf("%s:%s", cfg.Host, cfg.Port), RawQuery: q.Encode()}
	switch {
	case cfg.User != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.User, cfg.Password)
	case cfg.User != "":
		u.User = url.User(cfg.User)
	}
	return u.String()
}

// NewMSSQLDB opens the SQL Server pool used by the SQL video store.
func NewMSSQLDB() (*sql.DB, error) {
	db, err := sql.Open("sqlserver", mssqlDSN(configuration.C.Database.Mssql))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlserver: %w", err)
	}
	return db, nil
}
