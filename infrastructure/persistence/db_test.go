package persistence

import (
	"net/url"
	"testing"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/configuration"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Connection constructors need live servers. Without them they must fail
// cleanly instead of panicking.
func TestConnectionConstructors_NoServer(t *testing.T) {
	if testing.Short() {
		t.Skip("dials network")
	}
	tests := []struct {
		name string
		open func() error
	}{
		{"mysql user directory", func() error {
			db, err := NewRepositories()
			if err == nil {
				if sqlDB, dbErr := db.DB(); dbErr == nil {
					_ = sqlDB.Close()
				}
			}
			return err
		}},
		{"postgres", func() error {
			db, err := NewPostgreSQLDB()
			if err == nil {
				_ = db.Close()
			}
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				if err := tt.open(); err != nil {
					t.Logf("%s unavailable in test env: %v", tt.name, err)
				}
			})
		})
	}
}

func TestMSSQLDSN(t *testing.T) {
	dsn := mssqlDSN(configuration.Db{Name: "feed", Host: "localhost", Port: "1433", User: "sa", Password: "p@ss"})
	u, err := url.Parse(dsn)
	require.NoError(t, err)

	assert.Equal(t, "sqlserver", u.Scheme)
	assert.Equal(t, "localhost:1433", u.Host)
	assert.Equal(t, "sa", u.User.Username())
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss", pw)
	assert.Equal(t, "feed", u.Query().Get("database"))
	assert.Equal(t, "true", u.Query().Get("encrypt"))
	assert.Equal(t, "true", u.Query().Get("TrustServerCertificate"))

	remote, err := url.Parse(mssqlDSN(configuration.Db{Host: "db.example.net", Port: "1433"}))
	require.NoError(t, err)
	assert.Empty(t, remote.Query().Get("TrustServerCertificate"))
	assert.Nil(t, remote.User)

	assert.Equal(t, "sqlserver://override", mssqlDSN(configuration.Db{URI: "sqlserver://override", Host: "ignored"}))
}
