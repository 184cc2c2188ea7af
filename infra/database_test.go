package infra

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

func TestNewDBConnection_RequiresURL(t *testing.T) {
	_, err := NewDBConnection(config.DB{}, "test", nil)
	assert.EqualError(t, err, "DATABASE_URL is not set")
}

func TestOpenPool(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	cfg := config.DB{
		MaxOpenConns:       7,
		MaxIdleConns:       10,
		ConnMaxLifetime:    time.Minute,
		SlowQueryThreshold: time.Millisecond,
	}
	conn, err := openPool(postgres.New(postgres.Config{Conn: sqlDB}), cfg, "production", log)
	require.NoError(t, err)

	pool, err := conn.DB()
	require.NoError(t, err)
	assert.Equal(t, 7, pool.Stats().MaxOpenConnections)

	mock.ExpectExec("SELECT 1").
		WillDelayFor(10 * time.Millisecond).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, conn.Exec("SELECT 1").Error)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Contains(t, buf.String(), "SLOW SQL")
	assert.Contains(t, buf.String(), "component=gorm")
}
