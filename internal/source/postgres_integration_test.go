//go:build integration

package source

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/spherical-ai/hoidap/internal/config"
	"github.com/spherical-ai/hoidap/internal/reference"
)

func TestPostgres_FetchTable(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase("hoidap_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE "Hỏi-Trả lời" ("Câu hỏi" TEXT, "Câu trả lời" TEXT, "Cập nhật" TIMESTAMPTZ)`,
		`INSERT INTO "Hỏi-Trả lời" VALUES ('giờ làm việc', '8h-17h', '2025-03-01T08:00:00Z')`,
		`INSERT INTO "Hỏi-Trả lời" VALUES ('số hotline', NULL, NULL)`,
	} {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())

	src, err := OpenPostgres(ctx, config.PostgresConfig{DSN: dsn, MaxOpenConns: 2})
	require.NoError(t, err)
	defer src.Close()

	got, err := src.FetchTable(ctx, "Hỏi-Trả lời")
	require.NoError(t, err)
	assert.Equal(t, []string{"Câu hỏi", "Câu trả lời", "Cập nhật"}, got.Columns)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, "8h-17h", got.Rows[0][1])
	assert.Equal(t, "2025-03-01T08:00:00Z", got.Rows[0][2])
	assert.Equal(t, []string{"số hotline", "", ""}, got.Rows[1])

	_, err = src.FetchTable(ctx, "Tên các TBA")
	assert.ErrorIs(t, err, reference.ErrTableNotFound)
}
