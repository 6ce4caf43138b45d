package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/database"
)

func openTemp(t *testing.T) database.Connection {
	t.Helper()
	conn, err := database.Open(context.Background(), database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "nested", "moodscope.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestOpen_RegistersDriver(t *testing.T) {
	conn := openTemp(t)

	assert.Equal(t, database.DriverSQLite, conn.Driver())
	assert.NoError(t, conn.Ping(context.Background()))
}

func TestConnection_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn := openTemp(t)

	_, err := conn.Exec(ctx, `CREATE TABLE moods (day TEXT PRIMARY KEY, level REAL)`)
	require.NoError(t, err)

	res, err := conn.Exec(ctx, `INSERT INTO moods (day, level) VALUES (?, ?), (?, ?)`, "2026-10-13", 6.5, "2026-10-14", 7.0)
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var level float64
	require.NoError(t, conn.QueryRow(ctx, `SELECT level FROM moods WHERE day = ?`, "2026-10-14").Scan(&level))
	assert.Equal(t, 7.0, level)

	err = conn.QueryRow(ctx, `SELECT level FROM moods WHERE day = ?`, "2020-01-01").Scan(&level)
	assert.True(t, database.IsNoRows(err))

	rows, err := conn.Query(ctx, `SELECT day FROM moods ORDER BY day`)
	require.NoError(t, err)
	defer rows.Close()
	var days []string
	for rows.Next() {
		var d string
		require.NoError(t, rows.Scan(&d))
		days = append(days, d)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"2026-10-13", "2026-10-14"}, days)
}

func TestRunInTx(t *testing.T) {
	ctx := context.Background()
	conn := openTemp(t)
	_, err := conn.Exec(ctx, `CREATE TABLE moods (day TEXT PRIMARY KEY)`)
	require.NoError(t, err)

	count := func() int {
		var n int
		require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM moods`).Scan(&n))
		return n
	}

	t.Run("commit", func(t *testing.T) {
		err := database.RunInTx(ctx, conn, func(ctx context.Context) error {
			_, err := database.ExecutorFromContext(ctx, conn).Exec(ctx, `INSERT INTO moods (day) VALUES (?)`, "2026-10-14")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, 1, count())
	})

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := database.RunInTx(ctx, conn, func(ctx context.Context) error {
			if _, err := database.ExecutorFromContext(ctx, conn).Exec(ctx, `INSERT INTO moods (day) VALUES (?)`, "2026-10-15"); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, count())
	})
}
