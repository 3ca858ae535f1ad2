//go:build e2e

package e2e

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	msql "timesheet-dashboard/internal/adapter/mysql"
	"timesheet-dashboard/internal/migrate"
	"timesheet-dashboard/internal/usecase"
)

const seed = `
INSERT INTO time_changes (id, start_time, end_time, work_hours, work_minutes, break_hours, break_minutes, project_allocation, workplace_allocation) VALUES
 ('1', '2024-03-01 08:00:00', '2024-03-01 16:00:00', 7, 30, 0, 30,
  '[{"label":"Apollo","percentage":60},{"label":"Gemini","percentage":40}]',
  '[{"label":"Office","percentage":100}]'),
 ('2', '2024-03-02 09:00:00', '2024-03-02 17:00:00', 6, 0, NULL, NULL,
  '[{"label":"Apollo","percentage":100}]',
  '[{"label":"Home","percentage":50},{"label":"Office","percentage":50}]');
`

func TestMySQLSourceToSummary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_DATABASE":      "testdb",
			"MYSQL_ROOT_PASSWORD": "secret",
			"MYSQL_USER":          "test",
			"MYSQL_PASSWORD":      "pass",
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(90 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start mysql container")
	t.Cleanup(func() { _ = mysqlC.Terminate(context.Background()) })

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true", "test", "pass", host, port.Port(), "testdb")

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	require.NoError(t, migrate.Run(ctx, dsn, logger))
	// second run is a no-op
	require.NoError(t, migrate.Run(ctx, dsn, logger))

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.ExecContext(ctx, seed)
	require.NoError(t, err)

	src, err := msql.NewSource(ctx, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	uc := &usecase.DashboardUseCase{Log: logger, Source: src}
	sum, err := uc.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, sum.EntryCount)
	assert.InDelta(t, 630.0, sum.ProjectTotals["Apollo"], 1e-9)
	assert.InDelta(t, 180.0, sum.ProjectTotals["Gemini"], 1e-9)
	assert.InDelta(t, 630.0, sum.WorkplaceTotals["Office"], 1e-9)
	assert.InDelta(t, 180.0, sum.WorkplaceTotals["Home"], 1e-9)
	assert.Equal(t, "8:30 AM", sum.Averages.StartTime)
	assert.Equal(t, "4:30 PM", sum.Averages.EndTime)
	assert.Equal(t, "0h 15m", sum.Averages.BreakDuration)
	assert.Equal(t, "6h 45m", sum.Averages.WorkDuration)
	assert.Empty(t, sum.InvalidTimestamps)
}
