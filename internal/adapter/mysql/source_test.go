package mysql

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timesheet-dashboard/internal/domain"
)

func TestRowToDomain(t *testing.T) {
	r := row{
		id:            sql.NullString{String: "7", Valid: true},
		start:         sql.NullString{String: "2024-03-01T08:00:00Z", Valid: true},
		end:           sql.NullString{String: "2024-03-01T16:00:00Z", Valid: true},
		workH:         sql.NullInt64{Int64: 7, Valid: true},
		workM:         sql.NullInt64{Int64: 30, Valid: true},
		projectJSON:   []byte(`[{"label":"X","percentage":60},{"label":"Y","percentage":40}]`),
		workplaceJSON: []byte(`{"Office": 50, "Home": 50}`),
	}
	got, err := r.toDomain(0)
	require.NoError(t, err)

	assert.Equal(t, "7", got.ID)
	assert.Equal(t, "2024-03-01T08:00:00Z", got.Start)
	assert.Nil(t, got.BreakDuration)
	assert.Equal(t, []domain.Allocation{{Label: "X", Percentage: 60}, {Label: "Y", Percentage: 40}}, got.ProjectAllocation)
	assert.Equal(t, []domain.Allocation{{Label: "Home", Percentage: 50}, {Label: "Office", Percentage: 50}}, got.WorkplaceAllocation)
}

func TestRowToDomain_NullAllocations(t *testing.T) {
	got, err := row{projectJSON: []byte("null")}.toDomain(0)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectAllocation)
	assert.Nil(t, got.WorkplaceAllocation)
}

func TestRowToDomain_BadAllocation(t *testing.T) {
	r := row{id: sql.NullString{String: "9", Valid: true}, workplaceJSON: []byte(`"office"`)}
	_, err := r.toDomain(3)

	var ee *domain.EntryError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 3, ee.Index)
	assert.Equal(t, "9", ee.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidEntry)
}

func TestDuration(t *testing.T) {
	assert.Nil(t, duration(sql.NullInt64{}, sql.NullInt64{}))

	d := duration(sql.NullInt64{Int64: 7, Valid: true}, sql.NullInt64{})
	require.NotNil(t, d)
	require.NotNil(t, d.Hours)
	assert.Equal(t, 7, *d.Hours)
	assert.Nil(t, d.Minutes)

	d = duration(sql.NullInt64{Int64: 1, Valid: true}, sql.NullInt64{Int64: 15, Valid: true})
	assert.Equal(t, 15, *d.Minutes)
}

func TestNewSource_RequiresDSN(t *testing.T) {
	_, err := NewSource(t.Context(), "", nil)
	assert.EqualError(t, err, "mysql: DSN is required")
}
