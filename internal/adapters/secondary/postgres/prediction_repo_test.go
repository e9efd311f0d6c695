package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	output "wine-tier-service/internal/core/ports/output"
)

func normalizeSQL(q string) string {
	return strings.Join(strings.Fields(q), " ")
}

func TestBuildListQuery_NoFilters(t *testing.T) {
	q := buildListQuery(output.PredictionFilter{Limit: 20, Offset: 40})

	assert.Equal(t, "SELECT COUNT(*) FROM prediction_history WHERE TRUE", q.count)
	assert.Empty(t, q.countArgs)

	list := normalizeSQL(q.list)
	assert.Contains(t, list, "FROM prediction_history WHERE TRUE ORDER BY created_at DESC LIMIT $1 OFFSET $2")
	assert.Equal(t, []interface{}{20, 40}, q.listArgs)
}

func TestBuildListQuery_LabelAndSince(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	q := buildListQuery(output.PredictionFilter{
		Label:  "Q2",
		Since:  &since,
		Order:  "asc",
		Limit:  5,
		Offset: 10,
	})

	where := "WHERE TRUE AND label = $1 AND created_at >= $2"
	assert.Equal(t, "SELECT COUNT(*) FROM prediction_history "+where, q.count)
	assert.Equal(t, []interface{}{"Q2", since}, q.countArgs)

	list := normalizeSQL(q.list)
	assert.Contains(t, list, where+" ORDER BY created_at ASC LIMIT $3 OFFSET $4")
	assert.Equal(t, []interface{}{"Q2", since, 5, 10}, q.listArgs)
}

func TestBuildListQuery_SinceOnly(t *testing.T) {
	since := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	q := buildListQuery(output.PredictionFilter{Since: &since, Order: "desc", Limit: 1})

	assert.Equal(t, []interface{}{since}, q.countArgs)
	list := normalizeSQL(q.list)
	assert.Contains(t, list, "WHERE TRUE AND created_at >= $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3")
	assert.Equal(t, []interface{}{since, 1, 0}, q.listArgs)
	// The count args must not pick up the pagination values.
	assert.Len(t, q.countArgs, 1)
}

func TestBuildListQuery_UnknownOrderDefaultsToNewestFirst(t *testing.T) {
	q := buildListQuery(output.PredictionFilter{Order: "sideways", Limit: 3})
	assert.Contains(t, normalizeSQL(q.list), "ORDER BY created_at DESC")
}
