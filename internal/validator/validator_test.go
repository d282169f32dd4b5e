package validator

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/attendance-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	Setup()
}

func bindQuery(t *testing.T, target string, dst interface{}) map[string]string {
	t.Helper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return BindQuery(c, dst)
}

func TestBindQueryRequiredStudent(t *testing.T) {
	var q model.StudentQuery
	fields := bindQuery(t, "/students/detail", &q)

	require.NotNil(t, fields)
	assert.Contains(t, fields["student"], "required")
}

func TestBindQueryLeaderboardMetric(t *testing.T) {
	var ok model.LeaderboardQuery
	assert.Nil(t, bindQuery(t, "/leaderboard?metric=rating", &ok))
	assert.Equal(t, model.MetricRating, ok.Metric)

	var bad model.LeaderboardQuery
	fields := bindQuery(t, "/leaderboard?metric=height", &bad)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "metric")
}

func TestBindQueryWeekParticipantsOnlyDefault(t *testing.T) {
	var q model.WeekQuery
	require.Nil(t, bindQuery(t, "/weeks/detail?week=Week+1", &q))
	assert.Equal(t, "Week 1", q.Week)
	assert.True(t, q.OnlyParticipants())

	var all model.WeekQuery
	require.Nil(t, bindQuery(t, "/weeks/detail?week=Week+1&participants_only=false", &all))
	assert.False(t, all.OnlyParticipants())
}

func TestBindQueryMalformedBool(t *testing.T) {
	var q model.WeekQuery
	fields := bindQuery(t, "/weeks/detail?week=Week+1&participants_only=maybe", &q)
	require.NotNil(t, fields)
	assert.Contains(t, fields, "detail")
}
