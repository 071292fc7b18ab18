package helpers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	for _, in := range []string{"2024-03-05", "05-03-2024", "03/05/2024", "2024/03/05", "2024-03-05T00:00:00Z", " 2024-03-05 "} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s parsed as %s", in, got)
	}

	for _, in := range []string{"", "yesterday", "2024-13-45"} {
		_, err := ParseDate(in)
		assert.Error(t, err, in)
	}
}

func TestParseDayFirstDate(t *testing.T) {
	got, err := ParseDayFirstDate("15-08-2023")
	require.NoError(t, err)
	assert.Equal(t, "2023-08-15", got.Format("2006-01-02"))

	_, err = ParseDayFirstDate("2023-08-15")
	assert.Error(t, err)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Minute, ParseDuration("2m", time.Second))
	assert.Equal(t, time.Second, ParseDuration("soon", time.Second))
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query    string
		page     int
		size     int
		paginate bool
	}{
		{query: "", paginate: false},
		{query: "?page=2&size=10", page: 2, size: 10, paginate: true},
		{query: "?page=0", page: 1, size: DefaultPageSize, paginate: true},
		{query: "?size=9999", page: 1, size: DefaultPageSize, paginate: true},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/api/students"+tt.query, nil)

		page, size, ok := ParsePaginationParams(c)
		assert.Equal(t, tt.paginate, ok, tt.query)
		if ok {
			assert.Equal(t, tt.page, page, tt.query)
			assert.Equal(t, tt.size, size, tt.query)
		}
	}
}

func TestCalculateSliceIndices(t *testing.T) {
	start, end := CalculateSliceIndices(1, 10, 25)
	assert.Equal(t, []int{0, 10}, []int{start, end})

	start, end = CalculateSliceIndices(3, 10, 25)
	assert.Equal(t, []int{20, 25}, []int{start, end})

	start, end = CalculateSliceIndices(4, 10, 25)
	assert.Equal(t, []int{25, 25}, []int{start, end})

	start, end = CalculateSliceIndices(200000000000000000, 50, 25)
	assert.Equal(t, []int{25, 25}, []int{start, end})

	start, end = CalculateSliceIndices(2, 10, 0)
	assert.Equal(t, []int{0, 0}, []int{start, end})
}
