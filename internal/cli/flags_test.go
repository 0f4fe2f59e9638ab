package cli

import (
	"testing"
	"time"

	"github.com/alexanderramin/ironflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateListValue(t *testing.T) {
	var v dateListValue
	require.NoError(t, v.Set("2026-05-01,2026-05-05"))
	require.NoError(t, v.Set("2026-06-06"))
	assert.Equal(t, "2026-05-01,2026-05-05,2026-06-06", v.String())
	assert.Error(t, v.Set("05/01/2026"))
	assert.Equal(t, "dates", v.Type())
}

func TestTeamDatesValue(t *testing.T) {
	var v teamDatesValue
	require.NoError(t, v.Set("welding=2026-05-01,2026-05-02"))
	require.NoError(t, v.Set(" painting = 2026-05-03"))
	require.Len(t, v.entries, 2)
	assert.Equal(t, "painting", v.entries[1].team)
	assert.Equal(t, []time.Time{domain.Date(2026, 5, 3)}, v.entries[1].dates)
	assert.Equal(t, "welding=2026-05-01,2026-05-02;painting=2026-05-03", v.String())

	assert.Error(t, v.Set("2026-05-01"))
	assert.Error(t, v.Set("=2026-05-01"))
	assert.Error(t, v.Set("welding="))
}

func TestTeamWeekdaysValue(t *testing.T) {
	var v teamWeekdaysValue
	require.NoError(t, v.Set("painting=mon,tue,2"))
	require.NoError(t, v.Set("idle="))
	assert.Equal(t, []int{0, 1, 2}, v.entries[0].mask.Indices())
	assert.True(t, v.entries[1].mask.Empty())
	assert.Error(t, v.Set("painting=someday"))
}

func TestEnumValue(t *testing.T) {
	v := newEnumValue("table", "table", "csv")
	require.NoError(t, v.Set("CSV"))
	assert.Equal(t, "csv", v.String())
	assert.Error(t, v.Set("pdf"))
	assert.Equal(t, "table|csv", v.Type())
}
