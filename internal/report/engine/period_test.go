package engine_test

import (
	"testing"
	"time"

	"github.com/propfolio/propfolio/internal/report/domain"
	"github.com/propfolio/propfolio/internal/report/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPeriodKeyYearAndMonth(t *testing.T) {
	key, err := engine.PeriodKey(date("2024-01-15"), domain.GranularityYear)
	require.NoError(t, err)
	assert.Equal(t, "2024", key)

	key, err = engine.PeriodKey(date("2024-01-15"), domain.GranularityMonth)
	require.NoError(t, err)
	assert.Equal(t, "2024-01", key)
}

func TestPeriodKeyWeekNumbering(t *testing.T) {
	// 2024-01-01 is a Monday: ceil((0 + 1 + 1)/7) = 1
	key, err := engine.PeriodKey(date("2024-01-01"), domain.GranularityWeek)
	require.NoError(t, err)
	assert.Equal(t, "2024-W01", key)

	// first Sunday of 2024 starts week 2 under this convention
	key, err = engine.PeriodKey(date("2024-01-07"), domain.GranularityWeek)
	require.NoError(t, err)
	assert.Equal(t, "2024-W02", key)

	// deep into the year, still zero-padded and year-first
	key, err = engine.PeriodKey(date("2024-03-15"), domain.GranularityWeek)
	require.NoError(t, err)
	assert.Equal(t, "2024-W11", key)
}

func TestPeriodKeyRejectsUnknownGranularity(t *testing.T) {
	_, err := engine.PeriodKey(date("2024-01-01"), domain.Granularity("DECADE"))
	assert.ErrorIs(t, err, domain.ErrInvalidGranularity)
}

func TestParseTimestampMalformed(t *testing.T) {
	_, err := engine.ParseTimestamp("not-a-date")
	assert.ErrorIs(t, err, domain.ErrMalformedTimestamp)

	_, err = engine.ParseTimestamp("")
	assert.ErrorIs(t, err, domain.ErrMalformedTimestamp)

	parsed, err := engine.ParseTimestamp("2024-06-30")
	require.NoError(t, err)
	assert.Equal(t, 2024, parsed.Year())
}

func TestEnumeratePeriodsDescending(t *testing.T) {
	periods := engine.EnumeratePeriods(date("2024-05-20"), domain.GranularityMonth, 5)
	assert.Equal(t, []string{"2024-05", "2024-04", "2024-03", "2024-02", "2024-01"}, periods)

	periods = engine.EnumeratePeriods(date("2024-05-20"), domain.GranularityYear, 3)
	assert.Equal(t, []string{"2024", "2023", "2022"}, periods)

	periods = engine.EnumeratePeriods(date("2024-05-20"), domain.GranularityWeek, 12)
	require.Len(t, periods, 12)
	for i := 1; i < len(periods); i++ {
		assert.Less(t, periods[i], periods[i-1], "week labels must be strictly descending")
	}
}
