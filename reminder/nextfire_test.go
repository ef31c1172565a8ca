package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskminder/schedule"
	"taskminder/task"
)

// Tuesday.
var after = time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC)

func TestNextFireOnce(t *testing.T) {
	at := time.Date(2024, 6, 5, 8, 45, 0, 0, time.UTC)
	trg := schedule.Trigger{ID: "t1/once/start", Kind: schedule.KindOnce, At: at}

	got, ok := nextFire(trg, after)
	require.True(t, ok)
	assert.Equal(t, at, got)

	// Consumed once the instant has passed.
	_, ok = nextFire(trg, at)
	assert.False(t, ok)
}

func TestNextFireWeekly(t *testing.T) {
	trg := schedule.Trigger{Kind: schedule.KindWeekly, Weekday: task.Monday, Hour: 8, Minute: 45}

	got, ok := nextFire(trg, after)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 10, 8, 45, 0, 0, time.UTC), got)
}

func TestNextFireWeeklySameDay(t *testing.T) {
	later := schedule.Trigger{Kind: schedule.KindWeekly, Weekday: task.Tuesday, Hour: 10, Minute: 30}
	got, ok := nextFire(later, after)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 4, 10, 30, 0, 0, time.UTC), got)

	// Already past today's slot: a full week out.
	earlier := schedule.Trigger{Kind: schedule.KindWeekly, Weekday: task.Tuesday, Hour: 9, Minute: 0}
	got, ok = nextFire(earlier, after)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 11, 9, 0, 0, 0, time.UTC), got)
}

func TestNextFireMonthly(t *testing.T) {
	trg := schedule.Trigger{Kind: schedule.KindMonthly, Day: 15, Hour: 12}

	got, ok := nextFire(trg, after)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), got)

	got, ok = nextFire(trg, got)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC), got)
}

func TestNextFireMonthlySkipsShortMonths(t *testing.T) {
	trg := schedule.Trigger{Kind: schedule.KindMonthly, Day: 31, Hour: 9}

	// June has 30 days; the next 31st is in July.
	got, ok := nextFire(trg, after)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 7, 31, 9, 0, 0, 0, time.UTC), got)

	// After January the 31st, February through March: February never has 31.
	got, ok = nextFire(trg, time.Date(2025, 1, 31, 9, 0, 0, 1, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC), got)
}

func TestNextFireYearlyLeapDay(t *testing.T) {
	trg := schedule.Trigger{Kind: schedule.KindYearly, Month: time.February, Day: 29, Hour: 9}

	got, ok := nextFire(trg, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(2028, 2, 29, 9, 0, 0, 0, time.UTC), got)
}

func TestNextFireYearly(t *testing.T) {
	trg := schedule.Trigger{Kind: schedule.KindYearly, Month: time.March, Day: 5, Hour: 7, Minute: 30}

	got, ok := nextFire(trg, after)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 3, 5, 7, 30, 0, 0, time.UTC), got)
}

func TestNextFireUnknownKind(t *testing.T) {
	_, ok := nextFire(schedule.Trigger{Kind: "hourly"}, after)
	assert.False(t, ok)
}
