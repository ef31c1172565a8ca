package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseTimeOfDay(t *testing.T) {
	at, err := ParseTimeOfDay("09:05")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 5}, at)
	assert.Equal(t, "09:05", at.String())

	for _, bad := range []string{"9am", "25:00", "12:60", "12", ":", "aa:bb"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestTimeOfDayMinusWrapsMidnight(t *testing.T) {
	assert.Equal(t, TimeOfDay{Hour: 8, Minute: 45}, TimeOfDay{Hour: 9, Minute: 0}.Minus(15))
	assert.Equal(t, TimeOfDay{Hour: 23, Minute: 55}, TimeOfDay{Hour: 0, Minute: 10}.Minus(15))
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 0}, TimeOfDay{Hour: 9, Minute: 0}.Minus(0))
}

func TestTimeOfDayOn(t *testing.T) {
	at := TimeOfDay{Hour: 8, Minute: 45}.On(date(2024, 6, 5))
	assert.Equal(t, time.Date(2024, 6, 5, 8, 45, 0, 0, time.UTC), at)
}

func TestTimeOfDayJSON(t *testing.T) {
	raw, err := json.Marshal(TimeOfDay{Hour: 8, Minute: 45})
	require.NoError(t, err)
	assert.Equal(t, `"08:45"`, string(raw))

	var at TimeOfDay
	require.NoError(t, json.Unmarshal([]byte(`"18:30"`), &at))
	assert.Equal(t, TimeOfDay{Hour: 18, Minute: 30}, at)

	assert.Error(t, json.Unmarshal([]byte(`"half past nine"`), &at))
}

func TestFromMinutes(t *testing.T) {
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 0}, FromMinutes(540))
	assert.Equal(t, TimeOfDay{Hour: 0, Minute: 0}, FromMinutes(0))
	assert.Equal(t, TimeOfDay{Hour: 23, Minute: 59}, FromMinutes(-1))
	assert.Equal(t, 540, FromMinutes(540).Minutes())
}

func TestStarted(t *testing.T) {
	start := date(2024, 6, 10)
	tk := Task{StartDate: &start}

	assert.False(t, tk.Started(date(2024, 6, 9)))
	assert.True(t, tk.Started(date(2024, 6, 10)))
	// Time of day is irrelevant at day granularity.
	assert.True(t, tk.Started(time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)))

	assert.True(t, (&Task{}).Started(date(1970, 1, 1)))
}
