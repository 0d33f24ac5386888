package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2025, time.March, 3, 8, 30, 0, 0, time.UTC)

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

func started() Progress {
	start := day0
	return Progress{StartDate: &start, DayNotes: map[int]string{}}
}

func TestCurrentDay(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name  string
		start *time.Time
		now   time.Time
		want  int
	}{
		{"not started", nil, day0, 1},
		{"same instant", &day0, day0, 1},
		{"later same day", &day0, day0.Add(15 * time.Hour), 1},
		{"five days later", &day0, day0.Add(days(5)), 6},
		{"last day", &day0, day0.Add(days(29)), 30},
		{"capped", &day0, day0.Add(days(90)), 30},
		{"clock behind", &day0, day0.Add(-days(3)), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.CurrentDay(tt.start, tt.now))
		})
	}
}

func TestCurrentDayRollsOverAtMidnight(t *testing.T) {
	e := NewEngine(time.UTC)
	start := time.Date(2025, time.March, 3, 23, 50, 0, 0, time.UTC)

	assert.Equal(t, 1, e.CurrentDay(&start, time.Date(2025, time.March, 3, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, 2, e.CurrentDay(&start, time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC)))
}

func TestCurrentDayUsesEngineLocation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	e := NewEngine(paris)

	// 23:30 UTC on March 3 is already March 4 in Paris.
	start := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	now := time.Date(2025, time.March, 3, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 2, e.CurrentDay(&start, now))

	// Crossing the DST switch on March 30 still counts whole calendar days.
	now = time.Date(2025, time.April, 1, 10, 0, 0, 0, paris)
	assert.Equal(t, 30, e.CurrentDay(&start, now))
}

func TestCurrentDayIsMonotonic(t *testing.T) {
	e := NewEngine(nil)
	prev := 0
	for h := 0; h < 24*40; h += 7 {
		day := e.CurrentDay(&day0, day0.Add(time.Duration(h)*time.Hour))
		require.GreaterOrEqual(t, day, prev)
		require.GreaterOrEqual(t, day, 1)
		require.LessOrEqual(t, day, TotalDays)
		prev = day
	}
	assert.Equal(t, TotalDays, prev)
}

func TestClockBehind(t *testing.T) {
	e := NewEngine(nil)
	assert.False(t, e.ClockBehind(nil, day0))
	assert.False(t, e.ClockBehind(&day0, day0))
	assert.False(t, e.ClockBehind(&day0, day0.Add(days(2))))
	assert.True(t, e.ClockBehind(&day0, day0.Add(-days(1))))
}

func TestIsDayAccessible(t *testing.T) {
	e := NewEngine(nil)
	p := started()
	now := day0.Add(days(5))

	for id := 1; id <= 6; id++ {
		assert.True(t, e.IsDayAccessible(p, id, now), "day %d", id)
	}
	assert.False(t, e.IsDayAccessible(p, 7, now))
	assert.False(t, e.IsDayAccessible(p, 0, now))
	assert.False(t, e.IsDayAccessible(p, 31, now))
}

func TestNotStartedOnlyDayOneAccessible(t *testing.T) {
	e := NewEngine(nil)
	p := Progress{}

	assert.True(t, e.IsDayAccessible(p, 1, day0))
	assert.False(t, e.IsDayAccessible(p, 2, day0))
}

func TestCompletedDayStaysAccessible(t *testing.T) {
	e := NewEngine(nil)
	p := started()
	p.CompletedDays = []int{12}

	// Completion outlives the time ceiling, e.g. after a start date reset.
	assert.True(t, e.IsDayAccessible(p, 12, day0))
	assert.Equal(t, StatusCompleted, e.Status(p, 12, day0))
	assert.Equal(t, StatusLocked, e.Status(p, 13, day0))
}

func TestCompleteDayScenario(t *testing.T) {
	e := NewEngine(nil)
	p := started()
	now := day0.Add(days(5))
	require.Equal(t, 6, e.CurrentDay(p.StartDate, now))

	p, c, err := e.CompleteDay(p, 6, now)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, Celebration{DayID: 6, NextDay: 7}, *c)
	assert.Equal(t, []int{6}, p.CompletedDays)

	// Completing today early does not unlock tomorrow.
	assert.False(t, e.IsDayAccessible(p, 7, now))
	assert.Equal(t, 6, e.CurrentDay(p.StartDate, now))

	later := day0.Add(days(8))
	assert.Equal(t, 9, e.CurrentDay(p.StartDate, later))
	assert.True(t, e.IsDayAccessible(p, 9, later))
	assert.True(t, e.IsDayAccessible(p, 7, later))
	assert.Equal(t, StatusUnlocked, e.Status(p, 7, later))
}

func TestCompleteDayIsIdempotent(t *testing.T) {
	e := NewEngine(nil)
	now := day0.Add(days(10))

	once, c1, err := e.CompleteDay(started(), 4, now)
	require.NoError(t, err)
	require.NotNil(t, c1)

	twice, c2, err := e.CompleteDay(once, 4, now)
	require.NoError(t, err)
	assert.Nil(t, c2, "no second celebration")
	assert.Equal(t, once.CompletedDays, twice.CompletedDays)
}

func TestCompleteDayKeepsAscendingOrder(t *testing.T) {
	e := NewEngine(nil)
	now := day0.Add(days(20))
	p := started()

	var err error
	for _, id := range []int{9, 2, 15, 1, 9} {
		p, _, err = e.CompleteDay(p, id, now)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{1, 2, 9, 15}, p.CompletedDays)
}

func TestCompleteDayRejectsInvalidIDs(t *testing.T) {
	e := NewEngine(nil)
	p := started()
	p.CompletedDays = []int{1}
	now := day0.Add(days(2))

	for _, id := range []int{0, -1, 31} {
		got, c, err := e.CompleteDay(p, id, now)
		assert.ErrorIs(t, err, ErrInvalidDayID)
		assert.NotErrorIs(t, err, ErrDayLocked)
		assert.Nil(t, c)
		assert.Equal(t, p, got)
	}
}

func TestCompleteDayRejectsLockedDay(t *testing.T) {
	e := NewEngine(nil)
	p := started()
	now := day0.Add(days(2))

	got, c, err := e.CompleteDay(p, 4, now)
	assert.ErrorIs(t, err, ErrDayLocked)
	assert.ErrorIs(t, err, ErrInvalidDayID)
	assert.Nil(t, c)
	assert.Empty(t, got.CompletedDays)
}

func TestCompleteFinalDay(t *testing.T) {
	e := NewEngine(nil)
	now := day0.Add(days(29))

	_, c, err := e.CompleteDay(started(), TotalDays, now)
	require.NoError(t, err)
	assert.True(t, c.Final)
	assert.Zero(t, c.NextDay)

	_, c, err = e.CompleteDay(started(), 29, now)
	require.NoError(t, err)
	assert.False(t, c.Final)
}

func TestCompleteDayDoesNotAliasInput(t *testing.T) {
	e := NewEngine(nil)
	p := started()
	p.CompletedDays = make([]int, 1, 10)
	p.CompletedDays[0] = 3

	next, _, err := e.CompleteDay(p, 1, day0.Add(days(5)))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, next.CompletedDays)
	assert.Equal(t, []int{3}, p.CompletedDays)
}

func TestSetDayNote(t *testing.T) {
	p := started()

	p, err := SetDayNote(p, 3, "felt great")
	require.NoError(t, err)
	assert.Equal(t, "felt great", p.Note(3))

	p, err = SetDayNote(p, 3, "even better")
	require.NoError(t, err)
	assert.Equal(t, "even better", p.Note(3))

	p, err = SetDayNote(p, 3, "")
	require.NoError(t, err)
	assert.Equal(t, "", p.Note(3))
	assert.NotContains(t, p.DayNotes, 3)

	// Notes are not gated by accessibility.
	p, err = SetDayNote(p, 25, "plan ahead")
	require.NoError(t, err)
	assert.Equal(t, "plan ahead", p.Note(25))
}

func TestSetDayNoteRejectsOutOfRange(t *testing.T) {
	p := started()
	got, err := SetDayNote(p, 31, "nope")
	assert.ErrorIs(t, err, ErrInvalidDayID)
	assert.Empty(t, got.DayNotes)
}

func TestWriteNoteOnlyOnOpenDays(t *testing.T) {
	e := NewEngine(time.UTC)
	p := started()
	now := day0.AddDate(0, 0, 2)

	p, err := e.WriteNote(p, 3, "today", now)
	require.NoError(t, err)
	assert.Equal(t, "today", p.Note(3))

	got, err := e.WriteNote(p, 4, "tomorrow", now)
	assert.ErrorIs(t, err, ErrDayLocked)
	assert.ErrorIs(t, err, ErrInvalidDayID)
	assert.Empty(t, got.Note(4))

	_, err = e.WriteNote(p, 31, "nope", now)
	assert.ErrorIs(t, err, ErrInvalidDayID)
	assert.NotErrorIs(t, err, ErrDayLocked)

	// a completed day stays writable
	_, err = e.WriteNote(Progress{CompletedDays: []int{5}}, 5, "done early", now)
	require.NoError(t, err)
}

func TestSetDayNoteOnNilMap(t *testing.T) {
	p, err := SetDayNote(Progress{}, 2, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Note(2))
}

func TestCompletionPercentage(t *testing.T) {
	seq := func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i + 1
		}
		return out
	}

	assert.Equal(t, 0, CompletionPercentage(nil))
	assert.Equal(t, 3, CompletionPercentage(seq(1)))
	assert.Equal(t, 50, CompletionPercentage(seq(15)))
	assert.Equal(t, 97, CompletionPercentage(seq(29)))
	assert.Equal(t, 100, CompletionPercentage(seq(30)))
}

func TestNormalize(t *testing.T) {
	p := Progress{
		CompletedDays: []int{5, 31, 2, 5, 0},
		DayNotes:      map[int]string{1: "a", 2: "", 40: "x"},
	}

	got, rejected := Normalize(p)
	assert.Equal(t, []int{2, 5}, got.CompletedDays)
	assert.Equal(t, map[int]string{1: "a"}, got.DayNotes)
	assert.Equal(t, []int{0, 31, 40}, rejected)
}
