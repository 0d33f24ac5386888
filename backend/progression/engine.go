// Package progression decides which challenge day a user is on, which days are
// unlocked, and how completion and per-day notes change.
//
// Every function here is pure: time is always passed in, never read from the clock.
package progression

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// TotalDays is the length of the challenge.
const TotalDays = 30

var (
	// ErrInvalidDayID is returned for a mutation on a day outside [1, TotalDays]
	// or on a day that is not accessible yet.
	ErrInvalidDayID = errors.New("invalid day id")
	// ErrDayLocked narrows ErrInvalidDayID to the "not unlocked yet" case.
	ErrDayLocked = fmt.Errorf("%w: day is locked", ErrInvalidDayID)
)

// Status is the derived state of a single day.
type Status string

const (
	StatusLocked    Status = "locked"
	StatusUnlocked  Status = "unlocked"
	StatusCompleted Status = "completed"
)

// Progress is the in-memory progression state of one user.
// CompletedDays is kept in ascending order without duplicates.
type Progress struct {
	StartDate     *time.Time
	CompletedDays []int
	DayNotes      map[int]string
}

// Celebration is emitted once per newly completed day.
type Celebration struct {
	DayID   int  `json:"dayId"`
	Final   bool `json:"final"`
	NextDay int  `json:"nextDay,omitempty"`
}

// Engine computes day boundaries in a fixed location so that the current day
// never moves backward when the host time zone changes.
type Engine struct {
	loc *time.Location
}

// NewEngine returns an engine whose days roll over at midnight in loc.
// A nil location means UTC.
func NewEngine(loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{loc: loc}
}

// Location returns the location day boundaries are computed in.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// ValidDay reports whether id names one of the challenge days.
func ValidDay(id int) bool {
	return id >= 1 && id <= TotalDays
}

// calendarDay maps t onto midnight UTC of its calendar date in e.loc, so that
// differences are whole days even across DST changes.
func (e *Engine) calendarDay(t time.Time) time.Time {
	y, m, d := t.In(e.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysElapsed returns the number of calendar days between start and now.
// The result is negative when now is before start.
func (e *Engine) DaysElapsed(start, now time.Time) int {
	return int(e.calendarDay(now).Sub(e.calendarDay(start)).Hours() / 24)
}

// CurrentDay returns the challenge day for now. A nil start means the challenge
// has not started and day 1 is previewable. The result is clamped to
// [1, TotalDays]; a now before start yields 1 (see ClockBehind).
func (e *Engine) CurrentDay(start *time.Time, now time.Time) int {
	if start == nil {
		return 1
	}
	day := e.DaysElapsed(*start, now) + 1
	if day < 1 {
		return 1
	}
	if day > TotalDays {
		return TotalDays
	}
	return day
}

// ClockBehind reports a now that falls on a calendar day before the start date,
// which points at a misconfigured clock or a bad start date.
func (e *Engine) ClockBehind(start *time.Time, now time.Time) bool {
	return start != nil && e.DaysElapsed(*start, now) < 0
}

// IsDayAccessible reports whether dayID may be viewed: it is unlocked by time
// or it has been completed.
func (e *Engine) IsDayAccessible(p Progress, dayID int, now time.Time) bool {
	if !ValidDay(dayID) {
		return false
	}
	return dayID <= e.CurrentDay(p.StartDate, now) || p.IsCompleted(dayID)
}

// Status returns the derived state of dayID.
func (e *Engine) Status(p Progress, dayID int, now time.Time) Status {
	switch {
	case p.IsCompleted(dayID):
		return StatusCompleted
	case e.IsDayAccessible(p, dayID, now):
		return StatusUnlocked
	default:
		return StatusLocked
	}
}

// CompleteDay marks dayID as completed. Completing an already completed day
// returns the state unchanged and a nil celebration. The current day is not
// advanced; that only happens as time passes.
func (e *Engine) CompleteDay(p Progress, dayID int, now time.Time) (Progress, *Celebration, error) {
	if !ValidDay(dayID) {
		return p, nil, fmt.Errorf("%w: %d", ErrInvalidDayID, dayID)
	}
	if p.IsCompleted(dayID) {
		return p, nil, nil
	}
	if !e.IsDayAccessible(p, dayID, now) {
		return p, nil, fmt.Errorf("%w: %d", ErrDayLocked, dayID)
	}

	next := p.Clone()
	next.CompletedDays = insertSorted(next.CompletedDays, dayID)

	c := &Celebration{DayID: dayID, Final: dayID == TotalDays}
	if !c.Final {
		c.NextDay = dayID + 1
	}
	return next, c, nil
}

// SetDayNote stores text as the note for dayID. Empty text removes the note.
func SetDayNote(p Progress, dayID int, text string) (Progress, error) {
	if !ValidDay(dayID) {
		return p, fmt.Errorf("%w: %d", ErrInvalidDayID, dayID)
	}
	next := p.Clone()
	if text == "" {
		delete(next.DayNotes, dayID)
		return next, nil
	}
	next.DayNotes[dayID] = text
	return next, nil
}

// WriteNote is SetDayNote limited to the days the user can open, so a note is
// never written where it cannot be read back.
func (e *Engine) WriteNote(p Progress, dayID int, text string, now time.Time) (Progress, error) {
	if ValidDay(dayID) && !e.IsDayAccessible(p, dayID, now) {
		return p, fmt.Errorf("%w: %d", ErrDayLocked, dayID)
	}
	return SetDayNote(p, dayID, text)
}

// CompletionPercentage returns round(100 * len(completed) / TotalDays).
func CompletionPercentage(completed []int) int {
	return int(math.Round(float64(len(completed)) * 100 / TotalDays))
}

// Normalize drops out-of-range ids, duplicates and empty notes from loosely
// decoded state, returning the ids that were dropped.
func Normalize(p Progress) (Progress, []int) {
	var rejected []int
	next := Progress{StartDate: p.StartDate, DayNotes: map[int]string{}}
	for _, id := range p.CompletedDays {
		if !ValidDay(id) {
			rejected = append(rejected, id)
			continue
		}
		next.CompletedDays = insertSorted(next.CompletedDays, id)
	}
	for id, text := range p.DayNotes {
		if !ValidDay(id) {
			rejected = append(rejected, id)
			continue
		}
		if text != "" {
			next.DayNotes[id] = text
		}
	}
	sort.Ints(rejected)
	return next, rejected
}

// IsCompleted reports whether dayID has been completed.
func (p Progress) IsCompleted(dayID int) bool {
	i := sort.SearchInts(p.CompletedDays, dayID)
	return i < len(p.CompletedDays) && p.CompletedDays[i] == dayID
}

// Note returns the note for dayID, or "" when there is none.
func (p Progress) Note(dayID int) string {
	return p.DayNotes[dayID]
}

// Clone returns a deep copy of p.
func (p Progress) Clone() Progress {
	next := Progress{
		CompletedDays: append([]int(nil), p.CompletedDays...),
		DayNotes:      make(map[int]string, len(p.DayNotes)),
	}
	if p.StartDate != nil {
		start := *p.StartDate
		next.StartDate = &start
	}
	for k, v := range p.DayNotes {
		next.DayNotes[k] = v
	}
	return next
}

func insertSorted(days []int, id int) []int {
	i := sort.SearchInts(days, id)
	if i < len(days) && days[i] == id {
		return days
	}
	days = append(days, 0)
	copy(days[i+1:], days[i:])
	days[i] = id
	return days
}
