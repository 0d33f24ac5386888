// Package content holds the static reference data of the challenge: the 30
// challenge days and the bonus affirmations. It is loaded once and never
// mutated.
package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"glowup/backend/progression"
)

// ChallengeDay is one fixed unit of challenge content.
type ChallengeDay struct {
	ID              int      `json:"id"`
	Week            int      `json:"week"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	FullText        string   `json:"full_text"`
	Affirmation     string   `json:"affirmation"`
	Beauty          string   `json:"beauty"`
	Mental          string   `json:"mental"`
	Lifestyle       string   `json:"lifestyle"`
	IsReviewDay     bool     `json:"is_review_day"`
	ReviewQuestions []string `json:"review_questions,omitempty"`
}

// Weeks is the number of thematic weeks.
const Weeks = 4

// WeekSizes is the number of days in each week, in order.
var WeekSizes = [Weeks]int{7, 7, 7, 9}

// Quote is shown on the onboarding screen.
const Quote = "Le glow commence par l'intérieur. Rayonne de qui tu es vraiment."

var (
	//go:embed days.json
	daysJSON []byte
	//go:embed affirmations.json
	affirmationsJSON []byte

	days         []ChallengeDay
	affirmations []string
)

func init() {
	var err error
	if days, err = parseDays(daysJSON); err != nil {
		panic(err)
	}
	if err = json.Unmarshal(affirmationsJSON, &affirmations); err != nil {
		panic(fmt.Errorf("content: decode affirmations: %w", err))
	}
	if len(affirmations) == 0 {
		panic("content: no affirmations")
	}
}

func parseDays(raw []byte) ([]ChallengeDay, error) {
	var out []ChallengeDay
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("content: decode days: %w", err)
	}
	if err := validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// validate checks that the table is total: ids 1..30 in order, weeks sized
// per WeekSizes, and review days carrying questions.
func validate(list []ChallengeDay) error {
	if len(list) != progression.TotalDays {
		return fmt.Errorf("content: expected %d days, got %d", progression.TotalDays, len(list))
	}
	var perWeek [Weeks]int
	for i, d := range list {
		if d.ID != i+1 {
			return fmt.Errorf("content: day at index %d has id %d", i, d.ID)
		}
		if d.Week < 1 || d.Week > Weeks {
			return fmt.Errorf("content: day %d has week %d", d.ID, d.Week)
		}
		if d.IsReviewDay && len(d.ReviewQuestions) == 0 {
			return fmt.Errorf("content: review day %d has no questions", d.ID)
		}
		perWeek[d.Week-1]++
	}
	if perWeek != WeekSizes {
		return fmt.Errorf("content: week sizes %v, want %v", perWeek, WeekSizes)
	}
	return nil
}

// Days returns all challenge days ordered by id.
func Days() []ChallengeDay {
	return append([]ChallengeDay(nil), days...)
}

// Day returns the day with the given id.
func Day(id int) (ChallengeDay, bool) {
	if !progression.ValidDay(id) {
		return ChallengeDay{}, false
	}
	return days[id-1], true
}

// Week returns the days of week n (1-based).
func Week(n int) []ChallengeDay {
	var out []ChallengeDay
	for _, d := range days {
		if d.Week == n {
			out = append(out, d)
		}
	}
	return out
}

// Affirmations returns the bonus affirmations.
func Affirmations() []string {
	return append([]string(nil), affirmations...)
}

// AffirmationFor picks the affirmation of the day for date. The pick only
// depends on the calendar date, so every request on that day sees the same one.
func AffirmationFor(date time.Time) string {
	y, m, d := date.Date()
	n := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	l := int64(len(affirmations))
	// dates before 1970 give a negative n
	return affirmations[int((n%l+l)%l)]
}
