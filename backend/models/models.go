package models

// All lists every model for AutoMigrate and test teardown.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserProfile{},
		&ChallengeProgress{},
		&JournalEntry{},
		&DailyTracker{},
		&RoutineItem{},
		&VisionBoardImage{},
	}
}
