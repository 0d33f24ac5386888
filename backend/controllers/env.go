package controllers

import (
	"time"

	"glowup/backend/config"
	"glowup/backend/progression"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Env carries the collaborators shared by every controller.
type Env struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Engine *progression.Engine
	Clock  func() time.Time
	Logger *log.Logger
}

// NewEnv fills in a UTC engine, the wall clock and a default logger where
// they are missing.
func NewEnv(db *gorm.DB, cfg *config.Config, engine *progression.Engine, clock func() time.Time, logger *log.Logger) *Env {
	if engine == nil {
		engine = progression.NewEngine(time.UTC)
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Env{DB: db, Cfg: cfg, Engine: engine, Clock: clock, Logger: logger}
}

func (e *Env) now() time.Time {
	return e.Clock().UTC()
}

// today is the current calendar date in the challenge location.
func (e *Env) today() string {
	return e.now().In(e.Engine.Location()).Format(dateLayout)
}

const dateLayout = "2006-01-02"
