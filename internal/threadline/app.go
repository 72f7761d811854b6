// Package threadline wires the discussion engine to its storage and source
// files. Commands and the review screen consume App instead of cherry-picking
// raw dependencies.
package threadline

import (
	"github.com/hay-kot/threadline/internal/core/config"
	"github.com/hay-kot/threadline/internal/data/db"
)

// App is the central entry point for all threadline operations.
type App struct {
	Discussions *DiscussionService

	Config *config.Config
	DB     *db.DB
}

// NewApp constructs an App from explicit dependencies.
func NewApp(discussions *DiscussionService, cfg *config.Config, database *db.DB) *App {
	return &App{
		Discussions: discussions,
		Config:      cfg,
		DB:          database,
	}
}
