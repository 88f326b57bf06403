package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentDraft     TournamentStatus = "draft"
	TournamentStarted   TournamentStatus = "started"
	TournamentCompleted TournamentStatus = "completed"
)

type Tournament struct {
	ID     uuid.UUID        `db:"id" json:"id"`
	Slug   string           `db:"slug" json:"slug"`
	Name   string           `db:"name" json:"name"`
	Status TournamentStatus `db:"status" json:"status"`

	// Prefs and Plan are persisted as JSON columns by the store.
	Prefs SchedulePrefs    `db:"-" json:"prefs"`
	Plan  []RoundPlanEntry `db:"-" json:"plan"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
