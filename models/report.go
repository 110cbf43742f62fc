package models

import (
	"time"
)

// Report is one batch evaluation run over a full guild roster.
//
// Data stays NULL until the run finishes; Progress holds the frozen
// roster captured at creation time plus the results accumulated so
// far, so a process restart resumes exactly where the run stopped
// regardless of roster drift since.
type Report struct {
	ID         string     `json:"id" gorm:"primaryKey;type:uuid"`
	DiscordID  int64      `json:"discord_id" gorm:"index;not null"`
	Progress   string     `json:"-" gorm:"type:text"`
	Data       *string    `json:"data,omitempty" gorm:"type:text"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Finished reports carry both the payload and the completion timestamp;
// either one alone means the terminal write did not complete.
func (r *Report) Finished() bool {
	return r.FinishedAt != nil && r.Data != nil
}
