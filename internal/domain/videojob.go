package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle stage of a video frame-extraction job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further transition can occur.
// A terminal job is never re-processed.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Valid reports whether s names a known lifecycle stage.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusQueued, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// VideoJob tracks one frame-extraction run over a lesson's uploaded video.
// TotalFrames is the count of timestamped sentences at creation time;
// ProcessedFrames counts successful captures only and never decreases.
type VideoJob struct {
	ID              uuid.UUID
	LessonID        uuid.UUID
	VideoPath       string
	Status          JobStatus
	TotalFrames     int
	ProcessedFrames int
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
}

// IsTerminal reports whether the job reached a terminal state.
func (j *VideoJob) IsTerminal() bool {
	return j.Status.IsTerminal()
}
