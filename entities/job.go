package entities

import (
	"time"

	"github.com/google/uuid"

	"video-edit-worker/constant"
)

// Job tracks one requested edit operation. The ID is chosen at submission
// and reused verbatim as the queue correlation key.
type Job struct {
	ID              uuid.UUID              `json:"id" gorm:"type:uuid;primary_key"`
	Kind            constant.OperationKind `json:"kind" gorm:"type:varchar(30);not null"`
	Status          constant.JobStatus     `json:"status" gorm:"type:varchar(20);not null"`
	SourceVideoID   uuid.UUID              `json:"source_video_id" gorm:"type:uuid;not null;index:idx_jobs_source_video_id"`
	ProducedVideoID *uuid.UUID             `json:"produced_video_id" gorm:"type:uuid"`
	ResultFilename  *string                `json:"result_filename" gorm:"type:varchar(500)"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

func (Job) TableName() string {
	return "jobs"
}
