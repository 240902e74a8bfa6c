package entities

import (
	"time"

	"github.com/google/uuid"

	"video-edit-worker/constant"
)

// OverlaySpec holds the parameters of a text/image/video overlay job.
// Written once at submission, read-only while the job executes.
//
// Content is the burned-in text for text overlays and the auxiliary file
// path for image/video overlays. EndTime <= 0 means the overlay spans the
// whole output. Opacity is stored but not applied to the filter graph.
type OverlaySpec struct {
	ID        uuid.UUID            `json:"id" gorm:"type:uuid;primary_key"`
	JobID     uuid.UUID            `json:"job_id" gorm:"type:uuid;not null;uniqueIndex:idx_overlay_specs_job_id"`
	Kind      constant.OverlayKind `json:"kind" gorm:"type:varchar(10);not null"`
	Content   string               `json:"content" gorm:"type:text;not null"`
	X         int                  `json:"x"`
	Y         int                  `json:"y"`
	StartTime float64              `json:"start_time"`
	EndTime   float64              `json:"end_time"`
	Opacity   float64              `json:"opacity"`
	Width     int                  `json:"width"`
	Height    int                  `json:"height"`
	FontSize  int                  `json:"font_size"`
	FontColor string               `json:"font_color" gorm:"type:varchar(30)"`
	CreatedAt time.Time            `json:"created_at"`
}

func (OverlaySpec) TableName() string {
	return "overlay_specs"
}
