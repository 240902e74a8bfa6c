package entities

import (
	"time"

	"github.com/google/uuid"
)

// Video is a stored media file, either an original upload (ParentID nil)
// or an artifact derived from another video. Rows are never updated.
type Video struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	Filename  string     `json:"filename" gorm:"type:varchar(500);not null"`
	ParentID  *uuid.UUID `json:"parent_id" gorm:"type:uuid;index:idx_videos_parent_id"`
	Duration  float64    `json:"duration"`
	Size      int64      `json:"size" gorm:"type:bigint"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Video) TableName() string {
	return "videos"
}
