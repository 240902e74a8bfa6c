package entities

import (
	"time"

	"github.com/google/uuid"
)

// QualityVariant is a named rendition of an existing video. It annotates
// the source row rather than creating a new lineage entry, so a video has
// at most one variant per preset name.
type QualityVariant struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	VideoID   uuid.UUID `json:"video_id" gorm:"type:uuid;not null;uniqueIndex:idx_quality_variants_video_preset"`
	Preset    string    `json:"preset" gorm:"type:varchar(20);not null;uniqueIndex:idx_quality_variants_video_preset"`
	Filename  string    `json:"filename" gorm:"type:varchar(500);not null"`
	Size      int64     `json:"size" gorm:"type:bigint"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Bitrate   string    `json:"bitrate" gorm:"type:varchar(20)"`
	CreatedAt time.Time `json:"created_at"`
}

func (QualityVariant) TableName() string {
	return "quality_variants"
}
