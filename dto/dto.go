package dto

import (
	"github.com/google/uuid"

	"video-edit-worker/constant"
)

// TaskMessage is one dispatch message per job. Paths are resolved to
// absolute files at submission; overlay parameters travel in the
// overlay_specs row, not in the message.
type TaskMessage struct {
	JobId        uuid.UUID              `json:"jobId"`
	Kind         constant.OperationKind `json:"kind"`
	InputPath    string                 `json:"inputPath"`
	AuxPath      string                 `json:"auxPath,omitempty"`
	OutputPath   string                 `json:"outputPath"`
	TrimStart    float64                `json:"trimStart,omitempty"`
	TrimDuration float64                `json:"trimDuration,omitempty"`
	Preset       string                 `json:"preset,omitempty"`
}

type TrimRequest struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type OverlayRequest struct {
	Kind      constant.OverlayKind `json:"kind"`
	Content   string               `json:"content"`
	X         int                  `json:"x"`
	Y         int                  `json:"y"`
	StartTime float64              `json:"start_time"`
	EndTime   float64              `json:"end_time"`
	Opacity   float64              `json:"opacity"`
	Width     int                  `json:"width"`
	Height    int                  `json:"height"`
	FontSize  int                  `json:"font_size"`
	FontColor string               `json:"font_color"`
}

type QualityRequest struct {
	Preset string `json:"preset"`
}

type SubmitResponse struct {
	JobId uuid.UUID `json:"job_id"`
}

// QualityResponse carries either the new job id or, for an already stored
// (video, preset) pair, the existing variant with no job created.
type QualityResponse struct {
	JobId    *uuid.UUID `json:"job_id,omitempty"`
	Existing bool       `json:"existing"`
	Filename string     `json:"filename,omitempty"`
}

type VariantResponse struct {
	Preset   string `json:"preset"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Bitrate  string `json:"bitrate"`
}

type VideoResponse struct {
	Id       uuid.UUID         `json:"id"`
	Filename string            `json:"filename"`
	ParentId *uuid.UUID        `json:"parent_id,omitempty"`
	Duration float64           `json:"duration"`
	Size     int64             `json:"size"`
	Variants []VariantResponse `json:"variants"`
}

type JobStatusResponse struct {
	JobId           uuid.UUID              `json:"job_id"`
	Kind            constant.OperationKind `json:"kind"`
	Status          constant.JobStatus     `json:"status"`
	SourceVideoId   uuid.UUID              `json:"source_video_id"`
	ProducedVideoId *uuid.UUID             `json:"produced_video_id,omitempty"`
	ResultFilename  *string                `json:"result_filename,omitempty"`
}
