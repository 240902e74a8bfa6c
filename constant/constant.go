package constant

type JobStatus string

const (
	JobStatusPending    JobStatus = "PENDING"
	JobStatusProcessing JobStatus = "PROCESSING"
	JobStatusFailed     JobStatus = "FAILED"
	JobStatusCompleted  JobStatus = "COMPLETED"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// OperationKind is the closed set of edit operations a job can request.
type OperationKind string

const (
	OperationTrim         OperationKind = "trim"
	OperationTextOverlay  OperationKind = "text_overlay"
	OperationImageOverlay OperationKind = "image_overlay"
	OperationVideoOverlay OperationKind = "video_overlay"
	OperationQuality      OperationKind = "quality"
)

func (k OperationKind) Valid() bool {
	switch k {
	case OperationTrim, OperationTextOverlay, OperationImageOverlay, OperationVideoOverlay, OperationQuality:
		return true
	}
	return false
}

func (k OperationKind) String() string {
	return string(k)
}

type OverlayKind string

const (
	OverlayText  OverlayKind = "text"
	OverlayImage OverlayKind = "image"
	OverlayVideo OverlayKind = "video"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentStaging    Environment = "staging"
	EnvironmentDevelop    Environment = "develop"
)

func (e Environment) String() string {
	return string(e)
}
