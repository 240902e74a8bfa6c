package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"video-edit-worker/constant"
	"video-edit-worker/entities"
)

// ErrNotFound reports an absent row. Fatal for the executor: a missing job
// leaves nothing to update.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error
	GetDB() *gorm.DB

	FindVideoById(ctx context.Context, id uuid.UUID) (*entities.Video, error)
	CreateVideo(ctx context.Context, video *entities.Video) error

	FindJobById(ctx context.Context, id uuid.UUID) (*entities.Job, error)
	CreateJob(ctx context.Context, job *entities.Job) error
	// ClaimJob moves a job from PENDING to PROCESSING with a guarded
	// update. It reports false when the row was not pending anymore, so a
	// duplicate delivery never re-runs an advanced job.
	ClaimJob(ctx context.Context, id uuid.UUID) (bool, error)
	CompleteJob(ctx context.Context, id uuid.UUID, producedVideoId uuid.UUID, resultFilename string) error
	// FailJob marks the job FAILED and clears the result filename and
	// produced reference.
	FailJob(ctx context.Context, id uuid.UUID) error

	CreateOverlaySpec(ctx context.Context, spec *entities.OverlaySpec) error
	FindOverlaySpecByJobId(ctx context.Context, jobId uuid.UUID) (*entities.OverlaySpec, error)

	CreateQualityVariant(ctx context.Context, variant *entities.QualityVariant) error
	FindQualityVariant(ctx context.Context, videoId uuid.UUID, preset string) (*entities.QualityVariant, error)
	FindQualityVariantsByVideoId(ctx context.Context, videoId uuid.UUID) ([]*entities.QualityVariant, error)
}

type repo struct {
	db *gorm.DB
}

func NewRepo(db *sql.DB) Repository {
	gormDB, _ := gorm.Open(postgres.New(postgres.Config{
		Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		},
	)
	return &repo{
		db: gormDB,
	}
}

func (r *repo) GetDB() *gorm.DB {
	return r.db
}

func (r *repo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return r.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return callback(ctx)
	}, opts...)
}

func (r *repo) FindVideoById(ctx context.Context, id uuid.UUID) (*entities.Video, error) {
	video := &entities.Video{}
	err := r.GetDB().WithContext(ctx).First(video, "id = ?", id).Error
	if err != nil {
		return nil, mapNotFound(err)
	}

	return video, nil
}

func (r *repo) CreateVideo(ctx context.Context, video *entities.Video) error {
	return r.GetDB().WithContext(ctx).Create(video).Error
}

func (r *repo) FindJobById(ctx context.Context, id uuid.UUID) (*entities.Job, error) {
	job := &entities.Job{}
	err := r.GetDB().WithContext(ctx).First(job, "id = ?", id).Error
	if err != nil {
		return nil, mapNotFound(err)
	}

	return job, nil
}

func (r *repo) CreateJob(ctx context.Context, job *entities.Job) error {
	return r.GetDB().WithContext(ctx).Create(job).Error
}

func (r *repo) ClaimJob(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.GetDB().WithContext(ctx).Model(&entities.Job{}).
		Where("id = ? AND status = ?", id, constant.JobStatusPending).
		Updates(map[string]interface{}{
			"status":     constant.JobStatusProcessing,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *repo) CompleteJob(ctx context.Context, id uuid.UUID, producedVideoId uuid.UUID, resultFilename string) error {
	job := &entities.Job{}
	err := r.GetDB().WithContext(ctx).First(job, "id = ?", id).Error
	if err != nil {
		return mapNotFound(err)
	}

	job.Status = constant.JobStatusCompleted
	job.ProducedVideoID = &producedVideoId
	job.ResultFilename = &resultFilename
	return r.GetDB().WithContext(ctx).Save(job).Error
}

func (r *repo) FailJob(ctx context.Context, id uuid.UUID) error {
	job := &entities.Job{}
	err := r.GetDB().WithContext(ctx).First(job, "id = ?", id).Error
	if err != nil {
		return mapNotFound(err)
	}

	job.Status = constant.JobStatusFailed
	job.ProducedVideoID = nil
	job.ResultFilename = nil
	return r.GetDB().WithContext(ctx).Save(job).Error
}

func (r *repo) CreateOverlaySpec(ctx context.Context, spec *entities.OverlaySpec) error {
	return r.GetDB().WithContext(ctx).Create(spec).Error
}

func (r *repo) FindOverlaySpecByJobId(ctx context.Context, jobId uuid.UUID) (*entities.OverlaySpec, error) {
	spec := &entities.OverlaySpec{}
	err := r.GetDB().WithContext(ctx).First(spec, "job_id = ?", jobId).Error
	if err != nil {
		return nil, mapNotFound(err)
	}

	return spec, nil
}

func (r *repo) CreateQualityVariant(ctx context.Context, variant *entities.QualityVariant) error {
	return r.GetDB().WithContext(ctx).Create(variant).Error
}

func (r *repo) FindQualityVariant(ctx context.Context, videoId uuid.UUID, preset string) (*entities.QualityVariant, error) {
	variant := &entities.QualityVariant{}
	err := r.GetDB().WithContext(ctx).First(variant, "video_id = ? AND preset = ?", videoId, preset).Error
	if err != nil {
		return nil, mapNotFound(err)
	}

	return variant, nil
}

func (r *repo) FindQualityVariantsByVideoId(ctx context.Context, videoId uuid.UUID) ([]*entities.QualityVariant, error) {
	var variants []*entities.QualityVariant
	err := r.GetDB().WithContext(ctx).Where("video_id = ?", videoId).Order("preset ASC").Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
