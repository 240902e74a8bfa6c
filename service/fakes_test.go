package service

import (
	"context"
	"database/sql"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"video-edit-worker/constant"
	"video-edit-worker/dto"
	"video-edit-worker/entities"
	"video-edit-worker/media"
	"video-edit-worker/repository"
)

type fakeRepo struct {
	videos   map[uuid.UUID]*entities.Video
	jobs     map[uuid.UUID]*entities.Job
	specs    map[uuid.UUID]*entities.OverlaySpec
	variants map[string]*entities.QualityVariant

	createVideoErr  error
	completeErr     error
	failCalls       int
	createdVideos   []*entities.Video
	createdVariants []*entities.QualityVariant
	createdJobs     []*entities.Job
	createdSpecs    []*entities.OverlaySpec
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		videos:   map[uuid.UUID]*entities.Video{},
		jobs:     map[uuid.UUID]*entities.Job{},
		specs:    map[uuid.UUID]*entities.OverlaySpec{},
		variants: map[string]*entities.QualityVariant{},
	}
}

func variantKey(videoId uuid.UUID, preset string) string {
	return videoId.String() + "|" + preset
}

func (f *fakeRepo) Transaction(ctx context.Context, callback func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	return callback(ctx)
}

func (f *fakeRepo) GetDB() *gorm.DB {
	return nil
}

func (f *fakeRepo) FindVideoById(ctx context.Context, id uuid.UUID) (*entities.Video, error) {
	video, ok := f.videos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return video, nil
}

func (f *fakeRepo) CreateVideo(ctx context.Context, video *entities.Video) error {
	if f.createVideoErr != nil {
		return f.createVideoErr
	}
	f.videos[video.ID] = video
	f.createdVideos = append(f.createdVideos, video)
	return nil
}

func (f *fakeRepo) FindJobById(ctx context.Context, id uuid.UUID) (*entities.Job, error) {
	job, ok := f.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return job, nil
}

func (f *fakeRepo) CreateJob(ctx context.Context, job *entities.Job) error {
	f.jobs[job.ID] = job
	f.createdJobs = append(f.createdJobs, job)
	return nil
}

func (f *fakeRepo) ClaimJob(ctx context.Context, id uuid.UUID) (bool, error) {
	job, ok := f.jobs[id]
	if !ok || job.Status != constant.JobStatusPending {
		return false, nil
	}
	job.Status = constant.JobStatusProcessing
	return true, nil
}

func (f *fakeRepo) CompleteJob(ctx context.Context, id uuid.UUID, producedVideoId uuid.UUID, resultFilename string) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	job, ok := f.jobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	job.Status = constant.JobStatusCompleted
	job.ProducedVideoID = &producedVideoId
	job.ResultFilename = &resultFilename
	return nil
}

func (f *fakeRepo) FailJob(ctx context.Context, id uuid.UUID) error {
	f.failCalls++
	job, ok := f.jobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	job.Status = constant.JobStatusFailed
	job.ProducedVideoID = nil
	job.ResultFilename = nil
	return nil
}

func (f *fakeRepo) CreateOverlaySpec(ctx context.Context, spec *entities.OverlaySpec) error {
	f.specs[spec.JobID] = spec
	f.createdSpecs = append(f.createdSpecs, spec)
	return nil
}

func (f *fakeRepo) FindOverlaySpecByJobId(ctx context.Context, jobId uuid.UUID) (*entities.OverlaySpec, error) {
	spec, ok := f.specs[jobId]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return spec, nil
}

func (f *fakeRepo) CreateQualityVariant(ctx context.Context, variant *entities.QualityVariant) error {
	f.variants[variantKey(variant.VideoID, variant.Preset)] = variant
	f.createdVariants = append(f.createdVariants, variant)
	return nil
}

func (f *fakeRepo) FindQualityVariant(ctx context.Context, videoId uuid.UUID, preset string) (*entities.QualityVariant, error) {
	variant, ok := f.variants[variantKey(videoId, preset)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return variant, nil
}

func (f *fakeRepo) FindQualityVariantsByVideoId(ctx context.Context, videoId uuid.UUID) ([]*entities.QualityVariant, error) {
	var out []*entities.QualityVariant
	for _, v := range f.variants {
		if v.VideoID == videoId {
			out = append(out, v)
		}
	}
	return out, nil
}

// fakeEngine writes output (when configured) instead of running ffmpeg.
type fakeEngine struct {
	runCalls [][]string
	runErr   error
	output   string
	meta     *media.Metadata
	probeErr error
}

func (f *fakeEngine) Run(ctx context.Context, args []string) error {
	f.runCalls = append(f.runCalls, args)
	if f.runErr != nil {
		return f.runErr
	}
	if f.output != "" {
		return os.WriteFile(f.output, []byte("frames"), 0644)
	}
	return nil
}

func (f *fakeEngine) Probe(ctx context.Context, path string) (*media.Metadata, error) {
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return f.meta, nil
}

type fakePublisher struct {
	published []dto.TaskMessage
	err       error
}

func (f *fakePublisher) PublishTask(ctx context.Context, message dto.TaskMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, message)
	return nil
}
