package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"video-edit-worker/config"
	"video-edit-worker/constant"
	"video-edit-worker/dto"
	"video-edit-worker/entities"
	"video-edit-worker/media"
	"video-edit-worker/repository"
)

// TaskPublisher dispatches one message per job, keyed by the job id.
type TaskPublisher interface {
	PublishTask(ctx context.Context, message dto.TaskMessage) error
}

// Submitter is the submission boundary: it validates the request, persists
// the overlay spec and the pending job, and enqueues the dispatch message.
type Submitter interface {
	SubmitTrim(ctx context.Context, videoId uuid.UUID, req dto.TrimRequest) (uuid.UUID, error)
	SubmitOverlay(ctx context.Context, videoId uuid.UUID, req dto.OverlayRequest) (uuid.UUID, error)
	SubmitQuality(ctx context.Context, videoId uuid.UUID, req dto.QualityRequest) (*dto.QualityResponse, error)
}

type submitter struct {
	repo      repository.Repository
	publisher TaskPublisher
	media     config.Media
}

func NewSubmitter(repo repository.Repository, publisher TaskPublisher, mediaCfg config.Media) Submitter {
	return &submitter{
		repo:      repo,
		publisher: publisher,
		media:     mediaCfg,
	}
}

func (s *submitter) SubmitTrim(ctx context.Context, videoId uuid.UUID, req dto.TrimRequest) (uuid.UUID, error) {
	if req.Start < 0 || req.End <= req.Start {
		return uuid.Nil, fmt.Errorf("%w: trim window [%v, %v)", ErrInvalidRequest, req.Start, req.End)
	}

	inputPath, err := s.resolveSource(ctx, videoId)
	if err != nil {
		return uuid.Nil, err
	}

	jobId := uuid.New()
	outputPath := filepath.Join(s.media.OutputDir, fmt.Sprintf("%s_trimmed.mp4", jobId))

	if err := s.createJob(ctx, jobId, constant.OperationTrim, videoId); err != nil {
		return uuid.Nil, err
	}

	message := dto.TaskMessage{
		JobId:        jobId,
		Kind:         constant.OperationTrim,
		InputPath:    inputPath,
		OutputPath:   outputPath,
		TrimStart:    req.Start,
		TrimDuration: req.End - req.Start,
	}
	if err := s.publish(ctx, message); err != nil {
		return uuid.Nil, err
	}

	return jobId, nil
}

func (s *submitter) SubmitOverlay(ctx context.Context, videoId uuid.UUID, req dto.OverlayRequest) (uuid.UUID, error) {
	kind, auxPath, err := s.validateOverlay(req)
	if err != nil {
		return uuid.Nil, err
	}

	inputPath, err := s.resolveSource(ctx, videoId)
	if err != nil {
		return uuid.Nil, err
	}

	jobId := uuid.New()
	outputPath := filepath.Join(s.media.OutputDir, fmt.Sprintf("%s_%s.mp4", jobId, req.Kind))

	spec := &entities.OverlaySpec{
		ID:        uuid.New(),
		JobID:     jobId,
		Kind:      req.Kind,
		Content:   req.Content,
		X:         req.X,
		Y:         req.Y,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Opacity:   req.Opacity,
		Width:     req.Width,
		Height:    req.Height,
		FontSize:  req.FontSize,
		FontColor: req.FontColor,
		CreatedAt: time.Now().UTC(),
	}
	if spec.Kind == constant.OverlayText {
		if spec.FontSize <= 0 {
			spec.FontSize = 24
		}
		if spec.FontColor == "" {
			spec.FontColor = "white"
		}
	}
	if err := s.repo.CreateOverlaySpec(ctx, spec); err != nil {
		return uuid.Nil, err
	}

	if err := s.createJob(ctx, jobId, kind, videoId); err != nil {
		return uuid.Nil, err
	}

	message := dto.TaskMessage{
		JobId:      jobId,
		Kind:       kind,
		InputPath:  inputPath,
		AuxPath:    auxPath,
		OutputPath: outputPath,
	}
	if err := s.publish(ctx, message); err != nil {
		return uuid.Nil, err
	}

	return jobId, nil
}

func (s *submitter) SubmitQuality(ctx context.Context, videoId uuid.UUID, req dto.QualityRequest) (*dto.QualityResponse, error) {
	preset, ok := media.LookupPreset(req.Preset)
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidRequest, req.Preset)
	}

	inputPath, err := s.resolveSource(ctx, videoId)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindQualityVariant(ctx, videoId, preset.Name)
	if err == nil {
		// Already converted: no new job, no dispatch.
		zerolog.Ctx(ctx).Info().
			Str("video_id", videoId.String()).
			Str("preset", preset.Name).
			Msg("quality variant already exists")
		return &dto.QualityResponse{Existing: true, Filename: existing.Filename}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	jobId := uuid.New()
	outputPath := filepath.Join(s.media.OutputDir, fmt.Sprintf("%s_%s.mp4", jobId, preset.Name))

	if err := s.createJob(ctx, jobId, constant.OperationQuality, videoId); err != nil {
		return nil, err
	}

	message := dto.TaskMessage{
		JobId:      jobId,
		Kind:       constant.OperationQuality,
		InputPath:  inputPath,
		OutputPath: outputPath,
		Preset:     preset.Name,
	}
	if err := s.publish(ctx, message); err != nil {
		return nil, err
	}

	return &dto.QualityResponse{JobId: &jobId}, nil
}

// resolveSource checks the referenced video row exists and its file is
// present on disk, returning the absolute input path.
func (s *submitter) resolveSource(ctx context.Context, videoId uuid.UUID) (string, error) {
	video, err := s.repo.FindVideoById(ctx, videoId)
	if err != nil {
		return "", fmt.Errorf("video %s: %w", videoId, err)
	}

	inputPath := filepath.Join(s.media.UploadDir, video.Filename)
	if _, err := os.Stat(inputPath); err != nil {
		return "", fmt.Errorf("%w: source file %s missing", ErrInvalidRequest, video.Filename)
	}
	return inputPath, nil
}

func (s *submitter) validateOverlay(req dto.OverlayRequest) (constant.OperationKind, string, error) {
	if req.EndTime > 0 && req.EndTime <= req.StartTime {
		return "", "", fmt.Errorf("%w: overlay window [%v, %v)", ErrInvalidRequest, req.StartTime, req.EndTime)
	}

	switch req.Kind {
	case constant.OverlayText:
		if req.Content == "" {
			return "", "", fmt.Errorf("%w: empty overlay text", ErrInvalidRequest)
		}
		return constant.OperationTextOverlay, "", nil
	case constant.OverlayImage, constant.OverlayVideo:
		if req.Width <= 0 || req.Height <= 0 {
			return "", "", fmt.Errorf("%w: overlay scale %dx%d", ErrInvalidRequest, req.Width, req.Height)
		}
		auxPath := filepath.Join(s.media.UploadDir, req.Content)
		if _, err := os.Stat(auxPath); err != nil {
			return "", "", fmt.Errorf("%w: auxiliary file %s missing", ErrInvalidRequest, req.Content)
		}
		if req.Kind == constant.OverlayImage {
			return constant.OperationImageOverlay, auxPath, nil
		}
		return constant.OperationVideoOverlay, auxPath, nil
	default:
		return "", "", fmt.Errorf("%w: overlay kind %q", ErrInvalidRequest, req.Kind)
	}
}

func (s *submitter) createJob(ctx context.Context, jobId uuid.UUID, kind constant.OperationKind, videoId uuid.UUID) error {
	now := time.Now().UTC()
	job := &entities.Job{
		ID:            jobId,
		Kind:          kind,
		Status:        constant.JobStatusPending,
		SourceVideoID: videoId,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s.repo.CreateJob(ctx, job)
}

func (s *submitter) publish(ctx context.Context, message dto.TaskMessage) error {
	if err := s.publisher.PublishTask(ctx, message); err != nil {
		// The pending row stays behind; retention is handled outside the
		// worker.
		zerolog.Ctx(ctx).Error().Err(err).Str("job_id", message.JobId.String()).Msg("failed to publish task")
		return err
	}
	return nil
}
