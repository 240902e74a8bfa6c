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

	"video-edit-worker/constant"
	"video-edit-worker/dto"
	"video-edit-worker/entities"
	"video-edit-worker/media"
	"video-edit-worker/metrics"
	"video-edit-worker/repository"
)

// Engine runs the external media tool and probes its outputs.
type Engine interface {
	Run(ctx context.Context, args []string) error
	Probe(ctx context.Context, path string) (*media.Metadata, error)
}

type Executor interface {
	Process(ctx context.Context, message dto.TaskMessage) error
}

type executor struct {
	repo    repository.Repository
	engine  Engine
	archive Archiver
}

func NewExecutor(repo repository.Repository, engine Engine, archive Archiver) Executor {
	return &executor{
		repo:    repo,
		engine:  engine,
		archive: archive,
	}
}

// buildArgs synthesizes the engine invocation for one operation kind. The
// closed table makes dispatch exhaustive over constant.OperationKind.
var buildArgs = map[constant.OperationKind]func(e *executor, ctx context.Context, message dto.TaskMessage) ([]string, error){
	constant.OperationTrim:         buildTrim,
	constant.OperationTextOverlay:  buildTextOverlay,
	constant.OperationImageOverlay: buildImageOverlay,
	constant.OperationVideoOverlay: buildVideoOverlay,
	constant.OperationQuality:      buildQuality,
}

// Process runs one dispatched job to a terminal state: claim, build the
// invocation, run the engine, verify and probe the output, persist the
// result. Any step failing marks the job FAILED, clears its result fields,
// removes the partial output and returns the error to the consumer.
func (e *executor) Process(ctx context.Context, message dto.TaskMessage) (err error) {
	log := zerolog.Ctx(ctx).With().
		Str("job_id", message.JobId.String()).
		Str("kind", message.Kind.String()).
		Logger()
	ctx = log.WithContext(ctx)

	log.Info().Msg("processing job")

	job, err := e.repo.FindJobById(ctx, message.JobId)
	if err != nil {
		log.Error().Err(err).Msg("failed to find job by id")
		return fmt.Errorf("job %s: %w", message.JobId, err)
	}

	claimed, err := e.repo.ClaimJob(ctx, message.JobId)
	if err != nil {
		log.Error().Err(err).Msg("failed to claim job")
		return err
	}
	if !claimed {
		// Duplicate or re-dispatched delivery: the job already advanced
		// past PENDING, nothing to do.
		log.Info().Str("status", string(job.Status)).Msg("job is not pending, skipping")
		return nil
	}

	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	defer func() {
		if err != nil {
			e.markFailed(ctx, message)
			metrics.JobsProcessedTotal.WithLabelValues(string(constant.JobStatusFailed), message.Kind.String()).Inc()
		}
	}()

	build, ok := buildArgs[message.Kind]
	if !ok {
		return fmt.Errorf("unknown operation kind %q", message.Kind)
	}
	args, err := build(e, ctx, message)
	if err != nil {
		log.Error().Err(err).Msg("failed to build engine invocation")
		return err
	}

	engineStart := time.Now()
	if err = e.engine.Run(ctx, args); err != nil {
		log.Error().Err(err).Msg("engine run failed")
		return err
	}
	metrics.EngineRunDuration.WithLabelValues(message.Kind.String()).Observe(time.Since(engineStart).Seconds())

	// Zero exit without the declared output is still an engine failure.
	if _, statErr := os.Stat(message.OutputPath); statErr != nil {
		err = &media.EngineError{Err: fmt.Errorf("output file not created: %w", statErr)}
		log.Error().Err(err).Msg("engine produced no output")
		return err
	}

	meta, err := e.engine.Probe(ctx, message.OutputPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to probe output")
		return err
	}

	if err = e.persistResult(ctx, job, message, meta); err != nil {
		log.Error().Err(err).Msg("failed to persist result")
		return err
	}

	if e.archive != nil {
		if archiveErr := e.archive.Store(ctx, message.OutputPath, filepath.Base(message.OutputPath)); archiveErr != nil {
			log.Warn().Err(archiveErr).Msg("failed to archive output")
		}
	}

	metrics.JobsProcessedTotal.WithLabelValues(string(constant.JobStatusCompleted), message.Kind.String()).Inc()
	log.Info().
		Float64("duration", meta.Duration).
		Int64("size", meta.Size).
		Msg("job completed")

	return nil
}

// persistResult writes the produced artifact and completes the job. Quality
// conversion annotates the source video with a variant and keeps the source
// id as the produced reference; every other kind inserts a new lineage
// artifact.
func (e *executor) persistResult(ctx context.Context, job *entities.Job, message dto.TaskMessage, meta *media.Metadata) error {
	resultFilename := filepath.Base(message.OutputPath)

	if message.Kind == constant.OperationQuality {
		preset, ok := media.LookupPreset(message.Preset)
		if !ok {
			return fmt.Errorf("%w: unknown preset %q", ErrInvalidRequest, message.Preset)
		}
		variant := &entities.QualityVariant{
			ID:        uuid.New(),
			VideoID:   job.SourceVideoID,
			Preset:    preset.Name,
			Filename:  resultFilename,
			Size:      meta.Size,
			Width:     preset.Width,
			Height:    preset.Height,
			Bitrate:   preset.VideoBitrate,
			CreatedAt: time.Now().UTC(),
		}
		if err := e.repo.CreateQualityVariant(ctx, variant); err != nil {
			return err
		}
		return e.repo.CompleteJob(ctx, job.ID, job.SourceVideoID, resultFilename)
	}

	sourceId := job.SourceVideoID
	video := &entities.Video{
		ID:        uuid.New(),
		Filename:  resultFilename,
		ParentID:  &sourceId,
		Duration:  meta.Duration,
		Size:      meta.Size,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.repo.CreateVideo(ctx, video); err != nil {
		return err
	}
	return e.repo.CompleteJob(ctx, job.ID, video.ID, resultFilename)
}

// markFailed is the shared failure path: job to FAILED with cleared result
// fields, partial output removed. Both are best effort, the original error
// still propagates to the consumer.
func (e *executor) markFailed(ctx context.Context, message dto.TaskMessage) {
	if updateErr := e.repo.FailJob(ctx, message.JobId); updateErr != nil {
		zerolog.Ctx(ctx).Error().Err(updateErr).Msg("failed to update job status")
	}
	if message.OutputPath != "" {
		if removeErr := os.Remove(message.OutputPath); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
			zerolog.Ctx(ctx).Warn().Err(removeErr).Str("output", message.OutputPath).Msg("failed to remove partial output")
		}
	}
}

func buildTrim(e *executor, ctx context.Context, message dto.TaskMessage) ([]string, error) {
	if message.TrimDuration <= 0 {
		return nil, fmt.Errorf("%w: non-positive trim duration", ErrInvalidRequest)
	}
	return media.BuildTrimArgs(message.InputPath, message.OutputPath, message.TrimStart, message.TrimDuration), nil
}

func buildTextOverlay(e *executor, ctx context.Context, message dto.TaskMessage) ([]string, error) {
	spec, err := e.repo.FindOverlaySpecByJobId(ctx, message.JobId)
	if err != nil {
		return nil, fmt.Errorf("overlay spec for job %s: %w", message.JobId, err)
	}
	return media.BuildTextOverlayArgs(message.InputPath, message.OutputPath, spec), nil
}

func buildImageOverlay(e *executor, ctx context.Context, message dto.TaskMessage) ([]string, error) {
	spec, err := e.repo.FindOverlaySpecByJobId(ctx, message.JobId)
	if err != nil {
		return nil, fmt.Errorf("overlay spec for job %s: %w", message.JobId, err)
	}
	return media.BuildImageOverlayArgs(message.InputPath, message.AuxPath, message.OutputPath, spec), nil
}

func buildVideoOverlay(e *executor, ctx context.Context, message dto.TaskMessage) ([]string, error) {
	spec, err := e.repo.FindOverlaySpecByJobId(ctx, message.JobId)
	if err != nil {
		return nil, fmt.Errorf("overlay spec for job %s: %w", message.JobId, err)
	}
	return media.BuildVideoOverlayArgs(message.InputPath, message.AuxPath, message.OutputPath, spec), nil
}

func buildQuality(e *executor, ctx context.Context, message dto.TaskMessage) ([]string, error) {
	preset, ok := media.LookupPreset(message.Preset)
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalidRequest, message.Preset)
	}
	return media.BuildQualityArgs(message.InputPath, message.OutputPath, preset), nil
}
