package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-edit-worker/constant"
	"video-edit-worker/dto"
	"video-edit-worker/entities"
	"video-edit-worker/media"
	"video-edit-worker/repository"
)

func seedJob(repo *fakeRepo, kind constant.OperationKind) (*entities.Job, uuid.UUID) {
	sourceId := uuid.New()
	repo.videos[sourceId] = &entities.Video{ID: sourceId, Filename: "src.mp4", Duration: 60}
	job := &entities.Job{
		ID:            uuid.New(),
		Kind:          kind,
		Status:        constant.JobStatusPending,
		SourceVideoID: sourceId,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	repo.jobs[job.ID] = job
	return job, sourceId
}

func TestProcessTrimSuccess(t *testing.T) {
	repo := newFakeRepo()
	job, sourceId := seedJob(repo, constant.OperationTrim)

	outputPath := filepath.Join(t.TempDir(), job.ID.String()+"_trimmed.mp4")
	engine := &fakeEngine{
		output: outputPath,
		meta:   &media.Metadata{Duration: 15.01, Size: 2048},
	}
	exec := NewExecutor(repo, engine, nil)

	err := exec.Process(context.Background(), dto.TaskMessage{
		JobId:        job.ID,
		Kind:         constant.OperationTrim,
		InputPath:    "/media/src.mp4",
		OutputPath:   outputPath,
		TrimStart:    10,
		TrimDuration: 15,
	})
	require.NoError(t, err)

	assert.Equal(t, constant.JobStatusCompleted, job.Status)
	require.NotNil(t, job.ResultFilename)
	assert.Equal(t, filepath.Base(outputPath), *job.ResultFilename)
	require.NotNil(t, job.ProducedVideoID)

	require.Len(t, repo.createdVideos, 1)
	artifact := repo.createdVideos[0]
	assert.Equal(t, *job.ProducedVideoID, artifact.ID)
	require.NotNil(t, artifact.ParentID)
	assert.Equal(t, sourceId, *artifact.ParentID)
	assert.InDelta(t, 15.0, artifact.Duration, 0.1)
	assert.Equal(t, int64(2048), artifact.Size)

	require.Len(t, engine.runCalls, 1)
	assert.Contains(t, engine.runCalls[0], "-ss")
	assert.Contains(t, engine.runCalls[0], "10")
	assert.Contains(t, engine.runCalls[0], "15")
}

func TestProcessEngineFailure(t *testing.T) {
	repo := newFakeRepo()
	job, _ := seedJob(repo, constant.OperationTrim)

	outputPath := filepath.Join(t.TempDir(), "out.mp4")
	engine := &fakeEngine{runErr: &media.EngineError{Stderr: "boom", Err: errors.New("exit status 1")}}
	exec := NewExecutor(repo, engine, nil)

	err := exec.Process(context.Background(), dto.TaskMessage{
		JobId:        job.ID,
		Kind:         constant.OperationTrim,
		OutputPath:   outputPath,
		TrimStart:    0,
		TrimDuration: 5,
	})
	require.Error(t, err)

	var engineErr *media.EngineError
	assert.True(t, errors.As(err, &engineErr))
	assert.Equal(t, constant.JobStatusFailed, job.Status)
	assert.Nil(t, job.ResultFilename)
	assert.Nil(t, job.ProducedVideoID)
	assert.Empty(t, repo.createdVideos)
}

func TestProcessMissingOutputIsEngineFailure(t *testing.T) {
	repo := newFakeRepo()
	job, _ := seedJob(repo, constant.OperationTrim)

	// Engine exits zero but writes nothing.
	engine := &fakeEngine{meta: &media.Metadata{}}
	exec := NewExecutor(repo, engine, nil)

	err := exec.Process(context.Background(), dto.TaskMessage{
		JobId:        job.ID,
		Kind:         constant.OperationTrim,
		OutputPath:   filepath.Join(t.TempDir(), "never_written.mp4"),
		TrimDuration: 5,
	})
	require.Error(t, err)

	var engineErr *media.EngineError
	assert.True(t, errors.As(err, &engineErr))
	assert.Equal(t, constant.JobStatusFailed, job.Status)
}

func TestProcessPersistFailureRemovesPartialOutput(t *testing.T) {
	repo := newFakeRepo()
	job, _ := seedJob(repo, constant.OperationTrim)
	repo.completeErr = errors.New("connection reset")

	outputPath := filepath.Join(t.TempDir(), "out.mp4")
	engine := &fakeEngine{output: outputPath, meta: &media.Metadata{Duration: 5}}
	exec := NewExecutor(repo, engine, nil)

	err := exec.Process(context.Background(), dto.TaskMessage{
		JobId:        job.ID,
		Kind:         constant.OperationTrim,
		OutputPath:   outputPath,
		TrimDuration: 5,
	})
	require.Error(t, err)

	assert.Equal(t, constant.JobStatusFailed, job.Status)
	_, statErr := os.Stat(outputPath)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestProcessSkipsAdvancedJob(t *testing.T) {
	repo := newFakeRepo()
	job, _ := seedJob(repo, constant.OperationTrim)
	produced := uuid.New()
	filename := "done.mp4"
	job.Status = constant.JobStatusCompleted
	job.ProducedVideoID = &produced
	job.ResultFilename = &filename

	engine := &fakeEngine{}
	exec := NewExecutor(repo, engine, nil)

	err := exec.Process(context.Background(), dto.TaskMessage{
		JobId:        job.ID,
		Kind:         constant.OperationTrim,
		TrimDuration: 5,
	})
	require.NoError(t, err)

	// Re-dispatch of a terminal job is a no-op: no engine run, no state change.
	assert.Empty(t, engine.runCalls)
	assert.Equal(t, constant.JobStatusCompleted, job.Status)
	assert.Equal(t, &produced, job.ProducedVideoID)
	assert.Zero(t, repo.failCalls)
}

func TestProcessUnknownJobIsFatal(t *testing.T) {
	repo := newFakeRepo()
	exec := NewExecutor(repo, &fakeEngine{}, nil)

	err := exec.Process(context.Background(), dto.TaskMessage{
		JobId: uuid.New(),
		Kind:  constant.OperationTrim,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, repository.ErrNotFound))
	assert.Zero(t, repo.failCalls)
}

func TestProcessTextOverlayReadsSpec(t *testing.T) {
	repo := newFakeRepo()
	job, _ := seedJob(repo, constant.OperationTextOverlay)
	repo.specs[job.ID] = &entities.OverlaySpec{
		JobID:     job.ID,
		Kind:      constant.OverlayText,
		Content:   "watermark",
		FontSize:  24,
		FontColor: "white",
	}

	outputPath := filepath.Join(t.TempDir(), "out.mp4")
	engine := &fakeEngine{output: outputPath, meta: &media.Metadata{Duration: 60, Size: 100}}
	exec := NewExecutor(repo, engine, nil)

	err := exec.Process(context.Background(), dto.TaskMessage{
		JobId:      job.ID,
		Kind:       constant.OperationTextOverlay,
		InputPath:  "/media/src.mp4",
		OutputPath: outputPath,
	})
	require.NoError(t, err)

	require.Len(t, engine.runCalls, 1)
	joined := ""
	for _, a := range engine.runCalls[0] {
		joined += a + " "
	}
	assert.Contains(t, joined, "drawtext=text='watermark'")
	assert.Equal(t, constant.JobStatusCompleted, job.Status)
}

func TestProcessOverlayMissingSpecFails(t *testing.T) {
	repo := newFakeRepo()
	job, _ := seedJob(repo, constant.OperationImageOverlay)

	exec := NewExecutor(repo, &fakeEngine{}, nil)

	err := exec.Process(context.Background(), dto.TaskMessage{
		JobId:      job.ID,
		Kind:       constant.OperationImageOverlay,
		OutputPath: filepath.Join(t.TempDir(), "out.mp4"),
	})
	require.Error(t, err)
	assert.Equal(t, constant.JobStatusFailed, job.Status)
}

func TestProcessQualityCreatesVariantNotArtifact(t *testing.T) {
	repo := newFakeRepo()
	job, sourceId := seedJob(repo, constant.OperationQuality)

	outputPath := filepath.Join(t.TempDir(), job.ID.String()+"_720p.mp4")
	engine := &fakeEngine{output: outputPath, meta: &media.Metadata{Duration: 60, Size: 4096}}
	exec := NewExecutor(repo, engine, nil)

	err := exec.Process(context.Background(), dto.TaskMessage{
		JobId:      job.ID,
		Kind:       constant.OperationQuality,
		InputPath:  "/media/src.mp4",
		OutputPath: outputPath,
		Preset:     "720p",
	})
	require.NoError(t, err)

	assert.Equal(t, constant.JobStatusCompleted, job.Status)
	// The produced reference stays on the source video, not a new artifact.
	require.NotNil(t, job.ProducedVideoID)
	assert.Equal(t, sourceId, *job.ProducedVideoID)
	assert.Empty(t, repo.createdVideos)

	require.Len(t, repo.createdVariants, 1)
	variant := repo.createdVariants[0]
	assert.Equal(t, sourceId, variant.VideoID)
	assert.Equal(t, "720p", variant.Preset)
	assert.Equal(t, 1280, variant.Width)
	assert.Equal(t, "3000k", variant.Bitrate)
	assert.Equal(t, int64(4096), variant.Size)
}
