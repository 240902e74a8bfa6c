package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"video-edit-worker/dto"
	"video-edit-worker/repository"
)

// Status is the read-only projection over jobs and videos.
type Status interface {
	JobStatus(ctx context.Context, jobId uuid.UUID) (*dto.JobStatusResponse, error)
	VideoInfo(ctx context.Context, videoId uuid.UUID) (*dto.VideoResponse, error)
}

type status struct {
	repo repository.Repository
}

func NewStatus(repo repository.Repository) Status {
	return &status{repo: repo}
}

func (s *status) JobStatus(ctx context.Context, jobId uuid.UUID) (*dto.JobStatusResponse, error) {
	job, err := s.repo.FindJobById(ctx, jobId)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", jobId, err)
	}

	return &dto.JobStatusResponse{
		JobId:           job.ID,
		Kind:            job.Kind,
		Status:          job.Status,
		SourceVideoId:   job.SourceVideoID,
		ProducedVideoId: job.ProducedVideoID,
		ResultFilename:  job.ResultFilename,
	}, nil
}

func (s *status) VideoInfo(ctx context.Context, videoId uuid.UUID) (*dto.VideoResponse, error) {
	video, err := s.repo.FindVideoById(ctx, videoId)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", videoId, err)
	}

	variants, err := s.repo.FindQualityVariantsByVideoId(ctx, videoId)
	if err != nil {
		return nil, err
	}

	resp := &dto.VideoResponse{
		Id:       video.ID,
		Filename: video.Filename,
		ParentId: video.ParentID,
		Duration: video.Duration,
		Size:     video.Size,
		Variants: make([]dto.VariantResponse, 0, len(variants)),
	}
	for _, v := range variants {
		resp.Variants = append(resp.Variants, dto.VariantResponse{
			Preset:   v.Preset,
			Filename: v.Filename,
			Size:     v.Size,
			Width:    v.Width,
			Height:   v.Height,
			Bitrate:  v.Bitrate,
		})
	}

	return resp, nil
}
