package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"video-edit-worker/dto"
	"video-edit-worker/repository"
	"video-edit-worker/service"
)

func registerRoutes(r *gin.Engine, submitter service.Submitter, status service.Status) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/videos/:id/trim", func(c *gin.Context) {
		videoId, ok := parseId(c)
		if !ok {
			return
		}
		var req dto.TrimRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		jobId, err := submitter.SubmitTrim(c.Request.Context(), videoId, req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, dto.SubmitResponse{JobId: jobId})
	})

	r.POST("/videos/:id/overlay", func(c *gin.Context) {
		videoId, ok := parseId(c)
		if !ok {
			return
		}
		var req dto.OverlayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		jobId, err := submitter.SubmitOverlay(c.Request.Context(), videoId, req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, dto.SubmitResponse{JobId: jobId})
	})

	r.POST("/videos/:id/quality", func(c *gin.Context) {
		videoId, ok := parseId(c)
		if !ok {
			return
		}
		var req dto.QualityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		resp, err := submitter.SubmitQuality(c.Request.Context(), videoId, req)
		if err != nil {
			writeError(c, err)
			return
		}
		if resp.Existing {
			c.JSON(http.StatusOK, resp)
			return
		}
		c.JSON(http.StatusAccepted, resp)
	})

	r.GET("/jobs/:id", func(c *gin.Context) {
		jobId, ok := parseId(c)
		if !ok {
			return
		}
		resp, err := status.JobStatus(c.Request.Context(), jobId)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	})

	r.GET("/videos/:id", func(c *gin.Context) {
		videoId, ok := parseId(c)
		if !ok {
			return
		}
		resp, err := status.VideoInfo(c.Request.Context(), videoId)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	})
}

func parseId(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
