package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pncpbot/backend/internal/domain"
	"github.com/pncpbot/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service   *usecase.ExtractionService
	exporter  domain.Exporter
	jobs      *JobStore
	outputDir string
}

// NewHandler creates a new HTTP handler
func NewHandler(service *usecase.ExtractionService, exporter domain.Exporter, jobs *JobStore, outputDir string) *Handler {
	return &Handler{
		service:   service,
		exporter:  exporter,
		jobs:      jobs,
		outputDir: outputDir,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pncpbot-backend",
		"version": "1.0.0",
	})
}

// StartSearch queues a background extraction job and returns its ID
func (h *Handler) StartSearch(c *gin.Context) {
	var params domain.ExtractionParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Web jobs always export into the server's output dir
	params.OutputDir = h.outputDir

	jobID := h.jobs.Create(params)
	go h.runJob(jobID, params)

	c.JSON(http.StatusOK, gin.H{"job_id": jobID})
}

// runJob executes the extraction pipeline in the background, streaming
// log lines and progress into the job registry.
func (h *Handler) runJob(jobID string, params domain.ExtractionParams) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WEB] Worker panic for job %s: %v", jobID, r)
			h.jobs.AppendLog(jobID, fmt.Sprintf("Erro fatal: %v", r))
			h.jobs.Complete(jobID, domain.StatusError, []domain.Record{})
		}
	}()

	h.jobs.SetRunning(jobID)

	result := h.service.Run(context.Background(), params, usecase.Callbacks{
		OnLog: func(msg string) {
			h.jobs.AppendLog(jobID, msg)
		},
		OnProgress: func(current, total int, label string) {
			h.jobs.SetProgress(jobID, current, total, label)
		},
	})

	h.jobs.Complete(jobID, result.Status, result.Records)
}

// JobStatus returns the current state of a job
func (h *Handler) JobStatus(c *gin.Context) {
	view, err := h.jobs.Snapshot(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, view)
}

// exportRequest is the payload for the ad-hoc export endpoint
type exportRequest struct {
	Records []domain.Record `json:"records"`
}

// ExportRecords exports caller-supplied records to the output directory
func (h *Handler) ExportRecords(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Records) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No records to export"})
		return
	}

	jsonPath, err := h.exporter.ExportJSON(req.Records, h.outputDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	csvPath, err := h.exporter.ExportCSV(req.Records, h.outputDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"json_path": jsonPath,
		"csv_path":  csvPath,
		"count":     len(req.Records),
	})
}
