// internal/workers/matching/score-creator-match/handler.go
package scorecreatormatch

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"creator-match-workers/internal/common/errors"
	"creator-match-workers/internal/common/logger"
	"creator-match-workers/internal/common/metrics"
	"creator-match-workers/internal/common/observability"
	"creator-match-workers/internal/common/validation"
	"creator-match-workers/internal/matching"
	"creator-match-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-creator-match"
)

type Scorer interface {
	ScoreCreator(ctx context.Context, req matching.ScoreRequest) (*models.MatchResult, []matching.RuleResult, error)
}

type Handler struct {
	config    *Config
	scorer    Scorer
	validator *validation.Validator
	obs       *observability.Observability
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, scorer Scorer, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		scorer:    scorer,
		validator: validator,
		obs:       obs,
		errors:    errors.NewErrorHandler(log),
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.handle(ctx, job.Variables)
	status := "success"
	if err != nil {
		status = "failed"
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
		h.errors.HandleJobError(context.Background(), client, job, err)
	} else {
		metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
		h.completeJob(client, job, output)
	}

	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, status)
	h.obs.RecordJobDuration(ctx, TaskType, elapsed, status)
}

func (h *Handler) handle(ctx context.Context, variables string) (*Output, error) {
	if err := h.validator.ValidateInput(TaskType, variables); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError("parse input: " + err.Error())
	}
	return h.execute(ctx, &input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	req := matching.ScoreRequest{
		BrandID:    strings.TrimSpace(input.BrandID),
		CreatorID:  strings.TrimSpace(input.CreatorID),
		CampaignID: strings.TrimSpace(input.CampaignID),
	}
	if req.BrandID == "" || req.CreatorID == "" {
		return nil, errors.NewInvalidInputError("brandId and creatorId are required")
	}

	result, breakdown, err := h.scorer.ScoreCreator(ctx, req)
	if err != nil {
		return nil, err
	}

	h.logger.Info("creator scored", map[string]interface{}{
		"brandId":   req.BrandID,
		"creatorId": req.CreatorID,
		"score":     result.Score,
	})
	return &Output{Match: *result, Breakdown: breakdown}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
