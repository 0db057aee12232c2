// internal/workers/matching/rank-creator-matches/handler.go
package rankcreatormatches

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
	TaskType = "rank-creator-matches"
)

type Ranker interface {
	Rank(ctx context.Context, req matching.RankRequest) (*matching.Ranking, error)
}

type Handler struct {
	config    *Config
	ranker    Ranker
	validator *validation.Validator
	obs       *observability.Observability
	errors    *errors.ErrorHandler
	logger    logger.Logger
}

func NewHandler(config *Config, ranker Ranker, validator *validation.Validator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		ranker:    ranker,
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

	input, err := h.parseInput(job.Variables)
	if err == nil {
		var output *Output
		output, err = h.execute(ctx, input)
		if err == nil {
			h.completeJob(client, job, output)
			h.obs.RecordMatchesReturned(ctx, TaskType, len(output.Matches))
			h.record(ctx, start, "success")
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			return
		}
	}

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
	h.record(ctx, start, "failed")
	h.errors.HandleJobError(context.Background(), client, job, err)
}

func (h *Handler) parseInput(variables string) (*Input, error) {
	if err := h.validator.ValidateInput(TaskType, variables); err != nil {
		return nil, err
	}
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError("parse input: " + err.Error())
	}
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	brandID := strings.TrimSpace(input.BrandID)
	if brandID == "" {
		return nil, errors.NewInvalidInputError("brandId is required")
	}
	if input.Limit != nil && *input.Limit < 1 {
		return nil, errors.NewInvalidInputError("limit must be at least 1")
	}

	ranking, err := h.ranker.Rank(ctx, matching.RankRequest{
		BrandID:    brandID,
		CampaignID: strings.TrimSpace(input.CampaignID),
	})
	if err != nil {
		return nil, err
	}

	n := h.resultCount(input.Limit, len(ranking.Matches))
	matches := make([]models.MatchResult, n)
	copy(matches, ranking.Matches)

	output := &Output{
		RunID:           ranking.RunID,
		Matches:         matches,
		TotalCandidates: ranking.Candidates,
		Truncated:       n < len(ranking.Matches),
	}

	h.logger.Info("creators ranked", map[string]interface{}{
		"brandId":    brandID,
		"runId":      ranking.RunID,
		"candidates": ranking.Candidates,
		"returned":   n,
	})
	return output, nil
}

// resultCount caps the ranking at the requested limit and at MaxResults.
func (h *Handler) resultCount(limit *int, available int) int {
	n := available
	if limit != nil && *limit < n {
		n = *limit
	}
	if h.config.MaxResults > 0 && h.config.MaxResults < n {
		n = h.config.MaxResults
	}
	return n
}

func (h *Handler) record(ctx context.Context, start time.Time, status string) {
	elapsed := time.Since(start)
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(elapsed.Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, status)
	h.obs.RecordJobDuration(ctx, TaskType, elapsed, status)
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
