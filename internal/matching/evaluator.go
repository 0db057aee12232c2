package matching

import (
	"time"

	"creator-match-workers/internal/models"
)

// RuleResult is one line of an explained evaluation.
type RuleResult struct {
	Rule   string `json:"rule"`
	Fired  bool   `json:"fired"`
	Points int    `json:"points"`
	Reason string `json:"reason,omitempty"`
}

// Evaluator applies a rule catalogue to one creator at a time. It holds no
// per-call state and is safe for concurrent use.
type Evaluator struct {
	rules []Rule
	now   func() time.Time
}

type EvaluatorOption func(*Evaluator)

// WithClock replaces time.Now for the recency rule.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) { e.now = now }
}

func WithRules(rules []Rule) EvaluatorOption {
	return func(e *Evaluator) { e.rules = rules }
}

func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		rules: DefaultRules(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the evaluator's clock reading.
func (e *Evaluator) Now() time.Time {
	return e.now()
}

// Evaluate scores s. A zero s.Now is filled from the evaluator's clock.
func (e *Evaluator) Evaluate(s Subject) models.MatchResult {
	result, _ := e.evaluate(s, false)
	return result
}

// Explain scores s and also returns every rule's outcome in catalogue order.
func (e *Evaluator) Explain(s Subject) (models.MatchResult, []RuleResult) {
	return e.evaluate(s, true)
}

func (e *Evaluator) evaluate(s Subject, explain bool) (models.MatchResult, []RuleResult) {
	if s.Now.IsZero() {
		s.Now = e.now()
	}
	if s.Preference == nil {
		s.Preference = &models.BrandPreference{}
	}
	if s.Creator == nil {
		s.Creator = &models.CreatorProfile{}
	}

	result := models.MatchResult{
		CreatorID: s.Creator.ID,
		Profile:   *s.Creator,
		Metrics:   s.Metrics,
		Reasons:   []string{},
	}

	var breakdown []RuleResult
	if explain {
		breakdown = make([]RuleResult, 0, len(e.rules))
	}

	for _, rule := range e.rules {
		out, fired := rule.Eval(&s)
		if fired && out.Points > 0 {
			result.Score += out.Points
			result.Reasons = append(result.Reasons, out.Reason)
		} else {
			fired = false
			out = Outcome{}
		}
		if explain {
			breakdown = append(breakdown, RuleResult{
				Rule:   rule.Name,
				Fired:  fired,
				Points: out.Points,
				Reason: out.Reason,
			})
		}
	}

	return result, breakdown
}
