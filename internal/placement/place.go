package placement

import (
	"context"

	"go.uber.org/zap"

	"github.com/Faultbox/lightrig/internal/logger"
)

// Place applies t around the target objects: validate, synthesize,
// instantiate, then audit. Template errors and cancellation are returned
// as errors; per-light problems are recorded in the report.
func (e *Engine) Place(ctx context.Context, t *Template, targets []string, opts Options) (*Report, error) {
	if err := Validate(t); err != nil {
		return nil, err
	}
	subj, err := NewSubject(e.bounds, targets)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Template:     t.ID,
		Strategy:     opts.Strategy.String(),
		BaseDistance: e.BaseDistance(t, subj, opts),
		Warnings:     Warnings(t, e.lights.Len(), e.cfg.MaxTemplateLights, e.cfg.MaxSceneLights),
	}
	for _, w := range r.Warnings {
		logger.Warn("template warning", zap.String("template", t.ID), zap.String("warning", w))
	}

	cands, failures := e.Synthesize(t, subj, opts)
	r.Failures = failures

	created, failed, err := e.Instantiate(ctx, cands, subj)
	if err != nil {
		return nil, err
	}
	r.Failures = append(r.Failures, failed...)
	for _, c := range created {
		r.Created = append(r.Created, c.Name)
	}

	audit := e.Audit(created, subj, opts.Strategy)
	r.Clear = audit.Clear
	r.Adjusted = audit.Adjusted
	r.Skipped = audit.Skipped
	r.Warned = audit.Warned
	r.Obstructions = audit.Obstructions
	for _, c := range created {
		if e.lights.Exists(c.ID) {
			r.IDs = append(r.IDs, c.ID)
		}
	}
	r.count()

	logger.Info("template placed",
		zap.String("template", t.ID),
		zap.Int("created", r.Counts.Created),
		zap.Int("adjusted", r.Counts.Adjusted),
		zap.Int("skipped", r.Counts.Skipped),
		zap.Int("warned", r.Counts.Warned),
		zap.Int("failed", r.Counts.Failed))
	return r, nil
}
