package placement

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/lightrig/internal/light"
	"github.com/Faultbox/lightrig/internal/logger"
)

// Created pairs a new light id with the candidate it came from.
type Created struct {
	ID   string
	Name string
}

// Instantiate creates one light per candidate, aimed as synthesized, with
// its pivot on the candidate target. subjectCenter is remembered as each
// light's target. A light that cannot be created is recorded as a Failure
// and the rest carry on. When ctx is cancelled part-way, every light
// created so far is removed again and ctx's error is returned.
func (e *Engine) Instantiate(ctx context.Context, cands []Candidate, subj Subject) ([]Created, []Failure, error) {
	var (
		created  = make([]Created, 0, len(cands))
		failures []Failure
	)
	for _, c := range cands {
		if err := ctx.Err(); err != nil {
			return nil, nil, e.rollback(created, err)
		}

		id, err := e.create(c)
		if err != nil {
			logger.Warn("template light not created",
				zap.String("light", c.Name),
				zap.Error(err))
			failures = append(failures, Failure{Light: c.Name, Stage: "instantiate", Reason: err.Error()})
			continue
		}
		e.pivots.RememberTarget(id, subj.Center)
		created = append(created, Created{ID: id, Name: c.Name})

		logger.Debug("template light created",
			zap.String("light", c.Name),
			zap.String("id", id),
			zap.Stringer("kind", c.Kind))
	}
	return created, failures, nil
}

// create adds one candidate and sets its pivot. A light whose pivot cannot
// be set is removed again.
func (e *Engine) create(c Candidate) (string, error) {
	l := light.New(c.Kind,
		light.WithName(c.Name),
		light.WithPosition(c.Position),
		light.WithRotation(c.Rotation),
		light.WithParams(c.Params))
	id, err := e.lights.Add(l)
	if err != nil {
		return "", fmt.Errorf("create: %w", err)
	}
	if err := e.pivots.Set(id, c.Target); err != nil {
		return "", multierr.Append(fmt.Errorf("pivot: %w", err), e.lights.Remove(id))
	}
	return id, nil
}

func (e *Engine) rollback(created []Created, cause error) error {
	err := cause
	for i := len(created) - 1; i >= 0; i-- {
		e.pivots.ForgetTarget(created[i].ID)
		err = multierr.Append(err, e.lights.Remove(created[i].ID))
	}
	logger.Warn("template placement rolled back",
		zap.Int("removed", len(created)),
		zap.Error(cause))
	return err
}
