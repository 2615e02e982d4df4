package predict

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/yjs2001/material-synthesis-seer/internal/history"
	"github.com/yjs2001/material-synthesis-seer/internal/model"
	"github.com/yjs2001/material-synthesis-seer/internal/notify"
	"github.com/yjs2001/material-synthesis-seer/internal/validate"
)

// FailurePolicy decides what happens when the scoring endpoint cannot be
// reached or answers with a non-success status.
type FailurePolicy string

const (
	// PolicySimulate degrades to a uniformly sampled canonical label.
	PolicySimulate FailurePolicy = "simulate"
	// PolicyFail surfaces the transport error and records nothing.
	PolicyFail FailurePolicy = "fail"
)

// Scorer is the remote endpoint contract, satisfied by Client.
type Scorer interface {
	Score(ctx context.Context, material model.Material, p model.Params) (string, error)
}

// ErrBusy is returned when a submission is issued while another is still in
// flight.
var ErrBusy = errors.New("a prediction is already in flight")

// Orchestrator runs a submission end to end: validate, score (or simulate
// per policy), record, notify. Exactly one record is created per accepted
// submission; a rejected one creates none.
type Orchestrator struct {
	scorer   Scorer
	history  *history.Store
	notifier notify.Notifier
	policy   FailurePolicy
	logger   *zap.Logger

	busy    atomic.Bool
	entropy *ulid.MonotonicEntropy
	rng     *rand.Rand
}

// NewOrchestrator wires a scorer to the history store.
func NewOrchestrator(scorer Scorer, hist *history.Store, n notify.Notifier, policy FailurePolicy, logger *zap.Logger) *Orchestrator {
	if policy == "" {
		policy = PolicySimulate
	}
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Orchestrator{
		scorer:   scorer,
		history:  hist,
		notifier: n,
		policy:   policy,
		logger:   logger,
		entropy:  ulid.Monotonic(seed, 0),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano() + 1)),
	}
}

// newID returns a time-ordered identifier, monotonic within the session.
func (o *Orchestrator) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), o.entropy).String()
}

// Predict validates p, obtains an outcome for material, and prepends the
// resulting record to the history. Only one submission may be in flight at a
// time.
func (o *Orchestrator) Predict(ctx context.Context, material model.Material, p model.Params) (*model.Record, error) {
	if !o.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer o.busy.Store(false)

	if !material.Valid() {
		return nil, fmt.Errorf("unknown material %q", material)
	}
	if ferr := validate.Check(p); ferr != nil {
		o.notifier.Notify("Invalid parameters", ferr.Message, notify.SeverityDestructive)
		return nil, ferr
	}

	label, err := o.scorer.Score(ctx, material, p)
	degraded := false
	if err != nil {
		if o.policy == PolicyFail {
			o.notifier.Notify("Prediction failed",
				"the scoring service could not be reached", notify.SeverityDestructive)
			return nil, fmt.Errorf("score %s: %w", material, err)
		}
		o.logger.Warn("scoring endpoint unavailable, simulating outcome",
			zap.String("material", string(material)), zap.Error(err))
		label = model.CanonicalOutcomes[o.rng.Intn(len(model.CanonicalOutcomes))]
		degraded = true
	}

	rec := model.Record{
		ID:        o.newID(),
		Material:  material,
		Params:    p,
		Outcome:   model.OutcomeFromLabel(label),
		CreatedAt: time.Now().UTC(),
	}
	o.history.Append(rec)

	title := "Prediction complete"
	if degraded {
		title = "Prediction simulated"
	}
	o.notifier.Notify(title, fmt.Sprintf("%s: %s", material, rec.Outcome.Label), notify.SeverityNormal)
	return &rec, nil
}
