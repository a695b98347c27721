package formedit

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when no entity exists under an id.
var ErrNotFound = errors.New("formedit: entity not found")

// Store is the system of record for entities. The pipeline never persists
// anything itself: it fetches a snapshot, computes the next state, and
// hands it back to the store. Store errors surface verbatim as outcome
// messages; the pipeline neither retries nor rolls back since it never
// committed local state.
type Store interface {
	Get(ctx context.Context, id string) (any, error)
	Update(ctx context.Context, id string, entity any) error
	Delete(ctx context.Context, id string) error
}

// Notifier receives the per-interaction outcome for transient display.
type Notifier interface {
	Notify(ctx context.Context, outcome Outcome)
}

// Save runs a submission against the stored entity and persists the
// result when the submission succeeds. The returned outcome carries
// either the success message for the submission kind or the failure text.
func Save(ctx context.Context, store Store, id string, spec *Spec, sub Submission) (any, Outcome) {
	entity, err := store.Get(ctx, id)
	if err != nil {
		return nil, Outcome{Message: err.Error()}
	}
	next, outcome := HandleSubmission(entity, spec, sub)
	if !outcome.OK {
		return entity, outcome
	}
	if err := store.Update(ctx, id, next); err != nil {
		return entity, Outcome{Message: err.Error()}
	}
	return next, outcome
}
