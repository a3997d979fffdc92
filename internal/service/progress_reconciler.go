// Package service contains business logic that sits between handlers and
// repositories: progress reconciliation and completion event publishing.
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/learning-platform/internal/model"
)

// ProgressUpdate is one incoming client report for a lesson. Percentage is
// a snapshot of where the student is; TimeSpentSeconds is a delta since the
// previous report.
type ProgressUpdate struct {
	LessonID         uint64
	CourseID         uint64
	Percentage       int
	TimeSpentSeconds int64
	Completed        bool
}

// ErrProgressExists is returned by ProgressStore.Insert when another writer
// created the (user, lesson) row first.
var ErrProgressExists = errors.New("progress record already exists")

// ErrContention is returned when the bounded retry budget is exhausted
// without winning the conditional update.
var ErrContention = errors.New("concurrent progress update contention")

// ProgressStore is the persistence contract the reconciler runs against.
// Get returns sql.ErrNoRows (possibly wrapped) when no record exists.
// UpdateVersioned applies rec only if the stored version still equals
// expected, reporting whether the write won.
type ProgressStore interface {
	Get(ctx context.Context, userID, lessonID uint64) (*model.LessonProgress, error)
	Insert(ctx context.Context, rec *model.LessonProgress) error
	UpdateVersioned(ctx context.Context, rec *model.LessonProgress, expected uint32) (bool, error)
}

// ProgressReconciler merges incremental lesson-progress updates into the
// single durable record per (user, lesson). The read-merge-write cycle is
// guarded by the record's version column so concurrent reports from the
// same user (multiple tabs, retried calls) never lose accumulated time.
type ProgressReconciler struct {
	store ProgressStore
	now   func() time.Time
}

// NewProgressReconciler builds a reconciler over store.
func NewProgressReconciler(store ProgressStore) *ProgressReconciler {
	return &ProgressReconciler{store: store, now: time.Now}
}

// reconcileAttempts bounds the internal retry loop on CAS misses and
// insert races before the failure surfaces to the caller.
const reconcileAttempts = 3

// Apply merges upd into the record for (userID, upd.LessonID), creating it
// on first write. It returns the resulting record and whether this call
// transitioned the lesson to completed (for event publishing). The caller
// must have verified the enrollment precondition already.
func (r *ProgressReconciler) Apply(ctx context.Context, userID uint64, upd ProgressUpdate) (*model.LessonProgress, bool, error) {
	for attempt := 0; attempt < reconcileAttempts; attempt++ {
		existing, err := r.store.Get(ctx, userID, upd.LessonID)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return nil, false, err
			}
			rec := newRecord(userID, upd, r.now().UTC())
			if err := r.store.Insert(ctx, rec); err != nil {
				if errors.Is(err, ErrProgressExists) {
					continue // lost the insert race, merge against the winner
				}
				return nil, false, err
			}
			return rec, rec.Completed, nil
		}
		merged := merge(existing, upd, r.now().UTC())
		ok, err := r.store.UpdateVersioned(ctx, merged, existing.Version)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return merged, merged.Completed && !existing.Completed, nil
		}
	}
	return nil, false, ErrContention
}

// newRecord builds the first record for a (user, lesson) pair.
func newRecord(userID uint64, upd ProgressUpdate, now time.Time) *model.LessonProgress {
	rec := &model.LessonProgress{
		UserID:             userID,
		LessonID:           upd.LessonID,
		CourseID:           upd.CourseID,
		ProgressPercentage: clampPercent(upd.Percentage),
		TimeSpentSeconds:   nonNegative(upd.TimeSpentSeconds),
		Completed:          upd.Completed,
		StartedAt:          now,
		UpdatedAt:          now,
		Version:            1,
	}
	if upd.Completed {
		rec.CompletedAt = &now
	}
	return rec
}

// merge folds upd into existing under the accumulation and monotonicity
// rules: percentage overwrites, time accumulates, completion sticks and
// CompletedAt is never cleared once set.
func merge(existing *model.LessonProgress, upd ProgressUpdate, now time.Time) *model.LessonProgress {
	out := *existing
	out.ProgressPercentage = clampPercent(upd.Percentage)
	out.TimeSpentSeconds = existing.TimeSpentSeconds + nonNegative(upd.TimeSpentSeconds)
	out.Completed = existing.Completed || upd.Completed
	if !existing.Completed {
		if upd.Completed {
			out.CompletedAt = &now
		} else {
			out.CompletedAt = nil
		}
	}
	out.UpdatedAt = now
	out.Version = existing.Version + 1
	return &out
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
