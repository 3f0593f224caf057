package ingest

import (
	"fmt"
	"log"
	"time"

	"github.com/marqueelabs/marquee/internal/journal"
	"github.com/marqueelabs/marquee/internal/model"
	"github.com/marqueelabs/marquee/internal/store"
)

const (
	// EventLogin records a successful login.
	EventLogin = "login"
	// EventUsage records one use of a feature.
	EventUsage = "usage"
)

// Recorder is the single write path for interaction events. Each event
// is journaled first, applied to the store, then marked committed, so
// a crash between accept and commit replays instead of losing data.
// The journal is optional; without one, events go straight to the store.
type Recorder struct {
	store   model.Store
	journal *journal.Journal
	now     func() time.Time
}

// NewRecorder creates a recorder writing to st, journaling through j
// when j is non-nil.
func NewRecorder(st model.Store, j *journal.Journal) *Recorder {
	return &Recorder{store: st, journal: j, now: time.Now}
}

// RecordLogin validates and commits a login event.
func (r *Recorder) RecordLogin(email string) error {
	if !store.ValidEmail(email) {
		return store.ErrInvalidEmail
	}
	return r.record(model.UsageEvent{
		Kind:  EventLogin,
		Email: store.NormalizeEmail(email),
		Time:  r.now(),
	})
}

// RecordUsage validates and commits one feature use.
func (r *Recorder) RecordUsage(email, feature string) error {
	if !store.ValidEmail(email) {
		return store.ErrInvalidEmail
	}
	if !model.KnownFeature(feature) {
		return fmt.Errorf("%w: %q", store.ErrUnknownFeature, feature)
	}
	return r.record(model.UsageEvent{
		Kind:    EventUsage,
		Email:   store.NormalizeEmail(email),
		Feature: feature,
		Time:    r.now(),
	})
}

func (r *Recorder) record(ev model.UsageEvent) error {
	var seq uint64
	if r.journal != nil {
		var err error
		seq, err = r.journal.Append(ev)
		if err != nil {
			return fmt.Errorf("ingest: journal event: %w", err)
		}
	}

	if err := apply(r.store, ev); err != nil {
		return err
	}

	if r.journal != nil {
		if err := r.journal.Commit(seq); err != nil {
			// The store write landed; replay after restart is
			// idempotent enough for counters to drift by at most
			// the uncommitted window.
			log.Printf("ingest: commit seq %d: %v", seq, err)
		}
	}
	return nil
}

// Replay applies every uncommitted journal event to the store and
// marks the journal caught up. Called once at boot before the write
// path opens.
func Replay(j *journal.Journal, st model.Store) error {
	if j == nil {
		return nil
	}
	var last uint64
	err := j.Replay(func(seq uint64, ev model.UsageEvent) error {
		if err := apply(st, ev); err != nil {
			return err
		}
		last = seq
		return nil
	})
	if err != nil {
		return fmt.Errorf("ingest: replay: %w", err)
	}
	if last > 0 {
		if err := j.Commit(last); err != nil {
			return fmt.Errorf("ingest: commit replay: %w", err)
		}
	}
	return nil
}

func apply(st model.Store, ev model.UsageEvent) error {
	switch ev.Kind {
	case EventLogin:
		if at, ok := st.(interface {
			RecordLoginAt(email string, at time.Time) error
		}); ok && !ev.Time.IsZero() {
			return at.RecordLoginAt(ev.Email, ev.Time)
		}
		return st.RecordLogin(ev.Email)
	case EventUsage:
		return st.IncrementUsage(ev.Email, ev.Feature)
	default:
		// Unknown kinds come from newer journal formats; skip them
		// rather than fail the boot replay.
		log.Printf("ingest: skipping unknown event kind %q", ev.Kind)
		return nil
	}
}
