package anim

import "sync"

// IntersectionSource delivers viewport-intersection notifications. The
// host owns the geometry: it reports each target's visible fraction
// whenever it changes, and the watcher only decides threshold
// crossings. A source may report synchronously from within Watch.
type IntersectionSource interface {
	// Watch begins reporting target's visible fraction (0..1) to
	// report. The returned cancel stops reporting; it must be safe to
	// call more than once.
	Watch(target any, report func(fraction float64)) (cancel func())
}

type watch struct {
	threshold float64
	onVisible func(target any)
	cancel    func()
	fired     bool
}

// Watcher raises a one-shot "became visible" notification per observed
// target. Once a target's visible fraction crosses its threshold the
// callback runs exactly once and the target is deregistered; later
// viewport entries never replay it.
type Watcher struct {
	source IntersectionSource

	mu      sync.Mutex
	targets map[any]*watch
}

// NewWatcher creates a watcher on the given source. A nil source
// degrades gracefully: every Observe fires its callback immediately at
// registration instead of failing.
func NewWatcher(source IntersectionSource) *Watcher {
	return &Watcher{
		source:  source,
		targets: make(map[any]*watch),
	}
}

// Observe registers target; onVisible fires at most once, when the
// target's visible fraction first reaches threshold. Re-observing a
// target that is still registered replaces its threshold and callback.
func (w *Watcher) Observe(target any, threshold float64, onVisible func(target any)) {
	if onVisible == nil {
		return
	}
	if w.source == nil {
		onVisible(target)
		return
	}

	w.Unobserve(target)

	wt := &watch{threshold: threshold, onVisible: onVisible}
	w.mu.Lock()
	w.targets[target] = wt
	w.mu.Unlock()

	cancel := w.source.Watch(target, func(fraction float64) {
		w.visibilityChanged(target, fraction)
	})

	w.mu.Lock()
	cur, ok := w.targets[target]
	if !ok || cur != wt {
		// Fired (or was unobserved) during Watch; the source
		// subscription is no longer wanted.
		w.mu.Unlock()
		cancel()
		return
	}
	cur.cancel = cancel
	w.mu.Unlock()
}

// Unobserve removes target before it fires. Its callback is never
// invoked afterwards. Unknown targets are a no-op.
func (w *Watcher) Unobserve(target any) {
	w.mu.Lock()
	wt, ok := w.targets[target]
	if ok {
		delete(w.targets, target)
	}
	w.mu.Unlock()
	if ok && wt.cancel != nil {
		wt.cancel()
	}
}

// Observed reports whether target is still registered.
func (w *Watcher) Observed(target any) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.targets[target]
	return ok
}

func (w *Watcher) visibilityChanged(target any, fraction float64) {
	w.mu.Lock()
	wt, ok := w.targets[target]
	if !ok || wt.fired || fraction < wt.threshold {
		w.mu.Unlock()
		return
	}
	wt.fired = true
	delete(w.targets, target)
	cancel := wt.cancel
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	wt.onVisible(target)
}
