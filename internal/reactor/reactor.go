// Package reactor drives the wallpaper→theme pipeline: it consumes change
// notifications, debounces bursts, and orchestrates cache lookup, sampling,
// synthesis and application with at most one computation in flight per
// output.
package reactor

import (
	"context"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tintd/internal/applier"
	"github.com/jmylchreest/tintd/internal/cache"
	"github.com/jmylchreest/tintd/internal/colour"
	"github.com/jmylchreest/tintd/internal/notify"
)

// DefaultDebounce is the default coalescing window for change notifications.
const DefaultDebounce = 250 * time.Millisecond

// Sampler produces clustered colour samples for a wallpaper path.
type Sampler interface {
	Sample(path string) ([]colour.Sample, error)
}

// target is one unit of work: theme this output for this wallpaper and mode.
type target struct {
	output string
	image  string
	mode   colour.Mode
}

// outputState tracks one output through Idle → Pending → Computing →
// Applying. pending is the debounced key not yet started; next is the key
// that superseded a running computation and starts when it finishes.
type outputState struct {
	timer     *time.Timer
	pending   *target
	computing bool
	next      *target
}

// Reactor is the daemon's state machine. All state is owned by the Run
// goroutine; timers and workers communicate through channels only.
type Reactor struct {
	log      hclog.Logger
	store    *cache.Store
	sampler  Sampler
	applier  applier.Applier
	debounce time.Duration

	fires chan string
	done  chan string

	states     map[string]*outputState
	wallpapers map[string]string
	mode       colour.Mode
}

// New creates a Reactor. A debounce of zero or less falls back to
// DefaultDebounce.
func New(store *cache.Store, sampler Sampler, app applier.Applier, debounce time.Duration, log hclog.Logger) *Reactor {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Reactor{
		log:        log,
		store:      store,
		sampler:    sampler,
		applier:    app,
		debounce:   debounce,
		fires:      make(chan string, 64),
		done:       make(chan string, 64),
		states:     make(map[string]*outputState),
		wallpapers: make(map[string]string),
		mode:       colour.ModeDark,
	}
}

// Run processes events until ctx is cancelled or the event stream closes.
// A closed stream means the notification source is gone; the daemon exits
// cleanly with it.
func (r *Reactor) Run(ctx context.Context, events <-chan notify.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				r.log.Info("notification stream closed, stopping reactor")
				return nil
			}
			r.handleEvent(ev)
		case output := <-r.fires:
			r.handleFire(ctx, output)
		case output := <-r.done:
			r.handleDone(ctx, output)
		}
	}
}

// handleEvent folds a notification into per-output pending state. A mode
// change re-targets every known output; a wallpaper change only its own.
func (r *Reactor) handleEvent(ev notify.Event) {
	switch ev.Kind {
	case notify.KindMode:
		if ev.Mode == r.mode {
			return
		}
		r.mode = ev.Mode
		for output := range r.wallpapers {
			r.schedule(output)
		}
	case notify.KindWallpaper:
		if ev.Image == "" {
			return
		}
		r.wallpapers[ev.Output] = ev.Image
		r.schedule(ev.Output)
	}
}

// schedule records the newest (wallpaper, mode) key for an output and arms
// or resets its debounce timer. Rapid successive changes keep replacing the
// pending key; only the final one survives the window.
func (r *Reactor) schedule(output string) {
	st := r.state(output)
	st.pending = &target{output: output, image: r.wallpapers[output], mode: r.mode}

	if st.timer == nil {
		st.timer = time.AfterFunc(r.debounce, func() {
			r.fires <- output
		})
	} else {
		st.timer.Reset(r.debounce)
	}
}

// handleFire moves a debounced key from Pending to Computing, or queues it
// behind a computation already in flight for the output. A fire with no
// pending key (a timer that lost a reset race) is a no-op.
func (r *Reactor) handleFire(ctx context.Context, output string) {
	st, ok := r.states[output]
	if !ok || st.pending == nil {
		return
	}
	tgt := st.pending
	st.pending = nil

	if st.computing {
		// Last-write-wins: a queued target is replaced, never appended.
		st.next = tgt
		return
	}
	r.start(ctx, st, tgt)
}

// handleDone finishes a computation cycle and immediately launches the
// queued target, if one superseded the finished work.
func (r *Reactor) handleDone(ctx context.Context, output string) {
	st, ok := r.states[output]
	if !ok {
		return
	}
	st.computing = false
	if st.next != nil {
		tgt := st.next
		st.next = nil
		r.start(ctx, st, tgt)
	}
}

// start launches the worker for a target. The event loop never blocks on
// sampling or synthesis.
func (r *Reactor) start(ctx context.Context, st *outputState, tgt *target) {
	st.computing = true
	go func() {
		r.process(ctx, tgt)
		select {
		case r.done <- tgt.output:
		case <-ctx.Done():
		}
	}()
}

// process resolves a target to a palette and applies it: cache hit → apply;
// miss → sample, synthesize, persist, apply. Every failure degrades to the
// mode-appropriate default palette; an output is never left un-themed.
func (r *Reactor) process(ctx context.Context, tgt *target) {
	log := r.log.With("output", tgt.output, "mode", tgt.mode.String(), "image", tgt.image)

	id, err := cache.DeriveIdentity(tgt.image)
	if err != nil {
		log.Error("failed to derive wallpaper identity, using default palette", "error", err)
		r.apply(ctx, tgt.output, colour.DefaultPalette(tgt.mode))
		return
	}

	if p, ok := r.store.Get(id, tgt.mode); ok {
		log.Debug("cache hit")
		r.apply(ctx, tgt.output, p)
		return
	}

	samples, err := r.sampler.Sample(tgt.image)
	if err != nil {
		log.Error("sampling failed, using default palette", "error", err)
		r.apply(ctx, tgt.output, colour.DefaultPalette(tgt.mode))
		return
	}

	p, err := colour.Synthesize(samples, tgt.mode)
	if err != nil {
		log.Error("synthesis failed, using default palette", "error", err)
		r.apply(ctx, tgt.output, colour.DefaultPalette(tgt.mode))
		return
	}

	if err := r.store.Put(id, tgt.mode, p); err != nil {
		// The palette is still applied this cycle; only a future recompute
		// is at risk.
		log.Error("failed to persist palette", "error", err)
	}

	r.warmOpposite(id, tgt.mode, samples, log)
	r.apply(ctx, tgt.output, p)
}

// warmOpposite synthesizes and persists the other mode's palette from the
// samples already in hand, so a dark/light switch for this wallpaper is a
// cache hit instead of a re-extraction.
func (r *Reactor) warmOpposite(id cache.Identity, mode colour.Mode, samples []colour.Sample, log hclog.Logger) {
	other := colour.ModeLight
	if mode == colour.ModeLight {
		other = colour.ModeDark
	}
	if _, ok := r.store.Get(id, other); ok {
		return
	}
	p, err := colour.Synthesize(samples, other)
	if err != nil {
		return
	}
	if err := r.store.Put(id, other, p); err != nil {
		log.Warn("failed to persist warmed palette", "mode", other.String(), "error", err)
	}
}

// apply hands the palette to the applier. Failures are logged and dropped;
// the next change event is the natural retry trigger.
func (r *Reactor) apply(ctx context.Context, output string, p colour.Palette) {
	if err := r.applier.Apply(ctx, output, p); err != nil {
		r.log.Error("failed to apply palette", "output", output, "error", err)
	}
}

// state returns the tracked state for an output, creating it on first use.
func (r *Reactor) state(output string) *outputState {
	st, ok := r.states[output]
	if !ok {
		st = &outputState{}
		r.states[output] = st
	}
	return st
}
