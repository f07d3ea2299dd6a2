package qf

import (
	"sort"
	"sync"
	"time"

	"github.com/joeycumines/go-catrate"

	"github.com/nexusqp/qpkernel/event"
	"github.com/nexusqp/qpkernel/internal/qlog"
)

// Kernel owns a fixed set of active objects, the ready set, and the
// scheduler lock. It is the shared substrate driven by the QV, QK, and QXK
// scheduler packages; Kernel itself implements no scheduling policy.
//
// Grounded on original_source/crates/qf/src/kernel.rs's Kernel/KernelBuilder
// split, generalized from a single fixed dispatch_once policy to a set of
// primitives (SelectReady, DispatchPriority, LockScheduler/UnlockScheduler)
// that each scheduler package composes into its own policy.
type Kernel struct {
	cfg *kernelOptions

	mu       sync.Mutex
	objects  []Dispatcher // sorted by descending priority
	byID     map[uint8]Dispatcher
	ready    ReadySet
	lock     SchedulerLock
	prevPrio uint8 // last dispatched priority, for SCHED_NEXT/SCHED_IDLE

	tickLimiter *catrate.Limiter
	log         qlog.Logger
}

// NewKernel constructs an empty Kernel. Active objects are added with
// Register before Start.
func NewKernel(opts ...KernelOption) *Kernel {
	cfg := resolveKernelOptions(opts)
	k := &Kernel{
		cfg:  cfg,
		byID: make(map[uint8]Dispatcher),
		log:  qlog.Default(),
	}
	if cfg.maxTickRate > 0 {
		k.tickLimiter = catrate.NewLimiter(map[time.Duration]int{cfg.maxTickRate: 1})
	}
	return k
}

// Register adds an active object to the kernel. It must be called before
// Start. Duplicate ids or priorities are configuration errors.
func (k *Kernel) Register(ao Dispatcher) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.byID[ao.ID()]; exists {
		return ErrDuplicatePriority
	}
	for _, existing := range k.objects {
		if existing.Priority() == ao.Priority() {
			return ErrDuplicatePriority
		}
	}

	k.objects = append(k.objects, ao)
	k.byID[ao.ID()] = ao
	sort.Slice(k.objects, func(i, j int) bool {
		return k.objects[i].Priority() > k.objects[j].Priority()
	})
	return nil
}

// Start installs the kernel's tracer on every registered active object and
// runs each one's HSM initial transition, in priority order.
func (k *Kernel) Start() error {
	k.mu.Lock()
	objects := append([]Dispatcher(nil), k.objects...)
	tracer := k.cfg.tracer
	k.mu.Unlock()

	for _, ao := range objects {
		if err := ao.Start(tracer); err != nil {
			return err
		}
	}
	return nil
}

// Post enqueues e to the active object registered under target, setting
// its ready bit if the queue was previously empty. Returns ErrNotFound if
// target is not registered.
func (k *Kernel) Post(target uint8, e *event.Event) error {
	k.mu.Lock()
	ao, ok := k.byID[target]
	k.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	wasEmpty, err := ao.Post(e)
	if wasEmpty {
		k.mu.Lock()
		k.ready.Insert(ao.Priority())
		k.mu.Unlock()
	}
	return err
}

// PostLIFO enqueues e at the head of target's queue (priority-boosted
// reminders only).
func (k *Kernel) PostLIFO(target uint8, e *event.Event) error {
	k.mu.Lock()
	ao, ok := k.byID[target]
	k.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	wasEmpty, err := ao.PostLIFO(e)
	if wasEmpty {
		k.mu.Lock()
		k.ready.Insert(ao.Priority())
		k.mu.Unlock()
	}
	return err
}

// Publish fans signal/payload out to every registered active object as a
// fresh shared holder of one underlying event, per spec.md §3's
// supplemented Publish operation (original_source's Kernel::publish).
func (k *Kernel) Publish(signal event.Signal, payload any) []error {
	base := event.New(signal, payload)

	k.mu.Lock()
	objects := append([]Dispatcher(nil), k.objects...)
	k.mu.Unlock()

	var errs []error
	for _, ao := range objects {
		shared, err := base.Share()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		wasEmpty, err := ao.Post(shared)
		if wasEmpty {
			k.mu.Lock()
			k.ready.Insert(ao.Priority())
			k.mu.Unlock()
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	base.Release()
	return errs
}

// ReadySet exposes the kernel-wide ready bitmap for scheduler packages.
func (k *Kernel) ReadySet() *ReadySet {
	return &k.ready
}

// CurrentCeiling returns the scheduler lock's current ceiling.
func (k *Kernel) CurrentCeiling() uint8 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.lock.Ceiling()
}

// LockScheduler raises the lock ceiling (spec.md §4.D) and emits SCHED_LOCK.
func (k *Kernel) LockScheduler(ceiling uint8) LockToken {
	k.mu.Lock()
	prev := k.lock.Ceiling()
	token := k.lock.Lock(ceiling)
	newCeiling := k.lock.Ceiling()
	k.mu.Unlock()

	if k.cfg.tracer != nil {
		k.cfg.tracer.SchedLock(prev, newCeiling)
	}
	return token
}

// UnlockScheduler restores the lock ceiling captured in token and emits
// SCHED_UNLOCK. Per spec.md §4.D, the caller must re-drive its scheduling
// loop afterward; Kernel does not do so itself since that is
// policy-specific (see packages qv, qk, qxk).
func (k *Kernel) UnlockScheduler(token LockToken) {
	k.mu.Lock()
	prev := k.lock.Ceiling()
	k.lock.Unlock(token)
	newCeiling := k.lock.Ceiling()
	k.mu.Unlock()

	if k.cfg.tracer != nil {
		k.cfg.tracer.SchedUnlock(prev, newCeiling)
	}
}

// SelectReady returns the highest-priority ready active object with
// priority strictly greater than above, or (nil, false) if none qualifies.
func (k *Kernel) SelectReady(above uint8) (Dispatcher, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	p, ok := k.ready.Max()
	if !ok || p <= above {
		return nil, false
	}
	return k.byPriority(p)
}

// byPriority returns the active object registered at priority p. Callers
// must hold k.mu.
func (k *Kernel) byPriority(p uint8) (Dispatcher, bool) {
	for _, ao := range k.byID {
		if ao.Priority() == p {
			return ao, true
		}
	}
	return nil, false
}

// DispatchPriority dispatches a single event from the active object
// registered at priority p, clearing its ready bit if the queue becomes
// empty. Returns ErrNotFound if no active object is registered at p.
func (k *Kernel) DispatchPriority(p uint8) error {
	k.mu.Lock()
	ao, ok := k.byPriority(p)
	k.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	_, becameEmpty, err := ao.DispatchOne()
	if becameEmpty {
		k.mu.Lock()
		k.ready.Remove(p)
		k.mu.Unlock()
	}
	return err
}

// NoteScheduled records a transition to dispatching priority p, emitting
// SCHED_NEXT when p differs from the previously dispatched priority.
// Scheduler packages call this immediately before DispatchPriority.
func (k *Kernel) NoteScheduled(p uint8) {
	k.mu.Lock()
	prev := k.prevPrio
	changed := prev != p
	k.prevPrio = p
	k.mu.Unlock()

	if changed && k.cfg.tracer != nil {
		k.cfg.tracer.SchedNext(p, prev)
	}
}

// NoteIdle records a transition to idle (no ready active object above the
// ceiling). When the kernel was busy before the call, it emits SCHED_IDLE
// and invokes the configured idle callback; repeated calls while already
// idle do neither.
func (k *Kernel) NoteIdle() {
	k.mu.Lock()
	prev := k.prevPrio
	wasBusy := prev != 0
	k.prevPrio = 0
	k.mu.Unlock()

	if wasBusy && k.cfg.tracer != nil {
		k.cfg.tracer.SchedIdle(prev)
	}
	if wasBusy && k.cfg.idleCallback != nil {
		k.cfg.idleCallback()
	}
}

// HasPendingWork reports whether any priority above the current ceiling is
// ready.
func (k *Kernel) HasPendingWork() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	p, ok := k.ready.Max()
	return ok && p > k.lock.Ceiling()
}

// Tracer returns the kernel's configured Tracer, or nil.
func (k *Kernel) Tracer() Tracer {
	return k.cfg.tracer
}

// Logger returns the kernel's ambient structured logger.
func (k *Kernel) Logger() qlog.Logger {
	return k.log
}

// Name returns the kernel's configured display name.
func (k *Kernel) Name() string {
	return k.cfg.name
}

// Version returns the kernel's configured numeric version.
func (k *Kernel) Version() uint16 {
	return k.cfg.version
}
