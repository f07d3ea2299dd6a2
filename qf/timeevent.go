package qf

import (
	"sync"

	"github.com/nexusqp/qpkernel/event"
)

// TimeEvent is a one-shot or periodic timer owned by a TimeEventWheel,
// grounded on original_source/crates/qf/src/time.rs's TimeEvent. Arm/Disarm
// mutate remaining/period under the event's own mutex; Poll (called once
// per wheel Tick) decrements remaining and, on reaching zero, re-arms a
// periodic event or clears armed for a one-shot.
type TimeEvent struct {
	addr   uint64
	target uint8
	signal event.Signal

	mu        sync.Mutex
	remaining uint64
	period    uint64 // 0 means one-shot
	armed     bool
}

// NewTimeEvent constructs an unarmed TimeEvent posting signal to target
// when it fires. addr identifies the event for tracing.
func NewTimeEvent(addr uint64, target uint8, signal event.Signal) *TimeEvent {
	return &TimeEvent{addr: addr, target: target, signal: signal}
}

// Arm sets remaining := timeout, stores the optional period (0 disables
// periodic re-arming), marks the event armed, and emits TIMEEVT_ARM.
func (t *TimeEvent) Arm(timeout, period uint64, tracer Tracer) {
	t.mu.Lock()
	t.remaining = timeout
	t.period = period
	t.armed = true
	t.mu.Unlock()

	if tracer != nil {
		tracer.TimeEvtArm(t.addr, uint64(t.target), clampU16(timeout), clampU16(period), 0)
	}
}

// Disarm clears an armed event (emitting TIMEEVT_DISARM with the residual
// tick count) or, if the event was already unarmed, emits
// TIMEEVT_DISARM_ATTEMPT.
func (t *TimeEvent) Disarm(tracer Tracer) {
	t.mu.Lock()
	wasArmed := t.armed
	remaining := t.remaining
	period := t.period
	t.armed = false
	t.remaining = 0
	t.mu.Unlock()

	if tracer == nil {
		return
	}
	if wasArmed {
		tracer.TimeEvtDisarm(t.addr, uint64(t.target), clampU16(remaining), clampU16(period), 0)
	} else {
		tracer.TimeEvtDisarmAttempt(t.addr, uint64(t.target), 0)
	}
}

// IsArmed reports whether the event is currently armed.
func (t *TimeEvent) IsArmed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}

// poll decrements remaining by one tick (saturating at 0) and, if it has
// just reached zero, reports that the event fired and should be posted.
func (t *TimeEvent) poll() (fired bool, autoDisarmed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.armed {
		return false, false
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining != 0 {
		return false, false
	}

	if t.period > 0 {
		t.remaining = t.period
		return true, false
	}
	t.armed = false
	return true, true
}

func clampU16(v uint64) uint16 {
	if v > 0xFFFF {
		return 0xFFFF
	}
	return uint16(v)
}

// TimeEventWheel drives a collection of TimeEvents with a single
// cooperative Tick call per spec.md §4.H. Registration order is iteration
// order, so posts from one Tick land in target queues in that order.
type TimeEventWheel struct {
	kernel *Kernel

	mu     sync.Mutex
	events []*TimeEvent
}

// NewTimeEventWheel constructs a wheel bound to kernel; fired events are
// posted through it.
func NewTimeEventWheel(kernel *Kernel) *TimeEventWheel {
	return &TimeEventWheel{kernel: kernel}
}

// Register adds te to the wheel.
func (w *TimeEventWheel) Register(te *TimeEvent) {
	w.mu.Lock()
	w.events = append(w.events, te)
	w.mu.Unlock()
}

// Tick advances every armed event by one tick, posting to the kernel and
// emitting TIMEEVT_POST (plus TIMEEVT_AUTO_DISARM for one-shot events) as
// each fires. If the kernel was constructed with WithMaxTickRate, ticks
// arriving faster than that rate are coalesced (dropped) rather than
// processed, per the rate-limited "max_tick_rate" configuration option.
func (w *TimeEventWheel) Tick() error {
	if w.kernel.tickLimiter != nil {
		if _, ok := w.kernel.tickLimiter.Allow("tick"); !ok {
			return nil
		}
	}

	w.mu.Lock()
	events := append([]*TimeEvent(nil), w.events...)
	w.mu.Unlock()

	tracer := w.kernel.Tracer()

	for _, te := range events {
		fired, autoDisarmed := te.poll()
		if !fired {
			continue
		}
		if autoDisarmed && tracer != nil {
			tracer.TimeEvtAutoDisarm(te.addr, uint64(te.target), 0)
		}
		if tracer != nil {
			tracer.TimeEvtPost(te.addr, te.signal, uint64(te.target), 0)
		}
		if err := w.kernel.Post(te.target, event.New(te.signal, nil)); err != nil {
			w.kernel.Logger().Error("qf: time event post failed", "target", te.target, "error", err)
		}
	}
	return nil
}
