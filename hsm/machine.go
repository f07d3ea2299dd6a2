package hsm

import (
	"fmt"
	"reflect"

	"github.com/nexusqp/qpkernel/event"
)

// internal synthetic probe events. These never carry a payload and are
// never shared or released; they exist only to drive EMPTY/ENTRY/EXIT/INIT
// signal delivery during path computation.
var (
	emptyProbe = event.New(event.SignalEmpty, nil)
	entryProbe = event.New(event.SignalEntry, nil)
	exitProbe  = event.New(event.SignalExit, nil)
	initProbe  = event.New(event.SignalInit, nil)
)

// Tracer receives the QS trace emission points named by the specification
// for the HSM engine (§4.B): STATE_ENTRY, STATE_EXIT, STATE_INIT, INIT_TRAN,
// INTERN_TRAN, TRAN, IGNORED, DISPATCH, UNHANDLED. objAddr and state
// addresses are the identities of the owning Machine and of the state
// handler function values, respectively; implementations (see package qs)
// render them as the obj_addr/state_addr fields of the corresponding
// record.
type Tracer interface {
	StateEntry(objAddr, stateAddr uint64)
	StateExit(objAddr, stateAddr uint64)
	StateInit(objAddr, source, target uint64)
	InitTran(objAddr, target uint64)
	InternTran(signal event.Signal, objAddr, state uint64)
	Tran(signal event.Signal, objAddr, source, target uint64)
	Ignored(signal event.Signal, objAddr, state uint64)
	Dispatch(signal event.Signal, objAddr, state uint64)
	Unhandled(signal event.Signal, objAddr, state uint64)
}

// Machine runs a hierarchical state machine on behalf of an owner value T
// (typically a pointer to the application's active-object struct, embedding
// whatever fields its handlers need).
type Machine[T any] struct {
	owner   T
	state   Handler[T]
	objAddr uint64
	tracer  Tracer
}

// NewMachine constructs a Machine for owner, rooted at top (the outermost
// state, which must respond to SignalInit with Initial and to SignalEmpty
// with Handled). objAddr identifies the owner for tracing purposes; tracer
// may be nil to disable trace emission.
func NewMachine[T any](owner T, top Handler[T], objAddr uint64, tracer Tracer) *Machine[T] {
	return &Machine[T]{owner: owner, state: top, objAddr: objAddr, tracer: tracer}
}

// State returns the machine's current (leaf) state handler.
func (m *Machine[T]) State() Handler[T] {
	return m.state
}

// SetTracer installs (or clears, with nil) the Machine's trace hook. It is
// normally called once, before Start, by the owning active object.
func (m *Machine[T]) SetTracer(tracer Tracer) {
	m.tracer = tracer
}

func handlerID[T any](h Handler[T]) uint64 {
	if h == nil {
		return 0
	}
	return uint64(reflect.ValueOf(h).Pointer())
}

// Start performs the machine's initial transition, entering states from the
// top down to the deepest Initial target. It must be called exactly once,
// before the first Dispatch.
func (m *Machine[T]) Start() error {
	return m.initialDescent(m.state, true)
}

// initialDescent implements specification step 4.B.6: dispatch SignalInit;
// on Initial(t'), enter t' and recurse; terminate on Handled. The very
// first step of the machine-wide initial transition (driven by Start) has
// no meaningful "source" state, so it is traced as INIT_TRAN (record id 4:
// obj_addr, target only); every nested initial transition encountered while
// descending (here or at the tail of a Transition) is traced as STATE_INIT
// (record id 3: obj_addr, source, target).
func (m *Machine[T]) initialDescent(from Handler[T], top bool) error {
	cur := from
	for depth := 0; ; depth++ {
		if depth >= MaxStateDepth {
			return ErrStateDepthExceeded
		}
		out := cur(m.owner, initProbe)
		if out.kind == kindHandled {
			m.state = cur
			return nil
		}
		if out.kind != kindInitial {
			return ErrMissingInitialTransition
		}
		target := out.target
		if top && depth == 0 {
			m.emitInitTran(target)
		} else {
			m.emitStateInit(cur, target)
		}
		m.enter(target)
		m.state = target
		cur = target
	}
}

// Dispatch delivers e to the machine's current state, walking Super chains
// until a terminal outcome, and performs any resulting Transition.
func (m *Machine[T]) Dispatch(e Event) error {
	leaf := m.state
	m.emitDispatch(e.Signal(), leaf)

	cur := leaf
	for depth := 0; ; depth++ {
		if depth >= MaxStateDepth {
			return ErrStateDepthExceeded
		}
		out := cur(m.owner, e)
		switch out.kind {
		case kindHandled:
			m.emitInternTran(e.Signal(), cur)
			return nil
		case kindUnhandled:
			// The engine has no separate "keep climbing on Unhandled" path
			// (propagation is expressed via Super); reaching Unhandled is
			// therefore always the terminal, fully-ignored case, so both
			// per-state and overall trace points fire.
			m.emitUnhandled(e.Signal(), cur)
			m.emitIgnored(e.Signal(), cur)
			return nil
		case kindSuper:
			cur = out.target
		case kindTransition:
			return m.transition(leaf, cur, out.target, e.Signal())
		default:
			return fmt.Errorf("hsm: Initial outcome is only valid during initial descent")
		}
	}
}

// transition implements specification steps 4.B.3-6. leaf is the machine's
// state at the start of Dispatch (the exit path runs from there); source is
// the handler that actually returned Transition (used only for the TRAN
// trace's "source" field, per the worked example in spec.md §8 S4).
func (m *Machine[T]) transition(leaf, source, target Handler[T], signal event.Signal) error {
	if handlerID(target) == handlerID(leaf) {
		// self-transition: exit then re-enter the same state.
		m.exit(leaf)
		m.emitTran(signal, source, target)
		m.enter(target)
		m.state = target
		return m.initialDescent(target, false)
	}

	sourcePath, sourceDepth, err := m.statePath(leaf)
	if err != nil {
		return err
	}
	targetPath, targetDepth, err := m.statePath(target)
	if err != nil {
		return err
	}

	srcIdx, tgtIdx, ok := findLCA(sourcePath, sourceDepth, targetPath, targetDepth)
	if !ok {
		return ErrStateDepthExceeded
	}

	for i := 0; i < srcIdx; i++ {
		m.exit(sourcePath[i])
	}

	m.emitTran(signal, source, target)

	for i := tgtIdx - 1; i >= 0; i-- {
		m.enter(targetPath[i])
	}

	m.state = target
	return m.initialDescent(target, false)
}

// statePath builds [state, parent(state), ..., top] by probing each handler
// with SignalEmpty until a non-Super outcome is returned.
func (m *Machine[T]) statePath(start Handler[T]) (path [MaxStateDepth]Handler[T], depth int, err error) {
	path[0] = start
	depth = 1
	cur := start
	for {
		out := cur(m.owner, emptyProbe)
		if out.kind != kindSuper {
			return path, depth, nil
		}
		if depth >= MaxStateDepth {
			return path, depth, ErrStateDepthExceeded
		}
		path[depth] = out.target
		cur = out.target
		depth++
	}
}

// findLCA returns the index, in each path, of the deepest state common to
// both. Paths are ordered leaf-to-root, so the first match found scanning
// sourcePath from its leaf is necessarily the deepest.
func findLCA[T any](sourcePath [MaxStateDepth]Handler[T], sourceDepth int, targetPath [MaxStateDepth]Handler[T], targetDepth int) (srcIdx, tgtIdx int, ok bool) {
	for i := 0; i < sourceDepth; i++ {
		for j := 0; j < targetDepth; j++ {
			if handlerID(sourcePath[i]) == handlerID(targetPath[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func (m *Machine[T]) exit(h Handler[T]) {
	_ = h(m.owner, exitProbe)
	m.emitStateExit(h)
}

func (m *Machine[T]) enter(h Handler[T]) {
	_ = h(m.owner, entryProbe)
	m.emitStateEntry(h)
}

func (m *Machine[T]) emitStateEntry(h Handler[T]) {
	if m.tracer != nil {
		m.tracer.StateEntry(m.objAddr, handlerID(h))
	}
}

func (m *Machine[T]) emitStateExit(h Handler[T]) {
	if m.tracer != nil {
		m.tracer.StateExit(m.objAddr, handlerID(h))
	}
}

func (m *Machine[T]) emitInitTran(target Handler[T]) {
	if m.tracer != nil {
		m.tracer.InitTran(m.objAddr, handlerID(target))
	}
}

func (m *Machine[T]) emitStateInit(source, target Handler[T]) {
	if m.tracer != nil {
		m.tracer.StateInit(m.objAddr, handlerID(source), handlerID(target))
	}
}

func (m *Machine[T]) emitInternTran(signal event.Signal, state Handler[T]) {
	if m.tracer != nil {
		m.tracer.InternTran(signal, m.objAddr, handlerID(state))
	}
}

func (m *Machine[T]) emitTran(signal event.Signal, source, target Handler[T]) {
	if m.tracer != nil {
		m.tracer.Tran(signal, m.objAddr, handlerID(source), handlerID(target))
	}
}

func (m *Machine[T]) emitIgnored(signal event.Signal, state Handler[T]) {
	if m.tracer != nil {
		m.tracer.Ignored(signal, m.objAddr, handlerID(state))
	}
}

func (m *Machine[T]) emitDispatch(signal event.Signal, state Handler[T]) {
	if m.tracer != nil {
		m.tracer.Dispatch(signal, m.objAddr, handlerID(state))
	}
}

func (m *Machine[T]) emitUnhandled(signal event.Signal, state Handler[T]) {
	if m.tracer != nil {
		m.tracer.Unhandled(signal, m.objAddr, handlerID(state))
	}
}
