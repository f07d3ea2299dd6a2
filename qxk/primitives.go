package qxk

import (
	"math"
	"sort"
	"sync"
)

// waiterList holds threads blocked on a primitive, ready to be woken
// highest-priority-first. Grounded on primitives.rs's WaitingThread plus
// each primitive's sort-by-priority-then-remove(0) wake step.
type waiterList struct {
	threads []*Thread
}

func (w *waiterList) add(t *Thread) {
	t.state = StateBlocked
	w.threads = append(w.threads, t)
}

// wakeHighest wakes and removes the highest-priority waiter, if any.
func (w *waiterList) wakeHighest() {
	if len(w.threads) == 0 {
		return
	}
	sort.SliceStable(w.threads, func(i, j int) bool {
		return w.threads[i].Priority > w.threads[j].Priority
	})
	woken := w.threads[0]
	w.threads = w.threads[1:]
	woken.wake()
}

func (w *waiterList) wakeAll() {
	for _, t := range w.threads {
		t.wake()
	}
	w.threads = nil
}

func (w *waiterList) len() int { return len(w.threads) }

// Semaphore is a counting semaphore extended threads use to signal and wait
// on resource availability. Grounded on primitives.rs's Semaphore; unlike
// the original's spin-waiting wait(), Wait here registers the calling
// thread as a waiter and returns Blocked, per spec.md §4.G.
type Semaphore struct {
	mu      sync.Mutex
	count   uint64
	max     uint64
	waiters waiterList
}

// NewSemaphore creates a semaphore with the given initial count and no
// upper bound.
func NewSemaphore(initial uint64) *Semaphore {
	return NewSemaphoreMax(initial, math.MaxUint64)
}

// NewSemaphoreMax creates a semaphore with an initial and maximum count.
func NewSemaphoreMax(initial, max uint64) *Semaphore {
	return &Semaphore{count: initial, max: max}
}

// NewBinarySemaphore creates a semaphore capped at one outstanding signal.
func NewBinarySemaphore() *Semaphore {
	return NewSemaphoreMax(0, 1)
}

// TryWait attempts to acquire without blocking, returning true if it did.
func (s *Semaphore) TryWait() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count > 0 {
		s.count--
		return true
	}
	return false
}

// Wait acquires the semaphore, registering t as a waiter and returning
// Blocked if it would otherwise block.
func (s *Semaphore) Wait(t *Thread) Action {
	if s.TryWait() {
		return Continue
	}
	s.mu.Lock()
	s.waiters.add(t)
	s.mu.Unlock()
	return Blocked
}

// Signal increments the count and wakes the highest-priority waiter, if
// any. Returns ErrOverflow if the count is already at its configured
// maximum.
func (s *Semaphore) Signal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count >= s.max {
		return ErrOverflow
	}
	s.count++
	s.waiters.wakeHighest()
	return nil
}

// Count returns the current count.
func (s *Semaphore) Count() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Mutex is a mutual-exclusion lock for extended threads, with optional
// priority inheritance. Grounded on primitives.rs's MutexPrim.
type Mutex struct {
	mu       sync.Mutex
	locked   bool
	owner    ID
	hasOwner bool
	inherit  bool
	waiters  waiterList

	basePriority     Priority
	hasBasePriority  bool
}

// NewMutex creates a mutex with no priority inheritance.
func NewMutex() *Mutex {
	return &Mutex{}
}

// NewPriorityInheritingMutex creates a mutex that, while locked and a
// higher-priority thread is waiting, temporarily lifts the owner's
// effective priority to the highest waiter's, restoring it on unlock.
func NewPriorityInheritingMutex() *Mutex {
	return &Mutex{inherit: true}
}

// TryLock attempts to lock without blocking.
func (m *Mutex) TryLock(t *Thread) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		return false
	}
	m.locked = true
	m.owner = t.ID
	m.hasOwner = true
	return true
}

// Lock locks the mutex, registering t as a waiter and returning Blocked if
// it would otherwise block. When the mutex supports priority inheritance
// and t outranks the current owner, the owner's thread is boosted to t's
// priority for the duration of the lock.
func (m *Mutex) Lock(t *Thread, owner *Thread) Action {
	if m.TryLock(t) {
		return Continue
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waiters.add(t)
	if m.inherit && owner != nil && t.Priority > owner.Priority {
		if !m.hasBasePriority {
			m.basePriority = owner.Priority
			m.hasBasePriority = true
		}
		owner.Priority = t.Priority
	}
	return Blocked
}

// Unlock unlocks the mutex, restoring any priority inheritance boost and
// waking the highest-priority waiter. Returns ErrInvalidOperation if t is
// not the current owner.
func (m *Mutex) Unlock(t *Thread) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasOwner || m.owner != t.ID {
		return ErrInvalidOperation
	}
	if m.hasBasePriority {
		t.Priority = m.basePriority
		m.hasBasePriority = false
	}
	m.locked = false
	m.hasOwner = false
	m.waiters.wakeHighest()
	return nil
}

// IsLocked reports whether the mutex is currently held.
func (m *Mutex) IsLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

// Owner returns the current owner and whether the mutex is held.
func (m *Mutex) Owner() (ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owner, m.hasOwner
}

// Queue is a bounded FIFO used for inter-thread message passing.
// Grounded on primitives.rs's MessageQueue.
type Queue[T any] struct {
	mu               sync.Mutex
	items            []T
	capacity         int
	waitingReceivers waiterList
	waitingSenders   waiterList
}

// NewQueue creates a queue with the given capacity.
func NewQueue[T any](capacity int) *Queue[T] {
	return &Queue[T]{capacity: capacity}
}

// TrySend enqueues a message without blocking, returning ErrQueueFull if
// the queue is already at capacity.
func (q *Queue[T]) TrySend(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.capacity {
		return ErrQueueFull
	}
	q.items = append(q.items, v)
	q.waitingReceivers.wakeHighest()
	return nil
}

// TryReceive dequeues a message without blocking, returning ErrQueueEmpty
// if the queue holds nothing.
func (q *Queue[T]) TryReceive() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero T
	if len(q.items) == 0 {
		return zero, ErrQueueEmpty
	}
	v := q.items[0]
	q.items = q.items[1:]
	q.waitingSenders.wakeHighest()
	return v, nil
}

// Send enqueues v, registering t as a waiting sender and returning Blocked
// if the queue is full.
func (q *Queue[T]) Send(t *Thread, v T) Action {
	if err := q.TrySend(v); err == nil {
		return Continue
	}
	q.mu.Lock()
	q.waitingSenders.add(t)
	q.mu.Unlock()
	return Blocked
}

// Receive dequeues a message, registering t as a waiting receiver and
// returning the zero value with Blocked if the queue is empty.
func (q *Queue[T]) Receive(t *Thread) (T, Action) {
	if v, err := q.TryReceive(); err == nil {
		return v, Continue
	}
	q.mu.Lock()
	q.waitingReceivers.add(t)
	q.mu.Unlock()
	var zero T
	return zero, Blocked
}

// Len returns the number of messages currently queued.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// IsFull reports whether the queue is at capacity.
func (q *Queue[T]) IsFull() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) >= q.capacity
}

// CondVar lets threads wait for, and notify on, a condition external to
// the primitive itself. Grounded on primitives.rs's CondVar.
type CondVar struct {
	mu      sync.Mutex
	waiters waiterList
}

// NewCondVar creates an empty condition variable.
func NewCondVar() *CondVar {
	return &CondVar{}
}

// Wait registers t as waiting and always returns Blocked: unlike a
// semaphore or queue, a condition variable has no independently-testable
// state to short-circuit against.
func (c *CondVar) Wait(t *Thread) Action {
	c.mu.Lock()
	c.waiters.add(t)
	c.mu.Unlock()
	return Blocked
}

// NotifyOne wakes the highest-priority waiter, if any.
func (c *CondVar) NotifyOne() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waiters.wakeHighest()
}

// NotifyAll wakes every waiter.
func (c *CondVar) NotifyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waiters.wakeAll()
}

// WaitingCount returns the number of threads currently waiting.
func (c *CondVar) WaitingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiters.len()
}
