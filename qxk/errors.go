package qxk

import "errors"

var (
	// ErrTimeout reports an elapsed deadline. The primitives in this package
	// have no timed wait, so none of them returns it.
	ErrTimeout = errors.New("qxk: operation timed out")
	// ErrOverflow is returned by Semaphore.Signal when incrementing would
	// exceed the semaphore's configured maximum count.
	ErrOverflow = errors.New("qxk: semaphore count overflow")
	// ErrQueueFull is returned by Queue.TrySend when the queue is at
	// capacity.
	ErrQueueFull = errors.New("qxk: message queue is full")
	// ErrQueueEmpty is returned by Queue.TryReceive when the queue holds
	// no messages.
	ErrQueueEmpty = errors.New("qxk: message queue is empty")
	// ErrInvalidOperation is returned by Mutex.Unlock when called by a
	// thread other than the current owner.
	ErrInvalidOperation = errors.New("qxk: invalid operation")
)
