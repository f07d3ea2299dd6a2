package qf

import "time"

// kernelOptions holds configuration resolved from KernelOption values,
// matching spec.md §6's "configuration surface (kernel instance)".
type kernelOptions struct {
	name          string
	version       uint16
	maxActive     uint8
	maxTickRate   time.Duration
	tracer        Tracer
	idleCallback  func()
	eventQueueCap int
}

// KernelOption configures a Kernel at construction.
type KernelOption interface {
	applyKernel(*kernelOptions)
}

type kernelOptionFunc func(*kernelOptions)

func (f kernelOptionFunc) applyKernel(o *kernelOptions) { f(o) }

// WithName sets the kernel's display name, readable through Kernel.Name.
// The kernel does not put it into any trace record. Defaults to "qpkernel".
func WithName(name string) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) { o.name = name })
}

// WithVersion sets the kernel's numeric version, readable through
// Kernel.Version. The kernel does not emit TARGET_INFO itself.
func WithVersion(version uint16) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) { o.version = version })
}

// WithMaxActiveObjects records the expected maximum number of registered
// active objects. The value is stored only; Register does not check it.
// Defaults to 63, the largest value the priority space allows.
func WithMaxActiveObjects(max uint8) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) { o.maxActive = max })
}

// WithTracer installs the Kernel's QS trace sink. Defaults to nil (tracing
// disabled).
func WithTracer(tracer Tracer) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) { o.tracer = tracer })
}

// WithMaxTickRate throttles TimeEventWheel.Tick to at most one processed
// tick per interval; ticks arriving faster than that are coalesced. Backed
// by a sliding-window rate limiter (see TimeEventWheel.Tick). A zero value
// (the default) disables throttling.
func WithMaxTickRate(interval time.Duration) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) { o.maxTickRate = interval })
}

// WithIdleCallback installs a callback invoked once per transition to idle
// (no ready active object above the current ceiling).
func WithIdleCallback(cb func()) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) { o.idleCallback = cb })
}

// WithEventQueueCapacity records a default bounded-FIFO capacity. The value
// is stored only; NewActiveObject always takes its capacity as an explicit
// argument. Defaults to 16.
func WithEventQueueCapacity(capacity int) KernelOption {
	return kernelOptionFunc(func(o *kernelOptions) { o.eventQueueCap = capacity })
}

func resolveKernelOptions(opts []KernelOption) *kernelOptions {
	cfg := &kernelOptions{
		name:          "qpkernel",
		maxActive:     63,
		eventQueueCap: 16,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyKernel(cfg)
	}
	return cfg
}
