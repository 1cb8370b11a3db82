package transform

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mogaika/scenegraph/config"
)

// Handle addresses a Transform inside a Registry.
// The low 32 bits are the slot index, the high 32 bits its generation,
// so a handle stops resolving once its transform is destroyed.
type Handle uint64

// Nil never resolves.
const Nil Handle = 0

func makeHandle(index, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(index))
}

func (h Handle) index() uint32      { return uint32(h) }
func (h Handle) generation() uint32 { return uint32(uint64(h) >> 32) }

func (h Handle) String() string {
	if h == Nil {
		return "nil"
	}
	return fmt.Sprintf("%d:%d", h.index(), h.generation())
}

type slot struct {
	t   *Transform
	gen uint32
}

// Registry owns the slots transforms are addressed by and drives change
// propagation through hierarchies built from its transforms.
// It must not be used from multiple goroutines at once.
type Registry struct {
	slots []slot
	free  []uint32
	count int

	// one FIFO of pending Changed broadcasts per running propagate,
	// innermost last
	pending [][]Handle

	cfg config.Config
	log *zap.Logger
}

type Option func(*Registry)

func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

func WithConfig(c config.Config) Option {
	return func(r *Registry) { r.cfg = c }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		cfg: config.Get(),
		log: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers a standalone transform and returns its handle.
// Adding a transform that already belongs to a registry panics.
func (r *Registry) Add(t *Transform) Handle {
	if t.reg != nil {
		panic(fmt.Sprintf("transform: %v is already registered", t))
	}

	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		idx = uint32(len(r.slots))
		r.slots = append(r.slots, slot{gen: 1})
	}
	s := &r.slots[idx]
	s.t = t
	r.count++

	t.reg = r
	t.handle = makeHandle(idx, s.gen)
	r.log.Debug("transform added", zap.Stringer("handle", t.handle), zap.String("name", t.Name))
	return t.handle
}

func (r *Registry) Get(h Handle) (*Transform, bool) {
	idx := h.index()
	if h == Nil || int(idx) >= len(r.slots) {
		return nil, false
	}
	s := r.slots[idx]
	if s.t == nil || s.gen != h.generation() {
		return nil, false
	}
	return s.t, true
}

func (r *Registry) Contains(h Handle) bool {
	_, ok := r.Get(h)
	return ok
}

func (r *Registry) Len() int { return r.count }

// Each calls f for every live transform in slot order until f returns false.
func (r *Registry) Each(f func(*Transform) bool) {
	for i := range r.slots {
		if t := r.slots[i].t; t != nil {
			if !f(t) {
				return
			}
		}
	}
}

// Destroy destroys the transform addressed by h.
// It returns false if h does not resolve.
func (r *Registry) Destroy(h Handle) bool {
	t, ok := r.Get(h)
	if !ok {
		return false
	}
	t.Destroy()
	return true
}

func (r *Registry) remove(t *Transform) {
	idx := t.handle.index()
	s := &r.slots[idx]
	s.t = nil
	if s.gen++; s.gen == 0 {
		s.gen = 1
	}
	r.free = append(r.free, idx)
	r.count--

	r.log.Debug("transform destroyed", zap.Stringer("handle", t.handle), zap.String("name", t.Name))
	t.reg = nil
	t.handle = Nil
}

// propagate broadcasts Changed for t and, through the handlers it
// triggers, for every descendant before returning. Handlers of parent
// changes enqueue onto the innermost running worklist instead of
// broadcasting themselves, so a cascade of any depth runs without
// growing the stack. A mutator called from a listener starts a
// worklist of its own and drains it before it returns.
func (r *Registry) propagate(t *Transform) {
	r.pending = append(r.pending, []Handle{t.handle})
	level := len(r.pending) - 1
	defer func() {
		r.pending[level] = nil
		r.pending = r.pending[:level]
	}()

	for i := 0; i < len(r.pending[level]); i++ {
		if x, ok := r.Get(r.pending[level][i]); ok {
			x.notifier.Broadcast(Changed, x)
		}
	}
}

// enqueue schedules Changed for t on the innermost running propagate.
func (r *Registry) enqueue(t *Transform) {
	if n := len(r.pending); n > 0 {
		r.pending[n-1] = append(r.pending[n-1], t.handle)
		return
	}
	r.propagate(t)
}
