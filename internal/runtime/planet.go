package runtime

import (
	"sync"

	"github.com/keylang/key/internal/diag"
	"github.com/keylang/key/internal/values"
)

// PlanetState is one of Planet's three states.
type PlanetState int

const (
	Scroll PlanetState = iota // pending
	Ok                        // resolved, value not yet consumed
	Died                      // consumed
)

// Planet is a cooperative, single-shot future. `Fall` blocks the
// caller until the state becomes Ok, then consumes the stored value.
// `SetOk` moves Scroll -> Ok and wakes any waiter. Planets are
// non-copyable: Clone on a Ninst wrapping a Planet fails explicitly,
// enforced by the native class registered in internal/builtins.
type Planet struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state PlanetState
	value values.Litr
}

// NewPlanet creates a Planet in the Scroll state.
func NewPlanet() *Planet {
	p := &Planet{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Fall blocks until the planet resolves, then consumes and returns its
// value. Calling Fall again after the value has been consumed panics
// with an *uncatchable* diag error, since it indicates a
// host/native-module bug, not a user mistake.
func (p *Planet) Fall() values.Litr {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.state == Scroll {
		p.cond.Wait()
	}
	if p.state == Died {
		diag.Panic(diag.New(diag.Uncatchable, "", 0, "planet: fall on an already-consumed planet"))
	}
	v := p.value
	p.state = Died
	p.value = values.Litr{}
	return v
}

// SetOk resolves the planet, waking any blocked Fall. A second call is
// a silent no-op (the first resolution wins).
func (p *Planet) SetOk(v values.Litr) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Scroll {
		return
	}
	p.value = v
	p.state = Ok
	p.cond.Broadcast()
}

// State reports the current state without blocking.
func (p *Planet) State() PlanetState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// PlanetAll implements `Planet::all`: sequentially falls each planet
// and returns a list of results, in argument order.
func PlanetAll(ps []*Planet) []values.Litr {
	out := make([]values.Litr, len(ps))
	for i, p := range ps {
		out[i] = p.Fall()
	}
	return out
}

// WaitCounter is the process-level counter guarded by a mutex+condvar
// that describes: after `main` returns, the interpreter
// blocks at shutdown until the counter reaches zero.
type WaitCounter struct {
	mu   sync.Mutex
	cond *sync.Cond
	n    int
}

func NewWaitCounter() *WaitCounter {
	c := &WaitCounter{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *WaitCounter) Inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *WaitCounter) Dec() {
	c.mu.Lock()
	c.n--
	if c.n <= 0 {
		c.cond.Broadcast()
	}
	c.mu.Unlock()
}

func (c *WaitCounter) Wait() {
	c.mu.Lock()
	for c.n > 0 {
		c.cond.Wait()
	}
	c.mu.Unlock()
}
