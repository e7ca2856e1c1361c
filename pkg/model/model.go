// Package model holds the current pizza parameters and the two solids
// generated from them. Every parameter change rebuilds both solids from
// scratch and swaps them into the scene.
package model

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/chazu/pizzamaker/pkg/geometry"
	"github.com/chazu/pizzamaker/pkg/kernel"
	"github.com/chazu/pizzamaker/pkg/scene"
)

// Display colors of the two parts.
const (
	BodyColor  = "#FFA500"
	CrustColor = "#D4A574"
)

// Scene is the container the model publishes its solids to.
type Scene interface {
	Add(n *scene.Node) error
	Remove(n *scene.Node) bool
}

// Solids is an immutable snapshot of one build: the parameters it came
// from and the body and crust nodes that hold the solids.
type Solids struct {
	Params     geometry.Params
	Body       *scene.Node
	Crust      *scene.Node
	Generation uint64
}

// Nodes returns body and crust in render order.
func (s *Solids) Nodes() []*scene.Node {
	return []*scene.Node{s.Body, s.Crust}
}

// Model owns the current parameters and solids. Setters are serialized;
// readers get lock-free snapshots, so a render loop always sees a matching
// body and crust.
type Model struct {
	mu        sync.Mutex
	kernel    kernel.Kernel
	scene     Scene
	log       *zap.Logger
	observers []func(*Solids)

	current atomic.Pointer[Solids]
}

// Option configures a Model.
type Option func(*modelConfig)

type modelConfig struct {
	log    *zap.Logger
	params geometry.Params
}

// WithLogger sets the logger used for rebuild diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *modelConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithParams sets the initial parameters instead of the defaults.
func WithParams(p geometry.Params) Option {
	return func(c *modelConfig) {
		c.params = p
	}
}

// New builds the initial pizza and adds it to the scene.
func New(k kernel.Kernel, sc Scene, opts ...Option) (*Model, error) {
	cfg := modelConfig{
		log:    zap.NewNop(),
		params: geometry.DefaultParams(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Model{
		kernel: k,
		scene:  sc,
		log:    cfg.log.Named("model"),
	}
	m.mu.Lock()
	snap, err := m.rebuild(cfg.params)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m.log.Info("pizza model ready", zap.Stringer("params", snap.Params))
	return m, nil
}

// Params returns the current parameters.
func (m *Model) Params() geometry.Params {
	return m.current.Load().Params
}

// Solids returns the current snapshot. The returned value is never
// modified; later changes publish a new one.
func (m *Model) Solids() *Solids {
	return m.current.Load()
}

// OnRebuild registers fn to be called with every new snapshot.
func (m *Model) OnRebuild(fn func(*Solids)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// SetSides changes the polygon side count.
func (m *Model) SetSides(n int) error {
	return m.Update(func(p *geometry.Params) { p.Sides = n })
}

// SetExtrusionHeight changes the body thickness.
func (m *Model) SetExtrusionHeight(h float64) error {
	return m.Update(func(p *geometry.Params) { p.ExtrusionHeight = h })
}

// SetCrustThickness changes how much taller the crust is than the body.
func (m *Model) SetCrustThickness(t float64) error {
	return m.Update(func(p *geometry.Params) { p.CrustThickness = t })
}

// SetCrustProportion changes the fraction of the radius taken by crust.
func (m *Model) SetCrustProportion(c float64) error {
	return m.Update(func(p *geometry.Params) { p.CrustProportion = c })
}

// SetNumSlices changes how many eighths of the pizza remain.
func (m *Model) SetNumSlices(n int) error {
	return m.Update(func(p *geometry.Params) { p.NumSlices = n })
}

// SetParams replaces all parameters at once with a single rebuild.
func (m *Model) SetParams(p geometry.Params) error {
	return m.Update(func(cur *geometry.Params) { *cur = p })
}

// Update applies fn to a copy of the current parameters and rebuilds.
// Values are not range-checked here; that is the caller's job.
func (m *Model) Update(fn func(*geometry.Params)) error {
	m.mu.Lock()
	p := m.current.Load().Params
	fn(&p)
	snap, err := m.rebuild(p)
	observers := append([]func(*Solids){}, m.observers...)
	m.mu.Unlock()
	if err != nil {
		return err
	}

	for _, fn := range observers {
		fn(snap)
	}
	return nil
}

// rebuild generates fresh solids for p, removes the previous nodes from the
// scene, adds the new ones and publishes the snapshot. Must hold m.mu.
func (m *Model) rebuild(p geometry.Params) (*Solids, error) {
	start := time.Now()
	pizza := geometry.Build(p)

	prev := m.current.Load()
	next := &Solids{
		Params: p,
		Body:   scene.NewNode(pizza.Body.Name, kernel.ExtrudeProfile(m.kernel, pizza.Body), BodyColor),
		Crust:  scene.NewNode(pizza.Crust.Name, kernel.ExtrudeProfile(m.kernel, pizza.Crust), CrustColor),
	}
	if prev != nil {
		next.Generation = prev.Generation + 1
		for _, n := range prev.Nodes() {
			m.scene.Remove(n)
		}
	}
	for _, n := range next.Nodes() {
		if err := m.scene.Add(n); err != nil {
			return nil, fmt.Errorf("model: publishing %s: %w", n.Name, err)
		}
	}
	m.current.Store(next)

	m.log.Debug("pizza rebuilt",
		zap.Uint64("generation", next.Generation),
		zap.Stringer("params", p),
		zap.Bool("body_empty", pizza.Body.Outline.IsEmpty()),
		zap.Bool("crust_empty", pizza.Crust.Outline.IsEmpty()),
		zap.Bool("crust_hole", pizza.Crust.Outline.HasHole()),
		zap.Duration("took", time.Since(start)),
	)
	return next, nil
}
