package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"github.com/chazu/pizzamaker/internal/config"
	"github.com/chazu/pizzamaker/pkg/engine"
	"github.com/chazu/pizzamaker/pkg/geometry"
	"github.com/chazu/pizzamaker/pkg/kernel"
	"github.com/chazu/pizzamaker/pkg/kernel/backend"
	"github.com/chazu/pizzamaker/pkg/model"
	"github.com/chazu/pizzamaker/pkg/scene"
	"github.com/chazu/pizzamaker/pkg/tessellate"
)

// RebuiltEvent is emitted to the frontend after every rebuild.
const RebuiltEvent = "pizza:rebuilt"

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	cfg    *config.Config
	log    *zap.Logger
	kernel kernel.Kernel
	scene  *scene.Scene
	model  *model.Model
	engine *engine.Engine

	// presetMu serializes preset runs; zygomys sandboxes share global state.
	presetMu sync.Mutex

	meshMu    sync.Mutex
	meshFor   *model.Solids
	meshCache []MeshData
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// ErrorData is a JSON-serializable error for the frontend.
type ErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ViewResult is returned to the frontend by every binding that may change
// the pizza: the current parameters, their meshes and any errors. On error
// the previous pizza is still shown.
type ViewResult struct {
	Params geometry.Params `json:"params"`
	Meshes []MeshData      `json:"meshes"`
	Errors []ErrorData     `json:"errors"`
}

// NewApp builds the kernel, scene and model described by cfg.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	k, err := backend.New(cfg.Mesh.Kernel, cfg.Mesh.Cells)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		log:    log.Named("app"),
		kernel: k,
		scene:  scene.New(),
		engine: engine.NewEngine(),
	}
	a.model, err = model.New(k, a.scene, model.WithParams(cfg.Pizza), model.WithLogger(log))
	if err != nil {
		return nil, err
	}
	a.model.OnRebuild(a.emitRebuilt)
	return a, nil
}

// startup is called by Wails on app startup. The context is saved
// so the runtime can emit events later.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.log.Info("viewer started", zap.Stringer("params", a.model.Params()))
}

// emitRebuilt tells the frontend the pizza changed. It is a no-op outside
// the Wails runtime.
func (a *App) emitRebuilt(s *model.Solids) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, RebuiltEvent, s.Params)
}

// Params returns the current parameters.
func (a *App) Params() geometry.Params {
	return a.model.Params()
}

// RangeData describes one slider.
type RangeData struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Ranges returns the slider bounds keyed by parameter name.
func (a *App) Ranges() map[string]RangeData {
	conv := func(r geometry.Range) RangeData { return RangeData{Min: r.Min, Max: r.Max, Step: r.Step} }
	return map[string]RangeData{
		"sides":           conv(geometry.Ranges.Sides),
		"extrusionHeight": conv(geometry.Ranges.ExtrusionHeight),
		"crustThickness":  conv(geometry.Ranges.CrustThickness),
		"crustProportion": conv(geometry.Ranges.CrustProportion),
		"numSlices":       conv(geometry.Ranges.NumSlices),
	}
}

// Meshes returns the current pizza without changing it.
func (a *App) Meshes() ViewResult {
	return a.view(nil)
}

// SetSides is bound to the sides slider.
func (a *App) SetSides(n int) ViewResult {
	return a.set("sides", geometry.Ranges.Sides, float64(n), func() error { return a.model.SetSides(n) })
}

// SetExtrusionHeight is bound to the extrusion slider.
func (a *App) SetExtrusionHeight(h float64) ViewResult {
	return a.set("extrusion height", geometry.Ranges.ExtrusionHeight, h, func() error { return a.model.SetExtrusionHeight(h) })
}

// SetCrustThickness is bound to the crust thickness slider.
func (a *App) SetCrustThickness(t float64) ViewResult {
	return a.set("crust thickness", geometry.Ranges.CrustThickness, t, func() error { return a.model.SetCrustThickness(t) })
}

// SetCrustProportion is bound to the crust proportion slider.
func (a *App) SetCrustProportion(c float64) ViewResult {
	return a.set("crust proportion", geometry.Ranges.CrustProportion, c, func() error { return a.model.SetCrustProportion(c) })
}

// SetNumSlices is bound to the slices slider.
func (a *App) SetNumSlices(n int) ViewResult {
	return a.set("slices", geometry.Ranges.NumSlices, float64(n), func() error { return a.model.SetNumSlices(n) })
}

// set range-checks v before handing the change to the model.
func (a *App) set(name string, r geometry.Range, v float64, apply func() error) ViewResult {
	if !r.Contains(v) {
		err := fmt.Errorf("%w: %s %g outside [%g, %g]", geometry.ErrInvalidParams, name, v, r.Min, r.Max)
		a.log.Warn("rejected slider value", zap.Error(err))
		return a.view([]ErrorData{{Message: err.Error()}})
	}
	if err := apply(); err != nil {
		a.log.Error("rebuild failed", zap.String("param", name), zap.Error(err))
		return a.view([]ErrorData{{Message: err.Error()}})
	}
	return a.view(nil)
}

// ApplyPreset runs a preset script on top of the current parameters and
// applies the result in a single rebuild.
func (a *App) ApplyPreset(source string) ViewResult {
	a.presetMu.Lock()
	p, evalErrs, err := a.engine.Evaluate(a.model.Params(), source)
	a.presetMu.Unlock()

	if err != nil {
		a.log.Error("preset failed", zap.Error(err))
		return a.view([]ErrorData{{Message: err.Error()}})
	}
	if len(evalErrs) > 0 {
		errs := make([]ErrorData, len(evalErrs))
		for i, e := range evalErrs {
			errs[i] = ErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		}
		return a.view(errs)
	}
	if err := a.model.SetParams(*p); err != nil {
		a.log.Error("rebuild failed", zap.Error(err))
		return a.view([]ErrorData{{Message: err.Error()}})
	}
	return a.view(nil)
}

// SaveSettings writes the current parameters to the user config file.
func (a *App) SaveSettings() error {
	cfg := *a.cfg
	cfg.Pizza = a.model.Params()
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	a.log.Info("settings saved", zap.String("dir", config.ConfigDir()))
	return nil
}

// view builds the result for the current snapshot. Meshes are tessellated
// once per snapshot.
func (a *App) view(errs []ErrorData) ViewResult {
	if errs == nil {
		errs = []ErrorData{}
	}
	solids := a.model.Solids()
	result := ViewResult{Params: solids.Params, Meshes: []MeshData{}, Errors: errs}

	meshes, err := a.meshes(solids)
	if err != nil {
		a.log.Error("tessellation failed", zap.Error(err))
		result.Errors = append(result.Errors, ErrorData{Message: "tessellation failed: " + err.Error()})
		return result
	}
	result.Meshes = meshes
	return result
}

func (a *App) meshes(solids *model.Solids) ([]MeshData, error) {
	a.meshMu.Lock()
	defer a.meshMu.Unlock()
	if a.meshFor == solids {
		return a.meshCache, nil
	}

	parts, err := tessellate.Parts(solids.Nodes(), a.kernel)
	if err != nil {
		return nil, err
	}
	out := make([]MeshData, len(parts))
	for i, p := range parts {
		out[i] = MeshData{
			Vertices: p.Mesh.Vertices,
			Normals:  p.Mesh.Normals,
			Indices:  p.Mesh.Indices,
			PartName: p.Mesh.PartName,
			Color:    p.Color,
		}
	}
	a.meshFor, a.meshCache = solids, out
	return out, nil
}
