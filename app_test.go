package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/pizzamaker/internal/config"
	"github.com/chazu/pizzamaker/pkg/geometry"
	"github.com/chazu/pizzamaker/pkg/model"
)

// newTestApp returns an App with a coarse mesh so tests stay fast.
func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Mesh.Cells = 40
	app, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	return app
}

// requireClean fails the test on any reported error.
func requireClean(t *testing.T, result ViewResult) {
	t.Helper()
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
}

// TestE2EDefaultPizza exercises the full pipeline: params → model → scene
// → tessellate → meshes, the same path the frontend takes on load.
func TestE2EDefaultPizza(t *testing.T) {
	app := newTestApp(t)
	result := app.Meshes()
	requireClean(t, result)

	if result.Params != geometry.DefaultParams() {
		t.Errorf("params = %v, want defaults", result.Params)
	}
	if len(result.Meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(result.Meshes))
	}

	wantColors := map[string]string{"body": model.BodyColor, "crust": model.CrustColor}
	for _, m := range result.Meshes {
		color, ok := wantColors[m.PartName]
		if !ok {
			t.Errorf("unexpected part name: %q", m.PartName)
			continue
		}
		delete(wantColors, m.PartName)

		if len(m.Vertices) == 0 {
			t.Errorf("part %q: no vertices", m.PartName)
		}
		if len(m.Normals) != len(m.Vertices) {
			t.Errorf("part %q: %d normals for %d vertex floats", m.PartName, len(m.Normals), len(m.Vertices))
		}
		if len(m.Indices) == 0 {
			t.Errorf("part %q: no indices", m.PartName)
		}
		if m.Color != color {
			t.Errorf("part %q: color %s, want %s", m.PartName, m.Color, color)
		}
	}
	for name := range wantColors {
		t.Errorf("missing mesh for part %q", name)
	}
}

// TestE2ESetters moves every slider once and checks the parameters follow.
func TestE2ESetters(t *testing.T) {
	app := newTestApp(t)

	requireClean(t, app.SetSides(12))
	requireClean(t, app.SetExtrusionHeight(1.0))
	requireClean(t, app.SetCrustThickness(0.5))
	requireClean(t, app.SetCrustProportion(0.3))
	result := app.SetNumSlices(5)
	requireClean(t, result)

	want := geometry.Params{
		Sides:           12,
		ExtrusionHeight: 1.0,
		CrustThickness:  0.5,
		CrustProportion: 0.3,
		NumSlices:       5,
	}
	if result.Params != want {
		t.Errorf("params = %v, want %v", result.Params, want)
	}
	if app.Params() != want {
		t.Errorf("Params() = %v, want %v", app.Params(), want)
	}
	if len(result.Meshes) != 2 {
		t.Errorf("expected 2 meshes, got %d", len(result.Meshes))
	}
}

// TestE2EHalfPizzaIsShorter checks that removing slices shrinks the mesh.
func TestE2EHalfPizzaIsShorter(t *testing.T) {
	app := newTestApp(t)
	whole := app.Meshes()
	half := app.SetNumSlices(4)
	requireClean(t, half)

	if len(half.Meshes[0].Indices) >= len(whole.Meshes[0].Indices) {
		t.Errorf("half body has %d indices, whole has %d", len(half.Meshes[0].Indices), len(whole.Meshes[0].Indices))
	}
}

// TestE2EPreset applies a preset script through the binding.
func TestE2EPreset(t *testing.T) {
	app := newTestApp(t)
	result := app.ApplyPreset(`
; half a hexagon pizza with a thick crust
(pizza :sides 6 :slices 4 :crust-thickness 0.6)
`)
	requireClean(t, result)

	if result.Params.Sides != 6 || result.Params.NumSlices != 4 || result.Params.CrustThickness != 0.6 {
		t.Errorf("params = %v", result.Params)
	}
	if result.Params.ExtrusionHeight != geometry.DefaultParams().ExtrusionHeight {
		t.Errorf("unnamed field changed: %v", result.Params)
	}
}

// TestE2EPresetSyntaxError reports errors and keeps the current pizza.
func TestE2EPresetSyntaxError(t *testing.T) {
	app := newTestApp(t)
	result := app.ApplyPreset("(pizza :sides 6")

	if len(result.Errors) == 0 {
		t.Fatal("expected errors for syntax error")
	}
	if result.Params != geometry.DefaultParams() {
		t.Errorf("params changed on error: %v", result.Params)
	}
	if len(result.Meshes) != 2 {
		t.Errorf("current pizza should still be shown, got %d meshes", len(result.Meshes))
	}
}

// TestE2EExamplePresets runs every preset shipped in examples/.
func TestE2EExamplePresets(t *testing.T) {
	paths, err := filepath.Glob("examples/*.lisp")
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no example presets found")
	}
	want := map[string]geometry.Params{
		"half_hexagon.lisp": {Sides: 6, ExtrusionHeight: 0.5, CrustThickness: 0.6, CrustProportion: 0.2, NumSlices: 4},
		"last_slice.lisp":   {Sides: 32, ExtrusionHeight: 0.2, CrustThickness: 0.4, CrustProportion: 0.2, NumSlices: 1},
		"deep_dish.lisp":    {Sides: 12, ExtrusionHeight: 1.5, CrustThickness: 0.25, CrustProportion: 0.35, NumSlices: 8},
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			source, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read %s: %v", path, err)
			}
			result := newTestApp(t).ApplyPreset(string(source))
			requireClean(t, result)
			if w, ok := want[filepath.Base(path)]; ok && result.Params != w {
				t.Errorf("params = %v, want %v", result.Params, w)
			}
		})
	}
}
