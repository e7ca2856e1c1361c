// Command pizzagen builds a pizza from flags, a config file and an optional
// preset script, prints mesh statistics and writes the union of body and
// crust to an STL file.
package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/chazu/pizzamaker/internal/config"
	"github.com/chazu/pizzamaker/internal/logger"
	"github.com/chazu/pizzamaker/pkg/engine"
	"github.com/chazu/pizzamaker/pkg/geometry"
	"github.com/chazu/pizzamaker/pkg/kernel"
	"github.com/chazu/pizzamaker/pkg/kernel/backend"
	"github.com/chazu/pizzamaker/pkg/model"
	"github.com/chazu/pizzamaker/pkg/scene"
	"github.com/chazu/pizzamaker/pkg/tessellate"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pizzagen: %v\n", err)
		os.Exit(2)
	}

	if err := logger.InitWithFileConfig(cfg.Logging.Level, cfg.Logging.FileConfig(), true); err != nil {
		fmt.Fprintf(os.Stderr, "pizzagen: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	if err := run(cfg, os.Stdout); err != nil {
		logger.Error("pizzagen failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// run generates the pizza described by cfg and reports to out.
func run(cfg *config.Config, out io.Writer) error {
	k, err := backend.New(cfg.Mesh.Kernel, cfg.Mesh.Cells)
	if err != nil {
		return err
	}

	params, err := resolveParams(cfg)
	if err != nil {
		return err
	}

	sc := scene.New()
	m, err := model.New(k, sc, model.WithParams(params), model.WithLogger(logger.Log))
	if err != nil {
		return err
	}
	solids := m.Solids()

	parts, err := tessellate.Parts(sc.Nodes(), k)
	if err != nil {
		return err
	}
	report(out, solids.Params, parts)

	exp, ok := k.(kernel.Exporter)
	if !ok {
		return fmt.Errorf("kernel %q cannot export STL", cfg.Mesh.Kernel)
	}
	pizza := k.Union(solids.Body.Solid, solids.Crust.Solid)
	if err := exp.ExportSTL(pizza, cfg.Export.Path); err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	logger.Info("wrote STL", zap.String("path", cfg.Export.Path))
	fmt.Fprintf(out, "wrote %s\n", cfg.Export.Path)
	return nil
}

// resolveParams applies the configured preset, if any, on top of the
// configured parameters.
func resolveParams(cfg *config.Config) (geometry.Params, error) {
	src, err := cfg.ReadPreset()
	if err != nil || src == "" {
		return cfg.Pizza, err
	}

	p, evalErrs, err := engine.NewEngine().Evaluate(cfg.Pizza, src)
	if err != nil {
		return geometry.Params{}, fmt.Errorf("preset %s: %w", cfg.Preset, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			logger.Error("preset error", zap.String("preset", cfg.Preset), zap.Int("line", e.Line), zap.String("msg", e.Message))
		}
		return geometry.Params{}, fmt.Errorf("preset %s: %w", cfg.Preset, evalErrs[0])
	}
	logger.Debug("preset applied", zap.String("preset", cfg.Preset), zap.Stringer("params", p))
	return *p, nil
}

// report prints the parameters and one line per part.
func report(out io.Writer, p geometry.Params, parts []tessellate.Part) {
	pizza := geometry.Build(p)
	areas := map[string]float64{
		pizza.Body.Name:  pizza.Body.Outline.Area(),
		pizza.Crust.Name: pizza.Crust.Outline.Area(),
	}

	fmt.Fprintf(out, "pizza: %s\n", p)
	meshes := make([]*kernel.Mesh, len(parts))
	for i, part := range parts {
		meshes[i] = part.Mesh
		fmt.Fprintf(out, "  %-6s %7d vertices %7d triangles  area %.4f\n",
			part.Mesh.PartName, part.Mesh.VertexCount(), part.Mesh.TriangleCount(), areas[part.Mesh.PartName])
	}
	st := tessellate.Summarize(meshes)
	fmt.Fprintf(out, "  total  %7d vertices %7d triangles in %d parts\n", st.Vertices, st.Triangles, st.Parts)
}
