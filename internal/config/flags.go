package config

import "flag"

// Numeric pizza flags default to -1, meaning "not given"; zero is a valid
// crust value.
var (
	flagConfig         = flag.String("config", "", "Path to config file")
	flagDebug          = flag.Bool("debug", false, "Enable debug logging")
	flagSides          = flag.Int("sides", -1, "Number of polygon sides (3-32)")
	flagHeight         = flag.Float64("height", -1, "Body extrusion height")
	flagCrustThickness = flag.Float64("crust-thickness", -1, "Extra height of the crust")
	flagCrust          = flag.Float64("crust", -1, "Fraction of the radius taken by crust")
	flagSlices         = flag.Int("slices", -1, "Remaining eighths of the pizza (1-8)")
	flagPreset         = flag.String("preset", "", "Preset script applied after the parameters")
	flagOut            = flag.String("out", "", "STL output path")
	flagCells          = flag.Int("cells", 0, "Marching cubes resolution")
	flagKernel         = flag.String("kernel", "", "Geometry kernel: sdfx or manifold")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagSides >= 0 {
		cfg.Pizza.Sides = *flagSides
	}
	if *flagHeight >= 0 {
		cfg.Pizza.ExtrusionHeight = *flagHeight
	}
	if *flagCrustThickness >= 0 {
		cfg.Pizza.CrustThickness = *flagCrustThickness
	}
	if *flagCrust >= 0 {
		cfg.Pizza.CrustProportion = *flagCrust
	}
	if *flagSlices >= 0 {
		cfg.Pizza.NumSlices = *flagSlices
	}
	if *flagPreset != "" {
		cfg.Preset = *flagPreset
	}
	if *flagOut != "" {
		cfg.Export.Path = *flagOut
	}
	if *flagCells > 0 {
		cfg.Mesh.Cells = *flagCells
	}
	if *flagKernel != "" {
		cfg.Mesh.Kernel = *flagKernel
	}
}
