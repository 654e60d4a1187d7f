package schematic

import "fmt"

// Binding names the library symbol a device set prefix is drawn with.
type Binding struct {
	Library string `yaml:"library" toml:"library"`
	Symbol  string `yaml:"symbol" toml:"symbol"`
}

// Config controls layout, routing and device binding.
type Config struct {
	// Auto-arrangement
	XSpacing float64 // Half the horizontal pitch between instances (default: 20)
	YSpacing float64 // Half the vertical pitch between prefix bands (default: 20)
	Padding  float64 // Margin around the sheet and first instance (default: 5)

	// Routing
	WireWidth     float64 // Stroke width of routed wires (default: 0.2)
	InitialOffset float64 // Detour offset of the first routed connection (default: 2)
	OffsetStep    float64 // Offset increase per routed connection (default: 1)

	// Gate name used in pin references (default: "G$1")
	Gate string

	// Bindings maps a reference designator prefix to its symbol.
	Bindings map[string]Binding
}

// DefaultConfig returns a Config binding Q to an NPN transistor and R to a
// resistor.
func DefaultConfig() *Config {
	return &Config{
		XSpacing:      20,
		YSpacing:      20,
		Padding:       5,
		WireWidth:     0.2,
		InitialOffset: 2,
		OffsetStep:    1,
		Gate:          "G$1",
		Bindings: map[string]Binding{
			"Q": {Library: "transistor-npn", Symbol: "NPN"},
			"R": {Library: "resistor-power", Symbol: "R"},
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.XSpacing <= 0 || c.YSpacing <= 0 {
		return fmt.Errorf("%w: spacing must be positive", ErrInvalidConfig)
	}
	if c.Padding < 0 {
		return fmt.Errorf("%w: padding must not be negative", ErrInvalidConfig)
	}
	if c.WireWidth <= 0 {
		return fmt.Errorf("%w: wire width must be positive", ErrInvalidConfig)
	}
	if c.Gate == "" {
		return fmt.Errorf("%w: gate name is empty", ErrInvalidConfig)
	}
	for prefix, b := range c.Bindings {
		if prefix == "" {
			return fmt.Errorf("%w: binding with empty prefix", ErrInvalidConfig)
		}
		if b.Library == "" || b.Symbol == "" {
			return fmt.Errorf("%w: binding for %q needs library and symbol", ErrInvalidConfig, prefix)
		}
	}
	return nil
}

func (c *Config) clone() *Config {
	cp := *c
	cp.Bindings = make(map[string]Binding, len(c.Bindings))
	for k, v := range c.Bindings {
		cp.Bindings[k] = v
	}
	return &cp
}
