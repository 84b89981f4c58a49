package instrument

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overlayFile is the YAML shape of an instrument overlay:
//
//	instruments:
//	  - symbol: BTCUSD
//	    price_scale: 10
//	  - symbol: USDJPY
//	    price_scale: 1000
type overlayFile struct {
	Instruments []overlayEntry `yaml:"instruments"`
}

type overlayEntry struct {
	Symbol     string `yaml:"symbol"`
	PriceScale int64  `yaml:"price_scale"`
}

// Load returns the built-in table with the overlay file's entries applied on
// top. Overlay entries add new symbols or replace built-in ones.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instrument overlay: %w", err)
	}

	var file overlayFile
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &file); err != nil {
		return nil, fmt.Errorf("parse instrument overlay: %w", err)
	}

	merged := make([]Instrument, 0, builtin.Len()+len(file.Instruments))
	for _, sym := range builtin.Symbols() {
		inst, _ := builtin.Lookup(sym)
		merged = append(merged, inst)
	}
	for _, e := range file.Instruments {
		merged = append(merged, Instrument{Symbol: e.Symbol, PriceScale: e.PriceScale})
	}

	t, err := New(merged)
	if err != nil {
		return nil, fmt.Errorf("instrument overlay %s: %w", path, err)
	}
	return t, nil
}
