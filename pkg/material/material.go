// Package material holds the closed table of metamaterial substrate
// properties used by the resonator designer.
package material

import (
	"fmt"
	"sort"
	"strings"
)

// Material describes a substrate the resonator array can be cast from.
type Material struct {
	Name          string  `json:"name"`
	Density       float64 `json:"density" doc:"Density in kg/m^3"`
	YoungsModulus float64 `json:"youngs_modulus" doc:"Young's modulus in Pa"`
}

// The table is a closed enumeration: entries are declared here and checked
// once at init, never parsed or extended at runtime.
var table = map[string]Material{
	"Silicone Rubber": {Name: "Silicone Rubber", Density: 1100, YoungsModulus: 0.01e9},
	"Polyurethane":    {Name: "Polyurethane", Density: 1200, YoungsModulus: 0.05e9},
}

func init() {
	for name, m := range table {
		if name != m.Name || m.Density <= 0 || m.YoungsModulus <= 0 {
			panic(fmt.Sprintf("material: invalid table entry %q", name))
		}
	}
}

// UnknownError reports a lookup of a material that is not in the table. It
// carries the valid names so callers can surface them to the user.
type UnknownError struct {
	Name  string
	Valid []string
}

func (e *UnknownError) Error() string {
	return fmt.Sprintf("material %q not found, available materials: %s",
		e.Name, strings.Join(e.Valid, ", "))
}

// Lookup returns the material with the given name. Matching is exact; a
// miss returns *UnknownError.
func Lookup(name string) (Material, error) {
	m, ok := table[name]
	if !ok {
		return Material{}, &UnknownError{Name: name, Valid: Names()}
	}
	return m, nil
}

// Names returns the valid material names in sorted order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
