package dice

import (
	"fmt"
	"strings"
)

// Color is the face of an elemental die.
type Color string

const (
	ColorOmni    Color = "OMNI"
	ColorCryo    Color = "CRYO"
	ColorHydro   Color = "HYDRO"
	ColorPyro    Color = "PYRO"
	ColorElectro Color = "ELECTRO"
	ColorGeo     Color = "GEO"
	ColorDendro  Color = "DENDRO"
	ColorAnemo   Color = "ANEMO"
)

// ElementalColors lists the seven non-omni faces in canonical order.
var ElementalColors = []Color{
	ColorCryo,
	ColorHydro,
	ColorPyro,
	ColorElectro,
	ColorGeo,
	ColorDendro,
	ColorAnemo,
}

// Faces lists every face a random die can land on.
var Faces = append([]Color{ColorOmni}, ElementalColors...)

var colorOrder = map[Color]int{
	ColorOmni:    0,
	ColorCryo:    1,
	ColorHydro:   2,
	ColorPyro:    3,
	ColorElectro: 4,
	ColorGeo:     5,
	ColorDendro:  6,
	ColorAnemo:   7,
}

// ParseColor parses a case-insensitive color name.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := colorOrder[c]; !ok {
		return "", fmt.Errorf("unknown dice color: %q", s)
	}
	return c, nil
}

// IsElemental reports whether c is one of the seven elemental faces.
func (c Color) IsElemental() bool {
	_, ok := colorOrder[c]
	return ok && c != ColorOmni
}

func (c Color) String() string {
	return string(c)
}
