package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Cost is the price of a skill, card, switch or tuning.
type Cost struct {
	ElementalColor  Color `json:"elemental_color,omitempty" yaml:"elemental_color,omitempty"`
	ElementalNumber int   `json:"elemental_number,omitempty" yaml:"elemental_number,omitempty"`
	SameNumber      int   `json:"same_number,omitempty" yaml:"same_number,omitempty"`
	AnyNumber       int   `json:"any_number,omitempty" yaml:"any_number,omitempty"`
	Charge          int   `json:"charge,omitempty" yaml:"charge,omitempty"`
	ArcaneLegend    bool  `json:"arcane_legend,omitempty" yaml:"arcane_legend,omitempty"`
}

// ParseCost parses a space separated cost such as "pyro:3", "same:2",
// "any:1 charge:2" or "arcane".
func ParseCost(costStr string) (Cost, error) {
	var cost Cost
	for _, token := range strings.Fields(costStr) {
		name, value, hasValue := strings.Cut(strings.ToLower(token), ":")
		n := 1
		if hasValue {
			parsed, err := strconv.Atoi(value)
			if err != nil || parsed < 0 {
				return Cost{}, fmt.Errorf("invalid amount in cost token %q", token)
			}
			n = parsed
		}
		switch name {
		case "same":
			cost.SameNumber += n
		case "any":
			cost.AnyNumber += n
		case "charge":
			cost.Charge += n
		case "arcane":
			cost.ArcaneLegend = true
		default:
			color, err := ParseColor(name)
			if err != nil || !color.IsElemental() {
				return Cost{}, fmt.Errorf("unknown cost token %q", token)
			}
			if cost.ElementalNumber > 0 && cost.ElementalColor != color {
				return Cost{}, fmt.Errorf("cost mixes elemental colors %s and %s", cost.ElementalColor, color)
			}
			cost.ElementalColor = color
			cost.ElementalNumber += n
		}
	}
	return cost, nil
}

// Total returns the number of dice the cost needs.
func (c Cost) Total() int {
	return c.ElementalNumber + c.SameNumber + c.AnyNumber
}

// IsZero reports whether the cost needs no dice, charge or arcane legend.
func (c Cost) IsZero() bool {
	return c.Total() == 0 && c.Charge == 0 && !c.ArcaneLegend
}

// Decrease lowers the dice part of the cost by up to n dice, elemental
// first, then same, then any. It returns how many dice were removed.
func (c *Cost) Decrease(n int) int {
	removed := 0
	for _, field := range []*int{&c.ElementalNumber, &c.SameNumber, &c.AnyNumber} {
		for n > 0 && *field > 0 {
			*field--
			n--
			removed++
		}
	}
	return removed
}

// DecreaseElemental lowers the elemental part by up to n if the cost is of
// the given color. When no elemental part exists any dice are lowered.
func (c *Cost) DecreaseElemental(color Color, n int) int {
	if c.ElementalNumber > 0 {
		if c.ElementalColor != color {
			return 0
		}
		removed := min(n, c.ElementalNumber)
		c.ElementalNumber -= removed
		return removed
	}
	removed := min(n, c.AnyNumber)
	c.AnyNumber -= removed
	return removed
}

func (c Cost) String() string {
	var parts []string
	if c.ElementalNumber > 0 {
		parts = append(parts, fmt.Sprintf("%s:%d", strings.ToLower(string(c.ElementalColor)), c.ElementalNumber))
	}
	if c.SameNumber > 0 {
		parts = append(parts, fmt.Sprintf("same:%d", c.SameNumber))
	}
	if c.AnyNumber > 0 {
		parts = append(parts, fmt.Sprintf("any:%d", c.AnyNumber))
	}
	if c.Charge > 0 {
		parts = append(parts, fmt.Sprintf("charge:%d", c.Charge))
	}
	if c.ArcaneLegend {
		parts = append(parts, "arcane")
	}
	return strings.Join(parts, " ")
}

// Pays reports whether selected is an exact payment of the dice part.
func (c Cost) Pays(selected []Color) bool {
	if len(selected) != c.Total() {
		return false
	}
	counts := countColors(selected)
	if !takeElemental(counts, c.ElementalColor, c.ElementalNumber) {
		return false
	}
	return takeSame(counts, c.SameNumber)
}

func countColors(colors []Color) map[Color]int {
	counts := make(map[Color]int, len(colors))
	for _, color := range colors {
		counts[color]++
	}
	return counts
}

// takeElemental consumes n dice of color, falling back to omni.
func takeElemental(counts map[Color]int, color Color, n int) bool {
	if n == 0 {
		return true
	}
	use := min(counts[color], n)
	counts[color] -= use
	n -= use
	if counts[ColorOmni] < n {
		return false
	}
	counts[ColorOmni] -= n
	return true
}

// takeSame consumes n dice of one elemental color plus omni.
func takeSame(counts map[Color]int, n int) bool {
	if n == 0 {
		return true
	}
	best := Color("")
	for _, color := range ElementalColors {
		if best == "" || counts[color] > counts[best] {
			best = color
		}
	}
	use := min(counts[best], n)
	if use+counts[ColorOmni] < n {
		return false
	}
	counts[best] -= use
	counts[ColorOmni] -= n - use
	return true
}
