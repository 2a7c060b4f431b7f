package dice

import (
	"fmt"
	"sort"
)

// Pool is a player's ordered set of dice.
type Pool struct {
	Dice []Color `json:"dice"`
}

// NewPool creates a pool holding the given dice.
func NewPool(colors ...Color) *Pool {
	return &Pool{Dice: append([]Color(nil), colors...)}
}

// Len returns the number of dice in the pool.
func (p *Pool) Len() int {
	return len(p.Dice)
}

// Add appends dice to the pool.
func (p *Pool) Add(colors ...Color) {
	p.Dice = append(p.Dice, colors...)
}

// Colors returns the colors at the given indices.
func (p *Pool) Colors(indices []int) ([]Color, error) {
	if err := p.checkIndices(indices); err != nil {
		return nil, err
	}
	out := make([]Color, len(indices))
	for i, idx := range indices {
		out[i] = p.Dice[idx]
	}
	return out, nil
}

// Remove removes the dice at the given indices and returns their colors.
func (p *Pool) Remove(indices []int) ([]Color, error) {
	removed, err := p.Colors(indices)
	if err != nil {
		return nil, err
	}
	drop := make(map[int]bool, len(indices))
	for _, idx := range indices {
		drop[idx] = true
	}
	kept := p.Dice[:0:0]
	for i, color := range p.Dice {
		if !drop[i] {
			kept = append(kept, color)
		}
	}
	p.Dice = kept
	return removed, nil
}

// Clear removes every die and returns how many were removed.
func (p *Pool) Clear() int {
	n := len(p.Dice)
	p.Dice = nil
	return n
}

func (p *Pool) checkIndices(indices []int) error {
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(p.Dice) {
			return fmt.Errorf("dice index %d out of range (have %d)", idx, len(p.Dice))
		}
		if seen[idx] {
			return fmt.Errorf("dice index %d selected twice", idx)
		}
		seen[idx] = true
	}
	return nil
}

// CanPay reports whether some subset of the pool pays the dice part of cost.
func (p *Pool) CanPay(cost Cost) bool {
	return p.Select(cost) != nil || cost.Total() == 0
}

// Select returns indices of a payment for cost, preferring the dice that
// are least useful to keep: plain elemental dice before omni. It returns
// nil when the pool cannot pay.
func (p *Pool) Select(cost Cost) []int {
	if cost.Total() > len(p.Dice) {
		return nil
	}
	used := make([]bool, len(p.Dice))
	picked := make([]int, 0, cost.Total())

	take := func(color Color, n int) int {
		for i := len(p.Dice) - 1; i >= 0 && n > 0; i-- {
			if !used[i] && p.Dice[i] == color {
				used[i] = true
				picked = append(picked, i)
				n--
			}
		}
		return n
	}

	if rest := take(cost.ElementalColor, cost.ElementalNumber); rest > 0 {
		if take(ColorOmni, rest) > 0 {
			return nil
		}
	}

	if cost.SameNumber > 0 {
		remaining := make(map[Color]int)
		for i, color := range p.Dice {
			if !used[i] {
				remaining[color]++
			}
		}
		best := Color("")
		for _, color := range ElementalColors {
			if best == "" || remaining[color] > remaining[best] {
				best = color
			}
		}
		if remaining[best]+remaining[ColorOmni] < cost.SameNumber {
			return nil
		}
		if rest := take(best, cost.SameNumber); rest > 0 {
			take(ColorOmni, rest)
		}
	}

	for n := cost.AnyNumber; n > 0; n-- {
		found := -1
		for i := len(p.Dice) - 1; i >= 0; i-- {
			if used[i] {
				continue
			}
			if found == -1 || (p.Dice[found] == ColorOmni && p.Dice[i] != ColorOmni) {
				found = i
			}
		}
		if found == -1 {
			return nil
		}
		used[found] = true
		picked = append(picked, found)
	}

	sort.Ints(picked)
	return picked
}

// Sort orders the pool canonically: omni first, then dice of the
// preferred color, then by how many of each color the pool holds, then by
// color order.
func (p *Pool) Sort(preferred Color) {
	counts := countColors(p.Dice)
	rank := func(c Color) int {
		switch c {
		case ColorOmni:
			return 0
		case preferred:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(p.Dice, func(i, j int) bool {
		a, b := p.Dice[i], p.Dice[j]
		if rank(a) != rank(b) {
			return rank(a) < rank(b)
		}
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return colorOrder[a] < colorOrder[b]
	})
}
