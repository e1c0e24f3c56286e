package calc

import (
	"math"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// plateEpsilon absorbs float noise when comparing the remaining load to a plate.
	plateEpsilon = 1e-9
	// maxPlatesPerDenomination stops runaway loops on degenerate tiny plates.
	maxPlatesPerDenomination = 200
	// plateMemoSize bounds the per-calculator memo.
	plateMemoSize = 1024
)

// DefaultPlates is a standard pound plate set.
var DefaultPlates = []float64{45, 35, 25, 10, 5, 2.5}

// PlateInventory is a descending set of distinct positive plate denominations.
type PlateInventory struct {
	denoms []float64
}

// NewPlateInventory filters out non-finite and non-positive entries, removes
// duplicates and sorts the remainder heaviest first.
func NewPlateInventory(denoms []float64) PlateInventory {
	valid := make([]float64, 0, len(denoms))
	for _, d := range denoms {
		if isFinite(d) && d > 0 {
			valid = append(valid, d)
		}
	}
	slices.Sort(valid)
	valid = slices.Compact(valid)
	slices.Reverse(valid)
	return PlateInventory{denoms: valid}
}

// Denominations returns a copy of the inventory, heaviest first.
func (inv PlateInventory) Denominations() []float64 {
	return slices.Clone(inv.denoms)
}

type plateKey struct {
	target float64
	bar    float64
}

// PlateCalculator decomposes a total load into a per-side plate list.
// Results are memoized per (target, bar) in a fixed-size LRU; the memo is
// only valid for the calculator's fixed bar, increment and inventory, and is
// safe for concurrent use.
type PlateCalculator struct {
	bar       float64
	roundTo   float64
	inventory PlateInventory

	memo *lru.Cache[plateKey, []float64]
}

// NewPlateCalculator creates a calculator for the given bar weight, rounding
// increment and plate inventory.
func NewPlateCalculator(bar, roundTo float64, inventory PlateInventory) *PlateCalculator {
	// lru.New only fails for a non-positive size.
	memo, _ := lru.New[plateKey, []float64](plateMemoSize)
	return &PlateCalculator{
		bar:       bar,
		roundTo:   roundTo,
		inventory: inventory,
		memo:      memo,
	}
}

// Bar returns the configured bar weight.
func (c *PlateCalculator) Bar() float64 { return c.bar }

// Round rounds x with the calculator's increment.
func (c *PlateCalculator) Round(x float64) float64 {
	return Round(x, c.roundTo)
}

// Plates returns the per-side plates for target on the configured bar.
func (c *PlateCalculator) Plates(target float64) []float64 {
	return c.PlatesForBar(target, c.bar)
}

// PlatesForBar returns the per-side plates for target on an explicit bar.
// The greedy fill may under-shoot when the inventory lacks small plates; it
// never over-fills.
func (c *PlateCalculator) PlatesForBar(target, bar float64) []float64 {
	key := plateKey{target: target, bar: bar}
	cacheable := !math.IsNaN(target) && !math.IsNaN(bar)

	if cacheable {
		if cached, ok := c.memo.Get(key); ok {
			return slices.Clone(cached)
		}
	}

	out := c.decompose(target, bar)
	if cacheable {
		c.memo.Add(key, out)
	}
	return slices.Clone(out)
}

func (c *PlateCalculator) decompose(target, bar float64) []float64 {
	out := []float64{}
	if !isFinite(target) || !isFinite(bar) || bar <= 0 || target < bar {
		return out
	}

	remaining := (target - bar) / 2
	if !isFinite(remaining) || remaining < 0 {
		return out
	}

	for _, p := range c.inventory.denoms {
		for guard := 0; remaining+plateEpsilon >= p && guard < maxPlatesPerDenomination; guard++ {
			out = append(out, p)
			remaining -= p
		}
	}
	return out
}

// Loaded returns the total load of a per-side breakdown on the given bar.
func Loaded(breakdown []float64, bar float64) float64 {
	total := bar
	for _, p := range breakdown {
		total += 2 * p
	}
	return total
}
