package services

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const weightPrecision = 6

var (
	weightOrderCreated = decimal.NewFromInt(5)
	weightProcurement  = decimal.NewFromInt(15)
	weightRemainder    = decimal.NewFromInt(80)
	hundred            = decimal.NewFromInt(100)
)

// DefaultStages is the built-in template used when nothing else resolves.
func DefaultStages() []string {
	return []string{StageOrderCreated, StageProcurement, StageCutting, StageSewing}
}

// StageWeight is one row of a weight table.
type StageWeight struct {
	Name   string
	Weight decimal.Decimal
}

// WeightTable is an ordered stage list whose weights sum to exactly 100.
type WeightTable struct {
	stages  []StageWeight
	matcher StageNameMatcher
}

// Stages returns the weighted stages in order.
func (t WeightTable) Stages() []StageWeight {
	return append([]StageWeight(nil), t.stages...)
}

// Names returns the ordered stage names.
func (t WeightTable) Names() []string {
	names := make([]string, 0, len(t.stages))
	for _, s := range t.stages {
		names = append(names, s.Name)
	}
	return names
}

// Weights returns the table as a name to percentage map.
func (t WeightTable) Weights() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(t.stages))
	for _, s := range t.stages {
		out[s.Name] = s.Weight
	}
	return out
}

// Total returns the sum of all weights.
func (t WeightTable) Total() decimal.Decimal {
	total := decimal.Zero
	for _, s := range t.stages {
		total = total.Add(s.Weight)
	}
	return total
}

// IndexOf returns the position of the first stage matching name, or -1.
func (t WeightTable) IndexOf(name string) int {
	return t.matcher.IndexOf(t.Names(), name)
}

// ProgressWeightCalculator converts a resolved stage list into a WeightTable.
//
// The two mandatory pre-production stages always come first with fixed
// weights 5 and 15. A cutting stage is synthesized right after procurement
// when the list lacks one. The remaining distinct stages split 80 evenly,
// each rounded to 6 decimals, and the last stage absorbs the rounding
// remainder so the table sums to exactly 100.
type ProgressWeightCalculator struct {
	matcher StageNameMatcher
}

// NewProgressWeightCalculator creates a calculator that deduplicates with matcher.
func NewProgressWeightCalculator(matcher StageNameMatcher) ProgressWeightCalculator {
	return ProgressWeightCalculator{matcher: matcher}
}

// Calculate builds the weight table for stages. An empty list falls back to DefaultStages.
func (c ProgressWeightCalculator) Calculate(stages []string) WeightTable {
	if len(stages) == 0 {
		stages = DefaultStages()
	}

	remaining := make([]string, 0, len(stages))
	for _, raw := range stages {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if c.matcher.Matches(name, StageOrderCreated) || c.matcher.Matches(name, StageProcurement) {
			continue
		}
		if c.matcher.IndexOf(remaining, name) >= 0 {
			continue
		}
		remaining = append(remaining, name)
	}

	if c.matcher.IndexOf(remaining, StageCutting) < 0 {
		remaining = append([]string{StageCutting}, remaining...)
	}

	table := WeightTable{
		stages: []StageWeight{
			{Name: StageOrderCreated, Weight: weightOrderCreated},
			{Name: StageProcurement, Weight: weightProcurement},
		},
		matcher: c.matcher,
	}

	count := decimal.NewFromInt(int64(len(remaining)))
	share := weightRemainder.DivRound(count, weightPrecision)
	allocated := decimal.Zero
	for i, name := range remaining {
		w := share
		if i == len(remaining)-1 {
			w = weightRemainder.Sub(allocated)
		}
		allocated = allocated.Add(w)
		table.stages = append(table.stages, StageWeight{Name: name, Weight: w})
	}

	return table
}

// PercentToNodeIndex clamps percent to [0, 100] and maps it linearly onto
// [0, nodeCount-1] with round-half-up. It returns 0 when nodeCount < 1.
func PercentToNodeIndex(nodeCount int, percent float64) int {
	if nodeCount <= 1 || math.IsNaN(percent) {
		return 0
	}
	percent = math.Max(0, math.Min(100, percent))
	idx := decimal.NewFromFloat(percent).
		Div(hundred).
		Mul(decimal.NewFromInt(int64(nodeCount - 1))).
		Round(0).
		IntPart()
	return int(idx)
}
