package quiz

import (
	"cmp"
	"log/slog"
	"math"
	"slices"
)

const (
	// Epsilon is the joint-probability distance under which two cells tie.
	Epsilon = 0.005
	// maxEntropy4 is log2(4), the entropy of a uniform 4-way distribution.
	maxEntropy4 = 2.0
	// balancedThreshold is the share of maxEntropy4 both axes must exceed
	// for a profile to count as balanced.
	balancedThreshold = 0.9
)

// Cell is one ranked (attachment, communication) grid position.
type Cell struct {
	Attachment    AttachmentDimension `json:"attachment"`
	Communication CommunicationStyle  `json:"communication"`
	Joint         float64             `json:"joint"`
	Priority      int                 `json:"priority"`
}

type ClassificationDebug struct {
	TopCells             []Cell  `json:"topCells"`
	AttachmentEntropy    float64 `json:"attachmentEntropy"`
	CommunicationEntropy float64 `json:"communicationEntropy"`
}

// Classification is the archetype chosen for a pair of score maps.
// Confidence is in [0,1]; IsBalanced marks both axes as nearly uniform.
type Classification struct {
	Archetype  ArchetypePublic      `json:"archetype"`
	Confidence float64              `json:"confidence"`
	IsBalanced bool                 `json:"isBalanced"`
	Debug      *ClassificationDebug `json:"debug,omitempty"`
}

// Engine scores answers and classifies the results into archetypes.
type Engine struct {
	logger *slog.Logger
	grid   ArchetypeGrid
	table  []ArchetypePublic
}

func NewEngine(logger *slog.Logger) *Engine {
	return &Engine{logger: logger, grid: defaultGrid, table: publicArchetypes}
}

// Classify picks the most probable archetype cell. It never fails: degenerate
// scores fall back to a uniform distribution and an unresolvable archetype ID
// falls back to the first public archetype.
func (e *Engine) Classify(att AttachmentScores, comm CommunicationScores) Classification {
	return e.classify(att, comm, false)
}

// ClassifyDebug is Classify plus the top four cells and per-axis entropy.
func (e *Engine) ClassifyDebug(att AttachmentScores, comm CommunicationScores) Classification {
	return e.classify(att, comm, true)
}

func (e *Engine) classify(att AttachmentScores, comm CommunicationScores, debug bool) Classification {
	pAttach := normalizeDistribution(attachmentPriority[:], att.Get)
	pComm := normalizeDistribution(communicationPriority[:], comm.Get)

	cells := make([]Cell, 0, 16)
	for ai, a := range attachmentPriority {
		for ci, c := range communicationPriority {
			cells = append(cells, Cell{
				Attachment:    a,
				Communication: c,
				Joint:         pAttach[ai] * pComm[ci],
				Priority:      len(cells),
			})
		}
	}
	winner := pickWinner(cells)

	hAttach := entropy(pAttach)
	hComm := entropy(pComm)

	out := Classification{
		Archetype:  e.resolve(e.grid.Lookup(winner.Attachment, winner.Communication)),
		Confidence: 1 - (hAttach+hComm)/(2*maxEntropy4),
		IsBalanced: hAttach > balancedThreshold*maxEntropy4 && hComm > balancedThreshold*maxEntropy4,
	}
	if debug {
		out.Debug = &ClassificationDebug{
			TopCells:             topCells(cells, winner, 4),
			AttachmentEntropy:    hAttach,
			CommunicationEntropy: hComm,
		}
	}
	return out
}

// pickWinner returns the lowest-priority cell whose joint probability is
// within Epsilon of the maximum. cells must be in priority order.
func pickWinner(cells []Cell) Cell {
	best := cells[0].Joint
	for _, c := range cells[1:] {
		best = max(best, c.Joint)
	}
	for _, c := range cells {
		if best-c.Joint < Epsilon {
			return c
		}
	}
	return cells[0]
}

// topCells lists the winner followed by the next n-1 cells by joint
// probability.
func topCells(cells []Cell, winner Cell, n int) []Cell {
	rest := make([]Cell, 0, len(cells)-1)
	for _, c := range cells {
		if c.Priority != winner.Priority {
			rest = append(rest, c)
		}
	}
	slices.SortFunc(rest, compareCells)
	return append([]Cell{winner}, rest[:n-1]...)
}

// compareCells orders by joint probability descending, then by priority.
func compareCells(a, b Cell) int {
	return cmp.Or(cmp.Compare(b.Joint, a.Joint), cmp.Compare(a.Priority, b.Priority))
}

func (e *Engine) resolve(id string) ArchetypePublic {
	if a, ok := findArchetype(e.table, id); ok {
		return a
	}
	fallback := e.table[0]
	e.logger.Error("unknown archetype id, check the archetype grid and public table",
		"archetype_id", id,
		"fallback", fallback.ID,
	)
	return fallback
}

// normalizeDistribution turns scores into probabilities. Non-positive or
// non-finite totals yield a uniform distribution.
func normalizeDistribution[C ~string](keys []C, score func(C) float64) []float64 {
	probs := make([]float64, len(keys))
	var sum float64
	for _, k := range keys {
		sum += score(k)
	}
	if !(sum > 0) || math.IsInf(sum, 0) {
		for i := range probs {
			probs[i] = 1 / float64(len(keys))
		}
		return probs
	}
	for i, k := range keys {
		probs[i] = score(k) / sum
	}
	return probs
}

// entropy is the Shannon entropy in bits.
func entropy(probs []float64) float64 {
	var h float64
	for _, p := range probs {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
