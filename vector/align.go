package vector

import (
	"sort"

	"github.com/hubenschmidt/go-sectormatch/core"
)

// AlignedPair holds two equal-length vectors where index i of Reference and
// Candidate both refer to Labels[i].
type AlignedPair struct {
	Labels    []string  `json:"labels"`
	Reference []float64 `json:"reference"`
	Candidate []float64 `json:"candidate"`
}

// Len returns the number of aligned dimensions.
func (p AlignedPair) Len() int {
	return len(p.Labels)
}

// Align projects both weight maps onto the sorted union of their labels.
// A label missing from one side contributes 0.0 on that side.
func Align(reference, candidate SectorWeights) (AlignedPair, error) {
	if reference.IsEmpty() && candidate.IsEmpty() {
		return AlignedPair{}, core.NewMatchError("vector.align", "", core.ErrEmptyVector)
	}

	labels := unionLabels(reference, candidate)
	pair := AlignedPair{
		Labels:    labels,
		Reference: make([]float64, len(labels)),
		Candidate: make([]float64, len(labels)),
	}
	for i, label := range labels {
		pair.Reference[i] = reference[label]
		pair.Candidate[i] = candidate[label]
	}
	return pair, nil
}

func unionLabels(a, b SectorWeights) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	labels := make([]string, 0, len(a)+len(b))
	for _, w := range []SectorWeights{a, b} {
		for label := range w {
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}
