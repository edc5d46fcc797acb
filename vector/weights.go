// Package vector aligns sector-weight distributions and scores their similarity.
package vector

import "sort"

// SectorWeights maps a sector label to the fraction of a fund's holdings in that sector.
type SectorWeights map[string]float64

// IsEmpty reports whether there are no sector labels.
func (w SectorWeights) IsEmpty() bool {
	return len(w) == 0
}

// Labels returns the sector labels in lexicographic order.
func (w SectorWeights) Labels() []string {
	labels := make([]string, 0, len(w))
	for label := range w {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Clone returns an independent copy.
func (w SectorWeights) Clone() SectorWeights {
	if w == nil {
		return nil
	}
	out := make(SectorWeights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}
