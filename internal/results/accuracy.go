package results

import (
	"math"
	"sort"

	"github.com/eugenenazirov/truck-loader/internal/knapsack"
)

// Accuracy aggregates one algorithm's profit as a percentage of the optimum.
type Accuracy struct {
	Algorithm knapsack.Algorithm `json:"algorithm"`
	Runs      int                `json:"runs"`
	Mean      float64            `json:"mean"`
	Min       float64            `json:"min"`
	Max       float64            `json:"max"`
}

// Scored is a record together with the optimum it was measured against.
type Scored struct {
	Record
	Optimal  int     `json:"optimal"`
	Accuracy float64 `json:"accuracy"`
}

// Summary is the accuracy report over a set of records.
type Summary struct {
	Algorithms  []Accuracy `json:"algorithms"`
	WorstGreedy *Scored    `json:"worstGreedy,omitempty"`
}

type instanceKey struct {
	instance string
	dataset  string
	pallets  int
	capacity int
}

// Summarize scores every record against the best profit any exact algorithm
// reached on the same instance. Instances with no exact run are ignored.
func Summarize(records []Record) Summary {
	optimal := make(map[instanceKey]int)
	for _, rec := range records {
		if !rec.Algorithm.Exact() {
			continue
		}
		key := keyOf(rec)
		if best, ok := optimal[key]; !ok || rec.Profit > best {
			optimal[key] = rec.Profit
		}
	}

	byAlgorithm := make(map[knapsack.Algorithm]*Accuracy)
	summary := Summary{Algorithms: []Accuracy{}}

	for _, rec := range records {
		best, ok := optimal[keyOf(rec)]
		if !ok {
			continue
		}
		score := percentOf(rec.Profit, best)

		acc, ok := byAlgorithm[rec.Algorithm]
		if !ok {
			acc = &Accuracy{Algorithm: rec.Algorithm, Min: math.Inf(1), Max: math.Inf(-1)}
			byAlgorithm[rec.Algorithm] = acc
		}
		acc.Runs++
		acc.Mean += score
		acc.Min = math.Min(acc.Min, score)
		acc.Max = math.Max(acc.Max, score)

		if rec.Algorithm == knapsack.Greedy && (summary.WorstGreedy == nil || score < summary.WorstGreedy.Accuracy) {
			summary.WorstGreedy = &Scored{Record: rec, Optimal: best, Accuracy: score}
		}
	}

	for _, acc := range byAlgorithm {
		acc.Mean /= float64(acc.Runs)
		summary.Algorithms = append(summary.Algorithms, *acc)
	}
	sort.Slice(summary.Algorithms, func(i, j int) bool {
		return summary.Algorithms[i].Algorithm < summary.Algorithms[j].Algorithm
	})

	return summary
}

// keyOf groups runs of the same instance. Records without a fingerprint fall
// back to the dataset name and shape.
func keyOf(rec Record) instanceKey {
	if rec.Instance != "" {
		return instanceKey{instance: rec.Instance}
	}
	return instanceKey{dataset: rec.Dataset, pallets: rec.Pallets, capacity: rec.Capacity}
}

func percentOf(profit, optimal int) float64 {
	if optimal == 0 {
		return 100
	}
	return float64(profit) / float64(optimal) * 100
}
