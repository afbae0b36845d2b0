package dataset

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/eugenenazirov/truck-loader/internal/knapsack"
)

// Dataset is one problem instance: a truck capacity and the pallets on offer.
type Dataset struct {
	Name     string            `json:"name" yaml:"name"`
	Capacity int               `json:"capacity" yaml:"capacity"`
	Pallets  []knapsack.Pallet `json:"pallets" yaml:"pallets"`
}

// Clone returns a deep copy of d.
func (d Dataset) Clone() Dataset {
	d.Pallets = slices.Clone(d.Pallets)
	if d.Pallets == nil {
		d.Pallets = []knapsack.Pallet{}
	}
	return d
}

// Fingerprint identifies the instance by its capacity and catalog contents,
// independent of the dataset name and of pallet order.
func (d Dataset) Fingerprint() string {
	pallets := slices.Clone(d.Pallets)
	slices.SortFunc(pallets, func(a, b knapsack.Pallet) int {
		return cmp.Or(cmp.Compare(a.ID, b.ID), cmp.Compare(a.Weight, b.Weight), cmp.Compare(a.Profit, b.Profit))
	})

	h := sha256.New()
	fmt.Fprintf(h, "capacity=%d\n", d.Capacity)
	for _, p := range pallets {
		fmt.Fprintf(h, "%d,%d,%d\n", p.ID, p.Weight, p.Profit)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Validate checks the invariants the solvers rely on but do not enforce.
func (d Dataset) Validate() error {
	if d.Capacity < 0 {
		return fmt.Errorf("%w: capacity %d", ErrNegativeValue, d.Capacity)
	}
	return ValidatePallets(d.Pallets)
}

// ValidatePallets rejects negative weights or profits and repeated ids.
func ValidatePallets(pallets []knapsack.Pallet) error {
	seen := make(map[int]struct{}, len(pallets))
	for _, p := range pallets {
		if p.Weight < 0 || p.Profit < 0 {
			return fmt.Errorf("%w: pallet %d has weight %d and profit %d", ErrNegativeValue, p.ID, p.Weight, p.Profit)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
