package knapsack

import "testing"

func TestBetter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Solution
		want bool
	}{
		{"HigherProfit", Solution{Profit: 7, Pallets: []int{1, 2, 3}}, Solution{Profit: 6, Pallets: []int{4}}, true},
		{"LowerProfit", Solution{Profit: 5, Pallets: []int{1}}, Solution{Profit: 6, Pallets: []int{9, 8}}, false},
		{"FewerPallets", Solution{Profit: 6, Pallets: []int{9}}, Solution{Profit: 6, Pallets: []int{1, 2}}, true},
		{"MorePallets", Solution{Profit: 6, Pallets: []int{1, 2}}, Solution{Profit: 6, Pallets: []int{9}}, false},
		{"SmallerIDs", Solution{Profit: 6, Pallets: []int{3, 1}}, Solution{Profit: 6, Pallets: []int{2, 1}}, false},
		{"SmallerSortedIDs", Solution{Profit: 6, Pallets: []int{4, 1}}, Solution{Profit: 6, Pallets: []int{2, 3}}, true},
		{"Identical", Solution{Profit: 6, Pallets: []int{1, 2}}, Solution{Profit: 6, Pallets: []int{2, 1}}, false},
		{"EmptyVsEmpty", Solution{}, Solution{Pallets: []int{}}, false},
		{"EmptyBeatsZeroProfitPallet", Solution{}, Solution{Pallets: []int{1}}, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Better(tc.a, tc.b); got != tc.want {
				t.Fatalf("Better(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestBetterDoesNotReorderInput(t *testing.T) {
	t.Parallel()

	a := Solution{Profit: 1, Pallets: []int{3, 1, 2}}
	b := Solution{Profit: 1, Pallets: []int{6, 5, 4}}
	Better(a, b)
	if a.Pallets[0] != 3 || b.Pallets[0] != 6 {
		t.Fatalf("expected reporting order to be preserved, got %v and %v", a.Pallets, b.Pallets)
	}
}

func TestWithCopiesPallets(t *testing.T) {
	t.Parallel()

	base := Solution{Profit: 1, Weight: 1, Pallets: make([]int, 1, 8)}
	base.Pallets[0] = 7

	left := base.with(Pallet{ID: 1, Weight: 2, Profit: 3})
	right := base.with(Pallet{ID: 2, Weight: 2, Profit: 3})

	if left.Pallets[1] != 1 || right.Pallets[1] != 2 {
		t.Fatalf("extensions share storage: %v %v", left.Pallets, right.Pallets)
	}
	if len(base.Pallets) != 1 {
		t.Fatalf("receiver was modified: %v", base.Pallets)
	}
	if left.Profit != 4 || left.Weight != 3 {
		t.Fatalf("unexpected totals: %+v", left)
	}
}
