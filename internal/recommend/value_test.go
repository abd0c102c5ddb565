// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

import (
	"math"
	"testing"
)

const epsilon = 1e-12

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestUpdateFromEmpty(t *testing.T) {
	t.Parallel()

	table := Update(ValueTable{}, "A", "B", 1, DefaultParams())
	if got := table.Get("A", "B"); !almostEqual(got, 0.1) {
		t.Errorf("table[A][B] = %v, want 0.1", got)
	}
}

func TestUpdateNilTable(t *testing.T) {
	t.Parallel()

	table := Update(nil, "A", "B", -1, DefaultParams())
	if got := table.Get("A", "B"); !almostEqual(got, -0.1) {
		t.Errorf("table[A][B] = %v, want -0.1", got)
	}
}

func TestUpdateConvergesTowardReward(t *testing.T) {
	t.Parallel()

	table := NewValueTable()
	p := DefaultParams()
	want := 0.0
	for i := 0; i < 5; i++ {
		Update(table, "A", "B", 1, p)
		want += p.Alpha * (1 - want)
	}
	if got := table.Get("A", "B"); !almostEqual(got, want) {
		t.Errorf("after 5 updates = %v, want %v", got, want)
	}
	if got := table.Get("A", "B"); got >= 1 {
		t.Errorf("value %v should stay below the reward", got)
	}
}

func TestUpdateZeroRewardDamps(t *testing.T) {
	t.Parallel()

	table := NewValueTable()
	table.Set("A", "B", 0.8)
	p := DefaultParams()
	for i := 1; i <= 3; i++ {
		Update(table, "A", "B", 0, p)
		want := 0.8 * math.Pow(1-p.Alpha, float64(i))
		if got := table.Get("A", "B"); !almostEqual(got, want) {
			t.Errorf("after %d zero updates = %v, want %v", i, got, want)
		}
	}
}

func TestUpdateIgnoresGamma(t *testing.T) {
	t.Parallel()

	a := Update(nil, "A", "B", 1, Params{Alpha: 0.5, Gamma: 0})
	b := Update(nil, "A", "B", 1, Params{Alpha: 0.5, Gamma: 1})
	if a.Get("A", "B") != b.Get("A", "B") {
		t.Errorf("gamma changed the result: %v vs %v", a.Get("A", "B"), b.Get("A", "B"))
	}
}

func TestUpdateLeavesOtherEntries(t *testing.T) {
	t.Parallel()

	table := NewValueTable()
	table.Set("A", "C", 0.3)
	table.Set("X", "Y", -0.2)
	Update(table, "A", "B", 1, DefaultParams())

	if table.Get("A", "C") != 0.3 || table.Get("X", "Y") != -0.2 {
		t.Error("unrelated entries changed")
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}
}

func TestValueTableClone(t *testing.T) {
	t.Parallel()

	orig := NewValueTable()
	orig.Set("A", "B", 0.5)
	cp := orig.Clone()
	Update(cp, "A", "B", 1, DefaultParams())
	cp.Set("N", "M", 1)

	if orig.Get("A", "B") != 0.5 {
		t.Errorf("clone shares rows with original: %v", orig.Get("A", "B"))
	}
	if _, ok := orig["N"]; ok {
		t.Error("clone shares the outer map with original")
	}
	if got := orig.Get("missing", "entry"); got != 0 {
		t.Errorf("missing entry = %v, want 0", got)
	}
}
