// Reelrank - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelrank

package recommend

const (
	// RewardLike is the reward applied for a like.
	RewardLike = 1.0

	// RewardDislike is the reward applied for a dislike.
	RewardDislike = -1.0

	// DefaultAlpha is the default learning rate.
	DefaultAlpha = 0.1

	// DefaultGamma is the default discount factor.
	DefaultGamma = 0.9
)

// nextStateValue is the value assumed for the successor state. It is fixed
// at zero, so each update moves the entry toward the immediate reward only.
const nextStateValue = 0.0

// ValueTable maps state title -> action title -> learned value.
// Reads of missing entries return zero.
type ValueTable map[string]map[string]float64

// NewValueTable returns an empty table.
func NewValueTable() ValueTable {
	return ValueTable{}
}

// Get returns table[state][action], or zero when absent.
func (t ValueTable) Get(state, action string) float64 {
	return t[state][action]
}

// Set stores v, creating the inner mapping if needed.
func (t ValueTable) Set(state, action string, v float64) {
	row, ok := t[state]
	if !ok {
		row = make(map[string]float64)
		t[state] = row
	}
	row[action] = v
}

// Clone returns a deep copy.
func (t ValueTable) Clone() ValueTable {
	out := make(ValueTable, len(t))
	for state, row := range t {
		cp := make(map[string]float64, len(row))
		for action, v := range row {
			cp[action] = v
		}
		out[state] = cp
	}
	return out
}

// Len returns the number of (state, action) entries.
func (t ValueTable) Len() int {
	n := 0
	for _, row := range t {
		n += len(row)
	}
	return n
}

// Params are the value update hyperparameters.
type Params struct {
	Alpha float64 `json:"alpha"`
	Gamma float64 `json:"gamma"`
}

// DefaultParams returns alpha 0.1 and gamma 0.9.
func DefaultParams() Params {
	return Params{Alpha: DefaultAlpha, Gamma: DefaultGamma}
}

// Update applies one step to table[state][action] and returns the table.
// A nil table is replaced by a new one. Update mutates its argument; callers
// that need the previous state must Clone first.
func Update(table ValueTable, state, action string, reward float64, p Params) ValueTable {
	if table == nil {
		table = NewValueTable()
	}
	old := table.Get(state, action)
	target := reward + p.Gamma*nextStateValue
	table.Set(state, action, old+p.Alpha*(target-old))
	return table
}
