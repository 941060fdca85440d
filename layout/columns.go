package layout

import "daytiles/schedule"

// Column is a group of mutually non-overlapping entries rendered side by side
// with the other columns.
type Column []schedule.Entry

// AssignColumns partitions entries into overlap-free columns with greedy
// first fit: each entry goes into the leftmost column none of whose members
// it overlaps, or into a new column appended at the end.
func AssignColumns(entries schedule.Sorted) ([]Column, error) {
	spans, err := newSpans(entries)
	if err != nil {
		return nil, err
	}
	return toColumns(spans, assign(spans)), nil
}

// assign returns, per column, the indexes into spans of its members.
func assign(spans []span) [][]int {
	columns := make([][]int, 0)
	for i := range spans {
		placed := false
		for c := range columns {
			if !columnConflicts(spans, columns[c], spans[i]) {
				columns[c] = append(columns[c], i)
				placed = true
				break
			}
		}
		if !placed {
			columns = append(columns, []int{i})
		}
	}
	return columns
}

func columnConflicts(spans []span, members []int, candidate span) bool {
	for _, member := range members {
		if spans[member].overlaps(candidate) {
			return true
		}
	}
	return false
}

func toColumns(spans []span, columns [][]int) []Column {
	out := make([]Column, 0, len(columns))
	for _, members := range columns {
		column := make(Column, 0, len(members))
		for _, member := range members {
			column = append(column, spans[member].entry)
		}
		out = append(out, column)
	}
	return out
}
