package solver

import "pinroute/internal/geo"

// improve alternates deterministic first-improvement 2-opt and Or-opt
// passes over the tour until a full round applies no move or the budget is
// spent. It mutates order in place and reports whether the search was
// truncated by the budget.
func improve(m *geo.Matrix, order []int, b *budget, st *Stats, notify func(int64, []int)) bool {
	for {
		moved, spent := twoOptPass(m, order, b, st, notify)
		if spent {
			return true
		}
		movedOr, spent := orOptPass(m, order, b, st, notify)
		if spent {
			return true
		}
		if !moved && !movedOr {
			return false
		}
	}
}

// twoOptPass scans all segment reversals in a fixed order, applying each
// improving move as it is found. The depot at order[0] is never moved.
func twoOptPass(m *geo.Matrix, order []int, b *budget, st *Stats, notify func(int64, []int)) (bool, bool) {
	n := len(order)
	moved := false
	for i := 1; i < n-1; i++ {
		for k := i + 1; k < n; k++ {
			if b.tick() {
				return moved, true
			}
			a := order[i-1]
			bn := order[i]
			c := order[k]
			d := order[(k+1)%n]
			delta := m.At(a, c) + m.At(bn, d) - m.At(a, bn) - m.At(c, d)
			if delta < 0 {
				reverse(order, i, k)
				moved = true
				accept(m, order, st, notify)
			}
		}
	}
	return moved, false
}

// orOptPass relocates segments of length 1..3 to a cheaper position. After
// an accepted move the scan continues at the next segment start so every
// candidate is evaluated against the current tour.
func orOptPass(m *geo.Matrix, order []int, b *budget, st *Stats, notify func(int64, []int)) (bool, bool) {
	n := len(order)
	moved := false
	for segLen := 1; segLen <= 3 && segLen < n-1; segLen++ {
		for i := 1; i+segLen <= n; i++ {
			prev := order[i-1]
			head := order[i]
			tail := order[i+segLen-1]
			next := order[(i+segLen)%n]
			removeGain := m.At(prev, head) + m.At(tail, next) - m.At(prev, next)
			for j := 1; j <= n; j++ {
				if j >= i && j <= i+segLen {
					continue
				}
				if b.tick() {
					return moved, true
				}
				u := order[j-1]
				v := order[j%n]
				delta := m.At(u, head) + m.At(tail, v) - m.At(u, v) - removeGain
				if delta < 0 {
					relocate(order, i, segLen, j)
					moved = true
					accept(m, order, st, notify)
					break
				}
			}
		}
	}
	return moved, false
}

func accept(m *geo.Matrix, order []int, st *Stats, notify func(int64, []int)) {
	st.Improvements++
	if notify != nil {
		cp := append([]int(nil), order...)
		notify(tourCost(m, order), cp)
	}
}

// reverse flips order[i..k] in place.
func reverse(order []int, i, k int) {
	for a, b := i, k; a < b; a, b = a+1, b-1 {
		order[a], order[b] = order[b], order[a]
	}
}

// relocate moves the segment order[i:i+segLen] so it sits between the nodes
// that were at order[j-1] and order[j%len(order)].
func relocate(order []int, i, segLen, j int) {
	n := len(order)
	seg := make([]int, segLen)
	copy(seg, order[i:i+segLen])
	rest := make([]int, 0, n-segLen)
	rest = append(rest, order[:i]...)
	rest = append(rest, order[i+segLen:]...)
	pos := j
	if j > i {
		pos = j - segLen
	}
	out := make([]int, 0, n)
	out = append(out, rest[:pos]...)
	out = append(out, seg...)
	out = append(out, rest[pos:]...)
	copy(order, out)
}
