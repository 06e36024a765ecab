package graph

// Structural measures of dependency graphs, see Kuhlmann & Nivre (2006)
// "Mildly non-projective dependency structures" and Bodirsky et al. (2005).

// Projection returns the vertices dominated by v (v included), ascending
func Projection(g Headed, v int) []int {
	inProjection := project(g, v)
	retval := make([]int, 0, len(inProjection))
	for i := 1; i < len(inProjection); i++ {
		if inProjection[i] {
			retval = append(retval, i)
		}
	}
	return retval
}

// project marks the yield of v; index 0 is unused
func project(g Headed, v int) []bool {
	inProjection := make([]bool, g.NumberOfVertices()+1)
	inProjection[v] = true
	projectInto(g, v, 1, g.NumberOfVertices(), inProjection)
	return inProjection
}

// projectInto marks the modifiers of v in [from, to] recursively, only
// following vertices that are not yet marked
func projectInto(g Headed, v, from, to int, inProjection []bool) {
	for _, mod := range g.Modifiers(v) {
		if from <= mod && mod <= to && !inProjection[mod] {
			inProjection[mod] = true
			projectInto(g, mod, from, to, inProjection)
		}
	}
}

// Gaps returns the number of gaps in the projection of v
func Gaps(g Headed, v int) int {
	return gaps(project(g, v))
}

func gaps(inProjection []bool) int {
	var (
		degree int
		inside bool
		seen   bool
	)
	for i := 1; i < len(inProjection); i++ {
		switch {
		case inProjection[i] && !inside:
			if seen {
				degree++
			}
			inside, seen = true, true
		case !inProjection[i]:
			inside = false
		}
	}
	return degree
}

// GapDegree is the maximum number of gaps over all projections of g
func GapDegree(g Headed) int {
	var max int
	for v := 1; v <= g.NumberOfVertices(); v++ {
		if d := Gaps(g, v); d > max {
			max = d
		}
	}
	return max
}

// EdgeDegree returns the number of connected components strictly between v
// and its head that are not dominated by the head, or -1 if v has no head
func EdgeDegree(g Headed, v int) int {
	head, exists := g.Head(v)
	if !exists {
		return -1
	}
	from, to := v+1, head-1
	if head < v {
		from, to = head+1, v-1
	}
	if to < from {
		return 0
	}
	dontCount := make([]bool, g.NumberOfVertices()+1)
	projectInto(g, head, 1, g.NumberOfVertices(), dontCount)
	var degree int
	for i := from; i <= to; i++ {
		if !dontCount[i] {
			degree++
			projectInto(g, i, from, to, dontCount)
		}
	}
	return degree
}

// WellNested reports whether no two disjoint projections of g interleave
func WellNested(g Headed) bool {
	n := g.NumberOfVertices()
	projections := make([][]bool, n+1)
	for v := 1; v <= n; v++ {
		projections[v] = project(g, v)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= n; j++ {
			if i == j || !disjoint(projections[i], projections[j]) {
				continue
			}
			if interleave(projections[i], projections[j]) {
				return false
			}
		}
	}
	return true
}

// IllnestednessDegree counts, for each vertex v, the disjoint projections that
// interleave with the projection of v and are not contained in a larger such
// projection. The degree is the maximum of that count; well-nested graphs
// have degree 0.
func IllnestednessDegree(g Headed) int {
	n := g.NumberOfVertices()
	projections := make([][]bool, n+1)
	sizes := make([]int, n+1)
	for v := 1; v <= n; v++ {
		projections[v] = project(g, v)
		for _, in := range projections[v] {
			if in {
				sizes[v]++
			}
		}
	}
	var degree int
	for i := 1; i <= n; i++ {
		var crossing []int
		for j := 1; j <= n; j++ {
			if i != j && disjoint(projections[i], projections[j]) && interleave(projections[i], projections[j]) {
				crossing = append(crossing, j)
			}
		}
		excluded := make(map[int]bool, len(crossing))
		for _, p := range crossing {
			for _, q := range crossing {
				if p == q || disjoint(projections[p], projections[q]) {
					continue
				}
				if sizes[p] > sizes[q] {
					excluded[q] = true
				} else {
					excluded[p] = true
				}
			}
		}
		if local := len(crossing) - len(excluded); local > degree {
			degree = local
		}
	}
	return degree
}

func disjoint(a, b []bool) bool {
	for i := range a {
		if a[i] && b[i] {
			return false
		}
	}
	return true
}

// interleave looks for positions l1 < l2 < r1 < r2 with l1, r1 in a and
// l2, r2 in b
func interleave(a, b []bool) bool {
	sets := [2][]bool{a, b}
	var state int
	for i := 1; i < len(a); i++ {
		if sets[state%2][i] {
			state++
			if state == 4 {
				return true
			}
		}
	}
	return false
}
