package util

import (
	"sort"
)

// RangeInt returns [from, from+1, ..., to-1]
func RangeInt(from, to int) []int {
	if to <= from {
		return []int{}
	}
	retval := make([]int, to-from)
	for i := range retval {
		retval[i] = from + i
	}
	return retval
}

func Min(a, b int) int {
	if a > b {
		return b
	}
	return a
}

type TopNStrIntDatum struct {
	S string
	N int
}

type TopNStrIntData []TopNStrIntDatum

func (arr TopNStrIntData) Len() int {
	return len(arr)
}

func (arr TopNStrIntData) Swap(a, b int) {
	arr[a], arr[b] = arr[b], arr[a]
}

func (arr TopNStrIntData) Less(a, b int) bool {
	if arr[a].N == arr[b].N {
		return arr[a].S < arr[b].S
	}
	return arr[a].N > arr[b].N
}

// GetTopNStrInt returns the n entries of m with the highest counts, ties
// broken alphabetically; n <= 0 returns all entries
func GetTopNStrInt(m map[string]int, n int) []TopNStrIntDatum {
	data := make(TopNStrIntData, len(m))
	var i int
	for k, v := range m {
		data[i] = TopNStrIntDatum{k, v}
		i++
	}
	sort.Sort(data)
	if n <= 0 {
		return data
	}
	return data[:Min(len(data), n)]
}
