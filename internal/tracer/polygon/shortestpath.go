package polygon

import "github.com/cwbudde/vectrace/internal/tracer/geom"

// cost is the lexicographic (segment count, total penalty) pair the
// shortest-path stage minimises: fewer segments always wins, penalty
// only breaks ties within the same segment count.
type cost struct {
	segments int
	penalty  float64
}

func (c cost) less(o cost) bool {
	if c.segments != o.segments {
		return c.segments < o.segments
	}
	return c.penalty < o.penalty
}

const unreached = -1

// optimalSequence runs a DAG shortest-path search over admissible
// chords path[i]->path[j] (j <= clip0[i]) and returns the vertex index
// sequence 0 = seq[0] < seq[1] < ... < seq[m-1] = n-1 minimising total
// (segment count, penalty).
func optimalSequence(path []geom.Point, pivot []int) []int {
	n := len(path)
	clip0 := computeClip0(pivot, n)
	prefix := prefixSums(path)

	dist := make([]cost, n)
	prev := make([]int, n)
	for i := range dist {
		dist[i] = cost{segments: unreached}
		prev[i] = -1
	}
	dist[0] = cost{segments: 0, penalty: 0}

	for i := 0; i < n-1; i++ {
		if dist[i].segments == unreached {
			continue
		}
		for j := i + 1; j <= clip0[i] && j < n; j++ {
			cand := cost{
				segments: dist[i].segments + 1,
				penalty:  dist[i].penalty + penalty(path, prefix, i, j),
			}
			if dist[j].segments == unreached || cand.less(dist[j]) {
				dist[j] = cand
				prev[j] = i
			}
		}
	}

	var seq []int
	for at := n - 1; at != -1; at = prev[at] {
		seq = append(seq, at)
		if at == 0 {
			break
		}
	}
	for l, r := 0, len(seq)-1; l < r; l, r = l+1, r-1 {
		seq[l], seq[r] = seq[r], seq[l]
	}
	return seq
}

func computeClip0(pivot []int, n int) []int {
	clip0 := make([]int, n)
	c0 := pivot[0] - 1
	if c0 == n-2 {
		c0 = n - 1
	}
	clip0[0] = maxInt(1, c0)
	clip0[n-1] = n - 1
	for i := 1; i < n-1; i++ {
		c := pivot[i-1] - 1
		if c == n-2 {
			c = n - 1
		}
		clip0[i] = maxInt(i+1, c)
	}
	return clip0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
