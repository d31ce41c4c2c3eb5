package spawner

// SlotWeights returns n selection weights: the head weights in order, then
// tail for every remaining slot.
func SlotWeights(n int, head []float64, tail float64) []float64 {
	w := make([]float64, n)
	for i := range w {
		if i < len(head) {
			w[i] = head[i]
		} else {
			w[i] = tail
		}
	}
	return w
}

// PickSlot performs a cumulative-weight draw. r is a uniform value in
// [0, sum(weights)]. It returns -1 for an empty weight list.
func PickSlot(weights []float64, r float64) int {
	if len(weights) == 0 {
		return -1
	}
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r <= cum {
			return i
		}
	}
	return len(weights) - 1
}

func sum(xs []float64) float64 {
	t := 0.0
	for _, x := range xs {
		t += x
	}
	return t
}
