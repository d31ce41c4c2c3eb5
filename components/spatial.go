package components

// Position is a point on the restaurant floor. Y is up and unused.
type Position struct {
	X, Z float64
}

// DistSq returns the squared distance to o.
func (p Position) DistSq(o Position) float64 {
	dx, dz := p.X-o.X, p.Z-o.Z
	return dx*dx + dz*dz
}
