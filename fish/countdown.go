package fish

// countdown is a cooperative timer advanced by the simulation step.
type countdown struct {
	remaining float64
	active    bool
}

func (c *countdown) arm(d float64) {
	c.remaining = d
	c.active = true
}

// resume re-activates the timer with whatever time it had left.
func (c *countdown) resume() {
	c.active = true
}

func (c *countdown) cancel() {
	c.active = false
}

// tick advances the timer and reports true exactly once, on expiry.
func (c *countdown) tick(dt float64) bool {
	if !c.active {
		return false
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.active = false
	return true
}
