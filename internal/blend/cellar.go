package blend

// Cellar is an immutable snapshot of the tanks a calculation runs over.
// The caller keeps ownership of its own slice; the cellar holds a copy.
type Cellar struct {
	tanks []Tank
	index map[string]int
}

// NewCellar copies tanks into a new snapshot.
func NewCellar(tanks []Tank) Cellar {
	c := Cellar{
		tanks: make([]Tank, len(tanks)),
		index: make(map[string]int, len(tanks)),
	}
	copy(c.tanks, tanks)
	for i, t := range c.tanks {
		c.index[t.ID] = i
	}
	return c
}

// Len is the number of tanks in the snapshot.
func (c Cellar) Len() int {
	return len(c.tanks)
}

// Tanks returns a copy of the snapshot.
func (c Cellar) Tanks() []Tank {
	out := make([]Tank, len(c.tanks))
	copy(out, c.tanks)
	return out
}

// Find looks a tank up by id.
func (c Cellar) Find(id string) (Tank, bool) {
	i, ok := c.index[id]
	if !ok {
		return Tank{}, false
	}
	return c.tanks[i], true
}

// Select resolves ids in order, rejecting unknown or repeated tanks.
func (c Cellar) Select(ids []string) ([]Tank, error) {
	selected := make([]Tank, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return nil, invalid("tankIds", "lists tank %q more than once", id)
		}
		seen[id] = struct{}{}
		t, ok := c.Find(id)
		if !ok {
			return nil, invalid("tankIds", "references unknown tank %q", id)
		}
		selected = append(selected, t)
	}
	return selected, nil
}

// withStock returns the tanks that currently hold any wine.
func (c Cellar) withStock() []Tank {
	out := make([]Tank, 0, len(c.tanks))
	for _, t := range c.tanks {
		if t.AvailableLiters() > 0 {
			out = append(out, t)
		}
	}
	return out
}
