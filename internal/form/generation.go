package form

// Generation identifies one issued fetch. A response is applied only when
// its generation is still the latest one for its kind.
type Generation uint64

// Next returns the generation for a newly issued fetch, superseding g.
func (g Generation) Next() Generation {
	return g + 1
}
