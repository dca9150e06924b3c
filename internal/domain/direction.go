package domain

// Direction identifies which side of the pool a swap consumes.
type Direction uint8

// Swap directions.
const (
	DirectionAToB Direction = iota
	DirectionBToA
)

// Opposite returns the reverse direction (used for back-run legs).
func (d Direction) Opposite() Direction {
	if d == DirectionAToB {
		return DirectionBToA
	}
	return DirectionAToB
}

func (d Direction) String() string {
	if d == DirectionAToB {
		return "A_TO_B"
	}
	return "B_TO_A"
}

// ParseDirection converts the wire form back to a Direction. Anything other
// than "B_TO_A" parses as DirectionAToB.
func ParseDirection(s string) Direction {
	if s == "B_TO_A" {
		return DirectionBToA
	}
	return DirectionAToB
}
