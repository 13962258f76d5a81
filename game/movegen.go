package game

import "golang.org/x/exp/slices"

// Reachable returns every in-bounds cell within the piece's movement range,
// excluding its own cell.
func Reachable(p Piece) []Position {
	r := p.Stats().Range
	var positions []Position
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if abs(dx)+abs(dy) > r {
				continue
			}
			pos := Position{X: p.Position.X + dx, Y: p.Position.Y + dy}
			if pos.InBounds() {
				positions = append(positions, pos)
			}
		}
	}
	return positions
}

// Partition splits the reachable set of p into free cells (nobody there) and
// engageable cells (an opposing piece there). Cells holding an ally are in
// neither list.
func Partition(p Piece, units []Piece) (free, engageable []Position) {
	for _, pos := range Reachable(p) {
		i := UnitAt(units, pos)
		switch {
		case i < 0:
			free = append(free, pos)
		case units[i].Side != p.Side:
			engageable = append(engageable, pos)
		}
	}
	return free, engageable
}

// FreeCells returns the relocation targets of p.
func FreeCells(p Piece, units []Piece) []Position {
	free, _ := Partition(p, units)
	return free
}

// EngageableCells returns the combat targets of p.
func EngageableCells(p Piece, units []Piece) []Position {
	_, engageable := Partition(p, units)
	return engageable
}

// UnitAt returns the index of the unit standing on pos, or -1.
func UnitAt(units []Piece, pos Position) int {
	return slices.IndexFunc(units, func(u Piece) bool {
		return u.Position == pos
	})
}

// UnitByID returns the index of the unit with the given id, or -1.
func UnitByID(units []Piece, id string) int {
	return slices.IndexFunc(units, func(u Piece) bool {
		return u.ID == id
	})
}

func containsPosition(positions []Position, pos Position) bool {
	return slices.Contains(positions, pos)
}
