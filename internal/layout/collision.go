package layout

// Overlaps reports whether two grid rectangles share at least one cell.
// Rectangles that only touch along an edge do not overlap.
func Overlaps(a, b GridRect) bool {
	separate := a.Col >= b.Col+b.ColSpan ||
		a.Col+a.ColSpan <= b.Col ||
		a.Row >= b.Row+b.RowSpan ||
		a.Row+a.RowSpan <= b.Row
	return !separate
}

// Collides reports whether candidate overlaps any of others. It stops at the
// first overlap; there is no partial placement.
func Collides(candidate GridRect, others []GridRect) bool {
	for _, o := range others {
		if Overlaps(candidate, o) {
			return true
		}
	}
	return false
}
