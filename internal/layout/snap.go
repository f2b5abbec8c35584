package layout

// SnapToLine pulls v onto the nearest grid line when it is closer than
// threshold. Grid lines sit at origin + k*step.
func SnapToLine(v, step, origin, threshold int) int {
	if step <= 0 {
		return v
	}
	line := origin + roundDiv(v-origin, step)*step
	if abs(v-line) < threshold {
		return line
	}
	return v
}

// SnapExtent rounds an extent to the nearest multiple of step when it is
// closer than threshold. The result is never below a single step.
func SnapExtent(v, step, threshold int) int {
	if step <= 0 {
		return v
	}
	nearest := max(roundDiv(v, step)*step, step)
	if abs(v-nearest) < threshold {
		return nearest
	}
	return v
}

// SpanFor converts a pixel extent into a cell span in [1, limit].
func SpanFor(extent, step, limit int) int {
	span := 1
	if step > 0 {
		span = roundDiv(extent, step)
	}
	if limit > 0 && span > limit {
		span = limit
	}
	return max(span, 1)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
