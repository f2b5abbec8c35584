package layout

import "testing"

const testHeader = 75

var testCell = CellSize{Width: 200, Height: 150}

func TestGridToAbsolute(t *testing.T) {
	tests := []struct {
		name string
		rect GridRect
		want Point
	}{
		{name: "origin", rect: GridRect{Row: 0, Col: 0, RowSpan: 1, ColSpan: 1}, want: Point{X: 0, Y: testHeader}},
		{name: "third column", rect: GridRect{Row: 0, Col: 3, RowSpan: 2, ColSpan: 2}, want: Point{X: 600, Y: testHeader}},
		{name: "second row", rect: GridRect{Row: 2, Col: 1, RowSpan: 1, ColSpan: 1}, want: Point{X: 200, Y: testHeader + 300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GridToAbsolute(tt.rect, testCell, testHeader)
			if got != tt.want {
				t.Errorf("GridToAbsolute(%+v) = %+v, want %+v", tt.rect, got, tt.want)
			}
		})
	}
}

func TestGridToDimensions(t *testing.T) {
	got := GridToDimensions(GridRect{Row: 0, Col: 3, RowSpan: 2, ColSpan: 2}, testCell)
	want := Dimensions{Width: 400, Height: 300}
	if got != want {
		t.Errorf("GridToDimensions = %+v, want %+v", got, want)
	}
}

func TestAbsoluteToGrid(t *testing.T) {
	tests := []struct {
		name    string
		p       Point
		wantRow int
		wantCol int
	}{
		{name: "exact cell origin", p: Point{X: 400, Y: testHeader + 150}, wantRow: 1, wantCol: 2},
		{name: "rounds down below half", p: Point{X: 290, Y: testHeader + 70}, wantRow: 0, wantCol: 1},
		{name: "rounds up at half", p: Point{X: 100, Y: testHeader + 75}, wantRow: 1, wantCol: 1},
		{name: "above header is negative", p: Point{X: 0, Y: 0}, wantRow: -1, wantCol: 0},
		{name: "negative half rounds toward zero", p: Point{X: -100, Y: testHeader - 75}, wantRow: 0, wantCol: 0},
		{name: "past negative half rounds down", p: Point{X: -101, Y: testHeader - 76}, wantRow: -1, wantCol: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col := AbsoluteToGrid(tt.p, testCell, testHeader)
			if row != tt.wantRow || col != tt.wantCol {
				t.Errorf("AbsoluteToGrid(%+v) = (%d, %d), want (%d, %d)", tt.p, row, col, tt.wantRow, tt.wantCol)
			}
		})
	}
}

func TestAbsoluteToGridZeroCell(t *testing.T) {
	row, col := AbsoluteToGrid(Point{X: 500, Y: 500}, CellSize{}, testHeader)
	if row != 0 || col != 0 {
		t.Errorf("zero cell size should map to (0, 0), got (%d, %d)", row, col)
	}
}

func TestGridRoundTrip(t *testing.T) {
	for row := range 4 {
		for col := range 6 {
			r := GridRect{Row: row, Col: col, RowSpan: 1, ColSpan: 1}
			gotRow, gotCol := AbsoluteToGrid(GridToAbsolute(r, testCell, testHeader), testCell, testHeader)
			if gotRow != row || gotCol != col {
				t.Fatalf("round trip of (%d, %d) gave (%d, %d)", row, col, gotRow, gotCol)
			}
		}
	}
}

func TestCellSizeForViewport(t *testing.T) {
	got := CellSizeForViewport(Viewport{Width: 1200, Height: 675}, GridSize{Cols: 6, Rows: 4}, testHeader)
	if got != testCell {
		t.Errorf("CellSizeForViewport = %+v, want %+v", got, testCell)
	}

	tiny := CellSizeForViewport(Viewport{Width: 3, Height: 10}, GridSize{Cols: 6, Rows: 4}, testHeader)
	if tiny.Width < 1 || tiny.Height < 1 {
		t.Errorf("cell size must stay positive, got %+v", tiny)
	}
}

func TestGridRectContains(t *testing.T) {
	grid := GridSize{Cols: 6, Rows: 4}
	if !(GridRect{Row: 2, Col: 0, RowSpan: 2, ColSpan: 6}).Contains(grid) {
		t.Error("full-width bottom rect should be inside the grid")
	}
	if (GridRect{Row: 3, Col: 0, RowSpan: 2, ColSpan: 1}).Contains(grid) {
		t.Error("rect spilling below the grid should not be contained")
	}
	if (GridRect{Row: 0, Col: -1, RowSpan: 1, ColSpan: 1}).Contains(grid) {
		t.Error("negative column should not be contained")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5, 0, 10) = %d", got)
	}
	if got := Clamp(-3, 0, 10); got != 0 {
		t.Errorf("Clamp(-3, 0, 10) = %d", got)
	}
	if got := Clamp(12, 0, 10); got != 10 {
		t.Errorf("Clamp(12, 0, 10) = %d", got)
	}
	if got := Clamp(7, 4, 2); got != 4 {
		t.Errorf("inverted bounds should favour lo, got %d", got)
	}
}
