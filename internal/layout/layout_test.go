package layout

import (
	"math"
	"reflect"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestMasonryColumns(t *testing.T) {
	tests := []struct {
		width float64
		want  int
	}{
		{100, 1},
		{300, 1},
		{450, 1},
		{600, 2},
		{899, 2},
		{900, 3},
		{1200, 4},
		{2400, 5}, // four breakpoints, raised to keep columns under 500px
	}

	for _, tt := range tests {
		if got := MasonryColumns(tt.width, 0); got != tt.want {
			t.Errorf("MasonryColumns(%v) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestMasonry_TieBreakLeftmost(t *testing.T) {
	blocks := []Block{{Height: 100}, {Height: 100}, {Height: 100}}

	got := Masonry(blocks, 800, MasonryParams{})
	cols := []int{got[0].Column, got[1].Column, got[2].Column}
	if !reflect.DeepEqual(cols, []int{0, 1, 0}) {
		t.Errorf("columns = %v, want [0 1 0]", cols)
	}
	if got[2].Y != 100 {
		t.Errorf("item 2 Y = %v, want 100", got[2].Y)
	}
}

func TestMasonry_ShortestColumn(t *testing.T) {
	blocks := []Block{{Height: 300}, {Height: 100}, {Height: 100}, {Height: 50}}

	got := Masonry(blocks, 800, MasonryParams{Spacing: 10})
	cols := []int{got[0].Column, got[1].Column, got[2].Column, got[3].Column}
	if !reflect.DeepEqual(cols, []int{0, 1, 1, 1}) {
		t.Errorf("columns = %v, want [0 1 1 1]", cols)
	}
	if !approx(got[1].X, 405) || !approx(got[1].Width, 395) {
		t.Errorf("item 1 X/Width = %v/%v, want 405/395", got[1].X, got[1].Width)
	}
	if !approx(got[3].Y, 220) {
		t.Errorf("item 3 Y = %v, want 220", got[3].Y)
	}
}

func TestMasonry_Deterministic(t *testing.T) {
	blocks := []Block{{Height: 120}, {Height: 80}, {Height: 200}, {Height: 80}, {Height: 40}}
	first := Masonry(blocks, 1300, MasonryParams{Spacing: 8})
	for i := 0; i < 10; i++ {
		if again := Masonry(blocks, 1300, MasonryParams{Spacing: 8}); !reflect.DeepEqual(first, again) {
			t.Fatal("masonry output changed between runs")
		}
	}
}

func TestColumnarColumns(t *testing.T) {
	tests := []struct {
		name     string
		sections int
		width    float64
		params   ColumnarParams
		want     int
	}{
		{"wide with default max", 6, 2000, ColumnarParams{}, 4},
		{"limited by max", 6, 2000, ColumnarParams{MaxColumns: 2}, 2},
		{"limited by width", 6, 700, ColumnarParams{}, 2},
		{"limited by sections", 2, 2000, ColumnarParams{}, 2},
		{"narrow", 6, 200, ColumnarParams{}, 1},
		{"no sections", 0, 2000, ColumnarParams{}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ColumnarColumns(tt.sections, tt.width, tt.params); got != tt.want {
				t.Errorf("ColumnarColumns() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestColumnar_SubGridAndWrap(t *testing.T) {
	sections := []SectionBlock{
		{HeaderHeight: 40, Items: []Block{
			{Height: 56, GridSpan: 6},
			{Height: 56, GridSpan: 6},
			{Height: 120, GridSpan: 12},
		}},
		{Items: []Block{{Height: 100}}},
		{Items: []Block{{Height: 50}}},
	}

	got := Columnar(sections, 1300, ColumnarParams{MaxColumns: 2})
	if len(got) != 5 {
		t.Fatalf("len(placements) = %d, want 5", len(got))
	}

	a, b, c := got[0], got[1], got[2]
	if a.Y != 40 || b.Y != 40 {
		t.Errorf("first row Y = %v/%v, want 40", a.Y, b.Y)
	}
	if !approx(b.X, 325) || !approx(a.Width, 325) {
		t.Errorf("half-span items: b.X = %v a.Width = %v, want 325 325", b.X, a.Width)
	}
	if c.Y != 96 || !approx(c.Width, 650) {
		t.Errorf("full-span item Y/Width = %v/%v, want 96/650", c.Y, c.Width)
	}

	second := got[3]
	if second.Section != 1 || second.Column != 1 || second.Y != 0 {
		t.Errorf("section 1 placement = %+v, want column 1 at Y 0", second)
	}

	third := got[4]
	if third.Section != 2 || third.Column != 0 {
		t.Errorf("section 2 placement = %+v, want column 0", third)
	}
	// Section 0 is 40 + 56 + 120 = 216 tall; the next band starts there.
	if third.Y != 216 {
		t.Errorf("wrapped section Y = %v, want 216", third.Y)
	}
}

func TestSplitSidebar(t *testing.T) {
	tests := []struct {
		name     string
		sections []SectionBlock
		main     []int
		side     []int
	}{
		{"last section by default", []SectionBlock{{}, {}, {}}, []int{0, 1}, []int{2}},
		{"flagged sections", []SectionBlock{{Sidebar: true}, {}, {Sidebar: true}}, []int{1}, []int{0, 2}},
		{"single section stays main", []SectionBlock{{}}, []int{0}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			main, side := SplitSidebar(tt.sections)
			if !reflect.DeepEqual(main, tt.main) || !reflect.DeepEqual(side, tt.side) {
				t.Errorf("SplitSidebar() = %v %v, want %v %v", main, side, tt.main, tt.side)
			}
		})
	}
}

func TestSidebarWidths(t *testing.T) {
	tests := []struct {
		available  float64
		main, side float64
	}{
		{900, 600, 300},
		{1500, 1120, 380},
		{3000, 1620, 380},
		{0, 0, 0},
	}

	for _, tt := range tests {
		mainW, sideW := SidebarWidths(tt.available)
		if !approx(mainW, tt.main) || !approx(sideW, tt.side) {
			t.Errorf("SidebarWidths(%v) = %v, %v, want %v, %v", tt.available, mainW, sideW, tt.main, tt.side)
		}
	}
}

func TestSidebar(t *testing.T) {
	sections := []SectionBlock{
		{Items: []Block{{Height: 100}}},
		{Items: []Block{{Height: 200}}},
		{Items: []Block{{Height: 50}}},
	}

	t.Run("wide", func(t *testing.T) {
		got := Sidebar(sections, 900, SidebarParams{})
		if got[0].Column != 0 || got[1].Column != 0 || got[2].Column != 1 {
			t.Errorf("columns = %d %d %d, want 0 0 1", got[0].Column, got[1].Column, got[2].Column)
		}
		if got[1].Y != 100 {
			t.Errorf("main second section Y = %v, want 100", got[1].Y)
		}
		if !approx(got[2].X, 600) || !approx(got[2].Width, 300) || got[2].Y != 0 {
			t.Errorf("sidebar placement = %+v", got[2])
		}
	})

	t.Run("narrow", func(t *testing.T) {
		got := Sidebar(sections, 700, SidebarParams{})
		for i, p := range got {
			if p.Column != 0 || p.Width != 700 {
				t.Errorf("section %d = %+v, want full-width column 0", i, p)
			}
		}
		if got[2].Y != 300 {
			t.Errorf("sidebar section Y = %v, want 300 (below main)", got[2].Y)
		}
	})

	t.Run("very wide is centred", func(t *testing.T) {
		got := Sidebar(sections, 3000, SidebarParams{})
		if !approx(got[0].X, 500) || !approx(got[0].Width, 1620) {
			t.Errorf("main placement = %+v, want X 500 width 1620", got[0])
		}
		if !approx(got[2].X, 2120) {
			t.Errorf("sidebar X = %v, want 2120", got[2].X)
		}
	})
}

func TestPanel(t *testing.T) {
	sections := []SectionBlock{
		{Items: []Block{{Height: 300}}},
		{Items: []Block{{Height: 100}}},
	}

	got := Panel(sections, 1024, 0)
	want := []Placement{{Section: 0, Item: WholeSection, Width: 1024, Height: 300}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Panel() = %+v, want %+v", got, want)
	}

	if got := Panel(sections, 1024, 768); got[0].Height != 768 {
		t.Errorf("Height = %v, want 768", got[0].Height)
	}
	if got := Panel(nil, 1024, 0); got != nil {
		t.Errorf("Panel(nil) = %+v, want nil", got)
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		cardType string
		entities int
		want     float64
	}{
		{"tile", 1, 50},
		{"entities", 4, 250},
		{"entities", 0, 100},
		{"glance", 6, 250},
		{"thermostat", 1, 350},
		{"custom:anything", 1, 150},
	}

	for _, tt := range tests {
		if got := EstimateHeight(tt.cardType, tt.entities); got != tt.want {
			t.Errorf("EstimateHeight(%q, %d) = %v, want %v", tt.cardType, tt.entities, got, tt.want)
		}
	}

	if got := EstimateGridHeight("tile", 0, 1); got != 56 {
		t.Errorf("EstimateGridHeight(tile) = %v, want 56", got)
	}
	if got := EstimateGridHeight("markdown", 2, 0); got != 120 {
		t.Errorf("EstimateGridHeight(markdown, 2 rows) = %v, want 120", got)
	}
}
