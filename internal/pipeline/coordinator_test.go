package pipeline

import (
	"errors"
	"sync"
	"testing"

	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
	"github.com/nerrad567/gray-logic-dashboard/internal/layout"
	"github.com/nerrad567/gray-logic-dashboard/internal/lovelace"
	"github.com/nerrad567/gray-logic-dashboard/internal/registry"
)

func strPtr(s string) *string { return &s }

func testSnapshot() *registry.Snapshot {
	states := []registry.Entity{
		{ID: "light.kitchen", State: "on"},
		{ID: "sensor.kitchen_temp", State: "21"},
		{ID: "switch.porch", State: "off"},
		{ID: "automation.night", State: "on"},
	}
	areas := []registry.AreaRecord{{AreaID: "kitchen", Name: "Kitchen"}}
	records := []registry.EntityRecord{
		{EntityID: "light.kitchen", AreaID: strPtr("kitchen")},
		{EntityID: "sensor.kitchen_temp", AreaID: strPtr("kitchen")},
	}
	return registry.FromRecords(states, areas, nil, nil, records)
}

const masonryDoc = `{
	"title": "Test",
	"views": [{
		"title": "Main",
		"path": "main",
		"cards": [
			{"type": "entities", "title": "Lights", "entities": ["light.kitchen", "switch.porch"]},
			{"type": "tile", "entity": "sensor.kitchen_temp",
			 "visibility": [{"condition": "state", "entity": "switch.porch", "state": "on"}]},
			{"type": "tile", "entity": "light.kitchen"}
		]
	}]
}`

func TestCoordinator_DefaultGrid(t *testing.T) {
	c := New(Options{})
	res := c.UpdateSnapshot(testSnapshot())

	if res.Source != SourceDefault {
		t.Fatalf("Source = %q, want %q", res.Source, SourceDefault)
	}
	if len(res.Views) != 1 {
		t.Fatalf("len(Views) = %d, want 1", len(res.Views))
	}
	got := res.Views[0].Config.AllEntityIDs()
	for _, id := range got {
		if id == "automation.night" {
			t.Errorf("default grid contains hidden entity %q", id)
		}
	}
	if len(got) != 3 {
		t.Errorf("AllEntityIDs() = %v, want 3 visible entities", got)
	}
}

func TestCoordinator_FallbackStrategy(t *testing.T) {
	c := New(Options{FallbackStrategy: "original-states"})
	res := c.UpdateSnapshot(testSnapshot())

	if res.Source != SourceFallback {
		t.Fatalf("Source = %q, want %q", res.Source, SourceFallback)
	}
	sections := res.Views[0].Config.Sections
	if len(sections) != 2 || sections[0].Title != "Kitchen" {
		t.Errorf("sections = %+v, want Kitchen then unassigned", sections)
	}
}

func TestCoordinator_Document(t *testing.T) {
	c := New(Options{Width: 800})
	c.UpdateSnapshot(testSnapshot())

	res, err := c.UpdateDocument([]byte(masonryDoc))
	if err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}
	if res.Source != SourceDocument {
		t.Errorf("Source = %q, want %q", res.Source, SourceDocument)
	}

	view := res.Views[0]
	if view.Title != "Main" || view.Layout != dashboard.LayoutMasonry {
		t.Errorf("view = %q %q, want Main masonry", view.Title, view.Layout)
	}
	// The conditional tile is hidden while the porch switch is off.
	if len(view.Placements) != 2 {
		t.Fatalf("len(Placements) = %d, want 2", len(view.Placements))
	}
	if view.Placements[1].Section != 2 {
		t.Errorf("second placement Section = %d, want 2", view.Placements[1].Section)
	}
	if view.Columns != 2 {
		t.Errorf("Columns = %d, want 2", view.Columns)
	}
}

func TestCoordinator_VisibilityFollowsState(t *testing.T) {
	c := New(Options{Width: 800})
	snap := testSnapshot()
	c.UpdateSnapshot(snap)
	if _, err := c.UpdateDocument([]byte(masonryDoc)); err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}

	res := c.UpdateSnapshot(snap.WithEntity(registry.Entity{ID: "switch.porch", State: "on"}))
	if got := len(res.Views[0].Placements); got != 3 {
		t.Errorf("len(Placements) = %d, want 3 once the condition holds", got)
	}
}

func TestCoordinator_MalformedDocumentKeepsPrevious(t *testing.T) {
	c := New(Options{})
	c.UpdateSnapshot(testSnapshot())
	if _, err := c.UpdateDocument([]byte(masonryDoc)); err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}
	gen := c.Current().Generation

	_, err := c.UpdateDocument([]byte(`{"views": "nope"}`))
	if !errors.Is(err, lovelace.ErrMalformedInput) {
		t.Fatalf("UpdateDocument() error = %v, want ErrMalformedInput", err)
	}
	if c.Current().Generation != gen {
		t.Errorf("Generation = %d, want unchanged %d", c.Current().Generation, gen)
	}

	res := c.Rebuild()
	if res.Source != SourceDocument {
		t.Errorf("Source after rebuild = %q, want document", res.Source)
	}
}

func TestCoordinator_DocumentStrategy(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		fallback string
		want     Source
	}{
		{"supported", `{"strategy": {"type": "original-states"}}`, "", SourceStrategy},
		{"unsupported with fallback", `{"strategy": {"type": "bogus"}}`, "original-states", SourceFallback},
		{"unsupported without fallback", `{"strategy": {"type": "bogus"}}`, "", SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Options{FallbackStrategy: tt.fallback})
			c.UpdateSnapshot(testSnapshot())
			res, err := c.UpdateDocument([]byte(tt.doc))
			if err != nil {
				t.Fatalf("UpdateDocument() error = %v", err)
			}
			if res.Source != tt.want {
				t.Errorf("Source = %q, want %q", res.Source, tt.want)
			}
			if len(res.Views) == 0 || len(res.Views[0].Config.Sections) == 0 {
				t.Errorf("result has no sections: %+v", res.Views)
			}
		})
	}
}

func TestCoordinator_ViewStrategy(t *testing.T) {
	doc := `{"views": [{"title": "Overview", "path": "ov", "strategy": {"type": "original-states"}}]}`
	c := New(Options{})
	c.UpdateSnapshot(testSnapshot())

	res, err := c.UpdateDocument([]byte(doc))
	if err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}
	view := res.Views[0]
	if view.Title != "Overview" || view.Path != "ov" {
		t.Errorf("view = %q %q, want Overview ov", view.Title, view.Path)
	}
	if view.Config.IsStrategy() || len(view.Config.Sections) == 0 {
		t.Errorf("view strategy was not resolved: %+v", view.Config)
	}

	published := res.Dashboard.Views[0]
	if published.Strategy != nil || published.Title != "Overview" || published.Path != "ov" {
		t.Errorf("published view = %+v, want the resolved Overview view", published)
	}
	if c.doc.Views[0].Strategy == nil {
		t.Error("stored document lost its view strategy")
	}
}

func TestCoordinator_NativeConfigWins(t *testing.T) {
	c := New(Options{})
	c.UpdateSnapshot(testSnapshot())
	if _, err := c.UpdateDocument([]byte(masonryDoc)); err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}

	native := dashboard.DefaultConfig([]string{"switch.porch"}, 2)
	native.Title = "Native"
	res := c.SetNativeConfig(native)
	if res.Source != SourceNative || res.Views[0].Title != "Native" {
		t.Errorf("result = %q %q, want native", res.Source, res.Views[0].Title)
	}

	res = c.SetNativeConfig(nil)
	if res.Source != SourceDocument {
		t.Errorf("Source after removing native = %q, want document", res.Source)
	}
}

func TestCoordinator_SectionsView(t *testing.T) {
	doc := `{"views": [{
		"type": "sections",
		"max_columns": 2,
		"sections": [
			{"title": "Kitchen", "cards": [
				{"type": "tile", "entity": "light.kitchen", "grid_options": {"columns": 6}},
				{"type": "tile", "entity": "switch.porch",
				 "visibility": [{"condition": "state", "entity": "light.kitchen", "state": "off"}]},
				{"type": "tile", "entity": "sensor.kitchen_temp", "grid_options": {"columns": 6}}
			]},
			{"cards": [{"type": "tile", "entity": "switch.porch"}]}
		]
	}]}`

	c := New(Options{Width: 1300})
	c.UpdateSnapshot(testSnapshot())
	res, err := c.UpdateDocument([]byte(doc))
	if err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}

	pl := res.Views[0].Placements
	if len(pl) != 3 {
		t.Fatalf("len(Placements) = %d, want 3", len(pl))
	}
	// The hidden porch tile is skipped; the temperature tile keeps its
	// own index.
	if pl[1].Section != 0 || pl[1].Item != 2 {
		t.Errorf("placement 1 = section %d item %d, want 0/2", pl[1].Section, pl[1].Item)
	}
	if pl[0].Y != sectionHeaderHeight || pl[1].Y != sectionHeaderHeight {
		t.Errorf("first row Y = %v/%v, want %v", pl[0].Y, pl[1].Y, sectionHeaderHeight)
	}
	if pl[2].Section != 1 || pl[2].Column != 1 {
		t.Errorf("placement 2 = %+v, want section 1 in column 1", pl[2])
	}
	if res.Views[0].Columns != 2 {
		t.Errorf("Columns = %d, want 2", res.Views[0].Columns)
	}
}

func TestCoordinator_MissingEntityKeepsPlacement(t *testing.T) {
	t.Run("masonry", func(t *testing.T) {
		doc := `{"views": [{"cards": [
			{"type": "tile", "entity": "light.missing"},
			{"type": "tile", "entity": "light.kitchen"},
			{"type": "tile", "entity": "switch.porch"}
		]}]}`
		c := New(Options{Width: 800})
		c.UpdateSnapshot(testSnapshot())
		res, err := c.UpdateDocument([]byte(doc))
		if err != nil {
			t.Fatalf("UpdateDocument() error = %v", err)
		}

		pl := res.Views[0].Placements
		if len(pl) != 3 {
			t.Fatalf("len(Placements) = %d, want 3", len(pl))
		}
		if pl[0].Section != 0 || pl[0].Column != 0 {
			t.Errorf("missing entity placement = %+v, want section 0 in column 0", pl[0])
		}
		if pl[1].Section != 1 || pl[1].Column != 1 {
			t.Errorf("next placement = %+v, want section 1 in column 1", pl[1])
		}
	})

	t.Run("sections", func(t *testing.T) {
		doc := `{"views": [{"type": "sections", "sections": [{"cards": [
			{"type": "tile", "entity": "light.missing", "grid_options": {"columns": 6}},
			{"type": "tile", "entity": "light.kitchen", "grid_options": {"columns": 6}}
		]}]}]}`
		c := New(Options{Width: 1300})
		c.UpdateSnapshot(testSnapshot())
		res, err := c.UpdateDocument([]byte(doc))
		if err != nil {
			t.Fatalf("UpdateDocument() error = %v", err)
		}

		pl := res.Views[0].Placements
		if len(pl) != 2 {
			t.Fatalf("len(Placements) = %d, want 2", len(pl))
		}
		if pl[0].Item != 0 || pl[1].Item != 1 {
			t.Errorf("items = %d/%d, want 0/1", pl[0].Item, pl[1].Item)
		}
		if pl[0].Y != pl[1].Y || pl[1].X <= pl[0].X {
			t.Errorf("placements = %+v, want both tiles on one row", pl)
		}
	})
}

func TestCoordinator_LayoutView(t *testing.T) {
	c := New(Options{Width: 1200})
	if _, err := c.LayoutView(0, 600); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("LayoutView() before build error = %v, want ErrNotBuilt", err)
	}

	c.UpdateSnapshot(testSnapshot())
	if _, err := c.UpdateDocument([]byte(masonryDoc)); err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}

	if _, err := c.LayoutView(5, 600); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("LayoutView(5) error = %v, want ErrViewNotFound", err)
	}

	vl, err := c.LayoutView(0, 400)
	if err != nil {
		t.Fatalf("LayoutView() error = %v", err)
	}
	if vl.Width != 400 || vl.Columns != 1 {
		t.Errorf("LayoutView(0, 400) width/columns = %v/%d, want 400/1", vl.Width, vl.Columns)
	}
	if c.Current().Views[0].Width != 1200 {
		t.Error("LayoutView changed the published result")
	}
}

func TestCoordinator_OnChange(t *testing.T) {
	c := New(Options{})

	var got []uint64
	unsubscribe := c.OnChange(func(r *Result) { got = append(got, r.Generation) })

	c.UpdateSnapshot(testSnapshot())
	c.Rebuild()
	unsubscribe()
	c.Rebuild()

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("notified generations = %v, want [1 2]", got)
	}
}

func TestCoordinator_StaleBuildDiscarded(t *testing.T) {
	c := New(Options{})
	c.UpdateSnapshot(testSnapshot())

	c.mu.Lock()
	stale := c.nextInputsLocked()
	c.mu.Unlock()
	fresh := c.Rebuild()

	notified := 0
	c.OnChange(func(*Result) { notified++ })

	got := c.run(stale)
	if got != fresh {
		t.Errorf("run(stale) returned generation %d, want current %d", got.Generation, fresh.Generation)
	}
	if c.Current() != fresh {
		t.Error("stale build replaced the current result")
	}
	if notified != 0 {
		t.Errorf("stale build notified %d subscribers", notified)
	}
}

func TestCoordinator_ConcurrentUpdates(t *testing.T) {
	c := New(Options{})
	snap := testSnapshot()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.UpdateSnapshot(snap)
		}()
	}
	wg.Wait()

	if got := c.Current().Generation; got != 20 {
		t.Errorf("Current().Generation = %d, want 20", got)
	}
}

func TestCoordinator_NotificationsInGenerationOrder(t *testing.T) {
	c := New(Options{})

	var (
		mu  sync.Mutex
		got []uint64
	)
	c.OnChange(func(r *Result) {
		mu.Lock()
		got = append(got, r.Generation)
		mu.Unlock()
	})

	// A slower build finishing after a newer one was delivered is dropped.
	c.notify(&Result{Generation: 2})
	c.notify(&Result{Generation: 1})
	c.notify(&Result{Generation: 3})
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("notified generations = %v, want [2 3]", got)
	}

	snap := testSnapshot()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.UpdateSnapshot(snap)
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("notified generations went backwards: %v", got)
		}
	}
	if last := got[len(got)-1]; last != c.Current().Generation {
		t.Errorf("last notified generation = %d, want current %d", last, c.Current().Generation)
	}
}

func TestArrange_PanelUsesFirstVisibleSection(t *testing.T) {
	cfg := &dashboard.Config{Sections: []dashboard.Section{
		{Items: []dashboard.Item{{EntityID: "switch.porch",
			VisibilityConditions: []dashboard.Condition{{Entity: "switch.porch", State: "on"}}}}},
		{Items: []dashboard.Item{{EntityID: "light.kitchen", CardType: "tile"}}},
	}}

	got, columns := arrange(dashboard.LayoutPanel, cfg, testSnapshot(), 900, LayoutParams{})
	want := layout.Placement{Section: 1, Item: layout.WholeSection, Width: 900, Height: 50}
	if len(got) != 1 || got[0] != want {
		t.Errorf("arrange(panel) = %+v, want [%+v]", got, want)
	}
	if columns != 1 {
		t.Errorf("columns = %d, want 1", columns)
	}
}

func TestArrange_NilConfig(t *testing.T) {
	got, columns := arrange(dashboard.LayoutMasonry, nil, nil, 800, LayoutParams{})
	if got == nil || len(got) != 0 || columns != 0 {
		t.Errorf("arrange(nil) = %v, %d, want empty, 0", got, columns)
	}
}

func TestEstimateCardsHeight(t *testing.T) {
	sec := dashboard.Section{CardType: "vertical-stack"}
	items := []dashboard.Item{
		{CardType: "entities"},
		{CardType: "entities"},
		{CardType: "tile"},
	}
	// One entities card of two rows (150) plus a tile (50) and one gap.
	if got := estimateCardsHeight(sec, items, 8); got != 208 {
		t.Errorf("estimateCardsHeight() = %v, want 208", got)
	}

	list := dashboard.Section{CardType: "entities"}
	if got := estimateCardsHeight(list, items[:2], 8); got != 150 {
		t.Errorf("estimateCardsHeight(entities) = %v, want 150", got)
	}
}

func TestSummarize(t *testing.T) {
	c := New(Options{})
	c.UpdateSnapshot(testSnapshot())
	if _, err := c.UpdateDocument([]byte(masonryDoc)); err != nil {
		t.Fatalf("UpdateDocument() error = %v", err)
	}

	sum := Summarize(c.Current())
	if sum.Title != "Test" || sum.Source != SourceDocument || len(sum.Views) != 1 {
		t.Fatalf("Summarize() = %+v", sum)
	}
	v := sum.Views[0]
	want := []string{"light.kitchen", "switch.porch", "sensor.kitchen_temp"}
	if v.Title != "Main" || v.Layout != "masonry" || len(v.EntityIDs) != len(want) {
		t.Errorf("view summary = %+v, want entities %v", v, want)
	}
}
