package pipeline

import "time"

// Summary describes a published build without its placements. It is what
// change notifications carry; the full layout is fetched on demand.
type Summary struct {
	Generation uint64        `json:"generation"`
	Source     Source        `json:"source"`
	Title      string        `json:"title,omitempty"`
	BuiltAt    time.Time     `json:"built_at"`
	Views      []ViewSummary `json:"views"`
}

// ViewSummary is one view of a Summary.
type ViewSummary struct {
	Index     int      `json:"index"`
	Title     string   `json:"title,omitempty"`
	Path      string   `json:"path,omitempty"`
	Layout    string   `json:"layout"`
	Columns   int      `json:"columns"`
	EntityIDs []string `json:"entity_ids"`
}

// Summarize describes res.
func Summarize(res *Result) Summary {
	sum := Summary{
		Generation: res.Generation,
		Source:     res.Source,
		BuiltAt:    res.BuiltAt,
		Views:      make([]ViewSummary, 0, len(res.Views)),
	}
	if res.Dashboard != nil {
		sum.Title = res.Dashboard.Title
	}
	for _, v := range res.Views {
		vs := ViewSummary{
			Index:     v.Index,
			Title:     v.Title,
			Path:      v.Path,
			Layout:    string(v.Layout),
			Columns:   v.Columns,
			EntityIDs: []string{},
		}
		if v.Config != nil {
			vs.EntityIDs = append(vs.EntityIDs, v.Config.AllEntityIDs()...)
		}
		sum.Views = append(sum.Views, vs)
	}
	return sum
}
