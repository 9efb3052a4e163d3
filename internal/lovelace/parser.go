package lovelace

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nerrad567/gray-logic-dashboard/internal/dashboard"
)

// Logger defines the logging interface used by the Parser.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Parser turns raw Lovelace documents into the dashboard model.
// It holds no per-document state and is safe for concurrent use.
type Parser struct {
	logger Logger
}

// New creates a Parser that discards its diagnostics.
func New() *Parser {
	return &Parser{logger: noopLogger{}}
}

// SetLogger sets the logger used to report skipped cards.
func (p *Parser) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	p.logger = logger
}

var defaultParser = New()

// ParseDashboard parses a decoded Lovelace document with a default Parser.
func ParseDashboard(doc map[string]any) (*dashboard.Dashboard, error) {
	return defaultParser.ParseDashboard(doc)
}

// ParseDocument decodes raw bytes (JSON or YAML) and parses them with a
// default Parser.
func ParseDocument(data []byte) (*dashboard.Dashboard, error) {
	return defaultParser.ParseDocument(data)
}

// DecodeDocument decodes JSON or YAML bytes into a document map.
// JSON is tried first when the payload starts with "{".
func DecodeDocument(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedInput)
	}

	var doc map[string]any
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &doc); err == nil {
			return doc, nil
		}
	}
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document is not an object", ErrMalformedInput)
	}
	return doc, nil
}

// ParseDocument decodes raw bytes (JSON or YAML) and parses the result.
func (p *Parser) ParseDocument(data []byte) (*dashboard.Dashboard, error) {
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	return p.ParseDashboard(doc)
}

// ParseDashboard converts a decoded Lovelace document into a Dashboard.
//
// A document with a top-level "strategy" and no views yields a Dashboard
// carrying only the strategy marker. Otherwise "views" must be a list;
// entries that are not objects are skipped.
//
// Returns:
//   - *dashboard.Dashboard: the parsed dashboard
//   - error: ErrMalformedInput when the document has no usable views list
func (p *Parser) ParseDashboard(doc map[string]any) (*dashboard.Dashboard, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrMalformedInput)
	}

	d := &dashboard.Dashboard{Title: asString(doc["title"])}

	rawViews, hasViews := doc["views"]
	if strategy, ok := asMap(doc["strategy"]); ok && !hasViews {
		d.Strategy = strategy
		d.Views = []dashboard.View{}
		return d, nil
	}
	if !hasViews {
		return nil, fmt.Errorf("%w: missing views", ErrMalformedInput)
	}
	views, ok := asSlice(rawViews)
	if !ok {
		return nil, fmt.Errorf("%w: views is not a list", ErrMalformedInput)
	}

	d.Views = make([]dashboard.View, 0, len(views))
	for i, rv := range views {
		raw, ok := asMap(rv)
		if !ok {
			p.logger.Warn("skipping view that is not an object", "index", i)
			continue
		}
		d.Views = append(d.Views, parseView(raw))
	}

	return d, nil
}

func parseView(raw map[string]any) dashboard.View {
	v := dashboard.View{
		Title:       asString(raw["title"]),
		Path:        asString(raw["path"]),
		Icon:        asString(raw["icon"]),
		RawCards:    asMaps(raw["cards"]),
		RawSections: asMaps(raw["sections"]),
	}
	if strategy, ok := asMap(raw["strategy"]); ok {
		v.Strategy = strategy
	}
	if n, ok := asInt(raw["max_columns"]); ok && n > 0 {
		v.MaxColumns = n
	}

	_, hasCards := raw["cards"]
	_, hasSections := raw["sections"]
	switch {
	case asString(raw["type"]) != "":
		v.Layout = dashboard.ParseLayout(asString(raw["type"]))
	case hasSections && !hasCards:
		v.Layout = dashboard.LayoutSections
	default:
		v.Layout = dashboard.LayoutMasonry
	}

	return v
}

// ExtractEntitiesFromCard returns every entity referenced by a raw card,
// recursing through stacks and conditional cards in declared order.
// Cards that cannot be decoded yield no references.
func ExtractEntitiesFromCard(card map[string]any) []EntityRef {
	c, err := DecodeCard(card)
	if err != nil {
		return nil
	}
	return c.EntityRefs()
}
