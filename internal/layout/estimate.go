package layout

// CardUnitHeight is the height of one card size unit in masonry views.
const CardUnitHeight = 50.0

// Sections grid row metrics.
const (
	GridRowHeight = 56.0
	GridRowGap    = 8.0
)

// cardSizes is the size, in card units, of cards with a fixed footprint.
var cardSizes = map[string]int{
	"alarm-panel":      6,
	"area":             4,
	"button":           2,
	"calendar":         6,
	"clock":            2,
	"conditional":      1,
	"gauge":            4,
	"heading":          1,
	"history-graph":    4,
	"humidifier":       7,
	"iframe":           6,
	"light":            5,
	"map":              6,
	"markdown":         3,
	"media-control":    3,
	"picture":          4,
	"picture-elements": 4,
	"picture-entity":   4,
	"picture-glance":   4,
	"plant-status":     3,
	"sensor":           2,
	"statistic":        2,
	"statistics-graph": 4,
	"thermostat":       7,
	"tile":             1,
	"todo-list":        4,
	"weather-forecast": 4,
}

// CardSize estimates a card's size in card units. List cards grow with
// their row count; glance cards wrap five entities per row.
func CardSize(cardType string, entityCount int) int {
	switch cardType {
	case "entities", "entity-filter", "logbook":
		return 1 + max(entityCount, 1)
	case "glance":
		rows := (max(entityCount, 1) + 4) / 5
		return 1 + 2*rows
	case "entity":
		return 2
	}
	if size, ok := cardSizes[cardType]; ok {
		return size
	}
	return 3
}

// EstimateHeight returns the masonry height of a card in pixels.
func EstimateHeight(cardType string, entityCount int) float64 {
	return float64(CardSize(cardType, entityCount)) * CardUnitHeight
}

// EstimateGridHeight returns the height of an item on the sections grid.
// A declared row count wins; otherwise tiles and headings take one row and
// other cards are sized from their card units.
func EstimateGridHeight(cardType string, rows, entityCount int) float64 {
	if rows <= 0 {
		switch cardType {
		case "tile", "heading", "button":
			rows = 1
		default:
			px := EstimateHeight(cardType, entityCount)
			rows = int((px + GridRowGap + GridRowHeight + GridRowGap - 1) / (GridRowHeight + GridRowGap))
		}
	}
	return float64(rows)*GridRowHeight + float64(rows-1)*GridRowGap
}
