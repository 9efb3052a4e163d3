package strategy

import "github.com/nerrad567/gray-logic-dashboard/internal/registry"

// DefaultDomainOrder is the order in which domains appear inside an area.
// Controllable domains come first, read-only ones last. Domains missing
// from the table sort after all listed domains, alphabetically.
var DefaultDomainOrder = []string{
	registry.DomainLight,
	registry.DomainSwitch,
	registry.DomainFan,
	registry.DomainClimate,
	"water_heater",
	registry.DomainHumidifier,
	registry.DomainCover,
	registry.DomainLock,
	registry.DomainAlarmControlPanel,
	registry.DomainMediaPlayer,
	registry.DomainCamera,
	registry.DomainVacuum,
	registry.DomainScene,
	registry.DomainInputBoolean,
	registry.DomainInputNumber,
	registry.DomainInputSelect,
	registry.DomainInputButton,
	registry.DomainInputDatetime,
	registry.DomainInputText,
	registry.DomainNumber,
	registry.DomainSelect,
	registry.DomainButton,
	registry.DomainSiren,
	registry.DomainTimer,
	registry.DomainCounter,
	registry.DomainWeather,
	registry.DomainPerson,
	registry.DomainCalendar,
	registry.DomainUpdate,
	registry.DomainBinarySensor,
	registry.DomainSensor,
}

// domainRanker orders domains by a declared table.
type domainRanker map[string]int

func newDomainRanker(order []string) domainRanker {
	if len(order) == 0 {
		order = DefaultDomainOrder
	}
	r := make(domainRanker, len(order))
	for i, d := range order {
		if _, dup := r[d]; !dup {
			r[d] = i
		}
	}
	return r
}

// less orders entity IDs by domain rank, then domain name for unlisted
// domains, then entity ID.
func (r domainRanker) less(a, b string) bool {
	da, db := registry.DomainOf(a), registry.DomainOf(b)
	if da != db {
		ra, okA := r[da]
		rb, okB := r[db]
		switch {
		case okA && okB:
			return ra < rb
		case okA:
			return true
		case okB:
			return false
		default:
			return da < db
		}
	}
	return a < b
}
