package registry

// hiddenDomains are never shown on auto-generated dashboards.
var hiddenDomains = map[string]bool{
	"ai_task":                 true,
	DomainAutomation:          true,
	"configurator":            true,
	"conversation":            true,
	"device_tracker":          true,
	"event":                   true,
	"geo_location":            true,
	"notify":                  true,
	"persistent_notification": true,
	DomainScript:              true,
	"stt":                     true,
	"sun":                     true,
	"tag":                     true,
	"todo":                    true,
	"tts":                     true,
	"wake_word":               true,
	"zone":                    true,
}

// hiddenPlatforms are integrations whose entities are hidden on
// auto-generated dashboards.
var hiddenPlatforms = map[string]bool{
	"backup":     true,
	"cloud":      true,
	"mobile_app": true,
}

// ShouldShowInDefaultView reports whether the entity belongs on an
// auto-generated overview. It is false for hidden domains and platforms,
// for config/diagnostic entities, and for entities hidden or disabled in
// the registry.
func (e Entity) ShouldShowInDefaultView() bool {
	if hiddenDomains[e.Domain()] {
		return false
	}
	if hiddenPlatforms[e.Platform] {
		return false
	}
	if e.EntityCategory != "" {
		return false
	}
	if e.HiddenBy != "" || e.DisabledBy != "" {
		return false
	}
	return true
}

// IsHiddenDomain reports whether a domain is excluded from generated views.
func IsHiddenDomain(domain string) bool {
	return hiddenDomains[domain]
}

// VisibilityRules extends the built-in hidden domain and platform sets.
// The zero value applies only the built-in rules.
type VisibilityRules struct {
	HiddenDomains   []string
	HiddenPlatforms []string
}

// Show applies the built-in rules plus the extra hidden sets.
func (r VisibilityRules) Show(e Entity) bool {
	if !e.ShouldShowInDefaultView() {
		return false
	}
	domain := e.Domain()
	for _, d := range r.HiddenDomains {
		if d == domain {
			return false
		}
	}
	for _, p := range r.HiddenPlatforms {
		if p == e.Platform {
			return false
		}
	}
	return true
}
