package models

// AgentPreference stores an agent's standing scheduling constraints:
// assignment volume caps and location/event-type affinity. One record per
// agent, mutated only through explicit preference edits.
type AgentPreference struct {
	PreferredLocations  []string `json:"preferred_locations"`
	PreferredEventTypes []string `json:"preferred_event_types"`
	MaxEventsPerWeek    int      `json:"max_events_per_week"`
	MaxEventsPerMonth   int      `json:"max_events_per_month"`
}

// DefaultPreference returns the preference record used before the agent has
// saved one: no affinity lists, generous caps.
func DefaultPreference() AgentPreference {
	return AgentPreference{
		MaxEventsPerWeek:  7,
		MaxEventsPerMonth: 31,
	}
}

// Normalize clamps the volume caps to their minimum of one event.
func (p *AgentPreference) Normalize() {
	if p.MaxEventsPerWeek < 1 {
		p.MaxEventsPerWeek = 1
	}
	if p.MaxEventsPerMonth < 1 {
		p.MaxEventsPerMonth = 1
	}
}

// PrefersLocation reports whether the location matches the preferred list.
// An empty list prefers everything.
func (p AgentPreference) PrefersLocation(location string) bool {
	if len(p.PreferredLocations) == 0 {
		return true
	}
	for _, l := range p.PreferredLocations {
		if l == location {
			return true
		}
	}
	return false
}

// PrefersEventType reports whether the event type matches the preferred list.
// An empty list prefers everything.
func (p AgentPreference) PrefersEventType(eventType string) bool {
	if len(p.PreferredEventTypes) == 0 {
		return true
	}
	for _, t := range p.PreferredEventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}
