package admission

import (
	"time"
)

// Policy is the admission configuration.
type Policy struct {
	// WeeklyQuota is the most a team may hold within one ISO week.
	WeeklyQuota time.Duration
	// SlotMinutes is the granularity of reservation boundaries.
	SlotMinutes int
	// Location is the civil timezone dates and "now" are evaluated in.
	Location *time.Location
}

// DefaultPolicy fills whatever a Policy leaves unset. Location is UTC here so the
// engine carries no zone of its own; the service builds its Policy from
// config.Config.Policy, where TIMEZONE defaults to Asia/Seoul.
func DefaultPolicy() Policy {
	return Policy{
		WeeklyQuota: 24 * time.Hour,
		SlotMinutes: 30,
		Location:    time.UTC,
	}
}

func (p Policy) withDefaults() Policy {
	def := DefaultPolicy()
	if p.WeeklyQuota <= 0 {
		p.WeeklyQuota = def.WeeklyQuota
	}
	if p.SlotMinutes <= 0 {
		p.SlotMinutes = def.SlotMinutes
	}
	if p.Location == nil {
		p.Location = def.Location
	}
	return p
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }
