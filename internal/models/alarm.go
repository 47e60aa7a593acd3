package models

// DefaultLabel is used when an alarm is created with an empty label.
const DefaultLabel = "Alarm"

// Alarm is the persisted alarm record. Time is a zero-padded 24h "HH:MM"
// string compared by exact equality against the current minute. Days holds
// weekday indices (0=Sunday..6=Saturday); an empty set means a one-time
// alarm. LastTriggered carries the day marker ("2006-01-02", local time) of
// the most recent firing and suppresses re-triggering within that day.
type Alarm struct {
	ID            string `json:"id"`
	Time          string `json:"time"`
	Label         string `json:"label"`
	Days          []int  `json:"days"`
	IsActive      bool   `json:"isActive"`
	UseAI         bool   `json:"useAI"`
	CreatedAt     int64  `json:"createdAt"`
	LastTriggered string `json:"lastTriggered,omitempty"`
}

func (a *Alarm) Clone() *Alarm {
	if a == nil {
		return nil
	}
	c := *a
	c.Days = append([]int(nil), a.Days...)
	return &c
}

// FiresOn reports whether the alarm's weekday set admits the given weekday.
// An empty set matches any day.
func (a *Alarm) FiresOn(weekday int) bool {
	if len(a.Days) == 0 {
		return true
	}
	for _, d := range a.Days {
		if d == weekday {
			return true
		}
	}
	return false
}
