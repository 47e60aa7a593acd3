package models

// StorageVersion is the current on-disk envelope version.
const StorageVersion = 1

// Storage is the persistence envelope for the whole alarm collection.
type Storage struct {
	Version int      `json:"version"`
	Alarms  []*Alarm `json:"alarms"`
}

func NewStorage(alarms []*Alarm) *Storage {
	if alarms == nil {
		alarms = make([]*Alarm, 0)
	}
	return &Storage{Version: StorageVersion, Alarms: alarms}
}
