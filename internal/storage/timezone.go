package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

const timezoneKey = "tzsync.last"

// TimezoneRecord is the diagnostics blob written after each timezone sync.
// It shares the store with the session record but owns a disjoint key, so
// neither tenant ever needs to coordinate with the other.
type TimezoneRecord struct {
	Name          string `json:"name"`
	OffsetMinutes int    `json:"offsetMinutes"`
	SyncedAt      int64  `json:"syncedAt"`
}

// RecordTimezoneSync stores the device's current timezone under the
// diagnostics key.
func RecordTimezoneSync(kv *KV, now time.Time) error {
	name, offsetSec := now.Zone()
	rec := TimezoneRecord{
		Name:          name,
		OffsetMinutes: offsetSec / 60,
		SyncedAt:      now.UnixMilli(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling timezone record: %w", err)
	}
	return kv.Set(timezoneKey, data)
}

// LastTimezoneSync returns the most recent timezone record, or nil if none
// has been written yet.
func LastTimezoneSync(kv *KV) (*TimezoneRecord, error) {
	data, ok, err := kv.Get(timezoneKey)
	if err != nil || !ok {
		return nil, err
	}
	var rec TimezoneRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding timezone record: %w", err)
	}
	return &rec, nil
}
