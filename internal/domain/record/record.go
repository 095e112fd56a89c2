package record

import "time"

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// Now is the default Clock.
func Now() time.Time {
	return time.Now()
}

// Timestamps is embedded by every persisted entity.
// CreatedAt is set once; UpdatedAt moves on every save.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Touch stamps the record for a save at now.
func (t *Timestamps) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}

// IsNew reports whether the record has never been saved.
func (t Timestamps) IsNew() bool {
	return t.CreatedAt.IsZero()
}
