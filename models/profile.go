package models

import "time"

// Profile is the aggregate of a user's points and streak counters.
// It is mutated only by the server-side completion pipeline and the streak
// scheduler — never written directly by API clients.
type Profile struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to auth provider

	Username  string `gorm:"index" json:"username"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `gorm:"type:text" json:"avatar_url,omitempty"`

	Points        int64 `json:"points" gorm:"default:0"`
	CurrentStreak int   `json:"current_streak" gorm:"default:0"`
	LongestStreak int   `json:"longest_streak" gorm:"default:0"`

	// Date (not instant) of the last completion, used for streak continuation.
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`

	Timestamps
}

// ProfileSnapshot is the authoritative view returned to clients after a
// completion; celebration payloads are built from it, never from
// locally-computed guesses.
type ProfileSnapshot struct {
	Points        int64 `json:"points"`
	CurrentStreak int   `json:"current_streak"`
	LongestStreak int   `json:"longest_streak"`
}

// Snapshot copies the aggregate counters for return across the service boundary.
func (p *Profile) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{
		Points:        p.Points,
		CurrentStreak: p.CurrentStreak,
		LongestStreak: p.LongestStreak,
	}
}
