package persist

import "github.com/projecthelios/HeliosManager/system/profile"

// Store is the single external cell holding the profile the user last
// explicitly selected. The profile-selection surface writes it; the
// auto-boost controller only ever reads it, fresh on every use, so a
// concurrent rewrite resolves last-write-wins.
type Store interface {
	// Read returns the desired profile, re-read from backing storage.
	Read() (profile.Level, error)
	// Write records the desired profile with atomic replace semantics.
	Write(profile.Level) error
}
