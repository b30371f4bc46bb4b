package storage

// Keys for the persisted session scope. Everything under these keys is
// cleared together when a session ends.
const (
	KeyVoter        = "voter"
	KeyVoterDNI     = "voterDni"
	KeySessionStart = "session_start_time"
)

// Store is the kiosk's session-scoped key-value persistence. It survives a
// process restart so the voting window keeps counting down across one.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the value for key and whether it was present.
	Load(key string) (string, bool, error)
	// Save writes or replaces the value for key.
	Save(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Clear removes every key in the session scope.
	Clear() error
}
