package password

// Credential is a stored username/password pair.
//
// Passwords are kept in plaintext: this is a demonstration store and must never
// hold real secrets.
type Credential struct {
	Username string
	Password string
}

// IsReused reports whether candidate already appears in the stored credentials
func IsReused(existing []Credential, candidate string) bool {
	for _, c := range existing {
		if c.Password == candidate {
			return true
		}
	}
	return false
}
