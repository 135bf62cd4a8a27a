package port

// PasswordHasher hashes and verifies secrets using the configured algorithm.
// The engine treats the implementation as a trusted credential store.
type PasswordHasher interface {
	// Algorithm names the hashing scheme recorded alongside each credential.
	Algorithm() string
	Hash(password string) (string, error)
	Verify(password string, encoded string) (bool, error)
}
