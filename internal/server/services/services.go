// Package services implements the server's business operations on top of
// the repositories: authentication, profile editing, and owner-guarded
// bookmark management.
package services

// PasswordHasher turns passwords into self-describing one-way encodings and
// checks candidates against them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) (bool, error)
}

// TokenIssuer signs access tokens for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// TokenResponse is returned by sign-up and sign-in.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}
