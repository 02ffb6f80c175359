package domain

import "golang.org/x/crypto/bcrypt"

// User is an admin account. The hash never leaves the process in JSON.
type User struct {
	ID           string       `json:"id" db:"id"`
	Username     string       `json:"username" db:"username"`
	PasswordHash PasswordHash `json:"-" db:"password_hash"`
}

// NewUser is the insert shape for a user.
type NewUser struct {
	Username     string
	PasswordHash PasswordHash
}

// PasswordHash is a bcrypt hash of an admin password.
type PasswordHash string

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (PasswordHash, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return PasswordHash(hash), err
}

// Matches reports whether password hashes to pw.
func (pw PasswordHash) Matches(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(pw), []byte(password)) == nil
}

// String masks the hash in fmt output and logs.
func (pw PasswordHash) String() string { return "xxxxxx" }
