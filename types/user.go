package types

// User represents an operator account stored in the Users table.
type User struct {
	// FullName is the login identity. It is unique after trimming
	// surrounding whitespace and lowercasing.
	FullName string `json:"full_name"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-"`

	// Email is the user's optional email address.
	Email string `json:"email"`

	// IsActive reports whether the account may log in.
	IsActive bool `json:"is_active"`
}
