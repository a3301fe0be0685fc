//go:build !prod

package database

// DefaultPath keeps the database next to the binary during development.
func DefaultPath() string {
	return "uiloop.db"
}
