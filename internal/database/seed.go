package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the initial ADMIN account when the users table is empty,
// so a fresh deployment can log in. A blank password skips seeding.
func SeedAdmin(db *sql.DB, email, password string) error {
	if password == "" {
		return nil
	}
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
		INSERT INTO users (id, email, password_hash, name, role, is_active)
		VALUES ($1,$2,$3,'Administrator','ADMIN',TRUE)`,
		uuid.New(), email, string(hash))
	return err
}
