package models

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// User represents the users table schema. Only admins log in; regular
// visitors never authenticate.
type User struct {
	ID       int64  `json:"id"`
	Login    string `json:"login"`
	Password string `json:"-"`
	Role     string `json:"role"`
	TimestampPair
}

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

var loginPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateLogin reports whether a login is acceptable: 3-50 characters of
// letters, digits, underscore or dash.
func ValidateLogin(login string) bool {
	login = strings.TrimSpace(login)
	return len(login) >= 3 && len(login) <= 50 && loginPattern.MatchString(login)
}

// ValidatePassword reports whether a password has acceptable length.
func ValidatePassword(password string) bool {
	return len(password) >= 6 && len(password) <= 100
}

// FindUserByLogin retrieves a user by login, or ErrNotFound.
func FindUserByLogin(login string) (*User, error) {
	query := `
	SELECT id, login, password, role, created_at, updated_at
	FROM users
	WHERE login = ?
	`

	var user User
	var createdAt, updatedAt int64
	err := db.QueryRow(query, login).Scan(&user.ID, &user.Login, &user.Password, &user.Role, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	user.FromUnixTimestamps(createdAt, updatedAt)
	return &user, nil
}

// CreateUser inserts a new user with a bcrypt-hashed password.
func CreateUser(login, password, role string) error {
	if !ValidateLogin(login) {
		return errors.New("invalid login format")
	}
	if !ValidatePassword(password) {
		return errors.New("invalid password format")
	}

	exists, err := ExistsChecker(`SELECT 1 FROM users WHERE login = ?`, login)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("login already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	ts := NewTimestamps()
	createdAt, updatedAt := ts.UnixTimestamps()
	_, err = db.Exec(`INSERT INTO users (login, password, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		login, string(hashed), role, createdAt, updatedAt)
	return err
}

// ResetUserPassword replaces a user's password hash.
func ResetUserPassword(login, newPassword string) error {
	if !ValidatePassword(newPassword) {
		return errors.New("invalid password format")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	result, err := db.Exec(`UPDATE users SET password = ?, updated_at = strftime('%s','now') WHERE login = ?`,
		string(hashed), login)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// CountUsers returns the total number of users.
func CountUsers() (int64, error) {
	return CountRecords(`SELECT COUNT(*) FROM users`)
}
