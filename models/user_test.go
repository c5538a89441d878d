package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		login    string
		expected bool
	}{
		{"admin", true},
		{"user_1-a", true},
		{"ab", false},
		{"", false},
		{"with space", false},
		{"кириллица", false},
		{string(make([]byte, 51)), false},
	}

	for _, tt := range tests {
		t.Run(tt.login, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateLogin(tt.login))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword("short"))
	assert.True(t, ValidatePassword("longenough"))
	assert.False(t, ValidatePassword(string(make([]byte, 101))))
}

func TestFindUserByLogin(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	originalDB := db
	db = mockDB
	defer func() { db = originalDB }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	mock.ExpectQuery(`SELECT id, login, password, role, created_at, updated_at\s+FROM users\s+WHERE login = \?`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "login", "password", "role", "created_at", "updated_at"}).
			AddRow(1, "admin", string(hashed), RoleAdmin, 1700000000, 1700000000))

	user, err := FindUserByLogin("admin")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role)
	assert.True(t, user.CheckPassword("secret123"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestFindUserByLoginNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	originalDB := db
	db = mockDB
	defer func() { db = originalDB }()

	mock.ExpectQuery(`FROM users`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "login", "password", "role", "created_at", "updated_at"}))

	_, err = FindUserByLogin("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUserRejectsBadInput(t *testing.T) {
	assert.Error(t, CreateUser("ab", "password123", RoleAdmin))
	assert.Error(t, CreateUser("validlogin", "short", RoleAdmin))
}
