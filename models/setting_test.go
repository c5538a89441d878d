package models

import (
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestTypedValue(t *testing.T) {
	tests := []struct {
		name     string
		setting  Setting
		expected interface{}
	}{
		{"string", Setting{Value: "hello", Type: SettingString}, "hello"},
		{"number", Setting{Value: "42.5", Type: SettingNumber}, 42.5},
		{"integer number", Setting{Value: "7", Type: SettingNumber}, 7.0},
		{"boolean true", Setting{Value: "true", Type: SettingBoolean}, true},
		{"boolean false", Setting{Value: "false", Type: SettingBoolean}, false},
		{"boolean junk", Setting{Value: "yes", Type: SettingBoolean}, false},
		{"json object", Setting{Value: `{"a":1}`, Type: SettingJSON}, map[string]interface{}{"a": 1.0}},
		{"json broken falls back to raw", Setting{Value: `{broken`, Type: SettingJSON}, `{broken`},
		{"number broken falls back to raw", Setting{Value: "abc", Type: SettingNumber}, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.setting.TypedValue())
		})
	}
}

func TestValidateSettingValue(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		settingType string
		wantErr     bool
	}{
		{"plain string", "anything", SettingString, false},
		{"empty type is string", "anything", "", false},
		{"valid number", "12.5", SettingNumber, false},
		{"invalid number", "twelve", SettingNumber, true},
		{"valid boolean", "true", SettingBoolean, false},
		{"invalid boolean", "1", SettingBoolean, true},
		{"valid json", `["a","b"]`, SettingJSON, false},
		{"invalid json", `[a`, SettingJSON, true},
		{"unknown type", "x", "blob", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSettingValue(tt.value, tt.settingType)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSettingValue)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSettingMarshalJSONCoercesValue(t *testing.T) {
	setting := Setting{ID: 1, Key: "delivery_price", Value: "250", Type: SettingNumber}

	data, err := json.Marshal(setting)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 250.0, decoded["value"])
	assert.Equal(t, "delivery_price", decoded["key"])
}

func TestGetSettingByKey(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	originalDB := db
	db = mockDB
	defer func() { db = originalDB }()

	mock.ExpectQuery(`SELECT id, key, value, type, description, sort_order, created_at, updated_at FROM settings WHERE key = \?`).
		WithArgs("min_order").
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "type", "description", "sort_order", "created_at", "updated_at"}).
			AddRow(3, "min_order", "990", "number", "Minimum order amount", 0, 1700000000, 1700000000))

	setting, err := GetSettingByKey("min_order")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), setting.ID)
	assert.Equal(t, 990.0, setting.TypedValue())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSettingByKeyNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	originalDB := db
	db = mockDB
	defer func() { db = originalDB }()

	mock.ExpectQuery(`SELECT id, key, value, type, description, sort_order, created_at, updated_at FROM settings WHERE key = \?`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "type", "description", "sort_order", "created_at", "updated_at"}))

	_, err = GetSettingByKey("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetSettingsObject(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	originalDB := db
	db = mockDB
	defer func() { db = originalDB }()

	mock.ExpectQuery(`SELECT id, key, value, type, description, sort_order, created_at, updated_at FROM settings ORDER BY sort_order ASC, id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "key", "value", "type", "description", "sort_order", "created_at", "updated_at"}).
			AddRow(1, "open", "true", "boolean", nil, 0, 1700000000, 1700000000).
			AddRow(2, "phone", "+79000000000", "string", nil, 1, 1700000000, 1700000000).
			AddRow(3, "branches", `["Baturina 30","Lesoparkovaya 27"]`, "json", nil, 2, 1700000000, 1700000000))

	object, err := GetSettingsObject()
	assert.NoError(t, err)
	assert.Equal(t, true, object["open"])
	assert.Equal(t, "+79000000000", object["phone"])
	assert.Equal(t, []interface{}{"Baturina 30", "Lesoparkovaya 27"}, object["branches"])
}
