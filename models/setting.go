package models

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
)

// Setting value types. Values are stored as text and coerced through the
// type discriminator at the service boundary.
const (
	SettingString  = "string"
	SettingNumber  = "number"
	SettingBoolean = "boolean"
	SettingJSON    = "json"
)

// Setting represents the settings table schema.
type Setting struct {
	ID          int64   `json:"id"`
	Key         string  `json:"key"`
	Value       string  `json:"-"`
	Type        string  `json:"type"`
	Description *string `json:"description"`
	SortOrder   int64   `json:"order"`
	TimestampPair
}

// ErrInvalidSettingValue is returned when a raw value does not match the
// declared type discriminator.
var ErrInvalidSettingValue = errors.New("setting value does not match its type")

// ValidateSettingValue checks a raw value against a type discriminator and
// returns the canonical stored text.
func ValidateSettingValue(value, settingType string) (string, error) {
	switch settingType {
	case SettingNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "", ErrInvalidSettingValue
		}
		return value, nil
	case SettingBoolean:
		if value != "true" && value != "false" {
			return "", ErrInvalidSettingValue
		}
		return value, nil
	case SettingJSON:
		if !json.Valid([]byte(value)) {
			return "", ErrInvalidSettingValue
		}
		return value, nil
	case SettingString, "":
		return value, nil
	default:
		return "", ErrInvalidSettingValue
	}
}

// TypedValue decodes the stored text according to the type discriminator.
// Undecodable values fall back to the raw string, matching how stale rows
// written before a type change are surfaced.
func (s *Setting) TypedValue() interface{} {
	switch s.Type {
	case SettingNumber:
		if n, err := strconv.ParseFloat(s.Value, 64); err == nil {
			return n
		}
	case SettingBoolean:
		return s.Value == "true"
	case SettingJSON:
		var decoded interface{}
		if err := json.Unmarshal([]byte(s.Value), &decoded); err == nil {
			return decoded
		}
	}
	return s.Value
}

// MarshalJSON emits the setting with its coerced value.
func (s Setting) MarshalJSON() ([]byte, error) {
	type alias Setting
	return json.Marshal(struct {
		alias
		Value interface{} `json:"value"`
	}{alias(s), s.TypedValue()})
}

func scanSetting(scanner interface{ Scan(...interface{}) error }) (*Setting, error) {
	var s Setting
	var createdAt, updatedAt int64
	err := scanner.Scan(&s.ID, &s.Key, &s.Value, &s.Type, &s.Description, &s.SortOrder, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	s.FromUnixTimestamps(createdAt, updatedAt)
	return &s, nil
}

const settingColumns = `id, key, value, type, description, sort_order, created_at, updated_at`

// GetSettings retrieves all settings in display order.
func GetSettings() ([]Setting, error) {
	rows, err := db.Query(`SELECT ` + settingColumns + ` FROM settings ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, *s)
	}
	return settings, rows.Err()
}

// GetSettingByKey retrieves a setting by key, or ErrNotFound.
func GetSettingByKey(key string) (*Setting, error) {
	s, err := scanSetting(db.QueryRow(`SELECT `+settingColumns+` FROM settings WHERE key = ?`, key))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return s, err
}

// GetSettingsObject returns all settings as a key to typed value map.
func GetSettingsObject() (map[string]interface{}, error) {
	settings, err := GetSettings()
	if err != nil {
		return nil, err
	}
	object := make(map[string]interface{}, len(settings))
	for i := range settings {
		object[settings[i].Key] = settings[i].TypedValue()
	}
	return object, nil
}

// CreateSetting inserts a setting after validating the value against its
// type discriminator.
func CreateSetting(s *Setting) error {
	value, err := ValidateSettingValue(s.Value, s.Type)
	if err != nil {
		return err
	}
	if s.Type == "" {
		s.Type = SettingString
	}
	s.Value = value

	ts := NewTimestamps()
	createdAt, updatedAt := ts.UnixTimestamps()
	result, err := db.Exec(`
	INSERT INTO settings (key, value, type, description, sort_order, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.Key, s.Value, s.Type, s.Description, s.SortOrder, createdAt, updatedAt)
	if err != nil {
		return err
	}
	s.ID, err = result.LastInsertId()
	s.TimestampPair = ts
	return err
}

// UpdateSetting replaces a setting row by id.
func UpdateSetting(s *Setting) error {
	value, err := ValidateSettingValue(s.Value, s.Type)
	if err != nil {
		return err
	}
	s.Value = value

	_, err = db.Exec(`
	UPDATE settings SET key = ?, value = ?, type = ?, description = ?, sort_order = ?, updated_at = strftime('%s','now')
	WHERE id = ?`,
		s.Key, s.Value, s.Type, s.Description, s.SortOrder, s.ID)
	return err
}

// DeleteSetting removes a setting by id.
func DeleteSetting(id int64) error {
	return DeleteRecord(`DELETE FROM settings WHERE id = ?`, id)
}
