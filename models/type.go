package models

import (
	"database/sql"
)

// Type represents the types table schema (e.g. rolls, sets, drinks).
type Type struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GetTypes retrieves all types.
func GetTypes() ([]Type, error) {
	rows, err := db.Query(`SELECT id, name FROM types ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []Type
	for rows.Next() {
		var t Type
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// GetType retrieves a type by id, or ErrNotFound.
func GetType(id int64) (*Type, error) {
	var t Type
	err := db.QueryRow(`SELECT id, name FROM types WHERE id = ?`, id).Scan(&t.ID, &t.Name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateType inserts a type and returns it with its assigned id.
func CreateType(t *Type) error {
	result, err := db.Exec(`INSERT INTO types (name) VALUES (?)`, t.Name)
	if err != nil {
		return err
	}
	t.ID, err = result.LastInsertId()
	return err
}

// UpdateType renames a type.
func UpdateType(id int64, name string) error {
	result, err := db.Exec(`UPDATE types SET name = ? WHERE id = ?`, name, id)
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

// DeleteType removes a type by id.
func DeleteType(id int64) error {
	return DeleteRecord(`DELETE FROM types WHERE id = ?`, id)
}

// LinkTypeToCategory records a type/category association.
func LinkTypeToCategory(typeID, categoryID int64) error {
	_, err := db.Exec(`
	INSERT OR IGNORE INTO type_categories (type_id, category_id) VALUES (?, ?)`,
		typeID, categoryID)
	return err
}

// GetTypesForCategory lists types linked to a category.
func GetTypesForCategory(categoryID int64) ([]Type, error) {
	rows, err := db.Query(`
	SELECT t.id, t.name
	FROM types t
	JOIN type_categories tc ON tc.type_id = t.id
	WHERE tc.category_id = ?
	ORDER BY t.id ASC`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []Type
	for rows.Next() {
		var t Type
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
