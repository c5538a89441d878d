package models

import (
	"database/sql"
)

// Category represents the categories table schema.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Preview   string `json:"preview"`
	SortOrder *int64 `json:"order"`
	TimestampPair
}

// GetCategories retrieves all categories.
func GetCategories() ([]Category, error) {
	rows, err := db.Query(`
	SELECT id, name, preview, sort_order, created_at, updated_at
	FROM categories
	ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		var createdAt, updatedAt int64
		if err := rows.Scan(&c.ID, &c.Name, &c.Preview, &c.SortOrder, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		c.FromUnixTimestamps(createdAt, updatedAt)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory retrieves a category by id, or ErrNotFound.
func GetCategory(id int64) (*Category, error) {
	var c Category
	var createdAt, updatedAt int64
	err := db.QueryRow(`
	SELECT id, name, preview, sort_order, created_at, updated_at
	FROM categories
	WHERE id = ?`, id).Scan(&c.ID, &c.Name, &c.Preview, &c.SortOrder, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c.FromUnixTimestamps(createdAt, updatedAt)
	return &c, nil
}

// CreateCategory inserts a category and returns it with its assigned id.
func CreateCategory(c *Category) error {
	ts := NewTimestamps()
	createdAt, updatedAt := ts.UnixTimestamps()
	result, err := db.Exec(`
	INSERT INTO categories (name, preview, sort_order, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?)`,
		c.Name, c.Preview, c.SortOrder, createdAt, updatedAt)
	if err != nil {
		return err
	}
	c.ID, err = result.LastInsertId()
	c.TimestampPair = ts
	return err
}

// UpdateCategory updates name, order and optionally the preview filename.
func UpdateCategory(id int64, name string, sortOrder *int64, preview string) error {
	var err error
	if preview != "" {
		_, err = db.Exec(`
		UPDATE categories SET name = ?, sort_order = ?, preview = ?, updated_at = strftime('%s','now')
		WHERE id = ?`, name, sortOrder, preview, id)
	} else {
		_, err = db.Exec(`
		UPDATE categories SET name = ?, sort_order = ?, updated_at = strftime('%s','now')
		WHERE id = ?`, name, sortOrder, id)
	}
	return err
}

// DeleteCategory removes a category by id.
func DeleteCategory(id int64) error {
	return DeleteRecord(`DELETE FROM categories WHERE id = ?`, id)
}

// CountCategories returns the total number of categories.
func CountCategories() (int64, error) {
	return CountRecords(`SELECT COUNT(*) FROM categories`)
}
