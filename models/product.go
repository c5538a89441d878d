package models

import (
	"database/sql"
	"strings"
)

// Product represents the products table schema. Type and Category are
// populated from joins on reads.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       int64    `json:"price"`
	Img         string   `json:"img"`
	Article     int64    `json:"article"`
	Weight      *int64   `json:"weight"`
	InStock     bool     `json:"inStock"`
	SortOrder   int64    `json:"order"`
	CategoryID  int64    `json:"categoryId"`
	TypeID      int64    `json:"typeId"`
	Type        *Type    `json:"type,omitempty"`
	Category    *Category `json:"category,omitempty"`
	TimestampPair
}

// ProductFilter narrows GetProducts results.
type ProductFilter struct {
	CategoryID int64
	TypeID     int64
	InStock    *bool
	Search     string
}

const productColumns = `
	p.id, p.name, p.description, p.price, p.img, p.article, p.weight,
	p.in_stock, p.sort_order, p.category_id, p.type_id, p.created_at, p.updated_at,
	t.id, t.name, c.id, c.name, c.preview, c.sort_order`

const productJoins = `
	FROM products p
	LEFT JOIN types t ON t.id = p.type_id
	LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(scanner interface{ Scan(...interface{}) error }) (*Product, error) {
	var p Product
	var createdAt, updatedAt int64
	var typeID sql.NullInt64
	var typeName sql.NullString
	var catID, catOrder sql.NullInt64
	var catName, catPreview sql.NullString

	err := scanner.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Img, &p.Article, &p.Weight,
		&p.InStock, &p.SortOrder, &p.CategoryID, &p.TypeID, &createdAt, &updatedAt,
		&typeID, &typeName, &catID, &catName, &catPreview, &catOrder,
	)
	if err != nil {
		return nil, err
	}
	p.FromUnixTimestamps(createdAt, updatedAt)

	if typeID.Valid {
		p.Type = &Type{ID: typeID.Int64, Name: typeName.String}
	}
	if catID.Valid {
		category := Category{ID: catID.Int64, Name: catName.String, Preview: catPreview.String}
		if catOrder.Valid {
			order := catOrder.Int64
			category.SortOrder = &order
		}
		p.Category = &category
	}
	return &p, nil
}

// GetProducts retrieves products matching the filter. A search term switches
// ordering to alphabetical; the default is the explicit sort order.
func GetProducts(filter ProductFilter) ([]Product, error) {
	var conditions []string
	var args []interface{}

	if filter.CategoryID > 0 {
		conditions = append(conditions, "p.category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.TypeID > 0 {
		conditions = append(conditions, "p.type_id = ?")
		args = append(args, filter.TypeID)
	}
	if filter.InStock != nil {
		conditions = append(conditions, "p.in_stock = ?")
		args = append(args, *filter.InStock)
	}

	orderClause := "ORDER BY p.sort_order ASC, p.id ASC"
	if search := strings.TrimSpace(filter.Search); search != "" {
		conditions = append(conditions, "p.name LIKE ? COLLATE NOCASE")
		args = append(args, "%"+search+"%")
		orderClause = "ORDER BY p.name ASC, p.sort_order ASC"
	}

	query := "SELECT" + productColumns + productJoins
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " " + orderClause

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetProduct retrieves a single product by id, or ErrNotFound.
func GetProduct(id int64) (*Product, error) {
	query := "SELECT" + productColumns + productJoins + " WHERE p.id = ?"
	p, err := scanProduct(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

// CreateProduct inserts a product and returns it with its assigned id.
func CreateProduct(p *Product) error {
	ts := NewTimestamps()
	createdAt, updatedAt := ts.UnixTimestamps()
	result, err := db.Exec(`
	INSERT INTO products (name, description, price, img, article, weight, in_stock, sort_order, category_id, type_id, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Description, p.Price, p.Img, p.Article, p.Weight, p.InStock,
		p.SortOrder, p.CategoryID, p.TypeID, createdAt, updatedAt)
	if err != nil {
		return err
	}
	p.ID, err = result.LastInsertId()
	p.TimestampPair = ts
	return err
}

// ProductUpdate carries the mutable product fields; nil pointers are left
// untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *int64
	Img         *string
	Article     *int64
	Weight      *int64
	ClearWeight bool
	InStock     *bool
	SortOrder   *int64
	CategoryID  *int64
	TypeID      *int64
}

// UpdateProduct applies a partial update to the given product id.
func UpdateProduct(id int64, update ProductUpdate) error {
	var sets []string
	var args []interface{}

	appendSet := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if update.Name != nil {
		appendSet("name", *update.Name)
	}
	if update.Description != nil {
		appendSet("description", *update.Description)
	}
	if update.Price != nil {
		appendSet("price", *update.Price)
	}
	if update.Img != nil {
		appendSet("img", *update.Img)
	}
	if update.Article != nil {
		appendSet("article", *update.Article)
	}
	if update.ClearWeight {
		sets = append(sets, "weight = NULL")
	} else if update.Weight != nil {
		appendSet("weight", *update.Weight)
	}
	if update.InStock != nil {
		appendSet("in_stock", *update.InStock)
	}
	if update.SortOrder != nil {
		appendSet("sort_order", *update.SortOrder)
	}
	if update.CategoryID != nil {
		appendSet("category_id", *update.CategoryID)
	}
	if update.TypeID != nil {
		appendSet("type_id", *update.TypeID)
	}

	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = strftime('%s','now')")
	args = append(args, id)

	result, err := db.Exec("UPDATE products SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
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

// DeleteProduct removes a product by id.
func DeleteProduct(id int64) error {
	return DeleteRecord(`DELETE FROM products WHERE id = ?`, id)
}

// CountProducts returns the total number of products.
func CountProducts() (int64, error) {
	return CountRecords(`SELECT COUNT(*) FROM products`)
}
