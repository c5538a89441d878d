package models

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var productRowColumns = []string{
	"id", "name", "description", "price", "img", "article", "weight",
	"in_stock", "sort_order", "category_id", "type_id", "created_at", "updated_at",
	"t_id", "t_name", "c_id", "c_name", "c_preview", "c_sort_order",
}

func TestGetProductsDefaultOrdering(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	originalDB := db
	db = mockDB
	defer func() { db = originalDB }()

	mock.ExpectQuery(`SELECT.+FROM products p.+ORDER BY p.sort_order ASC, p.id ASC`).
		WillReturnRows(sqlmock.NewRows(productRowColumns).
			AddRow(1, "Philadelphia", "Classic roll", 590, "a1.jpg", 1001, 250, true, 1, 2, 3, 1700000000, 1700000000,
				3, "Rolls", 2, "Sushi", "sushi_123.jpg", 1).
			AddRow(2, "California", nil, 490, "a2.jpg", 1002, nil, true, 2, 2, 3, 1700000000, 1700000000,
				3, "Rolls", 2, "Sushi", "sushi_123.jpg", 1))

	products, err := GetProducts(ProductFilter{})
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Philadelphia", products[0].Name)
	assert.Equal(t, "Rolls", products[0].Type.Name)
	assert.Equal(t, "Sushi", products[0].Category.Name)
	assert.Nil(t, products[1].Description)
	assert.Nil(t, products[1].Weight)
}

func TestGetProductsSearchSwitchesOrdering(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	originalDB := db
	db = mockDB
	defer func() { db = originalDB }()

	mock.ExpectQuery(`SELECT.+WHERE p.name LIKE \? COLLATE NOCASE ORDER BY p.name ASC, p.sort_order ASC`).
		WithArgs("%phila%").
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	_, err = GetProducts(ProductFilter{Search: "phila"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductsCombinedFilters(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	originalDB := db
	db = mockDB
	defer func() { db = originalDB }()

	inStock := true
	mock.ExpectQuery(`WHERE p.category_id = \? AND p.type_id = \? AND p.in_stock = \?`).
		WithArgs(int64(2), int64(3), true).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	_, err = GetProducts(ProductFilter{CategoryID: 2, TypeID: 3, InStock: &inStock})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductNotFound(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	originalDB := db
	db = mockDB
	defer func() { db = originalDB }()

	mock.ExpectQuery(`WHERE p.id = \?`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(productRowColumns))

	_, err = GetProduct(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProductPartial(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	originalDB := db
	db = mockDB
	defer func() { db = originalDB }()

	price := int64(650)
	mock.ExpectExec(`UPDATE products SET price = \?, updated_at = strftime\('%s','now'\) WHERE id = \?`).
		WithArgs(price, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = UpdateProduct(1, ProductUpdate{Price: &price})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductNoFieldsIsNoop(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	originalDB := db
	db = mockDB
	defer func() { db = originalDB }()

	err = UpdateProduct(1, ProductUpdate{})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProductMissingRow(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer mockDB.Close()

	originalDB := db
	db = mockDB
	defer func() { db = originalDB }()

	name := "Dragon"
	mock.ExpectExec(`UPDATE products SET name = \?`).
		WithArgs(name, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = UpdateProduct(42, ProductUpdate{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}
