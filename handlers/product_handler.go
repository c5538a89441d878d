package handlers

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"
	"unicode/utf8"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/lllkojlhuk/sushikub/models"
	"github.com/lllkojlhuk/sushikub/utils"
)

func validPrice(price int64) bool {
	return price > 0 && price <= 100000
}

func validWeight(weight int64) bool {
	return weight > 0 && weight <= 10000
}

// formValue reports a multipart field's value and whether the field was sent
// at all, so partial updates can tell "absent" from "empty".
func formValue(form *multipart.Form, key string) (string, bool) {
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func formFile(form *multipart.Form, key string) *multipart.FileHeader {
	files, ok := form.File[key]
	if !ok || len(files) == 0 {
		return nil
	}
	return files[0]
}

// HandleGetProducts lists products with optional categoryId, typeId, inStock
// and search query filters.
func HandleGetProducts(c *fiber.Ctx) error {
	var filter models.ProductFilter

	if raw := c.Query("categoryId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return sendBadRequestError(c, "Invalid category ID")
		}
		filter.CategoryID = id
	}

	if raw := c.Query("typeId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return sendBadRequestError(c, "Invalid type ID")
		}
		filter.TypeID = id
	}

	if raw := c.Query("inStock"); raw != "" {
		inStock := raw == "true"
		filter.InStock = &inStock
	}

	filter.Search = utils.SanitizeString(c.Query("search"))

	products, err := models.GetProducts(filter)
	if err != nil {
		return sendInternalServerError(c, "Failed to load products", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(products)
}

// HandleGetProduct returns a single product with its type and category.
func HandleGetProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid product ID")
	}

	product, err := models.GetProduct(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Product not found")
		}
		return sendInternalServerError(c, "Failed to load product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a product from a multipart form with an img
// file upload.
func HandleCreateProduct(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return sendBadRequestError(c, "Multipart form is required")
	}

	name, _ := formValue(form, "name")
	name = utils.SanitizeString(name)
	if length := utf8.RuneCountInString(name); length < 2 || length > 100 {
		return sendBadRequestError(c, "Invalid product name length")
	}

	priceRaw, _ := formValue(form, "price")
	price, err := strconv.ParseInt(priceRaw, 10, 64)
	if err != nil || !validPrice(price) {
		return sendBadRequestError(c, "Invalid price")
	}

	articleRaw, _ := formValue(form, "article")
	article, err := strconv.ParseInt(articleRaw, 10, 64)
	if err != nil || article < 0 {
		return sendBadRequestError(c, "Invalid article number")
	}

	categoryRaw, _ := formValue(form, "categoryId")
	categoryID, err := strconv.ParseInt(categoryRaw, 10, 64)
	if err != nil || categoryID <= 0 {
		return sendBadRequestError(c, "Category is required")
	}

	typeRaw, _ := formValue(form, "typeId")
	typeID, err := strconv.ParseInt(typeRaw, 10, 64)
	if err != nil || typeID <= 0 {
		return sendBadRequestError(c, "Type is required")
	}

	product := models.Product{
		Name:       name,
		Price:      price,
		Article:    article,
		CategoryID: categoryID,
		TypeID:     typeID,
	}

	if description, ok := formValue(form, "description"); ok {
		if description = utils.SanitizeString(description); description != "" {
			product.Description = &description
		}
	}

	if weightRaw, ok := formValue(form, "weight"); ok && weightRaw != "" && weightRaw != "0" {
		weight, err := strconv.ParseInt(weightRaw, 10, 64)
		if err != nil || !validWeight(weight) {
			return sendBadRequestError(c, "Invalid weight")
		}
		product.Weight = &weight
	}

	if inStockRaw, ok := formValue(form, "inStock"); ok {
		product.InStock = inStockRaw == "true"
	}

	if orderRaw, ok := formValue(form, "order"); ok && orderRaw != "" {
		order, err := strconv.ParseInt(orderRaw, 10, 64)
		if err != nil {
			return sendBadRequestError(c, "Invalid order value")
		}
		product.SortOrder = order
	}

	img := formFile(form, "img")
	if img == nil {
		return sendBadRequestError(c, "Image is required")
	}
	if err := validateImageUpload(img); err != nil {
		return sendBadRequestError(c, "Invalid image file. Please upload a valid JPEG, PNG or WebP image.")
	}

	fileName := uploadFileName(img)
	if err := saveUpload(img, fileName); err != nil {
		return sendInternalServerError(c, "Failed to store image", err)
	}
	product.Img = fileName

	if err := models.CreateProduct(&product); err != nil {
		removeImageArtifacts(fileName)
		return sendInternalServerError(c, "Failed to create product", err)
	}

	created, err := models.GetProduct(product.ID)
	if err != nil {
		return c.JSON(product)
	}
	return c.JSON(created)
}

// HandleUpdateProduct applies a partial multipart update, replacing the
// stored image when a new one is uploaded.
func HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid product ID")
	}

	existing, err := models.GetProduct(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Product not found")
		}
		return sendInternalServerError(c, "Failed to load product", err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return sendBadRequestError(c, "Multipart form is required")
	}

	var update models.ProductUpdate

	if name, ok := formValue(form, "name"); ok {
		name = utils.SanitizeString(name)
		if length := utf8.RuneCountInString(name); length < 2 || length > 100 {
			return sendBadRequestError(c, "Invalid product name length")
		}
		update.Name = &name
	}

	if description, ok := formValue(form, "description"); ok {
		sanitized := utils.SanitizeString(description)
		update.Description = &sanitized
	}

	if priceRaw, ok := formValue(form, "price"); ok {
		price, err := strconv.ParseInt(priceRaw, 10, 64)
		if err != nil || !validPrice(price) {
			return sendBadRequestError(c, "Invalid price")
		}
		update.Price = &price
	}

	if articleRaw, ok := formValue(form, "article"); ok {
		article, err := strconv.ParseInt(articleRaw, 10, 64)
		if err != nil || article < 0 {
			return sendBadRequestError(c, "Invalid article number")
		}
		update.Article = &article
	}

	if weightRaw, ok := formValue(form, "weight"); ok {
		if weightRaw == "" || weightRaw == "0" {
			update.ClearWeight = true
		} else {
			weight, err := strconv.ParseInt(weightRaw, 10, 64)
			if err != nil || !validWeight(weight) {
				return sendBadRequestError(c, "Invalid weight")
			}
			update.Weight = &weight
		}
	}

	if categoryRaw, ok := formValue(form, "categoryId"); ok {
		categoryID, err := strconv.ParseInt(categoryRaw, 10, 64)
		if err != nil || categoryID <= 0 {
			return sendBadRequestError(c, "Invalid category ID")
		}
		update.CategoryID = &categoryID
	}

	if typeRaw, ok := formValue(form, "typeId"); ok {
		typeID, err := strconv.ParseInt(typeRaw, 10, 64)
		if err != nil || typeID <= 0 {
			return sendBadRequestError(c, "Invalid type ID")
		}
		update.TypeID = &typeID
	}

	if inStockRaw, ok := formValue(form, "inStock"); ok {
		inStock := inStockRaw == "true"
		update.InStock = &inStock
	}

	if orderRaw, ok := formValue(form, "order"); ok {
		order := int64(0)
		if strings.TrimSpace(orderRaw) != "" {
			order, err = strconv.ParseInt(orderRaw, 10, 64)
			if err != nil {
				return sendBadRequestError(c, "Invalid order value")
			}
		}
		update.SortOrder = &order
	}

	var newFileName string
	if img := formFile(form, "img"); img != nil {
		if err := validateImageUpload(img); err != nil {
			return sendBadRequestError(c, "Invalid image file. Please upload a valid JPEG, PNG or WebP image.")
		}
		newFileName = uploadFileName(img)
		if err := saveUpload(img, newFileName); err != nil {
			return sendInternalServerError(c, "Failed to store image", err)
		}
		update.Img = &newFileName
	}

	if err := models.UpdateProduct(id, update); err != nil {
		if newFileName != "" {
			removeImageArtifacts(newFileName)
		}
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Product not found")
		}
		return sendInternalServerError(c, "Failed to update product", err)
	}

	if newFileName != "" && existing.Img != newFileName {
		removeImageArtifacts(existing.Img)
	}

	updated, err := models.GetProduct(id)
	if err != nil {
		return sendInternalServerError(c, "Failed to load product", err)
	}
	return c.JSON(updated)
}

// HandleDeleteProduct removes a product together with its image and cached
// derivatives.
func HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return sendBadRequestError(c, "Invalid product ID")
	}

	product, err := models.GetProduct(id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return sendNotFoundError(c, "Product not found")
		}
		return sendInternalServerError(c, "Failed to load product", err)
	}

	if err := models.DeleteProduct(id); err != nil {
		return sendInternalServerError(c, "Failed to delete product", err)
	}

	removeImageArtifacts(product.Img)

	return c.JSON(fiber.Map{"message": "Product deleted"})
}
