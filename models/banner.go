package models

import (
	"database/sql"
)

// Banner represents the banners table schema. Each banner carries separate
// desktop and mobile images.
type Banner struct {
	ID         int64  `json:"id"`
	ImgDesktop string `json:"imgDesktop"`
	ImgMobile  string `json:"imgMobile"`
	Link       string `json:"link"`
	SortOrder  int64  `json:"order"`
	TimestampPair
}

// GetBanners retrieves all banners in display order.
func GetBanners() ([]Banner, error) {
	rows, err := db.Query(`
	SELECT id, img_desktop, img_mobile, link, sort_order, created_at, updated_at
	FROM banners
	ORDER BY sort_order ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banners []Banner
	for rows.Next() {
		var b Banner
		var createdAt, updatedAt int64
		if err := rows.Scan(&b.ID, &b.ImgDesktop, &b.ImgMobile, &b.Link, &b.SortOrder, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		b.FromUnixTimestamps(createdAt, updatedAt)
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

// GetBanner retrieves a banner by id, or ErrNotFound.
func GetBanner(id int64) (*Banner, error) {
	var b Banner
	var createdAt, updatedAt int64
	err := db.QueryRow(`
	SELECT id, img_desktop, img_mobile, link, sort_order, created_at, updated_at
	FROM banners
	WHERE id = ?`, id).Scan(&b.ID, &b.ImgDesktop, &b.ImgMobile, &b.Link, &b.SortOrder, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.FromUnixTimestamps(createdAt, updatedAt)
	return &b, nil
}

// CreateBanner inserts a banner and returns it with its assigned id.
func CreateBanner(b *Banner) error {
	ts := NewTimestamps()
	createdAt, updatedAt := ts.UnixTimestamps()
	result, err := db.Exec(`
	INSERT INTO banners (img_desktop, img_mobile, link, sort_order, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`,
		b.ImgDesktop, b.ImgMobile, b.Link, b.SortOrder, createdAt, updatedAt)
	if err != nil {
		return err
	}
	b.ID, err = result.LastInsertId()
	b.TimestampPair = ts
	return err
}

// UpdateBanner replaces the mutable banner fields.
func UpdateBanner(b *Banner) error {
	_, err := db.Exec(`
	UPDATE banners SET img_desktop = ?, img_mobile = ?, link = ?, sort_order = ?, updated_at = strftime('%s','now')
	WHERE id = ?`,
		b.ImgDesktop, b.ImgMobile, b.Link, b.SortOrder, b.ID)
	return err
}

// DeleteBanner removes a banner by id.
func DeleteBanner(id int64) error {
	return DeleteRecord(`DELETE FROM banners WHERE id = ?`, id)
}

// CountBanners returns the total number of banners.
func CountBanners() (int64, error) {
	return CountRecords(`SELECT COUNT(*) FROM banners`)
}
