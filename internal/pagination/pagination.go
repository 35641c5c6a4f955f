package pagination

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Params struct {
	Page    int
	PerPage int
}

type Meta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
}

// FromQuery liest ?page= aus der Anfrage; perPage ist je Listen-Typ fest.
func FromQuery(c *fiber.Ctx, perPage int) Params {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	return Params{Page: page, PerPage: perPage}
}

// Scope wendet Offset/Limit auf eine Query an.
func (p Params) Scope(db *gorm.DB) *gorm.DB {
	return db.Offset((p.Page - 1) * p.PerPage).Limit(p.PerPage)
}

// MetaFor baut das Seiten-Envelope aus der Gesamtanzahl.
func (p Params) MetaFor(total int64) Meta {
	pages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if pages < 1 {
		pages = 1
	}
	return Meta{Page: p.Page, PerPage: p.PerPage, Total: total, Pages: pages}
}
