// Package pagination holds the page envelope shared by listing endpoints.
package pagination

import (
	"strconv"

	"gorm.io/gorm"
)

// MaxPage bounds page numbers so LIMIT/OFFSET arithmetic cannot overflow
const MaxPage = 1_000_000

// Page is one page of a listing
type Page[T any] struct {
	Data        []T   `json:"data"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
}

// New builds a page envelope. LastPage is never below 1.
func New[T any](items []T, page, perPage int, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}

	lastPage := 1
	if perPage > 0 && total > 0 {
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
	}

	return &Page[T]{
		Data:        items,
		CurrentPage: clampPage(page),
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
}

// ParsePage reads a 1-based page number, falling back to 1
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return clampPage(page)
}

// Paginate is a gorm scope applying LIMIT/OFFSET for page
func Paginate(page, perPage int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((clampPage(page) - 1) * perPage).Limit(perPage)
	}
}

func clampPage(page int) int {
	return min(max(page, 1), MaxPage)
}
