package product

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"ID", "Name", "SKU", "Price", "DiscountPrice", "Stock", "Platform",
	"Featured", "Active", "Rating", "Brands", "Categories", "CreatedAt", "UpdatedAt",
}

// ExportProducts writes every product as an xlsx workbook to w
func (s *Service) ExportProducts(ctx context.Context, w io.Writer) error {
	products, err := s.AdminListProducts(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(p.ID))
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.SKU)
		row.AddCell().SetString(p.Price.StringFixed(2))
		if p.DiscountPrice.Valid {
			row.AddCell().SetString(p.DiscountPrice.Decimal.StringFixed(2))
		} else {
			row.AddCell().SetString("")
		}
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(p.Platform)
		row.AddCell().SetBool(p.IsFeatured)
		row.AddCell().SetBool(p.IsActive)
		row.AddCell().SetString(p.Rating.StringFixed(2))
		row.AddCell().SetString(strings.Join(p.Brand, ","))
		row.AddCell().SetString(strings.Join(p.Categories, ","))
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
