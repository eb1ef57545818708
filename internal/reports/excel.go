package reports

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"

	"workwear-backend/internal/database"
	"workwear-backend/internal/models"
)

type stockExportRow struct {
	Code     uint
	Type     string
	Color    string
	Size     string
	Grade    string
	Quantity int
}

// GET /api/reports/stock.xlsx: current stock per (item, grade) as a
// spreadsheet.
func StockExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rows []stockExportRow
		err := database.DB.Model(&models.StockBucket{}).
			Select("items.code AS code, items.type AS type, items.color AS color, items.size AS size, stock_buckets.grade AS grade, stock_buckets.quantity AS quantity").
			Joins("JOIN items ON items.code = stock_buckets.item_code").
			Order("items.code ASC, stock_buckets.grade ASC").
			Scan(&rows).Error
		if err != nil {
			return err
		}

		f := excelize.NewFile()
		defer f.Close()

		const sheet = "Stock"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"Code", "Type", "Color", "Size", "Grade", "Quantity"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for i, r := range rows {
			values := []any{r.Code, r.Type, r.Color, r.Size, r.Grade, r.Quantity}
			for j, v := range values {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return err
		}

		filename := fmt.Sprintf("stock-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
		return c.SendStream(buf, buf.Len())
	}
}
