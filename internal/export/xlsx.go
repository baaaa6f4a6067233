package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx/v2"

	"github.com/dealscope/backend/internal/domain"
)

// headerRow is the fixed column layout expected by the marketplace listing
// workflow. Order matters; downstream tooling imports by position.
var headerRow = []string{
	"Title",
	"Localized Title",
	"Store Price",
	"List Price",
	"Final Price",
	"Savings",
	"Savings %",
	"Discount",
	"Developer",
	"Header Image",
	"Screenshot 1",
	"Screenshot 2",
	"Screenshot 3",
	"Screenshot 4",
	"Store Link",
}

const screenshotColumns = 4

// Renderer builds the fixed-schema spreadsheet export from comparison
// results and their descriptive metadata.
type Renderer struct {
	sheetName string
}

// NewRenderer creates a renderer. sheetName defaults to "Deals".
func NewRenderer(sheetName string) *Renderer {
	if sheetName == "" {
		sheetName = "Deals"
	}
	return &Renderer{sheetName: sheetName}
}

// Render produces the workbook: one header row, one row per result.
// Metadata is keyed by the result's catalog id; missing metadata yields
// empty descriptive cells, never an error.
func (r *Renderer) Render(results []domain.ComparisonResult, meta map[int]domain.GameMetadata) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(r.sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, name := range headerRow {
		header.AddCell().SetString(name)
	}

	for _, result := range results {
		m := meta[result.Match.ExternalID]
		row := sheet.AddRow()

		title := m.Title
		if title == "" {
			title = result.Match.Name
		}
		row.AddCell().SetString(title)
		row.AddCell().SetString(m.LocalizedTitle)
		row.AddCell().SetInt(result.SourcePrice)
		row.AddCell().SetInt(result.OriginalPrice)
		row.AddCell().SetInt(result.FinalPrice)
		row.AddCell().SetInt(result.Savings)
		row.AddCell().SetInt(result.SavingsPercent)
		row.AddCell().SetString(result.DiscountLabel)
		row.AddCell().SetString(m.Developer)
		row.AddCell().SetString(m.HeaderImage)
		for i := 0; i < screenshotColumns; i++ {
			if i < len(m.Screenshots) {
				row.AddCell().SetString(m.Screenshots[i])
			} else {
				row.AddCell().SetString("")
			}
		}
		row.AddCell().SetString(result.Product.DetailURL)
	}

	return file, nil
}

// Write renders the workbook and writes it to w.
func (r *Renderer) Write(w io.Writer, results []domain.ComparisonResult, meta map[int]domain.GameMetadata) error {
	file, err := r.Render(results, meta)
	if err != nil {
		return err
	}
	return file.Write(w)
}
