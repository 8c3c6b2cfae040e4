package document

import (
	"fmt"
	"strconv"

	"recipe-finder/internal/core/catalog"
	"recipe-finder/internal/core/recipe"

	"github.com/go-pdf/fpdf"
)

// page 包裝 fpdf 的排版輔助
type page struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (p *page) footer() {
	p.pdf.SetY(-15)
	p.pdf.SetFont(fontFamily, "I", 8)
	p.pdf.SetTextColor(128, 128, 128)
	p.pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", p.pdf.PageNo()), "", 0, "C", false, 0, "")
	p.pdf.SetTextColor(0, 0, 0)
}

func (p *page) title(text string) {
	p.pdf.SetFont(fontFamily, "B", 20)
	p.pdf.MultiCell(0, 10, p.tr(text), "", "C", false)
	p.pdf.Ln(4)
}

func (p *page) heading(text string) {
	p.pdf.Ln(3)
	p.pdf.SetFont(fontFamily, "B", 14)
	p.pdf.SetFillColor(230, 238, 246)
	p.pdf.CellFormat(0, 8, p.tr(text), "", 1, "L", true, 0, "")
	p.pdf.Ln(2)
}

func (p *page) subheading(text string) {
	p.pdf.SetFont(fontFamily, "B", 11)
	p.pdf.CellFormat(0, lineHeight+1, p.tr(text), "", 1, "L", false, 0, "")
}

func (p *page) paragraph(text string) {
	p.pdf.SetFont(fontFamily, "", 11)
	p.pdf.MultiCell(0, lineHeight, p.tr(text), "", "L", false)
}

func (p *page) bullets(items []string) {
	p.list(items, func(int) string { return "-" })
}

func (p *page) numbered(items []string) {
	p.list(items, func(i int) string { return strconv.Itoa(i+1) + "." })
}

func (p *page) list(items []string, marker func(int) string) {
	p.pdf.SetFont(fontFamily, "", 11)
	left, _, _, _ := p.pdf.GetMargins()
	for i, item := range items {
		p.pdf.SetX(left + 2)
		p.pdf.CellFormat(8, lineHeight, marker(i), "", 0, "L", false, 0, "")
		p.pdf.MultiCell(0, lineHeight, p.tr(item), "", "L", false)
	}
}

func (p *page) dietTable(diet recipe.DietSummary) {
	for _, cat := range diet {
		p.subheading(cat.Name)
		p.pdf.SetFont(fontFamily, "", 10)
		for i, e := range cat.Entries {
			fill := i%2 == 0
			p.pdf.SetFillColor(245, 245, 245)
			p.pdf.CellFormat(80, lineHeight, p.tr(e.Label), "1", 0, "L", fill, 0, "")
			p.pdf.CellFormat(40, lineHeight, p.tr(formatValue(e.Value)), "1", 1, "L", fill, 0, "")
		}
		p.pdf.Ln(2)
	}
}

func (p *page) nutrientTable(nutrients []catalog.Nutrient) {
	widths := []float64{70, 30, 25, 30}
	headers := []string{"Nutrient", "Amount", "Unit", "% Daily"}

	p.pdf.SetFont(fontFamily, "B", 10)
	p.pdf.SetFillColor(40, 70, 110)
	p.pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		p.pdf.CellFormat(widths[i], lineHeight+1, h, "1", 0, "C", true, 0, "")
	}
	p.pdf.Ln(-1)
	p.pdf.SetTextColor(0, 0, 0)

	p.pdf.SetFont(fontFamily, "", 10)
	p.pdf.SetFillColor(240, 246, 252)
	for i, n := range nutrients {
		fill := i%2 == 1
		p.pdf.CellFormat(widths[0], lineHeight, p.tr(n.Name), "1", 0, "L", fill, 0, "")
		p.pdf.CellFormat(widths[1], lineHeight, strconv.FormatFloat(n.Amount, 'f', 2, 64), "1", 0, "R", fill, 0, "")
		p.pdf.CellFormat(widths[2], lineHeight, p.tr(n.Unit), "1", 0, "C", fill, 0, "")
		p.pdf.CellFormat(widths[3], lineHeight, strconv.FormatFloat(n.PercentOfDailyNeeds, 'f', 1, 64)+"%", "1", 1, "R", fill, 0, "")
	}
	p.pdf.Ln(3)
}

// barChart 橫向長條圖，超過 100% 的長條截在最大寬度
func (p *page) barChart(nutrients []catalog.Nutrient) {
	p.pdf.SetFont(fontFamily, "", 9)
	p.pdf.SetFillColor(76, 140, 90)
	left, _, _, _ := p.pdf.GetMargins()
	for _, n := range nutrients {
		y := p.pdf.GetY()
		p.pdf.SetX(left)
		p.pdf.CellFormat(barLabelSize, lineHeight, p.tr(n.Name), "", 0, "L", false, 0, "")

		pct := n.PercentOfDailyNeeds
		if pct < 0 {
			pct = 0
		}
		width := barMaxWidth * min(pct, 100) / 100
		if width > 0 {
			p.pdf.Rect(left+barLabelSize, y+1, width, lineHeight-2, "F")
		}
		p.pdf.SetX(left + barLabelSize + barMaxWidth + 2)
		p.pdf.CellFormat(0, lineHeight, strconv.FormatFloat(n.PercentOfDailyNeeds, 'f', 1, 64)+"%", "", 1, "L", false, 0, "")
	}
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "N/A"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
