package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"recipe-finder/internal/core/catalog"
	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/pkg/common"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

const (
	fontFamily   = "Helvetica"
	lineHeight   = 6.0
	defaultTopN  = 8
	barMaxWidth  = 90.0
	barLabelSize = 55.0
)

// ImageLoader 取得可嵌入的 JPEG 圖片
type ImageLoader interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Builder 將食譜排版為 PDF
type Builder struct {
	images ImageLoader
	topN   int
	now    func() time.Time
}

// Option 排版選項
type Option func(*Builder)

// WithTopNutrients 長條圖顯示的營養素數量
func WithTopNutrients(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.topN = n
		}
	}
}

// NewBuilder 創建排版器；images 為 nil 時不嵌入圖片
func NewBuilder(images ImageLoader, opts ...Option) *Builder {
	b := &Builder{images: images, topN: defaultTopN, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Save 排版並寫入檔案，必要時建立目錄
func (b *Builder) Save(ctx context.Context, r *recipe.EnrichedRecipe, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := b.Write(ctx, r, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	common.LogInfo("PDF 已輸出", zap.String("path", path))
	return nil
}

// Write 依序輸出標題、圖片、摘要、食材、步驟、備註、飲食與營養資訊
func (b *Builder) Write(ctx context.Context, r *recipe.EnrichedRecipe, w io.Writer) error {
	if r == nil {
		return fmt.Errorf("nil recipe")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetCreator("recipe-finder", true)
	pdf.SetCreationDate(b.now())
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")

	p := &page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(p.footer)
	pdf.AddPage()

	p.title(r.Title)
	b.image(ctx, p, r.Image)
	p.heading("Summary")
	p.paragraph(r.Summary)

	p.heading("Ingredients")
	for _, sec := range r.Ingredients {
		p.subheading(sec.Name)
		p.bullets(sec.Items)
	}

	p.heading("Instructions")
	p.numbered(r.Instructions)

	p.heading("Cooking Notes")
	p.bullets(r.CookingNotes)

	p.heading("Diet Information")
	p.dietTable(r.Diet)

	p.heading("Nutrition")
	if len(r.Nutrients) == 0 {
		p.paragraph("No nutrition data available.")
	} else {
		p.nutrientTable(r.Nutrients)
		p.subheading(fmt.Sprintf("Top %d nutrients by daily value", min(b.topN, len(r.Nutrients))))
		p.barChart(topByDailyValue(r.Nutrients, b.topN))
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// image 圖片取得失敗不影響排版
func (b *Builder) image(ctx context.Context, p *page, ref string) {
	if b.images == nil || ref == "" {
		return
	}
	data, err := b.images.Fetch(ctx, ref)
	if err != nil {
		common.LogWarn("圖片無法嵌入", zap.String("image", ref), zap.Error(err))
		return
	}

	opts := fpdf.ImageOptions{ImageType: "JPG", ReadDpi: true}
	info := p.pdf.RegisterImageOptionsReader(ref, opts, bytes.NewReader(data))
	if info == nil || !p.pdf.Ok() {
		common.LogWarn("圖片無法嵌入", zap.String("image", ref), zap.Error(p.pdf.Error()))
		p.pdf.ClearError()
		return
	}

	pageW, _ := p.pdf.GetPageSize()
	width := 100.0
	p.pdf.ImageOptions(ref, (pageW-width)/2, p.pdf.GetY(), width, 0, true, opts, 0, "")
	p.pdf.Ln(4)
}

// topByDailyValue 依每日建議攝取百分比排序取前 n 項
func topByDailyValue(nutrients []catalog.Nutrient, n int) []catalog.Nutrient {
	sorted := make([]catalog.Nutrient, len(nutrients))
	copy(sorted, nutrients)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PercentOfDailyNeeds > sorted[j].PercentOfDailyNeeds
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
