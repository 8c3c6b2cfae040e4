package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"recipe-finder/internal/core/recipe"
	"recipe-finder/internal/infrastructure/config"

	"gopkg.in/yaml.v3"
)

// pdfWriter 將食譜排版為 PDF 檔
type pdfWriter interface {
	Save(ctx context.Context, r *recipe.EnrichedRecipe, path string) error
}

type output struct {
	format string
	path   string
	pdf    pdfWriter
	stdout io.Writer
}

func newOutput(cfg config.OutputConfig, pdf pdfWriter, stdout io.Writer) *output {
	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "pdf"
	}
	path := cfg.Path
	if path == "" {
		path = "output/result.pdf"
	}
	// 預設檔名跟著格式換副檔名
	if format != "pdf" && strings.EqualFold(filepath.Ext(path), ".pdf") {
		path = strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
	}
	return &output{format: format, path: path, pdf: pdf, stdout: stdout}
}

// write 依格式輸出，回傳寫入的檔案路徑；輸出到 stdout 時為空字串
func (o *output) write(ctx context.Context, r *recipe.EnrichedRecipe) (string, error) {
	if o.format == "pdf" {
		if o.path == "-" {
			return "", fmt.Errorf("pdf output needs a file path")
		}
		return o.path, o.pdf.Save(ctx, r, o.path)
	}

	data, err := o.encode(r)
	if err != nil {
		return "", err
	}
	if o.path == "-" {
		_, err := o.stdout.Write(data)
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
		return "", err
	}
	return o.path, os.WriteFile(o.path, data, 0o644)
}

func (o *output) encode(r *recipe.EnrichedRecipe) ([]byte, error) {
	switch o.format {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(r)
	default:
		return nil, fmt.Errorf("unsupported output format %q", o.format)
	}
}
