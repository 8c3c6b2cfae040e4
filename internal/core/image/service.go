package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"strings"
	"time"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	_ "image/gif" // 支援 GIF
	_ "image/png" // 支援 PNG

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // 支援 WebP
)

// ErrTooLarge 圖片超過大小上限
var ErrTooLarge = errors.New("image exceeds size limit")

const defaultMaxSize = 5 << 20

// Service 下載食譜圖片並轉為 JPEG
type Service struct {
	maxSizeBytes int64
	client       *resty.Client
}

// NewService 創建新的圖片處理服務
func NewService(cfg config.ImageConfig) *Service {
	maxSize := cfg.MaxSizeBytes
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		maxSizeBytes: maxSize,
		client:       resty.New().SetTimeout(timeout).SetDoNotParseResponse(true),
	}
}

// Fetch 取得圖片並重新編碼為 JPEG；支援 http(s) 網址與 data URI
func (s *Service) Fetch(ctx context.Context, ref string) ([]byte, error) {
	var raw []byte
	var err error
	switch {
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		raw, err = s.download(ctx, ref)
	case strings.HasPrefix(ref, "data:image/"):
		raw, err = s.decodeDataURI(ref)
	default:
		return nil, fmt.Errorf("invalid image reference %q", common.Truncate(ref, 64))
	}
	if err != nil {
		return nil, err
	}
	return toJPEG(raw)
}

func (s *Service) download(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status code %d", resp.StatusCode())
	}

	var buf bytes.Buffer
	n, err := buf.ReadFrom(newLimitedReader(body, s.maxSizeBytes))
	if err != nil {
		return nil, err
	}

	common.LogDebug("圖片下載完成",
		zap.String("url", url),
		zap.Int64("bytes", n),
		zap.Duration("耗時", time.Since(start)),
	)
	return buf.Bytes(), nil
}

func (s *Service) decodeDataURI(ref string) ([]byte, error) {
	_, payload, ok := strings.Cut(ref, ",")
	if !ok {
		return nil, fmt.Errorf("invalid base64 data format")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 data: %w", err)
	}
	if int64(len(data)) > s.maxSizeBytes {
		return nil, fmt.Errorf("%w of %d bytes", ErrTooLarge, s.maxSizeBytes)
	}
	return data, nil
}

// toJPEG 解碼任一支援格式後以 JPEG 重新編碼
func toJPEG(raw []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if format == "jpeg" {
		return raw, nil
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode %s image as JPEG: %w", format, err)
	}
	return buf.Bytes(), nil
}
