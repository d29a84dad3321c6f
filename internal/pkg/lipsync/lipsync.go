// Package lipsync 形象口型合成，把头像图片按音频驱动生成说话视频
package lipsync

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kostas2370/Video-Creator/internal/config"
	"github.com/kostas2370/Video-Creator/internal/pkg/id"
)

// Engine 口型合成引擎
type Engine interface {
	// Animate 用音频驱动头像图片，返回生成视频的本地路径
	Animate(ctx context.Context, sourceImage string, drivenAudio string, outputDir string) (string, error)
}

// HTTPEngine 调用外部口型合成服务的引擎
type HTTPEngine struct {
	serviceURL string
	httpClient *http.Client
}

// NewHTTPEngine 创建 HTTP 口型合成引擎
func NewHTTPEngine(cfg *config.LipsyncConfig) (*HTTPEngine, error) {
	if cfg.ServiceURL == "" {
		return nil, fmt.Errorf("lipsync service url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &HTTPEngine{
		serviceURL: cfg.ServiceURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Animate 上传图片和音频，下载合成视频
func (e *HTTPEngine) Animate(ctx context.Context, sourceImage string, drivenAudio string, outputDir string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := attachFile(writer, "source_image", sourceImage); err != nil {
		return "", err
	}
	if err := attachFile(writer, "driven_audio", drivenAudio); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.serviceURL, &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lipsync request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("lipsync failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	path := filepath.Join(outputDir, id.NewHex()+".mp4")
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write output file: %w", err)
	}

	log.Info().
		Str("image", sourceImage).
		Str("audio", drivenAudio).
		Str("output", path).
		Msg("口型合成完成")

	return path, nil
}

func attachFile(writer *multipart.Writer, field string, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", field, err)
	}
	defer file.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy %s: %w", field, err)
	}
	return nil
}

var _ Engine = (*HTTPEngine)(nil)
