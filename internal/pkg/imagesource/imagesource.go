package imagesource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kostas2370/Video-Creator/internal/config"
	"github.com/kostas2370/Video-Creator/internal/pkg/id"
	"github.com/kostas2370/Video-Creator/internal/pkg/scenario"
)

// Request 取图请求
type Request struct {
	Query string // 查询词或生图提示词
	Dir   string // 视频工作目录，图片落在 {Dir}/images/ 下
	Title string // 视频标题，AI 生图时并入提示词
	Style string // 生图风格，可为空
}

// Prompt 拼装 AI 生图的完整提示词
func (r Request) Prompt() string {
	title := strings.TrimSpace(strings.Join([]string{r.Style, r.Title}, " "))
	return scenario.FormatImagePrompt(title, r.Query)
}

// Provider 配图提供者接口
// 返回已落盘的图片文件路径
type Provider interface {
	Fetch(ctx context.Context, req Request) (string, error)
}

// 取图模式
const (
	ModeWeb = "WEB"
	ModeAI  = "AI"
)

// factory 按配置构造提供者
type factory func(cfg *config.ImageConfig) (Provider, error)

// registry 编译期注册的提供者，按模式分组
var registry = map[string]map[string]factory{
	ModeWeb: {
		"bing":   newBing,
		"google": newGoogle,
	},
	ModeAI: {
		"dall-e":           newDallE,
		"stable-diffusion": newDiffusion,
		"midjourney":       newMidjourney,
		"volc":             newVolc,
	},
}

// Registry 配图提供者注册表
type Registry struct {
	cfg *config.ImageConfig
}

// NewRegistry 创建配图提供者注册表
func NewRegistry(cfg *config.ImageConfig) *Registry {
	return &Registry{cfg: cfg}
}

// Provider 按模式和名称取提供者
// 名称为空时按模式取默认提供者：WEB→bing，AI→dall-e
func (r *Registry) Provider(mode, name string) (Provider, error) {
	mode = strings.ToUpper(strings.TrimSpace(mode))
	group, ok := registry[mode]
	if !ok {
		return nil, fmt.Errorf("unsupported image mode: %s", mode)
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = r.defaultProvider(mode)
	}

	fn, ok := group[name]
	if !ok {
		return nil, fmt.Errorf("unsupported image provider %q for mode %s", name, mode)
	}
	return fn(r.cfg)
}

// defaultProvider 模式的默认提供者
func (r *Registry) defaultProvider(mode string) string {
	switch mode {
	case ModeWeb:
		if r.cfg.DefaultWebProvider != "" {
			return r.cfg.DefaultWebProvider
		}
		return "bing"
	default:
		if r.cfg.DefaultAIProvider != "" {
			return r.cfg.DefaultAIProvider
		}
		return "dall-e"
	}
}

// imagePath 生成落盘文件路径
func imagePath(dir, ext string) string {
	return filepath.Join(dir, "images", id.NewHex()+ext)
}

// downloadFile 下载远程文件到工作目录
func downloadFile(ctx context.Context, client *http.Client, url, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	ext := extFromURL(url)
	path := imagePath(dir, ext)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write image file: %w", err)
	}
	return path, nil
}

// extFromURL 从URL推断图片扩展名
func extFromURL(url string) string {
	if idx := strings.IndexAny(url, "?#"); idx != -1 {
		url = url[:idx]
	}
	switch ext := strings.ToLower(filepath.Ext(url)); ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp":
		return ext
	}
	return ".jpg"
}

// newHTTPClient 统一的下载客户端
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 120 * time.Second}
}
