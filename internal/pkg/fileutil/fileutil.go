package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// GenerateDirectory 创建视频工作目录
// 以标题 slug 为目录名，重名时追加数字后缀；同时创建 dialogues/ 与 images/ 子目录
func GenerateDirectory(root, title string) (string, error) {
	name := slug.Make(title)
	if name == "" {
		name = "video"
	}

	dir := filepath.Join(root, name)
	for suffix := 1; ; suffix++ {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			break
		}
		dir = filepath.Join(root, fmt.Sprintf("%s_%d", name, suffix))
	}

	if err := os.MkdirAll(filepath.Join(dir, "dialogues"), 0o755); err != nil {
		return "", fmt.Errorf("创建 dialogues 目录失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0o755); err != nil {
		return "", fmt.Errorf("创建 images 目录失败: %w", err)
	}
	return dir, nil
}

// IsImage 根据扩展名判断是否为图片文件
func IsImage(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp":
		return true
	}
	return false
}

// IsVideo 根据扩展名判断是否为视频文件
func IsVideo(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4", ".mov", ".mkv", ".avi", ".webm":
		return true
	}
	return false
}

// IsAudio 根据扩展名判断是否为音频文件
func IsAudio(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".mp3", ".aac", ".flac", ".ogg":
		return true
	}
	return false
}
