package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/kostas2370/Video-Creator/internal/config"
)

// Local 本地语音合成引擎
// 调用本机命令行工具合成，如 espeak
type Local struct {
	command string
	voiceID string
}

// newLocal 创建本地合成器
func newLocal(cfg *config.TTSConfig, voiceID string) (Synthesizer, error) {
	command := cfg.Local.Command
	if command == "" {
		command = "espeak"
	}
	return &Local{command: command, voiceID: voiceID}, nil
}

// Synthesize 合成语音并写入文件
func (c *Local) Synthesize(ctx context.Context, text, savePath string) error {
	args := []string{"-w", savePath}
	if c.voiceID != "" {
		args = append(args, "-v", c.voiceID)
	}
	args = append(args, text)

	cmd := exec.CommandContext(ctx, c.command, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("local tts failed: %w", err)
	}
	return nil
}
