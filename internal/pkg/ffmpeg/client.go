package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Client FFmpeg 客户端
// 用于封装 FFmpeg 命令调用
type Client struct {
	ffmpegPath  string // FFmpeg 可执行文件路径（默认: ffmpeg）
	ffprobePath string // FFprobe 可执行文件路径（默认: ffprobe）
}

// NewClient 创建 FFmpeg 客户端
// 路径为空时依次回退到环境变量和 PATH 查找
func NewClient(ffmpegPath, ffprobePath string) *Client {
	if ffmpegPath == "" {
		ffmpegPath = os.Getenv("FFMPEG_PATH")
	}
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	if ffprobePath == "" {
		ffprobePath = os.Getenv("FFPROBE_PATH")
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}

	return &Client{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}
}

// run 执行 ffmpeg 命令
func (c *Client) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg failed: %w", err)
	}
	return nil
}

// VideoInfo 视频信息
type VideoInfo struct {
	Width    int     // 宽度
	Height   int     // 高度
	FPS      float64 // 帧率
	Duration float64 // 时长（秒）
}

// AudioInfo 音频信息
type AudioInfo struct {
	Duration float64 // 时长（秒）
}

// GetVideoInfo 获取视频信息
func (c *Client) GetVideoInfo(ctx context.Context, videoPath string) (*VideoInfo, error) {
	cmd := exec.CommandContext(ctx, c.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-show_entries", "format=duration",
		"-of", "json",
		videoPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	outputStr := string(output)
	var info VideoInfo

	if idx := strings.Index(outputStr, `"width":`); idx != -1 {
		var width int
		if _, err := fmt.Sscanf(outputStr[idx:], `"width":%d`, &width); err == nil {
			info.Width = width
		}
	}

	if idx := strings.Index(outputStr, `"height":`); idx != -1 {
		var height int
		if _, err := fmt.Sscanf(outputStr[idx:], `"height":%d`, &height); err == nil {
			info.Height = height
		}
	}

	if idx := strings.Index(outputStr, `"duration":`); idx != -1 {
		var duration float64
		if _, err := fmt.Sscanf(outputStr[idx:], `"duration":"%f"`, &duration); err == nil {
			info.Duration = duration
		}
	}

	// r_frame_rate 格式形如 "30000/1001"
	if idx := strings.Index(outputStr, `"r_frame_rate":`); idx != -1 {
		var num, den int
		if _, err := fmt.Sscanf(outputStr[idx:], `"r_frame_rate":"%d/%d"`, &num, &den); err == nil && den > 0 {
			info.FPS = float64(num) / float64(den)
		}
	}

	return &info, nil
}

// GetAudioInfo 获取音频信息
func (c *Client) GetAudioInfo(ctx context.Context, audioPath string) (*AudioInfo, error) {
	cmd := exec.CommandContext(ctx, c.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		audioPath,
	)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	outputStr := string(output)
	var info AudioInfo

	if idx := strings.Index(outputStr, `"duration":`); idx != -1 {
		var duration float64
		if _, err := fmt.Sscanf(outputStr[idx:], `"duration":"%f"`, &duration); err == nil {
			info.Duration = duration
		}
	}

	return &info, nil
}

// HasAudioStream 判断输入是否携带音频流
func (c *Client) HasAudioStream(ctx context.Context, path string) (bool, error) {
	cmd := exec.CommandContext(ctx, c.ffprobePath,
		"-v", "error",
		"-select_streams", "a",
		"-show_entries", "stream=index",
		"-of", "json",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		return false, fmt.Errorf("ffprobe failed: %w", err)
	}
	return strings.Contains(string(output), `"index":`), nil
}

// ExtractAudio 抽取输入的音轨
func (c *Client) ExtractAudio(ctx context.Context, inputPath, outputPath string) error {
	if err := c.run(ctx, "-y", "-i", inputPath, "-vn", outputPath); err != nil {
		return fmt.Errorf("extract audio: %w", err)
	}
	return nil
}

// MixAudioTracks 混合两条音轨，时长以第一条为准
func (c *Client) MixAudioTracks(ctx context.Context, firstPath, secondPath, outputPath string) error {
	args := []string{
		"-y",
		"-i", firstPath,
		"-i", secondPath,
		"-filter_complex", "[0:a][1:a]amix=inputs=2:duration=first:dropout_transition=3[a]",
		"-map", "[a]",
		outputPath,
	}
	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("mix audio: %w", err)
	}
	return nil
}

// CreateImageClip 从图片创建定长视频片段，带淡入淡出
func (c *Client) CreateImageClip(ctx context.Context, imagePath, outputPath string, duration, fadeDuration float64, width, height, fps int) error {
	vf := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		width, height, width, height)
	if fadeDuration > 0 {
		vf = fmt.Sprintf("%s,fade=t=in:st=0:d=%.2f,fade=t=out:st=%.2f:d=%.2f",
			vf, fadeDuration, duration-fadeDuration, fadeDuration)
	}

	args := []string{
		"-y",
		"-loop", "1",
		"-i", imagePath,
		"-t", fmt.Sprintf("%.2f", duration),
		"-vf", vf,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-r", fmt.Sprintf("%d", fps),
		outputPath,
	}

	if err := c.run(ctx, args...); err != nil {
		return err
	}

	log.Info().
		Str("image", imagePath).
		Str("output", outputPath).
		Float64("duration", duration).
		Msg("图片片段创建成功")

	return nil
}

// ConcatVideos 合并多个视频文件（concat demuxer，不重编码）
func (c *Client) ConcatVideos(ctx context.Context, videoPaths []string, outputPath string) error {
	if len(videoPaths) == 0 {
		return fmt.Errorf("no videos to concat")
	}

	tempDir := filepath.Dir(outputPath)
	concatListFile := filepath.Join(tempDir, fmt.Sprintf("concat_list_%d.txt", time.Now().UnixNano()))

	file, err := os.Create(concatListFile)
	if err != nil {
		return fmt.Errorf("create concat list file: %w", err)
	}
	defer os.Remove(concatListFile)

	for _, videoPath := range videoPaths {
		absPath, err := filepath.Abs(videoPath)
		if err != nil {
			return fmt.Errorf("get absolute path: %w", err)
		}
		fmt.Fprintf(file, "file '%s'\n", absPath)
	}
	file.Close()

	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", concatListFile,
		"-c", "copy",
		outputPath,
	}

	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("concat: %w", err)
	}

	log.Info().
		Int("count", len(videoPaths)).
		Str("output", outputPath).
		Msg("视频合并成功")

	return nil
}

// ConcatVideosCompose 合并编码参数不一致的视频（concat filter，重编码）
// 用于拼接片头/正片/片尾；无声输入会补一条等长静音轨，避免 concat 流数不齐
func (c *Client) ConcatVideosCompose(ctx context.Context, videoPaths []string, outputPath string, width, height, fps int) error {
	if len(videoPaths) == 0 {
		return fmt.Errorf("no videos to concat")
	}

	hasAudio := make([]bool, len(videoPaths))
	args := []string{"-y"}
	for i, p := range videoPaths {
		ok, err := c.HasAudioStream(ctx, p)
		if err != nil {
			return fmt.Errorf("probe %s: %w", p, err)
		}
		hasAudio[i] = ok
		args = append(args, "-i", p)
	}
	for i, p := range videoPaths {
		if hasAudio[i] {
			continue
		}
		info, err := c.GetVideoInfo(ctx, p)
		if err != nil {
			return fmt.Errorf("probe %s: %w", p, err)
		}
		args = append(args,
			"-f", "lavfi",
			"-t", fmt.Sprintf("%.2f", info.Duration),
			"-i", "anullsrc=channel_layout=stereo:sample_rate=44100",
		)
	}

	args = append(args,
		"-filter_complex", concatComposeFilter(len(videoPaths), hasAudio, width, height, fps),
		"-map", "[v]",
		"-map", "[a]",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "160k",
		outputPath,
	)

	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("concat compose: %w", err)
	}
	return nil
}

// concatComposeFilter 构造 concat filter 串
// 无声输入的音轨取自追加在末尾的静音源，按出现顺序依次占用输入号 n、n+1 ...
func concatComposeFilter(n int, hasAudio []bool, width, height, fps int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%d[v%d];",
			i, width, height, width, height, fps, i)
	}
	next := n
	for i := 0; i < n; i++ {
		if hasAudio[i] {
			fmt.Fprintf(&sb, "[v%d][%d:a]", i, i)
		} else {
			fmt.Fprintf(&sb, "[v%d][%d:a]", i, next)
			next++
		}
	}
	fmt.Fprintf(&sb, "concat=n=%d:v=1:a=1[v][a]", n)
	return sb.String()
}

// ConcatAudio 按序拼接音频文件，输出 wav
func (c *Client) ConcatAudio(ctx context.Context, audioPaths []string, outputPath string) error {
	if len(audioPaths) == 0 {
		return fmt.Errorf("no audio to concat")
	}

	args := []string{"-y"}
	for _, p := range audioPaths {
		args = append(args, "-i", p)
	}

	var sb strings.Builder
	for i := range audioPaths {
		fmt.Fprintf(&sb, "[%d:a]", i)
	}
	fmt.Fprintf(&sb, "concat=n=%d:v=0:a=1[a]", len(audioPaths))

	args = append(args,
		"-filter_complex", sb.String(),
		"-map", "[a]",
		outputPath,
	)

	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("concat audio: %w", err)
	}
	return nil
}

// Silence 生成定长静音音频
func (c *Client) Silence(ctx context.Context, outputPath string, duration float64) error {
	args := []string{
		"-y",
		"-f", "lavfi",
		"-i", "anullsrc=channel_layout=stereo:sample_rate=44100",
		"-t", fmt.Sprintf("%.2f", duration),
		outputPath,
	}
	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("silence: %w", err)
	}
	return nil
}

// StandardizeVideo 标准化视频（分辨率、帧率）
func (c *Client) StandardizeVideo(ctx context.Context, inputPath, outputPath string, width, height, fps int) error {
	vf := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d:(in_w-%d)/2:(in_h-%d)/2,setsar=1",
		width, height, width, height, width, height)

	args := []string{
		"-y",
		"-i", inputPath,
		"-map", "0:v:0",
		"-map", "0:a?",
		"-vf", vf,
		"-r", fmt.Sprintf("%d", fps),
		"-c:v", "libx264",
		"-crf", "20",
		"-preset", "medium",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "160k",
		"-movflags", "+faststart",
		outputPath,
	}

	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("standardize: %w", err)
	}

	log.Info().
		Str("input", inputPath).
		Str("output", outputPath).
		Int("width", width).
		Int("height", height).
		Int("fps", fps).
		Msg("视频标准化成功")

	return nil
}

// AddSubtitles 烧录 ASS 字幕
func (c *Client) AddSubtitles(ctx context.Context, videoPath, assPath, outputPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-vf", fmt.Sprintf("ass=%s", assPath),
		"-c:v", "libx264",
		"-c:a", "copy",
		outputPath,
	}

	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("add subtitles: %w", err)
	}

	log.Info().
		Str("video", videoPath).
		Str("subtitle", assPath).
		Str("output", outputPath).
		Msg("字幕烧录成功")

	return nil
}

// SetAudio 用指定音轨替换视频音轨
func (c *Client) SetAudio(ctx context.Context, videoPath, audioPath, outputPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "160k",
		"-shortest",
		outputPath,
	}
	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("set audio: %w", err)
	}
	return nil
}

// MixMusic 混入背景音乐
// 音乐循环铺满正片，按 volume 压低音量并做 fade 秒的淡入淡出，时长以正片为准
func (c *Client) MixMusic(ctx context.Context, videoPath, musicPath, outputPath string, volume, fade, videoDuration float64) error {
	fadeOutStart := videoDuration - fade
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}
	filter := fmt.Sprintf(
		"[1:a]aloop=loop=-1:size=2e9,atrim=0:%.2f,volume=%.3f,afade=t=in:st=0:d=%.2f,afade=t=out:st=%.2f:d=%.2f[bgm];[0:a][bgm]amix=inputs=2:duration=first:dropout_transition=3[a]",
		videoDuration, volume, fade, fadeOutStart, fade)

	args := []string{
		"-y",
		"-i", videoPath,
		"-i", musicPath,
		"-filter_complex", filter,
		"-map", "0:v",
		"-map", "[a]",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", "160k",
		outputPath,
	}

	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("mix music: %w", err)
	}

	log.Info().
		Str("video", videoPath).
		Str("music", musicPath).
		Float64("volume", volume).
		Msg("背景音乐混入成功")

	return nil
}

// OverlayChromaKey 键色抠像叠加
// 将 overlay 视频按键色抠像后叠加到 base 上，scale 为叠加层缩放系数，x/y 为叠加位置表达式
func (c *Client) OverlayChromaKey(ctx context.Context, basePath, overlayPath, outputPath, color string, similarity float64, scale float64, x, y string, fade float64, overlayDuration float64) error {
	chain := fmt.Sprintf("[1:v]chromakey=0x%s:%.3f:0.0", color, similarity)
	if scale > 0 && scale != 1 {
		chain += fmt.Sprintf(",scale=iw*%.2f:ih*%.2f", scale, scale)
	}
	if fade > 0 {
		fadeOutStart := overlayDuration - fade
		if fadeOutStart < 0 {
			fadeOutStart = 0
		}
		chain += fmt.Sprintf(",fade=t=in:st=0:d=%.2f:alpha=1,fade=t=out:st=%.2f:d=%.2f:alpha=1",
			fade, fadeOutStart, fade)
	}
	filter := fmt.Sprintf("%s[ovl];[0:v][ovl]overlay=%s:%s:shortest=0[v]", chain, x, y)

	args := []string{
		"-y",
		"-i", basePath,
		"-i", overlayPath,
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "0:a?",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "copy",
		outputPath,
	}

	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("overlay chromakey: %w", err)
	}
	return nil
}

// OverlayVideo 普通视频/图片序列叠加
// start/end 控制叠加时间窗，fade 为叠加层淡入淡出时长
func (c *Client) OverlayVideo(ctx context.Context, basePath, overlayPath, outputPath string, width, height int, x, y string, start, end, fade float64) error {
	chain := fmt.Sprintf("[1:v]scale=%d:%d", width, height)
	if fade > 0 {
		chain += fmt.Sprintf(",format=yuva420p,fade=t=in:st=0:d=%.2f:alpha=1,fade=t=out:st=%.2f:d=%.2f:alpha=1",
			fade, end-start-fade, fade)
	}
	chain += fmt.Sprintf(",setpts=PTS+%.2f/TB", start)
	filter := fmt.Sprintf("%s[ovl];[0:v][ovl]overlay=%s:%s:enable='between(t,%.2f,%.2f)'[v]",
		chain, x, y, start, end)

	args := []string{
		"-y",
		"-i", basePath,
		"-i", overlayPath,
		"-filter_complex", filter,
		"-map", "[v]",
		"-map", "0:a?",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "copy",
		outputPath,
	}

	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("overlay video: %w", err)
	}
	return nil
}

// DrawText 在视频上绘制标题文字
func (c *Client) DrawText(ctx context.Context, inputPath, outputPath, text string, x, y, fontSize int) error {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`).Replace(text)
	vf := fmt.Sprintf("drawtext=text='%s':x=%d:y=%d:fontsize=%d:fontcolor=white:borderw=2:bordercolor=black",
		escaped, x, y, fontSize)

	args := []string{
		"-y",
		"-i", inputPath,
		"-vf", vf,
		"-c:v", "libx264",
		"-c:a", "copy",
		outputPath,
	}

	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("draw text: %w", err)
	}
	return nil
}

// SplitAudioVideo 将输入拆分为纯视频和纯音频两个文件
func (c *Client) SplitAudioVideo(ctx context.Context, inputPath, videoOut, audioOut string) error {
	if err := c.run(ctx, "-y", "-i", inputPath, "-an", "-c:v", "copy", videoOut); err != nil {
		return fmt.Errorf("split video: %w", err)
	}
	if err := c.run(ctx, "-y", "-i", inputPath, "-vn", audioOut); err != nil {
		return fmt.Errorf("split audio: %w", err)
	}
	return nil
}

// TrimFadeVideo 把视频片段裁剪到指定时长并做淡入淡出
// 片段比目标时长短时保持原长，只裁不补
func (c *Client) TrimFadeVideo(ctx context.Context, inputPath, outputPath string, duration, fade float64, width, height, fps int) error {
	vf := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%d",
		width, height, width, height, fps)
	if fade > 0 {
		fadeOutStart := duration - fade
		if fadeOutStart < 0 {
			fadeOutStart = 0
		}
		vf = fmt.Sprintf("%s,fade=t=in:st=0:d=%.2f,fade=t=out:st=%.2f:d=%.2f", vf, fade, fadeOutStart, fade)
	}

	args := []string{
		"-y",
		"-i", inputPath,
		"-t", fmt.Sprintf("%.2f", duration),
		"-an",
		"-vf", vf,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		outputPath,
	}

	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("trim fade: %w", err)
	}
	return nil
}

// BlackClip 生成定长黑屏片段，作为缺图场景的占位素材
func (c *Client) BlackClip(ctx context.Context, outputPath string, duration float64, width, height, fps int) error {
	args := []string{
		"-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=black:s=%dx%d:r=%d", width, height, fps),
		"-t", fmt.Sprintf("%.2f", duration),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		outputPath,
	}
	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("black clip: %w", err)
	}
	return nil
}

// CropVideo 裁剪视频时长
func (c *Client) CropVideo(ctx context.Context, inputPath, outputPath string, duration float64) error {
	args := []string{
		"-y",
		"-i", inputPath,
		"-t", fmt.Sprintf("%.2f", duration),
		"-c", "copy",
		outputPath,
	}

	if err := c.run(ctx, args...); err != nil {
		return fmt.Errorf("crop: %w", err)
	}
	return nil
}
