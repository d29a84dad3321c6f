package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	model "github.com/kostas2370/Video-Creator/internal/model/video"
	"github.com/kostas2370/Video-Creator/internal/pkg/cache"
)

// Render 渲染成片
// 状态先以 CAS 方式迁入 RENDERING，不满足前置状态时无任何副作用
func (s *service) Render(ctx context.Context, videoID string) (*model.Video, error) {
	v, err := s.videoRepo.TransitionStatus(ctx, videoID,
		[]model.VideoStatus{model.VideoStatusReady, model.VideoStatusCompleted},
		model.VideoStatusRendering)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			return nil, err
		}
		existing, ferr := s.videoRepo.FindByID(ctx, videoID)
		if ferr != nil {
			return nil, fmt.Errorf("%w: video %s", ErrNotFound, videoID)
		}
		return nil, fmt.Errorf("%w: status %s", ErrNotRenderable, existing.Status)
	}

	plan, err := s.buildPlanFor(ctx, v)
	if err != nil {
		return nil, s.failRender(ctx, v, err)
	}

	output, err := s.executePlan(ctx, v, plan)
	if err != nil {
		return nil, s.failRender(ctx, v, err)
	}

	if err := s.videoRepo.Update(ctx, v.ID, map[string]interface{}{
		"status":        model.VideoStatusCompleted,
		"output":        output,
		"error_message": "",
	}); err != nil {
		return nil, fmt.Errorf("update video: %w", err)
	}
	v.Status = model.VideoStatusCompleted
	v.Output = output
	v.ErrorMessage = ""

	log.Info().
		Str("video_id", v.ID).
		Str("output", output).
		Msg("视频渲染完成")

	return v, nil
}

// failRender 渲染失败时落 FAILED 状态和失败原因
func (s *service) failRender(ctx context.Context, v *model.Video, cause error) error {
	if err := s.videoRepo.Update(ctx, v.ID, map[string]interface{}{
		"status":        model.VideoStatusFailed,
		"output":        "",
		"error_message": cause.Error(),
	}); err != nil {
		log.Warn().Err(err).Str("video_id", v.ID).Msg("记录渲染失败状态失败")
	}
	return fmt.Errorf("%w: %v", ErrRenderFailed, cause)
}

// buildPlanFor 加载场景、配图和素材，构建合成计划
func (s *service) buildPlanFor(ctx context.Context, v *model.Video) (*CompositionPlan, error) {
	scenes, err := s.sceneRepo.FindByPromptID(ctx, v.PromptID)
	if err != nil {
		return nil, fmt.Errorf("find scenes: %w", err)
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("video has no scenes")
	}

	sceneIDs := make([]string, len(scenes))
	for i, scene := range scenes {
		sceneIDs[i] = scene.ID
	}
	imgs, err := s.sceneImageRepo.FindBySceneIDs(ctx, sceneIDs)
	if err != nil {
		return nil, fmt.Errorf("find scene images: %w", err)
	}
	imagesByScene := make(map[string][]*model.SceneImage, len(imgs))
	for _, img := range imgs {
		imagesByScene[img.SceneID] = append(imagesByScene[img.SceneID], img)
	}

	var background *model.Background
	if v.BackgroundID != "" {
		background, err = s.backgroundRepo.FindByID(ctx, v.BackgroundID)
		if err != nil {
			return nil, fmt.Errorf("find background: %w", err)
		}
	}

	var musicFile string
	if v.MusicID != "" {
		music, err := s.musicRepo.FindByID(ctx, v.MusicID)
		if err != nil {
			return nil, fmt.Errorf("find music: %w", err)
		}
		musicFile = music.File
	}

	var avatarFile string
	if v.AvatarID != "" {
		avatar, err := s.avatarRepo.FindByID(ctx, v.AvatarID)
		if err != nil {
			return nil, fmt.Errorf("find avatar: %w", err)
		}
		avatarFile = avatar.File
	}

	var introFile, outroFile string
	if v.IntroID != "" {
		intro, err := s.introRepo.FindByID(ctx, v.IntroID)
		if err != nil {
			return nil, fmt.Errorf("find intro: %w", err)
		}
		introFile = intro.File
	}
	if v.OutroID != "" {
		outro, err := s.outroRepo.FindByID(ctx, v.OutroID)
		if err != nil {
			return nil, fmt.Errorf("find outro: %w", err)
		}
		outroFile = outro.File
	}

	return buildPlan(v, scenes, imagesByScene, background, musicFile, avatarFile, introFile, outroFile,
		s.cfg.Media.OutputWidth, s.cfg.Media.OutputHeight, s.cfg.Media.FPS), nil
}

// executePlan 执行合成计划，返回成片路径
// 中间文件集中在 render_tmp 下，无论成败都会清理
func (s *service) executePlan(ctx context.Context, v *model.Video, plan *CompositionPlan) (string, error) {
	work := filepath.Join(v.DirName, "render_tmp")
	if err := os.MkdirAll(work, 0o755); err != nil {
		return "", fmt.Errorf("create render dir: %w", err)
	}
	defer os.RemoveAll(work)

	silenceFile := filepath.Join(work, "silence.wav")
	if err := s.ffmpeg.Silence(ctx, silenceFile, silenceSeconds); err != nil {
		return "", err
	}

	clipW, clipH := plan.ClipSize()

	var (
		audioFiles  []string
		visualClips []string
		durations   []float64
		totalDur    float64
	)
	for i, clip := range plan.Clips {
		audioFile, err := s.resolveClipAudio(ctx, clip, work, i)
		if err != nil {
			return "", err
		}

		info, err := s.ffmpeg.GetAudioInfo(ctx, audioFile)
		if err != nil {
			return "", fmt.Errorf("probe scene audio: %w", err)
		}

		duration := info.Duration + float64(clip.TrailingSilence)*silenceSeconds
		audioFiles = append(audioFiles, audioFile)
		for n := 0; n < clip.TrailingSilence; n++ {
			audioFiles = append(audioFiles, silenceFile)
		}

		fade := sceneFadeFraction * duration
		out := filepath.Join(work, fmt.Sprintf("clip_%03d.mp4", i))
		switch clip.Kind {
		case VisualImage:
			err = s.ffmpeg.CreateImageClip(ctx, clip.Visual, out, duration, fade, clipW, clipH, plan.FPS)
		case VisualVideo:
			err = s.ffmpeg.TrimFadeVideo(ctx, clip.Visual, out, duration, fade, clipW, clipH, plan.FPS)
		default:
			log.Warn().Str("scene_id", clip.SceneID).Msg("场景无可用画面素材，黑屏占位")
			err = s.ffmpeg.BlackClip(ctx, out, duration, clipW, clipH, plan.FPS)
		}
		if err != nil {
			return "", fmt.Errorf("scene clip %d: %w", i+1, err)
		}

		visualClips = append(visualClips, out)
		durations = append(durations, duration)
		totalDur += duration
	}

	audioOut := filepath.Join(v.DirName, "output_audio.wav")
	if err := s.ffmpeg.ConcatAudio(ctx, audioFiles, audioOut); err != nil {
		return "", err
	}

	current := filepath.Join(work, "body.mp4")
	if err := s.ffmpeg.ConcatVideos(ctx, visualClips, current); err != nil {
		return "", err
	}

	if plan.Background != nil {
		next, err := s.composeBackground(ctx, plan, work, current, totalDur)
		if err != nil {
			return "", err
		}
		current = next
	}

	withAudio := filepath.Join(work, "with_audio.mp4")
	if err := s.ffmpeg.SetAudio(ctx, current, audioOut, withAudio); err != nil {
		return "", err
	}
	current = withAudio

	if plan.MusicFile != "" {
		next := filepath.Join(work, "with_music.mp4")
		if err := s.ffmpeg.MixMusic(ctx, current, plan.MusicFile, next, musicVolume, musicFadeSeconds, totalDur); err != nil {
			return "", err
		}
		current = next
	}

	if plan.AvatarFile != "" {
		next, err := s.composeAvatar(ctx, v, plan, work, current, audioOut, totalDur)
		if err != nil {
			return "", err
		}
		current = next
	}

	if plan.Subtitles {
		assFile := filepath.Join(work, "subtitles.ass")
		if err := os.WriteFile(assFile, []byte(buildASS(plan, durations)), 0o644); err != nil {
			return "", fmt.Errorf("write subtitles: %w", err)
		}
		next := filepath.Join(work, "with_subtitles.mp4")
		if err := s.ffmpeg.AddSubtitles(ctx, current, assFile, next); err != nil {
			return "", err
		}
		current = next
	}

	if plan.IntroFile != "" || plan.OutroFile != "" {
		var parts []string
		if plan.IntroFile != "" {
			parts = append(parts, plan.IntroFile)
		}
		parts = append(parts, current)
		if plan.OutroFile != "" {
			parts = append(parts, plan.OutroFile)
		}
		next := filepath.Join(work, "with_bumpers.mp4")
		if err := s.ffmpeg.ConcatVideosCompose(ctx, parts, next, plan.Width, plan.Height, plan.FPS); err != nil {
			return "", err
		}
		current = next
	}

	final := filepath.Join(v.DirName, "output_video.mp4")
	if err := os.Rename(current, final); err != nil {
		return "", fmt.Errorf("promote output: %w", err)
	}
	return final, nil
}

// resolveClipAudio 确定片段的配音音轨
// 素材声明带声且确有音轨时抽出内嵌音轨：场景配音存在则二者混音，否则内嵌音轨单独使用；
// 素材实际无声时退回场景配音，两边都没有才算错
func (s *service) resolveClipAudio(ctx context.Context, clip PlannedClip, work string, i int) (string, error) {
	if !clip.WithAudio {
		if clip.AudioFile == "" {
			return "", fmt.Errorf("scene %s has no audio", clip.SceneID)
		}
		return clip.AudioFile, nil
	}

	has, err := s.ffmpeg.HasAudioStream(ctx, clip.Visual)
	if err != nil {
		return "", fmt.Errorf("probe clip visual: %w", err)
	}
	if !has {
		if clip.AudioFile == "" {
			return "", fmt.Errorf("scene %s has no audio", clip.SceneID)
		}
		return clip.AudioFile, nil
	}

	embedded := filepath.Join(work, fmt.Sprintf("embedded_%03d.wav", i))
	if err := s.ffmpeg.ExtractAudio(ctx, clip.Visual, embedded); err != nil {
		return "", fmt.Errorf("extract clip audio: %w", err)
	}
	if clip.AudioFile == "" {
		return embedded, nil
	}

	mixed := filepath.Join(work, fmt.Sprintf("mixed_%03d.wav", i))
	if err := s.ffmpeg.MixAudioTracks(ctx, clip.AudioFile, embedded, mixed); err != nil {
		return "", fmt.Errorf("mix clip audio: %w", err)
	}
	return mixed, nil
}

// composeBackground 把正片摆到背景画面的配图区域，再把抠像后的背景盖上去
func (s *service) composeBackground(ctx context.Context, plan *CompositionPlan, work, body string, totalDur float64) (string, error) {
	bg := plan.Background
	clipW, clipH := plan.ClipSize()
	imgX, imgY := splitPos(bg.ImagePos, "60", "60")

	canvas := filepath.Join(work, "canvas.mp4")
	if err := s.ffmpeg.BlackClip(ctx, canvas, totalDur, plan.Width, plan.Height, plan.FPS); err != nil {
		return "", err
	}

	positioned := filepath.Join(work, "positioned.mp4")
	if err := s.ffmpeg.OverlayVideo(ctx, canvas, body, positioned, clipW, clipH, imgX, imgY, 0, totalDur, 0); err != nil {
		return "", err
	}

	similarity := float64(bg.Through) / 100
	keyed := filepath.Join(work, "with_background.mp4")
	if err := s.ffmpeg.OverlayChromaKey(ctx, positioned, bg.File, keyed,
		colorToHex(bg.Color), similarity, 1, "0", "0", overallFadeSeconds, totalDur); err != nil {
		return "", err
	}
	return keyed, nil
}

// composeAvatar 叠加数字人视频，优先复用工作目录下的缓存
func (s *service) composeAvatar(ctx context.Context, v *model.Video, plan *CompositionPlan, work, body, audioOut string, totalDur float64) (string, error) {
	if s.lipsync == nil {
		log.Warn().Str("video_id", v.ID).Msg("未配置口型合成服务，跳过数字人叠加")
		return body, nil
	}

	avatarVideo := filepath.Join(v.DirName, "output_avatar.mp4")
	if _, err := os.Stat(avatarVideo); err != nil {
		generated, aerr := s.lipsync.Animate(ctx, plan.AvatarFile, audioOut, v.DirName)
		if aerr != nil {
			return "", fmt.Errorf("animate avatar: %w", aerr)
		}
		if generated != avatarVideo {
			if err := os.Rename(generated, avatarVideo); err != nil {
				return "", fmt.Errorf("cache avatar video: %w", err)
			}
		}
		if s.cache != nil {
			if err := s.cache.SetString(ctx, cache.AvatarVideoCacheKey(v.ID), avatarVideo, 0); err != nil {
				log.Warn().Err(err).Str("video_id", v.ID).Msg("记录数字人缓存标记失败")
			}
		}
	}

	info, err := s.ffmpeg.GetVideoInfo(ctx, avatarVideo)
	if err != nil {
		return "", fmt.Errorf("probe avatar video: %w", err)
	}
	w := int(float64(info.Width) * avatarScale)
	h := int(float64(info.Height) * avatarScale)
	x, y := splitPos(plan.AvatarPos, "1300", "50")

	out := filepath.Join(work, "with_avatar.mp4")
	if err := s.ffmpeg.OverlayVideo(ctx, body, avatarVideo, out, w, h, x, y, 0, totalDur, overallFadeSeconds); err != nil {
		return "", err
	}
	return out, nil
}

// splitPos 解析 "x,y" 位置串
func splitPos(pos, defX, defY string) (string, string) {
	parts := strings.SplitN(pos, ",", 2)
	if len(parts) != 2 {
		return defX, defY
	}
	x := strings.TrimSpace(parts[0])
	y := strings.TrimSpace(parts[1])
	if x == "" || y == "" {
		return defX, defY
	}
	return x, y
}

// colorToHex 把 "r,g,b" 键色转成 RRGGBB 十六进制
func colorToHex(color string) string {
	parts := strings.Split(color, ",")
	if len(parts) != 3 {
		return "00FF00"
	}
	var hex strings.Builder
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return "00FF00"
		}
		fmt.Fprintf(&hex, "%02X", n)
	}
	return hex.String()
}
