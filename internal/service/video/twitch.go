package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	model "github.com/kostas2370/Video-Creator/internal/model/video"
	"github.com/kostas2370/Video-Creator/internal/pkg/fileutil"
	"github.com/kostas2370/Video-Creator/internal/pkg/id"
	"github.com/kostas2370/Video-Creator/internal/pkg/twitch"
)

const (
	defaultClipAmount = 5
	maxClipAmount     = 20
	clipCaptionX      = 80
	clipCaptionY      = 900
	clipCaptionSize   = 50
)

// GenerateTwitchVideo 聚合 Twitch 剪辑生成视频
// 每个剪辑拆成静音视频和音轨，标题烧到画面上，完成后直接 READY
func (s *service) GenerateTwitchVideo(ctx context.Context, params TwitchParams) (*model.Video, error) {
	if s.twitch == nil {
		return nil, fmt.Errorf("%w: twitch client is not configured", ErrProviderFailure)
	}
	if (params.Game == "") == (params.Streamer == "") {
		return nil, fmt.Errorf("exactly one of game or streamer is required")
	}

	amount := params.Amount
	if amount <= 0 {
		amount = defaultClipAmount
	}
	if amount > maxClipAmount {
		amount = maxClipAmount
	}

	var (
		subject string
		clips   []twitch.Clip
		err     error
	)
	if params.Game != "" {
		subject = params.Game
		gameID, gerr := s.twitch.GameID(ctx, params.Game)
		if gerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrProviderFailure, gerr)
		}
		clips, err = s.twitch.GameClips(ctx, gameID, amount)
	} else {
		subject = params.Streamer
		userID, uerr := s.twitch.UserID(ctx, params.Streamer)
		if uerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrProviderFailure, uerr)
		}
		clips, err = s.twitch.BroadcasterClips(ctx, userID, amount)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	if len(clips) == 0 {
		return nil, fmt.Errorf("%w: no clips found for %s", ErrNotFound, subject)
	}

	title := fmt.Sprintf("Best of %s", subject)
	dir, err := fileutil.GenerateDirectory(filepath.Join(s.cfg.Media.Root, "videos"), title)
	if err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}

	userPrompt := &model.UserPrompt{
		ID:     id.New(),
		Prompt: fmt.Sprintf("twitch clips of %s", subject),
	}
	if err := s.userPromptRepo.Create(ctx, userPrompt); err != nil {
		return nil, fmt.Errorf("persist user prompt: %w", err)
	}

	// 游戏分类下有注册背景时自动套用
	var backgroundID string
	if bg, err := s.backgroundRepo.FindByCategory(ctx, string(model.TemplateCategoryGaming)); err == nil {
		backgroundID = bg.ID
	} else if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("find gaming background: %w", err)
	}

	v := &model.Video{
		ID:           id.New(),
		Title:        title,
		PromptID:     userPrompt.ID,
		DirName:      dir,
		Status:       model.VideoStatusGeneration,
		VideoType:    model.VideoTypeTwitch,
		BackgroundID: backgroundID,
	}
	if err := s.videoRepo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("persist video: %w", err)
	}

	var credits []string
	sequence := 0
	for _, clip := range clips {
		path, err := s.twitch.DownloadClip(ctx, clip, dir)
		if err != nil {
			log.Warn().Err(err).Str("clip_id", clip.ID).Msg("剪辑下载失败，跳过")
			continue
		}

		scene, img, err := s.ingestClip(ctx, v, clip, path, sequence+1)
		if err != nil {
			log.Warn().Err(err).Str("clip_id", clip.ID).Msg("剪辑处理失败，跳过")
			continue
		}
		sequence++

		if err := s.sceneRepo.Create(ctx, scene); err != nil {
			return nil, s.failGeneration(ctx, v, fmt.Errorf("persist scene: %w", err))
		}
		if err := s.sceneImageRepo.Create(ctx, img); err != nil {
			return nil, s.failGeneration(ctx, v, fmt.Errorf("persist scene image: %w", err))
		}

		credits = append(credits, fmt.Sprintf("%s - %s (clip by %s)", clip.Title, clip.BroadcasterName, clip.CreatorName))
	}

	if sequence == 0 {
		return nil, s.failGeneration(ctx, v, fmt.Errorf("%w: all clips failed to download", ErrProviderFailure))
	}

	if err := s.videoRepo.Update(ctx, v.ID, map[string]interface{}{
		"status":     model.VideoStatusReady,
		"gpt_answer": strings.Join(credits, "\n"),
	}); err != nil {
		return nil, fmt.Errorf("update video status: %w", err)
	}
	v.Status = model.VideoStatusReady
	v.GPTAnswer = strings.Join(credits, "\n")

	log.Info().
		Str("video_id", v.ID).
		Int("clips", sequence).
		Msg("twitch 聚合视频生成完成，等待渲染")

	return v, nil
}

// ingestClip 把一个剪辑拆成场景素材
// 音轨落 dialogues/，烧了标题的静音视频落 images/
func (s *service) ingestClip(ctx context.Context, v *model.Video, clip twitch.Clip, clipPath string, sequence int) (*model.Scene, *model.SceneImage, error) {
	silentPath := filepath.Join(v.DirName, "images", id.NewHex()+".mp4")
	audioPath := filepath.Join(v.DirName, "dialogues", id.NewHex()+".wav")
	if err := s.ffmpeg.SplitAudioVideo(ctx, clipPath, silentPath, audioPath); err != nil {
		return nil, nil, fmt.Errorf("split clip: %w", err)
	}

	captionedPath := filepath.Join(v.DirName, "images", id.NewHex()+".mp4")
	if err := s.ffmpeg.DrawText(ctx, silentPath, captionedPath, clip.Title, clipCaptionX, clipCaptionY, clipCaptionSize); err != nil {
		return nil, nil, fmt.Errorf("caption clip: %w", err)
	}
	if err := os.Remove(silentPath); err != nil {
		log.Warn().Err(err).Str("path", silentPath).Msg("清理中间文件失败")
	}
	if err := os.Remove(clipPath); err != nil {
		log.Warn().Err(err).Str("path", clipPath).Msg("清理中间文件失败")
	}

	scene := &model.Scene{
		ID:       id.New(),
		PromptID: v.PromptID,
		File:     audioPath,
		Text:     clip.Title,
		IsLast:   true,
		Sequence: sequence,
	}
	img := &model.SceneImage{
		ID:        id.New(),
		SceneID:   scene.ID,
		File:      captionedPath,
		Prompt:    "twitch video",
		WithAudio: true,
	}
	return scene, img, nil
}
