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
	"github.com/kostas2370/Video-Creator/internal/pkg/cache"
	"github.com/kostas2370/Video-Creator/internal/pkg/fileutil"
	"github.com/kostas2370/Video-Creator/internal/pkg/id"
)

// noValue 更新请求中表示清空引用的哨兵值
const noValue = "no_value"

// avatarRandom 生成请求中表示随机选数字人的哨兵值
const avatarRandom = "random"

// GenerateVideo 生成视频
// 流程：模板解析、脚本生成、建工作目录、逐场景语音合成、配图，完成后 READY
func (s *service) GenerateVideo(ctx context.Context, params GenerateParams) (*model.Video, error) {
	if strings.TrimSpace(params.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	tpl, prompt, err := s.resolveTemplate(ctx, params)
	if err != nil {
		return nil, err
	}

	// 引用素材先校验再做脚本生成，避免坏ID留下半成品记录或白耗一次大模型调用
	avatar, voice, err := s.pickAvatarAndVoice(ctx, params.AvatarID, params.VoiceModelID)
	if err != nil {
		return nil, err
	}
	if err := s.validateReferences(ctx, params); err != nil {
		return nil, err
	}

	sc, answer, fields, err := s.generateScenario(ctx, prompt)
	if err != nil {
		return nil, err
	}

	dir, err := fileutil.GenerateDirectory(filepath.Join(s.cfg.Media.Root, "videos"), sc.Title)
	if err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}

	userPrompt := &model.UserPrompt{
		ID:     id.New(),
		Prompt: prompt,
	}
	if tpl != nil {
		userPrompt.TemplateID = tpl.ID
	}
	if err := s.userPromptRepo.Create(ctx, userPrompt); err != nil {
		return nil, fmt.Errorf("persist user prompt: %w", err)
	}

	mode := model.ImageModeWeb
	if strings.EqualFold(params.Mode, string(model.ImageModeAI)) {
		mode = model.ImageModeAI
	}

	v := &model.Video{
		ID:           id.New(),
		Title:        sc.Title,
		GPTAnswer:    answer,
		PromptID:     userPrompt.ID,
		DirName:      dir,
		MusicID:      params.MusicID,
		Status:       model.VideoStatusGeneration,
		BackgroundID: params.BackgroundID,
		IntroID:      params.IntroID,
		OutroID:      params.OutroID,
		VoiceModelID: voice.ID,
		VideoType:    model.VideoTypeAI,
		Mode:         mode,
		Subtitles:    params.Subtitles,
	}
	if avatar != nil {
		v.AvatarID = avatar.ID
	}
	if err := s.videoRepo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("persist video: %w", err)
	}

	sentenced := tpl == nil || tpl.IsSentenced
	units := flattenScenario(sc, fields, sentenced)
	if len(units) == 0 {
		return nil, s.failGeneration(ctx, v, fmt.Errorf("%w: scenario produced no narration units", ErrGenerationExhausted))
	}

	scenes, err := s.generateScenes(ctx, v, units, voice)
	if err != nil {
		return nil, s.failGeneration(ctx, v, err)
	}

	if err := s.sourceImages(ctx, v, scenes, units, params.ImageProvider, params.Style); err != nil {
		return nil, s.failGeneration(ctx, v, err)
	}

	if err := s.videoRepo.Update(ctx, v.ID, map[string]interface{}{
		"status": model.VideoStatusReady,
	}); err != nil {
		return nil, fmt.Errorf("update video status: %w", err)
	}
	v.Status = model.VideoStatusReady

	log.Info().
		Str("video_id", v.ID).
		Str("title", v.Title).
		Int("scenes", len(scenes)).
		Msg("视频生成完成，等待渲染")

	return v, nil
}

// failGeneration 生成失败时记录原因，状态保持 GENERATION 以便排查
func (s *service) failGeneration(ctx context.Context, v *model.Video, cause error) error {
	if err := s.videoRepo.Update(ctx, v.ID, map[string]interface{}{
		"error_message": cause.Error(),
	}); err != nil {
		log.Warn().Err(err).Str("video_id", v.ID).Msg("记录生成失败原因失败")
	}
	return cause
}

// pickAvatarAndVoice 选择数字人和音色
// 传 "random" 随机选数字人；指定数字人时默认跟随其音色，显式指定音色时覆盖；都未指定则随机音色
func (s *service) pickAvatarAndVoice(ctx context.Context, avatarID, voiceID string) (*model.Avatar, *model.VoiceModel, error) {
	var avatar *model.Avatar

	switch {
	case avatarID == avatarRandom:
		found, err := s.avatarRepo.FindRandom(ctx)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, nil, fmt.Errorf("%w: no avatars registered", ErrNotFound)
			}
			return nil, nil, err
		}
		avatar = found
		if voiceID == "" {
			voiceID = avatar.VoiceModelID
		}
	case avatarID != "":
		found, err := s.avatarRepo.FindByID(ctx, avatarID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, nil, fmt.Errorf("%w: avatar %s", ErrNotFound, avatarID)
			}
			return nil, nil, err
		}
		avatar = found
		if voiceID == "" {
			voiceID = avatar.VoiceModelID
		}
	}

	if voiceID != "" {
		voice, err := s.voiceRepo.FindByID(ctx, voiceID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, nil, fmt.Errorf("%w: voice model %s", ErrNotFound, voiceID)
			}
			return nil, nil, err
		}
		return avatar, voice, nil
	}

	voice, err := s.voiceRepo.FindRandom(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("pick random voice: %w", err)
	}
	return avatar, voice, nil
}

// UpdateVideo 更新视频属性
// 换数字人且其音色不同时，级联切换音色并重新合成全部场景语音
func (s *service) UpdateVideo(ctx context.Context, videoID string, params UpdateParams) (*model.Video, error) {
	v, err := s.findVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if params.Title != "" {
		updates["title"] = params.Title
		v.Title = params.Title
	}
	if params.Subtitles != nil {
		updates["subtitles"] = *params.Subtitles
		v.Subtitles = *params.Subtitles
	}
	if params.AvatarPos != "" {
		updates["avatar_pos"] = params.AvatarPos
		v.AvatarPos = params.AvatarPos
	}
	if err := s.applyReference(ctx, v, updates, "intro_id", params.IntroID); err != nil {
		return nil, err
	}
	if err := s.applyReference(ctx, v, updates, "outro_id", params.OutroID); err != nil {
		return nil, err
	}
	if err := s.applyReference(ctx, v, updates, "music_id", params.MusicID); err != nil {
		return nil, err
	}

	if params.AvatarID != "" {
		if err := s.applyAvatarChange(ctx, v, updates, params.AvatarID); err != nil {
			return nil, err
		}
	}

	if len(updates) == 0 {
		return v, nil
	}
	if err := s.videoRepo.Update(ctx, v.ID, updates); err != nil {
		return nil, fmt.Errorf("update video: %w", err)
	}
	return v, nil
}

// validateReferences 校验生成请求里引用的素材都存在
func (s *service) validateReferences(ctx context.Context, params GenerateParams) error {
	lookups := []struct {
		field string
		id    string
		find  func(context.Context, string) error
	}{
		{"background_id", params.BackgroundID, func(ctx context.Context, id string) error {
			_, err := s.backgroundRepo.FindByID(ctx, id)
			return err
		}},
		{"intro_id", params.IntroID, func(ctx context.Context, id string) error {
			_, err := s.introRepo.FindByID(ctx, id)
			return err
		}},
		{"outro_id", params.OutroID, func(ctx context.Context, id string) error {
			_, err := s.outroRepo.FindByID(ctx, id)
			return err
		}},
		{"music_id", params.MusicID, func(ctx context.Context, id string) error {
			_, err := s.musicRepo.FindByID(ctx, id)
			return err
		}},
	}
	for _, l := range lookups {
		if l.id == "" {
			continue
		}
		if err := l.find(ctx, l.id); err != nil {
			if err == mongo.ErrNoDocuments {
				return fmt.Errorf("%w: %s %s", ErrNotFound, l.field, l.id)
			}
			return err
		}
	}
	return nil
}

// applyReference 处理可清空的引用字段
func (s *service) applyReference(ctx context.Context, v *model.Video, updates map[string]interface{}, field, value string) error {
	if value == "" {
		return nil
	}
	if value == noValue {
		updates[field] = ""
		return nil
	}

	var err error
	switch field {
	case "intro_id":
		_, err = s.introRepo.FindByID(ctx, value)
	case "outro_id":
		_, err = s.outroRepo.FindByID(ctx, value)
	case "music_id":
		_, err = s.musicRepo.FindByID(ctx, value)
	}
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("%w: %s %s", ErrNotFound, field, value)
		}
		return err
	}
	updates[field] = value
	return nil
}

// applyAvatarChange 处理数字人变更与音色级联
func (s *service) applyAvatarChange(ctx context.Context, v *model.Video, updates map[string]interface{}, avatarID string) error {
	if avatarID == noValue {
		updates["avatar_id"] = ""
		v.AvatarID = ""
		s.invalidateAvatarCache(ctx, v)
		return nil
	}

	avatar, err := s.avatarRepo.FindByID(ctx, avatarID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return fmt.Errorf("%w: avatar %s", ErrNotFound, avatarID)
		}
		return err
	}

	updates["avatar_id"] = avatar.ID
	v.AvatarID = avatar.ID
	s.invalidateAvatarCache(ctx, v)

	if avatar.VoiceModelID == "" || avatar.VoiceModelID == v.VoiceModelID {
		return nil
	}

	voice, err := s.voiceRepo.FindByID(ctx, avatar.VoiceModelID)
	if err != nil {
		return fmt.Errorf("find avatar voice: %w", err)
	}

	updates["voice_model_id"] = voice.ID
	v.VoiceModelID = voice.ID

	scenes, err := s.sceneRepo.FindByPromptID(ctx, v.PromptID)
	if err != nil {
		return fmt.Errorf("find scenes: %w", err)
	}
	for _, scene := range scenes {
		if err := s.resynthesizeScene(ctx, scene, v, voice); err != nil {
			return fmt.Errorf("resynthesize scene %s: %w", scene.ID, err)
		}
	}
	return nil
}

// Regenerate 重新合成全部场景语音并重新取图
// 不改变脚本结构，场景数量和文本保持不变；接受卡在 RENDERING 的视频作为恢复路径
func (s *service) Regenerate(ctx context.Context, videoID string) (*model.Video, error) {
	v, err := s.findVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	switch v.Status {
	case model.VideoStatusReady, model.VideoStatusCompleted, model.VideoStatusRendering:
	default:
		return nil, fmt.Errorf("%w: status %s", ErrNotRenderable, v.Status)
	}

	voice, err := s.voiceRepo.FindByID(ctx, v.VoiceModelID)
	if err != nil {
		return nil, fmt.Errorf("find voice model: %w", err)
	}

	scenes, err := s.sceneRepo.FindByPromptID(ctx, v.PromptID)
	if err != nil {
		return nil, fmt.Errorf("find scenes: %w", err)
	}

	for _, scene := range scenes {
		if err := s.resynthesizeScene(ctx, scene, v, voice); err != nil {
			return nil, fmt.Errorf("resynthesize scene %s: %w", scene.ID, err)
		}

		imgs, err := s.sceneImageRepo.FindBySceneID(ctx, scene.ID)
		if err != nil {
			return nil, fmt.Errorf("find scene images: %w", err)
		}
		for _, img := range imgs {
			if _, err := s.RegenerateImage(ctx, img.ID, ""); err != nil {
				log.Warn().Err(err).Str("image_id", img.ID).Msg("配图重新生成失败，保留原图")
			}
		}
	}

	s.invalidateAvatarCache(ctx, v)

	if err := s.videoRepo.Update(ctx, v.ID, map[string]interface{}{
		"status": model.VideoStatusReady,
		"output": "",
	}); err != nil {
		return nil, fmt.Errorf("update video status: %w", err)
	}
	v.Status = model.VideoStatusReady
	v.Output = ""
	return v, nil
}

// Publish 上传成片到存储并记录访问URL
func (s *service) Publish(ctx context.Context, videoID string) (*model.Video, error) {
	v, err := s.findVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if v.Status != model.VideoStatusCompleted || v.Output == "" {
		return nil, fmt.Errorf("%w: video has no completed output", ErrNotRenderable)
	}

	file, err := os.Open(v.Output)
	if err != nil {
		return nil, fmt.Errorf("open output: %w", err)
	}
	defer file.Close()

	key := fmt.Sprintf("videos/%s/%s", v.ID, filepath.Base(v.Output))
	url, err := s.storage.Upload(ctx, key, file, "video/mp4")
	if err != nil {
		return nil, fmt.Errorf("%w: upload output: %v", ErrProviderFailure, err)
	}

	if err := s.videoRepo.Update(ctx, v.ID, map[string]interface{}{"url": url}); err != nil {
		return nil, fmt.Errorf("update video url: %w", err)
	}
	v.URL = url
	return v, nil
}

// GetVideo 查询视频详情
func (s *service) GetVideo(ctx context.Context, videoID string) (*VideoDetail, error) {
	v, err := s.findVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	scenes, err := s.sceneRepo.FindByPromptID(ctx, v.PromptID)
	if err != nil {
		return nil, fmt.Errorf("find scenes: %w", err)
	}

	detail := &VideoDetail{Video: v, Scenes: make([]*SceneDetail, 0, len(scenes))}
	for _, scene := range scenes {
		imgs, err := s.sceneImageRepo.FindBySceneID(ctx, scene.ID)
		if err != nil {
			return nil, fmt.Errorf("find scene images: %w", err)
		}
		detail.Scenes = append(detail.Scenes, &SceneDetail{Scene: scene, Images: imgs})
	}
	return detail, nil
}

// ListVideos 分页查询视频
func (s *service) ListVideos(ctx context.Context, videoType model.VideoType, limit, offset int64) ([]*model.Video, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.videoRepo.List(ctx, videoType, limit, offset)
}

// findVideo 按ID查视频，不存在时返回 ErrNotFound
func (s *service) findVideo(ctx context.Context, videoID string) (*model.Video, error) {
	v, err := s.videoRepo.FindByID(ctx, videoID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: video %s", ErrNotFound, videoID)
		}
		return nil, err
	}
	return v, nil
}

// invalidateAvatarCache 使数字人视频缓存失效
// 删除工作目录下的 output_avatar.mp4 和对应的 Redis 标记
func (s *service) invalidateAvatarCache(ctx context.Context, v *model.Video) {
	path := filepath.Join(v.DirName, "output_avatar.mp4")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("删除数字人视频缓存失败")
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.AvatarVideoCacheKey(v.ID)); err != nil {
			log.Warn().Err(err).Str("video_id", v.ID).Msg("删除数字人缓存标记失败")
		}
	}
}
