package video

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	model "github.com/kostas2370/Video-Creator/internal/model/video"
	"github.com/kostas2370/Video-Creator/internal/pkg/id"
	"github.com/kostas2370/Video-Creator/internal/pkg/scenario"
	"github.com/kostas2370/Video-Creator/internal/pkg/tts"
)

// sceneUnit 一次遍历展开的最小解说单元
// 分句模板下一个单元一句话，整段模板下一个单元一个场景
type sceneUnit struct {
	Text   string
	Image  string
	IsLast bool
}

// flattenScenario 把脚本展开为顺序排列的解说单元
// 展开顺序就是落库顺序，也是成片的播放顺序
func flattenScenario(sc *scenario.Scenario, f scenario.Fields, sentenced bool) []sceneUnit {
	var units []sceneUnit

	for _, scene := range sc.Scenes {
		if sentenced {
			su := scene.Units(f)
			for i, u := range su {
				units = append(units, sceneUnit{
					Text:   u.Text,
					Image:  u.Image,
					IsLast: i == len(su)-1,
				})
			}
			continue
		}

		text := scene.Dialogue(f)
		if strings.TrimSpace(text) == "" {
			continue
		}
		image := ""
		if v, ok := scene["image"].(string); ok {
			image = v
		} else if su := scene.Units(f); len(su) > 0 {
			image = su[0].Image
		}
		units = append(units, sceneUnit{Text: text, Image: image, IsLast: true})
	}
	return units
}

// synthesizerFor 按语音模型取合成器
func (s *service) synthesizerFor(voice *model.VoiceModel) (tts.Synthesizer, error) {
	provider := voice.Provider
	if voice.Type == model.VoiceTypeLocal {
		provider = "local"
	}
	synth, err := s.ttsRegistry.ForVoice(provider, voice.VoiceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}
	return synth, nil
}

// synthesizeText 合成一段文本，音频落在 {dir}/dialogues/ 下
func (s *service) synthesizeText(ctx context.Context, synth tts.Synthesizer, text, dir string) (string, error) {
	path := filepath.Join(dir, "dialogues", id.NewHex()+".wav")
	if err := synth.Synthesize(ctx, text, path); err != nil {
		return "", fmt.Errorf("%w: synthesize speech: %v", ErrProviderFailure, err)
	}
	return path, nil
}

// generateScenes 为展开的每个单元合成语音并落库
// 任一单元合成失败整体中止，不留半成品场景
func (s *service) generateScenes(ctx context.Context, v *model.Video, units []sceneUnit, voice *model.VoiceModel) ([]*model.Scene, error) {
	synth, err := s.synthesizerFor(voice)
	if err != nil {
		return nil, err
	}

	scenes := make([]*model.Scene, 0, len(units))
	for i, u := range units {
		file, err := s.synthesizeText(ctx, synth, u.Text, v.DirName)
		if err != nil {
			return nil, fmt.Errorf("scene %d: %w", i+1, err)
		}
		scenes = append(scenes, &model.Scene{
			ID:       id.New(),
			PromptID: v.PromptID,
			File:     file,
			Text:     u.Text,
			IsLast:   u.IsLast,
			Sequence: i + 1,
		})
	}

	if err := s.sceneRepo.CreateMany(ctx, scenes); err != nil {
		return nil, fmt.Errorf("persist scenes: %w", err)
	}
	return scenes, nil
}

// resynthesizeScene 用指定音色按当前文本重新合成场景音频
// 新文件替换旧引用，并使数字人视频缓存失效
func (s *service) resynthesizeScene(ctx context.Context, scene *model.Scene, v *model.Video, voice *model.VoiceModel) error {
	synth, err := s.synthesizerFor(voice)
	if err != nil {
		return err
	}

	file, err := s.synthesizeText(ctx, synth, scene.Text, v.DirName)
	if err != nil {
		return err
	}

	if err := s.sceneRepo.Update(ctx, scene.ID, map[string]interface{}{
		"file": file,
		"text": scene.Text,
	}); err != nil {
		return fmt.Errorf("update scene: %w", err)
	}
	scene.File = file

	s.invalidateAvatarCache(ctx, v)
	return nil
}

// UpdateSceneText 直接改写场景文本并重新合成语音
func (s *service) UpdateSceneText(ctx context.Context, sceneID, text string) (*model.Scene, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("scene text is required")
	}

	scene, v, voice, err := s.sceneContext(ctx, sceneID)
	if err != nil {
		return nil, err
	}

	scene.Text = text
	if err := s.resynthesizeScene(ctx, scene, v, voice); err != nil {
		return nil, err
	}
	return scene, nil
}

// GenerateSceneText 用大模型按指令改写场景文本并重新合成语音
func (s *service) GenerateSceneText(ctx context.Context, sceneID, instruction string) (*model.Scene, error) {
	scene, v, voice, err := s.sceneContext(ctx, sceneID)
	if err != nil {
		return nil, err
	}

	answer, err := s.llmProvider.Generate(ctx, scenario.FormatUpdateForm(scene.Text, instruction))
	if err != nil {
		return nil, fmt.Errorf("%w: rewrite scene: %v", ErrProviderFailure, err)
	}
	rewritten := strings.TrimSpace(answer)
	if rewritten == "" {
		return nil, fmt.Errorf("%w: empty rewrite answer", ErrProviderFailure)
	}

	log.Info().
		Str("scene_id", sceneID).
		Str("text", rewritten).
		Msg("场景文本改写完成")

	scene.Text = rewritten
	if err := s.resynthesizeScene(ctx, scene, v, voice); err != nil {
		return nil, err
	}
	return scene, nil
}

// sceneContext 取场景及其所属视频和音色
func (s *service) sceneContext(ctx context.Context, sceneID string) (*model.Scene, *model.Video, *model.VoiceModel, error) {
	scene, err := s.sceneRepo.FindByID(ctx, sceneID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, nil, fmt.Errorf("%w: scene %s", ErrNotFound, sceneID)
		}
		return nil, nil, nil, err
	}

	v, err := s.videoRepo.FindByPromptID(ctx, scene.PromptID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, nil, fmt.Errorf("%w: video for scene %s", ErrNotFound, sceneID)
		}
		return nil, nil, nil, err
	}

	voice, err := s.voiceRepo.FindByID(ctx, v.VoiceModelID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil, nil, fmt.Errorf("%w: voice model %s", ErrNotFound, v.VoiceModelID)
		}
		return nil, nil, nil, err
	}

	return scene, v, voice, nil
}
