package video

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"

	model "github.com/kostas2370/Video-Creator/internal/model/video"
	"github.com/kostas2370/Video-Creator/internal/pkg/id"
	"github.com/kostas2370/Video-Creator/internal/pkg/imagesource"
)

// sourceImages 为每个场景取一张配图并落库
// 单个场景取图失败只记日志，落一条空文件配图，渲染时回退占位素材
func (s *service) sourceImages(ctx context.Context, v *model.Video, scenes []*model.Scene, units []sceneUnit, providerName, style string) error {
	provider, err := s.images.Provider(string(v.Mode), providerName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	imgs := make([]*model.SceneImage, 0, len(scenes))
	for i, scene := range scenes {
		query := scene.Text
		if i < len(units) && units[i].Image != "" {
			query = units[i].Image
		}

		img := &model.SceneImage{
			ID:      id.New(),
			SceneID: scene.ID,
			Prompt:  query,
		}

		file, err := provider.Fetch(ctx, imagesource.Request{
			Query: query,
			Dir:   v.DirName,
			Title: v.Title,
			Style: style,
		})
		if err != nil {
			log.Warn().Err(err).
				Str("scene_id", scene.ID).
				Str("query", query).
				Msg("场景取图失败，留空回退")
		} else {
			img.File = file
		}
		imgs = append(imgs, img)
	}

	if err := s.sceneImageRepo.CreateMany(ctx, imgs); err != nil {
		return fmt.Errorf("persist scene images: %w", err)
	}
	return nil
}

// RegenerateImage 用保存的查询词重新取图
// 成功时替换文件引用，失败时保留原图
func (s *service) RegenerateImage(ctx context.Context, imageID, style string) (*model.SceneImage, error) {
	img, err := s.sceneImageRepo.FindByID(ctx, imageID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: scene image %s", ErrNotFound, imageID)
		}
		return nil, err
	}

	scene, err := s.sceneRepo.FindByID(ctx, img.SceneID)
	if err != nil {
		return nil, fmt.Errorf("find scene: %w", err)
	}
	v, err := s.videoRepo.FindByPromptID(ctx, scene.PromptID)
	if err != nil {
		return nil, fmt.Errorf("find video: %w", err)
	}

	provider, err := s.images.Provider(string(v.Mode), "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFailure, err)
	}

	file, err := provider.Fetch(ctx, imagesource.Request{
		Query: img.Prompt,
		Dir:   v.DirName,
		Title: v.Title,
		Style: style,
	})
	if err != nil {
		log.Warn().Err(err).
			Str("image_id", imageID).
			Msg("重新取图失败，保留原图")
		return img, nil
	}

	if err := s.sceneImageRepo.Update(ctx, img.ID, map[string]interface{}{"file": file}); err != nil {
		return nil, fmt.Errorf("update scene image: %w", err)
	}
	img.File = file
	return img, nil
}
