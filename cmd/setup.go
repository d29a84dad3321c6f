package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kostas2370/Video-Creator/internal/config"
	model "github.com/kostas2370/Video-Creator/internal/model/video"
	"github.com/kostas2370/Video-Creator/internal/pkg/fileutil"
	"github.com/kostas2370/Video-Creator/internal/pkg/id"
	"github.com/kostas2370/Video-Creator/internal/pkg/mongodb"
	"github.com/kostas2370/Video-Creator/internal/pkg/tts"
	videorepo "github.com/kostas2370/Video-Creator/internal/repository/video"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Seed media reference data",
	Long: `Prepare the media directory tree and register reference assets found
under media/other (intros, outros, backgrounds, music). When an ElevenLabs
API key is configured, the account's voices are imported as voice models.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)

	flags := setupCmd.Flags()
	flags.Bool("skip-voices", false, "skip the ElevenLabs voice import")
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	ctx := context.Background()

	mongoClient, err := mongodb.New(&cfg.Mongo)
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer func() {
		if err := mongoClient.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close MongoDB connection")
		}
	}()
	db := mongoClient.Database()

	if err := mongodb.EnsureIndexes(db); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	if err := setupMediaDirs(cfg.Media.Root); err != nil {
		return err
	}

	if err := registerAssets(ctx, cfg.Media.Root, db); err != nil {
		return err
	}

	skipVoices, _ := cmd.Flags().GetBool("skip-voices")
	if !skipVoices {
		if cfg.TTS.ElevenLabs.APIKey == "" {
			log.Warn().Msg("elevenlabs api key not configured, skipping voice import")
		} else if err := importElevenLabsVoices(ctx, cfg, db); err != nil {
			return err
		}
	}

	log.Info().Msg("setup is done")
	return nil
}

// setupMediaDirs 创建媒体目录结构
func setupMediaDirs(root string) error {
	dirs := []string{
		filepath.Join(root, "videos"),
		filepath.Join(root, "other", "intros"),
		filepath.Join(root, "other", "outros"),
		filepath.Join(root, "other", "backgrounds"),
		filepath.Join(root, "other", "music"),
		filepath.Join(root, "other", "avatars"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create media dir %s: %w", dir, err)
		}
	}
	return nil
}

// registerAssets 将 media/other 下已有的素材文件登记为引用数据，已登记的文件跳过
func registerAssets(ctx context.Context, root string, db *mongo.Database) error {
	if err := registerIntros(ctx, root, videorepo.NewIntroRepo(db)); err != nil {
		return err
	}
	if err := registerOutros(ctx, root, videorepo.NewOutroRepo(db)); err != nil {
		return err
	}
	if err := registerBackgrounds(ctx, root, videorepo.NewBackgroundRepo(db)); err != nil {
		return err
	}
	return registerMusic(ctx, root, videorepo.NewMusicRepo(db))
}

func registerIntros(ctx context.Context, root string, repo videorepo.IntroRepository) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list intros: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, i := range existing {
		known[i.File] = true
	}

	files, err := mediaFiles(filepath.Join(root, "other", "intros"), fileutil.IsVideo)
	if err != nil {
		return err
	}
	for _, file := range files {
		if known[file] {
			continue
		}
		intro := &model.Intro{ID: id.New(), Name: assetName(file), File: file}
		if err := repo.Create(ctx, intro); err != nil {
			return fmt.Errorf("create intro %s: %w", file, err)
		}
		log.Info().Str("file", file).Msg("registered intro")
	}
	return nil
}

func registerOutros(ctx context.Context, root string, repo videorepo.OutroRepository) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list outros: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, o := range existing {
		known[o.File] = true
	}

	files, err := mediaFiles(filepath.Join(root, "other", "outros"), fileutil.IsVideo)
	if err != nil {
		return err
	}
	for _, file := range files {
		if known[file] {
			continue
		}
		outro := &model.Outro{ID: id.New(), Name: assetName(file), File: file}
		if err := repo.Create(ctx, outro); err != nil {
			return fmt.Errorf("create outro %s: %w", file, err)
		}
		log.Info().Str("file", file).Msg("registered outro")
	}
	return nil
}

func registerBackgrounds(ctx context.Context, root string, repo videorepo.BackgroundRepository) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list backgrounds: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, b := range existing {
		known[b.File] = true
	}

	files, err := mediaFiles(filepath.Join(root, "other", "backgrounds"), fileutil.IsVideo)
	if err != nil {
		return err
	}
	for _, file := range files {
		if known[file] {
			continue
		}
		// 默认绿幕键色，容差阈值 6
		bg := &model.Background{
			ID:       id.New(),
			Category: string(model.TemplateCategoryOther),
			File:     file,
			Color:    "0,255,0",
			Through:  6,
			ImagePos: "355,65",
		}
		if err := repo.Create(ctx, bg); err != nil {
			return fmt.Errorf("create background %s: %w", file, err)
		}
		log.Info().Str("file", file).Msg("registered background")
	}
	return nil
}

func registerMusic(ctx context.Context, root string, repo videorepo.MusicRepository) error {
	existing, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list music: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, m := range existing {
		known[m.File] = true
	}

	files, err := mediaFiles(filepath.Join(root, "other", "music"), fileutil.IsAudio)
	if err != nil {
		return err
	}
	for _, file := range files {
		if known[file] {
			continue
		}
		music := &model.Music{
			ID:       id.New(),
			Name:     assetName(file),
			Category: string(model.TemplateCategoryOther),
			File:     file,
		}
		if err := repo.Create(ctx, music); err != nil {
			return fmt.Errorf("create music %s: %w", file, err)
		}
		log.Info().Str("file", file).Msg("registered music")
	}
	return nil
}

// importElevenLabsVoices 导入 ElevenLabs 账号下的音色，按 voice_id 去重
func importElevenLabsVoices(ctx context.Context, cfg *config.Config, db *mongo.Database) error {
	client, err := tts.NewElevenLabs(&cfg.TTS.ElevenLabs, "")
	if err != nil {
		return fmt.Errorf("create elevenlabs client: %w", err)
	}

	voices, err := client.Voices(ctx)
	if err != nil {
		return fmt.Errorf("list elevenlabs voices: %w", err)
	}

	repo := videorepo.NewVoiceModelRepo(db)
	imported := 0
	for _, voice := range voices {
		exists, err := repo.ExistsByVoiceID(ctx, "elevenlabs", voice.VoiceID)
		if err != nil {
			return fmt.Errorf("check voice %s: %w", voice.VoiceID, err)
		}
		if exists {
			continue
		}

		vm := &model.VoiceModel{
			ID:       id.New(),
			Name:     voice.Name,
			Gender:   voice.Labels["gender"],
			Sample:   voice.PreviewURL,
			VoiceID:  voice.VoiceID,
			Type:     model.VoiceTypeAPI,
			Provider: "elevenlabs",
		}
		if err := repo.Create(ctx, vm); err != nil {
			return fmt.Errorf("create voice model %s: %w", voice.Name, err)
		}
		imported++
	}

	log.Info().Int("imported", imported).Int("total", len(voices)).Msg("elevenlabs voices imported")
	return nil
}

// mediaFiles 列出目录下匹配的素材文件
func mediaFiles(dir string, match func(string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read media dir %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if match(path) {
			files = append(files, path)
		}
	}
	return files, nil
}

// assetName 从文件名推导素材名称
func assetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
