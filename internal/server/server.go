package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/kostas2370/Video-Creator/internal/config"
	"github.com/kostas2370/Video-Creator/internal/handler"
	videohandler "github.com/kostas2370/Video-Creator/internal/handler/video"
	"github.com/kostas2370/Video-Creator/internal/pkg/cache"
	"github.com/kostas2370/Video-Creator/internal/pkg/ffmpeg"
	"github.com/kostas2370/Video-Creator/internal/pkg/imagesource"
	"github.com/kostas2370/Video-Creator/internal/pkg/lipsync"
	"github.com/kostas2370/Video-Creator/internal/pkg/llm"
	"github.com/kostas2370/Video-Creator/internal/pkg/mongodb"
	"github.com/kostas2370/Video-Creator/internal/pkg/storage"
	"github.com/kostas2370/Video-Creator/internal/pkg/storagefactory"
	"github.com/kostas2370/Video-Creator/internal/pkg/tts"
	"github.com/kostas2370/Video-Creator/internal/pkg/twitch"
	videorepo "github.com/kostas2370/Video-Creator/internal/repository/video"
	"github.com/kostas2370/Video-Creator/internal/server/middleware"
	videoservice "github.com/kostas2370/Video-Creator/internal/service/video"
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	mongo  *mongodb.Client
	redis  *cache.RedisCache
}

// New 创建服务器实例
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 初始化 MongoDB (可选)
	var mongoClient *mongodb.Client
	if cfg.Mongo.URI != "" {
		client, err := mongodb.New(&cfg.Mongo)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to MongoDB, continuing without it")
		} else {
			mongoClient = client
			log.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

			// 创建索引
			if err := mongodb.EnsureIndexes(mongoClient.Database()); err != nil {
				log.Warn().Err(err).Msg("failed to ensure indexes")
			}
		}
	}

	// 初始化 Redis (可选)
	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing without it")
		} else {
			redisCache = rc
			log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")
		}
	}

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		mongo:  mongoClient,
		redis:  redisCache,
	}

	// 设置路由
	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler()
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1
	v1 := s.engine.Group("/api/v1")
	{
		if s.mongo == nil {
			log.Warn().Msg("MongoDB not configured, video endpoints disabled")
			return
		}

		videoSvc, err := s.buildVideoService()
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize video service, video endpoints disabled")
			return
		}
		videoHdl := videohandler.NewHandler(videoSvc)

		// 视频接口
		v1.POST("/videos", videoHdl.GenerateVideo)
		v1.POST("/videos/twitch", videoHdl.GenerateTwitchVideo)
		v1.GET("/videos", videoHdl.ListVideos)
		v1.GET("/videos/:video_id", videoHdl.GetVideo)
		v1.PATCH("/videos/:video_id", videoHdl.UpdateVideo)
		v1.POST("/videos/:video_id/render", videoHdl.RenderVideo)
		v1.POST("/videos/:video_id/regenerate", videoHdl.RegenerateVideo)
		v1.POST("/videos/:video_id/publish", videoHdl.PublishVideo)

		// 场景接口
		v1.PUT("/scenes/:scene_id/text", videoHdl.UpdateSceneText)
		v1.POST("/scenes/:scene_id/generate-text", videoHdl.GenerateSceneText)
		v1.POST("/scene-images/:image_id/regenerate", videoHdl.RegenerateImage)
	}
}

// buildVideoService 组装视频服务及其外部依赖
func (s *Server) buildVideoService() (videoservice.Service, error) {
	db := s.mongo.Database()
	ctx := context.Background()

	// 大模型（脚本生成必需）
	llmProvider, err := llm.New(ctx, &s.cfg.AI)
	if err != nil {
		return nil, err
	}

	// Twitch (可选)
	var twitchClient *twitch.Client
	if s.cfg.Twitch.ClientID != "" {
		tc, err := twitch.NewClient(&s.cfg.Twitch, s.redis)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize Twitch client, continuing without it")
		} else {
			twitchClient = tc
		}
	}

	// 口型合成 (可选)
	var lipsyncEngine lipsync.Engine
	if s.cfg.Lipsync.ServiceURL != "" {
		engine, err := lipsync.NewHTTPEngine(&s.cfg.Lipsync)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize lipsync engine, continuing without it")
		} else {
			lipsyncEngine = engine
		}
	}

	// 对象存储 (可选，发布功能依赖)
	var store storage.Storage
	if s.cfg.Storage.Type != "" {
		st, err := storagefactory.NewStorage(ctx, &s.cfg.Storage)
		if err != nil {
			log.Warn().Err(err).Msg("failed to initialize storage, continuing without it")
		} else {
			store = st
			log.Info().Str("type", st.GetStorageType()).Msg("initialized storage")
		}
	}

	return videoservice.NewService(videoservice.Deps{
		Config:         s.cfg,
		VideoRepo:      videorepo.NewVideoRepo(db),
		SceneRepo:      videorepo.NewSceneRepo(db),
		SceneImageRepo: videorepo.NewSceneImageRepo(db),
		TemplateRepo:   videorepo.NewTemplatePromptRepo(db),
		UserPromptRepo: videorepo.NewUserPromptRepo(db),
		VoiceRepo:      videorepo.NewVoiceModelRepo(db),
		AvatarRepo:     videorepo.NewAvatarRepo(db),
		BackgroundRepo: videorepo.NewBackgroundRepo(db),
		IntroRepo:      videorepo.NewIntroRepo(db),
		OutroRepo:      videorepo.NewOutroRepo(db),
		MusicRepo:      videorepo.NewMusicRepo(db),
		LLMProvider:    llmProvider,
		TTSRegistry:    tts.NewRegistry(&s.cfg.TTS),
		Images:         imagesource.NewRegistry(&s.cfg.Image),
		Twitch:         twitchClient,
		Lipsync:        lipsyncEngine,
		FFmpeg:         ffmpeg.NewClient(s.cfg.Media.FFmpegPath, s.cfg.Media.FFprobePath),
		Storage:        store,
		Cache:          s.redis,
	}), nil
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		// 关闭连接
		if s.mongo != nil {
			if err := s.mongo.Close(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to close MongoDB connection")
			}
		}
		if s.redis != nil {
			if err := s.redis.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close Redis connection")
			}
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
