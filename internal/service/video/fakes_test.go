package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kostas2370/Video-Creator/internal/config"
	model "github.com/kostas2370/Video-Creator/internal/model/video"
	"github.com/kostas2370/Video-Creator/internal/pkg/ffmpeg"
	"github.com/kostas2370/Video-Creator/internal/pkg/id"
	"github.com/kostas2370/Video-Creator/internal/pkg/imagesource"
	"github.com/kostas2370/Video-Creator/internal/pkg/tts"
)

// 内存仓库，测试用

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[string]*model.Video
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: map[string]*model.Video{}}
}

func (r *fakeVideoRepo) Create(ctx context.Context, v *model.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v.Status == "" {
		v.Status = model.VideoStatusGeneration
	}
	if v.VideoType == "" {
		v.VideoType = model.VideoTypeAI
	}
	if v.Mode == "" {
		v.Mode = model.ImageModeWeb
	}
	cp := *v
	r.videos[v.ID] = &cp
	return nil
}

func (r *fakeVideoRepo) FindByID(ctx context.Context, videoID string) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[videoID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVideoRepo) FindByPromptID(ctx context.Context, promptID string) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.videos {
		if v.PromptID == promptID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeVideoRepo) List(ctx context.Context, videoType model.VideoType, limit, offset int64) ([]*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Video
	for _, v := range r.videos {
		if videoType == "" || v.VideoType == videoType {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeVideoRepo) Update(ctx context.Context, videoID string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[videoID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	applyVideoUpdates(v, updates)
	return nil
}

func applyVideoUpdates(v *model.Video, updates map[string]interface{}) {
	for key, value := range updates {
		switch key {
		case "status":
			v.Status = value.(model.VideoStatus)
		case "output":
			v.Output = value.(string)
		case "error_message":
			v.ErrorMessage = value.(string)
		case "gpt_answer":
			v.GPTAnswer = value.(string)
		case "url":
			v.URL = value.(string)
		case "title":
			v.Title = value.(string)
		case "subtitles":
			v.Subtitles = value.(bool)
		case "avatar_pos":
			v.AvatarPos = value.(string)
		case "intro_id":
			v.IntroID = value.(string)
		case "outro_id":
			v.OutroID = value.(string)
		case "music_id":
			v.MusicID = value.(string)
		case "avatar_id":
			v.AvatarID = value.(string)
		case "voice_model_id":
			v.VoiceModelID = value.(string)
		}
	}
}

func (r *fakeVideoRepo) TransitionStatus(ctx context.Context, videoID string, from []model.VideoStatus, to model.VideoStatus) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[videoID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	for _, st := range from {
		if v.Status == st {
			v.Status = to
			cp := *v
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeVideoRepo) Delete(ctx context.Context, videoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.videos, videoID)
	return nil
}

type fakeSceneRepo struct {
	mu     sync.Mutex
	scenes []*model.Scene
}

func (r *fakeSceneRepo) Create(ctx context.Context, scene *model.Scene) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *scene
	r.scenes = append(r.scenes, &cp)
	return nil
}

func (r *fakeSceneRepo) CreateMany(ctx context.Context, scenes []*model.Scene) error {
	for _, scene := range scenes {
		if err := r.Create(ctx, scene); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeSceneRepo) FindByID(ctx context.Context, sceneID string) (*model.Scene, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, scene := range r.scenes {
		if scene.ID == sceneID {
			cp := *scene
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeSceneRepo) FindByPromptID(ctx context.Context, promptID string) ([]*model.Scene, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.Scene
	for _, scene := range r.scenes {
		if scene.PromptID == promptID {
			cp := *scene
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r *fakeSceneRepo) Update(ctx context.Context, sceneID string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, scene := range r.scenes {
		if scene.ID != sceneID {
			continue
		}
		if v, ok := updates["file"].(string); ok {
			scene.File = v
		}
		if v, ok := updates["text"].(string); ok {
			scene.Text = v
		}
		return nil
	}
	return mongo.ErrNoDocuments
}

func (r *fakeSceneRepo) Delete(ctx context.Context, sceneID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, scene := range r.scenes {
		if scene.ID == sceneID {
			r.scenes = append(r.scenes[:i], r.scenes[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func (r *fakeSceneRepo) DeleteByPromptID(ctx context.Context, promptID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.scenes[:0]
	for _, scene := range r.scenes {
		if scene.PromptID != promptID {
			kept = append(kept, scene)
		}
	}
	r.scenes = kept
	return nil
}

type fakeSceneImageRepo struct {
	mu     sync.Mutex
	images []*model.SceneImage
}

func (r *fakeSceneImageRepo) Create(ctx context.Context, img *model.SceneImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *img
	r.images = append(r.images, &cp)
	return nil
}

func (r *fakeSceneImageRepo) CreateMany(ctx context.Context, imgs []*model.SceneImage) error {
	for _, img := range imgs {
		if err := r.Create(ctx, img); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeSceneImageRepo) FindByID(ctx context.Context, imageID string) (*model.SceneImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, img := range r.images {
		if img.ID == imageID {
			cp := *img
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeSceneImageRepo) FindBySceneID(ctx context.Context, sceneID string) ([]*model.SceneImage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.SceneImage
	for _, img := range r.images {
		if img.SceneID == sceneID {
			cp := *img
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSceneImageRepo) FindBySceneIDs(ctx context.Context, sceneIDs []string) ([]*model.SceneImage, error) {
	var out []*model.SceneImage
	for _, sceneID := range sceneIDs {
		imgs, _ := r.FindBySceneID(ctx, sceneID)
		out = append(out, imgs...)
	}
	return out, nil
}

func (r *fakeSceneImageRepo) Update(ctx context.Context, imageID string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, img := range r.images {
		if img.ID != imageID {
			continue
		}
		if v, ok := updates["file"].(string); ok {
			img.File = v
		}
		return nil
	}
	return mongo.ErrNoDocuments
}

func (r *fakeSceneImageRepo) DeleteBySceneID(ctx context.Context, sceneID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.images[:0]
	for _, img := range r.images {
		if img.SceneID != sceneID {
			kept = append(kept, img)
		}
	}
	r.images = kept
	return nil
}

type fakeTemplateRepo struct {
	template *model.TemplatePrompt
}

func (r *fakeTemplateRepo) Create(ctx context.Context, tpl *model.TemplatePrompt) error { return nil }

func (r *fakeTemplateRepo) FindByID(ctx context.Context, tplID string) (*model.TemplatePrompt, error) {
	if r.template != nil && r.template.ID == tplID {
		return r.template, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeTemplateRepo) FindByCategory(ctx context.Context, category model.TemplateCategory) (*model.TemplatePrompt, error) {
	if r.template != nil && r.template.Category == category {
		return r.template, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeTemplateRepo) Resolve(ctx context.Context, selector string) (*model.TemplatePrompt, error) {
	return r.template, nil
}

func (r *fakeTemplateRepo) List(ctx context.Context) ([]*model.TemplatePrompt, error) {
	if r.template == nil {
		return nil, nil
	}
	return []*model.TemplatePrompt{r.template}, nil
}

type fakeUserPromptRepo struct {
	mu      sync.Mutex
	prompts map[string]*model.UserPrompt
}

func newFakeUserPromptRepo() *fakeUserPromptRepo {
	return &fakeUserPromptRepo{prompts: map[string]*model.UserPrompt{}}
}

func (r *fakeUserPromptRepo) Create(ctx context.Context, p *model.UserPrompt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.prompts[p.ID] = &cp
	return nil
}

func (r *fakeUserPromptRepo) FindByID(ctx context.Context, promptID string) (*model.UserPrompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.prompts[promptID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return p, nil
}

type fakeVoiceRepo struct {
	voices []*model.VoiceModel
}

func (r *fakeVoiceRepo) Create(ctx context.Context, vm *model.VoiceModel) error {
	r.voices = append(r.voices, vm)
	return nil
}

func (r *fakeVoiceRepo) FindByID(ctx context.Context, voiceID string) (*model.VoiceModel, error) {
	for _, vm := range r.voices {
		if vm.ID == voiceID {
			return vm, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeVoiceRepo) FindRandom(ctx context.Context) (*model.VoiceModel, error) {
	if len(r.voices) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return r.voices[0], nil
}

func (r *fakeVoiceRepo) List(ctx context.Context) ([]*model.VoiceModel, error) {
	return r.voices, nil
}

func (r *fakeVoiceRepo) ExistsByVoiceID(ctx context.Context, provider, voiceID string) (bool, error) {
	for _, vm := range r.voices {
		if vm.Provider == provider && vm.VoiceID == voiceID {
			return true, nil
		}
	}
	return false, nil
}

type fakeAvatarRepo struct {
	avatars []*model.Avatar
}

func (r *fakeAvatarRepo) Create(ctx context.Context, a *model.Avatar) error {
	r.avatars = append(r.avatars, a)
	return nil
}

func (r *fakeAvatarRepo) FindByID(ctx context.Context, avatarID string) (*model.Avatar, error) {
	for _, a := range r.avatars {
		if a.ID == avatarID {
			return a, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAvatarRepo) FindRandom(ctx context.Context) (*model.Avatar, error) {
	if len(r.avatars) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return r.avatars[0], nil
}

func (r *fakeAvatarRepo) List(ctx context.Context) ([]*model.Avatar, error) {
	return r.avatars, nil
}

type fakeBackgroundRepo struct {
	backgrounds []*model.Background
}

func (r *fakeBackgroundRepo) Create(ctx context.Context, b *model.Background) error {
	r.backgrounds = append(r.backgrounds, b)
	return nil
}

func (r *fakeBackgroundRepo) FindByID(ctx context.Context, bgID string) (*model.Background, error) {
	for _, b := range r.backgrounds {
		if b.ID == bgID {
			return b, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeBackgroundRepo) FindByCategory(ctx context.Context, category string) (*model.Background, error) {
	for _, b := range r.backgrounds {
		if b.Category == category {
			return b, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeBackgroundRepo) List(ctx context.Context) ([]*model.Background, error) {
	return r.backgrounds, nil
}

type fakeIntroRepo struct{ intros []*model.Intro }

func (r *fakeIntroRepo) Create(ctx context.Context, i *model.Intro) error {
	r.intros = append(r.intros, i)
	return nil
}

func (r *fakeIntroRepo) FindByID(ctx context.Context, introID string) (*model.Intro, error) {
	for _, i := range r.intros {
		if i.ID == introID {
			return i, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeIntroRepo) List(ctx context.Context) ([]*model.Intro, error) { return r.intros, nil }

type fakeOutroRepo struct{ outros []*model.Outro }

func (r *fakeOutroRepo) Create(ctx context.Context, o *model.Outro) error {
	r.outros = append(r.outros, o)
	return nil
}

func (r *fakeOutroRepo) FindByID(ctx context.Context, outroID string) (*model.Outro, error) {
	for _, o := range r.outros {
		if o.ID == outroID {
			return o, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeOutroRepo) List(ctx context.Context) ([]*model.Outro, error) { return r.outros, nil }

type fakeMusicRepo struct{ music []*model.Music }

func (r *fakeMusicRepo) Create(ctx context.Context, m *model.Music) error {
	r.music = append(r.music, m)
	return nil
}

func (r *fakeMusicRepo) FindByID(ctx context.Context, musicID string) (*model.Music, error) {
	for _, m := range r.music {
		if m.ID == musicID {
			return m, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeMusicRepo) List(ctx context.Context) ([]*model.Music, error) { return r.music, nil }

// fakeLLM 按序返回预置回答
type fakeLLM struct {
	mu      sync.Mutex
	answers []string
	errs    []error
	calls   int
	prompts []string
}

func (p *fakeLLM) Generate(ctx context.Context, prompt string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, prompt)
	idx := p.calls
	p.calls++
	if idx < len(p.errs) && p.errs[idx] != nil {
		return "", p.errs[idx]
	}
	if idx < len(p.answers) {
		return p.answers[idx], nil
	}
	if len(p.answers) > 0 {
		return p.answers[len(p.answers)-1], nil
	}
	return "", fmt.Errorf("no answer configured")
}

// fakeSynth 不做真实合成，只数调用次数
type fakeSynth struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *fakeSynth) Synthesize(ctx context.Context, text, savePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.err
}

type fakeTTSPicker struct{ synth *fakeSynth }

func (p *fakeTTSPicker) ForVoice(provider, voiceID string) (tts.Synthesizer, error) {
	return p.synth, nil
}

// fakeImageProvider 返回固定路径或预置错误
type fakeImageProvider struct {
	mu    sync.Mutex
	calls int
	errs  []error
}

func (p *fakeImageProvider) Fetch(ctx context.Context, req imagesource.Request) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := p.calls
	p.calls++
	if idx < len(p.errs) && p.errs[idx] != nil {
		return "", p.errs[idx]
	}
	return filepath.Join(req.Dir, "images", id.NewHex()+".png"), nil
}

type fakeImagePicker struct{ provider *fakeImageProvider }

func (p *fakeImagePicker) Provider(mode, name string) (imagesource.Provider, error) {
	return p.provider, nil
}

// fakeComposer 记录调用并落占位文件，顶替真实 FFmpeg
type fakeComposer struct {
	mu          sync.Mutex
	calls       []string
	hasAudio    map[string]bool    // 路径 → 是否带音轨
	durations   map[string]float64 // 路径 → 时长，缺省音频3秒、视频5秒
	concatParts []string           // 最近一次 ConcatVideosCompose 的输入
}

func newFakeComposer() *fakeComposer {
	return &fakeComposer{
		hasAudio:  map[string]bool{},
		durations: map[string]float64{},
	}
}

func (f *fakeComposer) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeComposer) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func touchFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte("stub"), 0o644)
}

func (f *fakeComposer) GetVideoInfo(ctx context.Context, videoPath string) (*ffmpeg.VideoInfo, error) {
	f.record("GetVideoInfo")
	f.mu.Lock()
	d := f.durations[videoPath]
	f.mu.Unlock()
	if d == 0 {
		d = 5
	}
	return &ffmpeg.VideoInfo{Width: 1920, Height: 1080, FPS: 24, Duration: d}, nil
}

func (f *fakeComposer) GetAudioInfo(ctx context.Context, audioPath string) (*ffmpeg.AudioInfo, error) {
	f.record("GetAudioInfo")
	if audioPath == "" {
		return nil, fmt.Errorf("ffprobe failed: no such file")
	}
	f.mu.Lock()
	d := f.durations[audioPath]
	f.mu.Unlock()
	if d == 0 {
		d = 3
	}
	return &ffmpeg.AudioInfo{Duration: d}, nil
}

func (f *fakeComposer) HasAudioStream(ctx context.Context, path string) (bool, error) {
	f.record("HasAudioStream")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasAudio[path], nil
}

func (f *fakeComposer) ExtractAudio(ctx context.Context, inputPath, outputPath string) error {
	f.record("ExtractAudio")
	return touchFile(outputPath)
}

func (f *fakeComposer) MixAudioTracks(ctx context.Context, firstPath, secondPath, outputPath string) error {
	f.record("MixAudioTracks")
	return touchFile(outputPath)
}

func (f *fakeComposer) CreateImageClip(ctx context.Context, imagePath, outputPath string, duration, fadeDuration float64, width, height, fps int) error {
	f.record("CreateImageClip")
	return touchFile(outputPath)
}

func (f *fakeComposer) TrimFadeVideo(ctx context.Context, inputPath, outputPath string, duration, fade float64, width, height, fps int) error {
	f.record("TrimFadeVideo")
	return touchFile(outputPath)
}

func (f *fakeComposer) BlackClip(ctx context.Context, outputPath string, duration float64, width, height, fps int) error {
	f.record("BlackClip")
	return touchFile(outputPath)
}

func (f *fakeComposer) ConcatAudio(ctx context.Context, audioPaths []string, outputPath string) error {
	f.record("ConcatAudio")
	return touchFile(outputPath)
}

func (f *fakeComposer) ConcatVideos(ctx context.Context, videoPaths []string, outputPath string) error {
	f.record("ConcatVideos")
	return touchFile(outputPath)
}

func (f *fakeComposer) ConcatVideosCompose(ctx context.Context, videoPaths []string, outputPath string, width, height, fps int) error {
	f.record("ConcatVideosCompose")
	f.mu.Lock()
	f.concatParts = append([]string(nil), videoPaths...)
	f.mu.Unlock()
	return touchFile(outputPath)
}

func (f *fakeComposer) Silence(ctx context.Context, outputPath string, duration float64) error {
	f.record("Silence")
	return touchFile(outputPath)
}

func (f *fakeComposer) SetAudio(ctx context.Context, videoPath, audioPath, outputPath string) error {
	f.record("SetAudio")
	return touchFile(outputPath)
}

func (f *fakeComposer) MixMusic(ctx context.Context, videoPath, musicPath, outputPath string, volume, fade, videoDuration float64) error {
	f.record("MixMusic")
	return touchFile(outputPath)
}

func (f *fakeComposer) OverlayVideo(ctx context.Context, basePath, overlayPath, outputPath string, width, height int, x, y string, start, end, fade float64) error {
	f.record("OverlayVideo")
	return touchFile(outputPath)
}

func (f *fakeComposer) OverlayChromaKey(ctx context.Context, basePath, overlayPath, outputPath, color string, similarity, scale float64, x, y string, fade, overlayDuration float64) error {
	f.record("OverlayChromaKey")
	return touchFile(outputPath)
}

func (f *fakeComposer) AddSubtitles(ctx context.Context, videoPath, assPath, outputPath string) error {
	f.record("AddSubtitles")
	return touchFile(outputPath)
}

func (f *fakeComposer) SplitAudioVideo(ctx context.Context, inputPath, videoOut, audioOut string) error {
	f.record("SplitAudioVideo")
	if err := touchFile(videoOut); err != nil {
		return err
	}
	return touchFile(audioOut)
}

func (f *fakeComposer) DrawText(ctx context.Context, inputPath, outputPath, text string, x, y, fontSize int) error {
	f.record("DrawText")
	return touchFile(outputPath)
}

// testEnv 测试用服务及其所有假依赖
type testEnv struct {
	svc        *service
	videoRepo  *fakeVideoRepo
	sceneRepo  *fakeSceneRepo
	imageRepo  *fakeSceneImageRepo
	tplRepo    *fakeTemplateRepo
	promptRepo *fakeUserPromptRepo
	voiceRepo  *fakeVoiceRepo
	avatarRepo *fakeAvatarRepo
	bgRepo     *fakeBackgroundRepo
	introRepo  *fakeIntroRepo
	outroRepo  *fakeOutroRepo
	musicRepo  *fakeMusicRepo
	llm        *fakeLLM
	synth      *fakeSynth
	images     *fakeImageProvider
	composer   *fakeComposer
}

func newTestEnv(mediaRoot string) *testEnv {
	env := &testEnv{
		videoRepo:  newFakeVideoRepo(),
		sceneRepo:  &fakeSceneRepo{},
		imageRepo:  &fakeSceneImageRepo{},
		tplRepo:    &fakeTemplateRepo{},
		promptRepo: newFakeUserPromptRepo(),
		voiceRepo:  &fakeVoiceRepo{},
		avatarRepo: &fakeAvatarRepo{},
		bgRepo:     &fakeBackgroundRepo{},
		introRepo:  &fakeIntroRepo{},
		outroRepo:  &fakeOutroRepo{},
		musicRepo:  &fakeMusicRepo{},
		llm:        &fakeLLM{},
		synth:      &fakeSynth{},
		images:     &fakeImageProvider{},
		composer:   newFakeComposer(),
	}
	cfg := &config.Config{}
	cfg.Media.Root = mediaRoot
	cfg.Media.OutputWidth = 1920
	cfg.Media.OutputHeight = 1080
	cfg.Media.FPS = 24

	env.svc = &service{
		cfg:            cfg,
		videoRepo:      env.videoRepo,
		sceneRepo:      env.sceneRepo,
		sceneImageRepo: env.imageRepo,
		templateRepo:   env.tplRepo,
		userPromptRepo: env.promptRepo,
		voiceRepo:      env.voiceRepo,
		avatarRepo:     env.avatarRepo,
		backgroundRepo: env.bgRepo,
		introRepo:      env.introRepo,
		outroRepo:      env.outroRepo,
		musicRepo:      env.musicRepo,
		llmProvider:    env.llm,
		ttsRegistry:    &fakeTTSPicker{synth: env.synth},
		images:         &fakeImagePicker{provider: env.images},
		ffmpeg:         env.composer,
	}
	return env
}
