package video

import (
	"sort"

	model "github.com/kostas2370/Video-Creator/internal/model/video"
	"github.com/kostas2370/Video-Creator/internal/pkg/fileutil"
)

// 合成参数
const (
	// trailingSilenceCount 末句场景追加的静音片段数
	trailingSilenceCount = 2
	// silenceSeconds 单个静音片段时长
	silenceSeconds = 0.5
	// sceneFadeFraction 场景画面淡入淡出占时长的比例
	sceneFadeFraction = 0.2
	// backgroundImageScale 配了背景时配图相对成片的缩放
	backgroundImageScale = 0.65
	// musicVolume 背景音乐音量
	musicVolume = 0.07
	// musicFadeSeconds 背景音乐淡入淡出时长
	musicFadeSeconds = 4.0
	// overallFadeSeconds 背景和数字人叠加层的整体淡入淡出时长
	overallFadeSeconds = 2.0
	// avatarScale 数字人叠加缩放
	avatarScale = 1.5
	// subtitleFontSize 字幕字号
	subtitleFontSize = 37
	// subtitleX / subtitleY 字幕位置
	subtitleX = 60
	subtitleY = 760
	// subtitleFadeMillis 字幕淡入淡出毫秒
	subtitleFadeMillis = 1000
	// defaultAvatarPos 数字人默认叠加位置（右上角）
	defaultAvatarPos = "1300,50"
)

// VisualKind 场景画面素材类型
type VisualKind int

const (
	VisualFiller VisualKind = iota // 无可用素材，黑屏占位
	VisualImage                    // 静态图片
	VisualVideo                    // 视频片段
)

// PlannedClip 合成计划中的一个场景片段
type PlannedClip struct {
	SceneID         string
	AudioFile       string
	Text            string
	TrailingSilence int        // 追加的静音片段数
	Visual          string     // 画面素材路径，占位时为空
	Kind            VisualKind // 画面素材类型
	WithAudio       bool       // 素材自带音轨
}

// CompositionPlan 渲染前构建的完整合成计划
// 纯数据结构，不触碰文件系统内容，只按扩展名分类素材
type CompositionPlan struct {
	Clips      []PlannedClip
	Background *model.Background
	MusicFile  string
	AvatarFile string // 数字人源图片，为空表示不叠加
	AvatarPos  string // "x,y"
	IntroFile  string
	OutroFile  string
	Subtitles  bool
	Width      int
	Height     int
	FPS        int
}

// ClipSize 场景片段的画面尺寸
// 配了背景时片段缩到背景的一角，否则铺满成片
func (p *CompositionPlan) ClipSize() (int, int) {
	if p.Background != nil {
		return int(float64(p.Width) * backgroundImageScale), int(float64(p.Height) * backgroundImageScale)
	}
	return p.Width, p.Height
}

// buildPlan 按场景顺序构建合成计划
// 每个场景取第一张配图；文件缺失或类型不支持时降级为占位片段
func buildPlan(v *model.Video, scenes []*model.Scene, imagesByScene map[string][]*model.SceneImage,
	background *model.Background, musicFile, avatarFile, introFile, outroFile string,
	width, height, fps int) *CompositionPlan {

	ordered := make([]*model.Scene, len(scenes))
	copy(ordered, scenes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Sequence < ordered[j].Sequence
	})

	plan := &CompositionPlan{
		Background: background,
		MusicFile:  musicFile,
		AvatarFile: avatarFile,
		AvatarPos:  v.AvatarPos,
		IntroFile:  introFile,
		OutroFile:  outroFile,
		Subtitles:  v.Subtitles,
		Width:      width,
		Height:     height,
		FPS:        fps,
	}
	if plan.AvatarPos == "" {
		if background != nil && background.AvatarPos != "" {
			plan.AvatarPos = background.AvatarPos
		} else {
			plan.AvatarPos = defaultAvatarPos
		}
	}

	for _, scene := range ordered {
		clip := PlannedClip{
			SceneID:   scene.ID,
			AudioFile: scene.File,
			Text:      scene.Text,
		}
		if scene.IsLast {
			clip.TrailingSilence = trailingSilenceCount
		}

		if imgs := imagesByScene[scene.ID]; len(imgs) > 0 {
			img := imgs[0]
			switch {
			case img.File == "":
				clip.Kind = VisualFiller
			case fileutil.IsImage(img.File):
				clip.Kind = VisualImage
				clip.Visual = img.File
			case fileutil.IsVideo(img.File):
				clip.Kind = VisualVideo
				clip.Visual = img.File
				clip.WithAudio = img.WithAudio
			default:
				clip.Kind = VisualFiller
			}
		}

		plan.Clips = append(plan.Clips, clip)
	}
	return plan
}
