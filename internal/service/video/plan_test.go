package video

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	model "github.com/kostas2370/Video-Creator/internal/model/video"
)

func TestBuildPlan(t *testing.T) {
	Convey("合成计划构建测试", t, func() {
		v := &model.Video{ID: "v1", Subtitles: true}
		scenes := []*model.Scene{
			{ID: "s3", Sequence: 3, File: "a3.wav", Text: "third", IsLast: true},
			{ID: "s1", Sequence: 1, File: "a1.wav", Text: "first"},
			{ID: "s2", Sequence: 2, File: "a2.wav", Text: "second"},
		}
		images := map[string][]*model.SceneImage{
			"s1": {{ID: "i1", SceneID: "s1", File: "/media/img.png"}},
			"s2": {{ID: "i2", SceneID: "s2", File: "/media/clip.mp4", WithAudio: true}},
			"s3": {{ID: "i3", SceneID: "s3", File: ""}},
		}

		Convey("片段按场景序号排序", func() {
			plan := buildPlan(v, scenes, images, nil, "", "", "", "", 1920, 1080, 24)

			So(plan.Clips, ShouldHaveLength, 3)
			So(plan.Clips[0].SceneID, ShouldEqual, "s1")
			So(plan.Clips[1].SceneID, ShouldEqual, "s2")
			So(plan.Clips[2].SceneID, ShouldEqual, "s3")
		})

		Convey("末句场景追加两段静音", func() {
			plan := buildPlan(v, scenes, images, nil, "", "", "", "", 1920, 1080, 24)

			So(plan.Clips[0].TrailingSilence, ShouldEqual, 0)
			So(plan.Clips[1].TrailingSilence, ShouldEqual, 0)
			So(plan.Clips[2].TrailingSilence, ShouldEqual, 2)
		})

		Convey("素材按扩展名分类，缺图降级为占位", func() {
			plan := buildPlan(v, scenes, images, nil, "", "", "", "", 1920, 1080, 24)

			So(plan.Clips[0].Kind, ShouldEqual, VisualImage)
			So(plan.Clips[1].Kind, ShouldEqual, VisualVideo)
			So(plan.Clips[1].WithAudio, ShouldBeTrue)
			So(plan.Clips[2].Kind, ShouldEqual, VisualFiller)
			So(plan.Clips[2].Visual, ShouldBeEmpty)
		})

		Convey("没有配图记录的场景也降级为占位", func() {
			plan := buildPlan(v, scenes, map[string][]*model.SceneImage{}, nil, "", "", "", "", 1920, 1080, 24)

			for _, clip := range plan.Clips {
				So(clip.Kind, ShouldEqual, VisualFiller)
			}
		})

		Convey("配了背景时配图缩到 65%", func() {
			bg := &model.Background{ID: "b1", File: "bg.mp4", Color: "0,255,0", Through: 6}
			plan := buildPlan(v, scenes, images, bg, "", "", "", "", 1920, 1080, 24)

			w, h := plan.ClipSize()
			So(w, ShouldEqual, 1248)
			So(h, ShouldEqual, 702)
		})

		Convey("无背景时配图铺满成片", func() {
			plan := buildPlan(v, scenes, images, nil, "", "", "", "", 1920, 1080, 24)

			w, h := plan.ClipSize()
			So(w, ShouldEqual, 1920)
			So(h, ShouldEqual, 1080)
		})

		Convey("数字人位置依次取视频设置、背景设置、默认右上角", func() {
			bg := &model.Background{ID: "b1", AvatarPos: "100,200"}

			plan := buildPlan(v, scenes, images, bg, "", "", "", "", 1920, 1080, 24)
			So(plan.AvatarPos, ShouldEqual, "100,200")

			withPos := &model.Video{ID: "v1", AvatarPos: "50,60"}
			plan = buildPlan(withPos, scenes, images, bg, "", "", "", "", 1920, 1080, 24)
			So(plan.AvatarPos, ShouldEqual, "50,60")

			plan = buildPlan(v, scenes, images, nil, "", "", "", "", 1920, 1080, 24)
			So(plan.AvatarPos, ShouldEqual, defaultAvatarPos)
		})
	})
}

func TestBuildASS(t *testing.T) {
	Convey("字幕生成测试", t, func() {
		plan := &CompositionPlan{
			Width:  1920,
			Height: 1080,
			Clips: []PlannedClip{
				{SceneID: "s1", Text: "Hello there."},
				{SceneID: "s2", Text: "Goodbye."},
			},
		}

		content := buildASS(plan, []float64{3.5, 2.0})

		So(content, ShouldContainSubstring, "PlayResX: 1920")
		So(content, ShouldContainSubstring, "Hello there.")
		So(content, ShouldContainSubstring, "Goodbye.")
		So(content, ShouldContainSubstring, "\\pos(60,760)")
		So(content, ShouldContainSubstring, "\\fad(1000,1000)")
		// 第二条字幕从第一条结束时刻开始
		So(content, ShouldContainSubstring, "Dialogue: 0,0:00:00.00,0:00:03.50,")
		So(content, ShouldContainSubstring, "Dialogue: 0,0:00:03.50,0:00:05.50,")
	})
}

func TestSplitPos(t *testing.T) {
	tests := []struct {
		name  string
		pos   string
		wantX string
		wantY string
	}{
		{"正常位置", "860,60", "860", "60"},
		{"带空格", " 100 , 200 ", "100", "200"},
		{"缺少分量回退默认", "860", "10", "20"},
		{"空串回退默认", "", "10", "20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := splitPos(tt.pos, "10", "20")
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("splitPos(%q) = (%s, %s), want (%s, %s)", tt.pos, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestColorToHex(t *testing.T) {
	tests := []struct {
		name  string
		color string
		want  string
	}{
		{"绿色", "0,255,0", "00FF00"},
		{"白色", "255,255,255", "FFFFFF"},
		{"带空格", "16, 32, 48", "102030"},
		{"非法回退绿色", "abc", "00FF00"},
		{"越界回退绿色", "0,999,0", "00FF00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := colorToHex(tt.color); got != tt.want {
				t.Errorf("colorToHex(%q) = %s, want %s", tt.color, got, tt.want)
			}
		})
	}
}
