package video

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	model "github.com/kostas2370/Video-Creator/internal/model/video"
)

func seedVoice(env *testEnv) *model.VoiceModel {
	voice := &model.VoiceModel{ID: "voice-1", Name: "Alice", Provider: "elevenlabs", VoiceID: "abc", Type: model.VoiceTypeAPI}
	env.voiceRepo.voices = append(env.voiceRepo.voices, voice)
	return voice
}

func TestGenerateVideo(t *testing.T) {
	Convey("视频生成测试", t, func() {
		ctx := context.Background()
		env := newTestEnv(t.TempDir())
		seedVoice(env)
		env.llm.answers = []string{validAnswer}

		Convey("生成完成后状态为 READY，场景和配图按序落库", func() {
			v, err := env.svc.GenerateVideo(ctx, GenerateParams{Prompt: "a video about testing"})
			So(err, ShouldBeNil)
			So(v.Status, ShouldEqual, model.VideoStatusReady)
			So(v.Title, ShouldEqual, "Test Video")
			So(v.DirName, ShouldNotBeEmpty)
			So(v.VoiceModelID, ShouldEqual, "voice-1")

			scenes, err := env.sceneRepo.FindByPromptID(ctx, v.PromptID)
			So(err, ShouldBeNil)
			So(scenes, ShouldHaveLength, 2)
			So(scenes[0].Text, ShouldEqual, "Hello there.")
			So(scenes[0].Sequence, ShouldEqual, 1)
			So(scenes[0].IsLast, ShouldBeFalse)
			So(scenes[1].Text, ShouldEqual, "Goodbye.")
			So(scenes[1].IsLast, ShouldBeTrue)

			imgs, err := env.imageRepo.FindBySceneID(ctx, scenes[0].ID)
			So(err, ShouldBeNil)
			So(imgs, ShouldHaveLength, 1)
			So(imgs[0].Prompt, ShouldEqual, "greeting")
			So(imgs[0].File, ShouldNotBeEmpty)
		})

		Convey("单个场景取图失败只降级不失败", func() {
			env.images.errs = []error{errors.New("search quota exceeded")}

			v, err := env.svc.GenerateVideo(ctx, GenerateParams{Prompt: "a video about testing"})
			So(err, ShouldBeNil)
			So(v.Status, ShouldEqual, model.VideoStatusReady)

			scenes, _ := env.sceneRepo.FindByPromptID(ctx, v.PromptID)
			imgs, _ := env.imageRepo.FindBySceneID(ctx, scenes[0].ID)
			So(imgs, ShouldHaveLength, 1)
			So(imgs[0].File, ShouldBeEmpty)
			So(imgs[0].Prompt, ShouldEqual, "greeting")
		})

		Convey("语音合成失败整体中止，状态保持 GENERATION", func() {
			env.synth.err = errors.New("tts backend down")

			_, err := env.svc.GenerateVideo(ctx, GenerateParams{Prompt: "a video about testing"})
			So(errors.Is(err, ErrProviderFailure), ShouldBeTrue)

			videos, _ := env.videoRepo.List(ctx, "", 10, 0)
			So(videos, ShouldHaveLength, 1)
			So(videos[0].Status, ShouldEqual, model.VideoStatusGeneration)
			So(videos[0].ErrorMessage, ShouldNotBeEmpty)
		})

		Convey("指定数字人时跟随其音色", func() {
			voice2 := &model.VoiceModel{ID: "voice-2", Provider: "openai", VoiceID: "alloy", Type: model.VoiceTypeAPI}
			env.voiceRepo.voices = append(env.voiceRepo.voices, voice2)
			env.avatarRepo.avatars = append(env.avatarRepo.avatars,
				&model.Avatar{ID: "avatar-1", File: "face.png", VoiceModelID: "voice-2"})

			v, err := env.svc.GenerateVideo(ctx, GenerateParams{Prompt: "topic", AvatarID: "avatar-1"})
			So(err, ShouldBeNil)
			So(v.AvatarID, ShouldEqual, "avatar-1")
			So(v.VoiceModelID, ShouldEqual, "voice-2")
		})

		Convey("整段式模板沿用整段骨架，每个场景一条解说", func() {
			env.tplRepo.template = &model.TemplatePrompt{ID: "tpl-1", Category: model.TemplateCategoryStory, IsSentenced: false}
			env.llm.answers = []string{`{"title":"Story","scenes":[{"dialogue":"Once upon a time.","image":"castle"},{"dialogue":"The end.","image":"sunset"}]}`}

			v, err := env.svc.GenerateVideo(ctx, GenerateParams{Prompt: "a story", Template: "tpl-1"})
			So(err, ShouldBeNil)
			So(env.llm.prompts[0], ShouldContainSubstring, `"dialogue"`)

			scenes, _ := env.sceneRepo.FindByPromptID(ctx, v.PromptID)
			So(scenes, ShouldHaveLength, 2)
			So(scenes[0].Text, ShouldEqual, "Once upon a time.")
			So(scenes[0].IsLast, ShouldBeTrue)
			So(scenes[1].Text, ShouldEqual, "The end.")
		})

		Convey("random 哨兵随机选数字人并跟随其音色", func() {
			voice2 := &model.VoiceModel{ID: "voice-2", Provider: "openai", VoiceID: "alloy", Type: model.VoiceTypeAPI}
			env.voiceRepo.voices = append(env.voiceRepo.voices, voice2)
			env.avatarRepo.avatars = append(env.avatarRepo.avatars,
				&model.Avatar{ID: "avatar-1", File: "face.png", VoiceModelID: "voice-2"})

			v, err := env.svc.GenerateVideo(ctx, GenerateParams{Prompt: "topic", AvatarID: avatarRandom})
			So(err, ShouldBeNil)
			So(v.AvatarID, ShouldEqual, "avatar-1")
			So(v.VoiceModelID, ShouldEqual, "voice-2")
		})

		Convey("引用素材不存在时生成前置失败，不留半成品记录", func() {
			_, err := env.svc.GenerateVideo(ctx, GenerateParams{Prompt: "topic", MusicID: "missing"})
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(env.llm.calls, ShouldEqual, 0)
			So(env.promptRepo.prompts, ShouldBeEmpty)

			videos, _ := env.videoRepo.List(ctx, "", 10, 0)
			So(videos, ShouldBeEmpty)
		})

		Convey("空提示词直接报错", func() {
			_, err := env.svc.GenerateVideo(ctx, GenerateParams{Prompt: "  "})
			So(err, ShouldNotBeNil)
			So(env.llm.calls, ShouldEqual, 0)
		})
	})
}

func TestRenderGuard(t *testing.T) {
	Convey("渲染状态闸门测试", t, func() {
		ctx := context.Background()
		env := newTestEnv(t.TempDir())

		seed := func(status model.VideoStatus) *model.Video {
			v := &model.Video{ID: "v1", PromptID: "p1", DirName: t.TempDir(), Status: status}
			env.videoRepo.videos[v.ID] = v
			return v
		}

		Convey("GENERATION 状态拒绝渲染且无副作用", func() {
			seed(model.VideoStatusGeneration)

			_, err := env.svc.Render(ctx, "v1")
			So(errors.Is(err, ErrNotRenderable), ShouldBeTrue)

			stored, _ := env.videoRepo.FindByID(ctx, "v1")
			So(stored.Status, ShouldEqual, model.VideoStatusGeneration)
			So(stored.Output, ShouldBeEmpty)
		})

		Convey("RENDERING 状态拒绝并发渲染", func() {
			seed(model.VideoStatusRendering)

			_, err := env.svc.Render(ctx, "v1")
			So(errors.Is(err, ErrNotRenderable), ShouldBeTrue)
		})

		Convey("不存在的视频返回 ErrNotFound", func() {
			_, err := env.svc.Render(ctx, "missing")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("READY 状态通过闸门进入 RENDERING，无场景时落 FAILED", func() {
			seed(model.VideoStatusReady)

			_, err := env.svc.Render(ctx, "v1")
			So(errors.Is(err, ErrRenderFailed), ShouldBeTrue)

			stored, _ := env.videoRepo.FindByID(ctx, "v1")
			So(stored.Status, ShouldEqual, model.VideoStatusFailed)
			So(stored.ErrorMessage, ShouldNotBeEmpty)
		})
	})
}

func TestUpdateVideo(t *testing.T) {
	Convey("视频属性更新测试", t, func() {
		ctx := context.Background()
		env := newTestEnv(t.TempDir())
		seedVoice(env)

		v := &model.Video{ID: "v1", PromptID: "p1", DirName: t.TempDir(), Status: model.VideoStatusReady, VoiceModelID: "voice-1"}
		env.videoRepo.videos[v.ID] = v
		env.sceneRepo.scenes = []*model.Scene{
			{ID: "s1", PromptID: "p1", Sequence: 1, Text: "one", File: "old1.wav"},
			{ID: "s2", PromptID: "p1", Sequence: 2, Text: "two", File: "old2.wav", IsLast: true},
		}

		Convey("标题和字幕开关直接更新", func() {
			on := true
			updated, err := env.svc.UpdateVideo(ctx, "v1", UpdateParams{Title: "New Title", Subtitles: &on})
			So(err, ShouldBeNil)
			So(updated.Title, ShouldEqual, "New Title")
			So(updated.Subtitles, ShouldBeTrue)

			stored, _ := env.videoRepo.FindByID(ctx, "v1")
			So(stored.Title, ShouldEqual, "New Title")
		})

		Convey("换音色不同的数字人时级联重新合成全部场景", func() {
			voice2 := &model.VoiceModel{ID: "voice-2", Provider: "openai", VoiceID: "alloy", Type: model.VoiceTypeAPI}
			env.voiceRepo.voices = append(env.voiceRepo.voices, voice2)
			env.avatarRepo.avatars = append(env.avatarRepo.avatars,
				&model.Avatar{ID: "avatar-1", File: "face.png", VoiceModelID: "voice-2"})

			updated, err := env.svc.UpdateVideo(ctx, "v1", UpdateParams{AvatarID: "avatar-1"})
			So(err, ShouldBeNil)
			So(updated.AvatarID, ShouldEqual, "avatar-1")
			So(updated.VoiceModelID, ShouldEqual, "voice-2")
			So(env.synth.calls, ShouldEqual, 2)

			scenes, _ := env.sceneRepo.FindByPromptID(ctx, "p1")
			So(scenes[0].File, ShouldNotEqual, "old1.wav")
			So(scenes[1].File, ShouldNotEqual, "old2.wav")
		})

		Convey("数字人音色相同时不级联", func() {
			env.avatarRepo.avatars = append(env.avatarRepo.avatars,
				&model.Avatar{ID: "avatar-2", File: "face.png", VoiceModelID: "voice-1"})

			updated, err := env.svc.UpdateVideo(ctx, "v1", UpdateParams{AvatarID: "avatar-2"})
			So(err, ShouldBeNil)
			So(updated.VoiceModelID, ShouldEqual, "voice-1")
			So(env.synth.calls, ShouldEqual, 0)
		})

		Convey("no_value 清空数字人引用", func() {
			v.AvatarID = "avatar-1"

			updated, err := env.svc.UpdateVideo(ctx, "v1", UpdateParams{AvatarID: noValue})
			So(err, ShouldBeNil)
			So(updated.AvatarID, ShouldBeEmpty)
		})

		Convey("引用不存在的素材返回 ErrNotFound", func() {
			_, err := env.svc.UpdateVideo(ctx, "v1", UpdateParams{IntroID: "missing"})
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestRegenerate(t *testing.T) {
	Convey("整体重新生成测试", t, func() {
		ctx := context.Background()
		env := newTestEnv(t.TempDir())
		seedVoice(env)

		v := &model.Video{
			ID: "v1", PromptID: "p1", DirName: t.TempDir(),
			Status: model.VideoStatusCompleted, Output: "/media/out.mp4",
			VoiceModelID: "voice-1",
		}
		env.videoRepo.videos[v.ID] = v
		env.sceneRepo.scenes = []*model.Scene{
			{ID: "s1", PromptID: "p1", Sequence: 1, Text: "one", File: "old1.wav"},
			{ID: "s2", PromptID: "p1", Sequence: 2, Text: "two", File: "old2.wav", IsLast: true},
		}
		env.imageRepo.images = []*model.SceneImage{
			{ID: "i1", SceneID: "s1", File: "old1.png", Prompt: "query one"},
		}

		Convey("场景结构不变，语音和配图都换新，状态回 READY", func() {
			updated, err := env.svc.Regenerate(ctx, "v1")
			So(err, ShouldBeNil)
			So(updated.Status, ShouldEqual, model.VideoStatusReady)
			So(updated.Output, ShouldBeEmpty)
			So(env.synth.calls, ShouldEqual, 2)

			scenes, _ := env.sceneRepo.FindByPromptID(ctx, "p1")
			So(scenes, ShouldHaveLength, 2)
			So(scenes[0].Text, ShouldEqual, "one")
			So(scenes[0].File, ShouldNotEqual, "old1.wav")

			imgs, _ := env.imageRepo.FindBySceneID(ctx, "s1")
			So(imgs[0].File, ShouldNotEqual, "old1.png")
			So(imgs[0].Prompt, ShouldEqual, "query one")
		})

		Convey("卡在 RENDERING 的视频可以通过重新生成恢复", func() {
			v.Status = model.VideoStatusRendering

			updated, err := env.svc.Regenerate(ctx, "v1")
			So(err, ShouldBeNil)
			So(updated.Status, ShouldEqual, model.VideoStatusReady)
		})

		Convey("GENERATION 状态拒绝重新生成", func() {
			v.Status = model.VideoStatusGeneration

			_, err := env.svc.Regenerate(ctx, "v1")
			So(errors.Is(err, ErrNotRenderable), ShouldBeTrue)
			So(env.synth.calls, ShouldEqual, 0)
		})
	})
}

func TestUpdateSceneText(t *testing.T) {
	Convey("场景文本编辑测试", t, func() {
		ctx := context.Background()
		env := newTestEnv(t.TempDir())
		seedVoice(env)

		v := &model.Video{ID: "v1", PromptID: "p1", DirName: t.TempDir(), Status: model.VideoStatusReady, VoiceModelID: "voice-1"}
		env.videoRepo.videos[v.ID] = v
		env.sceneRepo.scenes = []*model.Scene{
			{ID: "s1", PromptID: "p1", Sequence: 1, Text: "old narration", File: "old.wav"},
		}

		Convey("直接编辑替换文本并重新合成", func() {
			scene, err := env.svc.UpdateSceneText(ctx, "s1", "new narration")
			So(err, ShouldBeNil)
			So(scene.Text, ShouldEqual, "new narration")
			So(scene.File, ShouldNotEqual, "old.wav")
			So(env.synth.calls, ShouldEqual, 1)
		})

		Convey("大模型改写采用模型输出", func() {
			env.llm.answers = []string{"A rewritten narration."}

			scene, err := env.svc.GenerateSceneText(ctx, "s1", "make it shorter")
			So(err, ShouldBeNil)
			So(scene.Text, ShouldEqual, "A rewritten narration.")
			So(env.synth.calls, ShouldEqual, 1)
		})

		Convey("不存在的场景返回 ErrNotFound", func() {
			_, err := env.svc.UpdateSceneText(ctx, "missing", "text")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})
	})
}
