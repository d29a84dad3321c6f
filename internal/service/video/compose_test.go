package video

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	model "github.com/kostas2370/Video-Creator/internal/model/video"
)

func TestRenderClipAudio(t *testing.T) {
	Convey("渲染配音解析测试", t, func() {
		ctx := context.Background()
		env := newTestEnv(t.TempDir())

		// 一个 READY 视频，单场景，画面素材是视频
		seed := func(sceneFile string, withAudio, visualHasAudio bool) string {
			dir := t.TempDir()
			clipPath := filepath.Join(dir, "images", "clip.mp4")
			v := &model.Video{ID: "v1", PromptID: "p1", DirName: dir, Status: model.VideoStatusReady}
			env.videoRepo.videos[v.ID] = v
			env.sceneRepo.scenes = []*model.Scene{
				{ID: "s1", PromptID: "p1", Sequence: 1, Text: "clip one", File: sceneFile, IsLast: true},
			}
			env.imageRepo.images = []*model.SceneImage{
				{ID: "i1", SceneID: "s1", File: clipPath, WithAudio: withAudio},
			}
			env.composer.hasAudio[clipPath] = visualHasAudio
			return dir
		}

		Convey("场景配音缺失时使用素材内嵌音轨", func() {
			dir := seed("", true, true)

			v, err := env.svc.Render(ctx, "v1")
			So(err, ShouldBeNil)
			So(v.Status, ShouldEqual, model.VideoStatusCompleted)
			So(v.Output, ShouldEqual, filepath.Join(dir, "output_video.mp4"))
			So(env.composer.callCount("ExtractAudio"), ShouldEqual, 1)
			So(env.composer.callCount("MixAudioTracks"), ShouldEqual, 0)
		})

		Convey("场景配音与内嵌音轨并存时混音", func() {
			seed("voice.wav", true, true)

			v, err := env.svc.Render(ctx, "v1")
			So(err, ShouldBeNil)
			So(v.Status, ShouldEqual, model.VideoStatusCompleted)
			So(env.composer.callCount("ExtractAudio"), ShouldEqual, 1)
			So(env.composer.callCount("MixAudioTracks"), ShouldEqual, 1)
		})

		Convey("素材声明带声但实际无声时退回场景配音", func() {
			seed("voice.wav", true, false)

			v, err := env.svc.Render(ctx, "v1")
			So(err, ShouldBeNil)
			So(v.Status, ShouldEqual, model.VideoStatusCompleted)
			So(env.composer.callCount("ExtractAudio"), ShouldEqual, 0)
			So(env.composer.callCount("MixAudioTracks"), ShouldEqual, 0)
		})

		Convey("场景配音与内嵌音轨都没有时渲染失败", func() {
			seed("", true, false)

			_, err := env.svc.Render(ctx, "v1")
			So(errors.Is(err, ErrRenderFailed), ShouldBeTrue)

			stored, _ := env.videoRepo.FindByID(ctx, "v1")
			So(stored.Status, ShouldEqual, model.VideoStatusFailed)
			So(stored.Output, ShouldBeEmpty)
			So(stored.ErrorMessage, ShouldNotBeEmpty)
		})

		Convey("未声明带声的素材不做探测直接用场景配音", func() {
			seed("voice.wav", false, true)

			v, err := env.svc.Render(ctx, "v1")
			So(err, ShouldBeNil)
			So(v.Status, ShouldEqual, model.VideoStatusCompleted)
			So(env.composer.callCount("HasAudioStream"), ShouldEqual, 0)
			So(env.composer.callCount("ExtractAudio"), ShouldEqual, 0)
		})
	})
}

func TestRenderBumpers(t *testing.T) {
	Convey("片头片尾拼接测试", t, func() {
		ctx := context.Background()
		env := newTestEnv(t.TempDir())

		dir := t.TempDir()
		v := &model.Video{
			ID: "v1", PromptID: "p1", DirName: dir,
			Status:  model.VideoStatusReady,
			IntroID: "intro-1", OutroID: "outro-1",
		}
		env.videoRepo.videos[v.ID] = v
		env.sceneRepo.scenes = []*model.Scene{
			{ID: "s1", PromptID: "p1", Sequence: 1, Text: "one", File: "voice.wav", IsLast: true},
		}
		env.imageRepo.images = []*model.SceneImage{
			{ID: "i1", SceneID: "s1", File: filepath.Join(dir, "images", "pic.png")},
		}
		env.introRepo.intros = []*model.Intro{{ID: "intro-1", Name: "opener", File: "intro.mp4"}}
		env.outroRepo.outros = []*model.Outro{{ID: "outro-1", Name: "closer", File: "outro.mp4"}}

		Convey("成片按 片头/正片/片尾 顺序重编码拼接", func() {
			rendered, err := env.svc.Render(ctx, "v1")
			So(err, ShouldBeNil)
			So(rendered.Status, ShouldEqual, model.VideoStatusCompleted)

			So(env.composer.callCount("ConcatVideosCompose"), ShouldEqual, 1)
			So(env.composer.concatParts, ShouldHaveLength, 3)
			So(env.composer.concatParts[0], ShouldEqual, "intro.mp4")
			So(env.composer.concatParts[2], ShouldEqual, "outro.mp4")
		})

		Convey("只有片尾时正片在前", func() {
			v.IntroID = ""

			rendered, err := env.svc.Render(ctx, "v1")
			So(err, ShouldBeNil)
			So(rendered.Status, ShouldEqual, model.VideoStatusCompleted)

			So(env.composer.concatParts, ShouldHaveLength, 2)
			So(env.composer.concatParts[1], ShouldEqual, "outro.mp4")
		})
	})
}
