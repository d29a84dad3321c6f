package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerateDirectory(t *testing.T) {
	Convey("创建工作目录", t, func() {
		root := t.TempDir()

		Convey("首次创建使用标题 slug", func() {
			dir, err := GenerateDirectory(root, "Hello World")
			So(err, ShouldBeNil)
			So(dir, ShouldEqual, filepath.Join(root, "hello-world"))

			info, err := os.Stat(filepath.Join(dir, "dialogues"))
			So(err, ShouldBeNil)
			So(info.IsDir(), ShouldBeTrue)

			info, err = os.Stat(filepath.Join(dir, "images"))
			So(err, ShouldBeNil)
			So(info.IsDir(), ShouldBeTrue)
		})

		Convey("重名时追加数字后缀", func() {
			first, err := GenerateDirectory(root, "My Video")
			So(err, ShouldBeNil)
			second, err := GenerateDirectory(root, "My Video")
			So(err, ShouldBeNil)
			third, err := GenerateDirectory(root, "My Video")
			So(err, ShouldBeNil)

			So(first, ShouldEqual, filepath.Join(root, "my-video"))
			So(second, ShouldEqual, filepath.Join(root, "my-video_1"))
			So(third, ShouldEqual, filepath.Join(root, "my-video_2"))
		})

		Convey("空标题回退到默认目录名", func() {
			dir, err := GenerateDirectory(root, "!!!")
			So(err, ShouldBeNil)
			So(dir, ShouldEqual, filepath.Join(root, "video"))
		})
	})
}

func TestMediaTypeChecks(t *testing.T) {
	tests := []struct {
		path    string
		isImage bool
		isVideo bool
		isAudio bool
	}{
		{"scene.PNG", true, false, false},
		{"clip.mp4", false, true, false},
		{"speech.wav", false, false, true},
		{"notes.txt", false, false, false},
	}

	for _, tt := range tests {
		if got := IsImage(tt.path); got != tt.isImage {
			t.Errorf("IsImage(%q) = %v, want %v", tt.path, got, tt.isImage)
		}
		if got := IsVideo(tt.path); got != tt.isVideo {
			t.Errorf("IsVideo(%q) = %v, want %v", tt.path, got, tt.isVideo)
		}
		if got := IsAudio(tt.path); got != tt.isAudio {
			t.Errorf("IsAudio(%q) = %v, want %v", tt.path, got, tt.isAudio)
		}
	}
}
