package ffmpeg

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestConcatComposeFilter(t *testing.T) {
	Convey("concat filter 构造测试", t, func() {
		Convey("全部输入有音轨时音轨取自各自输入", func() {
			filter := concatComposeFilter(3, []bool{true, true, true}, 1920, 1080, 24)

			So(filter, ShouldContainSubstring, "[v0][0:a][v1][1:a][v2][2:a]concat=n=3:v=1:a=1[v][a]")
		})

		Convey("无声输入的音轨取自追加的静音源", func() {
			// 输入0、2无声，静音源依次占用输入号3、4
			filter := concatComposeFilter(3, []bool{false, true, false}, 1920, 1080, 24)

			So(filter, ShouldContainSubstring, "[v0][3:a][v1][1:a][v2][4:a]concat=n=3:v=1:a=1[v][a]")
		})

		Convey("画面链对每个输入做统一缩放", func() {
			filter := concatComposeFilter(2, []bool{true, false}, 1280, 720, 30)

			So(filter, ShouldContainSubstring, "[0:v]scale=1280:720:force_original_aspect_ratio=decrease,pad=1280:720:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=30[v0];")
			So(filter, ShouldContainSubstring, "[1:v]scale=1280:720")
		})
	})
}
