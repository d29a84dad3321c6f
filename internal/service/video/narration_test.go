package video

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const validAnswer = `Here is your script:
{"title":"Test Video","scenes":[{"scene":[{"sentence":"Hello there.","image":"greeting"},{"sentence":"Goodbye.","image":"farewell"}]}]}`

func TestGenerateScenario(t *testing.T) {
	Convey("脚本生成重试测试", t, func() {
		ctx := context.Background()
		env := newTestEnv(t.TempDir())

		Convey("首次成功直接返回", func() {
			env.llm.answers = []string{validAnswer}

			sc, answer, fields, err := env.svc.generateScenario(ctx, "prompt")
			So(err, ShouldBeNil)
			So(sc.Title, ShouldEqual, "Test Video")
			So(answer, ShouldEqual, validAnswer)
			So(fields.GroupKey, ShouldEqual, "scene")
			So(fields.UnitKey, ShouldEqual, "sentence")
			So(env.llm.calls, ShouldEqual, 1)
		})

		Convey("解析失败后重试直到成功", func() {
			env.llm.answers = []string{"no json here", `{"title":"","scenes":[]}`, validAnswer}

			sc, _, _, err := env.svc.generateScenario(ctx, "prompt")
			So(err, ShouldBeNil)
			So(sc.Title, ShouldEqual, "Test Video")
			So(env.llm.calls, ShouldEqual, 3)
		})

		Convey("重试次数用尽返回 ErrGenerationExhausted", func() {
			env.llm.answers = []string{"garbage", "garbage", "garbage", "garbage", "garbage"}

			_, _, _, err := env.svc.generateScenario(ctx, "prompt")
			So(errors.Is(err, ErrGenerationExhausted), ShouldBeTrue)
			So(env.llm.calls, ShouldEqual, maxGenerationAttempts)
		})

		Convey("鉴权类错误不消耗重试直接中止", func() {
			env.llm.errs = []error{errors.New("request failed: status 401 unauthorized")}

			_, _, _, err := env.svc.generateScenario(ctx, "prompt")
			So(errors.Is(err, ErrProviderFailure), ShouldBeTrue)
			So(env.llm.calls, ShouldEqual, 1)
		})

		Convey("瞬时调用错误消耗重试", func() {
			env.llm.errs = []error{errors.New("connection reset"), nil}
			env.llm.answers = []string{"", validAnswer}

			sc, _, _, err := env.svc.generateScenario(ctx, "prompt")
			So(err, ShouldBeNil)
			So(sc.Title, ShouldEqual, "Test Video")
			So(env.llm.calls, ShouldEqual, 2)
		})
	})
}
