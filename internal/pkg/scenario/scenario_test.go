package scenario

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestExtractJSON(t *testing.T) {
	Convey("从回答中截取JSON", t, func() {
		Convey("裁掉JSON前后的闲聊文本", func() {
			answer := "Sure! Here is your script:\n{\"title\": \"t\", \"scenes\": []}\nHope you like it."
			raw, err := ExtractJSON(answer)
			So(err, ShouldBeNil)
			So(raw, ShouldEqual, `{"title": "t", "scenes": []}`)
		})

		Convey("纯JSON原样返回", func() {
			raw, err := ExtractJSON(`{"a":1}`)
			So(err, ShouldBeNil)
			So(raw, ShouldEqual, `{"a":1}`)
		})

		Convey("不含JSON时报错", func() {
			_, err := ExtractJSON("I cannot help with that.")
			So(err, ShouldEqual, ErrNoJSON)
		})

		Convey("嵌套对象取到最外层的右括号", func() {
			answer := `prefix {"title":"t","scenes":[{"scene":[{"sentence":"s"}]}]} suffix`
			raw, err := ExtractJSON(answer)
			So(err, ShouldBeNil)
			So(raw, ShouldEqual, `{"title":"t","scenes":[{"scene":[{"sentence":"s"}]}]}`)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("解析并校验脚本", t, func() {
		Convey("合法脚本", func() {
			sc, err := Parse(`{"title": "Go 简史", "scenes": [{"scene": [{"sentence": "hello", "image": "gopher"}]}]}`)
			So(err, ShouldBeNil)
			So(sc.Title, ShouldEqual, "Go 简史")
			So(len(sc.Scenes), ShouldEqual, 1)
		})

		Convey("缺少标题", func() {
			_, err := Parse(`{"scenes": [{"scene": []}]}`)
			So(err, ShouldNotBeNil)
		})

		Convey("场景为空", func() {
			_, err := Parse(`{"title": "t", "scenes": []}`)
			So(err, ShouldNotBeNil)
		})

		Convey("JSON残缺", func() {
			_, err := Parse(`{"title": "t", "scenes": [}`)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDetectFields(t *testing.T) {
	Convey("推断脚本结构", t, func() {
		Convey("scene + sentence 结构", func() {
			sc, err := Parse(`{"title":"t","scenes":[{"scene":[{"sentence":"a","image":"b"}]}]}`)
			So(err, ShouldBeNil)
			f, err := DetectFields(sc.Scenes)
			So(err, ShouldBeNil)
			So(f.GroupKey, ShouldEqual, "scene")
			So(f.UnitKey, ShouldEqual, "sentence")
		})

		Convey("sections + narration 结构", func() {
			sc, err := Parse(`{"title":"t","scenes":[{"sections":[{"narration":"a"}]}]}`)
			So(err, ShouldBeNil)
			f, err := DetectFields(sc.Scenes)
			So(err, ShouldBeNil)
			So(f.GroupKey, ShouldEqual, "sections")
			So(f.UnitKey, ShouldEqual, "narration")
		})

		Convey("dialogue 列表 + 纯字符串单元", func() {
			sc, err := Parse(`{"title":"t","scenes":[{"dialogue":["line one","line two"]}]}`)
			So(err, ShouldBeNil)
			f, err := DetectFields(sc.Scenes)
			So(err, ShouldBeNil)
			So(f.GroupKey, ShouldEqual, "dialogue")
			So(f.UnitKey, ShouldEqual, "")
		})

		Convey("dialogue 整段字符串结构", func() {
			sc, err := Parse(`{"title":"t","scenes":[{"dialogue":"full narration text","image":"q"}]}`)
			So(err, ShouldBeNil)
			f, err := DetectFields(sc.Scenes)
			So(err, ShouldBeNil)
			So(f.GroupKey, ShouldEqual, "")
			So(f.UnitKey, ShouldEqual, "")
		})

		Convey("sentences + sentence 结构", func() {
			sc, err := Parse(`{"title":"t","scenes":[{"sentences":[{"sentence":"a"}]}]}`)
			So(err, ShouldBeNil)
			f, err := DetectFields(sc.Scenes)
			So(err, ShouldBeNil)
			So(f.GroupKey, ShouldEqual, "sentences")
			So(f.UnitKey, ShouldEqual, "sentence")
		})

		Convey("scene 优先于 sentences", func() {
			sc, err := Parse(`{"title":"t","scenes":[{"scene":[{"sentence":"a"}],"sentences":[{"sentence":"b"}]}]}`)
			So(err, ShouldBeNil)
			f, err := DetectFields(sc.Scenes)
			So(err, ShouldBeNil)
			So(f.GroupKey, ShouldEqual, "scene")
		})

		Convey("无法识别的结构", func() {
			sc, err := Parse(`{"title":"t","scenes":[{"content":"plain text"}]}`)
			So(err, ShouldBeNil)
			_, err = DetectFields(sc.Scenes)
			So(err, ShouldEqual, ErrUnknownShape)
		})

		Convey("单元缺少已知文本字段", func() {
			sc, err := Parse(`{"title":"t","scenes":[{"scene":[{"speech":"a"}]}]}`)
			So(err, ShouldBeNil)
			_, err = DetectFields(sc.Scenes)
			So(err, ShouldEqual, ErrUnknownShape)
		})
	})
}

func TestSceneAccessors(t *testing.T) {
	Convey("场景访问器", t, func() {
		Convey("Units 提取文本与配图查询词", func() {
			sc, err := Parse(`{"title":"t","scenes":[{"scene":[{"sentence":"a","image":"q1"},{"sentence":"b"}]}]}`)
			So(err, ShouldBeNil)
			f, err := DetectFields(sc.Scenes)
			So(err, ShouldBeNil)

			units := sc.Scenes[0].Units(f)
			So(len(units), ShouldEqual, 2)
			So(units[0], ShouldResemble, Unit{Text: "a", Image: "q1"})
			So(units[1], ShouldResemble, Unit{Text: "b"})
		})

		Convey("Units 跳过空文本单元", func() {
			sc, err := Parse(`{"title":"t","scenes":[{"scene":[{"sentence":""},{"sentence":"b"}]}]}`)
			So(err, ShouldBeNil)
			f := Fields{GroupKey: "scene", UnitKey: "sentence"}

			units := sc.Scenes[0].Units(f)
			So(len(units), ShouldEqual, 1)
			So(units[0].Text, ShouldEqual, "b")
		})

		Convey("Dialogue 返回字符串字段", func() {
			sc, err := Parse(`{"title":"t","scenes":[{"dialogue":"full narration"}]}`)
			So(err, ShouldBeNil)
			So(sc.Scenes[0].Dialogue(Fields{}), ShouldEqual, "full narration")
		})

		Convey("Dialogue 拼接列表单元", func() {
			sc, err := Parse(`{"title":"t","scenes":[{"sections":[{"narration":"a"},{"narration":"b"}]}]}`)
			So(err, ShouldBeNil)
			f, err := DetectFields(sc.Scenes)
			So(err, ShouldBeNil)
			So(sc.Scenes[0].Dialogue(f), ShouldEqual, "a b")
		})
	})
}
