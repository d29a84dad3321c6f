package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidScenario 脚本缺少必要字段或结构不完整
	ErrInvalidScenario = errors.New("invalid scenario payload")
	// ErrUnknownShape 无法识别脚本的场景结构
	ErrUnknownShape = errors.New("unrecognized scenario shape")
	// ErrNoJSON 回答中不包含JSON对象
	ErrNoJSON = errors.New("no json object in answer")
)

// Unit 最小解说单元：一段要合成语音的文本及其可选配图查询词
type Unit struct {
	Text  string
	Image string
}

// Scene 脚本中的一个场景（保留原始结构）
type Scene map[string]any

// Scenario 大模型生成的完整脚本
type Scenario struct {
	Title  string  `json:"title"`
	Scenes []Scene `json:"scenes"`
}

// ExtractJSON 从模型回答中截取JSON对象
// 取第一个 '{' 到最后一个 '}' 之间的内容，容忍回答前后的闲聊文本
func ExtractJSON(answer string) (string, error) {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSON
	}
	return answer[start : end+1], nil
}

// Parse 解析模型回答为脚本并做完整性校验
func Parse(answer string) (*Scenario, error) {
	raw, err := ExtractJSON(answer)
	if err != nil {
		return nil, err
	}

	var sc Scenario
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate 校验脚本完整性
func (sc *Scenario) Validate() error {
	if strings.TrimSpace(sc.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidScenario)
	}
	if len(sc.Scenes) == 0 {
		return fmt.Errorf("%w: empty scenes", ErrInvalidScenario)
	}
	return nil
}

// Dialogue 取场景的整段解说文本（非分句模板）
// dialogue 为字符串时直接返回，为列表时拼接各单元文本
func (s Scene) Dialogue(f Fields) string {
	if v, ok := s["dialogue"].(string); ok {
		return v
	}
	if f.GroupKey == "" {
		return ""
	}
	units := s.Units(f)
	parts := make([]string, 0, len(units))
	for _, u := range units {
		if u.Text != "" {
			parts = append(parts, u.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Units 按检测出的字段取场景的解说单元
func (s Scene) Units(f Fields) []Unit {
	group, ok := s[f.GroupKey].([]any)
	if !ok {
		return nil
	}

	units := make([]Unit, 0, len(group))
	for _, elem := range group {
		switch v := elem.(type) {
		case string:
			units = append(units, Unit{Text: v})
		case map[string]any:
			u := Unit{}
			if text, ok := v[f.UnitKey].(string); ok {
				u.Text = text
			}
			if img, ok := v["image"].(string); ok {
				u.Image = img
			}
			if u.Text != "" {
				units = append(units, u)
			}
		}
	}
	return units
}
