package scenario

// Fields 场景结构字段名
// GroupKey 指向场景内的解说单元列表，UnitKey 指向单元内的文本字段；
// 单元为纯字符串时 UnitKey 为空
type Fields struct {
	GroupKey string
	UnitKey  string
}

// groupCandidates 解说单元列表的候选字段名，按优先级排列
var groupCandidates = []string{"scene", "sections", "dialogue", "sentences"}

// unitCandidates 单元文本的候选字段名，按优先级排列
var unitCandidates = []string{"sentence", "narration"}

// DetectFields 从首个场景推断脚本结构
// 模型对字段命名并不稳定，这里只检测一次并在整个流水线内复用
func DetectFields(scenes []Scene) (Fields, error) {
	if len(scenes) == 0 {
		return Fields{}, ErrUnknownShape
	}
	first := scenes[0]

	// dialogue 为整段字符串时场景本身就是解说单元，无需组字段
	if _, ok := first["dialogue"].(string); ok {
		return Fields{}, nil
	}

	var f Fields
	for _, key := range groupCandidates {
		if group, ok := first[key].([]any); ok && len(group) > 0 {
			f.GroupKey = key

			switch elem := group[0].(type) {
			case string:
				return f, nil
			case map[string]any:
				for _, unitKey := range unitCandidates {
					if _, ok := elem[unitKey].(string); ok {
						f.UnitKey = unitKey
						return f, nil
					}
				}
			}
			return Fields{}, ErrUnknownShape
		}
	}
	return Fields{}, ErrUnknownShape
}
