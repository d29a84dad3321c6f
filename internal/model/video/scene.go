package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Scene 场景实体
// 说明：一个场景对应一段解说文本和一个已合成的音频文件，sequence 决定成片顺序
type Scene struct {
	ID        string     `bson:"id" json:"id"`                         // 场景ID（UUID）
	PromptID  string     `bson:"prompt_id" json:"prompt_id"`           // 关联的 UserPrompt ID
	File      string     `bson:"file" json:"file"`                     // 合成音频文件路径（.wav）
	Text      string     `bson:"text" json:"text"`                     // 解说文本
	IsLast    bool       `bson:"is_last" json:"is_last"`               // 是否为所属脚本场景的最后一句
	Sequence  int        `bson:"sequence" json:"sequence"`             // 场景序号（从1开始）
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (s *Scene) Collection() string {
	return "scenes"
}

// EnsureIndexes 创建和维护索引
func (s *Scene) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(s.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "prompt_id", Value: 1}, {Key: "sequence", Value: 1}},
			Options: options.Index().SetName("idx_prompt_sequence"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
