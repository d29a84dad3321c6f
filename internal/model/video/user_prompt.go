package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserPrompt 用户提交的生成提示词
type UserPrompt struct {
	ID         string     `bson:"id" json:"id"`                                         // 提示词ID（UUID）
	TemplateID string     `bson:"template_id,omitempty" json:"template_id,omitempty"`   // 关联的模板ID（可选）
	Prompt     string     `bson:"prompt" json:"prompt"`                                 // 发送给大模型的完整提示词
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt  *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (p *UserPrompt) Collection() string {
	return "user_prompts"
}

// EnsureIndexes 创建和维护索引
func (p *UserPrompt) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(p.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "template_id", Value: 1}},
			Options: options.Index().SetName("idx_template_id"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
