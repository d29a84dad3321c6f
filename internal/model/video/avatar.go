package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Avatar 数字人形象实体
type Avatar struct {
	ID           string     `bson:"id" json:"id"`                                             // 数字人ID（UUID）
	Name         string     `bson:"name" json:"name"`                                         // 形象名称
	Gender       string     `bson:"gender" json:"gender"`                                     // 形象性别
	File         string     `bson:"file" json:"file"`                                         // 源图片路径
	VoiceModelID string     `bson:"voice_model_id,omitempty" json:"voice_model_id,omitempty"` // 默认音色
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (a *Avatar) Collection() string {
	return "avatars"
}

// EnsureIndexes 创建和维护索引
func (a *Avatar) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(a.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_name"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
