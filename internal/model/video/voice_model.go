package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VoiceModel 语音模型实体
// 说明：voice_id 是合成引擎内部的音色标识，type 决定走远程 API 还是本地引擎
type VoiceModel struct {
	ID        string     `bson:"id" json:"id"`                             // 语音模型ID（UUID）
	Name      string     `bson:"name" json:"name"`                         // 音色名称
	Gender    string     `bson:"gender" json:"gender"`                     // 音色性别
	Sample    string     `bson:"sample,omitempty" json:"sample,omitempty"` // 试听样本URL
	VoiceID   string     `bson:"voice_id" json:"voice_id"`                 // 引擎内音色标识
	Type      VoiceType  `bson:"type" json:"type"`                         // API / LOCAL
	Provider  string     `bson:"provider" json:"provider"`                 // elevenlabs / openai / volc / local
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (v *VoiceModel) Collection() string {
	return "voice_models"
}

// EnsureIndexes 创建和维护索引
func (v *VoiceModel) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(v.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "voice_id", Value: 1}},
			Options: options.Index().SetName("idx_provider_voice"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
