package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Video 视频实体
// 说明：一次生成任务对应一个 Video，场景通过 prompt_id 关联
type Video struct {
	ID           string      `bson:"id" json:"id"`                                             // 视频ID（UUID）
	Title        string      `bson:"title" json:"title"`                                       // 视频标题
	URL          string      `bson:"url,omitempty" json:"url,omitempty"`                       // 发布后的访问URL
	GPTAnswer    string      `bson:"gpt_answer,omitempty" json:"gpt_answer,omitempty"`         // 大模型原始回答（Twitch 模式存致谢信息）
	PromptID     string      `bson:"prompt_id" json:"prompt_id"`                               // 关联的 UserPrompt ID
	Output       string      `bson:"output,omitempty" json:"output,omitempty"`                 // 成片文件路径（仅 COMPLETED 时非空）
	DirName      string      `bson:"dir_name" json:"dir_name"`                                 // 工作目录
	MusicID      string      `bson:"music_id,omitempty" json:"music_id,omitempty"`             // 背景音乐ID（可选）
	Status       VideoStatus `bson:"status" json:"status"`                                     // 生命周期状态
	BackgroundID string      `bson:"background_id,omitempty" json:"background_id,omitempty"`   // 背景素材ID（可选）
	IntroID      string      `bson:"intro_id,omitempty" json:"intro_id,omitempty"`             // 片头ID（可选）
	OutroID      string      `bson:"outro_id,omitempty" json:"outro_id,omitempty"`             // 片尾ID（可选）
	AvatarID     string      `bson:"avatar_id,omitempty" json:"avatar_id,omitempty"`           // 数字人ID（可选）
	AvatarPos    string      `bson:"avatar_pos,omitempty" json:"avatar_pos,omitempty"`         // 数字人叠加位置，如 "1300,50"
	VoiceModelID string      `bson:"voice_model_id,omitempty" json:"voice_model_id,omitempty"` // 语音模型ID
	VideoType    VideoType   `bson:"video_type" json:"video_type"`                             // 视频类型（AI/TWITCH）
	Mode         ImageMode   `bson:"mode" json:"mode"`                                         // 配图模式（WEB/AI）
	Subtitles    bool        `bson:"subtitles" json:"subtitles"`                               // 渲染时是否烧录字幕
	ErrorMessage string      `bson:"error_message,omitempty" json:"error_message,omitempty"`   // 失败原因
	CreatedAt    time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at" json:"updated_at"`
	DeletedAt    *time.Time  `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Collection 返回集合名称
func (v *Video) Collection() string {
	return "videos"
}

// EnsureIndexes 创建和维护索引
func (v *Video) EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection(v.Collection())
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "prompt_id", Value: 1}},
			Options: options.Index().SetName("idx_prompt_id"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_status"),
		},
		{
			Keys:    bson.D{{Key: "video_type", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_type_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// Renderable 判断当前状态是否允许发起渲染
func (v *Video) Renderable() bool {
	return v.Status == VideoStatusReady || v.Status == VideoStatusCompleted
}
