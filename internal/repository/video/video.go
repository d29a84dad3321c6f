package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kostas2370/Video-Creator/internal/model/video"
)

// VideoRepository 视频仓库接口
type VideoRepository interface {
	Create(ctx context.Context, v *video.Video) error
	FindByID(ctx context.Context, id string) (*video.Video, error)
	FindByPromptID(ctx context.Context, promptID string) (*video.Video, error)
	List(ctx context.Context, videoType video.VideoType, limit, offset int64) ([]*video.Video, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	TransitionStatus(ctx context.Context, id string, from []video.VideoStatus, to video.VideoStatus) (*video.Video, error)
	Delete(ctx context.Context, id string) error
}

// VideoRepo 视频仓库实现
type VideoRepo struct {
	coll *mongo.Collection
}

// NewVideoRepo 创建视频仓库
func NewVideoRepo(db *mongo.Database) *VideoRepo {
	var v video.Video
	return &VideoRepo{coll: db.Collection(v.Collection())}
}

// Create 创建视频
func (r *VideoRepo) Create(ctx context.Context, v *video.Video) error {
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now
	if v.Status == "" {
		v.Status = video.VideoStatusGeneration
	}
	if v.VideoType == "" {
		v.VideoType = video.VideoTypeAI
	}
	if v.Mode == "" {
		v.Mode = video.ImageModeWeb
	}
	_, err := r.coll.InsertOne(ctx, v)
	return err
}

// FindByID 根据ID查询视频
func (r *VideoRepo) FindByID(ctx context.Context, id string) (*video.Video, error) {
	var v video.Video
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// FindByPromptID 按提示词ID查询视频
func (r *VideoRepo) FindByPromptID(ctx context.Context, promptID string) (*video.Video, error) {
	var v video.Video
	if err := r.coll.FindOne(ctx, bson.M{"prompt_id": promptID, "deleted_at": nil}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// List 按类型分页查询视频（类型为空时查全部）
func (r *VideoRepo) List(ctx context.Context, videoType video.VideoType, limit, offset int64) ([]*video.Video, error) {
	filter := bson.M{"deleted_at": nil}
	if videoType != "" {
		filter["video_type"] = videoType
	}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(limit).
		SetSkip(offset)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var videos []*video.Video
	if err := cur.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// Update 更新视频
func (r *VideoRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": updates},
	)
	return err
}

// TransitionStatus 状态迁移（CAS）
// 仅当当前状态在 from 列表中时才迁移到 to，返回迁移后的实体；
// 当前状态不满足时返回 mongo.ErrNoDocuments
func (r *VideoRepo) TransitionStatus(ctx context.Context, id string, from []video.VideoStatus, to video.VideoStatus) (*video.Video, error) {
	filter := bson.M{
		"id":         id,
		"deleted_at": nil,
		"status":     bson.M{"$in": from},
	}
	update := bson.M{"$set": bson.M{
		"status":     to,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var v video.Video
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Delete 软删除视频
func (r *VideoRepo) Delete(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{
			"deleted_at": time.Now(),
			"updated_at": time.Now(),
		}},
	)
	return err
}
