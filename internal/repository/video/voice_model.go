package video

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kostas2370/Video-Creator/internal/model/video"
)

// VoiceModelRepository 语音模型仓库接口
type VoiceModelRepository interface {
	Create(ctx context.Context, vm *video.VoiceModel) error
	FindByID(ctx context.Context, id string) (*video.VoiceModel, error)
	FindRandom(ctx context.Context) (*video.VoiceModel, error)
	List(ctx context.Context) ([]*video.VoiceModel, error)
	ExistsByVoiceID(ctx context.Context, provider, voiceID string) (bool, error)
}

// VoiceModelRepo 语音模型仓库实现
type VoiceModelRepo struct {
	coll *mongo.Collection
}

// NewVoiceModelRepo 创建语音模型仓库
func NewVoiceModelRepo(db *mongo.Database) *VoiceModelRepo {
	var v video.VoiceModel
	return &VoiceModelRepo{coll: db.Collection(v.Collection())}
}

// Create 创建语音模型
func (r *VoiceModelRepo) Create(ctx context.Context, vm *video.VoiceModel) error {
	now := time.Now()
	vm.CreatedAt = now
	vm.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, vm)
	return err
}

// FindByID 根据ID查询语音模型
func (r *VoiceModelRepo) FindByID(ctx context.Context, id string) (*video.VoiceModel, error) {
	var vm video.VoiceModel
	if err := r.coll.FindOne(ctx, bson.M{"id": id, "deleted_at": nil}).Decode(&vm); err != nil {
		return nil, err
	}
	return &vm, nil
}

// FindRandom 随机取一个语音模型（未指定音色时使用）
func (r *VoiceModelRepo) FindRandom(ctx context.Context) (*video.VoiceModel, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"deleted_at": nil}}},
		{{Key: "$sample", Value: bson.M{"size": 1}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var vms []*video.VoiceModel
	if err := cur.All(ctx, &vms); err != nil {
		return nil, err
	}
	if len(vms) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return vms[0], nil
}

// List 查询全部语音模型
func (r *VoiceModelRepo) List(ctx context.Context) ([]*video.VoiceModel, error) {
	opts := options.Find().SetSort(bson.M{"created_at": 1})
	cur, err := r.coll.Find(ctx, bson.M{"deleted_at": nil}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var vms []*video.VoiceModel
	if err := cur.All(ctx, &vms); err != nil {
		return nil, err
	}
	return vms, nil
}

// ExistsByVoiceID 检查引擎音色是否已导入
func (r *VoiceModelRepo) ExistsByVoiceID(ctx context.Context, provider, voiceID string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"provider":   provider,
		"voice_id":   voiceID,
		"deleted_at": nil,
	})
	return n > 0, err
}
