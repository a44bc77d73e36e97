package mongostore

import (
	"ClipHub/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type videoRepository struct {
	coll *mongo.Collection
}

func (r *videoRepository) Create(ctx context.Context, video *model.Video) error {
	owner, err := objectID(video.UserID)
	if err != nil {
		return err
	}
	doc := videoDoc{
		VideoID:      video.VideoID,
		Title:        video.Title,
		Description:  video.Description,
		Thumbnail:    video.Thumbnail,
		ChannelTitle: video.ChannelTitle,
		PublishedAt:  video.PublishedAt,
		ViewCount:    video.ViewCount,
		LikeCount:    video.LikeCount,
		Duration:     video.Duration,
		User:         owner,
		CreatedAt:    now(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		// 唯一索引(videoId, user)兜底并发的重复收藏
		return translate(err)
	}
	video.ID = res.InsertedID.(primitive.ObjectID).Hex()
	video.CreatedAt = doc.CreatedAt
	return nil
}

func (r *videoRepository) FindOwned(ctx context.Context, userID, videoID string) (*model.Video, error) {
	owner, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"videoId": videoID, "user": owner}, nil)
}

func (r *videoRepository) FindAnyByVideoID(ctx context.Context, videoID string) (*model.Video, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	return r.findOne(ctx, bson.M{"videoId": videoID}, opts)
}

func (r *videoRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*model.Video, error) {
	var findOpts []*options.FindOneOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	var doc videoDoc
	if err := r.coll.FindOne(ctx, filter, findOpts...).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	video := doc.toModel()
	return &video, nil
}

func (r *videoRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Video, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []model.Video{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
}

func (r *videoRepository) ListByUser(ctx context.Context, userID string) ([]model.Video, error) {
	owner, err := objectID(userID)
	if err != nil {
		return []model.Video{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, bson.M{"user": owner}, opts)
}

func (r *videoRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.Video, error) {
	if opts == nil {
		opts = options.Find()
	}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []videoDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	videos := make([]model.Video, 0, len(docs))
	for i := range docs {
		videos = append(videos, docs[i].toModel())
	}
	return videos, nil
}

func (r *videoRepository) DeleteOwned(ctx context.Context, userID, videoID string) (*model.Video, error) {
	owner, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	var doc videoDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"videoId": videoID, "user": owner}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	video := doc.toModel()
	return &video, nil
}

func (r *videoRepository) DeleteByUser(ctx context.Context, userID string) error {
	owner, err := objectID(userID)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteMany(ctx, bson.M{"user": owner})
	return err
}
