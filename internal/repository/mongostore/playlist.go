package mongostore

import (
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type playlistRepository struct {
	coll *mongo.Collection
}

func (r *playlistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	owner, err := objectID(playlist.UserID)
	if err != nil {
		return err
	}
	ts := now()
	doc := playlistDoc{
		Name:        playlist.Name,
		Description: playlist.Description,
		User:        owner,
		Videos:      []primitive.ObjectID{},
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return translate(err)
	}
	playlist.ID = res.InsertedID.(primitive.ObjectID).Hex()
	playlist.VideoRefs = []string{}
	playlist.CreatedAt = ts
	playlist.UpdatedAt = ts
	return nil
}

func (r *playlistRepository) FindByID(ctx context.Context, id string) (*model.Playlist, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc playlistDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	playlist := doc.toModel()
	return &playlist, nil
}

func (r *playlistRepository) ListByUser(ctx context.Context, userID string) ([]model.Playlist, error) {
	owner, err := objectID(userID)
	if err != nil {
		return []model.Playlist{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user": owner}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []playlistDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	playlists := make([]model.Playlist, 0, len(docs))
	for i := range docs {
		playlists = append(playlists, docs[i].toModel())
	}
	return playlists, nil
}

func (r *playlistRepository) Update(ctx context.Context, id string, name, description *string) (*model.Playlist, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": now()}
	if name != nil {
		set["name"] = *name
	}
	if description != nil {
		set["description"] = *description
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc playlistDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	playlist := doc.toModel()
	return &playlist, nil
}

func (r *playlistRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// AddVideo 过滤条件里带上 videos != ref，检查和追加在同一条update里完成，并发加同一个视频只会成功一次
func (r *playlistRepository) AddVideo(ctx context.Context, playlistID, videoRef string) (bool, error) {
	pid, err := objectID(playlistID)
	if err != nil {
		return false, err
	}
	vid, err := objectID(videoRef)
	if err != nil {
		return false, err
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": pid, "videos": bson.M{"$ne": vid}},
		bson.M{"$push": bson.M{"videos": vid}, "$set": bson.M{"updatedAt": now()}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount > 0 {
		return true, nil
	}
	// 没匹配上：要么歌单不存在，要么视频已经在里面
	if err := r.exists(ctx, pid); err != nil {
		return false, err
	}
	return false, nil
}

func (r *playlistRepository) RemoveVideo(ctx context.Context, playlistID, videoRef string) (bool, error) {
	pid, err := objectID(playlistID)
	if err != nil {
		return false, err
	}
	vid, err := primitive.ObjectIDFromHex(videoRef)
	if err != nil {
		return false, r.exists(ctx, pid)
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": pid, "videos": vid},
		bson.M{"$pull": bson.M{"videos": vid}, "$set": bson.M{"updatedAt": now()}},
	)
	if err != nil {
		return false, err
	}
	if res.ModifiedCount > 0 {
		return true, nil
	}
	return false, r.exists(ctx, pid)
}

func (r *playlistRepository) PullVideo(ctx context.Context, videoRef string) error {
	vid, err := primitive.ObjectIDFromHex(videoRef)
	if err != nil {
		return nil
	}
	_, err = r.coll.UpdateMany(ctx,
		bson.M{"videos": vid},
		bson.M{"$pull": bson.M{"videos": vid}, "$set": bson.M{"updatedAt": now()}},
	)
	return err
}

func (r *playlistRepository) DeleteByUser(ctx context.Context, userID string) error {
	owner, err := objectID(userID)
	if err != nil {
		return err
	}
	_, err = r.coll.DeleteMany(ctx, bson.M{"user": owner})
	return err
}

func (r *playlistRepository) exists(ctx context.Context, pid primitive.ObjectID) error {
	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": pid}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
