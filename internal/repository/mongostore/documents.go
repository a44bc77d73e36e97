package mongostore

import (
	"ClipHub/internal/model"
	"ClipHub/internal/repository"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	collUsers     = "users"
	collVideos    = "videos"
	collPlaylists = "playlists"
	collSearches  = "searchhistories"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *userDoc) toModel() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}

type videoDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	VideoID      string             `bson:"videoId"`
	Title        string             `bson:"title"`
	Description  string             `bson:"description,omitempty"`
	Thumbnail    string             `bson:"thumbnail,omitempty"`
	ChannelTitle string             `bson:"channelTitle,omitempty"`
	PublishedAt  string             `bson:"publishedAt,omitempty"`
	ViewCount    string             `bson:"viewCount,omitempty"`
	LikeCount    string             `bson:"likeCount,omitempty"`
	Duration     string             `bson:"duration,omitempty"`
	User         primitive.ObjectID `bson:"user"`
	CreatedAt    time.Time          `bson:"createdAt"`
}

func (d *videoDoc) toModel() model.Video {
	return model.Video{
		ID:           d.ID.Hex(),
		VideoID:      d.VideoID,
		Title:        d.Title,
		Description:  d.Description,
		Thumbnail:    d.Thumbnail,
		ChannelTitle: d.ChannelTitle,
		PublishedAt:  d.PublishedAt,
		ViewCount:    d.ViewCount,
		LikeCount:    d.LikeCount,
		Duration:     d.Duration,
		UserID:       d.User.Hex(),
		CreatedAt:    d.CreatedAt,
	}
}

type playlistDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Description string               `bson:"description,omitempty"`
	User        primitive.ObjectID   `bson:"user"`
	Videos      []primitive.ObjectID `bson:"videos"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

func (d *playlistDoc) toModel() model.Playlist {
	refs := make([]string, 0, len(d.Videos))
	for _, v := range d.Videos {
		refs = append(refs, v.Hex())
	}
	return model.Playlist{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		UserID:      d.User.Hex(),
		VideoRefs:   refs,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type searchHistoryDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Query     string             `bson:"query"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// objectID 非法的hex一律当作"不存在"处理，这样 /api/playlists/abc 会得到404而不是500
func objectID(hex string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid object id %q: %w", hex, repository.ErrNotFound)
	}
	return oid, nil
}
