package persistent

import (
	"fmt"

	"bloglist/storage"
	"bloglist/storage/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// postDocument is a post as stored in the posts collection. The version
// field is written for compatibility with existing data and never leaves
// this package.
type postDocument struct {
	Id      primitive.ObjectID  `bson:"_id,omitempty"`
	Title   string              `bson:"title"`
	Author  string              `bson:"author,omitempty"`
	Url     string              `bson:"url,omitempty"`
	Likes   *int                `bson:"likes,omitempty"`
	User    *primitive.ObjectID `bson:"user,omitempty"`
	Version int32               `bson:"__v"`
}

type populatedPostDocument struct {
	Post  postDocument  `bson:",inline"`
	Owner *userDocument `bson:"owner,omitempty"`
}

type userDocument struct {
	Id           primitive.ObjectID   `bson:"_id,omitempty"`
	Username     string               `bson:"username"`
	Name         string               `bson:"name,omitempty"`
	PasswordHash string               `bson:"passwordHash"`
	Posts        []primitive.ObjectID `bson:"posts"`
	Version      int32                `bson:"__v"`
}

type populatedUserDocument struct {
	User     userDocument   `bson:",inline"`
	PostDocs []postDocument `bson:"postDocs"`
}

func objectIdFromHex(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("malformatted id %q: %w", id, storage.NotFoundError)
	}
	return oid, nil
}

func postFromModel(p models.Post) (postDocument, error) {
	doc := postDocument{
		Title:  p.Title,
		Author: p.Author,
		Url:    p.Url,
		Likes:  p.Likes,
	}
	if p.UserId != "" {
		userId, err := primitive.ObjectIDFromHex(p.UserId)
		if err != nil {
			return postDocument{}, fmt.Errorf("malformatted user id %q: %w", p.UserId, storage.ClientError)
		}
		doc.User = &userId
	}
	return doc, nil
}

func (d *postDocument) toModel() models.Post {
	p := models.Post{
		Id:     d.Id.Hex(),
		Title:  d.Title,
		Author: d.Author,
		Url:    d.Url,
		Likes:  d.Likes,
	}
	if d.User != nil {
		p.UserId = d.User.Hex()
	}
	return p
}

func (d *populatedPostDocument) toModel() models.PopulatedPost {
	p := models.PopulatedPost{
		Id:     d.Post.Id.Hex(),
		Title:  d.Post.Title,
		Author: d.Post.Author,
		Url:    d.Post.Url,
		Likes:  d.Post.Likes,
	}
	if d.Owner != nil {
		p.User = &models.PostOwner{Username: d.Owner.Username, Name: d.Owner.Name}
	}
	return p
}

func userFromModel(u models.User) userDocument {
	doc := userDocument{
		Username:     u.Username,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Posts:        make([]primitive.ObjectID, 0, len(u.PostIds)),
	}
	for _, id := range u.PostIds {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			doc.Posts = append(doc.Posts, oid)
		}
	}
	return doc
}

func (d *userDocument) toModel() models.User {
	u := models.User{
		Id:           d.Id.Hex(),
		Username:     d.Username,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		PostIds:      make([]string, 0, len(d.Posts)),
	}
	for _, id := range d.Posts {
		u.PostIds = append(u.PostIds, id.Hex())
	}
	return u
}

// toModel keeps the user's own post order; $lookup does not guarantee it.
func (d *populatedUserDocument) toModel() models.PopulatedUser {
	byId := make(map[primitive.ObjectID]postDocument, len(d.PostDocs))
	for _, p := range d.PostDocs {
		byId[p.Id] = p
	}
	u := models.PopulatedUser{
		Id:       d.User.Id.Hex(),
		Username: d.User.Username,
		Name:     d.User.Name,
		Posts:    make([]models.UserPost, 0, len(d.User.Posts)),
	}
	for _, id := range d.User.Posts {
		p, found := byId[id]
		if !found {
			continue
		}
		u.Posts = append(u.Posts, models.UserPost{
			Id:     p.Id.Hex(),
			Title:  p.Title,
			Author: p.Author,
			Url:    p.Url,
			Likes:  p.Likes,
		})
	}
	return u
}
