package persistent

import (
	"context"
	"errors"
	"fmt"
	"log"

	"bloglist/storage"
	"bloglist/storage/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	postsCollection = "posts"
	usersCollection = "users"
)

type MongoStorage struct {
	client *mongo.Client
	posts  *mongo.Collection
	users  *mongo.Collection
}

func closeCursor(ctx context.Context, cursor *mongo.Cursor) {
	err := cursor.Close(ctx)
	if err != nil {
		log.Printf("Cursor closing failed: %s", err.Error())
	}
}

func (s *MongoStorage) GetPosts(ctx context.Context) ([]models.PopulatedPost, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "user"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cursor, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %s, %w", err.Error(), storage.InternalError)
	}
	defer closeCursor(ctx, cursor)

	var docs []populatedPostDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode error: %s, %w", err.Error(), storage.InternalError)
	}
	posts := make([]models.PopulatedPost, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}

func (s *MongoStorage) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.posts.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %s, %w", err.Error(), storage.InternalError)
	}
	defer closeCursor(ctx, cursor)

	var docs []postDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode error: %s, %w", err.Error(), storage.InternalError)
	}
	posts := make([]models.Post, 0, len(docs))
	for i := range docs {
		posts = append(posts, docs[i].toModel())
	}
	return posts, nil
}

func (s *MongoStorage) GetPost(ctx context.Context, postId string) (*models.Post, error) {
	postMongoId, err := objectIdFromHex(postId)
	if err != nil {
		return nil, err
	}
	var result postDocument
	err = s.posts.FindOne(ctx, bson.M{"_id": postMongoId}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("no document with id %v: %w", postId, storage.NotFoundError)
		}
		return nil, fmt.Errorf("failed to find post: %s %w", err.Error(), storage.InternalError)
	}
	post := result.toModel()
	return &post, nil
}

func (s *MongoStorage) AddPost(ctx context.Context, post models.Post) (*models.Post, error) {
	if post.Title == "" {
		return nil, storage.NewValidationError("title", "title is required")
	}
	doc, err := postFromModel(post)
	if err != nil {
		return nil, err
	}
	id, err := s.posts.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert post: %s %w", err.Error(), storage.InternalError)
	}
	doc.Id = id.InsertedID.(primitive.ObjectID)
	created := doc.toModel()
	return &created, nil
}

func (s *MongoStorage) UpdatePost(ctx context.Context, postId string, title string, author *string) (*models.Post, error) {
	if title == "" {
		return nil, storage.NewValidationError("title", "title is required")
	}
	postMongoId, err := objectIdFromHex(postId)
	if err != nil {
		return nil, err
	}
	fields := bson.M{"title": title}
	if author != nil {
		fields["author"] = *author
	}
	update := bson.M{"$set": fields}
	upsert := false
	after := options.After
	opt := options.FindOneAndUpdateOptions{
		ReturnDocument: &after,
		Upsert:         &upsert,
	}

	var result postDocument
	err = s.posts.FindOneAndUpdate(ctx, bson.M{"_id": postMongoId}, update, &opt).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("no document with id %v: %w", postId, storage.NotFoundError)
		}
		return nil, fmt.Errorf("failed to update post: %s %w", err.Error(), storage.InternalError)
	}
	post := result.toModel()
	return &post, nil
}

func (s *MongoStorage) DeletePost(ctx context.Context, postId string) (bool, error) {
	postMongoId, err := objectIdFromHex(postId)
	if err != nil {
		// nothing with such an id can exist
		return false, nil
	}
	res, err := s.posts.DeleteOne(ctx, bson.M{"_id": postMongoId})
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %s %w", err.Error(), storage.InternalError)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoStorage) GetUsers(ctx context.Context) ([]models.PopulatedUser, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: postsCollection},
			{Key: "localField", Value: "posts"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "postDocs"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cursor, err := s.users.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %s, %w", err.Error(), storage.InternalError)
	}
	defer closeCursor(ctx, cursor)

	var docs []populatedUserDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode error: %s, %w", err.Error(), storage.InternalError)
	}
	users := make([]models.PopulatedUser, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toModel())
	}
	return users, nil
}

func (s *MongoStorage) findUser(ctx context.Context, filter bson.M, what string) (*models.User, error) {
	var result userDocument
	err := s.users.FindOne(ctx, filter).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("no user with %s: %w", what, storage.NotFoundError)
		}
		return nil, fmt.Errorf("failed to find user: %s %w", err.Error(), storage.InternalError)
	}
	user := result.toModel()
	return &user, nil
}

func (s *MongoStorage) GetUser(ctx context.Context, userId string) (*models.User, error) {
	userMongoId, err := objectIdFromHex(userId)
	if err != nil {
		return nil, err
	}
	return s.findUser(ctx, bson.M{"_id": userMongoId}, "id "+userId)
}

func (s *MongoStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"username": username}, "username "+username)
}

func (s *MongoStorage) AddUser(ctx context.Context, user models.User) (*models.User, error) {
	if user.Username == "" {
		return nil, storage.NewValidationError("username", "username is required")
	}
	doc := userFromModel(user)
	id, err := s.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("username %s is taken: %w", user.Username, storage.CollisionError)
		}
		return nil, fmt.Errorf("failed to insert user: %s %w", err.Error(), storage.InternalError)
	}
	doc.Id = id.InsertedID.(primitive.ObjectID)
	created := doc.toModel()
	return &created, nil
}

func (s *MongoStorage) AddPostToUser(ctx context.Context, userId string, postId string) error {
	userMongoId, err := objectIdFromHex(userId)
	if err != nil {
		return err
	}
	postMongoId, err := objectIdFromHex(postId)
	if err != nil {
		return err
	}
	res, err := s.users.UpdateOne(ctx,
		bson.M{"_id": userMongoId},
		bson.M{"$push": bson.M{"posts": postMongoId}},
	)
	if err != nil {
		return fmt.Errorf("failed to link post %s to user %s: %s %w", postId, userId, err.Error(), storage.InternalError)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("no user with id %v: %w", userId, storage.NotFoundError)
	}
	return nil
}

func (s *MongoStorage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func CreateMongoStorage(ctx context.Context, dbUrl, dbName string) (*MongoStorage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dbUrl))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	db := client.Database(dbName)
	posts := db.Collection(postsCollection)
	users := db.Collection(usersCollection)
	if err = ensurePostsIndexes(ctx, posts); err != nil {
		return nil, err
	}
	if err = ensureUsersIndexes(ctx, users); err != nil {
		return nil, err
	}

	return &MongoStorage{
		client: client,
		posts:  posts,
		users:  users,
	}, nil
}
