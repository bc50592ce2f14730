package persistent

import (
	"context"
	"errors"
	"testing"

	"bloglist/storage"
	"bloglist/storage/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var ctx = context.Background()

func mockStorage(mt *mtest.T) *MongoStorage {
	return &MongoStorage{client: mt.Client, posts: mt.Coll, users: mt.Coll}
}

func namespace(mt *mtest.T) string {
	return mt.DB.Name() + "." + mt.Coll.Name()
}

func TestMongoUsers(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("add user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user, err := mockStorage(mt).AddUser(ctx, models.User{Username: "root", PasswordHash: "hash"})
		require.NoError(mt, err)
		assert.NotEmpty(mt, user.Id)
		assert.Empty(mt, user.PostIds)
	})

	mt.Run("duplicate username", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: bloglist.users index: username_1",
		}))

		_, err := mockStorage(mt).AddUser(ctx, models.User{Username: "root", PasswordHash: "hash"})
		assert.True(mt, errors.Is(err, storage.CollisionError))
	})

	mt.Run("server failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{Code: 1, Message: "boom"}))

		_, err := mockStorage(mt).AddUser(ctx, models.User{Username: "root", PasswordHash: "hash"})
		assert.True(mt, errors.Is(err, storage.InternalError))
		assert.False(mt, errors.Is(err, storage.CollisionError))
	})

	mt.Run("empty username", func(mt *mtest.T) {
		_, err := mockStorage(mt).AddUser(ctx, models.User{PasswordHash: "hash"})
		assert.True(mt, errors.Is(err, storage.ClientError))
	})

	mt.Run("get user", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		postId := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "username", Value: "root"},
			{Key: "name", Value: "Superuser"},
			{Key: "passwordHash", Value: "hash"},
			{Key: "posts", Value: bson.A{postId}},
			{Key: "__v", Value: 0},
		}))

		user, err := mockStorage(mt).GetUser(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, "root", user.Username)
		assert.Equal(mt, []string{postId.Hex()}, user.PostIds)
	})

	mt.Run("missing user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := mockStorage(mt).GetUserByUsername(ctx, "nobody")
		assert.True(mt, errors.Is(err, storage.NotFoundError))

		_, err = mockStorage(mt).GetUser(ctx, "not-a-hex-id")
		assert.True(mt, errors.Is(err, storage.NotFoundError))
	})
}

func TestMongoAddPostToUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	userId, postId := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()

	mt.Run("linked", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		require.NoError(mt, mockStorage(mt).AddPostToUser(ctx, userId, postId))

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
	})

	mt.Run("no such user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := mockStorage(mt).AddPostToUser(ctx, userId, postId)
		assert.True(mt, errors.Is(err, storage.NotFoundError))
	})

	mt.Run("malformed ids", func(mt *mtest.T) {
		err := mockStorage(mt).AddPostToUser(ctx, "bad", postId)
		assert.True(mt, errors.Is(err, storage.NotFoundError))
		err = mockStorage(mt).AddPostToUser(ctx, userId, "bad")
		assert.True(mt, errors.Is(err, storage.NotFoundError))
		assert.Nil(mt, mt.GetStartedEvent())
	})
}

func TestMongoPosts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	defer mt.Close()

	mt.Run("get post", func(mt *mtest.T) {
		id, owner := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "Harry Potter"},
			{Key: "author", Value: "J. Rowling"},
			{Key: "likes", Value: 4},
			{Key: "user", Value: owner},
			{Key: "__v", Value: 0},
		}))

		post, err := mockStorage(mt).GetPost(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), post.Id)
		assert.Equal(mt, owner.Hex(), post.UserId)
		assert.Equal(mt, 4, post.LikeCount())
	})

	mt.Run("missing post", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := mockStorage(mt).GetPost(ctx, primitive.NewObjectID().Hex())
		assert.True(mt, errors.Is(err, storage.NotFoundError))
	})

	mt.Run("malformed post id", func(mt *mtest.T) {
		_, err := mockStorage(mt).GetPost(ctx, "does-not-exist")
		assert.True(mt, errors.Is(err, storage.NotFoundError))

		_, err = mockStorage(mt).UpdatePost(ctx, "does-not-exist", "title", nil)
		assert.True(mt, errors.Is(err, storage.NotFoundError))

		deleted, err := mockStorage(mt).DeletePost(ctx, "does-not-exist")
		require.NoError(mt, err)
		assert.False(mt, deleted)
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("add post", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		owner := primitive.NewObjectID().Hex()

		post, err := mockStorage(mt).AddPost(ctx, models.Post{Title: "Harry Potter", UserId: owner})
		require.NoError(mt, err)
		assert.NotEmpty(mt, post.Id)
		assert.Equal(mt, owner, post.UserId)

		_, err = mockStorage(mt).AddPost(ctx, models.Post{Author: "J. Rowling"})
		assert.True(mt, errors.Is(err, storage.ClientError))
	})

	mt.Run("update post", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "title", Value: "Updated Title"},
			{Key: "author", Value: "J. Rowling"},
			{Key: "__v", Value: 0},
		}}))

		post, err := mockStorage(mt).UpdatePost(ctx, id.Hex(), "Updated Title", nil)
		require.NoError(mt, err)
		assert.Equal(mt, "Updated Title", post.Title)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		set := started.Command.Lookup("update", "$set").Document()
		assert.Equal(mt, "Updated Title", set.Lookup("title").StringValue())
		_, err = set.LookupErr("author")
		assert.Error(mt, err, "omitted author must not be overwritten")
	})

	mt.Run("update missing post", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := mockStorage(mt).UpdatePost(ctx, primitive.NewObjectID().Hex(), "title", nil)
		assert.True(mt, errors.Is(err, storage.NotFoundError))
	})

	mt.Run("delete post", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)
		id := primitive.NewObjectID().Hex()

		deleted, err := mockStorage(mt).DeletePost(ctx, id)
		require.NoError(mt, err)
		assert.True(mt, deleted)

		deleted, err = mockStorage(mt).DeletePost(ctx, id)
		require.NoError(mt, err)
		assert.False(mt, deleted)
	})

	mt.Run("list posts with owner", func(mt *mtest.T) {
		id, owner := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: id},
				{Key: "title", Value: "Harry Potter"},
				{Key: "user", Value: owner},
				{Key: "__v", Value: 0},
				{Key: "owner", Value: bson.D{
					{Key: "_id", Value: owner},
					{Key: "username", Value: "root"},
					{Key: "name", Value: "Superuser"},
					{Key: "passwordHash", Value: "hash"},
					{Key: "posts", Value: bson.A{id}},
				}},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "title", Value: "Magagascar"},
				{Key: "__v", Value: 0},
			},
		))

		posts, err := mockStorage(mt).GetPosts(ctx)
		require.NoError(mt, err)
		require.Len(mt, posts, 2)
		assert.Equal(mt, &models.PostOwner{Username: "root", Name: "Superuser"}, posts[0].User)
		assert.Nil(mt, posts[1].User)
	})
}
