package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/weddingmatch/backend/internal/models"
)

func participantBSON(id primitive.ObjectID, name string, submitted time.Time) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "gender", Value: "male"},
		{Key: "list", Value: models.ListMale},
		{Key: "name", Value: name},
		{Key: "age", Value: int32(31)},
		{Key: "status", Value: "single"},
		{Key: "phone", Value: "050-1234567"},
		{Key: "photo", Value: bson.D{
			{Key: "url", Value: "https://photos.test/a.jpg"},
			{Key: "publicId", Value: "photos/photo_a.jpg"},
		}},
		{Key: "submittedAt", Value: primitive.NewDateTimeFromTime(submitted)},
	}
}

func TestMongoParticipantRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ns := "wedding_match." + ParticipantsCollection

	mt.Run("insert", func(mt *mtest.T) {
		repo := &MongoParticipantRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		height := 180
		err := repo.Insert(ctx, &models.Participant{
			ID:          models.NewID(),
			Gender:      "male",
			List:        models.ListMale,
			Name:        "Dan",
			Age:         30,
			Status:      "single",
			Height:      &height,
			Phone:       "050-1234567",
			SubmittedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	})

	mt.Run("insert rejects malformed id", func(mt *mtest.T) {
		repo := &MongoParticipantRepository{col: mt.Coll}

		err := repo.Insert(ctx, &models.Participant{ID: "nope"})
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	mt.Run("list by gender", func(mt *mtest.T) {
		repo := &MongoParticipantRepository{col: mt.Coll}
		newer := time.Date(2024, 6, 1, 21, 0, 0, 0, time.UTC)
		older := newer.Add(-time.Hour)
		id1, id2 := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			participantBSON(id1, "Dan", newer),
			participantBSON(id2, "Avi", older),
		))

		list, err := repo.ListByGender(ctx, models.GenderMale)
		require.NoError(t, err)
		require.Len(t, list, 2)

		assert.Equal(t, id1.Hex(), list[0].ID)
		assert.Equal(t, "Dan", list[0].Name)
		assert.Equal(t, 31, list[0].Age)
		assert.True(t, newer.Equal(list[0].SubmittedAt))
		require.NotNil(t, list[0].Photo)
		assert.Equal(t, "photos/photo_a.jpg", list[0].Photo.PublicID)
		assert.Nil(t, list[0].Height)
		assert.Equal(t, "Avi", list[1].Name)
	})

	mt.Run("list empty", func(mt *mtest.T) {
		repo := &MongoParticipantRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		list, err := repo.ListByGender(ctx, models.GenderFemale)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	mt.Run("count by gender", func(mt *mtest.T) {
		repo := &MongoParticipantRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "n", Value: int32(7)}},
		))

		n, err := repo.CountByGender(ctx, models.GenderMale)
		require.NoError(t, err)
		assert.Equal(t, int64(7), n)
	})

	mt.Run("delete found", func(mt *mtest.T) {
		repo := &MongoParticipantRepository{col: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: participantBSON(id, "Dan", time.Now())},
		))

		p, err := repo.Delete(ctx, id.Hex())
		require.NoError(t, err)
		assert.Equal(t, id.Hex(), p.ID)
		assert.Equal(t, "Dan", p.Name)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := &MongoParticipantRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: nil},
		))

		_, err := repo.Delete(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	mt.Run("delete malformed id", func(mt *mtest.T) {
		repo := &MongoParticipantRepository{col: mt.Coll}

		_, err := repo.Delete(ctx, "12345")
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestMongoSearchRequestRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()
	ns := "wedding_match." + SearchRequestsCollection

	mt.Run("insert", func(mt *mtest.T) {
		repo := &MongoSearchRequestRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.Insert(ctx, &models.SearchRequest{
			ID:           models.NewID(),
			TargetGender: "female",
			Searcher:     models.Searcher{Name: "Avi", Phone: "054-1111111"},
			SubmittedAt:  time.Now().UTC(),
		})
		require.NoError(t, err)
	})

	mt.Run("list all", func(mt *mtest.T) {
		repo := &MongoSearchRequestRepository{col: mt.Coll}
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "targetGender", Value: "female"},
			{Key: "description", Value: bson.D{{Key: "hairColor", Value: "blond"}}},
			{Key: "searcher", Value: bson.D{{Key: "name", Value: "Avi"}, {Key: "phone", Value: "054-1111111"}}},
			{Key: "submittedAt", Value: primitive.NewDateTimeFromTime(time.Now())},
		}))

		list, err := repo.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, id.Hex(), list[0].ID)
		assert.Equal(t, "blond", list[0].Description.HairColor)
		assert.Equal(t, "Avi", list[0].Searcher.Name)
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := &MongoSearchRequestRepository{col: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Delete(ctx, primitive.NewObjectID().Hex())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
