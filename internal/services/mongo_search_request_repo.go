package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/weddingmatch/backend/internal/models"
)

type MongoSearchRequestRepository struct {
	col *mongo.Collection
}

type mongoTargetDescriptionDoc struct {
	Height          string `bson:"height,omitempty"`
	HairColor       string `bson:"hairColor,omitempty"`
	Clothing        string `bson:"clothing,omitempty"`
	SpecialFeatures string `bson:"specialFeatures,omitempty"`
}

type mongoSearcherDoc struct {
	Name    string `bson:"name"`
	Phone   string `bson:"phone"`
	AboutMe string `bson:"aboutMe,omitempty"`
}

type mongoSearchRequestDoc struct {
	ID                primitive.ObjectID        `bson:"_id"`
	TargetGender      string                    `bson:"targetGender"`
	Description       mongoTargetDescriptionDoc `bson:"description"`
	ConnectionToEvent string                    `bson:"connectionToEvent,omitempty"`
	Searcher          mongoSearcherDoc          `bson:"searcher"`
	SubmittedAt       time.Time                 `bson:"submittedAt"`
}

func NewMongoSearchRequestRepository(db *mongo.Database) *MongoSearchRequestRepository {
	return &MongoSearchRequestRepository{col: db.Collection(SearchRequestsCollection)}
}

func (r *MongoSearchRequestRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "targetGender", Value: 1}}},
		{Keys: bson.D{{Key: "submittedAt", Value: -1}}},
	})
	return err
}

func (r *MongoSearchRequestRepository) Insert(ctx context.Context, sr *models.SearchRequest) error {
	oid, err := primitive.ObjectIDFromHex(sr.ID)
	if err != nil {
		return ErrInvalidID
	}
	_, err = r.col.InsertOne(ctx, &mongoSearchRequestDoc{
		ID:           oid,
		TargetGender: sr.TargetGender,
		Description: mongoTargetDescriptionDoc{
			Height:          sr.Description.Height,
			HairColor:       sr.Description.HairColor,
			Clothing:        sr.Description.Clothing,
			SpecialFeatures: sr.Description.SpecialFeatures,
		},
		ConnectionToEvent: sr.ConnectionToEvent,
		Searcher: mongoSearcherDoc{
			Name:    sr.Searcher.Name,
			Phone:   sr.Searcher.Phone,
			AboutMe: sr.Searcher.AboutMe,
		},
		SubmittedAt: sr.SubmittedAt,
	})
	return err
}

func (r *MongoSearchRequestRepository) ListAll(ctx context.Context) ([]*models.SearchRequest, error) {
	cur, err := r.col.Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.SearchRequest, 0)
	for cur.Next(ctx) {
		var doc mongoSearchRequestDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, docToSearchRequest(&doc))
	}
	return out, cur.Err()
}

func (r *MongoSearchRequestRepository) Delete(ctx context.Context, id string) (*models.SearchRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var doc mongoSearchRequestDoc
	err = r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return docToSearchRequest(&doc), nil
}

func docToSearchRequest(doc *mongoSearchRequestDoc) *models.SearchRequest {
	return &models.SearchRequest{
		ID:           doc.ID.Hex(),
		TargetGender: doc.TargetGender,
		Description: models.TargetDescription{
			Height:          doc.Description.Height,
			HairColor:       doc.Description.HairColor,
			Clothing:        doc.Description.Clothing,
			SpecialFeatures: doc.Description.SpecialFeatures,
		},
		ConnectionToEvent: doc.ConnectionToEvent,
		Searcher: models.Searcher{
			Name:    doc.Searcher.Name,
			Phone:   doc.Searcher.Phone,
			AboutMe: doc.Searcher.AboutMe,
		},
		SubmittedAt: doc.SubmittedAt.UTC(),
	}
}
