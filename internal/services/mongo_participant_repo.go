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

type MongoParticipantRepository struct {
	col *mongo.Collection
}

type mongoPhotoDoc struct {
	URL          string `bson:"url"`
	PublicID     string `bson:"publicId"`
	OriginalName string `bson:"originalName,omitempty"`
	Size         int64  `bson:"size,omitempty"`
	Format       string `bson:"format,omitempty"`
}

type mongoParticipantDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	Gender         string             `bson:"gender"`
	List           string             `bson:"list"`
	Name           string             `bson:"name"`
	Age            int                `bson:"age"`
	Status         string             `bson:"status"`
	Height         *int               `bson:"height,omitempty"`
	Location       string             `bson:"location,omitempty"`
	Community      string             `bson:"community,omitempty"`
	Religiosity    string             `bson:"religiosity,omitempty"`
	Service        string             `bson:"service,omitempty"`
	Occupation     string             `bson:"occupation,omitempty"`
	Education      string             `bson:"education,omitempty"`
	Personality    string             `bson:"personality,omitempty"`
	LookingFor     string             `bson:"lookingFor,omitempty"`
	AdditionalInfo string             `bson:"additionalInfo,omitempty"`
	ContactName    string             `bson:"contactName,omitempty"`
	Phone          string             `bson:"phone"`
	Photo          *mongoPhotoDoc     `bson:"photo,omitempty"`
	SubmittedAt    time.Time          `bson:"submittedAt"`
}

func NewMongoParticipantRepository(db *mongo.Database) *MongoParticipantRepository {
	return &MongoParticipantRepository{col: db.Collection(ParticipantsCollection)}
}

// EnsureIndexes creates the list and ordering indexes. Failures are returned
// for logging; the repository works without them.
func (r *MongoParticipantRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "gender", Value: 1}}},
		{Keys: bson.D{{Key: "list", Value: 1}}},
		{Keys: bson.D{{Key: "submittedAt", Value: -1}}},
	})
	return err
}

func (r *MongoParticipantRepository) Insert(ctx context.Context, p *models.Participant) error {
	doc, err := participantToDoc(p)
	if err != nil {
		return err
	}
	_, err = r.col.InsertOne(ctx, doc)
	return err
}

func (r *MongoParticipantRepository) ListByGender(ctx context.Context, gender string) ([]*models.Participant, error) {
	cur, err := r.col.Find(
		ctx,
		bson.M{"gender": gender},
		options.Find().SetSort(bson.D{{Key: "submittedAt", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make([]*models.Participant, 0)
	for cur.Next(ctx) {
		var doc mongoParticipantDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, docToParticipant(&doc))
	}
	return out, cur.Err()
}

func (r *MongoParticipantRepository) CountByGender(ctx context.Context, gender string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"gender": gender})
}

func (r *MongoParticipantRepository) Delete(ctx context.Context, id string) (*models.Participant, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var doc mongoParticipantDoc
	err = r.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return docToParticipant(&doc), nil
}

func participantToDoc(p *models.Participant) (*mongoParticipantDoc, error) {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return nil, ErrInvalidID
	}
	doc := &mongoParticipantDoc{
		ID:             oid,
		Gender:         p.Gender,
		List:           p.List,
		Name:           p.Name,
		Age:            p.Age,
		Status:         p.Status,
		Height:         p.Height,
		Location:       p.Location,
		Community:      p.Community,
		Religiosity:    p.Religiosity,
		Service:        p.Service,
		Occupation:     p.Occupation,
		Education:      p.Education,
		Personality:    p.Personality,
		LookingFor:     p.LookingFor,
		AdditionalInfo: p.AdditionalInfo,
		ContactName:    p.ContactName,
		Phone:          p.Phone,
		SubmittedAt:    p.SubmittedAt,
	}
	if p.Photo != nil {
		doc.Photo = &mongoPhotoDoc{
			URL:          p.Photo.URL,
			PublicID:     p.Photo.PublicID,
			OriginalName: p.Photo.OriginalName,
			Size:         p.Photo.Size,
			Format:       p.Photo.Format,
		}
	}
	return doc, nil
}

func docToParticipant(doc *mongoParticipantDoc) *models.Participant {
	p := &models.Participant{
		ID:             doc.ID.Hex(),
		Gender:         doc.Gender,
		List:           doc.List,
		Name:           doc.Name,
		Age:            doc.Age,
		Status:         doc.Status,
		Height:         doc.Height,
		Location:       doc.Location,
		Community:      doc.Community,
		Religiosity:    doc.Religiosity,
		Service:        doc.Service,
		Occupation:     doc.Occupation,
		Education:      doc.Education,
		Personality:    doc.Personality,
		LookingFor:     doc.LookingFor,
		AdditionalInfo: doc.AdditionalInfo,
		ContactName:    doc.ContactName,
		Phone:          doc.Phone,
		SubmittedAt:    doc.SubmittedAt.UTC(),
	}
	if doc.Photo != nil {
		p.Photo = &models.Photo{
			URL:          doc.Photo.URL,
			PublicID:     doc.Photo.PublicID,
			OriginalName: doc.Photo.OriginalName,
			Size:         doc.Photo.Size,
			Format:       doc.Photo.Format,
		}
	}
	return p
}
