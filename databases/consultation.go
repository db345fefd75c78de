package databases

// go generate: mockery --name ConsultationDatabase

import (
	"context"

	"github.com/lexlink/lexlink-api/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const consultationName = "consultations"

// ConsultationDatabase contains the methods to use with the consultation database
type ConsultationDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Consultation, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Consultation, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type consultationDatabase struct {
	db DatabaseHelper
}

// NewConsultationDatabase initializes a new instance of consultation database with the provided db connection
func NewConsultationDatabase(db DatabaseHelper) ConsultationDatabase {
	return &consultationDatabase{
		db: db,
	}
}

func (c *consultationDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Consultation, error) {
	consultation := &models.Consultation{}
	err := c.db.Collection(consultationName).FindOne(ctx, filter, opts...).Decode(&consultation)
	if err != nil {
		return nil, err
	}
	return consultation, nil
}

func (c *consultationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Consultation, error) {
	var consultations []models.Consultation
	curr, err := c.db.Collection(consultationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &consultations)
	if err != nil {
		return nil, err
	}
	return consultations, nil
}

func (c *consultationDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(consultationName).CountDocuments(ctx, filter, opts...)
}

func (c *consultationDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return c.db.Collection(consultationName).InsertOne(ctx, document, opts...)
}

func (c *consultationDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := c.db.Collection(consultationName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (c *consultationDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return c.db.Collection(consultationName).DeleteOne(ctx, filter, opts...)
}
