package databases

// go generate: mockery --name SpecializationDatabase

import (
	"context"

	"github.com/lexlink/lexlink-api/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const specializationName = "specializations"

// SpecializationDatabase contains the methods to use with the specialization database
type SpecializationDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Specialization, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Specialization, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type specializationDatabase struct {
	db DatabaseHelper
}

// NewSpecializationDatabase initializes a new instance of specialization database with the provided db connection
func NewSpecializationDatabase(db DatabaseHelper) SpecializationDatabase {
	return &specializationDatabase{
		db: db,
	}
}

func (s *specializationDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Specialization, error) {
	specialization := &models.Specialization{}
	err := s.db.Collection(specializationName).FindOne(ctx, filter, opts...).Decode(&specialization)
	if err != nil {
		return nil, err
	}
	return specialization, nil
}

func (s *specializationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Specialization, error) {
	var specializations []models.Specialization
	curr, err := s.db.Collection(specializationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &specializations)
	if err != nil {
		return nil, err
	}
	return specializations, nil
}

func (s *specializationDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return s.db.Collection(specializationName).InsertOne(ctx, document, opts...)
}

func (s *specializationDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := s.db.Collection(specializationName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (s *specializationDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return s.db.Collection(specializationName).DeleteOne(ctx, filter, opts...)
}
