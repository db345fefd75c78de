package databases

// go generate: mockery --name LawyerDatabase

import (
	"context"

	"github.com/lexlink/lexlink-api/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const lawyerName = "lawyerprofiles"

// LawyerDatabase contains the methods to use with the lawyer profile database
type LawyerDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.LawyerProfile, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LawyerProfile, error)
	FindPaginated(ctx context.Context, filter interface{}, limit, page int) ([]models.LawyerProfile, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type lawyerDatabase struct {
	db DatabaseHelper
}

// NewLawyerDatabase initializes a new instance of lawyer database with the provided db connection
func NewLawyerDatabase(db DatabaseHelper) LawyerDatabase {
	return &lawyerDatabase{
		db: db,
	}
}

func (l *lawyerDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.LawyerProfile, error) {
	lawyer := &models.LawyerProfile{}
	err := l.db.Collection(lawyerName).FindOne(ctx, filter, opts...).Decode(&lawyer)
	if err != nil {
		return nil, err
	}
	return lawyer, nil
}

func (l *lawyerDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.LawyerProfile, error) {
	var lawyers []models.LawyerProfile
	curr, err := l.db.Collection(lawyerName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &lawyers)
	if err != nil {
		return nil, err
	}
	return lawyers, nil
}

func (l *lawyerDatabase) FindPaginated(ctx context.Context, filter interface{}, limit, page int) ([]models.LawyerProfile, error) {
	return l.Find(ctx, filter, newMongoPaginate(limit, page).getPaginatedOpts())
}

func (l *lawyerDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return l.db.Collection(lawyerName).CountDocuments(ctx, filter, opts...)
}

func (l *lawyerDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return l.db.Collection(lawyerName).InsertOne(ctx, document, opts...)
}

func (l *lawyerDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := l.db.Collection(lawyerName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (l *lawyerDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return l.db.Collection(lawyerName).DeleteOne(ctx, filter, opts...)
}
