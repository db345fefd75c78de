package databases

// go generate: mockery --name LocationDatabase

import (
	"context"

	"github.com/lexlink/lexlink-api/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const locationName = "locations"

// LocationDatabase contains the methods to use with the location database
type LocationDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Location, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Location, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type locationDatabase struct {
	db DatabaseHelper
}

// NewLocationDatabase initializes a new instance of location database with the provided db connection
func NewLocationDatabase(db DatabaseHelper) LocationDatabase {
	return &locationDatabase{
		db: db,
	}
}

func (l *locationDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Location, error) {
	location := &models.Location{}
	err := l.db.Collection(locationName).FindOne(ctx, filter, opts...).Decode(&location)
	if err != nil {
		return nil, err
	}
	return location, nil
}

func (l *locationDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Location, error) {
	var locations []models.Location
	curr, err := l.db.Collection(locationName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &locations)
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (l *locationDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return l.db.Collection(locationName).InsertOne(ctx, document, opts...)
}

func (l *locationDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := l.db.Collection(locationName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (l *locationDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return l.db.Collection(locationName).DeleteOne(ctx, filter, opts...)
}
