package databases

// go generate: mockery --name ReviewDatabase

import (
	"context"

	"github.com/lexlink/lexlink-api/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reviewName = "reviews"

// ReviewDatabase contains the methods to use with the review database
type ReviewDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Review, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Review, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type reviewDatabase struct {
	db DatabaseHelper
}

// NewReviewDatabase initializes a new instance of review database with the provided db connection
func NewReviewDatabase(db DatabaseHelper) ReviewDatabase {
	return &reviewDatabase{
		db: db,
	}
}

func (r *reviewDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Review, error) {
	review := &models.Review{}
	err := r.db.Collection(reviewName).FindOne(ctx, filter, opts...).Decode(&review)
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (r *reviewDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Review, error) {
	var reviews []models.Review
	curr, err := r.db.Collection(reviewName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &reviews)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return r.db.Collection(reviewName).CountDocuments(ctx, filter, opts...)
}

func (r *reviewDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return r.db.Collection(reviewName).InsertOne(ctx, document, opts...)
}

func (r *reviewDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	return r.db.Collection(reviewName).DeleteOne(ctx, filter, opts...)
}
