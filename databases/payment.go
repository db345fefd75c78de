package databases

// go generate: mockery --name PaymentDatabase

import (
	"context"

	"github.com/lexlink/lexlink-api/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const paymentName = "payments"

// PaymentDatabase contains the methods to use with the payment database
type PaymentDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Payment, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Payment, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
}

type paymentDatabase struct {
	db DatabaseHelper
}

// NewPaymentDatabase initializes a new instance of payment database with the provided db connection
func NewPaymentDatabase(db DatabaseHelper) PaymentDatabase {
	return &paymentDatabase{
		db: db,
	}
}

func (p *paymentDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Payment, error) {
	payment := &models.Payment{}
	err := p.db.Collection(paymentName).FindOne(ctx, filter, opts...).Decode(&payment)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (p *paymentDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Payment, error) {
	var payments []models.Payment
	curr, err := p.db.Collection(paymentName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &payments)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (p *paymentDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return p.db.Collection(paymentName).CountDocuments(ctx, filter, opts...)
}

func (p *paymentDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return p.db.Collection(paymentName).InsertOne(ctx, document, opts...)
}

func (p *paymentDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := p.db.Collection(paymentName).UpdateOne(ctx, filter, update, opts...)
	return err
}
