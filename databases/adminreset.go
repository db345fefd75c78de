package databases

// go generate: mockery --name AdminResetDatabase

import (
	"context"

	"github.com/lexlink/lexlink-api/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const adminResetName = "adminresets"

// AdminResetDatabase contains the methods to use with the admin password reset database
type AdminResetDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.AdminPasswordReset, error)
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error)
}

type adminResetDatabase struct {
	db DatabaseHelper
}

// NewAdminResetDatabase initializes a new instance of admin reset database with the provided db connection
func NewAdminResetDatabase(db DatabaseHelper) AdminResetDatabase {
	return &adminResetDatabase{
		db: db,
	}
}

func (a *adminResetDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.AdminPasswordReset, error) {
	reset := &models.AdminPasswordReset{}
	err := a.db.Collection(adminResetName).FindOne(ctx, filter, opts...).Decode(&reset)
	if err != nil {
		return nil, err
	}
	return reset, nil
}

func (a *adminResetDatabase) InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return a.db.Collection(adminResetName).InsertOne(ctx, document, opts...)
}

func (a *adminResetDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (int64, error) {
	return a.db.Collection(adminResetName).UpdateOne(ctx, filter, update, opts...)
}
