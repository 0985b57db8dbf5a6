package databases

// go generate: mockery --name BillDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/societyhq/society-api/models"
)

const billCollectionName = "bills"

// BillDatabase contains the methods to use with the bill database
type BillDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Bill, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Bill, error)
	InsertOne(ctx context.Context, bill models.Bill, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type billDatabase struct {
	db DatabaseHelper
}

// NewBillDatabase initializes a new instance of bill database with the provided db connection
func NewBillDatabase(db DatabaseHelper) BillDatabase {
	return &billDatabase{
		db: db,
	}
}

func (b *billDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Bill, error) {
	bill := &models.Bill{}
	err := b.db.Collection(billCollectionName).FindOne(ctx, filter, opts...).Decode(&bill)
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (b *billDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Bill, error) {
	var bills []models.Bill
	curr, err := b.db.Collection(billCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &bills)
	if err != nil {
		return nil, err
	}
	return bills, nil
}

func (b *billDatabase) InsertOne(ctx context.Context, bill models.Bill, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return b.db.Collection(billCollectionName).InsertOne(ctx, bill, opts...)
}

func (b *billDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := b.db.Collection(billCollectionName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (b *billDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := b.db.Collection(billCollectionName).DeleteOne(ctx, filter, opts...)
	return err
}
