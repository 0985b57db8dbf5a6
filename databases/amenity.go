package databases

// go generate: mockery --name AmenityDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/societyhq/society-api/models"
)

const amenityCollectionName = "amenities"

// AmenityDatabase contains the methods to use with the amenity database
type AmenityDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Amenity, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Amenity, error)
	InsertOne(ctx context.Context, amenity models.Amenity, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type amenityDatabase struct {
	db DatabaseHelper
}

// NewAmenityDatabase initializes a new instance of amenity database with the provided db connection
func NewAmenityDatabase(db DatabaseHelper) AmenityDatabase {
	return &amenityDatabase{
		db: db,
	}
}

func (a *amenityDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Amenity, error) {
	amenity := &models.Amenity{}
	err := a.db.Collection(amenityCollectionName).FindOne(ctx, filter, opts...).Decode(&amenity)
	if err != nil {
		return nil, err
	}
	return amenity, nil
}

func (a *amenityDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Amenity, error) {
	var amenities []models.Amenity
	curr, err := a.db.Collection(amenityCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &amenities)
	if err != nil {
		return nil, err
	}
	return amenities, nil
}

func (a *amenityDatabase) InsertOne(ctx context.Context, amenity models.Amenity, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return a.db.Collection(amenityCollectionName).InsertOne(ctx, amenity, opts...)
}

func (a *amenityDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) error {
	_, err := a.db.Collection(amenityCollectionName).UpdateOne(ctx, filter, update, opts...)
	return err
}

func (a *amenityDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := a.db.Collection(amenityCollectionName).DeleteOne(ctx, filter, opts...)
	return err
}
