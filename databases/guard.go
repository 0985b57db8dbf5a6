package databases

// go generate: mockery --name GuardDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/societyhq/society-api/models"
)

const guardCollectionName = "guards"

// GuardDatabase contains the methods to use with the guard database
type GuardDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Guard, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Guard, error)
	InsertOne(ctx context.Context, guard models.Guard, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type guardDatabase struct {
	db DatabaseHelper
}

// NewGuardDatabase initializes a new instance of guard database with the provided db connection
func NewGuardDatabase(db DatabaseHelper) GuardDatabase {
	return &guardDatabase{
		db: db,
	}
}

func (g *guardDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Guard, error) {
	guard := &models.Guard{}
	err := g.db.Collection(guardCollectionName).FindOne(ctx, filter, opts...).Decode(&guard)
	if err != nil {
		return nil, err
	}
	return guard, nil
}

func (g *guardDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Guard, error) {
	var guards []models.Guard
	curr, err := g.db.Collection(guardCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &guards)
	if err != nil {
		return nil, err
	}
	return guards, nil
}

func (g *guardDatabase) InsertOne(ctx context.Context, guard models.Guard, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return g.db.Collection(guardCollectionName).InsertOne(ctx, guard, opts...)
}

func (g *guardDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := g.db.Collection(guardCollectionName).DeleteOne(ctx, filter, opts...)
	return err
}
