package databases

// go generate: mockery --name MemberDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/societyhq/society-api/models"
)

const memberCollectionName = "members"

// MemberDatabase contains the methods to use with the member database
type MemberDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Member, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Member, error)
	InsertOne(ctx context.Context, member models.Member, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
}

type memberDatabase struct {
	db DatabaseHelper
}

// NewMemberDatabase initializes a new instance of member database with the provided db connection
func NewMemberDatabase(db DatabaseHelper) MemberDatabase {
	return &memberDatabase{
		db: db,
	}
}

func (m *memberDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Member, error) {
	member := &models.Member{}
	err := m.db.Collection(memberCollectionName).FindOne(ctx, filter, opts...).Decode(&member)
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (m *memberDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Member, error) {
	var members []models.Member
	curr, err := m.db.Collection(memberCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &members)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (m *memberDatabase) InsertOne(ctx context.Context, member models.Member, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return m.db.Collection(memberCollectionName).InsertOne(ctx, member, opts...)
}

func (m *memberDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := m.db.Collection(memberCollectionName).DeleteOne(ctx, filter, opts...)
	return err
}

func (m *memberDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return m.db.Collection(memberCollectionName).CountDocuments(ctx, filter, opts...)
}
