package databases

// go generate: mockery --name AnnouncementDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/societyhq/society-api/models"
)

const announcementCollectionName = "announcements"

// AnnouncementDatabase contains the methods to use with the announcement database
type AnnouncementDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Announcement, error)
	InsertOne(ctx context.Context, announcement models.Announcement, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error
}

type announcementDatabase struct {
	db DatabaseHelper
}

// NewAnnouncementDatabase initializes a new instance of announcement database with the provided db connection
func NewAnnouncementDatabase(db DatabaseHelper) AnnouncementDatabase {
	return &announcementDatabase{
		db: db,
	}
}

func (a *announcementDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Announcement, error) {
	var announcements []models.Announcement
	curr, err := a.db.Collection(announcementCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer curr.Close(ctx)
	err = curr.All(ctx, &announcements)
	if err != nil {
		return nil, err
	}
	return announcements, nil
}

func (a *announcementDatabase) InsertOne(ctx context.Context, announcement models.Announcement, opts ...*options.InsertOneOptions) (InsertOneResultHelper, error) {
	return a.db.Collection(announcementCollectionName).InsertOne(ctx, announcement, opts...)
}

func (a *announcementDatabase) DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) error {
	_, err := a.db.Collection(announcementCollectionName).DeleteOne(ctx, filter, opts...)
	return err
}
