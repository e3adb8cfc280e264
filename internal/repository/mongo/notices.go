package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"placementcell/internal/common"
	"placementcell/internal/domain/notice"
)

type NoticeRepository struct {
	c collection[notice.Notice]
}

func NewNoticeRepository(db *mongo.Database) *NoticeRepository {
	return &NoticeRepository{c: collection[notice.Notice]{coll: db.Collection("notices"), entity: "notice"}}
}

func (r *NoticeRepository) GetAll(ctx context.Context) ([]notice.Notice, error) {
	return r.c.find(ctx, bson.M{}, bson.D{{Key: "posted_at", Value: -1}, {Key: "_id", Value: 1}})
}

func (r *NoticeRepository) Get(ctx context.Context, id common.UUID) (*notice.Notice, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *NoticeRepository) Save(ctx context.Context, n notice.Notice) error {
	return r.c.replace(ctx, n.ID, n)
}

func (r *NoticeRepository) Delete(ctx context.Context, id common.UUID) error {
	return r.c.delete(ctx, id)
}

type EventRepository struct {
	c collection[notice.Event]
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{c: collection[notice.Event]{coll: db.Collection("events"), entity: "event"}}
}

func (r *EventRepository) GetAll(ctx context.Context) ([]notice.Event, error) {
	return r.c.find(ctx, bson.M{}, bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
}

func (r *EventRepository) Get(ctx context.Context, id common.UUID) (*notice.Event, error) {
	return r.c.findOne(ctx, bson.M{"_id": id})
}

func (r *EventRepository) Save(ctx context.Context, e notice.Event) error {
	return r.c.replace(ctx, e.ID, e)
}

func (r *EventRepository) Delete(ctx context.Context, id common.UUID) error {
	return r.c.delete(ctx, id)
}
