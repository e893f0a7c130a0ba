package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/peoplehub/hrms-api/internal/core/domain"
)

const auditCollection = "auth_audit"

type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	ID      string `bson:"_id"`
	Action  string `bson:"action"`
	Actor   string `bson:"actor,omitempty"`
	UserID  string `bson:"user_id,omitempty"`
	Outcome string `bson:"outcome"`
	Detail  string `bson:"detail,omitempty"`
	At      int64  `bson:"at"`
}

// EnsureIndexes indexes events by subject and time for audit queries.
func (r *MongoAuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "at", Value: -1}},
		Options: options.Index().SetName("user_at"),
	})
	if err != nil {
		return fmt.Errorf("create audit indexes: %w", err)
	}
	return nil
}

// Insert stores one event. Re-inserting an event with the same ID is a no-op.
func (r *MongoAuditRepository) Insert(ctx context.Context, ev *domain.AuditEvent) error {
	doc := mongoAuditEvent{
		ID:      ev.ID,
		Action:  string(ev.Action),
		Actor:   ev.Actor,
		UserID:  ev.UserID,
		Outcome: string(ev.Outcome),
		Detail:  ev.Detail,
		At:      ev.At.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
