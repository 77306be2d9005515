package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/moklab/auth-service/internal/core/domain"
)

const auditCollection = "auth_audit"

// MongoAuditRepository is an insert-only store for authentication audit entries.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEntry struct {
	Username string `bson:"username"`
	Action   string `bson:"action"`
	Outcome  string `bson:"outcome"`
	At       int64  `bson:"at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, entry domain.AuditEntry) error {
	doc := mongoAuditEntry{
		Username: entry.Username,
		Action:   string(entry.Action),
		Outcome:  entry.Outcome,
		At:       entry.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}
