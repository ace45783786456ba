// models/audit_log.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditLog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Action        string             `bson:"action" json:"action"` // e.g. "vlc_asset_create", "milk_sale_ingest", "issued_assets_upsert"
	EntityType    string             `bson:"entityType" json:"entityType"`
	EntityID      string             `bson:"entityId,omitempty" json:"entityId,omitempty"`
	CorrelationID string             `bson:"correlationId,omitempty" json:"correlationId,omitempty"`
	Details       bson.M             `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
