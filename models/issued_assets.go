// models/issued_assets.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssuedAssets records the quantities and code pools allotted to one
// sub-admin by the admin-side issuance workflow. The reconciliation core
// reads this as the authoritative ceiling and never writes it.
type IssuedAssets struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubAdminID      primitive.ObjectID `bson:"subAdminId" json:"subAdminId"`
	EquipmentCounts `bson:",inline"`
	DPS             string             `bson:"dps,omitempty" json:"dps,omitempty"`
	Bond            string             `bson:"bond,omitempty" json:"bond,omitempty"`
	IssuedBy        primitive.ObjectID `bson:"issuedBy,omitempty" json:"issuedBy,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
