// models/used_assets.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UsedAssets is the per-sub-admin consumption ledger: running totals of
// equipment consumed across all of that sub-admin's VLC asset records,
// plus the serialized codes currently spent. One document per sub-admin,
// created lazily on the first successful asset creation.
type UsedAssets struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubAdminID      primitive.ObjectID `bson:"subAdminId" json:"subAdminId"`
	EquipmentCounts `bson:",inline"`
	DPS             string              `bson:"dps,omitempty" json:"dps,omitempty"`
	Bond            string              `bson:"bond,omitempty" json:"bond,omitempty"`
	History         []UsedAssetsHistory `bson:"history" json:"history"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// UsedAssetsHistory is a pre-change snapshot of the ledger counters.
type UsedAssetsHistory struct {
	EquipmentCounts `bson:",inline"`
	DPS             string    `bson:"dps,omitempty" json:"dps,omitempty"`
	Bond            string    `bson:"bond,omitempty" json:"bond,omitempty"`
	ChangedOn       time.Time `bson:"changedOn" json:"changedOn"`
}

// Snapshot captures the ledger's current counters and code sets.
func (u *UsedAssets) Snapshot(at time.Time) UsedAssetsHistory {
	return UsedAssetsHistory{
		EquipmentCounts: u.EquipmentCounts,
		DPS:             u.DPS,
		Bond:            u.Bond,
		ChangedOn:       at,
	}
}
