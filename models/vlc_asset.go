// models/vlc_asset.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VLCAsset is one physical field unit (a VLC) and its equipment
// allotment. vlcCode is globally unique and immutable after creation.
type VLCAsset struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VLCCode         string             `bson:"vlcCode" json:"vlcCode"`
	UploadedBy      primitive.ObjectID `bson:"uploadedBy" json:"uploadedBy"`
	SrNo            string             `bson:"srNo,omitempty" json:"srNo,omitempty"`
	StockNo         string             `bson:"stockNo,omitempty" json:"stockNo,omitempty"`
	VLCName         string             `bson:"vlcName,omitempty" json:"vlcName,omitempty"`
	Status          string             `bson:"status,omitempty" json:"status,omitempty"`
	CStatus         string             `bson:"cStatus,omitempty" json:"cStatus,omitempty"`
	VSPSign         string             `bson:"vspSign,omitempty" json:"vspSign,omitempty"`
	EquipmentCounts `bson:",inline"`
	// DPS and Bond are comma-joined serialized code sets. Any non-empty
	// code belongs to at most one asset record at a time.
	DPS       string            `bson:"dps,omitempty" json:"dps,omitempty"`
	Bond      string            `bson:"bond,omitempty" json:"bond,omitempty"`
	History   []VLCAssetHistory `bson:"history" json:"history"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// VLCAssetHistory is one pre-change snapshot of the updatable fields.
// Entries are append-only and never mutated.
type VLCAssetHistory struct {
	SrNo            string `bson:"srNo,omitempty" json:"srNo,omitempty"`
	StockNo         string `bson:"stockNo,omitempty" json:"stockNo,omitempty"`
	VLCName         string `bson:"vlcName,omitempty" json:"vlcName,omitempty"`
	Status          string `bson:"status,omitempty" json:"status,omitempty"`
	CStatus         string `bson:"cStatus,omitempty" json:"cStatus,omitempty"`
	VSPSign         string `bson:"vspSign,omitempty" json:"vspSign,omitempty"`
	EquipmentCounts `bson:",inline"`
	DPS             string    `bson:"dps,omitempty" json:"dps,omitempty"`
	Bond            string    `bson:"bond,omitempty" json:"bond,omitempty"`
	ChangedOn       time.Time `bson:"changedOn" json:"changedOn"`
}

// Snapshot captures the asset's current updatable fields into a history
// entry stamped at the given instant.
func (a *VLCAsset) Snapshot(at time.Time) VLCAssetHistory {
	return VLCAssetHistory{
		SrNo:            a.SrNo,
		StockNo:         a.StockNo,
		VLCName:         a.VLCName,
		Status:          a.Status,
		CStatus:         a.CStatus,
		VSPSign:         a.VSPSign,
		EquipmentCounts: a.EquipmentCounts,
		DPS:             a.DPS,
		Bond:            a.Bond,
		ChangedOn:       at,
	}
}
