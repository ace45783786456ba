// models/milk_sale.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MilkSale is one collection/sale row, entered manually or as part of an
// uploaded batch of pre-parsed spreadsheet rows.
type MilkSale struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VendorID   primitive.ObjectID `bson:"vendorId" json:"vendorId"`
	RouteCode  string             `bson:"routeCode" json:"routeCode"`
	SaleDate   time.Time          `bson:"saleDate" json:"saleDate"`
	Shift      string             `bson:"shift" json:"shift"` // "morning" or "evening"
	QuantityL  float64            `bson:"quantityL" json:"quantityL"`
	Fat        float64            `bson:"fat,omitempty" json:"fat,omitempty"`
	SNF        float64            `bson:"snf,omitempty" json:"snf,omitempty"`
	Amount     float64            `bson:"amount" json:"amount"`
	BatchID    string             `bson:"batchId,omitempty" json:"batchId,omitempty"`
	UploadedBy primitive.ObjectID `bson:"uploadedBy" json:"uploadedBy"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
