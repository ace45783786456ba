// models/route_assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RouteAssignment maps a delivery route to its supervisor and vendors.
type RouteAssignment struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	RouteCode    string               `bson:"routeCode" json:"routeCode"`
	RouteName    string               `bson:"routeName,omitempty" json:"routeName,omitempty"`
	SupervisorID primitive.ObjectID   `bson:"supervisorId,omitempty" json:"supervisorId,omitempty"`
	VendorIDs    []primitive.ObjectID `bson:"vendorIds" json:"vendorIds"`
	Status       string               `bson:"status" json:"status"` // active, inactive
	CreatedBy    primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}
