// handlers/route_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/YugalRajVimal/dairy-management-server-sub000/models"
	"github.com/YugalRajVimal/dairy-management-server-sub000/utils"
)

type RouteAssignmentRequest struct {
	RouteCode    string   `json:"routeCode"`
	RouteName    string   `json:"routeName,omitempty"`
	SupervisorID string   `json:"supervisorId,omitempty"`
	VendorIDs    []string `json:"vendorIds,omitempty"`
}

// CreateRouteAssignment registers a delivery route (admin only).
func CreateRouteAssignment(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _ := r.Context().Value("userID").(string)
	actorID, err := primitive.ObjectIDFromHex(actorIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req RouteAssignmentRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	req.RouteCode = strings.TrimSpace(req.RouteCode)
	if req.RouteCode == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "routeCode is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := routeAssignmentCollection.CountDocuments(ctx, bson.M{"routeCode": req.RouteCode})
	if err != nil {
		log.Printf("route unique check error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "route code already exists")
		return
	}

	assignment := models.RouteAssignment{
		ID:        primitive.NewObjectID(),
		RouteCode: req.RouteCode,
		RouteName: strings.TrimSpace(req.RouteName),
		VendorIDs: []primitive.ObjectID{},
		Status:    "active",
		CreatedBy: actorID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if req.SupervisorID != "" {
		supervisorID, err := resolveUserWithRole(ctx, req.SupervisorID, models.RoleSupervisor)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "supervisor not found")
			return
		}
		assignment.SupervisorID = supervisorID
	}
	for _, idStr := range req.VendorIDs {
		vendorID, err := resolveUserWithRole(ctx, idStr, models.RoleVendor)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "vendor not found: "+idStr)
			return
		}
		assignment.VendorIDs = append(assignment.VendorIDs, vendorID)
	}

	if _, err := routeAssignmentCollection.InsertOne(ctx, assignment); err != nil {
		log.Printf("route insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to create route")
		return
	}

	recordAudit(ctx, actorID, "route_create", "route", assignment.RouteCode, bson.M{
		"routeCode": assignment.RouteCode,
		"vendors":   len(assignment.VendorIDs),
	})

	utils.RespondWithJSON(w, http.StatusCreated, assignment)
}

// UpdateRouteAssignment changes a route's name, supervisor or vendor
// list (admin only).
func UpdateRouteAssignment(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _ := r.Context().Value("userID").(string)
	actorID, err := primitive.ObjectIDFromHex(actorIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	vars := mux.Vars(r)
	routeCode := strings.TrimSpace(vars["routeCode"])
	if routeCode == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "routeCode required")
		return
	}

	var req RouteAssignmentRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	update := bson.M{"updatedAt": time.Now().UTC()}
	if name := strings.TrimSpace(req.RouteName); name != "" {
		update["routeName"] = name
	}
	if req.SupervisorID != "" {
		supervisorID, err := resolveUserWithRole(ctx, req.SupervisorID, models.RoleSupervisor)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "supervisor not found")
			return
		}
		update["supervisorId"] = supervisorID
	}
	if req.VendorIDs != nil {
		vendorIDs := []primitive.ObjectID{}
		for _, idStr := range req.VendorIDs {
			vendorID, err := resolveUserWithRole(ctx, idStr, models.RoleVendor)
			if err != nil {
				utils.RespondWithError(w, http.StatusBadRequest, "vendor not found: "+idStr)
				return
			}
			vendorIDs = append(vendorIDs, vendorID)
		}
		update["vendorIds"] = vendorIDs
	}

	res, err := routeAssignmentCollection.UpdateOne(ctx, bson.M{"routeCode": routeCode}, bson.M{"$set": update})
	if err != nil {
		log.Printf("route update error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update route")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "route not found")
		return
	}

	recordAudit(ctx, actorID, "route_update", "route", routeCode, update)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "route updated successfully"})
}

// ListRouteAssignments returns all active routes.
func ListRouteAssignments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "routeCode", Value: 1}})
	cursor, err := routeAssignmentCollection.Find(ctx, bson.M{"status": "active"}, opts)
	if err != nil {
		log.Printf("routes Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var routes []models.RouteAssignment
	if err = cursor.All(ctx, &routes); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode routes")
		return
	}
	if routes == nil {
		routes = []models.RouteAssignment{}
	}

	utils.RespondWithJSON(w, http.StatusOK, routes)
}

func resolveUserWithRole(ctx context.Context, idStr, role string) (primitive.ObjectID, error) {
	userID, err := primitive.ObjectIDFromHex(strings.TrimSpace(idStr))
	if err != nil {
		return primitive.NilObjectID, err
	}
	err = userCollection.FindOne(ctx, bson.M{"_id": userID, "role": role, "deletedAt": nil}).Err()
	if err != nil {
		return primitive.NilObjectID, err
	}
	return userID, nil
}
