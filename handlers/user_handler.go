// handlers/user_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/YugalRajVimal/dairy-management-server-sub000/models"
	"github.com/YugalRajVimal/dairy-management-server-sub000/utils"
)

type OnboardUserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role"`
	RouteCode string `json:"routeCode,omitempty"`
}

func validRole(role string) bool {
	switch role {
	case models.RoleAdmin, models.RoleSubAdmin, models.RoleSupervisor, models.RoleVendor:
		return true
	}
	return false
}

// OnboardUser registers a new back-office user. Only admins onboard.
func OnboardUser(w http.ResponseWriter, r *http.Request) {
	actorIDStr, ok := r.Context().Value("userID").(string)
	if !ok || actorIDStr == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}
	actorID, err := primitive.ObjectIDFromHex(actorIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req OnboardUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.RouteCode = strings.TrimSpace(req.RouteCode)

	if req.Name == "" || req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.RespondWithError(w, http.StatusBadRequest, "name and valid email required")
		return
	}
	if !validRole(req.Role) {
		utils.RespondWithError(w, http.StatusBadRequest, "role must be one of Admin, SubAdmin, Supervisor, Vendor")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := userCollection.CountDocuments(ctx, bson.M{"email": req.Email, "deletedAt": nil})
	if err != nil {
		log.Printf("unique email check error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "a user with this email already exists")
		return
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		RouteCode: req.RouteCode,
		CreatedBy: actorID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if _, err := userCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "a user with this email already exists")
			return
		}
		log.Printf("onboard insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to onboard user")
		return
	}

	recordAudit(ctx, actorID, "user_onboard", "user", user.ID.Hex(), bson.M{
		"email": user.Email,
		"role":  user.Role,
	})

	utils.RespondWithJSON(w, http.StatusCreated, user)
}

// ListUsers returns users with role filter, pagination and
// case-insensitive search over name/email/phone.
func ListUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{"deletedAt": nil}
	if role := strings.TrimSpace(r.URL.Query().Get("role")); role != "" {
		if !validRole(role) {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid role filter")
			return
		}
		filter["role"] = role
	}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		regex := primitive.Regex{Pattern: search, Options: "i"}
		filter["$or"] = []bson.M{
			{"name": regex},
			{"email": regex},
			{"phone": regex},
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	total, err := userCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("users count error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := userCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("users Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode users")
		return
	}
	if users == nil {
		users = []models.User{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUser returns a single user by id.
func GetUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id format")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err = userCollection.FindOne(ctx, bson.M{"_id": userID, "deletedAt": nil}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("find user error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// GetCurrentUser returns the authenticated caller's profile.
func GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok || userIDStr == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err = userCollection.FindOne(ctx, bson.M{"_id": userID, "deletedAt": nil}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "user not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// DeleteUser soft-deletes a user (admin only).
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _ := r.Context().Value("userID").(string)
	actorID, err := primitive.ObjectIDFromHex(actorIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	vars := mux.Vars(r)
	targetID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id format")
		return
	}
	if targetID == actorID {
		utils.RespondWithError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := userCollection.UpdateOne(ctx,
		bson.M{"_id": targetID, "deletedAt": nil},
		bson.M{"$set": bson.M{"deletedAt": time.Now().UTC(), "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		log.Printf("delete user error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "user not found")
		return
	}

	recordAudit(ctx, actorID, "user_delete", "user", targetID.Hex(), nil)

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "user deactivated successfully"})
}
