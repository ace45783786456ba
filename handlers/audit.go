// handlers/audit.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/YugalRajVimal/dairy-management-server-sub000/models"
	"github.com/YugalRajVimal/dairy-management-server-sub000/utils"
)

// recordAudit appends an audit document for a committed mutation. Audit
// failures never fail the operation that triggered them.
func recordAudit(ctx context.Context, userID primitive.ObjectID, action, entityType, entityID string, details bson.M) models.AuditLog {
	audit := models.AuditLog{
		ID:            primitive.NewObjectID(),
		UserID:        userID,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		CorrelationID: uuid.NewString(),
		Details:       details,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := auditLogCollection.InsertOne(ctx, audit); err != nil {
		log.Printf("Failed to create audit log: %v", err)
	}
	return audit
}

// ListAuditLogs returns recent audit entries (admin only), newest first.
func ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 500 {
		limit = 100
	}

	filter := bson.M{}
	if action := r.URL.Query().Get("action"); action != "" {
		filter["action"] = action
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := auditLogCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("audit Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var logs []models.AuditLog
	if err = cursor.All(ctx, &logs); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode audit logs")
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	utils.RespondWithJSON(w, http.StatusOK, logs)
}
