// handlers/vlc_asset_handler.go
package handlers

import (
	"context"
	"errors"
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

	"github.com/YugalRajVimal/dairy-management-server-sub000/inventory"
	"github.com/YugalRajVimal/dairy-management-server-sub000/models"
	"github.com/YugalRajVimal/dairy-management-server-sub000/utils"
	"github.com/YugalRajVimal/dairy-management-server-sub000/websocket"
)

// CreateVLCAsset registers a new VLC asset record and charges the acting
// sub-admin's used-assets ledger in the same transaction.
func CreateVLCAsset(w http.ResponseWriter, r *http.Request) {
	subAdminID, ok := requireSubAdmin(w, r)
	if !ok {
		return
	}

	var req inventory.AssetRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(req.VLCCode) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "vlcCode is required")
		return
	}
	if bad := negativeQuantities(&req); len(bad) > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "negative quantities not allowed: "+strings.Join(bad, ","))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	asset, err := reconciler.Create(ctx, subAdminID, &req)
	if err != nil {
		respondReconcileError(w, err)
		return
	}

	recordAudit(ctx, subAdminID, "vlc_asset_create", "vlc_asset", asset.VLCCode, bson.M{
		"vlcCode": asset.VLCCode,
		"dps":     asset.DPS,
		"bond":    asset.Bond,
	})
	userName, _ := r.Context().Value("userName").(string)
	websocket.SendAssetCreated(asset.VLCCode, asset, subAdminID.Hex(), userName)

	utils.RespondWithJSON(w, http.StatusCreated, asset)
}

// UpdateVLCAsset applies a partial update to an existing record,
// reconciling the ledger deltas in the same transaction.
func UpdateVLCAsset(w http.ResponseWriter, r *http.Request) {
	subAdminID, ok := requireSubAdmin(w, r)
	if !ok {
		return
	}

	var req inventory.AssetRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	vars := mux.Vars(r)
	if code := strings.TrimSpace(vars["vlcCode"]); code != "" {
		req.VLCCode = code
	}
	if strings.TrimSpace(req.VLCCode) == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "vlcCode is required")
		return
	}
	if bad := negativeQuantities(&req); len(bad) > 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "negative quantities not allowed: "+strings.Join(bad, ","))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	asset, err := reconciler.Update(ctx, subAdminID, &req)
	if err != nil {
		respondReconcileError(w, err)
		return
	}

	recordAudit(ctx, subAdminID, "vlc_asset_update", "vlc_asset", asset.VLCCode, bson.M{
		"vlcCode": asset.VLCCode,
		"dps":     asset.DPS,
		"bond":    asset.Bond,
	})
	userName, _ := r.Context().Value("userName").(string)
	websocket.SendAssetUpdated(asset.VLCCode, asset, subAdminID.Hex(), userName)

	utils.RespondWithJSON(w, http.StatusOK, asset)
}

// GetVLCAsset returns one record with its full history.
func GetVLCAsset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vlcCode := strings.TrimSpace(vars["vlcCode"])
	if vlcCode == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "vlcCode required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var asset models.VLCAsset
	err := vlcAssetCollection.FindOne(ctx, bson.M{"vlcCode": vlcCode}).Decode(&asset)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "vlc asset not found")
			return
		}
		log.Printf("find vlc asset error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, asset)
}

// ListVLCAssets returns records with pagination and search. Sub-admins
// see only their own uploads; admins see everything.
func ListVLCAssets(w http.ResponseWriter, r *http.Request) {
	userIDStr, _ := r.Context().Value("userID").(string)
	userRole, _ := r.Context().Value("userRole").(string)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if userRole == models.RoleSubAdmin {
		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		filter["uploadedBy"] = userID
	}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		regex := primitive.Regex{Pattern: search, Options: "i"}
		filter["$or"] = []bson.M{
			{"vlcCode": regex},
			{"vlcName": regex},
			{"srNo": regex},
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	total, err := vlcAssetCollection.CountDocuments(ctx, filter)
	if err != nil {
		log.Printf("vlc assets count error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := vlcAssetCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("vlc assets Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var assets []models.VLCAsset
	if err = cursor.All(ctx, &assets); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode vlc assets")
		return
	}
	if assets == nil {
		assets = []models.VLCAsset{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"assets": assets,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// requireSubAdmin extracts the caller and enforces the SubAdmin role.
// Only sub-admins create or update asset records.
func requireSubAdmin(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	userIDStr, ok := r.Context().Value("userID").(string)
	if !ok || userIDStr == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "user id required")
		return primitive.NilObjectID, false
	}
	role, _ := r.Context().Value("userRole").(string)
	if role != models.RoleSubAdmin {
		utils.RespondWithError(w, http.StatusForbidden, "only sub-admins manage vlc assets")
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return primitive.NilObjectID, false
	}
	return userID, true
}

func negativeQuantities(req *inventory.AssetRequest) []string {
	var bad []string
	for _, f := range models.EquipmentFields {
		if v, ok := req.Quantity(f); ok && v < 0 {
			bad = append(bad, f)
		}
	}
	return bad
}

// respondReconcileError maps the reconciliation error taxonomy onto HTTP
// statuses with the structured detail the caller needs to self-correct.
func respondReconcileError(w http.ResponseWriter, err error) {
	var (
		dup      *inventory.DuplicateVlcCodeError
		notFound *inventory.NotFoundError
		noChange *inventory.NoChangeError
		noIssue  *inventory.NoIssuanceError
		notIss   *inventory.NotIssuedError
		conflict *inventory.CodeConflictError
		used     *inventory.AlreadyUsedError
		short    *inventory.InsufficientInventoryError
	)
	switch {
	case errors.As(err, &dup):
		utils.RespondWithJSON(w, http.StatusConflict, map[string]interface{}{
			"error":    err.Error(),
			"existing": dup.Existing,
		})
	case errors.As(err, &notFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &noChange):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &noIssue):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notIss):
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": err.Error(),
			"missing": map[string][]string{
				"dps":  notIss.MissingDPS,
				"bond": notIss.MissingBond,
			},
		})
	case errors.As(err, &conflict):
		utils.RespondWithJSON(w, http.StatusConflict, map[string]interface{}{
			"error":     err.Error(),
			"conflicts": conflict.Conflicts,
		})
	case errors.As(err, &used):
		utils.RespondWithJSON(w, http.StatusConflict, map[string]interface{}{
			"error": err.Error(),
			"alreadyUsed": map[string][]string{
				"dps":  used.DPS,
				"bond": used.Bond,
			},
		})
	case errors.As(err, &short):
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":     err.Error(),
			"shortages": short.Shortages,
		})
	default:
		log.Printf("reconciliation failed: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "reconciliation failed, no changes were applied")
	}
}
