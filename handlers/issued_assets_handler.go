// handlers/issued_assets_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
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

// UpsertIssuedAssetsRequest carries the allotment ceilings for one
// sub-admin: quantities plus the issued dps/bond code pools.
type UpsertIssuedAssetsRequest struct {
	RT         *int64                 `json:"rt,omitempty"`
	Duplicate  *int64                 `json:"duplicate,omitempty"`
	Can        *int64                 `json:"can,omitempty"`
	Lid        *int64                 `json:"lid,omitempty"`
	PVC        *int64                 `json:"pvc,omitempty"`
	Keyboard   *int64                 `json:"keyboard,omitempty"`
	Printer    *int64                 `json:"printer,omitempty"`
	Charger    *int64                 `json:"charger,omitempty"`
	Stripper   *int64                 `json:"stripper,omitempty"`
	Solar      *int64                 `json:"solar,omitempty"`
	Controller *int64                 `json:"controller,omitempty"`
	EWS        *int64                 `json:"ews,omitempty"`
	Display    *int64                 `json:"display,omitempty"`
	Battery    *int64                 `json:"battery,omitempty"`
	DPS        *inventory.FlexStrings `json:"dps,omitempty"`
	Bond       *inventory.FlexStrings `json:"bond,omitempty"`
}

func (r *UpsertIssuedAssetsRequest) quantity(field string) (int64, bool) {
	var p *int64
	switch field {
	case "rt":
		p = r.RT
	case "duplicate":
		p = r.Duplicate
	case "can":
		p = r.Can
	case "lid":
		p = r.Lid
	case "pvc":
		p = r.PVC
	case "keyboard":
		p = r.Keyboard
	case "printer":
		p = r.Printer
	case "charger":
		p = r.Charger
	case "stripper":
		p = r.Stripper
	case "solar":
		p = r.Solar
	case "controller":
		p = r.Controller
	case "ews":
		p = r.EWS
	case "display":
		p = r.Display
	case "battery":
		p = r.Battery
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// UpsertIssuedAssets sets or raises a sub-admin's allotment (admin only).
// Supplied fields replace the stored ceiling; omitted fields keep it.
func UpsertIssuedAssets(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _ := r.Context().Value("userID").(string)
	actorID, err := primitive.ObjectIDFromHex(actorIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	vars := mux.Vars(r)
	subAdminID, err := primitive.ObjectIDFromHex(vars["subAdminId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid sub-admin id format")
		return
	}

	var req UpsertIssuedAssetsRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	for _, f := range models.EquipmentFields {
		if v, ok := req.quantity(f); ok && v < 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "negative issued quantity for "+f)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	// Target must be an actual sub-admin
	count, err := userCollection.CountDocuments(ctx, bson.M{"_id": subAdminID, "role": models.RoleSubAdmin, "deletedAt": nil})
	if err != nil {
		log.Printf("sub-admin check error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database error")
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "sub-admin not found")
		return
	}

	set := bson.M{"issuedBy": actorID, "updatedAt": time.Now().UTC()}
	for _, f := range models.EquipmentFields {
		if v, ok := req.quantity(f); ok {
			set[f] = v
		}
	}
	if req.DPS != nil {
		set["dps"] = req.DPS.Set().Join()
	}
	if req.Bond != nil {
		set["bond"] = req.Bond.Set().Join()
	}

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var issued models.IssuedAssets
	err = issuedAssetsCollection.FindOneAndUpdate(ctx,
		bson.M{"subAdminId": subAdminID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"subAdminId": subAdminID, "createdAt": time.Now().UTC()},
		},
		opts,
	).Decode(&issued)
	if err != nil {
		log.Printf("issued assets upsert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to upsert issued assets")
		return
	}

	recordAudit(ctx, actorID, "issued_assets_upsert", "issued_assets", subAdminID.Hex(), set)
	userName, _ := r.Context().Value("userName").(string)
	websocket.SendIssuedAssetsUpsert(subAdminID.Hex(), issued, actorIDStr, userName)

	utils.RespondWithJSON(w, http.StatusOK, issued)
}

// GetIssuedAssets returns one sub-admin's allotment.
func GetIssuedAssets(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subAdminID, err := primitive.ObjectIDFromHex(vars["subAdminId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid sub-admin id format")
		return
	}

	// Sub-admins may only read their own allotment
	role, _ := r.Context().Value("userRole").(string)
	if role == models.RoleSubAdmin {
		callerIDStr, _ := r.Context().Value("userID").(string)
		if callerIDStr != subAdminID.Hex() {
			utils.RespondWithError(w, http.StatusForbidden, "access denied to this allotment")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var issued models.IssuedAssets
	err = issuedAssetsCollection.FindOne(ctx, bson.M{"subAdminId": subAdminID}).Decode(&issued)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "no assets issued to this sub-admin")
			return
		}
		log.Printf("issued assets find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, issued)
}

// GetUsedAssets returns one sub-admin's consumption ledger, including
// its counter history.
func GetUsedAssets(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	subAdminID, err := primitive.ObjectIDFromHex(vars["subAdminId"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid sub-admin id format")
		return
	}

	// Sub-admins may only read their own ledger
	role, _ := r.Context().Value("userRole").(string)
	if role == models.RoleSubAdmin {
		callerIDStr, _ := r.Context().Value("userID").(string)
		if callerIDStr != subAdminID.Hex() {
			utils.RespondWithError(w, http.StatusForbidden, "access denied to this ledger")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var ledger models.UsedAssets
	err = usedAssetsCollection.FindOne(ctx, bson.M{"subAdminId": subAdminID}).Decode(&ledger)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "no consumption recorded for this sub-admin")
			return
		}
		log.Printf("used assets find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ledger)
}
