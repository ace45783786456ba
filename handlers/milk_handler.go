// handlers/milk_handler.go
package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/YugalRajVimal/dairy-management-server-sub000/models"
	"github.com/YugalRajVimal/dairy-management-server-sub000/utils"
	"github.com/YugalRajVimal/dairy-management-server-sub000/websocket"
)

type MilkSaleRow struct {
	VendorID  string  `json:"vendorId"`
	RouteCode string  `json:"routeCode"`
	SaleDate  string  `json:"saleDate"` // YYYY-MM-DD
	Shift     string  `json:"shift"`
	QuantityL float64 `json:"quantityL"`
	Fat       float64 `json:"fat,omitempty"`
	SNF       float64 `json:"snf,omitempty"`
	Amount    float64 `json:"amount"`
}

func (row *MilkSaleRow) toModel(uploadedBy primitive.ObjectID, batchID string) (*models.MilkSale, string) {
	vendorID, err := primitive.ObjectIDFromHex(strings.TrimSpace(row.VendorID))
	if err != nil {
		return nil, "invalid vendorId"
	}
	saleDate, err := time.Parse("2006-01-02", strings.TrimSpace(row.SaleDate))
	if err != nil {
		return nil, "invalid saleDate, expected YYYY-MM-DD"
	}
	shift := strings.ToLower(strings.TrimSpace(row.Shift))
	if shift != "morning" && shift != "evening" {
		return nil, "shift must be morning or evening"
	}
	if row.QuantityL <= 0 {
		return nil, "quantityL must be positive"
	}
	if row.Amount < 0 {
		return nil, "amount must not be negative"
	}
	routeCode := strings.TrimSpace(row.RouteCode)
	if routeCode == "" {
		return nil, "routeCode is required"
	}

	return &models.MilkSale{
		ID:         primitive.NewObjectID(),
		VendorID:   vendorID,
		RouteCode:  routeCode,
		SaleDate:   saleDate,
		Shift:      shift,
		QuantityL:  row.QuantityL,
		Fat:        row.Fat,
		SNF:        row.SNF,
		Amount:     row.Amount,
		BatchID:    batchID,
		UploadedBy: uploadedBy,
		CreatedAt:  time.Now().UTC(),
	}, ""
}

// IngestMilkSale records a single manually entered row.
func IngestMilkSale(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _ := r.Context().Value("userID").(string)
	actorID, err := primitive.ObjectIDFromHex(actorIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var row MilkSaleRow
	if err := utils.ParseJSON(r, &row); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	sale, problem := row.toModel(actorID, "")
	if problem != "" {
		utils.RespondWithError(w, http.StatusBadRequest, problem)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := milkSaleCollection.InsertOne(ctx, sale); err != nil {
		log.Printf("milk sale insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to record milk sale")
		return
	}

	recordAudit(ctx, actorID, "milk_sale_ingest", "milk_sale", sale.ID.Hex(), bson.M{
		"routeCode": sale.RouteCode,
		"quantityL": sale.QuantityL,
	})

	utils.RespondWithJSON(w, http.StatusCreated, sale)
}

// IngestMilkSalesBulk records a batch of pre-parsed spreadsheet rows.
// The whole batch is validated up front and rejected on the first bad
// row; accepted batches share one batch id.
func IngestMilkSalesBulk(w http.ResponseWriter, r *http.Request) {
	actorIDStr, _ := r.Context().Value("userID").(string)
	actorID, err := primitive.ObjectIDFromHex(actorIDStr)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req struct {
		Rows []MilkSaleRow `json:"rows"`
	}
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if len(req.Rows) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "no rows provided")
		return
	}
	if len(req.Rows) > 5000 {
		utils.RespondWithError(w, http.StatusBadRequest, "batch too large, max 5000 rows")
		return
	}

	batchID := uuid.NewString()
	docs := make([]interface{}, 0, len(req.Rows))
	for i, row := range req.Rows {
		sale, problem := row.toModel(actorID, batchID)
		if problem != "" {
			utils.RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error": problem,
				"row":   i,
			})
			return
		}
		docs = append(docs, sale)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if _, err := milkSaleCollection.InsertMany(ctx, docs); err != nil {
		log.Printf("milk sales bulk insert error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to ingest milk sales batch")
		return
	}

	recordAudit(ctx, actorID, "milk_sales_bulk_ingest", "milk_sale_batch", batchID, bson.M{
		"rows": len(docs),
	})
	userName, _ := r.Context().Value("userName").(string)
	websocket.SendMilkSalesIngested(batchID, len(docs), actorIDStr, userName)

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"batchId": batchID,
		"rows":    len(docs),
	})
}

// ListMilkSales returns rows scoped by role: vendors see their own,
// supervisors their route, admins everything. Optional from/to date
// filters (YYYY-MM-DD).
func ListMilkSales(w http.ResponseWriter, r *http.Request) {
	userIDStr, _ := r.Context().Value("userID").(string)
	role, _ := r.Context().Value("userRole").(string)

	filter := bson.M{}
	switch role {
	case models.RoleVendor:
		vendorID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		filter["vendorId"] = vendorID
	case models.RoleSupervisor:
		route, err := callerRouteCode(r.Context(), userIDStr)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "failed to resolve supervisor route")
			return
		}
		if route == "" {
			utils.RespondWithJSON(w, http.StatusOK, []models.MilkSale{})
			return
		}
		filter["routeCode"] = route
	}

	if route := strings.TrimSpace(r.URL.Query().Get("route")); route != "" && role != models.RoleSupervisor {
		filter["routeCode"] = route
	}
	if dateFilter, err := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to")); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	} else if dateFilter != nil {
		filter["saleDate"] = dateFilter
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "saleDate", Value: -1}}).SetLimit(1000)
	cursor, err := milkSaleCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("milk sales Find error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "database query failed")
		return
	}
	defer cursor.Close(ctx)

	var sales []models.MilkSale
	if err = cursor.All(ctx, &sales); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode milk sales")
		return
	}
	if sales == nil {
		sales = []models.MilkSale{}
	}

	utils.RespondWithJSON(w, http.StatusOK, sales)
}

// MilkSalesReport aggregates totals per route over an optional date
// range (admin and supervisor only; supervisors are pinned to their
// route).
func MilkSalesReport(w http.ResponseWriter, r *http.Request) {
	userIDStr, _ := r.Context().Value("userID").(string)
	role, _ := r.Context().Value("userRole").(string)

	match := bson.M{}
	if role == models.RoleSupervisor {
		route, err := callerRouteCode(r.Context(), userIDStr)
		if err != nil || route == "" {
			utils.RespondWithJSON(w, http.StatusOK, []bson.M{})
			return
		}
		match["routeCode"] = route
	}
	if dateFilter, err := parseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to")); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	} else if dateFilter != nil {
		match["saleDate"] = dateFilter
	}

	pipeline := []bson.M{
		{"$match": match},
		{"$group": bson.M{
			"_id":        "$routeCode",
			"totalQty":   bson.M{"$sum": "$quantityL"},
			"totalSales": bson.M{"$sum": "$amount"},
			"rows":       bson.M{"$sum": 1},
			"avgFat":     bson.M{"$avg": "$fat"},
			"avgSNF":     bson.M{"$avg": "$snf"},
		}},
		{"$sort": bson.M{"_id": 1}},
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	cursor, err := milkSaleCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("milk sales aggregate error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "aggregation failed")
		return
	}
	defer cursor.Close(ctx)

	var report []bson.M
	if err = cursor.All(ctx, &report); err != nil {
		log.Printf("cursor decode error: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to decode report")
		return
	}
	if report == nil {
		report = []bson.M{}
	}

	utils.RespondWithJSON(w, http.StatusOK, report)
}

func callerRouteCode(ctx context.Context, userIDStr string) (string, error) {
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return "", err
	}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := userCollection.FindOne(c, bson.M{"_id": userID}).Decode(&user); err != nil {
		return "", err
	}
	return user.RouteCode, nil
}

func parseDateRange(from, to string) (bson.M, error) {
	rangeFilter := bson.M{}
	if from = strings.TrimSpace(from); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, errInvalidDate("from")
		}
		rangeFilter["$gte"] = t
	}
	if to = strings.TrimSpace(to); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, errInvalidDate("to")
		}
		rangeFilter["$lte"] = t.Add(24*time.Hour - time.Nanosecond)
	}
	if len(rangeFilter) == 0 {
		return nil, nil
	}
	return rangeFilter, nil
}

type errInvalidDate string

func (e errInvalidDate) Error() string {
	return "invalid " + string(e) + " date, expected YYYY-MM-DD"
}
