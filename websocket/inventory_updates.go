package websocket

import (
	"encoding/json"
	"log"
	"time"
)

// InventoryUpdate is a real-time back-office event pushed to connected
// dashboards after a committed mutation.
type InventoryUpdate struct {
	Type      string      `json:"type"` // VLC_ASSET_CREATED, VLC_ASSET_UPDATED, ISSUED_ASSETS_UPSERT, MILK_SALES_INGESTED
	VLCCode   string      `json:"vlcCode,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	UserID    string      `json:"userId,omitempty"`
	UserName  string      `json:"userName,omitempty"`
}

// BroadcastInventoryUpdate sends the event to all connected clients.
func BroadcastInventoryUpdate(update InventoryUpdate) {
	data, err := json.Marshal(update)
	if err != nil {
		log.Printf("Failed to marshal inventory update: %v", err)
		return
	}
	broadcast(data)
}

// SendAssetCreated broadcasts a committed asset creation.
func SendAssetCreated(vlcCode string, asset interface{}, userID, userName string) {
	BroadcastInventoryUpdate(InventoryUpdate{
		Type:      "VLC_ASSET_CREATED",
		VLCCode:   vlcCode,
		Data:      asset,
		Timestamp: time.Now(),
		UserID:    userID,
		UserName:  userName,
	})
}

// SendAssetUpdated broadcasts a committed asset update.
func SendAssetUpdated(vlcCode string, asset interface{}, userID, userName string) {
	BroadcastInventoryUpdate(InventoryUpdate{
		Type:      "VLC_ASSET_UPDATED",
		VLCCode:   vlcCode,
		Data:      asset,
		Timestamp: time.Now(),
		UserID:    userID,
		UserName:  userName,
	})
}

// SendIssuedAssetsUpsert broadcasts a changed sub-admin allotment.
func SendIssuedAssetsUpsert(subAdminID string, issued interface{}, userID, userName string) {
	BroadcastInventoryUpdate(InventoryUpdate{
		Type:      "ISSUED_ASSETS_UPSERT",
		Data:      map[string]interface{}{"subAdminId": subAdminID, "issued": issued},
		Timestamp: time.Now(),
		UserID:    userID,
		UserName:  userName,
	})
}

// SendMilkSalesIngested broadcasts a completed milk-sales ingest batch.
func SendMilkSalesIngested(batchID string, count int, userID, userName string) {
	BroadcastInventoryUpdate(InventoryUpdate{
		Type:      "MILK_SALES_INGESTED",
		Data:      map[string]interface{}{"batchId": batchID, "rows": count},
		Timestamp: time.Now(),
		UserID:    userID,
		UserName:  userName,
	})
}
