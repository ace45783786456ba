// handlers/collections.go
package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/YugalRajVimal/dairy-management-server-sub000/config"
	"github.com/YugalRajVimal/dairy-management-server-sub000/database"
	"github.com/YugalRajVimal/dairy-management-server-sub000/inventory"
)

var (
	userCollection            *mongo.Collection
	vlcAssetCollection        *mongo.Collection
	usedAssetsCollection      *mongo.Collection
	issuedAssetsCollection    *mongo.Collection
	milkSaleCollection        *mongo.Collection
	routeAssignmentCollection *mongo.Collection
	auditLogCollection        *mongo.Collection

	reconciler *inventory.Reconciler
)

func InitCollections() {
	db := database.Client.Database(config.DatabaseName)
	userCollection = db.Collection("users")
	vlcAssetCollection = db.Collection("vlcassets")
	usedAssetsCollection = db.Collection("usedassets")
	issuedAssetsCollection = db.Collection("issuedassets")
	milkSaleCollection = db.Collection("milksales")
	routeAssignmentCollection = db.Collection("routeassignments")
	auditLogCollection = db.Collection("auditlogs")

	if err := ensureIndexes(db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	reconciler = inventory.NewReconciler(database.Client, vlcAssetCollection, usedAssetsCollection, issuedAssetsCollection)
}

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

// uniqueIndexes declares the uniqueness the write paths depend on: two
// concurrent creates of the same vlcCode, a second ledger or issuance doc
// for one sub-admin, and a reused email all have to surface as
// duplicate-key errors rather than silently forking documents.
func uniqueIndexes() []indexSpec {
	unique := options.Index().SetUnique(true)
	return []indexSpec{
		{"vlcassets", mongo.IndexModel{Keys: bson.D{{Key: "vlcCode", Value: 1}}, Options: unique}},
		{"usedassets", mongo.IndexModel{Keys: bson.D{{Key: "subAdminId", Value: 1}}, Options: unique}},
		{"issuedassets", mongo.IndexModel{Keys: bson.D{{Key: "subAdminId", Value: 1}}, Options: unique}},
		{"users", mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
	}
}

func ensureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	for _, spec := range uniqueIndexes() {
		if _, err := db.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model); err != nil {
			return fmt.Errorf("index on %s: %w", spec.collection, err)
		}
	}
	return nil
}
