// inventory/reconciler.go
package inventory

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/YugalRajVimal/dairy-management-server-sub000/models"
)

// Reconciler commits asset-record and used-assets ledger writes as one
// unit. All reads happen inside the transaction snapshot so conflict and
// budget checks cannot race a concurrent commit; on a transient
// transaction error the whole operation is retried once from the top.
type Reconciler struct {
	client  *mongo.Client
	assets  *mongo.Collection
	ledgers *mongo.Collection
	issued  *mongo.Collection
}

func NewReconciler(client *mongo.Client, assets, ledgers, issued *mongo.Collection) *Reconciler {
	return &Reconciler{client: client, assets: assets, ledgers: ledgers, issued: issued}
}

// Create runs the full create workflow for the acting sub-admin and
// returns the persisted record.
func (r *Reconciler) Create(ctx context.Context, subAdminID primitive.ObjectID, req *AssetRequest) (*models.VLCAsset, error) {
	vlcCode := strings.TrimSpace(req.VLCCode)
	asset, err := r.run(ctx, func(sc mongo.SessionContext) (*models.VLCAsset, error) {
		existing, err := r.findAsset(sc, vlcCode)
		if err != nil {
			return nil, err
		}
		issued, err := r.findIssued(sc, subAdminID)
		if err != nil {
			return nil, err
		}
		ledger, err := r.findLedger(sc, subAdminID)
		if err != nil {
			return nil, err
		}
		others, err := r.codeBearingAssets(sc, vlcCode)
		if err != nil {
			return nil, err
		}

		plan, err := PlanCreate(req, subAdminID, existing, issued, ledger, others, time.Now().UTC())
		if err != nil {
			return nil, err
		}

		if _, err := r.assets.InsertOne(sc, plan.Asset); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, &DuplicateVlcCodeError{VLCCode: vlcCode}
			}
			return nil, err
		}
		if err := r.writeLedger(sc, subAdminID, plan.Ledger, plan.LedgerExisted); err != nil {
			return nil, err
		}
		logClamps(subAdminID, vlcCode, plan.ClampedFields)
		asset := plan.Asset
		return &asset, nil
	})
	if err != nil {
		// A lost concurrent-create race aborts with the record unloaded;
		// the winner's document is the one to echo back.
		var dup *DuplicateVlcCodeError
		if errors.As(err, &dup) && dup.Existing == nil {
			if existing, findErr := r.findAsset(ctx, vlcCode); findErr == nil && existing != nil {
				dup.Existing = existing
			}
		}
		return nil, err
	}
	return asset, nil
}

// Update runs the full partial-update workflow for the acting sub-admin
// and returns the persisted record.
func (r *Reconciler) Update(ctx context.Context, subAdminID primitive.ObjectID, req *AssetRequest) (*models.VLCAsset, error) {
	vlcCode := strings.TrimSpace(req.VLCCode)
	return r.run(ctx, func(sc mongo.SessionContext) (*models.VLCAsset, error) {
		current, err := r.findAsset(sc, vlcCode)
		if err != nil {
			return nil, err
		}
		issued, err := r.findIssued(sc, subAdminID)
		if err != nil {
			return nil, err
		}
		ledger, err := r.findLedger(sc, subAdminID)
		if err != nil {
			return nil, err
		}
		others, err := r.codeBearingAssets(sc, vlcCode)
		if err != nil {
			return nil, err
		}

		plan, err := PlanUpdate(req, subAdminID, current, issued, ledger, others, time.Now().UTC())
		if err != nil {
			return nil, err
		}

		res, err := r.assets.ReplaceOne(sc, bson.M{"vlcCode": vlcCode}, plan.Asset)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			// Record vanished between snapshot load and write.
			return nil, &NotFoundError{VLCCode: vlcCode}
		}
		if err := r.writeLedger(sc, subAdminID, plan.Ledger, plan.LedgerExisted); err != nil {
			return nil, err
		}
		logClamps(subAdminID, vlcCode, plan.ClampedFields)
		asset := plan.Asset
		return &asset, nil
	})
}

// run executes op inside a session transaction with one bounded retry on
// a transient failure. Business errors abort immediately and are never
// retried.
func (r *Reconciler) run(ctx context.Context, op func(mongo.SessionContext) (*models.VLCAsset, error)) (*models.VLCAsset, error) {
	var lastErr error
	for attempt := 0; attempt <= 1; attempt++ {
		session, err := r.client.StartSession()
		if err != nil {
			return nil, &TransactionError{Err: err}
		}
		result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return op(sc)
		})
		session.EndSession(ctx)

		if err == nil {
			return result.(*models.VLCAsset), nil
		}
		if IsBusinessError(err) {
			return nil, err
		}
		lastErr = err
		if !isTransient(err) {
			break
		}
		log.Printf("transient transaction error, retrying reconciliation (attempt %d): %v", attempt+1, err)
	}
	return nil, &TransactionError{Err: lastErr}
}

func (r *Reconciler) findAsset(ctx context.Context, vlcCode string) (*models.VLCAsset, error) {
	var asset models.VLCAsset
	err := r.assets.FindOne(ctx, bson.M{"vlcCode": vlcCode}).Decode(&asset)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *Reconciler) findIssued(ctx context.Context, subAdminID primitive.ObjectID) (*models.IssuedAssets, error) {
	var doc models.IssuedAssets
	err := r.issued.FindOne(ctx, bson.M{"subAdminId": subAdminID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *Reconciler) findLedger(ctx context.Context, subAdminID primitive.ObjectID) (*models.UsedAssets, error) {
	var doc models.UsedAssets
	err := r.ledgers.FindOne(ctx, bson.M{"subAdminId": subAdminID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// codeBearingAssets loads every other record with a non-empty dps or
// bond set, inside the transaction snapshot, for the conflict scan.
func (r *Reconciler) codeBearingAssets(ctx context.Context, excludeVLC string) ([]models.VLCAsset, error) {
	filter := bson.M{
		"vlcCode": bson.M{"$ne": excludeVLC},
		"$or": []bson.M{
			{"dps": bson.M{"$exists": true, "$nin": []interface{}{"", nil}}},
			{"bond": bson.M{"$exists": true, "$nin": []interface{}{"", nil}}},
		},
	}
	cursor, err := r.assets.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []models.VLCAsset
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Reconciler) writeLedger(ctx context.Context, subAdminID primitive.ObjectID, ledger models.UsedAssets, existed bool) error {
	if !existed {
		_, err := r.ledgers.InsertOne(ctx, ledger)
		return err
	}
	res, err := r.ledgers.ReplaceOne(ctx, bson.M{"subAdminId": subAdminID}, ledger)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("used-assets ledger disappeared mid-transaction")
	}
	return nil
}

func logClamps(subAdminID primitive.ObjectID, vlcCode string, fields []string) {
	if len(fields) == 0 {
		return
	}
	log.Printf("ledger clamp triggered for sub-admin %s on %s: fields %v floored at zero", subAdminID.Hex(), vlcCode, fields)
}

// IsBusinessError reports whether err is a caller-correctable rule
// violation rather than an infrastructure failure.
func IsBusinessError(err error) bool {
	var (
		dup      *DuplicateVlcCodeError
		notFound *NotFoundError
		noChange *NoChangeError
		noIssue  *NoIssuanceError
		notIss   *NotIssuedError
		conflict *CodeConflictError
		used     *AlreadyUsedError
		short    *InsufficientInventoryError
	)
	return errors.As(err, &dup) || errors.As(err, &notFound) || errors.As(err, &noChange) ||
		errors.As(err, &noIssue) || errors.As(err, &notIss) || errors.As(err, &conflict) ||
		errors.As(err, &used) || errors.As(err, &short)
}

func isTransient(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorLabel("TransientTransactionError") || se.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}
