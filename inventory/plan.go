// inventory/plan.go
//
// Pure planning logic for the asset reconciliation workflow. Given the
// documents loaded inside a transaction snapshot, the planners validate
// the request and compute the exact asset record and ledger state to
// persist. Keeping this free of database handles makes every invariant
// unit-testable; the reconciler owns loading and committing.
package inventory

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/YugalRajVimal/dairy-management-server-sub000/models"
)

// CreatePlan is the pair of writes a successful create commits together.
type CreatePlan struct {
	Asset         models.VLCAsset
	Ledger        models.UsedAssets
	LedgerExisted bool
	// ClampedFields lists ledger counters the zero floor actually
	// clamped; the reconciler logs them.
	ClampedFields []string
}

// UpdatePlan is the pair of writes a successful update commits together.
type UpdatePlan struct {
	Asset         models.VLCAsset
	Ledger        models.UsedAssets
	LedgerExisted bool
	ClampedFields []string
}

// checkNoConflict intersects the candidate codes with the stored code
// sets of all other asset records, excluding excludeVLC (the record under
// update). pick selects the dps or bond column.
func checkNoConflict(candidates CodeSet, others []models.VLCAsset, excludeVLC string, pick func(*models.VLCAsset) string) []CodeConflict {
	if candidates.IsEmpty() {
		return nil
	}
	var conflicts []CodeConflict
	for i := range others {
		rec := &others[i]
		if rec.VLCCode == excludeVLC {
			continue
		}
		stored := pick(rec)
		if stored == "" {
			continue
		}
		overlap := candidates.Intersect(ParseCodeSet(stored))
		if !overlap.IsEmpty() {
			conflicts = append(conflicts, CodeConflict{
				VLCCode:          rec.VLCCode,
				OverlappingCodes: overlap.Codes(),
			})
		}
	}
	return conflicts
}

// checkIssuedMembership returns candidate codes missing from the
// sub-admin's issued pool.
func checkIssuedMembership(candidates, issued CodeSet) []string {
	return candidates.Diff(issued).Codes()
}

// checkNotAlreadyUsed returns candidate codes already spent in the
// ledger that were not part of this record's own previous value. A code
// the record already owns is not double-counting.
func checkNotAlreadyUsed(candidates, ledgerUsed, previouslyOwned CodeSet) []string {
	var out []string
	for _, c := range candidates.Codes() {
		if ledgerUsed.Contains(c) && !previouslyOwned.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// checkAvailability evaluates every numeric field against the issued
// ceiling. priorContribution is zero on create; on update it is the
// record's own existing counts, added back because the new value replaces
// rather than adds to it.
func checkAvailability(requested, issued, used, priorContribution models.EquipmentCounts) []FieldShortage {
	var shortages []FieldShortage
	for _, f := range models.EquipmentFields {
		available := issued.Get(f) - used.Get(f) + priorContribution.Get(f)
		if requested.Get(f) > available {
			shortages = append(shortages, FieldShortage{
				Field:     f,
				Issued:    issued.Get(f),
				Used:      used.Get(f),
				Available: available,
				Requested: requested.Get(f),
			})
		}
	}
	return shortages
}

// PlanCreate validates a create request against the loaded documents and
// returns the writes to commit. existing is the record already stored
// under the requested vlcCode, if any; issued is the sub-admin's
// issuance entry (nil means none); ledger is the sub-admin's used-assets
// entry (nil means not yet created); others are all stored asset records.
func PlanCreate(req *AssetRequest, subAdminID primitive.ObjectID, existing *models.VLCAsset,
	issued *models.IssuedAssets, ledger *models.UsedAssets, others []models.VLCAsset, now time.Time) (*CreatePlan, error) {

	vlcCode := strings.TrimSpace(req.VLCCode)
	if existing != nil {
		return nil, &DuplicateVlcCodeError{VLCCode: vlcCode, Existing: existing}
	}
	if issued == nil {
		return nil, &NoIssuanceError{SubAdminID: subAdminID.Hex()}
	}

	dpsSet, _ := req.requestedDPS()
	bondSet, _ := req.requestedBond()

	issuedDPS := ParseCodeSet(issued.DPS)
	issuedBond := ParseCodeSet(issued.Bond)
	missingDPS := checkIssuedMembership(dpsSet, issuedDPS)
	missingBond := checkIssuedMembership(bondSet, issuedBond)
	if len(missingDPS) > 0 || len(missingBond) > 0 {
		return nil, &NotIssuedError{MissingDPS: missingDPS, MissingBond: missingBond}
	}

	conflicts := checkNoConflict(dpsSet, others, vlcCode, func(a *models.VLCAsset) string { return a.DPS })
	conflicts = append(conflicts, checkNoConflict(bondSet, others, vlcCode, func(a *models.VLCAsset) string { return a.Bond })...)
	if len(conflicts) > 0 {
		return nil, &CodeConflictError{Conflicts: conflicts}
	}

	requested := req.appliedCounts(models.EquipmentCounts{})
	var used models.EquipmentCounts
	if ledger != nil {
		used = ledger.EquipmentCounts
	}
	if shortages := checkAvailability(requested, issued.EquipmentCounts, used, models.EquipmentCounts{}); len(shortages) > 0 {
		return nil, &InsufficientInventoryError{Shortages: shortages}
	}

	asset := models.VLCAsset{
		ID:              primitive.NewObjectID(),
		VLCCode:         vlcCode,
		UploadedBy:      subAdminID,
		EquipmentCounts: requested,
		DPS:             dpsSet.Join(),
		Bond:            bondSet.Join(),
		History:         []models.VLCAssetHistory{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, tf := range textFields {
		if p := tf.req(req); p != nil {
			tf.set(&asset, strings.TrimSpace(*p))
		}
	}

	plan := &CreatePlan{Asset: asset}
	if ledger == nil {
		plan.Ledger = models.UsedAssets{
			ID:              primitive.NewObjectID(),
			SubAdminID:      subAdminID,
			EquipmentCounts: requested,
			DPS:             dpsSet.Join(),
			Bond:            bondSet.Join(),
			History:         []models.UsedAssetsHistory{},
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		return plan, nil
	}

	next := *ledger
	next.History = append(next.History, ledger.Snapshot(now))
	for _, f := range models.EquipmentFields {
		next.Set(f, next.Get(f)+requested.Get(f))
	}
	next.DPS = ParseCodeSet(ledger.DPS).Union(dpsSet).Join()
	next.Bond = ParseCodeSet(ledger.Bond).Union(bondSet).Join()
	next.UpdatedAt = now
	plan.Ledger = next
	plan.LedgerExisted = true
	return plan, nil
}

// PlanUpdate validates a partial update against the loaded documents and
// returns the writes to commit. current must be the stored record for
// req.VLCCode.
func PlanUpdate(req *AssetRequest, subAdminID primitive.ObjectID, current *models.VLCAsset,
	issued *models.IssuedAssets, ledger *models.UsedAssets, others []models.VLCAsset, now time.Time) (*UpdatePlan, error) {

	if current == nil {
		return nil, &NotFoundError{VLCCode: strings.TrimSpace(req.VLCCode)}
	}
	// Only the uploading sub-admin reconciles a record; its charges live
	// on that ledger. Non-owners get the same answer as a missing record.
	if current.UploadedBy != subAdminID {
		return nil, &NotFoundError{VLCCode: current.VLCCode}
	}
	if !req.hasChanges(current) {
		return nil, &NoChangeError{VLCCode: current.VLCCode}
	}
	if issued == nil {
		return nil, &NoIssuanceError{SubAdminID: subAdminID.Hex()}
	}

	oldDPS := ParseCodeSet(current.DPS)
	oldBond := ParseCodeSet(current.Bond)
	newDPS := oldDPS
	if set, ok := req.requestedDPS(); ok {
		newDPS = set
	}
	newBond := oldBond
	if set, ok := req.requestedBond(); ok {
		newBond = set
	}

	var ledgerCounts models.EquipmentCounts
	ledgerDPS, ledgerBond := CodeSet{}, CodeSet{}
	if ledger != nil {
		ledgerCounts = ledger.EquipmentCounts
		ledgerDPS = ParseCodeSet(ledger.DPS)
		ledgerBond = ParseCodeSet(ledger.Bond)
	}

	// Newly-introduced codes must not already be spent on another record.
	usedDPS := checkNotAlreadyUsed(newDPS.Diff(oldDPS), ledgerDPS, oldDPS)
	usedBond := checkNotAlreadyUsed(newBond.Diff(oldBond), ledgerBond, oldBond)
	if len(usedDPS) > 0 || len(usedBond) > 0 {
		return nil, &AlreadyUsedError{DPS: usedDPS, Bond: usedBond}
	}

	missingDPS := checkIssuedMembership(newDPS, ParseCodeSet(issued.DPS))
	missingBond := checkIssuedMembership(newBond, ParseCodeSet(issued.Bond))
	if len(missingDPS) > 0 || len(missingBond) > 0 {
		return nil, &NotIssuedError{MissingDPS: missingDPS, MissingBond: missingBond}
	}

	conflicts := checkNoConflict(newDPS, others, current.VLCCode, func(a *models.VLCAsset) string { return a.DPS })
	conflicts = append(conflicts, checkNoConflict(newBond, others, current.VLCCode, func(a *models.VLCAsset) string { return a.Bond })...)
	if len(conflicts) > 0 {
		return nil, &CodeConflictError{Conflicts: conflicts}
	}

	requested := req.appliedCounts(current.EquipmentCounts)
	if shortages := checkAvailability(requested, issued.EquipmentCounts, ledgerCounts, current.EquipmentCounts); len(shortages) > 0 {
		return nil, &InsufficientInventoryError{Shortages: shortages}
	}

	asset := *current
	asset.History = append(asset.History, current.Snapshot(now))
	asset.EquipmentCounts = requested
	asset.DPS = newDPS.Join()
	asset.Bond = newBond.Join()
	for _, tf := range textFields {
		if p := tf.req(req); p != nil {
			tf.set(&asset, strings.TrimSpace(*p))
		}
	}
	asset.UpdatedAt = now

	next := models.UsedAssets{
		ID:         primitive.NewObjectID(),
		SubAdminID: subAdminID,
		History:    []models.UsedAssetsHistory{},
		CreatedAt:  now,
	}
	ledgerExisted := ledger != nil
	if ledgerExisted {
		next = *ledger
		next.History = append(next.History, ledger.Snapshot(now))
	}

	var clamped []string
	for _, f := range models.EquipmentFields {
		delta := requested.Get(f) - current.Get(f)
		total := next.Get(f) + delta
		if total < 0 {
			clamped = append(clamped, f)
			total = 0
		}
		next.Set(f, total)
	}

	// Codes the record dropped leave the ledger's used set; everything in
	// the new sets is (re)unioned in. Codes kept on the record are never
	// "returned" by the union alone.
	removedDPS := oldDPS.Diff(newDPS)
	removedBond := oldBond.Diff(newBond)
	next.DPS = ledgerDPS.Diff(removedDPS).Union(newDPS).Join()
	next.Bond = ledgerBond.Diff(removedBond).Union(newBond).Join()
	next.UpdatedAt = now

	return &UpdatePlan{Asset: asset, Ledger: next, LedgerExisted: ledgerExisted, ClampedFields: clamped}, nil
}
