package inventory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/YugalRajVimal/dairy-management-server-sub000/models"
)

var (
	testSubAdmin = primitive.NewObjectID()
	testNow      = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
)

func i64(v int64) *int64 { return &v }

func str(v string) *string { return &v }

func flex(joined string) *FlexStrings {
	f := FlexStrings(ParseCodeSet(joined).Codes())
	return &f
}

func counts(pairs map[string]int64) models.EquipmentCounts {
	var c models.EquipmentCounts
	for f, v := range pairs {
		c.Set(f, v)
	}
	return c
}

func issuance(quantities map[string]int64, dps, bond string) *models.IssuedAssets {
	return &models.IssuedAssets{
		SubAdminID:      testSubAdmin,
		EquipmentCounts: counts(quantities),
		DPS:             dps,
		Bond:            bond,
	}
}

func TestPlanCreate(t *testing.T) {
	t.Run("creates record and initializes ledger", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001", Can: i64(5), VLCName: str(" Hilltop Unit ")}
		issued := issuance(map[string]int64{"can": 10}, "", "")

		plan, err := PlanCreate(req, testSubAdmin, nil, issued, nil, nil, testNow)
		require.NoError(t, err)

		assert.Equal(t, "V001", plan.Asset.VLCCode)
		assert.Equal(t, testSubAdmin, plan.Asset.UploadedBy)
		assert.Equal(t, int64(5), plan.Asset.Can)
		assert.Equal(t, "Hilltop Unit", plan.Asset.VLCName)
		assert.Empty(t, plan.Asset.History)

		assert.False(t, plan.LedgerExisted)
		assert.Equal(t, int64(5), plan.Ledger.Can)
		assert.Equal(t, testSubAdmin, plan.Ledger.SubAdminID)
		assert.Empty(t, plan.Ledger.History)
	})

	t.Run("charges existing ledger with history snapshot", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V002", Can: i64(3), Lid: i64(2), DPS: flex("D2")}
		issued := issuance(map[string]int64{"can": 10, "lid": 5}, "D1,D2", "")
		ledger := &models.UsedAssets{
			SubAdminID:      testSubAdmin,
			EquipmentCounts: counts(map[string]int64{"can": 5}),
			DPS:             "D1",
		}

		plan, err := PlanCreate(req, testSubAdmin, nil, issued, ledger, nil, testNow)
		require.NoError(t, err)

		assert.True(t, plan.LedgerExisted)
		assert.Equal(t, int64(8), plan.Ledger.Can)
		assert.Equal(t, int64(2), plan.Ledger.Lid)
		assert.Equal(t, "D1,D2", plan.Ledger.DPS)

		require.Len(t, plan.Ledger.History, 1)
		assert.Equal(t, int64(5), plan.Ledger.History[0].Can)
		assert.Equal(t, "D1", plan.Ledger.History[0].DPS)
		assert.Equal(t, testNow, plan.Ledger.History[0].ChangedOn)
	})

	t.Run("rejects duplicate vlc code", func(t *testing.T) {
		existing := &models.VLCAsset{VLCCode: "V001"}
		req := &AssetRequest{VLCCode: "V001"}
		issued := issuance(map[string]int64{}, "", "")

		_, err := PlanCreate(req, testSubAdmin, existing, issued, nil, nil, testNow)
		var dup *DuplicateVlcCodeError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "V001", dup.VLCCode)
		assert.Same(t, existing, dup.Existing)
	})

	t.Run("rejects missing issuance", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001"}
		_, err := PlanCreate(req, testSubAdmin, nil, nil, nil, nil, testNow)
		var noIssue *NoIssuanceError
		require.ErrorAs(t, err, &noIssue)
	})

	t.Run("rejects codes never issued to the sub-admin", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001", DPS: flex("D1,D9"), Bond: flex("B7")}
		issued := issuance(map[string]int64{}, "D1,D2", "B1")

		_, err := PlanCreate(req, testSubAdmin, nil, issued, nil, nil, testNow)
		var notIssued *NotIssuedError
		require.ErrorAs(t, err, &notIssued)
		assert.Equal(t, []string{"D9"}, notIssued.MissingDPS)
		assert.Equal(t, []string{"B7"}, notIssued.MissingBond)
	})

	t.Run("rejects codes attached to another record", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V002", DPS: flex("D1,D2")}
		issued := issuance(map[string]int64{}, "D1,D2", "")
		others := []models.VLCAsset{
			{VLCCode: "V900", DPS: "D1,D9"},
			{VLCCode: "V901", DPS: "D8"},
		}

		_, err := PlanCreate(req, testSubAdmin, nil, issued, nil, others, testNow)
		var conflict *CodeConflictError
		require.ErrorAs(t, err, &conflict)
		require.Len(t, conflict.Conflicts, 1)
		assert.Equal(t, "V900", conflict.Conflicts[0].VLCCode)
		assert.Equal(t, []string{"D1"}, conflict.Conflicts[0].OverlappingCodes)
	})

	t.Run("rejects over-budget quantities listing every shortage", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001", Can: i64(7), Lid: i64(4)}
		issued := issuance(map[string]int64{"can": 10, "lid": 3}, "", "")
		ledger := &models.UsedAssets{
			SubAdminID:      testSubAdmin,
			EquipmentCounts: counts(map[string]int64{"can": 6}),
		}

		_, err := PlanCreate(req, testSubAdmin, nil, issued, ledger, nil, testNow)
		var short *InsufficientInventoryError
		require.ErrorAs(t, err, &short)
		require.Len(t, short.Shortages, 2)
		assert.Equal(t, FieldShortage{Field: "can", Issued: 10, Used: 6, Available: 4, Requested: 7}, short.Shortages[0])
		assert.Equal(t, FieldShortage{Field: "lid", Issued: 3, Used: 0, Available: 3, Requested: 4}, short.Shortages[1])
	})
}

func baselineAsset() *models.VLCAsset {
	return &models.VLCAsset{
		ID:              primitive.NewObjectID(),
		VLCCode:         "V001",
		UploadedBy:      testSubAdmin,
		VLCName:         "Hilltop Unit",
		EquipmentCounts: counts(map[string]int64{"can": 5}),
		DPS:             "D1",
		History:         []models.VLCAssetHistory{},
	}
}

func baselineLedger() *models.UsedAssets {
	return &models.UsedAssets{
		ID:              primitive.NewObjectID(),
		SubAdminID:      testSubAdmin,
		EquipmentCounts: counts(map[string]int64{"can": 5}),
		DPS:             "D1",
		History:         []models.UsedAssetsHistory{},
	}
}

func TestPlanUpdate(t *testing.T) {
	issued := issuance(map[string]int64{"can": 10}, "D1,D2,D3", "B1")

	t.Run("rejects unknown record", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V404", Can: i64(1)}
		_, err := PlanUpdate(req, testSubAdmin, nil, issued, baselineLedger(), nil, testNow)
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("rejects updates to another sub-admin's record", func(t *testing.T) {
		// Shrinking someone else's record would credit the delta to the
		// wrong ledger: actor used.can=10, owner's record claims 5 cans.
		actor := primitive.NewObjectID()
		actorIssued := &models.IssuedAssets{
			SubAdminID:      actor,
			EquipmentCounts: counts(map[string]int64{"can": 10}),
		}
		actorLedger := &models.UsedAssets{
			SubAdminID:      actor,
			EquipmentCounts: counts(map[string]int64{"can": 10}),
		}

		req := &AssetRequest{VLCCode: "V001", Can: i64(3)}
		_, err := PlanUpdate(req, actor, baselineAsset(), actorIssued, actorLedger, nil, testNow)
		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "V001", notFound.VLCCode)
	})

	t.Run("rejects a no-op update", func(t *testing.T) {
		req := &AssetRequest{
			VLCCode: "V001",
			Can:     i64(5),
			VLCName: str("  Hilltop Unit  "),
			DPS:     flex("D1"),
		}
		_, err := PlanUpdate(req, testSubAdmin, baselineAsset(), issued, baselineLedger(), nil, testNow)
		var noChange *NoChangeError
		require.ErrorAs(t, err, &noChange)
	})

	t.Run("rejects missing issuance", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001", Can: i64(6)}
		_, err := PlanUpdate(req, testSubAdmin, baselineAsset(), nil, baselineLedger(), nil, testNow)
		var noIssue *NoIssuanceError
		require.ErrorAs(t, err, &noIssue)
	})

	t.Run("rejects quantities above the replace-aware budget", func(t *testing.T) {
		// available = issued(10) - used(5) + own prior(5) = 10
		req := &AssetRequest{VLCCode: "V001", Can: i64(12)}
		_, err := PlanUpdate(req, testSubAdmin, baselineAsset(), issued, baselineLedger(), nil, testNow)
		var short *InsufficientInventoryError
		require.ErrorAs(t, err, &short)
		require.Len(t, short.Shortages, 1)
		assert.Equal(t, FieldShortage{Field: "can", Issued: 10, Used: 5, Available: 10, Requested: 12}, short.Shortages[0])
	})

	t.Run("applies numeric delta to the ledger", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001", Can: i64(8)}
		plan, err := PlanUpdate(req, testSubAdmin, baselineAsset(), issued, baselineLedger(), nil, testNow)
		require.NoError(t, err)

		assert.Equal(t, int64(8), plan.Asset.Can)
		assert.Equal(t, int64(8), plan.Ledger.Can) // 5 + (8-5)
		assert.Empty(t, plan.ClampedFields)
	})

	t.Run("appends one pre-change history snapshot", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001", Can: i64(8), VLCName: str("Renamed")}
		current := baselineAsset()
		plan, err := PlanUpdate(req, testSubAdmin, current, issued, baselineLedger(), nil, testNow)
		require.NoError(t, err)

		require.Len(t, plan.Asset.History, 1)
		snap := plan.Asset.History[0]
		assert.Equal(t, int64(5), snap.Can)
		assert.Equal(t, "Hilltop Unit", snap.VLCName)
		assert.Equal(t, "D1", snap.DPS)
		assert.Equal(t, testNow, snap.ChangedOn)

		require.Len(t, plan.Ledger.History, 1)
		assert.Equal(t, int64(5), plan.Ledger.History[0].Can)
	})

	t.Run("omitted fields retain prior values", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001", VLCName: str("Renamed")}
		plan, err := PlanUpdate(req, testSubAdmin, baselineAsset(), issued, baselineLedger(), nil, testNow)
		require.NoError(t, err)

		assert.Equal(t, int64(5), plan.Asset.Can)
		assert.Equal(t, "D1", plan.Asset.DPS)
		assert.Equal(t, int64(5), plan.Ledger.Can)
	})

	t.Run("rejects a code already spent on another record", func(t *testing.T) {
		// D2 sits in the ledger via some other record; introducing it
		// here would double-count.
		req := &AssetRequest{VLCCode: "V001", DPS: flex("D1,D2")}
		ledger := baselineLedger()
		ledger.DPS = "D1,D2"

		_, err := PlanUpdate(req, testSubAdmin, baselineAsset(), issued, ledger, nil, testNow)
		var used *AlreadyUsedError
		require.ErrorAs(t, err, &used)
		assert.Equal(t, []string{"D2"}, used.DPS)
		assert.Empty(t, used.Bond)
	})

	t.Run("allows re-submitting codes the record already owns", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001", Can: i64(6), DPS: flex("D1")}
		_, err := PlanUpdate(req, testSubAdmin, baselineAsset(), issued, baselineLedger(), nil, testNow)
		require.NoError(t, err)
	})

	t.Run("rejects full new code set outside issuance", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001", DPS: flex("D1,D7")}
		_, err := PlanUpdate(req, testSubAdmin, baselineAsset(), issued, baselineLedger(), nil, testNow)
		var notIssued *NotIssuedError
		require.ErrorAs(t, err, &notIssued)
		assert.Equal(t, []string{"D7"}, notIssued.MissingDPS)
	})

	t.Run("rejects conflicts with other records excluding itself", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001", DPS: flex("D1,D2")}
		others := []models.VLCAsset{
			{VLCCode: "V001", DPS: "D1"}, // the record under update, skipped
			{VLCCode: "V777", DPS: "D2"},
		}
		_, err := PlanUpdate(req, testSubAdmin, baselineAsset(), issued, baselineLedger(), others, testNow)
		var conflict *CodeConflictError
		require.ErrorAs(t, err, &conflict)
		require.Len(t, conflict.Conflicts, 1)
		assert.Equal(t, "V777", conflict.Conflicts[0].VLCCode)
	})

	t.Run("dropped codes leave the ledger used set", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001", DPS: flex("D2")}
		ledger := baselineLedger()
		ledger.DPS = "D1"

		plan, err := PlanUpdate(req, testSubAdmin, baselineAsset(), issued, ledger, nil, testNow)
		require.NoError(t, err)

		assert.Equal(t, "D2", plan.Asset.DPS)
		got := ParseCodeSet(plan.Ledger.DPS)
		assert.False(t, got.Contains("D1"))
		assert.True(t, got.Contains("D2"))
	})

	t.Run("clearing all codes empties record set and frees ledger codes", func(t *testing.T) {
		req := &AssetRequest{VLCCode: "V001", DPS: flex("")}
		ledger := baselineLedger()

		plan, err := PlanUpdate(req, testSubAdmin, baselineAsset(), issued, ledger, nil, testNow)
		require.NoError(t, err)

		assert.Equal(t, "", plan.Asset.DPS)
		assert.False(t, ParseCodeSet(plan.Ledger.DPS).Contains("D1"))
	})

	t.Run("ledger counters clamp at zero and report the field", func(t *testing.T) {
		// Record still claims 5 cans but the ledger only carries 3:
		// dropping to zero would drive the counter to -2.
		req := &AssetRequest{VLCCode: "V001", Can: i64(0)}
		ledger := baselineLedger()
		ledger.EquipmentCounts = counts(map[string]int64{"can": 3})

		plan, err := PlanUpdate(req, testSubAdmin, baselineAsset(), issued, ledger, nil, testNow)
		require.NoError(t, err)

		assert.Equal(t, int64(0), plan.Ledger.Can)
		assert.Equal(t, []string{"can"}, plan.ClampedFields)
	})
}

// Budget invariant: after any successful plan, ledger used never exceeds
// issued on any field.
func TestLedgerNeverExceedsIssuance(t *testing.T) {
	issued := issuance(map[string]int64{"can": 10, "lid": 4}, "D1,D2", "")

	plan, err := PlanCreate(&AssetRequest{VLCCode: "V001", Can: i64(10), Lid: i64(4)},
		testSubAdmin, nil, issued, nil, nil, testNow)
	require.NoError(t, err)
	for _, f := range models.EquipmentFields {
		assert.LessOrEqual(t, plan.Ledger.Get(f), issued.Get(f), f)
	}

	current := plan.Asset
	ledger := plan.Ledger
	up, err := PlanUpdate(&AssetRequest{VLCCode: "V001", Can: i64(7)},
		testSubAdmin, &current, issued, &ledger, nil, testNow)
	require.NoError(t, err)
	for _, f := range models.EquipmentFields {
		assert.LessOrEqual(t, up.Ledger.Get(f), issued.Get(f), f)
	}
}

// History immutability: planning an update must not mutate the loaded
// documents; snapshots accumulate without rewriting prior entries.
func TestPlanDoesNotMutateInputs(t *testing.T) {
	issued := issuance(map[string]int64{"can": 10}, "D1,D2,D3", "")
	current := baselineAsset()
	ledger := baselineLedger()

	_, err := PlanUpdate(&AssetRequest{VLCCode: "V001", Can: i64(8)},
		testSubAdmin, current, issued, ledger, nil, testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(5), current.Can)
	assert.Empty(t, current.History)
	assert.Equal(t, int64(5), ledger.Can)
	assert.Empty(t, ledger.History)
}

// Release-then-reuse: once an update drops a code from the first
// record's set and its ledger, the same code is free for a fresh create
// (as issued to the other party).
func TestDroppedCodeBecomesReusable(t *testing.T) {
	issued := issuance(map[string]int64{"can": 10}, "D1,D2,D3", "")

	drop, err := PlanUpdate(&AssetRequest{VLCCode: "V001", DPS: flex("D2")},
		testSubAdmin, baselineAsset(), issued, baselineLedger(), nil, testNow)
	require.NoError(t, err)
	require.False(t, ParseCodeSet(drop.Ledger.DPS).Contains("D1"))

	otherSub := primitive.NewObjectID()
	otherIssued := &models.IssuedAssets{SubAdminID: otherSub, DPS: "D1"}
	updatedFirst := drop.Asset

	plan, err := PlanCreate(&AssetRequest{VLCCode: "V050", DPS: flex("D1")},
		otherSub, nil, otherIssued, nil, []models.VLCAsset{updatedFirst}, testNow)
	require.NoError(t, err)
	assert.Equal(t, "D1", plan.Asset.DPS)
}
