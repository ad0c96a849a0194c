package logic

import (
	"testing"
	"time"

	"github.com/ShamirSecret/invest/internal/model"
	"github.com/ShamirSecret/invest/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestCreateAsset(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		l := NewAssetLogic(db)

		asset := &model.AssetModel{
			OnchainAssetId: "USTB-Q3-2025",
			Name:           "US Treasury Bond Q3 2025",
			AssetType:      model.AssetTypeTreasuryBond,
			Issuer:         "US Treasury",
		}
		terms := []model.AssetTermModel{
			{TermDurationDays: 30, TermLabel: "1 Month", Apy: decimal.RequireFromString("0.04")},
			{TermDurationDays: 90, TermLabel: "3 Months", Apy: decimal.RequireFromString("0.045")},
		}

		id, err := l.CreateAsset(asset, terms)
		testutil.AssertNoError(t, err)
		if id == 0 {
			t.Fatal("expected non-zero asset id")
		}

		var count int64
		db.Model(&model.AssetTermModel{}).Where("asset_id = ?", id).Count(&count)
		if count != 2 {
			t.Errorf("expected 2 terms, got %d", count)
		}
	})

	t.Run("missing_onchain_id", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		l := NewAssetLogic(db)

		_, err := l.CreateAsset(&model.AssetModel{
			Name:      "No Onchain Id",
			AssetType: model.AssetTypeTreasuryBond,
		}, []model.AssetTermModel{{TermDurationDays: 30, TermLabel: "1 Month"}})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("invalid_asset_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		l := NewAssetLogic(db)

		_, err := l.CreateAsset(&model.AssetModel{
			OnchainAssetId: "X-1",
			Name:           "Bad Type",
			AssetType:      "equity",
		}, []model.AssetTermModel{{TermDurationDays: 30, TermLabel: "1 Month"}})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("no_terms", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		l := NewAssetLogic(db)

		_, err := l.CreateAsset(&model.AssetModel{
			OnchainAssetId: "X-1",
			Name:           "No Terms",
			AssetType:      model.AssetTypeTreasuryBond,
		}, nil)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("unrecognized_duration_skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		l := NewAssetLogic(db)

		id, err := l.CreateAsset(&model.AssetModel{
			OnchainAssetId: "USTB-SKIP",
			Name:           "Skip Terms",
			AssetType:      model.AssetTypeTreasuryBond,
		}, []model.AssetTermModel{
			{TermDurationDays: 45, TermLabel: "45 Days", Apy: decimal.RequireFromString("0.05")},
			{TermDurationDays: 7, TermLabel: "1 Week", Apy: decimal.RequireFromString("0.035")},
		})
		testutil.AssertNoError(t, err)

		// 标的本身保留，45天期限被丢弃
		var terms []model.AssetTermModel
		db.Where("asset_id = ?", id).Find(&terms)
		if len(terms) != 1 {
			t.Fatalf("expected 1 term, got %d", len(terms))
		}
		if terms[0].TermDurationDays != 7 {
			t.Errorf("expected the 7 day term to survive, got %d days", terms[0].TermDurationDays)
		}
	})
}

func TestListAssets(t *testing.T) {
	t.Run("empty_catalog", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		l := NewAssetLogic(db)

		assets, err := l.ListAssets()
		testutil.AssertNoError(t, err)
		if len(assets) != 0 {
			t.Errorf("expected empty catalog, got %d assets", len(assets))
		}
	})

	t.Run("ordering_and_term_filter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		l := NewAssetLogic(db)

		older := &model.AssetModel{
			OnchainAssetId: "USTB-OLD",
			Name:           "Older Asset",
			AssetType:      model.AssetTypeTreasuryBond,
			CreatedAt:      time.Now().UTC().Add(-time.Hour),
		}
		newer := &model.AssetModel{
			OnchainAssetId: "CORPB-NEW",
			Name:           "Newer Asset",
			AssetType:      model.AssetTypeCorporateBond,
			CreatedAt:      time.Now().UTC(),
		}
		if err := db.Create(older).Error; err != nil {
			t.Fatal(err)
		}
		if err := db.Create(newer).Error; err != nil {
			t.Fatal(err)
		}

		testutil.CreateTestTerm(t, db, newer.Id, 90, "3 Months", "0.045", true)
		testutil.CreateTestTerm(t, db, newer.Id, 7, "1 Week", "0.035", true)
		testutil.CreateTestTerm(t, db, newer.Id, 30, "1 Month", "0.04", false) // 停用，不应返回

		assets, err := l.ListAssets()
		testutil.AssertNoError(t, err)
		if len(assets) != 2 {
			t.Fatalf("expected 2 assets, got %d", len(assets))
		}
		if assets[0].OnchainAssetId != "CORPB-NEW" {
			t.Errorf("expected newest asset first, got %s", assets[0].OnchainAssetId)
		}

		terms := assets[0].Terms
		if len(terms) != 2 {
			t.Fatalf("expected 2 active terms, got %d", len(terms))
		}
		if terms[0].TermDurationDays != 7 || terms[1].TermDurationDays != 90 {
			t.Errorf("expected terms ordered by duration, got %d then %d",
				terms[0].TermDurationDays, terms[1].TermDurationDays)
		}
	})
}

func TestResolveTerm(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		l := NewAssetLogic(db)
		asset := testutil.CreateTestAsset(t, db)

		term, resolved, err := l.ResolveTerm(asset.Id, asset.Terms[0].Id)
		testutil.AssertNoError(t, err)
		if term.TermDurationDays != 30 {
			t.Errorf("expected 30 day term, got %d", term.TermDurationDays)
		}
		if resolved.OnchainAssetId != asset.OnchainAssetId {
			t.Errorf("expected asset %s, got %s", asset.OnchainAssetId, resolved.OnchainAssetId)
		}
	})

	t.Run("term_of_other_asset", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		l := NewAssetLogic(db)
		assetA := testutil.CreateTestAsset(t, db)
		assetB := testutil.CreateTestAsset(t, db)

		_, _, err := l.ResolveTerm(assetA.Id, assetB.Terms[0].Id)
		testutil.AssertAppError(t, err, "INVALID_SELECTION")
	})

	t.Run("inactive_term", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		l := NewAssetLogic(db)
		asset := testutil.CreateTestAsset(t, db)
		inactive := testutil.CreateTestTerm(t, db, asset.Id, 90, "3 Months", "0.045", false)

		_, _, err := l.ResolveTerm(asset.Id, inactive.Id)
		testutil.AssertAppError(t, err, "INVALID_SELECTION")
	})

	t.Run("unknown_term", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		l := NewAssetLogic(db)
		asset := testutil.CreateTestAsset(t, db)

		_, _, err := l.ResolveTerm(asset.Id, 9999)
		testutil.AssertAppError(t, err, "INVALID_SELECTION")
	})
}
