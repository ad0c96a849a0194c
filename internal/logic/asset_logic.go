package logic

import (
	"errors"
	"fmt"

	"github.com/ShamirSecret/invest/internal/apperr"
	"github.com/ShamirSecret/invest/internal/logger"
	"github.com/ShamirSecret/invest/internal/model"
	"gorm.io/gorm"
)

// AssetLogic 标的目录业务逻辑
type AssetLogic struct {
	db *gorm.DB
}

// NewAssetLogic 创建标的目录业务逻辑
func NewAssetLogic(db *gorm.DB) *AssetLogic {
	return &AssetLogic{db: db}
}

// ListAssets 获取全部标的及其可用期限。
// 标的按创建时间倒序，期限按天数升序，只带出启用中的期限。
func (a *AssetLogic) ListAssets() ([]model.AssetModel, error) {
	var assets []model.AssetModel

	err := a.db.
		Preload("Terms", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("term_duration_days ASC")
		}).
		Order("created_at DESC").
		Find(&assets).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to list assets: %w", err))
	}

	return assets, nil
}

// GetAsset 获取单个标的详情
func (a *AssetLogic) GetAsset(id int64) (*model.AssetModel, error) {
	var asset model.AssetModel
	err := a.db.
		Preload("Terms", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("term_duration_days ASC")
		}).
		First(&asset, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.WithMessage(apperr.ErrNotFound, "Asset not found")
		}
		return nil, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to get asset: %w", err))
	}

	return &asset, nil
}

// CreateAsset 创建标的及其期限。
// 期限天数不在平台支持范围内的条目会被跳过，只记录警告。
func (a *AssetLogic) CreateAsset(asset *model.AssetModel, terms []model.AssetTermModel) (int64, error) {
	if err := a.validateAsset(asset, terms); err != nil {
		return 0, err
	}

	// 过滤不支持的期限
	accepted := make([]model.AssetTermModel, 0, len(terms))
	for _, term := range terms {
		if !model.IsRecognizedTermDuration(term.TermDurationDays) {
			logger.Warn("Skipping unrecognized term duration %d days for asset %s",
				term.TermDurationDays, asset.OnchainAssetId)
			continue
		}
		accepted = append(accepted, term)
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(asset).Error; err != nil {
			return err
		}

		for i := range accepted {
			accepted[i].Id = 0
			accepted[i].AssetId = asset.Id
			accepted[i].IsActive = true
			if err := tx.Create(&accepted[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to create asset: %w", err))
	}

	return asset.Id, nil
}

// ResolveTerm 解析投资期限。
// 期限必须属于指定标的且处于启用状态，否则视为无效选择。
func (a *AssetLogic) ResolveTerm(assetId, termId int64) (*model.AssetTermModel, *model.AssetModel, error) {
	var term model.AssetTermModel
	err := a.db.
		Where("term_id = ? AND asset_id = ? AND is_active = ?", termId, assetId, true).
		First(&term).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.ErrInvalidSelection
		}
		return nil, nil, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to resolve term: %w", err))
	}

	var asset model.AssetModel
	if err := a.db.First(&asset, assetId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.ErrInvalidSelection
		}
		return nil, nil, apperr.Wrap(apperr.ErrPersistence, fmt.Errorf("failed to load asset: %w", err))
	}

	return &term, &asset, nil
}

// validateAsset 验证标的数据
func (a *AssetLogic) validateAsset(asset *model.AssetModel, terms []model.AssetTermModel) error {
	if asset.OnchainAssetId == "" {
		return apperr.WithMessage(apperr.ErrValidation, "Onchain asset id is required")
	}
	if asset.Name == "" {
		return apperr.WithMessage(apperr.ErrValidation, "Asset name is required")
	}
	if asset.AssetType != model.AssetTypeTreasuryBond && asset.AssetType != model.AssetTypeCorporateBond {
		return apperr.WithMessage(apperr.ErrValidation, "Asset type must be us_treasury_bond or corporate_bond")
	}
	if len(terms) == 0 {
		return apperr.WithMessage(apperr.ErrValidation, "At least one term is required")
	}
	return nil
}
