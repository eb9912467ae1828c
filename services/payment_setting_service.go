package services

import (
	"gorm.io/gorm"

	"github.com/kartlink/kartlink-api/models"
	"github.com/kartlink/kartlink-api/utils"
)

// CreatePaymentSetting persists a new setting. When the new record is active,
// every currently active sibling is demoted inside the same transaction so at
// most one row is ever active.
func CreatePaymentSetting(db *gorm.DB, setting *models.PaymentSetting) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if setting.IsActive {
			if err := demoteActiveSiblings(tx, 0); err != nil {
				return err
			}
		}
		return tx.Create(setting).Error
	})
	if err != nil {
		return &utils.UnexpectedError{Message: "Failed to save payment setting", Cause: err}
	}
	return nil
}

// UpdatePaymentSetting applies changes to an existing setting. Siblings are
// demoted only when the record transitions from inactive to active, compared
// against its previously persisted value.
func UpdatePaymentSetting(db *gorm.DB, setting *models.PaymentSetting) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var previous models.PaymentSetting
		if err := tx.Scopes(models.LockForUpdate).First(&previous, setting.ID).Error; err != nil {
			return err
		}

		if setting.IsActive && !previous.IsActive {
			if err := demoteActiveSiblings(tx, setting.ID); err != nil {
				return err
			}
		}

		return tx.Save(setting).Error
	})
	if err != nil {
		if utils.IsNotFound(err) {
			return &utils.NotFoundError{Message: "Payment setting not found"}
		}
		return &utils.UnexpectedError{Message: "Failed to save payment setting", Cause: err}
	}
	return nil
}

// demoteActiveSiblings deactivates every currently active setting. The
// siblings are read under a row lock first so two overlapping activations
// serialize instead of both demoting the same snapshot and committing two
// active rows.
func demoteActiveSiblings(tx *gorm.DB, exceptID uint) error {
	query := tx.Scopes(models.LockForUpdate).Where("is_active = ?", true)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}

	var siblings []models.PaymentSetting
	if err := query.Find(&siblings).Error; err != nil {
		return err
	}
	if len(siblings) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(siblings))
	for _, sibling := range siblings {
		ids = append(ids, sibling.ID)
	}
	return tx.Model(&models.PaymentSetting{}).Where("id IN ?", ids).Update("is_active", false).Error
}

// ActivePaymentSetting returns the single active setting, if any.
func ActivePaymentSetting(db *gorm.DB) (*models.PaymentSetting, error) {
	var setting models.PaymentSetting
	if err := db.Where("is_active = ?", true).First(&setting).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, &utils.NotFoundError{Message: "No active payment setting"}
		}
		return nil, &utils.UnexpectedError{Message: "Failed to load payment setting", Cause: err}
	}
	return &setting, nil
}
