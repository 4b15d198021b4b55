package mobilesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fieldsync.com/fieldsync/core/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type payrollPeriodHandler struct {
	noBatch
}

type payrollPeriodPayload struct {
	ID         string  `json:"id"`
	StartDate  *string `json:"startDate"`
	EndDate    *string `json:"endDate"`
	PayDate    *string `json:"payDate"`
	CutoffDate *string `json:"cutoffDate"`
}

// Each of the four dates is format-checked on its own; the payroll system
// downstream owns any ordering rules between them.
func (payrollPeriodHandler) Put(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p payrollPeriodPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	for field, value := range map[string]*string{
		"startDate": p.StartDate, "endDate": p.EndDate,
		"payDate": p.PayDate, "cutoffDate": p.CutoffDate,
	} {
		if !hasText(value) || !IsValidDate(*value) {
			return ValidationError(fmt.Sprintf("%s is required in YYYY-MM-DD format", field))
		}
	}

	record := models.PayrollPeriod{
		ID:         p.ID,
		StartDate:  *p.StartDate,
		EndDate:    *p.EndDate,
		PayDate:    *p.PayDate,
		CutoffDate: *p.CutoffDate,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to save payroll period: %v", err))
	}
	return SuccessResult(record)
}

func (payrollPeriodHandler) Patch(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p payrollPeriodPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}

	var existing models.PayrollPeriod
	if err := db.Where("id = ?", p.ID).Take(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError(fmt.Sprintf("payroll period %s not found", p.ID))
		}
		return ServerError(fmt.Sprintf("failed to load payroll period: %v", err))
	}

	updates := map[string]any{}
	for field, pair := range map[string]struct {
		column string
		value  *string
	}{
		"startDate":  {"start_date", p.StartDate},
		"endDate":    {"end_date", p.EndDate},
		"payDate":    {"pay_date", p.PayDate},
		"cutoffDate": {"cutoff_date", p.CutoffDate},
	} {
		if pair.value == nil {
			continue
		}
		if !IsValidDate(*pair.value) {
			return ValidationError(fmt.Sprintf("%s must be in YYYY-MM-DD format", field))
		}
		updates[pair.column] = *pair.value
	}
	if len(updates) == 0 {
		return ValidationError("no updatable fields supplied")
	}

	if err := db.Model(&models.PayrollPeriod{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to update payroll period: %v", err))
	}

	var updated models.PayrollPeriod
	if err := db.Where("id = ?", p.ID).Take(&updated).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to reload payroll period: %v", err))
	}
	return SuccessResult(updated)
}

func (payrollPeriodHandler) Delete(_ context.Context, db *gorm.DB, id string) Result {
	if !IsValidObjectID(id) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	res := db.Delete(&models.PayrollPeriod{}, "id = ?", id)
	if res.Error != nil {
		return ServerError(fmt.Sprintf("failed to delete payroll period: %v", res.Error))
	}
	if res.RowsAffected == 0 {
		return NotFoundError(fmt.Sprintf("payroll period %s not found", id))
	}
	return SuccessResult(map[string]any{"id": id, "deleted": true})
}
