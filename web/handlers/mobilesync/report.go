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

type reportHandler struct {
	noBatch
}

type reportPayload struct {
	ID            string   `json:"id"`
	ScheduleID    *string  `json:"scheduleId"`
	InvoiceID     *string  `json:"invoiceId"`
	TechnicianID  *string  `json:"technicianId"`
	Summary       *string  `json:"summary"`
	HoursWorked   *float64 `json:"hoursWorked"`
	MaterialsUsed *string  `json:"materialsUsed"`
}

func (reportHandler) Put(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p reportPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	if !hasText(p.ScheduleID) || !IsValidObjectID(*p.ScheduleID) {
		return ValidationError("scheduleId is required and must be a valid 24-character identifier")
	}
	if !hasText(p.InvoiceID) || !IsValidObjectID(*p.InvoiceID) {
		return ValidationError("invoiceId is required and must be a valid 24-character identifier")
	}
	if !hasText(p.TechnicianID) {
		return ValidationError("technicianId is required")
	}
	if p.HoursWorked != nil && *p.HoursWorked < 0 {
		return ValidationError("hoursWorked must not be negative")
	}

	// Both parents must exist at creation. Patch skips these checks since
	// the stored record has already been through them.
	var scheduleCount int64
	if err := db.Model(&models.Schedule{}).Where("id = ?", *p.ScheduleID).Count(&scheduleCount).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to check schedule: %v", err))
	}
	if scheduleCount == 0 {
		return NotFoundError(fmt.Sprintf("schedule %s not found", *p.ScheduleID))
	}
	var invoiceCount int64
	if err := db.Model(&models.Invoice{}).Where("id = ?", *p.InvoiceID).Count(&invoiceCount).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to check invoice: %v", err))
	}
	if invoiceCount == 0 {
		return NotFoundError(fmt.Sprintf("invoice %s not found", *p.InvoiceID))
	}

	record := models.Report{
		ID:            p.ID,
		ScheduleID:    *p.ScheduleID,
		InvoiceID:     *p.InvoiceID,
		TechnicianID:  *p.TechnicianID,
		Summary:       p.Summary,
		HoursWorked:   p.HoursWorked,
		MaterialsUsed: p.MaterialsUsed,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to save report: %v", err))
	}
	return SuccessResult(record)
}

func (reportHandler) Patch(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p reportPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}

	var existing models.Report
	if err := db.Where("id = ?", p.ID).Take(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError(fmt.Sprintf("report %s not found", p.ID))
		}
		return ServerError(fmt.Sprintf("failed to load report: %v", err))
	}

	updates := map[string]any{}
	if p.TechnicianID != nil {
		if !hasText(p.TechnicianID) {
			return ValidationError("technicianId must not be empty")
		}
		updates["technician_id"] = *p.TechnicianID
	}
	if p.Summary != nil {
		updates["summary"] = *p.Summary
	}
	if p.HoursWorked != nil {
		if *p.HoursWorked < 0 {
			return ValidationError("hoursWorked must not be negative")
		}
		updates["hours_worked"] = *p.HoursWorked
	}
	if p.MaterialsUsed != nil {
		updates["materials_used"] = *p.MaterialsUsed
	}
	if len(updates) == 0 {
		return ValidationError("no updatable fields supplied")
	}

	if err := db.Model(&models.Report{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to update report: %v", err))
	}

	var updated models.Report
	if err := db.Where("id = ?", p.ID).Take(&updated).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to reload report: %v", err))
	}
	return SuccessResult(updated)
}

func (reportHandler) Delete(_ context.Context, db *gorm.DB, id string) Result {
	if !IsValidObjectID(id) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	res := db.Delete(&models.Report{}, "id = ?", id)
	if res.Error != nil {
		return ServerError(fmt.Sprintf("failed to delete report: %v", res.Error))
	}
	if res.RowsAffected == 0 {
		return NotFoundError(fmt.Sprintf("report %s not found", id))
	}
	return SuccessResult(map[string]any{"id": id, "deleted": true})
}
