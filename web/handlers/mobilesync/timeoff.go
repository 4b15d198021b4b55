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

type timeOffHandler struct {
	noBatch
}

var timeOffStatuses = map[string]bool{
	"pending": true, "approved": true, "rejected": true,
}

type timeOffPayload struct {
	ID           string  `json:"id"`
	TechnicianID *string `json:"technicianId"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Reason       *string `json:"reason"`
	Status       *string `json:"status"`
}

func (timeOffHandler) Put(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p timeOffPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	if !hasText(p.TechnicianID) {
		return ValidationError("technicianId is required")
	}
	if !hasText(p.StartDate) || !IsValidDate(*p.StartDate) {
		return ValidationError("startDate is required in YYYY-MM-DD format")
	}
	if !hasText(p.EndDate) || !IsValidDate(*p.EndDate) {
		return ValidationError("endDate is required in YYYY-MM-DD format")
	}
	if *p.StartDate > *p.EndDate {
		return ValidationError("startDate must not be after endDate")
	}
	status := strVal(p.Status)
	if status == "" {
		status = "pending"
	}
	if !timeOffStatuses[status] {
		return ValidationError(fmt.Sprintf("status %q is not one of pending, approved, rejected", status))
	}

	record := models.TimeOffRequest{
		ID:           p.ID,
		TechnicianID: *p.TechnicianID,
		StartDate:    *p.StartDate,
		EndDate:      *p.EndDate,
		Reason:       p.Reason,
		Status:       status,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to save time-off request: %v", err))
	}
	return SuccessResult(record)
}

func (timeOffHandler) Patch(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p timeOffPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}

	var existing models.TimeOffRequest
	if err := db.Where("id = ?", p.ID).Take(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError(fmt.Sprintf("time-off request %s not found", p.ID))
		}
		return ServerError(fmt.Sprintf("failed to load time-off request: %v", err))
	}

	updates := map[string]any{}
	if p.TechnicianID != nil {
		if !hasText(p.TechnicianID) {
			return ValidationError("technicianId must not be empty")
		}
		updates["technician_id"] = *p.TechnicianID
	}

	// Date ordering is checked on the merged record so that patching a
	// single boundary cannot cross the other one.
	start, end := existing.StartDate, existing.EndDate
	if p.StartDate != nil {
		if !IsValidDate(*p.StartDate) {
			return ValidationError("startDate must be in YYYY-MM-DD format")
		}
		start = *p.StartDate
		updates["start_date"] = *p.StartDate
	}
	if p.EndDate != nil {
		if !IsValidDate(*p.EndDate) {
			return ValidationError("endDate must be in YYYY-MM-DD format")
		}
		end = *p.EndDate
		updates["end_date"] = *p.EndDate
	}
	if start > end {
		return ValidationError("startDate must not be after endDate")
	}

	if p.Reason != nil {
		updates["reason"] = *p.Reason
	}
	if p.Status != nil {
		if !timeOffStatuses[*p.Status] {
			return ValidationError(fmt.Sprintf("status %q is not one of pending, approved, rejected", *p.Status))
		}
		updates["status"] = *p.Status
	}
	if len(updates) == 0 {
		return ValidationError("no updatable fields supplied")
	}

	if err := db.Model(&models.TimeOffRequest{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to update time-off request: %v", err))
	}

	var updated models.TimeOffRequest
	if err := db.Where("id = ?", p.ID).Take(&updated).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to reload time-off request: %v", err))
	}
	return SuccessResult(updated)
}

func (timeOffHandler) Delete(_ context.Context, db *gorm.DB, id string) Result {
	if !IsValidObjectID(id) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	res := db.Delete(&models.TimeOffRequest{}, "id = ?", id)
	if res.Error != nil {
		return ServerError(fmt.Sprintf("failed to delete time-off request: %v", res.Error))
	}
	if res.RowsAffected == 0 {
		return NotFoundError(fmt.Sprintf("time-off request %s not found", id))
	}
	return SuccessResult(map[string]any{"id": id, "deleted": true})
}
