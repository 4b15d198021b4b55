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

type scheduleHandler struct {
	noBatch
}

type schedulePayload struct {
	ID           string  `json:"id"`
	ClientID     *string `json:"clientId"`
	TechnicianID *string `json:"technicianId"`
	Date         *string `json:"date"`
	StartTime    *string `json:"startTime"`
	EndTime      *string `json:"endTime"`
	Status       *string `json:"status"`
	JobType      *string `json:"jobType"`
	Address      *string `json:"address"`
	Notes        *string `json:"notes"`
}

func (scheduleHandler) Put(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p schedulePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	if !hasText(p.TechnicianID) {
		return ValidationError("technicianId is required")
	}
	if !hasText(p.Date) || !IsValidDate(*p.Date) {
		return ValidationError("date is required in YYYY-MM-DD format")
	}
	if !hasText(p.StartTime) || !hasText(p.EndTime) {
		return ValidationError("startTime and endTime are required")
	}
	if msg := ValidateTimeLogic(*p.StartTime, *p.EndTime, false); msg != "" {
		return ValidationError(msg)
	}

	status := strVal(p.Status)
	if status == "" {
		status = "scheduled"
	}
	record := models.Schedule{
		ID:           p.ID,
		ClientID:     p.ClientID,
		TechnicianID: *p.TechnicianID,
		Date:         *p.Date,
		StartTime:    *p.StartTime,
		EndTime:      *p.EndTime,
		Status:       status,
		JobType:      p.JobType,
		Address:      p.Address,
		Notes:        p.Notes,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to save schedule: %v", err))
	}
	return SuccessResult(record)
}

func (scheduleHandler) Patch(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p schedulePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}

	var existing models.Schedule
	if err := db.Where("id = ?", p.ID).Take(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError(fmt.Sprintf("schedule %s not found", p.ID))
		}
		return ServerError(fmt.Sprintf("failed to load schedule: %v", err))
	}

	updates := map[string]any{}
	if p.ClientID != nil {
		updates["client_id"] = *p.ClientID
	}
	if p.TechnicianID != nil {
		if !hasText(p.TechnicianID) {
			return ValidationError("technicianId must not be empty")
		}
		updates["technician_id"] = *p.TechnicianID
	}
	if p.Date != nil {
		if !IsValidDate(*p.Date) {
			return ValidationError("date must be in YYYY-MM-DD format")
		}
		updates["date"] = *p.Date
	}

	// Time boundaries are validated against the merged record so a patch
	// moving only one edge cannot invert the pair.
	start, end := existing.StartTime, existing.EndTime
	if p.StartTime != nil {
		start = *p.StartTime
		updates["start_time"] = *p.StartTime
	}
	if p.EndTime != nil {
		end = *p.EndTime
		updates["end_time"] = *p.EndTime
	}
	if p.StartTime != nil || p.EndTime != nil {
		if msg := ValidateTimeLogic(start, end, false); msg != "" {
			return ValidationError(msg)
		}
	}

	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.JobType != nil {
		updates["job_type"] = *p.JobType
	}
	if p.Address != nil {
		updates["address"] = *p.Address
	}
	if p.Notes != nil {
		updates["notes"] = *p.Notes
	}
	if len(updates) == 0 {
		return ValidationError("no updatable fields supplied")
	}

	if err := db.Model(&models.Schedule{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to update schedule: %v", err))
	}

	var updated models.Schedule
	if err := db.Where("id = ?", p.ID).Take(&updated).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to reload schedule: %v", err))
	}
	return SuccessResult(updated)
}

func (scheduleHandler) Delete(_ context.Context, db *gorm.DB, id string) Result {
	if !IsValidObjectID(id) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	res := db.Delete(&models.Schedule{}, "id = ?", id)
	if res.Error != nil {
		return ServerError(fmt.Sprintf("failed to delete schedule: %v", res.Error))
	}
	if res.RowsAffected == 0 {
		return NotFoundError(fmt.Sprintf("schedule %s not found", id))
	}
	return SuccessResult(map[string]any{"id": id, "deleted": true})
}
