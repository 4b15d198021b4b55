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

type availabilityHandler struct {
	noBatch
}

type availabilityPayload struct {
	ID           string  `json:"id"`
	TechnicianID *string `json:"technicianId"`
	DayOfWeek    *int    `json:"dayOfWeek"`
	SpecificDate *string `json:"specificDate"`
	StartTime    *string `json:"startTime"`
	EndTime      *string `json:"endTime"`
	IsFullDay    *bool   `json:"isFullDay"`
	IsRecurring  *bool   `json:"isRecurring"`
}

// validateAvailabilityState checks the discriminator and time invariants
// on a complete (merged) record: recurring entries carry a day of week,
// one-off entries carry a specific date, and the time pair must be
// ordered unless the entry spans the whole day.
func validateAvailabilityState(rec *models.Availability) string {
	if rec.IsRecurring {
		if rec.DayOfWeek == nil {
			return "dayOfWeek is required for recurring availabilities"
		}
		if *rec.DayOfWeek < 0 || *rec.DayOfWeek > 6 {
			return "dayOfWeek must be between 0 and 6"
		}
	} else {
		if rec.SpecificDate == nil || *rec.SpecificDate == "" {
			return "specificDate is required for non-recurring availabilities"
		}
		if !IsValidDate(*rec.SpecificDate) {
			return "specificDate must be in YYYY-MM-DD format"
		}
	}
	if !rec.IsFullDay {
		if rec.StartTime == nil || rec.EndTime == nil {
			return "startTime and endTime are required unless isFullDay is set"
		}
		if msg := ValidateTimeLogic(*rec.StartTime, *rec.EndTime, false); msg != "" {
			return msg
		}
	} else {
		if rec.StartTime != nil && !ValidateTimeFormat(*rec.StartTime) {
			return fmt.Sprintf("startTime %q is not a valid HH:mm time", *rec.StartTime)
		}
		if rec.EndTime != nil && !ValidateTimeFormat(*rec.EndTime) {
			return fmt.Sprintf("endTime %q is not a valid HH:mm time", *rec.EndTime)
		}
	}
	return ""
}

func (availabilityHandler) Put(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p availabilityPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	if !hasText(p.TechnicianID) {
		return ValidationError("technicianId is required")
	}

	record := models.Availability{
		ID:           p.ID,
		TechnicianID: *p.TechnicianID,
		DayOfWeek:    p.DayOfWeek,
		SpecificDate: p.SpecificDate,
		StartTime:    p.StartTime,
		EndTime:      p.EndTime,
		IsFullDay:    p.IsFullDay != nil && *p.IsFullDay,
		IsRecurring:  p.IsRecurring != nil && *p.IsRecurring,
	}
	if msg := validateAvailabilityState(&record); msg != "" {
		return ValidationError(msg)
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to save availability: %v", err))
	}
	return SuccessResult(record)
}

func (availabilityHandler) Patch(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p availabilityPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}

	var existing models.Availability
	if err := db.Where("id = ?", p.ID).Take(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError(fmt.Sprintf("availability %s not found", p.ID))
		}
		return ServerError(fmt.Sprintf("failed to load availability: %v", err))
	}

	// Merge the patch over the stored record, then validate the whole
	// thing: flipping isRecurring or isFullDay changes which of the other
	// fields are required.
	merged := existing
	updates := map[string]any{}
	if p.TechnicianID != nil {
		if !hasText(p.TechnicianID) {
			return ValidationError("technicianId must not be empty")
		}
		merged.TechnicianID = *p.TechnicianID
		updates["technician_id"] = *p.TechnicianID
	}
	if p.DayOfWeek != nil {
		merged.DayOfWeek = p.DayOfWeek
		updates["day_of_week"] = *p.DayOfWeek
	}
	if p.SpecificDate != nil {
		merged.SpecificDate = p.SpecificDate
		updates["specific_date"] = *p.SpecificDate
	}
	if p.StartTime != nil {
		merged.StartTime = p.StartTime
		updates["start_time"] = *p.StartTime
	}
	if p.EndTime != nil {
		merged.EndTime = p.EndTime
		updates["end_time"] = *p.EndTime
	}
	if p.IsFullDay != nil {
		merged.IsFullDay = *p.IsFullDay
		updates["is_full_day"] = *p.IsFullDay
	}
	if p.IsRecurring != nil {
		merged.IsRecurring = *p.IsRecurring
		updates["is_recurring"] = *p.IsRecurring
	}
	if len(updates) == 0 {
		return ValidationError("no updatable fields supplied")
	}
	if msg := validateAvailabilityState(&merged); msg != "" {
		return ValidationError(msg)
	}

	if err := db.Model(&models.Availability{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to update availability: %v", err))
	}

	var updated models.Availability
	if err := db.Where("id = ?", p.ID).Take(&updated).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to reload availability: %v", err))
	}
	return SuccessResult(updated)
}

func (availabilityHandler) Delete(_ context.Context, db *gorm.DB, id string) Result {
	if !IsValidObjectID(id) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	res := db.Delete(&models.Availability{}, "id = ?", id)
	if res.Error != nil {
		return ServerError(fmt.Sprintf("failed to delete availability: %v", res.Error))
	}
	if res.RowsAffected == 0 {
		return NotFoundError(fmt.Sprintf("availability %s not found", id))
	}
	return SuccessResult(map[string]any{"id": id, "deleted": true})
}
