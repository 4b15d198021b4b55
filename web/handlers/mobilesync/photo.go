package mobilesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fieldsync.com/fieldsync/core/models"
	"fieldsync.com/fieldsync/infrastructure/filesystem"
	"fieldsync.com/fieldsync/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// photoHandler is the only handler with batch operations and the only
// one that talks to the blob store. The binary asset lives in Cloudinary;
// the row only carries its URL.
type photoHandler struct {
	blobs BlobDestroyer
}

var photoTypes = map[string]bool{
	"before": true, "after": true, "estimate": true, "signature": true,
}

type photoPayload struct {
	ID            string  `json:"id"`
	ScheduleID    *string `json:"scheduleId"`
	TechnicianID  *string `json:"technicianId"`
	Type          *string `json:"type"`
	SignerName    *string `json:"signerName"`
	CloudinaryURL *string `json:"cloudinaryUrl"`
	Caption       *string `json:"caption"`
	TakenAt       *string `json:"takenAt"`
}

func validPhotoURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// validatePhotoPut checks one complete photo record. Referential
// existence of the schedule is checked separately so batches can resolve
// the whole reference set in one query.
func validatePhotoPut(p *photoPayload) string {
	if !IsValidObjectID(p.ID) {
		return "id must be a valid 24-character identifier"
	}
	if !hasText(p.ScheduleID) || !IsValidObjectID(*p.ScheduleID) {
		return "scheduleId is required and must be a valid 24-character identifier"
	}
	if !hasText(p.TechnicianID) {
		return "technicianId is required"
	}
	if !hasText(p.Type) {
		return "type is required"
	}
	if !photoTypes[*p.Type] {
		return fmt.Sprintf("type %q is not one of before, after, estimate, signature", *p.Type)
	}
	if *p.Type == "signature" && !hasText(p.SignerName) {
		return "signerName is required for signature photos"
	}
	if p.CloudinaryURL != nil && *p.CloudinaryURL != "" && !validPhotoURL(*p.CloudinaryURL) {
		return "cloudinaryUrl must be an http(s) URL"
	}
	return ""
}

func photoRecord(p photoPayload) models.Photo {
	return models.Photo{
		ID:            p.ID,
		ScheduleID:    *p.ScheduleID,
		TechnicianID:  *p.TechnicianID,
		Type:          *p.Type,
		SignerName:    p.SignerName,
		CloudinaryURL: p.CloudinaryURL,
		Caption:       p.Caption,
		TakenAt:       p.TakenAt,
	}
}

func (photoHandler) Put(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p photoPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if msg := validatePhotoPut(&p); msg != "" {
		return ValidationError(msg)
	}

	var count int64
	if err := db.Model(&models.Schedule{}).Where("id = ?", *p.ScheduleID).Count(&count).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to check schedule: %v", err))
	}
	if count == 0 {
		return NotFoundError(fmt.Sprintf("schedule %s not found", *p.ScheduleID))
	}

	record := photoRecord(p)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to save photo: %v", err))
	}
	return SuccessResult(record)
}

// BatchPut validates each item independently, resolves the distinct
// schedule references in one query, and bulk-upserts whatever survives.
// Bad items are demoted to skippedItems instead of failing the batch.
func (photoHandler) BatchPut(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	items, ok := batchItems(data)
	if !ok {
		return ValidationError("data must be an array of photos")
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(items, &raws); err != nil {
		return ValidationError("data must be an array of photos")
	}

	skipped := []SkippedItem{}
	var valid []photoPayload
	for _, raw := range raws {
		var p photoPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			skipped = append(skipped, SkippedItem{ID: p.ID, Reason: decodeReason(err), Code: ErrValidation})
			continue
		}
		if msg := validatePhotoPut(&p); msg != "" {
			skipped = append(skipped, SkippedItem{ID: p.ID, Reason: msg, Code: ErrValidation})
			continue
		}
		valid = append(valid, p)
	}

	// One existence query for the whole reference set, not one per item.
	scheduleSet := map[string]bool{}
	for _, p := range valid {
		scheduleSet[*p.ScheduleID] = true
	}
	existingSchedules := map[string]bool{}
	if len(scheduleSet) > 0 {
		ids := make([]string, 0, len(scheduleSet))
		for id := range scheduleSet {
			ids = append(ids, id)
		}
		var found []string
		if err := db.Model(&models.Schedule{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return ServerError(fmt.Sprintf("failed to check schedules: %v", err))
		}
		for _, id := range found {
			existingSchedules[id] = true
		}
	}

	writable := utils.Filter(valid, func(p photoPayload) bool {
		if !existingSchedules[*p.ScheduleID] {
			skipped = append(skipped, SkippedItem{
				ID:     p.ID,
				Reason: fmt.Sprintf("schedule %s does not exist", *p.ScheduleID),
				Code:   ErrMissingReference,
			})
			return false
		}
		return true
	})

	upserted, matched := 0, 0
	if len(writable) > 0 {
		ids := utils.Map(writable, func(p photoPayload) string { return p.ID })
		var present []string
		if err := db.Model(&models.Photo{}).Where("id IN ?", ids).Pluck("id", &present).Error; err != nil {
			return ServerError(fmt.Sprintf("failed to check existing photos: %v", err))
		}
		matched = len(present)
		upserted = len(writable) - matched

		records := utils.Map(writable, photoRecord)
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&records).Error; err != nil {
			return ServerError(fmt.Sprintf("failed to save photos: %v", err))
		}
	}

	return SuccessResult(map[string]any{
		"matched":      matched,
		"modified":     matched,
		"upserted":     upserted,
		"skipped":      len(skipped),
		"skippedItems": skipped,
	})
}

func (photoHandler) Patch(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p photoPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}

	var existing models.Photo
	if err := db.Where("id = ?", p.ID).Take(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError(fmt.Sprintf("photo %s not found", p.ID))
		}
		return ServerError(fmt.Sprintf("failed to load photo: %v", err))
	}

	updates, msg, _ := photoPatchUpdates(&p, &existing)
	if msg != "" {
		return ValidationError(msg)
	}

	if err := db.Model(&models.Photo{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to update photo: %v", err))
	}

	var updated models.Photo
	if err := db.Where("id = ?", p.ID).Take(&updated).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to reload photo: %v", err))
	}
	return SuccessResult(updated)
}

// photoPatchUpdates builds the column updates for one patch and
// validates the effective post-merge state, in particular the
// "signature requires signerName" rule when either side of it changes.
func photoPatchUpdates(p *photoPayload, existing *models.Photo) (map[string]any, string, string) {
	updates := map[string]any{}
	if p.TechnicianID != nil {
		if !hasText(p.TechnicianID) {
			return nil, "technicianId must not be empty", ErrValidation
		}
		updates["technician_id"] = *p.TechnicianID
	}
	if p.Type != nil {
		if !photoTypes[*p.Type] {
			return nil, fmt.Sprintf("type %q is not one of before, after, estimate, signature", *p.Type), ErrValidation
		}
		updates["type"] = *p.Type
	}
	if p.SignerName != nil {
		updates["signer_name"] = *p.SignerName
	}
	if p.CloudinaryURL != nil {
		if *p.CloudinaryURL != "" && !validPhotoURL(*p.CloudinaryURL) {
			return nil, "cloudinaryUrl must be an http(s) URL", ErrValidation
		}
		updates["cloudinary_url"] = *p.CloudinaryURL
	}
	if p.Caption != nil {
		updates["caption"] = *p.Caption
	}
	if p.TakenAt != nil {
		updates["taken_at"] = *p.TakenAt
	}
	if len(updates) == 0 {
		return nil, "no updatable fields supplied", ErrEmptyUpdate
	}

	effType := existing.Type
	if p.Type != nil {
		effType = *p.Type
	}
	effSigner := strVal(existing.SignerName)
	if p.SignerName != nil {
		effSigner = *p.SignerName
	}
	if effType == "signature" && effSigner == "" {
		return nil, "signerName is required for signature photos", ErrValidation
	}
	return updates, "", ""
}

// BatchPatch applies independent partial updates. On top of BatchPut's
// failure classes it skips ids that are absent (patch cannot create) and
// items carrying no recognized mutable field. A duplicate id within one
// batch is rejected on its second occurrence so earlier merge validation
// cannot be invalidated mid-batch.
func (photoHandler) BatchPatch(_ context.Context, db *gorm.DB, items json.RawMessage) Result {
	var raws []json.RawMessage
	if err := json.Unmarshal(items, &raws); err != nil {
		return ValidationError("data must be an array of photo patches")
	}

	skipped := []SkippedItem{}
	seen := map[string]bool{}
	var parsed []photoPayload
	var ids []string
	for _, raw := range raws {
		var p photoPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			skipped = append(skipped, SkippedItem{ID: p.ID, Reason: decodeReason(err), Code: ErrValidation})
			continue
		}
		if !IsValidObjectID(p.ID) {
			skipped = append(skipped, SkippedItem{ID: p.ID, Reason: "id must be a valid 24-character identifier", Code: ErrValidation})
			continue
		}
		if seen[p.ID] {
			skipped = append(skipped, SkippedItem{ID: p.ID, Reason: "duplicate id in batch", Code: ErrValidation})
			continue
		}
		seen[p.ID] = true
		parsed = append(parsed, p)
		ids = append(ids, p.ID)
	}

	existing := map[string]models.Photo{}
	if len(ids) > 0 {
		var rows []models.Photo
		if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return ServerError(fmt.Sprintf("failed to load photos: %v", err))
		}
		for _, row := range rows {
			existing[row.ID] = row
		}
	}

	type applyItem struct {
		id      string
		updates map[string]any
	}
	var applies []applyItem
	for _, p := range parsed {
		row, ok := existing[p.ID]
		if !ok {
			skipped = append(skipped, SkippedItem{ID: p.ID, Reason: "photo not found", Code: ErrNotFound})
			continue
		}
		updates, msg, code := photoPatchUpdates(&p, &row)
		if msg != "" {
			skipped = append(skipped, SkippedItem{ID: p.ID, Reason: msg, Code: code})
			continue
		}
		applies = append(applies, applyItem{id: p.ID, updates: updates})
	}

	if len(applies) > 0 {
		// One transaction so the set of per-item updates is submitted
		// together, mirroring a single bulk write.
		err := db.Transaction(func(tx *gorm.DB) error {
			for _, a := range applies {
				if err := tx.Model(&models.Photo{}).Where("id = ?", a.id).Updates(a.updates).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return ServerError(fmt.Sprintf("failed to update photos: %v", err))
		}
	}

	return SuccessResult(map[string]any{
		"matched":      len(applies),
		"modified":     len(applies),
		"skipped":      len(skipped),
		"skippedItems": skipped,
	})
}

// Delete keeps the row and the blob consistent: the asset is destroyed
// first, and the row is only removed once the store reports the asset
// gone. Deleting an absent row is success, so mobile retries after a
// dropped response stay quiet.
func (h photoHandler) Delete(ctx context.Context, db *gorm.DB, id string) Result {
	if !IsValidObjectID(id) {
		return ValidationError("id must be a valid 24-character identifier")
	}

	var photo models.Photo
	if err := db.Where("id = ?", id).Take(&photo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SuccessResult(map[string]any{"id": id, "alreadyDeleted": true})
		}
		return ServerError(fmt.Sprintf("failed to load photo: %v", err))
	}

	if hasText(photo.CloudinaryURL) {
		publicID := filesystem.ExtractPublicID(*photo.CloudinaryURL)
		status, err := h.blobs.Destroy(ctx, publicID)
		if err != nil {
			return CloudinaryError(fmt.Sprintf("failed to delete photo asset: %v", err))
		}
		if status != "ok" && status != "not found" {
			return CloudinaryError(fmt.Sprintf("photo asset deletion returned %q", status))
		}
	}

	if err := db.Delete(&models.Photo{}, "id = ?", id).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to delete photo: %v", err))
	}
	return SuccessResult(map[string]any{"id": id, "deleted": true})
}
