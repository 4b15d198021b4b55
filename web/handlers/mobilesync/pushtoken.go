package mobilesync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"fieldsync.com/fieldsync/core/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pushTokenHandler struct {
	noBatch
}

// Expo hands out tokens like ExponentPushToken[xxxxxxxx]; older clients
// still send the ExpoPushToken[...] spelling.
var expoTokenPattern = regexp.MustCompile(`^Expo(nent)?PushToken\[[A-Za-z0-9_-]+\]$`)

var pushPlatforms = map[string]bool{"ios": true, "android": true}

type pushTokenPayload struct {
	Token    *string `json:"token"`
	UserID   *string `json:"userId"`
	Platform *string `json:"platform"`
}

// Put upserts keyed on the token value itself: the token is the natural
// external identity, so the client never supplies an id.
func (pushTokenHandler) Put(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p pushTokenPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !hasText(p.Token) {
		return ValidationError("token is required")
	}
	if !expoTokenPattern.MatchString(*p.Token) {
		return ValidationError("token must be an Expo push token of the form ExponentPushToken[...]")
	}
	if p.Platform != nil && !pushPlatforms[*p.Platform] {
		return ValidationError(fmt.Sprintf("platform %q is not one of ios, android", *p.Platform))
	}

	record := models.ExpoPushToken{
		Token:    *p.Token,
		UserID:   p.UserID,
		Platform: p.Platform,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to save push token: %v", err))
	}
	return SuccessResult(record)
}

func (pushTokenHandler) Patch(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p pushTokenPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !hasText(p.Token) {
		return ValidationError("token is required")
	}

	var existing models.ExpoPushToken
	if err := db.Where("token = ?", *p.Token).Take(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("push token not found")
		}
		return ServerError(fmt.Sprintf("failed to load push token: %v", err))
	}

	updates := map[string]any{}
	if p.UserID != nil {
		updates["user_id"] = *p.UserID
	}
	if p.Platform != nil {
		if !pushPlatforms[*p.Platform] {
			return ValidationError(fmt.Sprintf("platform %q is not one of ios, android", *p.Platform))
		}
		updates["platform"] = *p.Platform
	}
	if len(updates) == 0 {
		return ValidationError("no updatable fields supplied")
	}

	if err := db.Model(&models.ExpoPushToken{}).Where("token = ?", *p.Token).Updates(updates).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to update push token: %v", err))
	}

	var updated models.ExpoPushToken
	if err := db.Where("token = ?", *p.Token).Take(&updated).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to reload push token: %v", err))
	}
	return SuccessResult(updated)
}

// Delete takes the token value in the envelope's id slot.
func (pushTokenHandler) Delete(_ context.Context, db *gorm.DB, id string) Result {
	res := db.Delete(&models.ExpoPushToken{}, "token = ?", id)
	if res.Error != nil {
		return ServerError(fmt.Sprintf("failed to delete push token: %v", res.Error))
	}
	if res.RowsAffected == 0 {
		return NotFoundError("push token not found")
	}
	return SuccessResult(map[string]any{"token": id, "deleted": true})
}
