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

type invoiceHandler struct {
	noBatch
}

var invoiceStatuses = map[string]bool{
	"draft": true, "sent": true, "paid": true, "overdue": true, "void": true,
}

type invoicePayload struct {
	ID          string   `json:"id"`
	ClientID    *string  `json:"clientId"`
	ScheduleID  *string  `json:"scheduleId"`
	InvoiceNo   *string  `json:"invoiceNo"`
	AmountDue   *float64 `json:"amountDue"`
	Status      *string  `json:"status"`
	IssueDate   *string  `json:"issueDate"`
	DueDate     *string  `json:"dueDate"`
	PaymentLink *string  `json:"paymentLink"`
}

func validateInvoiceDates(p *invoicePayload) string {
	if p.IssueDate != nil && !IsValidDate(*p.IssueDate) {
		return "issueDate must be in YYYY-MM-DD format"
	}
	if p.DueDate != nil && !IsValidDate(*p.DueDate) {
		return "dueDate must be in YYYY-MM-DD format"
	}
	if p.ScheduleID != nil && !IsValidObjectID(*p.ScheduleID) {
		return "scheduleId must be a valid 24-character identifier"
	}
	if p.Status != nil && !invoiceStatuses[*p.Status] {
		return fmt.Sprintf("status %q is not a recognized invoice status", *p.Status)
	}
	return ""
}

func (invoiceHandler) Put(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p invoicePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	if !hasText(p.ClientID) {
		return ValidationError("clientId is required")
	}
	if p.AmountDue == nil || *p.AmountDue < 0 {
		return ValidationError("amountDue is required and must not be negative")
	}
	if msg := validateInvoiceDates(&p); msg != "" {
		return ValidationError(msg)
	}

	status := strVal(p.Status)
	if status == "" {
		status = "draft"
	}
	record := models.Invoice{
		ID:          p.ID,
		ClientID:    *p.ClientID,
		ScheduleID:  p.ScheduleID,
		InvoiceNo:   p.InvoiceNo,
		AmountDue:   *p.AmountDue,
		Status:      status,
		IssueDate:   p.IssueDate,
		DueDate:     p.DueDate,
		PaymentLink: p.PaymentLink,
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to save invoice: %v", err))
	}
	return SuccessResult(record)
}

func (invoiceHandler) Patch(_ context.Context, db *gorm.DB, data json.RawMessage) Result {
	var p invoicePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return ValidationError(decodeReason(err))
	}
	if !IsValidObjectID(p.ID) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	if msg := validateInvoiceDates(&p); msg != "" {
		return ValidationError(msg)
	}

	var existing models.Invoice
	if err := db.Where("id = ?", p.ID).Take(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError(fmt.Sprintf("invoice %s not found", p.ID))
		}
		return ServerError(fmt.Sprintf("failed to load invoice: %v", err))
	}

	updates := map[string]any{}
	if p.ClientID != nil {
		if !hasText(p.ClientID) {
			return ValidationError("clientId must not be empty")
		}
		updates["client_id"] = *p.ClientID
	}
	if p.ScheduleID != nil {
		updates["schedule_id"] = *p.ScheduleID
	}
	if p.InvoiceNo != nil {
		updates["invoice_no"] = *p.InvoiceNo
	}
	if p.AmountDue != nil {
		if *p.AmountDue < 0 {
			return ValidationError("amountDue must not be negative")
		}
		updates["amount_due"] = *p.AmountDue
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	if p.IssueDate != nil {
		updates["issue_date"] = *p.IssueDate
	}
	if p.DueDate != nil {
		updates["due_date"] = *p.DueDate
	}
	if p.PaymentLink != nil {
		updates["payment_link"] = *p.PaymentLink
	}
	if len(updates) == 0 {
		return ValidationError("no updatable fields supplied")
	}

	if err := db.Model(&models.Invoice{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to update invoice: %v", err))
	}

	var updated models.Invoice
	if err := db.Where("id = ?", p.ID).Take(&updated).Error; err != nil {
		return ServerError(fmt.Sprintf("failed to reload invoice: %v", err))
	}
	return SuccessResult(updated)
}

func (invoiceHandler) Delete(_ context.Context, db *gorm.DB, id string) Result {
	if !IsValidObjectID(id) {
		return ValidationError("id must be a valid 24-character identifier")
	}
	res := db.Delete(&models.Invoice{}, "id = ?", id)
	if res.Error != nil {
		return ServerError(fmt.Sprintf("failed to delete invoice: %v", res.Error))
	}
	if res.RowsAffected == 0 {
		return NotFoundError(fmt.Sprintf("invoice %s not found", id))
	}
	return SuccessResult(map[string]any{"id": id, "deleted": true})
}
