package mobilesync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"fieldsync.com/fieldsync/core/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reportID1 = "64b091919191919191919191"

func TestSchedulePutAndPatch(t *testing.T) {
	db := newTestDB(t)
	h := scheduleHandler{noBatch{"schedules"}}

	data := fmt.Sprintf(`{"id":%q,"technicianId":"t1","date":"2026-03-02","startTime":"08:00","endTime":"16:00"}`, scheduleID1)
	res := h.Put(context.Background(), db, json.RawMessage(data))
	require.True(t, res.Success, res.Message)

	stored := res.Data.(models.Schedule)
	assert.Equal(t, "scheduled", stored.Status)

	// Moving only the end time before the stored start must fail.
	res = h.Patch(context.Background(), db, json.RawMessage(
		fmt.Sprintf(`{"id":%q,"endTime":"07:00"}`, scheduleID1)))
	assert.Equal(t, ErrValidation, res.Error)

	res = h.Patch(context.Background(), db, json.RawMessage(
		fmt.Sprintf(`{"id":%q,"status":"completed","notes":"done early"}`, scheduleID1)))
	require.True(t, res.Success, res.Message)

	updated := res.Data.(models.Schedule)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "done early", strVal(updated.Notes))
	// Untouched fields survive the patch.
	assert.Equal(t, "08:00", updated.StartTime)
}

func TestSchedulePutRejectsBadID(t *testing.T) {
	db := newTestDB(t)
	h := scheduleHandler{noBatch{"schedules"}}

	res := h.Put(context.Background(), db, json.RawMessage(
		`{"id":"abc","technicianId":"t1","date":"2026-03-02","startTime":"08:00","endTime":"16:00"}`))
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, ErrValidation, res.Error)
}

func TestInvoicePutValidation(t *testing.T) {
	db := newTestDB(t)
	h := invoiceHandler{noBatch{"invoices"}}

	tests := []struct {
		name string
		data string
	}{
		{"missing clientId", fmt.Sprintf(`{"id":%q,"amountDue":100}`, invoiceID1)},
		{"negative amount", fmt.Sprintf(`{"id":%q,"clientId":"c1","amountDue":-5}`, invoiceID1)},
		{"bad due date", fmt.Sprintf(`{"id":%q,"clientId":"c1","amountDue":100,"dueDate":"next week"}`, invoiceID1)},
		{"unknown status", fmt.Sprintf(`{"id":%q,"clientId":"c1","amountDue":100,"status":"maybe"}`, invoiceID1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.Put(context.Background(), db, json.RawMessage(tt.data))
			assert.Equal(t, ErrValidation, res.Error)
		})
	}

	res := h.Put(context.Background(), db, json.RawMessage(
		fmt.Sprintf(`{"id":%q,"clientId":"c1","amountDue":100,"dueDate":"2026-04-01"}`, invoiceID1)))
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "draft", res.Data.(models.Invoice).Status)
}

func TestPayrollPeriodPut(t *testing.T) {
	db := newTestDB(t)
	h := payrollPeriodHandler{noBatch{"payrollperiods"}}

	id := "64b081818181818181818181"
	res := h.Put(context.Background(), db, json.RawMessage(fmt.Sprintf(
		`{"id":%q,"startDate":"2026-03-01","endDate":"2026-03-14","payDate":"2026-03-18","cutoffDate":"2026-03-15"}`, id)))
	require.True(t, res.Success, res.Message)

	// Each date is format-checked on its own.
	res = h.Put(context.Background(), db, json.RawMessage(fmt.Sprintf(
		`{"id":%q,"startDate":"2026-03-01","endDate":"2026-03-14","payDate":"18 March","cutoffDate":"2026-03-15"}`, id)))
	assert.Equal(t, ErrValidation, res.Error)
	assert.Contains(t, res.Message, "payDate")
}

func TestReportPutChecksBothParents(t *testing.T) {
	db := newTestDB(t)
	h := reportHandler{noBatch{"reports"}}

	data := fmt.Sprintf(`{"id":%q,"scheduleId":%q,"invoiceId":%q,"technicianId":"t1","summary":"swapped filter"}`,
		reportID1, scheduleID1, invoiceID1)

	// Neither parent exists yet.
	res := h.Put(context.Background(), db, json.RawMessage(data))
	assert.Equal(t, http.StatusNotFound, res.Status)

	seedSchedule(t, db, scheduleID1)
	res = h.Put(context.Background(), db, json.RawMessage(data))
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Contains(t, res.Message, "invoice")

	seedInvoice(t, db, invoiceID1)
	res = h.Put(context.Background(), db, json.RawMessage(data))
	require.True(t, res.Success, res.Message)
}

func TestReportPatchSkipsReferentialChecks(t *testing.T) {
	db := newTestDB(t)
	h := reportHandler{noBatch{"reports"}}

	// Seed a report whose parents are gone; patch must still work since
	// the record already passed its checks at creation.
	rec := models.Report{ID: reportID1, ScheduleID: scheduleID1, InvoiceID: invoiceID1, TechnicianID: "t1"}
	require.NoError(t, db.Create(&rec).Error)

	res := h.Patch(context.Background(), db, json.RawMessage(
		fmt.Sprintf(`{"id":%q,"hoursWorked":3.5}`, reportID1)))
	require.True(t, res.Success, res.Message)

	updated := res.Data.(models.Report)
	require.NotNil(t, updated.HoursWorked)
	assert.Equal(t, 3.5, *updated.HoursWorked)
}
