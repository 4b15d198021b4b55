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

const timeOffID1 = "64b0f1f1f1f1f1f1f1f1f1f1"

func TestTimeOffPut(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantOK     bool
		wantStatus string
	}{
		{
			name:       "defaults to pending",
			data:       `{"technicianId":"t1","startDate":"2026-03-02","endDate":"2026-03-06"}`,
			wantOK:     true,
			wantStatus: "pending",
		},
		{
			name:       "explicit status",
			data:       `{"technicianId":"t1","startDate":"2026-03-02","endDate":"2026-03-06","status":"approved"}`,
			wantOK:     true,
			wantStatus: "approved",
		},
		{
			name: "start after end",
			data: `{"technicianId":"t1","startDate":"2026-03-07","endDate":"2026-03-06"}`,
		},
		{
			name: "unknown status",
			data: `{"technicianId":"t1","startDate":"2026-03-02","endDate":"2026-03-06","status":"maybe"}`,
		},
		{
			name: "bad date format",
			data: `{"technicianId":"t1","startDate":"02/03/2026","endDate":"2026-03-06"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			h := timeOffHandler{noBatch{"timeoffrequests"}}

			payload := fmt.Sprintf(`{"id":%q,%s`, timeOffID1, tt.data[1:])
			res := h.Put(context.Background(), db, json.RawMessage(payload))

			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, res.Status)
				assert.Equal(t, ErrValidation, res.Error)
				var n int64
				require.NoError(t, db.Model(&models.TimeOffRequest{}).Count(&n).Error)
				assert.Zero(t, n)
				return
			}
			require.True(t, res.Success, res.Message)
			var stored models.TimeOffRequest
			require.NoError(t, db.Where("id = ?", timeOffID1).Take(&stored).Error)
			assert.Equal(t, tt.wantStatus, stored.Status)
		})
	}
}

func TestTimeOffPatchMergedDateOrdering(t *testing.T) {
	db := newTestDB(t)
	h := timeOffHandler{noBatch{"timeoffrequests"}}

	rec := models.TimeOffRequest{
		ID: timeOffID1, TechnicianID: "t1",
		StartDate: "2026-03-02", EndDate: "2026-03-06", Status: "pending",
	}
	require.NoError(t, db.Create(&rec).Error)

	// Only the end date moves, crossing the stored start date.
	res := h.Patch(context.Background(), db, json.RawMessage(
		fmt.Sprintf(`{"id":%q,"endDate":"2026-03-01"}`, timeOffID1)))
	assert.Equal(t, ErrValidation, res.Error)

	var stored models.TimeOffRequest
	require.NoError(t, db.Where("id = ?", timeOffID1).Take(&stored).Error)
	assert.Equal(t, "2026-03-06", stored.EndDate)

	// Moving both together is fine.
	res = h.Patch(context.Background(), db, json.RawMessage(
		fmt.Sprintf(`{"id":%q,"startDate":"2026-02-20","endDate":"2026-03-01"}`, timeOffID1)))
	assert.True(t, res.Success, res.Message)
}

func TestTimeOffDelete(t *testing.T) {
	db := newTestDB(t)
	h := timeOffHandler{noBatch{"timeoffrequests"}}

	res := h.Delete(context.Background(), db, timeOffID1)
	assert.Equal(t, http.StatusNotFound, res.Status)
	assert.Equal(t, ErrNotFound, res.Error)

	rec := models.TimeOffRequest{
		ID: timeOffID1, TechnicianID: "t1",
		StartDate: "2026-03-02", EndDate: "2026-03-06", Status: "pending",
	}
	require.NoError(t, db.Create(&rec).Error)

	res = h.Delete(context.Background(), db, timeOffID1)
	assert.True(t, res.Success)
}
