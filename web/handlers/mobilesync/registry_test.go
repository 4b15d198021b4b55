package mobilesync

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryTables(t *testing.T) {
	reg := NewRegistry(&fakeBlobStore{status: "ok"})

	assert.Equal(t, []string{
		"availabilities", "expopushtokens", "invoices", "payrollperiods",
		"photos", "reports", "schedules", "timeoffrequests",
	}, reg.Tables())

	_, ok := reg.Lookup("photos")
	assert.True(t, ok)
	_, ok = reg.Lookup("customers")
	assert.False(t, ok)
}

func TestBatchPutRejectedForNonPhotoTables(t *testing.T) {
	db := newTestDB(t)
	reg := NewRegistry(&fakeBlobStore{status: "ok"})

	for _, table := range reg.Tables() {
		if table == "photos" {
			continue
		}
		t.Run(table, func(t *testing.T) {
			h, ok := reg.Lookup(table)
			require.True(t, ok)

			res := h.BatchPut(context.Background(), db, json.RawMessage(`[]`))
			assert.Equal(t, ErrValidation, res.Error)
			assert.Contains(t, res.Message, table)
		})
	}
}

func TestOnlyPhotosSupportBatchPatch(t *testing.T) {
	reg := NewRegistry(&fakeBlobStore{status: "ok"})

	for _, table := range reg.Tables() {
		h, _ := reg.Lookup(table)
		_, supported := h.(BatchPatcher)
		assert.Equal(t, table == "photos", supported, table)
	}
}
