package mobilesync

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// TableHandler is the five-operation contract every synced table
// implements. BatchPatch is optional; see BatchPatcher.
type TableHandler interface {
	Put(ctx context.Context, db *gorm.DB, data json.RawMessage) Result
	BatchPut(ctx context.Context, db *gorm.DB, data json.RawMessage) Result
	Patch(ctx context.Context, db *gorm.DB, data json.RawMessage) Result
	Delete(ctx context.Context, db *gorm.DB, id string) Result
}

// BatchPatcher is implemented only by tables that accept array-shaped
// PATCH payloads (currently photos).
type BatchPatcher interface {
	BatchPatch(ctx context.Context, db *gorm.DB, items json.RawMessage) Result
}

// BlobDestroyer removes one asset from the external object store. The
// returned status is the provider's result string: "ok", "not found",
// or something else when the asset is present but undeletable.
type BlobDestroyer interface {
	Destroy(ctx context.Context, publicID string) (string, error)
}

// Registry maps table names to handlers. It is built once at startup and
// never mutated afterwards, so concurrent lookups need no locking.
type Registry struct {
	handlers map[string]TableHandler
}

func NewRegistry(blobs BlobDestroyer) *Registry {
	return &Registry{handlers: map[string]TableHandler{
		"schedules":       scheduleHandler{noBatch{"schedules"}},
		"invoices":        invoiceHandler{noBatch{"invoices"}},
		"photos":          photoHandler{blobs: blobs},
		"availabilities":  availabilityHandler{noBatch{"availabilities"}},
		"timeoffrequests": timeOffHandler{noBatch{"timeoffrequests"}},
		"payrollperiods":  payrollPeriodHandler{noBatch{"payrollperiods"}},
		"reports":         reportHandler{noBatch{"reports"}},
		"expopushtokens":  pushTokenHandler{noBatch{"expopushtokens"}},
	}}
}

func (r *Registry) Lookup(table string) (TableHandler, bool) {
	h, ok := r.handlers[table]
	return h, ok
}

// Tables returns the supported table names, sorted for stable error
// messages.
func (r *Registry) Tables() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// noBatch rejects batch writes for tables where only the mobile photo
// capture workflow needs them.
type noBatch struct {
	table string
}

func (n noBatch) BatchPut(_ context.Context, _ *gorm.DB, _ json.RawMessage) Result {
	return ValidationError(fmt.Sprintf("batch put is not supported for table %s", n.table))
}
