package mobilesync

import (
	"encoding/json"
	"errors"
	"fmt"
)

// decodeReason humanizes the decode failures the mobile client actually
// produces: a field of the wrong JSON type, or a body that is not a
// record at all.
func decodeReason(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("field '%s' must be of type %s", typeErr.Field, typeErr.Type.String())
	}
	return "malformed record payload"
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func hasText(p *string) bool {
	return p != nil && *p != ""
}
