package mobilesync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"fieldsync.com/fieldsync/web/common"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Envelope is the uniform request body for every sync verb.
type Envelope struct {
	Table string          `json:"table" binding:"required"`
	Data  json.RawMessage `json:"data" binding:"required"`
}

// DBExecutor runs a unit of work against a request-scoped database
// session. Satisfied by core.DatabaseManager.
type DBExecutor interface {
	Exec(ctx context.Context, fn func(db *gorm.DB) error) error
}

type Gateway struct {
	dm  DBExecutor
	reg *Registry
}

func NewGateway(dm DBExecutor, blobs BlobDestroyer) *Gateway {
	return &Gateway{dm: dm, reg: NewRegistry(blobs)}
}

// Register mounts the sync endpoint on an authenticated route group.
func Register(rg *gin.RouterGroup, dm DBExecutor, blobs BlobDestroyer) {
	g := NewGateway(dm, blobs)
	rg.PUT("/sync", g.HandlePut)
	rg.POST("/sync", g.HandleBatchPut)
	rg.PATCH("/sync", g.HandlePatch)
	rg.DELETE("/sync", g.HandleDelete)
}

func (g *Gateway) HandlePut(c *gin.Context) {
	g.dispatch(c, func(ctx context.Context, db *gorm.DB, h TableHandler, env Envelope) Result {
		if payloadShape(env.Data) != shapeObject {
			return ValidationError("data must be a single record object")
		}
		return h.Put(ctx, db, env.Data)
	})
}

func (g *Gateway) HandleBatchPut(c *gin.Context) {
	g.dispatch(c, func(ctx context.Context, db *gorm.DB, h TableHandler, env Envelope) Result {
		return h.BatchPut(ctx, db, env.Data)
	})
}

// HandlePatch routes array-shaped payloads to BatchPatch when the table
// supports it; everything else goes through the single-record path.
func (g *Gateway) HandlePatch(c *gin.Context) {
	g.dispatch(c, func(ctx context.Context, db *gorm.DB, h TableHandler, env Envelope) Result {
		if items, ok := batchItems(env.Data); ok {
			bp, supported := h.(BatchPatcher)
			if !supported {
				return ValidationError(fmt.Sprintf("batch patch is not supported for table %s", env.Table))
			}
			return bp.BatchPatch(ctx, db, items)
		}
		if payloadShape(env.Data) != shapeObject {
			return ValidationError("data must be a single record object or an array of records")
		}
		return h.Patch(ctx, db, env.Data)
	})
}

func (g *Gateway) HandleDelete(c *gin.Context) {
	g.dispatch(c, func(ctx context.Context, db *gorm.DB, h TableHandler, env Envelope) Result {
		var body struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(env.Data, &body); err != nil || body.ID == "" {
			return ValidationError("delete requires an id field in data")
		}
		return h.Delete(ctx, db, body.ID)
	})
}

// dispatch runs the shared skeleton: envelope validation, table lookup,
// then the operation inside a database session. Unknown tables and
// malformed bodies are rejected before a connection is taken.
func (g *Gateway) dispatch(c *gin.Context, op func(ctx context.Context, db *gorm.DB, h TableHandler, env Envelope) Result) {
	var env Envelope
	if err := c.ShouldBindJSON(&env); err != nil {
		writeResult(c, ValidationError(common.FormatBindingError(err)))
		return
	}
	if bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		writeResult(c, ValidationError("data must not be null"))
		return
	}

	h, ok := g.reg.Lookup(env.Table)
	if !ok {
		writeResult(c, ValidationError(fmt.Sprintf(
			"unsupported table %q, expected one of: %s", env.Table, strings.Join(g.reg.Tables(), ", "))))
		return
	}

	ctx := c.Request.Context()
	var res Result
	if err := g.dm.Exec(ctx, func(db *gorm.DB) error {
		res = op(ctx, db, h, env)
		return nil
	}); err != nil {
		res = ServerError(err.Error())
	}
	writeResult(c, res)
}

func writeResult(c *gin.Context, res Result) {
	status := res.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, res)
}

type shape int

const (
	shapeInvalid shape = iota
	shapeObject
	shapeArray
)

func payloadShape(raw json.RawMessage) shape {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '{':
			return shapeObject
		case '[':
			return shapeArray
		}
		return shapeInvalid
	}
	return shapeInvalid
}

// batchItems resolves the two batch payload spellings the app sends: a
// bare array, or an object wrapping the array in an "items" property.
func batchItems(raw json.RawMessage) (json.RawMessage, bool) {
	switch payloadShape(raw) {
	case shapeArray:
		return raw, true
	case shapeObject:
		var wrapper struct {
			Items json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(raw, &wrapper); err == nil && payloadShape(wrapper.Items) == shapeArray {
			return wrapper.Items, true
		}
	}
	return nil, false
}
