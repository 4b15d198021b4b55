package handlers

import (
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"fieldsync.com/fieldsync/infrastructure/filesystem"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedUploadExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".pdf": true,
}

// UploadMultipleHandler receives the binaries the mobile app captures in
// the field and streams them to the attachment bucket. The app syncs the
// matching rows afterwards through the sync endpoint.
func UploadMultipleHandler(bucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Max 50 MB across the form
		if err := c.Request.ParseMultipartForm(50 << 20); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		form := c.Request.MultipartForm
		files := form.File["files"]

		uploaded := []string{}
		for _, file := range files {
			ext := strings.ToLower(filepath.Ext(file.Filename))
			if !allowedUploadExts[ext] {
				continue
			}

			src, err := file.Open()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}

			key := path.Join(time.Now().UTC().Format("2006/01/02"), uuid.NewString()+ext)
			err = filesystem.SaveFile(c.Request.Context(), bucket, key, src)
			src.Close()
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}

			uploaded = append(uploaded, key)
		}

		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("%d files uploaded", len(uploaded)),
			"files":   uploaded,
		})
	}
}

// DownloadHandler streams a stored attachment back to the caller.
func DownloadHandler(bucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("key"), "/")
		if key == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file key"})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
		if err := filesystem.ReadFile(c.Request.Context(), bucket, key, c.Writer); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
	}
}

// ListUploadsHandler lists the attachment keys in the bucket.
func ListUploadsHandler(bucket string) gin.HandlerFunc {
	return func(c *gin.Context) {
		keys, err := filesystem.ListFiles(c.Request.Context(), bucket)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"files": keys})
	}
}
