package main

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"

	"fieldsync.com/fieldsync/core"
	"fieldsync.com/fieldsync/infrastructure/devops"
	"fieldsync.com/fieldsync/infrastructure/filesystem"
	"fieldsync.com/fieldsync/web/handlers"
	"fieldsync.com/fieldsync/web/handlers/mobilesync"
	"fieldsync.com/fieldsync/web/middlewares"
	"github.com/gin-gonic/gin"
)

func main() {
	ctx := context.Background()

	dsn, err := devops.ResolveDSN(ctx)
	if err != nil {
		log.Fatal("failed to resolve DSN: ", err)
	}
	dm, err := core.New(dsn, 10, core.LogLevelWarn)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	photoStore, err := filesystem.NewPhotoStore(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		log.Fatal("failed to init photo store: ", err)
	}

	base64Secret := os.Getenv("FIELDSYNC_SIGNING_SECRET")
	jwtSecret, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		log.Fatal("failed to decode JWT secret: ", err)
	}

	bucket := os.Getenv("FIELDSYNC_UPLOAD_BUCKET")

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	protected := r.Group("/api/v1.0")
	protected.Use(middlewares.Authentication(jwtSecret))
	{
		protected.GET("/whoami", func(c *gin.Context) {
			claims, _ := c.Get("claims")
			c.JSON(http.StatusOK, gin.H{"claims": claims})
		})

		mobilesync.Register(protected, dm, photoStore)

		protected.POST("/upload/multiple", handlers.UploadMultipleHandler(bucket))
		protected.GET("/uploads", handlers.ListUploadsHandler(bucket))
		protected.GET("/uploads/*key", handlers.DownloadHandler(bucket))
	}

	r.Run("0.0.0.0:8090")
}
