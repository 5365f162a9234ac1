package http

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(roomController *RoomController, uploadController *UploadController, staticDir string) *gin.Engine {
	router := gin.Default()

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{
		"Authorization",
		"Content-Type",
		"Origin",
		"Accept",
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	router.Use(cors.New(config))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	if roomController != nil {
		router.GET("/ws", roomController.Serve)
		router.GET("/api/webrtc/config", roomController.WebRTCConfig)
	}

	if uploadController != nil {
		router.POST("/upload", uploadController.Upload)
		router.GET("/files", uploadController.Files)
		router.GET("/uploads/:name", uploadController.Download)
		router.GET("/api/rooms/:room/recordings", uploadController.Recordings)
	}

	if staticDir != "" {
		router.NoRoute(serveStatic(staticDir))
	}

	return router
}

func serveStatic(staticDir string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet {
			ctx.Status(http.StatusNotFound)
			return
		}

		reqPath := filepath.Clean("/" + ctx.Request.URL.Path)
		if reqPath == "/" {
			reqPath = "/index.html"
		}

		path := filepath.Join(staticDir, reqPath)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			ctx.File(path)
			return
		}

		ctx.Status(http.StatusNotFound)
	}
}
