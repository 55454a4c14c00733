// Package httpapi exposes the exports service over HTTP using gin.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all exports routes registered.
// Middleware must be supplied here so it applies to every route.
func NewRouter(exports ExportsAPI, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/healthz", healthz)

	v1 := router.Group("/v1")
	{
		v1.POST("/exports", exports.CreateExportOrder)
		v1.GET("/exports", exports.ListExportOrders)
		v1.GET("/exports/:id", exports.GetExportOrder)
	}

	return router
}

func healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
