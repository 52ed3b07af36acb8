package main

import (
	"net/http"

	"call-history/internal/calls"
	"call-history/internal/config"
	"call-history/internal/navigation"
	"call-history/internal/view"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic.
func registerRoutes(r *gin.Engine, cfg config.Config, d *deps) error {
	tmpl, err := view.Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := view.Handlers{
		Pages: d.query,
		View: view.Builder{
			Dates: calls.NewDateFormatter(cfg.Location()),
			Nav:   navigation.NewPathNavigator(cfg.Source.CallsPerPage),
		},
		DefaultPerPage: cfg.Source.CallsPerPage,
	}

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/calls/")
	})
	r.GET("/calls/", h.CallsPage)

	v1 := r.Group("/v1")
	{
		v1.GET("/calls", h.CallsJSON)
	}
	return nil
}
