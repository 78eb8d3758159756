package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"estimatecreation/collections"
	"estimatecreation/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.SeedSSRRates(app); err != nil {
			log.Printf("Warning: SSR rate seed failed: %v", err)
		}
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateStaleItemTotals(app); err != nil {
			log.Printf("Warning: item total migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		// Serve static files from ./static
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// Apply active work middleware globally
		se.Router.BindFunc(handlers.ActiveWorkMiddleware(app))

		// ── Work activation ──────────────────────────────────────
		se.Router.POST("/works/{id}/activate", handlers.HandleWorkActivate(app))
		se.Router.POST("/works/deactivate", handlers.HandleWorkDeactivate(app))

		// ── Work CRUD ────────────────────────────────────────────
		se.Router.GET("/works", handlers.HandleWorkList(app))
		se.Router.GET("/works/compare", handlers.HandleWorkCompare(app))
		se.Router.GET("/works/create", handlers.HandleWorkCreate(app))
		se.Router.POST("/works", handlers.HandleWorkSave(app))
		se.Router.GET("/works/{id}/edit", handlers.HandleWorkEdit(app))
		se.Router.POST("/works/{id}/save", handlers.HandleWorkUpdate(app))
		se.Router.DELETE("/works/{id}", handlers.HandleWorkDelete(app))

		// ── Recap sheet ──────────────────────────────────────────
		se.Router.GET("/works/{id}/recap", handlers.HandleRecapView(app))
		se.Router.POST("/works/{id}/recap/taxes", handlers.HandleRecapSave(app))

		// ── Estimate export ──────────────────────────────────────
		se.Router.GET("/works/{id}/export/pdf", handlers.HandleEstimateExportPDF(app))
		se.Router.GET("/works/{id}/export/excel", handlers.HandleEstimateExportExcel(app))

		// ── Subwork CRUD ─────────────────────────────────────────
		se.Router.GET("/works/{workId}/subworks/create", handlers.HandleSubworkCreate(app))
		se.Router.POST("/works/{workId}/subworks", handlers.HandleSubworkSave(app))
		se.Router.GET("/works/{workId}/subworks/{id}/edit", handlers.HandleSubworkEdit(app))
		se.Router.POST("/works/{workId}/subworks/{id}/save", handlers.HandleSubworkUpdate(app))
		se.Router.DELETE("/works/{workId}/subworks/{id}", handlers.HandleSubworkDelete(app))

		// ── Item CRUD ────────────────────────────────────────────
		se.Router.GET("/works/{workId}/subworks/{subworkId}/items/create", handlers.HandleItemCreate(app))
		se.Router.POST("/works/{workId}/subworks/{subworkId}/items", handlers.HandleItemSave(app))
		se.Router.GET("/works/{workId}/subworks/{subworkId}/items/{id}/edit", handlers.HandleItemEdit(app))
		se.Router.POST("/works/{workId}/subworks/{subworkId}/items/{id}/save", handlers.HandleItemUpdate(app))
		se.Router.DELETE("/works/{workId}/subworks/{subworkId}/items/{id}", handlers.HandleItemDelete(app))

		// ── Measurements (HTMX partial flow) ─────────────────────
		se.Router.POST("/works/{workId}/subworks/{subworkId}/items/{itemId}/measurements",
			handlers.HandleMeasurementAdd(app))
		se.Router.POST("/works/{workId}/subworks/{subworkId}/items/{itemId}/measurements/{id}/save",
			handlers.HandleMeasurementUpdate(app))
		se.Router.DELETE("/works/{workId}/subworks/{subworkId}/items/{itemId}/measurements/{id}",
			handlers.HandleMeasurementDelete(app))

		// ── Item rates, leads and materials ──────────────────────
		se.Router.POST("/works/{workId}/subworks/{subworkId}/items/{itemId}/rates",
			handlers.HandleItemRateAdd(app))
		se.Router.DELETE("/works/{workId}/subworks/{subworkId}/items/{itemId}/rates/{id}",
			handlers.HandleItemRateDelete(app))
		se.Router.POST("/works/{workId}/subworks/{subworkId}/items/{itemId}/leads",
			handlers.HandleItemLeadAdd(app))
		se.Router.DELETE("/works/{workId}/subworks/{subworkId}/items/{itemId}/leads/{id}",
			handlers.HandleItemLeadDelete(app))
		se.Router.POST("/works/{workId}/subworks/{subworkId}/items/{itemId}/materials",
			handlers.HandleItemMaterialAdd(app))
		se.Router.DELETE("/works/{workId}/subworks/{subworkId}/items/{itemId}/materials/{id}",
			handlers.HandleItemMaterialDelete(app))

		// ── Item editor (after the specific item sub-routes) ─────
		se.Router.GET("/works/{workId}/subworks/{subworkId}/items/{id}", handlers.HandleItemView(app))

		// ── Subwork and work views (after specific routes) ───────
		se.Router.GET("/works/{workId}/subworks/{id}", handlers.HandleSubworkView(app))
		se.Router.GET("/works/{id}", handlers.HandleWorkView(app))

		// ── SSR rate search ──────────────────────────────────────
		se.Router.POST("/api/ssr-search", handlers.HandleSSRSearch(app))

		// ── SSR rate list import ─────────────────────────────────
		se.Router.GET("/ssr-rates/import/template", handlers.HandleSSRTemplateDownload(app))
		se.Router.GET("/ssr-rates/import", handlers.HandleSSRImportPage(app))
		se.Router.POST("/ssr-rates/import", handlers.HandleSSRValidate(app))
		se.Router.POST("/ssr-rates/import/commit", handlers.HandleSSRImportCommit(app))
		se.Router.POST("/ssr-rates/import/errors", handlers.HandleSSRErrorReport(app))

		// Redirect home to works list
		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/works")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
