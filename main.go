package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"evidence-hand/config"
	"evidence-hand/models"
	"evidence-hand/providers"
	"evidence-hand/providers/ctgov"
	"evidence-hand/providers/pubmed"
	"evidence-hand/services"
	"evidence-hand/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	newDocumentsCounter prometheus.Counter
	newMentionsCounter  prometheus.Counter
)

func init() {
	newDocumentsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "new_documents_added_total",
			Help: "Total number of new documents added to the evidence store.",
		},
	)
	newMentionsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "competitor_mentions_added_total",
			Help: "Total number of competitor mentions recorded during ingestion.",
		},
	)
	prometheus.MustRegister(newDocumentsCounter, newMentionsCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		logging.Fatal("Failed to connect to evidence database", zap.Error(err))
	}
	logging.Info("Successfully connected to evidence database.")

	// Auto-Migration
	logging.Info("Running database auto-migration...")
	db.AutoMigrate(
		&models.Snapshot{},
		&models.Competitor{},
		&models.CompetitorAlias{},
		&models.Molecule{},
		&models.MonitoringProfile{},
		&models.Document{},
		&models.Affiliation{},
		&models.CompetitorMention{},
		&models.Triage{},
	)

	// Setup Services
	catalogService := services.NewCatalogService(db, logging)

	// Seeding
	seedDefaultCompetitors(catalogService, logging)
	seedDefaultMolecules(catalogService, logging)

	// Setup Sources
	enabledSourceNames := strings.Split(cfg.EnabledSources, ",")
	var enabledSources []providers.Source
	for _, name := range enabledSourceNames {
		switch strings.TrimSpace(name) {
		case "pubmed":
			enabledSources = append(enabledSources, pubmed.NewFetcher(cfg, logging))
		case "ctgov":
			enabledSources = append(enabledSources, ctgov.NewFetcher(cfg, logging))
		default:
			logging.Warn("Unknown source in config", zap.String("source_name", name))
		}
	}
	if len(enabledSources) == 0 {
		logging.Fatal("No valid sources enabled. Check ENABLED_SOURCES in .env")
	}
	logging.Info("Active sources loaded", zap.Strings("sources", enabledSourceNames))

	s3Client, err := storage.NewS3Client(cfg)
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}
	ingestService := services.NewIngestService(cfg, db, s3Client, logging, catalogService, enabledSources)
	profileService := services.NewProfileService(db, logging, nil)
	triageService := services.NewTriageService(db, logging)
	exportService := services.NewExportService(db, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Setup Routes
	setupSnapshotRoutes(router, ingestService, profileService, exportService, db, logging)
	setupCompetitorRoutes(router, catalogService, db, logging)
	setupMoleculeRoutes(router, catalogService, db, logging)
	setupProfileRoutes(router, profileService, ingestService, db, logging)
	setupDocumentRoutes(router, db, logging)
	setupTriageRoutes(router, triageService, logging)
	setupMatchRoutes(router, catalogService, logging)

	// Setup Cron: alle aktiven Profile nach Zeitplan ingestieren
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled profile ingest...")
		result, err := ingestService.RunAllProfiles(context.Background())
		if err != nil {
			logging.Error("Cron job failed", zap.Error(err))
		} else {
			logging.Info("Cron job completed",
				zap.Int("new_documents", result.NewDocuments),
				zap.Int("mentions", result.Mentions))
			newDocumentsCounter.Add(float64(result.NewDocuments))
			newMentionsCounter.Add(float64(result.Mentions))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupSnapshotRoutes(router *gin.Engine, ingestService *services.IngestService, profileService *services.ProfileService, exportService *services.ExportService, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/snapshots")

	rg.POST("/", func(c *gin.Context) {
		var req struct {
			SnapshotID string `json:"snapshot_id" binding:"required"`
			Notes      string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body (snapshot_id required)"})
			return
		}
		snap, err := ingestService.CreateSnapshot(req.SnapshotID, req.Notes)
		if err != nil {
			if errors.Is(err, services.ErrDuplicateSnapshot) {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			log.Error("Failed to create snapshot", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusCreated, snap)
	})

	rg.GET("/", func(c *gin.Context) {
		var snaps []models.Snapshot
		if err := db.Order("created_at DESC").Find(&snaps).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, snaps)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		id := c.Param("id")
		if err := ingestService.DeleteSnapshot(id); err != nil {
			if errors.Is(err, services.ErrUnknownSnapshot) {
				c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
				return
			}
			log.Error("Failed to delete snapshot", zap.String("snapshot_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "snapshot and dependent documents deleted", "snapshot_id": id})
	})

	// Delta zweier Snapshots: neu hinzugekommene Dokumente
	rg.GET("/diff", func(c *gin.Context) {
		previous := c.Query("previous")
		current := c.Query("current")
		if previous == "" || current == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "previous and current query params required"})
			return
		}
		items, err := profileService.NewSince(c.Request.Context(), previous, current)
		if err != nil {
			if errors.Is(err, services.ErrUnknownSnapshot) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			log.Error("Snapshot diff failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, items)
	})

	// CSV-Export für Excel-Konsumenten: nur competitor-gesponserte Dokumente
	rg.GET("/:id/export.csv", func(c *gin.Context) {
		id := c.Param("id")
		rows, err := exportService.RowsForSnapshot(id)
		if err != nil {
			if errors.Is(err, services.ErrUnknownSnapshot) {
				c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
				return
			}
			log.Error("Snapshot export failed", zap.String("snapshot_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", id))
		w := csv.NewWriter(c.Writer)
		w.Write([]string{"link", "article_title", "study_summary", "competitors", "source"})
		for _, row := range rows {
			w.Write([]string{row.Link, row.ArticleTitle, row.StudySummary, row.Competitors, row.Source})
		}
		w.Flush()
	})
}

func setupCompetitorRoutes(router *gin.Engine, catalogService *services.CatalogService, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/competitors")

	rg.POST("/", func(c *gin.Context) {
		var req struct {
			CanonicalName string   `json:"canonical_name" binding:"required"`
			Aliases       []string `json:"aliases"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request (canonical_name required)"})
			return
		}
		// Kanonischer Name matcht nur, wenn er selbst als Alias registriert ist
		aliases := req.Aliases
		if len(aliases) == 0 {
			aliases = []string{req.CanonicalName}
		}
		comp, err := catalogService.UpsertCompetitor(req.CanonicalName, aliases)
		if err != nil {
			log.Error("Failed to upsert competitor", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save competitor"})
			return
		}
		c.JSON(http.StatusCreated, comp)
	})

	rg.GET("/", func(c *gin.Context) {
		var comps []models.Competitor
		if err := db.Preload("Aliases").Order("canonical_name").Find(&comps).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, comps)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		id := c.Param("id")
		res := db.Delete(&models.Competitor{}, id)
		if res.Error != nil {
			log.Error("Failed to delete competitor", zap.String("id", id), zap.Error(res.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "competitor not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "competitor, aliases and mentions deleted"})
	})
}

func setupMoleculeRoutes(router *gin.Engine, catalogService *services.CatalogService, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/molecules")

	rg.POST("/", func(c *gin.Context) {
		var req struct {
			Name     string   `json:"name" binding:"required"`
			Synonyms []string `json:"synonyms"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request (name required)"})
			return
		}
		mol, err := catalogService.UpsertMolecule(req.Name, req.Synonyms)
		if err != nil {
			log.Error("Failed to upsert molecule", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save molecule"})
			return
		}
		c.JSON(http.StatusCreated, mol)
	})

	rg.GET("/", func(c *gin.Context) {
		var mols []models.Molecule
		if err := db.Order("name").Find(&mols).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, mols)
	})
}

func setupProfileRoutes(router *gin.Engine, profileService *services.ProfileService, ingestService *services.IngestService, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/profiles")

	rg.POST("/", func(c *gin.Context) {
		var req struct {
			Name            string   `json:"name" binding:"required"`
			MoleculeID      uint     `json:"molecule_id" binding:"required"`
			QueryTerms      string   `json:"query_terms" binding:"required"`
			CompetitorScope []string `json:"competitor_scope"`
			Frequency       string   `json:"frequency"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request (name, molecule_id, query_terms required)"})
			return
		}
		profile := models.MonitoringProfile{
			Name:       req.Name,
			MoleculeID: req.MoleculeID,
			QueryTerms: req.QueryTerms,
			Frequency:  req.Frequency,
			CreatedAt:  time.Now().UTC(),
		}
		profile.SetScopeList(req.CompetitorScope)
		if err := profileService.CreateProfile(&profile); err != nil {
			if errors.Is(err, services.ErrUnknownMolecule) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			log.Error("Failed to create profile", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
			return
		}
		c.JSON(http.StatusCreated, profile)
	})

	rg.GET("/", func(c *gin.Context) {
		var profiles []models.MonitoringProfile
		if err := db.Order("created_at DESC").Find(&profiles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, profiles)
	})

	rg.PATCH("/:id/active", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
			return
		}
		var req struct {
			IsActive *bool `json:"is_active" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request (is_active required)"})
			return
		}
		if err := profileService.SetActive(uint(id), *req.IsActive); err != nil {
			if errors.Is(err, services.ErrUnknownProfile) {
				c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"profile_id": id, "is_active": *req.IsActive})
	})

	// Asynchroner Ingest-Lauf wie beim Cron, aber per Hand angestoßen
	rg.POST("/:id/run", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
			return
		}
		var profile models.MonitoringProfile
		if err := db.First(&profile, "profile_id = ?", uint(id)).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}

		go func() {
			result, err := ingestService.RunProfile(context.Background(), uint(id), "")
			if err != nil {
				log.Error("Async profile run failed", zap.Uint64("profile_id", id), zap.Error(err))
				return
			}
			newDocumentsCounter.Add(float64(result.NewDocuments))
			newMentionsCounter.Add(float64(result.Mentions))
			log.Info("Async profile run completed",
				zap.Uint64("profile_id", id),
				zap.String("snapshot_id", result.SnapshotID),
				zap.Int("new_documents", result.NewDocuments))
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": fmt.Sprintf("Ingest run for profile %d triggered.", id)})
	})

	rg.POST("/:id/evaluate", func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
			return
		}
		var req struct {
			SnapshotID string `json:"snapshot_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request (snapshot_id required)"})
			return
		}
		docs, err := profileService.Evaluate(c.Request.Context(), uint(id), req.SnapshotID)
		if err != nil {
			if errors.Is(err, services.ErrUnknownProfile) || errors.Is(err, services.ErrUnknownSnapshot) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			log.Error("Profile evaluation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"snapshot_id": req.SnapshotID, "documents": docs, "count": len(docs)})
	})
}

func setupDocumentRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/documents")

	// Body-gesteuerter Endpunkt für komplexe Abfragen
	rg.POST("/query", func(c *gin.Context) {
		type DocumentQuery struct {
			SnapshotID  string `json:"snapshot_id"`
			Source      string `json:"source"`
			Competitor  string `json:"competitor"` // kanonischer Name
			HasMentions *bool  `json:"has_mentions"`
			Limit       int    `json:"limit"`
		}

		var req DocumentQuery
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		query := db.Model(&models.Document{})

		if req.SnapshotID != "" {
			query = query.Where("snapshot_id = ?", req.SnapshotID)
		}
		if req.Source != "" {
			query = query.Where("source = ?", req.Source)
		}
		if req.Competitor != "" {
			query = query.Where("doc_id IN (?)", db.Model(&models.CompetitorMention{}).
				Select("competitor_mentions.doc_id").
				Joins("JOIN competitors ON competitors.competitor_id = competitor_mentions.competitor_id").
				Where("competitors.canonical_name = ?", req.Competitor))
		}
		if req.HasMentions != nil {
			sub := db.Model(&models.CompetitorMention{}).Select("doc_id")
			if *req.HasMentions {
				query = query.Where("doc_id IN (?)", sub)
			} else {
				query = query.Where("doc_id NOT IN (?)", sub)
			}
		}
		if req.Limit > 0 {
			query = query.Limit(req.Limit)
		}

		var docs []models.Document
		if err := query.Preload("Affiliations").Order("published_date DESC, doc_id").Find(&docs).Error; err != nil {
			log.Error("Database query for documents failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, docs)
	})

	rg.GET("/:id/mentions", func(c *gin.Context) {
		id := c.Param("id")
		var mentions []models.CompetitorMention
		if err := db.Where("doc_id = ?", id).Order("mention_id").Find(&mentions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, mentions)
	})
}

func setupTriageRoutes(router *gin.Engine, triageService *services.TriageService, log *zap.Logger) {
	rg := router.Group("/triage")

	rg.PUT("/", func(c *gin.Context) {
		var req struct {
			DocID     string `json:"doc_id" binding:"required"`
			ProfileID *uint  `json:"profile_id"`
			Status    string `json:"status" binding:"required"`
			Notes     string `json:"notes"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request (doc_id and status required)"})
			return
		}
		record, err := triageService.SetTriage(req.DocID, req.ProfileID, req.Status, req.Notes)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidStatus):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, services.ErrUnknownDocument), errors.Is(err, services.ErrUnknownProfile):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			default:
				log.Error("Failed to set triage", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			}
			return
		}
		c.JSON(http.StatusOK, record)
	})

	rg.GET("/:doc_id", func(c *gin.Context) {
		records, err := triageService.ForDocument(c.Param("doc_id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, records)
	})
}

// setupMatchRoutes bietet eine Matcher-Vorschau ohne Persistenz, z.B. um neue
// Aliase gegen echte Affiliation-Texte zu testen.
func setupMatchRoutes(router *gin.Engine, catalogService *services.CatalogService, log *zap.Logger) {
	rg := router.Group("/match")

	rg.POST("/", func(c *gin.Context) {
		var req struct {
			Text string `json:"text" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request ('text' required)"})
			return
		}
		matcher, err := catalogService.NewMatcher()
		if err != nil {
			log.Error("Failed to load matcher", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"competitors": matcher.Match(req.Text),
			"molecules":   matcher.MatchMolecules(req.Text),
		})
	})
}

func seedDefaultCompetitors(catalogService *services.CatalogService, logger *zap.Logger) {
	var count int64
	catalogService.DB.Model(&models.Competitor{}).Count(&count)
	if count > 0 {
		return
	}
	// Ein Alias pro unterscheidbarer Form genügt: Substring-Matching deckt
	// längere Varianten ("AbbVie Inc") automatisch ab. Der kanonische Name
	// steht selbst in der Liste, damit er im Text matcht.
	competitors := map[string][]string{
		"AbbVie":               {"AbbVie"},
		"Amgen":                {"Amgen"},
		"AstraZeneca":          {"AstraZeneca"},
		"Bristol-Myers Squibb": {"Bristol-Myers Squibb", "BMS"},
		"Eli Lilly":            {"Eli Lilly", "Lilly"},
		"GlaxoSmithKline":      {"GlaxoSmithKline", "GSK"},
		"Johnson & Johnson":    {"Johnson & Johnson", "J&J", "J and J", "Janssen"},
		"Merck":                {"Merck"},
		"Novartis":             {"Novartis"},
		"Novo Nordisk":         {"Novo Nordisk"},
		"Pfizer":               {"Pfizer"},
		"Roche":                {"Roche"},
		"Sanofi":               {"Sanofi"},
		"Takeda":               {"Takeda"},
		"UCB":                  {"UCB"},
	}
	for canonical, aliases := range competitors {
		if _, err := catalogService.UpsertCompetitor(canonical, aliases); err != nil {
			logger.Warn("Failed to seed competitor", zap.String("name", canonical), zap.Error(err))
		}
	}
	logger.Info("Default competitors seeded.", zap.Int("count", len(competitors)))
}

func seedDefaultMolecules(catalogService *services.CatalogService, logger *zap.Logger) {
	var count int64
	catalogService.DB.Model(&models.Molecule{}).Count(&count)
	if count > 0 {
		return
	}
	molecules := []struct {
		name     string
		synonyms []string
	}{
		{"guselkumab", []string{"guselkumab", "Tremfya"}},
		{"risankizumab", []string{"risankizumab", "Skyrizi"}},
		{"secukinumab", []string{"secukinumab", "Cosentyx"}},
		{"ustekinumab", []string{"ustekinumab", "Stelara"}},
		{"deucravacitinib", []string{"deucravacitinib", "BMS-986165", "Sotyktu"}},
		{"apremilast", []string{"apremilast", "Otezla"}},
	}
	for _, mol := range molecules {
		if _, err := catalogService.UpsertMolecule(mol.name, mol.synonyms); err != nil {
			logger.Warn("Failed to seed molecule", zap.String("name", mol.name), zap.Error(err))
		}
	}
	logger.Info("Default molecules seeded.", zap.Int("count", len(molecules)))
}
