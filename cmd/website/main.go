package main

import (
	"context"
	"embed"
	"encoding/gob"
	"log/slog"
	"net/http"
	"time"

	"github.com/adampresley/adamgokit/awsconfig"
	"github.com/adampresley/adamgokit/httphelpers"
	"github.com/adampresley/adamgokit/mux"
	"github.com/adampresley/adamgokit/rendering"
	"github.com/adampresley/adamgokit/retrier"
	"github.com/adampresley/adamgokit/s3"
	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/sundayalbum/cmd/website/internal/backup"
	"github.com/adampresley/sundayalbum/cmd/website/internal/configuration"
	"github.com/adampresley/sundayalbum/cmd/website/internal/editing"
	"github.com/adampresley/sundayalbum/cmd/website/internal/events"
	"github.com/adampresley/sundayalbum/cmd/website/internal/home"
	"github.com/adampresley/sundayalbum/cmd/website/internal/media"
	internalmodels "github.com/adampresley/sundayalbum/cmd/website/internal/models"
	"github.com/adampresley/sundayalbum/cmd/website/internal/thumbs"
	"github.com/adampresley/sundayalbum/cmd/website/internal/vieweraccess"
	"github.com/adampresley/sundayalbum/pkg/mediaref"
	"github.com/adampresley/sundayalbum/pkg/pubsub"
	"github.com/adampresley/sundayalbum/pkg/services"
	"github.com/adampresley/sundayalbum/pkg/store"
	"github.com/alitto/pond/v2"
)

var (
	Version string = "development"
	appName string = "sundayalbum"

	//go:embed app
	appFS embed.FS

	config configuration.Config

	/* Services */
	broker          *pubsub.Broker
	dataStore       store.Store
	editorService   services.EditorServicer
	galleryService  services.GalleryServicer
	registry        *mediaref.Registry
	renderer        rendering.TemplateRenderer
	sessionService  sessions.Session[*internalmodels.Viewer]
	settingsService services.SettingsServicer
	thumbService    thumbs.ThumbCreator
	uploadService   *services.UploadService
	zipService      services.ZipServicer

	/* Controllers */
	editorController       editing.EditorController
	eventsController       events.EventsController
	homeController         home.HomeHandlers
	mediaController        media.MediaController
	viewerAccessController vieweraccess.ViewerAccessController
)

func main() {
	var (
		err error
	)

	config = configuration.LoadConfig()
	setupLogger(&config, Version)

	slog.Info("configuration loaded",
		slog.String("app", appName),
		slog.String("version", Version),
		slog.String("loglevel", config.LogLevel),
		slog.String("host", config.Host),
		slog.String("dsn", config.DSN),
	)

	slog.Debug("setting up...")

	shutdownCtx, cancel := context.WithCancel(context.Background())

	/*
	 * Setup services
	 */
	dataStore = store.Probe(config.DSN)
	mirror := store.NewMirrorStore(config.MirrorPath)

	gob.Register(&internalmodels.Viewer{})

	cookieStore := sessions.NewCookieStore(config.CookieSecret)
	sessionService = sessions.NewSessionWrapper[*internalmodels.Viewer](cookieStore, "sundayalbumviewers", "viewer")

	renderer, err = rendering.NewGoTemplateRenderer(rendering.GoTemplateRendererConfig{
		TemplateDir:       "app",
		TemplateExtension: ".html",
		TemplateFS:        appFS,
		PagesDir:          "pages",
	})

	if err != nil {
		panic(err)
	}

	broker = pubsub.NewBroker()
	registry = mediaref.NewRegistry()

	settingsService = services.NewSettingsService(services.SettingsServiceConfig{
		Durable: dataStore,
		Mirror:  mirror,
	})

	uploadService = services.NewUploadService(services.UploadServiceConfig{
		Store:    dataStore,
		Registry: registry,
		Prober:   services.NewMp4DurationProber(),
		Pool:     pond.NewPool(config.MaxUploadWorkers, pond.WithContext(shutdownCtx)),
	})

	if err = uploadService.Restore(); err != nil {
		slog.Error("error restoring uploads. starting with an empty list", "error", err)
	}

	editorService = services.NewEditorService(services.EditorServiceConfig{
		EditPassword: config.EditPassword,
		Settings:     settingsService,
		Broker:       broker,
		Surface:      editing.NewBrokerSurface(broker),
		Uploads:      uploadService,
	})

	galleryService = services.NewGalleryService(services.GalleryServiceConfig{
		State:   editorService,
		Uploads: uploadService,
	})

	zipService = services.NewZipService(services.ZipServiceConfig{
		State:   editorService,
		Store:   dataStore,
		Uploads: uploadService,
	})

	thumbService = thumbs.NewThumbCreatorService(thumbs.ThumbCreatorConfig{
		MaxThumbWorkers: config.MaxThumbWorkers,
		Store:           dataStore,
		ShutdownCtx:     shutdownCtx,
	})

	/*
	 * Setup controllers
	 */
	viewerAccessController = vieweraccess.NewViewerAccessController(vieweraccess.ViewerAccessControllerConfig{
		Renderer:       renderer,
		SessionService: sessionService,
		ViewPassword:   config.ViewPassword,
	})

	homeController = home.NewHomeController(home.HomeControllerConfig{
		Editor:   editorService,
		Gallery:  galleryService,
		Renderer: renderer,
		Uploads:  uploadService,
	})

	editorController = editing.NewEditorController(editing.EditorControllerConfig{
		Editor:   editorService,
		Renderer: renderer,
	})

	mediaController = media.NewMediaController(media.MediaControllerConfig{
		Editor:  editorService,
		Uploads: uploadService,
		Zips:    zipService,
	})

	eventsController = events.NewEventsController(events.EventsControllerConfig{
		Broker: broker,
	})

	/*
	 * Setup router and http server
	 */
	slog.Debug("setting up routes...")

	viewerAccessMiddleware := newViewerAccessMiddleware(
		sessionService,
		[]string{
			"/static",
			"/login",
			"/heartbeat",
		},
	)

	protected := []mux.MiddlewareFunc{viewerAccessMiddleware}

	routes := []mux.Route{
		{Path: "GET /heartbeat", HandlerFunc: heartbeat},
		{Path: "GET /login", HandlerFunc: viewerAccessController.LoginPage},
		{Path: "POST /login", HandlerFunc: viewerAccessController.LoginAction},
		{Path: "GET /logout", HandlerFunc: viewerAccessController.LogoutAction},

		{Path: "GET /", HandlerFunc: homeController.HomePage, Middlewares: protected},
		{Path: "GET /events", HandlerFunc: eventsController.Stream, Middlewares: protected},

		{Path: "GET /editor", HandlerFunc: editorController.EditorPage, Middlewares: protected},
		{Path: "POST /editor/request", HandlerFunc: editorController.RequestEdit, Middlewares: protected},
		{Path: "POST /editor/password", HandlerFunc: editorController.SubmitPassword, Middlewares: protected},
		{Path: "POST /editor/cancel", HandlerFunc: editorController.CancelAuth, Middlewares: protected},
		{Path: "POST /editor/close", HandlerFunc: editorController.CloseEditor, Middlewares: protected},
		{Path: "POST /editor/surface-closed", HandlerFunc: editorController.SurfaceClosed, Middlewares: protected},
		{Path: "POST /editor/undo", HandlerFunc: editorController.Undo, Middlewares: protected},
		{Path: "POST /editor/redo", HandlerFunc: editorController.Redo, Middlewares: protected},
		{Path: "POST /editor/session/begin", HandlerFunc: editorController.BeginSession, Middlewares: protected},
		{Path: "POST /editor/session/end", HandlerFunc: editorController.EndSession, Middlewares: protected},
		{Path: "PUT /editor/content", HandlerFunc: editorController.SetContent, Middlewares: protected},
		{Path: "PUT /editor/override/{key}", HandlerFunc: editorController.SetTextOverride, Middlewares: protected},
		{Path: "PUT /editor/theme", HandlerFunc: editorController.SetGlobalTheme, Middlewares: protected},
		{Path: "PUT /editor/theme/album/{id}", HandlerFunc: editorController.SetAlbumTheme, Middlewares: protected},
		{Path: "DELETE /editor/theme/album/{id}", HandlerFunc: editorController.ClearAlbumTheme, Middlewares: protected},
		{Path: "PUT /editor/layout", HandlerFunc: editorController.SetLayout, Middlewares: protected},
		{Path: "PUT /editor/hero-source", HandlerFunc: editorController.SetHeroSource, Middlewares: protected},
		{Path: "PUT /editor/image-edit/{key}", HandlerFunc: editorController.SetImageEdit, Middlewares: protected},
		{Path: "DELETE /editor/image-edit/{key}", HandlerFunc: editorController.ClearImageEdit, Middlewares: protected},
		{Path: "PUT /editor/image-note/{key}", HandlerFunc: editorController.SetImageNote, Middlewares: protected},

		{Path: "POST /albums", HandlerFunc: editorController.CreateAlbum, Middlewares: protected},
		{Path: "PUT /albums/{id}", HandlerFunc: editorController.UpdateAlbum, Middlewares: protected},
		{Path: "DELETE /albums/{id}", HandlerFunc: editorController.DeleteAlbum, Middlewares: protected},
		{Path: "PUT /albums/{id}/select", HandlerFunc: editorController.SelectAlbum, Middlewares: protected},
		{Path: "PUT /albums/{id}/uploads/order", HandlerFunc: mediaController.ReorderUploads, Middlewares: protected},
		{Path: "GET /albums/{id}/download", HandlerFunc: mediaController.DownloadAlbum, Middlewares: protected},

		{Path: "PUT /timeline/{id}", HandlerFunc: editorController.PatchTimeline, Middlewares: protected},
		{Path: "DELETE /timeline/{id}", HandlerFunc: editorController.DeleteTimelineItem, Middlewares: protected},

		{Path: "POST /uploads", HandlerFunc: mediaController.Upload, Middlewares: protected},
		{Path: "PUT /uploads/{id}", HandlerFunc: mediaController.UpdateUpload, Middlewares: protected},
		{Path: "DELETE /uploads/{id}", HandlerFunc: mediaController.DeleteUpload, Middlewares: protected},
		{Path: "GET /media/{token}", HandlerFunc: mediaController.ServeMedia, Middlewares: protected},
		{Path: "GET /media/{token}/thumb", HandlerFunc: mediaController.ServeThumb, Middlewares: protected},
	}

	routerConfig := mux.RouterConfig{
		Address:              config.Host,
		Debug:                Version == "development",
		ServeStaticContent:   true,
		StaticContentRootDir: "app",
		StaticContentPrefix:  "/static/",
		StaticFS:             appFS,
		HttpWriteTimeout:     60,
	}

	m := mux.SetupRouter(routerConfig, routes)
	httpServer, quit := mux.SetupServer(routerConfig, m)

	/*
	 * Start the thumbnail creator job
	 */
	setupThumbCreator(shutdownCtx)

	/*
	 * Start the backup job when a bucket is configured
	 */
	setupBackupCreator(shutdownCtx)

	/*
	 * Wait for graceful shutdown
	 */
	slog.Info("server started")

	<-quit

	cancel()
	uploadService.Close()
	settingsService.Flush()

	if err = dataStore.Close(); err != nil {
		slog.Error("error closing data store", "error", err)
	}

	mux.Shutdown(httpServer)
	slog.Info("server stopped")
}

func heartbeat(w http.ResponseWriter, r *http.Request) {
	httphelpers.TextOK(w, "OK")
}

func setupThumbCreator(shutdownCtx context.Context) {
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		running := true

		runner := func() {
			defer func() {
				running = false
			}()

			thumbService.CreateThumbs()
		}

		runner()

		for {
			select {
			case <-shutdownCtx.Done():
				return

			case <-ticker.C:
				if running {
					slog.Info("thumbnail creator already running. skipping...")
					continue
				}

				runner()
			}
		}
	}()
}

func setupBackupCreator(shutdownCtx context.Context) {
	var (
		err error
	)

	if config.AwsBucket == "" {
		slog.Info("no backup bucket configured. media backup disabled")
		return
	}

	awsConfig := &awsconfig.Config{
		Endpoint:        config.AwsEndpointUrl,
		Region:          config.AwsRegion,
		AccessKeyID:     config.AwsAccessKeyId,
		SecretAccessKey: config.AwsSecretAccessKey,
	}

	retrier.Retry(func() error {
		if err = awsConfig.Load(); err != nil {
			slog.Error("failed to load AWS config. trying again", "error", err)
			return err
		}

		return nil
	})

	if err != nil {
		slog.Error("could not load AWS config. media backup disabled", "error", err)
		return
	}

	s3Client, err := s3.NewClient(awsConfig)

	if err != nil {
		slog.Error("could not create S3 client. media backup disabled", "error", err)
		return
	}

	backupService := backup.NewBackupCreatorService(backup.BackupCreatorConfig{
		AwsBucket:    config.AwsBucket,
		AwsRegion:    config.AwsRegion,
		BackupFolder: config.BackupFolder,
		MaxWorkers:   config.MaxThumbWorkers,
		S3Client:     s3Client,
		Store:        dataStore,
		ShutdownCtx:  shutdownCtx,
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)

		backupService.CreateBackup()

		for {
			select {
			case <-shutdownCtx.Done():
				return

			case <-ticker.C:
				backupService.CreateBackup()
			}
		}
	}()
}
