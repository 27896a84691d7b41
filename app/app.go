// Package app wires the client together: config, logger, local storage, API
// client, session, realtime channel, stores, navigation and screens are
// constructed once here and threaded through explicitly.
package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"echofm/api"
	"echofm/config"
	"echofm/core/chat"
	"echofm/core/nav"
	"echofm/core/player"
	"echofm/core/session"
	"echofm/logger"
	"echofm/realtime"
	"echofm/screen"
	"echofm/storage"
)

// Screens groups the per-screen controllers.
type Screens struct {
	Home         *screen.Home
	Search       *screen.Search
	Library      *screen.Library
	Song         *screen.Song
	Album        *screen.Album
	Artist       *screen.Artist
	Chat         *screen.Chat
	Upload       *screen.Upload
	Subscription *screen.Subscription
	Auth         *screen.Auth
}

// App is the assembled client.
type App struct {
	Config  *config.Config
	API     *api.Client
	Session *session.Store
	Channel *realtime.Client
	Chat    *chat.Store
	Player  *player.Store
	Nav     *nav.Controller
	Screens Screens

	local     *storage.Store
	stopWatch func()
}

// New constructs the client from configuration. Construction order follows
// the dependency chain; nothing here is a package-level singleton.
func New(cfg *config.Config) (*App, error) {
	local, err := storage.Open(cfg.LocalStorePath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	apiClient := api.NewClient(cfg.APIBaseURL)
	apiClient.SetTimeout(cfg.RequestTimeout)

	sessionStore := session.NewStore(local)
	apiClient.SetTokenSource(sessionStore.Token)

	channel := realtime.NewClient(cfg.RealtimeURL)
	chatStore := chat.NewStore(apiClient, channel)

	// The player publishes presence through the chat store, never through
	// the channel directly.
	playerStore := player.NewStore(chatStore, local)
	if err := playerStore.Restore(); err != nil {
		logger.Warn("failed to restore player state", logger.ErrorField(err))
	}

	controller := nav.NewController(sessionStore, playerStore)

	a := &App{
		Config:  cfg,
		API:     apiClient,
		Session: sessionStore,
		Channel: channel,
		Chat:    chatStore,
		Player:  playerStore,
		Nav:     controller,
		local:   local,
	}
	a.Screens = Screens{
		Home:         screen.NewHome(apiClient, playerStore),
		Search:       screen.NewSearch(apiClient, playerStore),
		Library:      screen.NewLibrary(apiClient, controller),
		Song:         screen.NewSong(apiClient, playerStore),
		Album:        screen.NewAlbum(apiClient, playerStore),
		Artist:       screen.NewArtist(apiClient),
		Chat:         screen.NewChat(chatStore, sessionStore),
		Upload:       screen.NewUpload(apiClient),
		Subscription: screen.NewSubscription(apiClient),
		Auth:         screen.NewAuth(apiClient, sessionStore, chatStore),
	}
	return a, nil
}

// Start brings up the restored session's realtime connection and the config
// watcher.
func (a *App) Start(ctx context.Context) {
	if user, ok := a.Session.User(); ok {
		if a.Session.TokenExpired() {
			logger.Info("stored token expired, clearing session")
			a.Session.Logout()
		} else if err := a.Chat.InitSocket(ctx, user.ID); err != nil {
			logger.Warn("realtime channel unavailable at startup", logger.ErrorField(err))
		}
	}

	stop, err := config.Watch(".env", func() {
		reloaded := config.Load()
		logger.SetLevel(logger.LogLevel(reloaded.LogLevel))
		logger.Info("configuration reloaded", logger.String("logLevel", reloaded.LogLevel))
	})
	if err != nil {
		logger.Debug("config watch unavailable", logger.ErrorField(err))
	} else {
		a.stopWatch = stop
	}
}

// Close disconnects the channel and closes the local store.
func (a *App) Close() {
	if a.stopWatch != nil {
		a.stopWatch()
	}
	a.Chat.Disconnect()
	if err := a.local.Close(); err != nil {
		logger.Warn("failed to close local store", logger.ErrorField(err))
	}
}

// Run loads configuration, builds the client and runs it until the context
// is cancelled or an interrupt arrives.
func Run(ctx context.Context) error {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})

	a, err := New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a.Start(ctx)
	logger.Info("echofm client started",
		logger.String("api", cfg.APIBaseURL),
		logger.String("realtime", cfg.RealtimeURL))

	<-ctx.Done()
	logger.Info("echofm client shutting down")
	return nil
}
