// Package main is the entry point for the PancyGuard Go application.
// It initializes all systems and starts the Discord bot and the web panel.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PancyStudios/PancyGuardGo/internal/commands"
	"github.com/PancyStudios/PancyGuardGo/internal/events"
	"github.com/PancyStudios/PancyGuardGo/internal/moderation"
	"github.com/PancyStudios/PancyGuardGo/pkg/config"
	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/discord"
	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/modlog"
	"github.com/PancyStudios/PancyGuardGo/pkg/mqtt"
	"github.com/PancyStudios/PancyGuardGo/pkg/web"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando PancyGuard Go...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			err := discordClient.Stop()
			if err != nil {
				return
			}
		}
	})

	// Initialize database
	db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Error(fmt.Sprintf("Error connecting to database: %v", err), "Main")
		// Continue without database- it will attempt to reconnect
	}
	defer func() {
		if db != nil {
			err := db.Disconnect()
			if err != nil {
				return
			}
		}
	}()

	// Initialize global DataManagers
	if db != nil {
		database.InitGlobalDataManagers(db)

		// Warm the per-guild settings cache and keep it fresh
		if err := database.InitSettingsCache(); err != nil {
			logger.Warn(fmt.Sprintf("Error inicializando caché de configuraciones: %v", err), "Main")
		}
		database.StartSettingsCacheRefresh()
		defer database.StopSettingsCacheRefresh()
	}

	// Initialize MQTT
	mqttClientID := "pancyguard"
	if !cfg.IsProd() {
		mqttClientID = "pancyguard_canary"
	}

	mqttClient := mqtt.Init(
		cfg.MQTTHost,
		cfg.MQTTPort,
		cfg.MQTTUser,
		cfg.MQTTPassword,
		mqttClientID,
	)
	defer mqttClient.Destroy()

	// Moderation log hub, bridged to MQTT for external consumers
	hub := modlog.Get()
	mqttClient.BridgeModLog(hub)

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	// Warning escalation engine: the sanctioner acts through the bot session
	warnStore := database.GlobalWarnStore
	sanctioner := moderation.NewDiscordSanctioner(discordClient.Session)
	engine := moderation.NewEngine(warnStore, sanctioner)
	dispatcher := moderation.NewDispatcher(discordClient.Session, engine, hub)

	// Initialize web server (API + admin panel + live modlog feed)
	webServer := web.Init(cfg.LogsWebServerHook, "")
	web.SetupAPIRoutes(webServer)
	web.SetupPanelRoutes(webServer)
	web.SetupModerationRoutes(webServer, dispatcher, engine)
	web.SetupModLogFeed(webServer, hub)
	webServer.StartAsync(cfg.Port)

	// Register commands using the commands package
	commands.RegisterAll(discordClient, engine, warnStore, hub)

	// Register events using the events package
	events.RegisterAll(discordClient, engine, hub)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}
	defer func(discordClient *discord.ExtendedClient) {
		err := discordClient.Stop()
		if err != nil {

		}
	}(discordClient)

	logger.Success("PancyGuard Go iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando PancyGuard Go...", "Main")
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
