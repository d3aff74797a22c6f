// Package database provides the per-guild settings service with in-memory caching.
package database

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrSettingsManagerNotInitialized = errors.New("settings data manager not initialized")
	ErrSettingsNotFound              = errors.New("configuración del servidor no encontrada")
)

// SettingsCache provides in-memory caching for guild settings.
// The bot reads settings on every member join and every message (filters),
// so the whole collection is kept in memory and refreshed periodically.
type SettingsCache struct {
	entries  map[string]*models.GuildSettings
	mu       sync.RWMutex
	ticker   *time.Ticker
	done     chan bool
	stopOnce sync.Once
}

var settingsCache = &SettingsCache{
	entries: make(map[string]*models.GuildSettings),
	done:    make(chan bool),
}

// InitSettingsCache initializes and loads the settings cache from the database.
// Should be called at bot startup after InitGlobalDataManagers.
func InitSettingsCache() error {
	return RefreshSettingsCache()
}

// StartSettingsCacheRefresh starts a goroutine that refreshes the cache every 5 minutes
func StartSettingsCacheRefresh() {
	settingsCache.ticker = time.NewTicker(5 * time.Minute)

	go func() {
		for {
			select {
			case <-settingsCache.done:
				return
			case <-settingsCache.ticker.C:
				if err := RefreshSettingsCache(); err != nil {
					logger.Error("Error refrescando caché de configuración: "+err.Error(), "SettingsCache")
				} else {
					logger.Debug("Caché de configuración refrescada automáticamente", "SettingsCache")
				}
			}
		}
	}()

	logger.System("Sistema de caché de configuración iniciado (refresco cada 5 minutos)", "SettingsCache")
}

// StopSettingsCacheRefresh stops the cache refresh goroutine
func StopSettingsCacheRefresh() {
	settingsCache.stopOnce.Do(func() {
		if settingsCache.ticker != nil {
			settingsCache.ticker.Stop()
		}
		close(settingsCache.done)
	})
}

// RefreshSettingsCache reloads all settings documents from the database into cache
func RefreshSettingsCache() error {
	dm, err := getSettingsManager()
	if err != nil {
		return err
	}

	entries, err := dm.GetAll(bson.M{})
	if err != nil {
		return err
	}

	settingsCache.mu.Lock()
	defer settingsCache.mu.Unlock()

	settingsCache.entries = make(map[string]*models.GuildSettings)
	for _, entry := range entries {
		settingsCache.entries[entry.GuildID] = entry
	}

	logger.Info(fmt.Sprintf("Caché de configuración cargada: %d servidores", len(settingsCache.entries)), "SettingsCache")
	return nil
}

func addSettingsToCache(entry *models.GuildSettings) {
	settingsCache.mu.Lock()
	defer settingsCache.mu.Unlock()
	settingsCache.entries[entry.GuildID] = entry
}

func getSettingsFromCache(guildID string) (*models.GuildSettings, bool) {
	settingsCache.mu.RLock()
	defer settingsCache.mu.RUnlock()
	entry, exists := settingsCache.entries[guildID]
	return entry, exists
}

func getSettingsManager() (*DataManager[models.GuildSettings], error) {
	if GlobalSettingsDM == nil {
		return nil, ErrSettingsManagerNotInitialized
	}
	return GlobalSettingsDM, nil
}

// EnsureGuildSettings registers the default settings document for a guild if
// none exists yet. Called on guildCreate and backfilled for every guild on ready.
func EnsureGuildSettings(guildID, guildName, ownerID string) (*models.GuildSettings, error) {
	if entry, exists := getSettingsFromCache(guildID); exists {
		return entry, nil
	}

	dm, err := getSettingsManager()
	if err != nil {
		return nil, err
	}

	existing, err := dm.Get(bson.M{"_id": guildID})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		addSettingsToCache(existing)
		return existing, nil
	}

	settings := models.NewGuildSettings(guildID, guildName, ownerID)
	result, err := dm.Set(bson.M{"_id": guildID}, settings)
	if err != nil {
		return nil, err
	}

	addSettingsToCache(result)
	logger.Success(fmt.Sprintf("Servidor registrado en la DB: %s (%s)", guildName, guildID), "SettingsCache")
	return result, nil
}

// GetGuildSettings returns the settings of a guild, cache first.
func GetGuildSettings(guildID string) (*models.GuildSettings, error) {
	if entry, exists := getSettingsFromCache(guildID); exists {
		return entry, nil
	}

	dm, err := getSettingsManager()
	if err != nil {
		return nil, err
	}

	entry, err := dm.Get(bson.M{"_id": guildID})
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrSettingsNotFound
	}

	addSettingsToCache(entry)
	return entry, nil
}

// UpdateGuildSettings persists a full settings document and updates the cache
func UpdateGuildSettings(settings *models.GuildSettings) (*models.GuildSettings, error) {
	dm, err := getSettingsManager()
	if err != nil {
		return nil, err
	}

	result, err := dm.Set(bson.M{"_id": settings.GuildID}, settings)
	if err != nil {
		return nil, err
	}

	addSettingsToCache(result)
	return result, nil
}
