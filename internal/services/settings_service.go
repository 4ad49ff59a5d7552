package services

import (
	"context"
	"sync"
	"time"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// SettingsService owns the process-wide settings singleton. Interested
// readers subscribe for push notification on change instead of polling
// the store themselves; Watch covers the remaining case of another
// process writing the settings key behind this one's back.
type SettingsService struct {
	store  storage.RecordStore
	logger *log.Logger

	mu      sync.Mutex
	current core.Settings
	loaded  bool
	subs    []chan core.Settings
}

func NewSettingsService(store storage.RecordStore, logger *log.Logger) *SettingsService {
	return &SettingsService{
		store:  store,
		logger: logger.WithComponent(log.ComponentSettings),
	}
}

// Get returns the current settings, defaulting to solo when the key is
// absent or malformed.
func (s *SettingsService) Get(ctx context.Context) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(ctx)
}

func (s *SettingsService) getLocked(ctx context.Context) (core.Settings, error) {
	if s.loaded {
		return s.current, nil
	}
	settings, err := s.readStore(ctx)
	if err != nil {
		return core.Settings{}, err
	}
	s.current = settings
	s.loaded = true
	return settings, nil
}

func (s *SettingsService) readStore(ctx context.Context) (core.Settings, error) {
	settings, err := loadCollection[core.Settings](ctx, s.store, s.logger, storage.KeySettings)
	if err != nil {
		return core.Settings{}, err
	}
	if !settings.LivingStatus.IsValid() {
		settings.LivingStatus = core.LivingSolo
	}
	return settings, nil
}

// SetLivingStatus persists the new status and notifies subscribers.
func (s *SettingsService) SetLivingStatus(ctx context.Context, status core.LivingStatus) error {
	settings := core.Settings{LivingStatus: status}
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := saveCollection(ctx, s.store, storage.KeySettings, settings); err != nil {
		return err
	}
	changed := !s.loaded || s.current != settings
	s.current = settings
	s.loaded = true
	if changed {
		s.logger.Info("Living status changed", log.FieldStatus, string(status))
		s.notifyLocked(settings)
	}
	return nil
}

// Subscribe returns a channel receiving every settings change. The
// channel is buffered and never blocks the writer; a slow reader only
// sees the latest value it managed to keep up with.
func (s *SettingsService) Subscribe() <-chan core.Settings {
	ch := make(chan core.Settings, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// Watch polls the settings key until the context ends, picking up
// writes made by another process sharing the store. Detection latency
// is bounded by the interval; last write wins on conflict.
func (s *SettingsService) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	s.logger.Info("Watching settings for external changes",
		log.FieldOperation, log.OpWatch,
		"interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *SettingsService) poll(ctx context.Context) {
	settings, err := s.readStore(ctx)
	if err != nil {
		s.logger.Warn("Settings poll failed", log.FieldError, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded && s.current == settings {
		return
	}
	s.current = settings
	s.loaded = true
	s.logger.Info("Settings changed externally", log.FieldStatus, string(settings.LivingStatus))
	s.notifyLocked(settings)
}

func (s *SettingsService) notifyLocked(settings core.Settings) {
	for _, ch := range s.subs {
		// Drop-and-replace: a subscriber that has not drained its
		// buffer gets the newest value, not a backlog.
		select {
		case ch <- settings:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- settings:
			default:
			}
		}
	}
}
