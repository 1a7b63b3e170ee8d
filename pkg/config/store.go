package config

import (
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Store publishes the current configuration snapshot. Replacement is atomic:
// callers holding an older snapshot keep using it, later calls to Current see
// the new one. Subscribers run after the swap.
type Store struct {
	current atomic.Pointer[Configuration]
	logger  *zap.Logger

	mu          sync.Mutex
	subscribers map[int]func(*Configuration)
	nextID      int
}

// NewStore creates a store holding initial, or Default when initial is nil.
func NewStore(initial *Configuration, logger *zap.Logger) *Store {
	if initial == nil {
		initial = Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		logger:      logger,
		subscribers: make(map[int]func(*Configuration)),
	}
	s.current.Store(initial.Clone())
	return s
}

// Current returns the active snapshot. Read it once per top-level event.
func (s *Store) Current() *Configuration {
	return s.current.Load()
}

// Replace validates cfg and makes a copy of it the active snapshot.
func (s *Store) Replace(cfg *Configuration) error {
	next := cfg.Clone()
	if err := next.Validate(); err != nil {
		return err
	}
	for _, warning := range next.Lint() {
		s.logger.Warn("template placeholder missing",
			zap.String("template", warning.Template),
			zap.String("placeholder", warning.Placeholder))
	}

	s.current.Store(next)
	s.logger.Debug("configuration replaced",
		zap.String("tag_style", string(next.TagStyle)),
		zap.Int("tag_indentation", next.TagIndentation))

	s.mu.Lock()
	callbacks := make([]func(*Configuration), 0, len(s.subscribers))
	for _, callback := range s.subscribers {
		callbacks = append(callbacks, callback)
	}
	s.mu.Unlock()

	for _, callback := range callbacks {
		callback(next)
	}
	return nil
}

// Subscribe registers fn to be called with every new snapshot. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(*Configuration)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Watch reloads path whenever it changes on disk. A file that fails to load
// is logged and the previous snapshot stays active.
func (s *Store) Watch(path string) error {
	reader := newReader()
	reader.SetConfigFile(path)
	if err := reader.ReadInConfig(); err != nil {
		return err
	}

	reader.OnConfigChange(func(event fsnotify.Event) {
		s.reload(reader, event)
	})
	reader.WatchConfig()
	return nil
}

func (s *Store) reload(reader *viper.Viper, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	cfg, err := decode(reader, event.Name)
	if err != nil {
		s.logger.Warn("configuration reload failed", zap.String("path", event.Name), zap.Error(err))
		return
	}
	if err := s.Replace(cfg); err != nil {
		s.logger.Warn("configuration rejected", zap.String("path", event.Name), zap.Error(err))
		return
	}
	s.logger.Info("configuration reloaded", zap.String("path", event.Name))
}
