// Package plugins discovers feature modules and boots the ones enabled in
// configuration.
package plugins

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Plugin is a self-contained feature module: its persisted models and its routes.
type Plugin interface {
	Name() string

	Prefix() string

	Models() []any

	Register(g *echo.Group)
}

type Registry struct {
	log     *logrus.Logger
	plugins map[string]Plugin
	order   []string
}

func NewRegistry(log *logrus.Logger) *Registry {
	return &Registry{
		log:     log,
		plugins: make(map[string]Plugin),
	}
}

// Register records a discovered plugin. Registering a name twice is an error.
func (r *Registry) Register(p Plugin) error {
	name := p.Name()
	if _, ok := r.plugins[name]; ok {
		return fmt.Errorf("plugin %q already registered", name)
	}
	r.plugins[name] = p
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Enabled resolves the enabled names against the registered plugins, in the
// order they were enabled. Unknown names are logged and skipped.
func (r *Registry) Enabled(names []string) []Plugin {
	seen := make(map[string]bool, len(names))
	var enabled []Plugin
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		p, ok := r.plugins[name]
		if !ok {
			r.log.WithField("plugin", name).Warn("enabled plugin is not registered, skipping")
			continue
		}
		enabled = append(enabled, p)
	}
	return enabled
}

// Migrate creates or upgrades the schema of every enabled plugin.
func (r *Registry) Migrate(db *gorm.DB, names []string) error {
	for _, p := range r.Enabled(names) {
		if err := db.AutoMigrate(p.Models()...); err != nil {
			return fmt.Errorf("migrate plugin %q: %w", p.Name(), err)
		}
		r.log.WithField("plugin", p.Name()).Info("plugin migrated")
	}
	return nil
}

// Boot migrates the enabled plugins and mounts their routes under /<prefix>.
// It returns the names of the booted plugins.
func (r *Registry) Boot(e *echo.Echo, db *gorm.DB, names []string) ([]string, error) {
	if err := r.Migrate(db, names); err != nil {
		return nil, err
	}

	var booted []string
	for _, p := range r.Enabled(names) {
		prefix := "/" + strings.Trim(p.Prefix(), "/")
		p.Register(e.Group(prefix))
		booted = append(booted, p.Name())

		r.log.WithFields(logrus.Fields{"plugin": p.Name(), "prefix": prefix}).Info("plugin booted")
	}
	return booted, nil
}
