package config

import (
	"fmt"

	"github.com/colony/backend/internal/domain/governance"
	"github.com/spf13/viper"
)

// roleCatalogFile is the on-disk layout of a role catalog:
//
//	version = "2025.1"
//	[[roles]]
//	key = "president"
//	seat = "single"
//	order = 4
//	labels = { en = "President", te = "అధ్యక్షుడు" }
type roleCatalogFile struct {
	Version string            `mapstructure:"version"`
	Roles   []governance.Role `mapstructure:"roles"`
}

// LoadRoleCatalog returns the built-in catalog when path is empty, otherwise
// reads a TOML, YAML or JSON catalog file (format chosen by extension)
func LoadRoleCatalog(path string) (*governance.RoleCatalog, error) {
	if path == "" {
		return governance.DefaultRoleCatalog(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read role catalog %s: %w", path, err)
	}

	var file roleCatalogFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode role catalog %s: %w", path, err)
	}

	catalog, err := governance.NewRoleCatalog(file.Version, file.Roles)
	if err != nil {
		return nil, fmt.Errorf("invalid role catalog %s: %w", path, err)
	}
	return catalog, nil
}
