// Package config resolves cadastre settings from defaults, a YAML file,
// CADASTRE_* environment variables and command-line flags, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/jmdejong/cadastrs/internal/errs"
)

// Snapshot store drivers.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Config is the full set of settings for one invocation.
type Config struct {
	HomeDirs      string   `yaml:"homedirs"`
	ParcelInHome  string   `yaml:"parcel_in_home"`
	AdminParcels  []string `yaml:"admin_parcels"`
	PublicParcels []string `yaml:"public_parcels"`
	PublicExt     string   `yaml:"public_ext"`

	TownJSON    string `yaml:"town_json"`
	TownJSONOld string `yaml:"town_json_old"`
	TxtRender   string `yaml:"txt_render"`
	HTMLRender  string `yaml:"html_render"`

	Render  Render  `yaml:"render"`
	Store   Store   `yaml:"store"`
	Archive Archive `yaml:"archive"`

	Verbose bool `yaml:"verbose"`
}

// Render is the viewport in plot units.
type Render struct {
	OriginX int64 `yaml:"origin_x"`
	OriginY int64 `yaml:"origin_y"`
	Width   int64 `yaml:"width"`
	Height  int64 `yaml:"height"`
}

// Store selects where snapshots are persisted.
type Store struct {
	Driver  string `yaml:"driver"`
	DSN     string `yaml:"dsn"`
	Migrate bool   `yaml:"migrate"`
}

// Archive enables compressed snapshot history when Dir is set.
type Archive struct {
	Dir  string `yaml:"dir"`
	Keep int    `yaml:"keep"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		HomeDirs:     "/home/",
		ParcelInHome: ".cadastre/home.txt",
		PublicExt:    ".prcl",
		TownJSON:     "./town.json",
		TxtRender:    "./town.txt",
		HTMLRender:   "./town.html",
		Render:       Render{Width: 25, Height: 25},
		Store:        Store{Driver: StoreFile, Migrate: true},
	}
}

// Load overlays the YAML file at path onto the defaults. An empty path
// returns the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overlays CADASTRE_* variables. List variables are split with
// the OS path list separator.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok {
			*dst = filepath.SplitList(v)
		}
	}
	str("CADASTRE_HOME_DIRS", &c.HomeDirs)
	str("CADASTRE_TOWN_JSON_PATH", &c.ParcelInHome)
	str("CADASTRE_PARCEL_IN_HOME", &c.ParcelInHome)
	list("CADASTRE_ADMIN_PARCEL_FILE", &c.AdminParcels)
	list("CADASTRE_PUBLIC_PARCELS_DIRS", &c.PublicParcels)
	str("CADASTRE_PUBLIC_EXT", &c.PublicExt)
	str("CADASTRE_TOWN_JSON_FILE", &c.TownJSON)
	str("CADASTRE_TOWN_JSON_OLD_FILE", &c.TownJSONOld)
	str("CADASTRE_TXT_RENDER_FILE", &c.TxtRender)
	str("CADASTRE_HTML_RENDER_FILE", &c.HTMLRender)
	str("CADASTRE_STORE", &c.Store.Driver)
	str("CADASTRE_DSN", &c.Store.DSN)
	str("CADASTRE_ARCHIVE_DIR", &c.Archive.Dir)

	if v, ok := lookup("CADASTRE_ARCHIVE_KEEP"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CADASTRE_ARCHIVE_KEEP: %w", err)
		}
		c.Archive.Keep = n
	}
	return nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Archive.Keep < 0 {
		return fmt.Errorf("archive keep must not be negative, got %d", c.Archive.Keep)
	}
	switch c.Store.Driver {
	case StoreFile:
		if c.TownJSON == "" {
			return errors.New("town_json must be set for the file store")
		}
	case StorePostgres, StoreSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("store %q needs a dsn", c.Store.Driver)
		}
	default:
		return fmt.Errorf("%w: %q", errs.ErrUnknownStore, c.Store.Driver)
	}
	return nil
}
