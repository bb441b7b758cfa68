package config

import "github.com/spf13/pflag"

// Flag names shared by every command.
const (
	FlagConfig        = "config"
	FlagHomeDirs      = "homedirs"
	FlagParcelInHome  = "parcel-in-home"
	FlagAdminParcel   = "admin-parcel"
	FlagPublicParcels = "public-parcels"
	FlagPublicExt     = "public-ext"
	FlagTownJSON      = "town-json"
	FlagTownJSONOld   = "town-json-old"
	FlagTxtRender     = "txt-render"
	FlagHTMLRender    = "html-render"
	FlagOriginX       = "origin-x"
	FlagOriginY       = "origin-y"
	FlagWidth         = "width"
	FlagHeight        = "height"
	FlagStore         = "store"
	FlagDSN           = "dsn"
	FlagNoMigrate     = "no-migrate"
	FlagArchiveDir    = "archive-dir"
	FlagArchiveKeep   = "archive-keep"
	FlagVerbose       = "verbose"
)

// Flags holds raw flag values. Only flags the user actually set override
// the file and environment layers.
type Flags struct {
	set *pflag.FlagSet
	v   Config

	ConfigPath string
	noMigrate  bool
}

// Bind registers the cadastre flags on fs.
func Bind(fs *pflag.FlagSet) *Flags {
	f := &Flags{set: fs}
	d := Default()
	fs.StringVar(&f.ConfigPath, FlagConfig, "", "YAML config file")
	fs.StringVar(&f.v.HomeDirs, FlagHomeDirs, d.HomeDirs, "directory containing the users' home directories")
	fs.StringVar(&f.v.ParcelInHome, FlagParcelInHome, d.ParcelInHome, "location of a user's parcel within their home directory")
	fs.StringArrayVar(&f.v.AdminParcels, FlagAdminParcel, nil, "admin parcel file (repeatable)")
	fs.StringArrayVar(&f.v.PublicParcels, FlagPublicParcels, nil, "directory of public parcels (repeatable)")
	fs.StringVar(&f.v.PublicExt, FlagPublicExt, d.PublicExt, "file extension of public parcels")
	fs.StringVar(&f.v.TownJSON, FlagTownJSON, d.TownJSON, "where to write the town json")
	fs.StringVar(&f.v.TownJSONOld, FlagTownJSONOld, "", "where to read the previous town json from (default: --town-json)")
	fs.StringVar(&f.v.TxtRender, FlagTxtRender, d.TxtRender, "where to write the text render")
	fs.StringVar(&f.v.HTMLRender, FlagHTMLRender, d.HTMLRender, "where to write the html render")
	fs.Int64Var(&f.v.Render.OriginX, FlagOriginX, d.Render.OriginX, "leftmost plot column to render")
	fs.Int64Var(&f.v.Render.OriginY, FlagOriginY, d.Render.OriginY, "topmost plot row to render")
	fs.Int64Var(&f.v.Render.Width, FlagWidth, d.Render.Width, "rendered width in plots")
	fs.Int64Var(&f.v.Render.Height, FlagHeight, d.Render.Height, "rendered height in plots")
	fs.StringVar(&f.v.Store.Driver, FlagStore, d.Store.Driver, "snapshot store: file, postgres or sqlite")
	fs.StringVar(&f.v.Store.DSN, FlagDSN, "", "postgres connection string or sqlite database path")
	fs.BoolVar(&f.noMigrate, FlagNoMigrate, false, "do not apply postgres migrations on start")
	fs.StringVar(&f.v.Archive.Dir, FlagArchiveDir, "", "keep a zstd copy of every snapshot in this directory")
	fs.IntVar(&f.v.Archive.Keep, FlagArchiveKeep, 0, "number of archived snapshots to keep (0 keeps all)")
	fs.BoolVarP(&f.v.Verbose, FlagVerbose, "v", false, "debug logging")
	return f
}

// Apply copies every flag the user set onto cfg.
func (f *Flags) Apply(cfg *Config) {
	changed := f.set.Changed
	if changed(FlagHomeDirs) {
		cfg.HomeDirs = f.v.HomeDirs
	}
	if changed(FlagParcelInHome) {
		cfg.ParcelInHome = f.v.ParcelInHome
	}
	if changed(FlagAdminParcel) {
		cfg.AdminParcels = f.v.AdminParcels
	}
	if changed(FlagPublicParcels) {
		cfg.PublicParcels = f.v.PublicParcels
	}
	if changed(FlagPublicExt) {
		cfg.PublicExt = f.v.PublicExt
	}
	if changed(FlagTownJSON) {
		cfg.TownJSON = f.v.TownJSON
	}
	if changed(FlagTownJSONOld) {
		cfg.TownJSONOld = f.v.TownJSONOld
	}
	if changed(FlagTxtRender) {
		cfg.TxtRender = f.v.TxtRender
	}
	if changed(FlagHTMLRender) {
		cfg.HTMLRender = f.v.HTMLRender
	}
	if changed(FlagOriginX) {
		cfg.Render.OriginX = f.v.Render.OriginX
	}
	if changed(FlagOriginY) {
		cfg.Render.OriginY = f.v.Render.OriginY
	}
	if changed(FlagWidth) {
		cfg.Render.Width = f.v.Render.Width
	}
	if changed(FlagHeight) {
		cfg.Render.Height = f.v.Render.Height
	}
	if changed(FlagStore) {
		cfg.Store.Driver = f.v.Store.Driver
	}
	if changed(FlagDSN) {
		cfg.Store.DSN = f.v.Store.DSN
	}
	if changed(FlagNoMigrate) {
		cfg.Store.Migrate = !f.noMigrate
	}
	if changed(FlagArchiveDir) {
		cfg.Archive.Dir = f.v.Archive.Dir
	}
	if changed(FlagArchiveKeep) {
		cfg.Archive.Keep = f.v.Archive.Keep
	}
	if changed(FlagVerbose) {
		cfg.Verbose = f.v.Verbose
	}
}

// Resolve builds the effective configuration: defaults, then the --config
// file (or CADASTRE_CONFIG), then the environment, then flags.
func (f *Flags) Resolve(lookup LookupFunc) (Config, error) {
	path := f.ConfigPath
	if v, ok := lookup("CADASTRE_CONFIG"); ok && path == "" {
		path = v
	}
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, err
	}
	f.Apply(&cfg)
	return cfg, cfg.Validate()
}
