// Package source finds the parcel files that take part in a rebuild.
package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/jmdejong/cadastrs/internal/config"
	"github.com/jmdejong/cadastrs/internal/model"
	"github.com/jmdejong/cadastrs/internal/parcel"
)

// MaxParcelBytes bounds how much of a parcel file is read. A parcel needs a
// few dozen short lines; anything longer is rejected unread.
const MaxParcelBytes = 1 << 20

// ErrTooLarge is reported for parcel files above MaxParcelBytes.
var ErrTooLarge = fmt.Errorf("parcel file larger than %d bytes", MaxParcelBytes)

// Sources lists where candidates come from.
type Sources struct {
	AdminParcels []string // read in order, owned by Admin
	HomeDirs     string   // every entry is a user's home directory
	ParcelInHome string   // parcel path relative to a home directory
	PublicDirs   []string // files with PublicExt are public parcels
	PublicExt    string
}

// FromConfig picks the source settings out of cfg.
func FromConfig(cfg config.Config) Sources {
	return Sources{
		AdminParcels: cfg.AdminParcels,
		HomeDirs:     cfg.HomeDirs,
		ParcelInHome: cfg.ParcelInHome,
		PublicDirs:   cfg.PublicParcels,
		PublicExt:    cfg.PublicExt,
	}
}

// Gather yields candidates in a stable order: admin
// files, then users sorted by home directory name, then public files sorted
// per directory. Missing files are skipped silently; other read failures are
// logged and skipped.
func Gather(src Sources, log *zap.Logger) iter.Seq[model.Candidate] {
	return func(yield func(model.Candidate) bool) {
		emit := func(path string, owner parcel.Owner) bool {
			text, err := readParcel(path)
			switch {
			case err == nil:
				return yield(model.Candidate{Owner: owner, Path: path, Text: text})
			case isMissing(err):
				log.Debug("no parcel", zap.String("path", path), zap.Stringer("owner", owner))
			default:
				log.Warn("can't read parcel", zap.String("path", path), zap.Stringer("owner", owner), zap.Error(err))
			}
			return true
		}

		for _, path := range src.AdminParcels {
			if !emit(path, parcel.Admin()) {
				return
			}
		}

		if src.HomeDirs != "" {
			homes, err := os.ReadDir(src.HomeDirs)
			if err != nil {
				log.Error("can't list home directories", zap.String("dir", src.HomeDirs), zap.Error(err))
			}
			for _, e := range homes {
				home := filepath.Join(src.HomeDirs, e.Name())
				owner, ok := parcel.OwnerFromHomedir(home)
				if !ok {
					log.Debug("skipping home directory", zap.String("dir", home))
					continue
				}
				if !emit(filepath.Join(home, src.ParcelInHome), owner) {
					return
				}
			}
		}

		for _, dir := range src.PublicDirs {
			entries, err := os.ReadDir(dir)
			if err != nil {
				log.Error("can't list public parcels", zap.String("dir", dir), zap.Error(err))
				continue
			}
			for _, e := range entries {
				if e.IsDir() || filepath.Ext(e.Name()) != src.PublicExt {
					continue
				}
				if !emit(filepath.Join(dir, e.Name()), parcel.Public()) {
					return
				}
			}
		}
	}
}

func readParcel(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := io.ReadAll(io.LimitReader(f, MaxParcelBytes+1))
	if err != nil {
		return "", err
	}
	if len(b) > MaxParcelBytes {
		return "", ErrTooLarge
	}
	return string(b), nil
}

// isMissing reports errors meaning "this owner has no parcel", including a
// home entry that is a plain file.
func isMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
