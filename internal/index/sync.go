package index

import (
	"log/slog"

	"github.com/safal938/board28-sub000/internal/checksum"
	"github.com/safal938/board28-sub000/internal/parser"
	"github.com/safal938/board28-sub000/internal/storage"
)

// Sync brings the index up to date with the board directory:
//   - new or changed card files are parsed and upserted
//   - rows whose file is gone are deleted
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if _, err := IndexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; ok {
			continue
		}
		if _, err := db.DeleteByPath(p); err != nil {
			logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: removed stale", slog.String("path", p))
		}
	}

	return nil
}

// IndexFile parses a card file and upserts it, returning the item id.
func IndexFile(db ItemIndex, path string, data []byte) (string, error) {
	item, err := parser.Parse(path, data)
	if err != nil {
		return "", err
	}
	item.Checksum = checksum.Sum(data)
	if err := db.UpsertItem(path, item); err != nil {
		return "", err
	}
	return item.ID, nil
}
