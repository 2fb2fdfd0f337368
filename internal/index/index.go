package index

import "github.com/safal938/board28-sub000/internal/models"

// ItemIndex is the query surface of the index. Consumers depend on it
// rather than on *DB so tests can substitute fakes.
type ItemIndex interface {
	UpsertItem(path string, item models.Item) error
	DeleteByPath(path string) (string, error)
	GetItem(id string) (*models.Item, error)
	PathOf(id string) (string, error)
	ListItems(f ListFilter) ([]models.Item, int, error)
	DatedItems() ([]models.Item, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

var _ ItemIndex = (*DB)(nil)
