// Package itemservice is the board's item provider: it coordinates the card
// files in storage with the SQLite index.
package itemservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/safal938/board28-sub000/internal/apperr"
	"github.com/safal938/board28-sub000/internal/index"
	"github.com/safal938/board28-sub000/internal/models"
	"github.com/safal938/board28-sub000/internal/parser"
	"github.com/safal938/board28-sub000/internal/storage"
)

// Service coordinates storage and index operations.
type Service struct {
	store  storage.Provider
	db     index.ItemIndex
	logger *slog.Logger
}

// NewService creates a new item service.
func NewService(store storage.Provider, db index.ItemIndex, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, db: db, logger: logger}
}

// Get returns an item by id.
func (s *Service) Get(_ context.Context, id string) (*models.Item, error) {
	return s.db.GetItem(id)
}

// List returns a page of items and the total count.
func (s *Service) List(_ context.Context, f index.ListFilter) ([]models.Item, int, error) {
	items, total, err := s.db.ListItems(f)
	if err != nil {
		return nil, 0, err
	}
	return nonNilSlice(items), total, nil
}

// Dated returns every item with a date, oldest first.
func (s *Service) Dated(_ context.Context) ([]models.Item, error) {
	return s.db.DatedItems()
}

// Create writes a new card file and indexes it. An empty id is replaced by
// a random UUID.
func (s *Service) Create(_ context.Context, item models.Item) (*models.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if err := validateID(item.ID); err != nil {
		return nil, err
	}
	if _, err := s.db.GetItem(item.ID); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	path := storage.CardPath(item.ID)
	if _, err := s.store.Read(path); err == nil {
		return nil, apperr.ErrAlreadyExists
	}
	return s.write(path, item)
}

// Update applies fn to the stored item and persists the result. The id
// cannot be changed through fn.
func (s *Service) Update(_ context.Context, id string, fn func(*models.Item)) (*models.Item, error) {
	path, err := s.db.PathOf(id)
	if err != nil {
		return nil, err
	}
	data, err := s.store.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	item, err := parser.Parse(path, data)
	if err != nil {
		return nil, err
	}
	fn(&item)
	item.ID = id
	return s.write(path, item)
}

// MoveTo sets an item's world position.
func (s *Service) MoveTo(ctx context.Context, id string, x, y float64) (*models.Item, error) {
	return s.Update(ctx, id, func(it *models.Item) {
		it.X = x
		it.Y = y
	})
}

// Delete removes the card file and its index row.
func (s *Service) Delete(_ context.Context, id string) error {
	path, err := s.db.PathOf(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	_, err = s.db.DeleteByPath(path)
	return err
}

// Item looks an item up for the camera. Lookup failures other than "not
// found" are logged and reported as missing.
func (s *Service) Item(id string) (models.Item, bool) {
	it, err := s.db.GetItem(id)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			s.logger.Warn("item lookup failed", slog.String("item_id", id), slog.String("error", err.Error()))
		}
		return models.Item{}, false
	}
	return *it, true
}

// First returns the first item in id order.
func (s *Service) First() (models.Item, bool) {
	items, _, err := s.db.ListItems(index.ListFilter{Limit: 1})
	if err != nil {
		s.logger.Warn("first item lookup failed", slog.String("error", err.Error()))
		return models.Item{}, false
	}
	if len(items) == 0 {
		return models.Item{}, false
	}
	return items[0], true
}

func (s *Service) write(path string, item models.Item) (*models.Item, error) {
	data, err := parser.Render(item)
	if err != nil {
		return nil, err
	}
	if err := s.store.Write(path, data); err != nil {
		return nil, err
	}
	if _, err := index.IndexFile(s.db, path, data); err != nil {
		return nil, err
	}
	return s.db.GetItem(item.ID)
}

func validateID(id string) error {
	if strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return fmt.Errorf("%w: item id %q must be a plain name", apperr.ErrInvalidArgument, id)
	}
	return nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
