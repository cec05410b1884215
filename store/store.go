// Package store is the document persistence layer. Collections are addressed
// by model type, documents by opaque string id, and queries by typed Filters.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinel errors for store operations.
var (
	ErrNotFound         = errors.New("document not found")
	ErrStoreUnavailable = errors.New("store connection not available")
	ErrInvalidField     = errors.New("invalid field name")
	ErrDuplicate        = errors.New("duplicate document")
)

// Store wraps a gorm connection. It is built once at startup and passed to
// whoever needs it.
type Store struct {
	db *gorm.DB
}

// New wraps db. A nil handle yields ErrStoreUnavailable.
func New(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, ErrStoreUnavailable
	}
	return &Store{db: db}, nil
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the tables for models.
func (s *Store) Migrate(models ...interface{}) error {
	return s.db.AutoMigrate(models...)
}

// Ping checks the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// CollectionNames lists the tables of the current database.
func (s *Store) CollectionNames() ([]string, error) {
	return s.db.Migrator().GetTables()
}

// Dialect names the driver in use, e.g. "mysql" or "sqlite".
func (s *Store) Dialect() string {
	return s.db.Dialector.Name()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// identified is satisfied by every model embedding model.Document.
type identified interface {
	GetID() string
}

// Collection gives typed access to the documents of one model.
type Collection[T any] struct {
	db *gorm.DB
}

// NewCollection returns the collection of T documents in s.
func NewCollection[T any](s *Store) (*Collection[T], error) {
	if s == nil || s.db == nil {
		return nil, ErrStoreUnavailable
	}
	return &Collection[T]{db: s.db}, nil
}

func (c *Collection[T]) where(ctx context.Context, filter Filter) (*gorm.DB, error) {
	if filter == nil {
		filter = All()
	}
	expr, err := filter.expression()
	if err != nil {
		return nil, err
	}
	return c.db.WithContext(ctx).Model(new(T)).Where(expr), nil
}

// FindOne returns the first document matching filter.
func (c *Collection[T]) FindOne(ctx context.Context, filter Filter) (T, error) {
	var doc T
	query, err := c.where(ctx, filter)
	if err != nil {
		return doc, err
	}
	if err := query.Take(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return doc, ErrNotFound
		}
		return doc, err
	}
	return doc, nil
}

// FindByID returns the document with the given id. Ids that are not
// well-formed are reported as ErrNotFound.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (T, error) {
	if !ValidID(id) {
		var zero T
		return zero, ErrNotFound
	}
	return c.FindOne(ctx, Equals("id", id))
}

// FindMany returns every document matching filter in the requested order.
func (c *Collection[T]) FindMany(ctx context.Context, filter Filter, sort Sort) ([]T, error) {
	query, err := c.where(ctx, filter)
	if err != nil {
		return nil, err
	}
	order, ok, err := sort.orderBy()
	if err != nil {
		return nil, err
	}
	if ok {
		query = query.Order(order)
	}

	docs := make([]T, 0)
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// InsertOne stores doc and returns its generated id.
func (c *Collection[T]) InsertOne(ctx context.Context, doc *T) (string, error) {
	if err := c.db.WithContext(ctx).Create(doc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return "", err
	}
	if d, ok := any(doc).(identified); ok {
		return d.GetID(), nil
	}
	return "", nil
}

// firstID resolves the id of the first document matching filter.
func (c *Collection[T]) firstID(ctx context.Context, filter Filter) (string, bool, error) {
	query, err := c.where(ctx, filter)
	if err != nil {
		return "", false, err
	}
	var ids []string
	if err := query.Limit(1).Pluck("id", &ids).Error; err != nil {
		return "", false, err
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[0], true, nil
}

// UpdateOne applies changes to the first document matching filter and returns
// the number of matched documents (0 or 1).
func (c *Collection[T]) UpdateOne(ctx context.Context, filter Filter, changes map[string]interface{}) (int64, error) {
	for field := range changes {
		if _, err := column(field); err != nil {
			return 0, err
		}
	}

	id, found, err := c.firstID(ctx, filter)
	if err != nil || !found {
		return 0, err
	}
	if len(changes) == 0 {
		return 1, nil
	}

	err = c.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(changes).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, fmt.Errorf("%w: %v", ErrDuplicate, err)
		}
		return 0, err
	}
	return 1, nil
}

// DeleteOne removes the first document matching filter and returns the number deleted.
func (c *Collection[T]) DeleteOne(ctx context.Context, filter Filter) (int64, error) {
	id, found, err := c.firstID(ctx, filter)
	if err != nil || !found {
		return 0, err
	}
	res := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	return res.RowsAffected, res.Error
}

// DeleteMany removes every document matching filter and returns the number deleted.
func (c *Collection[T]) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	if filter == nil {
		filter = All()
	}
	expr, err := filter.expression()
	if err != nil {
		return 0, err
	}
	res := c.db.WithContext(ctx).Where(expr).Delete(new(T))
	return res.RowsAffected, res.Error
}

// Count returns the number of documents matching filter.
func (c *Collection[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	query, err := c.where(ctx, filter)
	if err != nil {
		return 0, err
	}
	var n int64
	err = query.Count(&n).Error
	return n, err
}

// ValidID reports whether id has the shape of a generated document id.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
