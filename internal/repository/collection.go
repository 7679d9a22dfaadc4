// Package repository stores and queries ArtLink documents.
package repository

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"artlink/internal/cache"
	"artlink/internal/featureflags"
	"artlink/internal/models"
	"artlink/internal/observability"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a new document identifier. ULIDs sort by creation time, so the
// store's natural scan order roughly follows insertion.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// Store is the create/list surface of one document collection.
type Store[T any] interface {
	Create(ctx context.Context, doc *T) (string, error)
	List(ctx context.Context, filter Filter, limit int) ([]T, error)
}

// Collection is a gorm-backed document collection named after the lowercased
// type name of T.
type Collection[T any, PT interface {
	*T
	models.Document
}] struct {
	db      *gorm.DB
	name    string
	flags   *featureflags.Manager
	logger  *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewCollection returns the collection for T. A nil db yields a collection
// whose operations fail with ErrStorageUnavailable.
func NewCollection[T any, PT interface {
	*T
	models.Document
}](db *gorm.DB, flags *featureflags.Manager) *Collection[T, PT] {
	name := CollectionName[T]()
	return &Collection[T, PT]{
		db:      db,
		name:    name,
		flags:   flags,
		logger:  observability.NewRepoLogger(name),
		metrics: observability.NewDatabaseMetrics(name),
	}
}

// CollectionName returns the lowercased type name of T.
func CollectionName[T any]() string {
	return strings.ToLower(reflect.TypeOf((*T)(nil)).Elem().Name())
}

// Name returns the collection name.
func (c *Collection[T, PT]) Name() string {
	return c.name
}

// Create assigns a new identifier to doc, inserts it and returns the identifier.
func (c *Collection[T, PT]) Create(ctx context.Context, doc *T) (string, error) {
	if c.db == nil {
		return "", fmt.Errorf("%w: %w", ErrStorageUnavailable, errNoDatabase)
	}
	defer c.metrics.TrackQuery("create")()

	id := NewID()
	PT(doc).SetID(id)

	ctx, span := observability.TraceCollectionOperation(ctx, "create", c.name, c.db.Dialector.Name())
	err := c.db.WithContext(ctx).Create(doc).Error
	observability.EndSpan(span, err)
	if err != nil {
		PT(doc).SetID("")
		err = classify(err)
		c.logger.LogError(ctx, err, "create")
		return "", err
	}

	observability.DocumentsCreated.WithLabelValues(c.name).Inc()
	if err := cache.InvalidateCollection(ctx, c.name); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "list cache invalidation failed",
			slog.String("collection", c.name),
			slog.String("error", err.Error()),
		)
	}

	c.logger.LogCreate(ctx, map[string]any{"id": id})
	return id, nil
}

// List returns up to limit documents matching filter in the store's scan order.
// A limit of zero or less means no limit. The result is never nil.
func (c *Collection[T, PT]) List(ctx context.Context, filter Filter, limit int) ([]T, error) {
	if c.db == nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, errNoDatabase)
	}

	out := make([]T, 0)
	fetch := func() error {
		return c.find(ctx, filter, limit, &out)
	}

	if !c.cacheEnabled() {
		if err := fetch(); err != nil {
			return nil, err
		}
		return out, nil
	}

	key, err := cache.ListKey(ctx, c.name, fmt.Sprintf("%s:%d", filter.Key(), limit))
	if err != nil {
		if err := fetch(); err != nil {
			return nil, err
		}
		return out, nil
	}

	hit, err := cache.Aside(ctx, key, &out, cache.ListTTL, fetch)
	if err != nil {
		return nil, err
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	observability.ListCacheResults.WithLabelValues(c.name, result).Inc()
	if out == nil {
		out = make([]T, 0)
	}
	return out, nil
}

func (c *Collection[T, PT]) find(ctx context.Context, filter Filter, limit int, dest *[]T) error {
	defer c.metrics.TrackQuery("list")()

	ctx, span := observability.TraceCollectionOperation(ctx, "list", c.name, c.db.Dialector.Name())
	q := filter.Apply(c.db.WithContext(ctx))
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(dest).Error
	observability.EndSpan(span, err)
	if err != nil {
		err = classify(err)
		c.logger.LogError(ctx, err, "list")
		return err
	}

	c.logger.LogRead(ctx, map[string]any{
		"filter": filter.Key(),
		"limit":  limit,
		"count":  len(*dest),
	})
	return nil
}

func (c *Collection[T, PT]) cacheEnabled() bool {
	return c.flags.Enabled(featureflags.ListCache) && cache.GetClient() != nil
}
