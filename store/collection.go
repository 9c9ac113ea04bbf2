package store

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	models "product-cart-store/model"
)

// Record is implemented by the types kept in a Collection.
type Record[T any] interface {
	RecordID() models.ID
	WithID(id models.ID) T
}

// Options configures a Collection. Zero values fall back to sequential ids,
// strict matching and a no-op logger.
type Options struct {
	IDs    IDAllocator
	Match  Matcher
	Logger *zap.Logger
}

// Collection is an ordered set of records persisted as one JSON array.
//
// Mutations (Insert, Replace, Delete, Modify) hold mu for the whole
// read-modify-write cycle, so two writers on the same collection can never
// overwrite each other's changes. Reads take no lock and see the last
// complete document.
type Collection[T Record[T]] struct {
	name    string
	backend Backend
	ids     IDAllocator
	match   Matcher
	logger  *zap.Logger

	mu    sync.Mutex
	reads singleflight.Group
}

const readKey = "document"

// NewCollection returns a collection stored in backend.
func NewCollection[T Record[T]](name string, backend Backend, opts Options) *Collection[T] {
	if opts.IDs == nil {
		opts.IDs = Sequential{}
	}
	if opts.Match == nil {
		opts.Match = StrictMatch
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Collection[T]{
		name:    name,
		backend: backend,
		ids:     opts.IDs,
		match:   opts.Match,
		logger:  opts.Logger.With(zap.String("collection", name)),
	}
}

func (c *Collection[T]) Name() string { return c.name }

// EnsureExists creates the backing document if it does not exist yet.
func (c *Collection[T]) EnsureExists(ctx context.Context) error {
	if err := c.backend.EnsureExists(ctx); err != nil {
		return c.fail("ensure", err)
	}
	return nil
}

// List returns the records in insertion order. A positive limit keeps only
// the first limit records.
func (c *Collection[T]) List(ctx context.Context, limit int) ([]T, error) {
	recs, err := c.loadShared(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(recs) {
		recs = recs[:limit]
	}
	return recs, nil
}

// Get returns the first record whose id matches according to the
// collection's Matcher.
func (c *Collection[T]) Get(ctx context.Context, id models.ID) (T, error) {
	var zero T
	recs, err := c.loadShared(ctx)
	if err != nil {
		return zero, err
	}
	for _, r := range recs {
		if c.match(r.RecordID(), id) {
			return r, nil
		}
	}
	return zero, ErrNotFound
}

// Insert assigns a fresh id to rec, appends it and persists the collection.
func (c *Collection[T]) Insert(ctx context.Context, rec T) (T, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.load(ctx)
	if err != nil {
		return zero, err
	}

	existing := make([]models.ID, len(recs))
	for i, r := range recs {
		existing[i] = r.RecordID()
	}
	id, err := c.ids.Next(existing)
	if err != nil {
		return zero, c.fail("allocate id", err)
	}

	rec = rec.WithID(id)
	if err := c.persist(ctx, append(recs, rec)); err != nil {
		return zero, err
	}
	c.logger.Debug("record inserted", zap.Stringer("id", id))
	return rec, nil
}

// Replace overwrites the record with the given id. The stored id is kept
// whatever id rec carries.
func (c *Collection[T]) Replace(ctx context.Context, id models.ID, rec T) (T, error) {
	return c.Modify(ctx, id, func(T) (T, error) { return rec, nil })
}

// Modify applies fn to the record with the given id and persists the result.
// When fn returns an error nothing is written and the error is returned as is.
func (c *Collection[T]) Modify(ctx context.Context, id models.ID, fn func(T) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.load(ctx)
	if err != nil {
		return zero, err
	}
	i := indexOf(recs, id)
	if i < 0 {
		return zero, ErrNotFound
	}

	stored := recs[i]
	updated, err := fn(stored)
	if err != nil {
		return zero, err
	}
	updated = updated.WithID(stored.RecordID())
	recs[i] = updated

	if err := c.persist(ctx, recs); err != nil {
		return zero, err
	}
	c.logger.Debug("record updated", zap.Stringer("id", updated.RecordID()))
	return updated, nil
}

// Delete removes the record with the given id.
func (c *Collection[T]) Delete(ctx context.Context, id models.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	recs, err := c.load(ctx)
	if err != nil {
		return err
	}
	i := indexOf(recs, id)
	if i < 0 {
		return ErrNotFound
	}

	if err := c.persist(ctx, slices.Delete(recs, i, i+1)); err != nil {
		return err
	}
	c.logger.Debug("record deleted", zap.Stringer("id", id))
	return nil
}

// Replace, Modify and Delete always address records by strict id.
func indexOf[T Record[T]](recs []T, id models.ID) int {
	return slices.IndexFunc(recs, func(r T) bool { return StrictMatch(r.RecordID(), id) })
}

// load reads the document straight from the backend. Writers must use it
// instead of loadShared: joining a read that started before the previous
// write finished would bring back a stale document.
func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.backend.Read(ctx)
	if err != nil {
		return nil, c.fail("read", err)
	}
	return c.decode(data)
}

// loadShared coalesces concurrent reads into one backend call. Each caller
// decodes its own copy. The shared read ignores the cancellation of
// whichever caller started it; every caller stops waiting on its own ctx.
func (c *Collection[T]) loadShared(ctx context.Context) ([]T, error) {
	ch := c.reads.DoChan(readKey, func() (any, error) {
		return c.backend.Read(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, &StorageError{Collection: c.name, Op: "read", Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, c.fail("read", res.Err)
		}
		return c.decode(res.Val.([]byte))
	}
}

func (c *Collection[T]) decode(data []byte) ([]T, error) {
	var recs []T
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, c.fail("decode", err)
	}
	if recs == nil {
		recs = []T{}
	}
	return recs, nil
}

func (c *Collection[T]) persist(ctx context.Context, recs []T) error {
	if recs == nil {
		recs = []T{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return c.fail("encode", err)
	}
	if err := c.backend.Write(ctx, data); err != nil {
		return c.fail("write", err)
	}
	c.reads.Forget(readKey)
	return nil
}

func (c *Collection[T]) fail(op string, err error) error {
	c.logger.Error("storage failure", zap.String("op", op), zap.Error(err))
	return &StorageError{Collection: c.name, Op: op, Err: err}
}
