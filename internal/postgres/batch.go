package postgres

import (
	"context"
	cl "photostream/pkg/gallery"

	"github.com/jmoiron/sqlx"
)

// batchApplyFn applies the batch item at the given index inside the
// batch transaction. It returns the resulting photo, or nil when the
// item produces no entity (delete).
type batchApplyFn func(ctx context.Context, tx *sqlx.Tx, index int) (*cl.Photo, error)

// applyBatch applies count items through fn as a single atomic unit.
// Items run sequentially in input order and the returned photos keep
// that order. The first failing item aborts the batch: the whole
// transaction is rolled back, nothing applied earlier persists, and
// the item's error is returned as the batch error.
func (p *Postgres) applyBatch(ctx context.Context, count int, fn batchApplyFn) ([]cl.Photo, error) {
	photos := make([]cl.Photo, 0, count)
	err := p.inTx(ctx, func(tx *sqlx.Tx) error {
		for i := 0; i < count; i++ {
			photo, err := fn(ctx, tx, i)
			if err != nil {
				return err
			}
			if photo != nil {
				photos = append(photos, *photo)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// BatchPublishPhotos publishes every photo in ids, stamping each with
// the current time. Duplicate ids are applied once per occurrence.
func (p *Postgres) BatchPublishPhotos(ctx context.Context, ids []int64) ([]cl.Photo, error) {
	return p.applyBatch(ctx, len(ids), func(ctx context.Context, tx *sqlx.Tx, i int) (*cl.Photo, error) {
		photo, err := publishPhoto(ctx, tx, ids[i], p.clock.Now())
		if err != nil {
			return nil, err
		}
		return &photo, nil
	})
}

// BatchEditPhotos overwrites the caption of every photo in items.
func (p *Postgres) BatchEditPhotos(ctx context.Context, items []cl.EditPhoto) ([]cl.Photo, error) {
	return p.applyBatch(ctx, len(items), func(ctx context.Context, tx *sqlx.Tx, i int) (*cl.Photo, error) {
		req := cl.UpdatePhotoRequest{ID: items[i].ID, Caption: items[i].Caption}
		photo, err := updatePhoto(ctx, tx, req, p.clock.Now())
		if err != nil {
			return nil, err
		}
		return &photo, nil
	})
}

// BatchDeletePhotos removes every photo in ids. A delete batch carries
// no per-item result, but the removed rows are returned so the caller
// can release their media files after the transaction commits.
func (p *Postgres) BatchDeletePhotos(ctx context.Context, ids []int64) ([]cl.Photo, error) {
	deleted := make([]cl.Photo, 0, len(ids))
	_, err := p.applyBatch(ctx, len(ids), func(ctx context.Context, tx *sqlx.Tx, i int) (*cl.Photo, error) {
		photo, err := deletePhoto(ctx, tx, ids[i])
		if err != nil {
			return nil, err
		}
		deleted = append(deleted, photo)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
