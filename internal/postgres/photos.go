package postgres

import (
	"context"
	"database/sql"
	cl "photostream/pkg/gallery"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const tablePhotos = "photos"

const (
	photosColumnID          = `"id"`
	photosColumnUserID      = `"user_id"`
	photosColumnPhoto       = `"photo"`
	photosColumnCaption     = `"caption"`
	photosColumnPublishedAt = `"published_at"`
	photosColumnCreatedAt   = `"created_at"`
	photosColumnUpdatedAt   = `"updated_at"`
)

var photosColumns = []string{
	photosColumnID,
	photosColumnUserID,
	photosColumnPhoto,
	photosColumnCaption,
	photosColumnPublishedAt,
	photosColumnCreatedAt,
	photosColumnUpdatedAt,
}

func (p *Postgres) CreatePhoto(ctx context.Context, req cl.CreatePhotoRequest) (cl.Photo, error) {
	var photo cl.Photo
	qv, err := buildCreatePhotoQuery(req)
	if err != nil {
		return photo, errors.Wrap(err, "build create photo query")
	}
	err = p.sqldb.GetContext(ctx, &photo, qv.query, qv.args...)
	if err != nil {
		return photo, errors.Wrap(err, "execute create photo query")
	}
	return photo, nil
}

func buildCreatePhotoQuery(req cl.CreatePhotoRequest) (QueryValues, error) {
	q, args, err := psql.
		Insert(tablePhotos).
		Columns(photosColumnUserID, photosColumnPhoto, photosColumnCaption).
		Values(req.UserID, req.Photo, req.Caption).
		Suffix("RETURNING " + strings.Join(photosColumns, ", ")).
		ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "create photo build query into SQL string")
}

func (p *Postgres) GetPhoto(ctx context.Context, id int64) (cl.Photo, error) {

	var r []cl.Photo
	qv, err := buildGetPhotoQuery(id)
	if err != nil {
		return cl.Photo{}, errors.Wrap(err, "build get photo query")
	}
	err = p.sqldb.SelectContext(ctx, &r, qv.query, qv.args...)
	if err != nil {
		return cl.Photo{}, errors.Wrap(err, "execute get photo query")
	}

	// If no rows are found, return a 404.
	if len(r) == 0 {
		return cl.Photo{}, cl.ErrNotFound
	}

	return r[0], nil
}

func buildGetPhotoQuery(id int64) (QueryValues, error) {
	q, args, err := psql.
		Select(tableColumns(tablePhotos, photosColumns)...).
		From(tablePhotos).
		Where(sq.Eq{"id": id}).
		ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "get photo build query into SQL string")
}

func (p *Postgres) UpdatePhoto(ctx context.Context, req cl.UpdatePhotoRequest) (cl.Photo, error) {
	return updatePhoto(ctx, p.sqldb, req, p.clock.Now())
}

// updatePhoto overwrites the caption (and optionally the stored image
// path) of the photo with req.ID, returning the updated row.
func updatePhoto(ctx context.Context, q sqlx.QueryerContext, req cl.UpdatePhotoRequest, now time.Time) (cl.Photo, error) {
	var photo cl.Photo
	qv, err := buildUpdatePhotoQuery(req, now)
	if err != nil {
		return photo, errors.Wrap(err, "build update photo query")
	}
	err = sqlx.GetContext(ctx, q, &photo, qv.query, qv.args...)
	if err == sql.ErrNoRows {
		return photo, errors.Wrapf(cl.ErrNotFound, "photo %d", req.ID)
	}
	if err != nil {
		return photo, errors.Wrap(err, "execute update photo query")
	}
	return photo, nil
}

func buildUpdatePhotoQuery(req cl.UpdatePhotoRequest, now time.Time) (QueryValues, error) {
	b := psql.
		Update(tablePhotos).
		Set(photosColumnCaption, req.Caption).
		Set(photosColumnUpdatedAt, now).
		Where(sq.Eq{"id": req.ID}).
		Suffix("RETURNING " + strings.Join(photosColumns, ", "))
	if req.Photo != "" {
		b = b.Set(photosColumnPhoto, req.Photo)
	}
	q, args, err := b.ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "update photo build query into SQL string")
}

func (p *Postgres) PublishPhoto(ctx context.Context, id int64) (cl.Photo, error) {
	return publishPhoto(ctx, p.sqldb, id, p.clock.Now())
}

// publishPhoto stamps the photo with the given publication time. There
// is no already-published guard: re-publishing refreshes the stamp.
func publishPhoto(ctx context.Context, q sqlx.QueryerContext, id int64, now time.Time) (cl.Photo, error) {
	var photo cl.Photo
	qv, err := buildPublishPhotoQuery(id, now)
	if err != nil {
		return photo, errors.Wrap(err, "build publish photo query")
	}
	err = sqlx.GetContext(ctx, q, &photo, qv.query, qv.args...)
	if err == sql.ErrNoRows {
		return photo, errors.Wrapf(cl.ErrNotFound, "photo %d", id)
	}
	if err != nil {
		return photo, errors.Wrap(err, "execute publish photo query")
	}
	return photo, nil
}

func buildPublishPhotoQuery(id int64, now time.Time) (QueryValues, error) {
	q, args, err := psql.
		Update(tablePhotos).
		Set(photosColumnPublishedAt, now).
		Set(photosColumnUpdatedAt, now).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(photosColumns, ", ")).
		ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "publish photo build query into SQL string")
}

func (p *Postgres) DeletePhoto(ctx context.Context, id int64) (cl.Photo, error) {
	return deletePhoto(ctx, p.sqldb, id)
}

// deletePhoto removes the row and returns it, so the caller can
// release the photo's media files once the delete is committed.
func deletePhoto(ctx context.Context, q sqlx.QueryerContext, id int64) (cl.Photo, error) {
	var photo cl.Photo
	qv, err := buildDeletePhotoQuery(id)
	if err != nil {
		return photo, errors.Wrap(err, "build delete photo query")
	}
	err = sqlx.GetContext(ctx, q, &photo, qv.query, qv.args...)
	if err == sql.ErrNoRows {
		return photo, errors.Wrapf(cl.ErrNotFound, "photo %d", id)
	}
	if err != nil {
		return photo, errors.Wrap(err, "execute delete photo query")
	}
	return photo, nil
}

func buildDeletePhotoQuery(id int64) (QueryValues, error) {
	q, args, err := psql.
		Delete(tablePhotos).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(photosColumns, ", ")).
		ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "delete photo build query into SQL string")
}

func (p *Postgres) ListPhotos(ctx context.Context, req cl.ListPhotosRequest) (cl.ListPhotosResponse, error) {

	var res cl.ListPhotosResponse

	countQv, err := buildCountPhotosQuery(req)
	if err != nil {
		return res, errors.Wrap(err, "build count photos query")
	}
	err = p.sqldb.GetContext(ctx, &res.Count, countQv.query, countQv.args...)
	if err != nil {
		return res, errors.Wrap(err, "execute count photos query")
	}

	r := []cl.Photo{}
	qv, err := buildListPhotosQuery(req)
	if err != nil {
		return res, errors.Wrap(err, "build list photos query")
	}
	err = p.sqldb.SelectContext(ctx, &r, qv.query, qv.args...)
	if err != nil {
		return res, errors.Wrap(err, "execute list photos query")
	}

	res.Results = r
	return res, nil
}

// photosFilter narrows a select to the requested owner and publication
// state. published=true means published_at is set; false means draft.
func photosFilter(b sq.SelectBuilder, req cl.ListPhotosRequest) sq.SelectBuilder {
	if req.UserID.Valid {
		b = b.Where(sq.Eq{"user_id": req.UserID.Int64})
	}
	if req.Published.Valid {
		if req.Published.Bool {
			b = b.Where(photosColumnPublishedAt + " IS NOT NULL")
		} else {
			b = b.Where(photosColumnPublishedAt + " IS NULL")
		}
	}
	return b
}

func buildListPhotosQuery(req cl.ListPhotosRequest) (QueryValues, error) {
	b := psql.
		Select(tableColumns(tablePhotos, photosColumns)...).
		From(tablePhotos)
	b = photosFilter(b, req)

	// Ties are broken by insertion order for determinism.
	switch req.Ordering {
	case cl.OrderingPublishedAt:
		b = b.OrderBy(photosColumnPublishedAt+" ASC", photosColumnID+" ASC")
	case cl.OrderingPublishedAtDesc:
		b = b.OrderBy(photosColumnPublishedAt+" DESC", photosColumnID+" ASC")
	default:
		b = b.OrderBy(photosColumnID + " ASC")
	}

	b = b.
		Limit(uint64(req.PageSize)).
		Offset(uint64((req.Page - 1) * req.PageSize))
	q, args, err := b.ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "list photos build query into SQL string")
}

func buildCountPhotosQuery(req cl.ListPhotosRequest) (QueryValues, error) {
	b := psql.
		Select("COUNT(*)").
		From(tablePhotos)
	b = photosFilter(b, req)
	q, args, err := b.ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "count photos build query into SQL string")
}
