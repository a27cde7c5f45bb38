package postgres

import (
	"context"
	cl "photostream/pkg/gallery"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/pkg/errors"
)

const tableUsers = "users"

const (
	usersColumnID           = `"id"`
	usersColumnUsername     = `"username"`
	usersColumnPasswordHash = `"password_hash"`
	usersColumnCreatedAt    = `"created_at"`
)

var usersColumns = []string{
	usersColumnID,
	usersColumnUsername,
	usersColumnPasswordHash,
	usersColumnCreatedAt,
}

func (p *Postgres) CreateUser(ctx context.Context, req cl.CreateUserRequest) (cl.User, error) {
	var user cl.User
	qv, err := buildCreateUserQuery(req)
	if err != nil {
		return user, errors.Wrap(err, "build create user query")
	}
	err = p.sqldb.GetContext(ctx, &user, qv.query, qv.args...)
	if err != nil {
		return user, errors.Wrap(err, "execute create user query")
	}
	return user, nil
}

func buildCreateUserQuery(req cl.CreateUserRequest) (QueryValues, error) {
	q, args, err := psql.
		Insert(tableUsers).
		Columns(usersColumnUsername, usersColumnPasswordHash).
		Values(req.Username, req.PasswordHash).
		Suffix("RETURNING " + strings.Join(usersColumns, ", ")).
		ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "create user build query into SQL string")
}

func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (cl.User, error) {

	var r []cl.User
	qv, err := buildGetUserByUsernameQuery(username)
	if err != nil {
		return cl.User{}, errors.Wrap(err, "build get user query")
	}
	err = p.sqldb.SelectContext(ctx, &r, qv.query, qv.args...)
	if err != nil {
		return cl.User{}, errors.Wrap(err, "execute get user query")
	}

	if len(r) == 0 {
		return cl.User{}, cl.ErrNotFound
	}

	return r[0], nil
}

func buildGetUserByUsernameQuery(username string) (QueryValues, error) {
	q, args, err := psql.
		Select(tableColumns(tableUsers, usersColumns)...).
		From(tableUsers).
		Where(sq.Eq{"username": username}).
		ToSql()

	return QueryValues{q, args}, errors.Wrap(err, "get user build query into SQL string")
}
