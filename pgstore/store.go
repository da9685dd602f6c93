// Package pgstore resolves GraphQL callers from bearer tokens stored in
// Postgres.
package pgstore

import (
	"context"
	stderrs "errors"
	"net/http"
	"strings"

	"github.com/Station-Manager/errors"
	"github.com/Station-Manager/gqlkit/dberr"
	"github.com/Station-Manager/gqlkit/logging"
	"github.com/Station-Manager/gqlkit/reqctx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	errMsgNoDatabaseURL = "DATABASE_URL configuration is required"
	errMsgParseURL      = "failed to parse database URL"
	errMsgCreatePool    = "unable to create connection pool"
	errMsgPing          = "unable to ping database"
	errMsgNilQuerier    = "querier cannot be nil"
	errMsgLookup        = "failed to resolve user from session"
	errMsgLookupAborted = "user lookup cancelled"
)

const bearerPrefix = "bearer "

const sessionUserQuery = `SELECT u.id, u.email, u.is_admin
FROM sessions s
JOIN users u ON u.id = s.user_id
WHERE s.token = $1 AND s.expires_at > now()`

// Querier is the part of *pgxpool.Pool the store needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// User is a row of the users table.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Admin bool   `json:"isAdmin"`
}

func (u *User) UserID() string { return u.ID }
func (u *User) IsAdmin() bool  { return u.Admin }

// Store looks users up by session token.
type Store struct {
	db Querier
}

func New(db Querier) (*Store, error) {
	const op errors.Op = "pgstore.New"
	if db == nil {
		return nil, errors.New(op).Msg(errMsgNilQuerier)
	}
	return &Store{db: db}, nil
}

// Connect opens a pool for databaseURL and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	const op errors.Op = "pgstore.Connect"
	if databaseURL == "" {
		return nil, errors.New(op).Msg(errMsgNoDatabaseURL)
	}

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.New(op).Err(err).Msg(errMsgParseURL)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.New(op).Err(err).Msg(errMsgCreatePool)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.New(op).Err(err).Msg(errMsgPing)
	}
	return pool, nil
}

// Resolve implements reqctx.UserResolver. A request without a bearer token,
// or with an unknown or expired one, is anonymous. Any other database error
// is normalized through dberr and returned, except a cancelled lookup
// which is returned as is.
func (s *Store) Resolve(ctx context.Context, r *http.Request, log *logging.Logger) (reqctx.User, error) {
	const op errors.Op = "pgstore.Store.Resolve"

	token := bearerToken(r)
	if token == "" {
		log.Debug("No bearer token, continuing anonymously")
		return nil, nil
	}

	var u User
	err := s.db.QueryRow(ctx, sessionUserQuery, token).Scan(&u.ID, &u.Email, &u.Admin)
	if err != nil {
		if stderrs.Is(err, pgx.ErrNoRows) {
			log.Warn("Session token not found or expired")
			return nil, nil
		}
		// The caller reports cancellation; it is not a database failure.
		if ctx.Err() != nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
			return nil, errors.New(op).Err(err).Msg(errMsgLookupAborted)
		}
		return nil, errors.New(op).Err(dberr.Handle(err, log)).Msg(errMsgLookup)
	}

	log.DebugFields(logging.Fields{"userId": u.ID}, "Resolved user from session")
	return &u, nil
}

func bearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}
