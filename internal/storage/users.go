package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// User is a tenant identity record from the global store. Tenants are
// opaque to the shard layer; the id doubles as the shard tenant key.
type User struct {
	ID        int64
	Username  string
	Role      string
	APIToken  string
	CreatedAt time.Time
}

// ErrNoUser reports a token or username that resolves to nothing.
var ErrNoUser = errors.New("user not found")

// UserStore is the single global identity database, independent of the
// year-sharded ledger stores.
type UserStore struct {
	db *sql.DB
}

// OpenUserStore opens (creating if absent) the identity database. Its
// schema is a single table, created in place rather than via the shard
// migration set.
func OpenUserStore(path string) (*UserStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create users db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open users database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping users database: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'user',
		api_token TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create users table: %w", err)
	}

	return &UserStore{db: db}, nil
}

func (u *UserStore) Close() error {
	return u.db.Close()
}

// CreateUser inserts an identity with a freshly generated API token.
func (u *UserStore) CreateUser(ctx context.Context, username, role string) (User, error) {
	user := User{
		Username:  username,
		Role:      role,
		APIToken:  uuid.NewString(),
		CreatedAt: timeNow().UTC(),
	}
	res, err := u.db.ExecContext(ctx,
		"INSERT INTO users (username, role, api_token, created_at) VALUES (?, ?, ?, ?)",
		user.Username, user.Role, user.APIToken, formatStoredTime(user.CreatedAt))
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	if err != nil {
		return User{}, fmt.Errorf("user insert id: %w", err)
	}
	return user, nil
}

// GetUserByToken resolves an API token to its identity, or ErrNoUser.
func (u *UserStore) GetUserByToken(ctx context.Context, token string) (User, error) {
	var (
		user      User
		createdAt string
	)
	err := u.db.QueryRowContext(ctx,
		"SELECT id, username, role, api_token, created_at FROM users WHERE api_token = ?",
		token).Scan(&user.ID, &user.Username, &user.Role, &user.APIToken, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNoUser
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by token: %w", err)
	}
	user.CreatedAt = parseStoredTime(createdAt)
	return user, nil
}
