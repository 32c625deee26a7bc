// Package database opens the MySQL pool and keeps its schema current.
package database

import (
	"context"
	"database/sql"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Settings identifies the database and sizes the connection pool.  Zero
// pool values fall back to 25 connections recycled every 30 minutes.
type Settings struct {
	User, Pass, Host, Port, Name string

	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// DSN renders the driver connection string.  Times are parsed as UTC and
// RowsAffected counts matched rows, so an update that changes nothing
// still proves the row exists.
func (s Settings) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = s.User
	cfg.Passwd = s.Pass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(s.Host, s.Port)
	cfg.DBName = s.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Open connects to MySQL and pings it within five seconds.
func Open(s Settings) (*sql.DB, error) {
	db, err := sql.Open("mysql", s.DSN())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(orDefault(s.MaxOpen, 25))
	db.SetMaxIdleConns(orDefault(s.MaxIdle, 25))
	lifetime := s.MaxLifetime
	if lifetime <= 0 {
		lifetime = 30 * time.Minute
	}
	db.SetConnMaxLifetime(lifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func orDefault(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}
