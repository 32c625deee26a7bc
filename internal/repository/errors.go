// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow the service layer to
// distinguish between different failure scenarios without knowing which
// storage engine produced them. Both the MySQL repositories in this
// package and the in-memory store in memstore return them.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a uniqueness constraint.
// The more specific errors below wrap it.
var ErrConflict = errors.New("conflict")

var (
	ErrEmailExists     = fmt.Errorf("%w: email already exists", ErrConflict)
	ErrUsernameExists  = fmt.Errorf("%w: username already exists", ErrConflict)
	ErrDuplicateReview = fmt.Errorf("%w: booking already reviewed", ErrConflict)
)

// mysqlDuplicateEntry is the server error number for unique key violations.
const mysqlDuplicateEntry = 1062

// duplicateKey reports whether err is a MySQL duplicate-entry error and,
// if so, returns the server message which names the violated key.
func duplicateKey(err error) (string, bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return me.Message, true
	}
	return "", false
}

// translateUserDup maps a duplicate-entry error on the users table to the
// matching sentinel.
func translateUserDup(err error) error {
	msg, ok := duplicateKey(err)
	if !ok {
		return err
	}
	if strings.Contains(msg, "uq_users_username") {
		return ErrUsernameExists
	}
	return ErrEmailExists
}
