package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrNotAllowed is returned for anything that is not a plain SELECT.
var ErrNotAllowed = errors.New("only SELECT statements are allowed")

// ErrStoreUnavailable is returned when the analytical store (or a table the
// query needs) is missing, which means the offline build has not run.
var ErrStoreUnavailable = errors.New("analytical store is unavailable")

// QueryErrorKind distinguishes execution failures.
type QueryErrorKind string

const (
	KindExecution       QueryErrorKind = "execution"
	KindAmbiguousColumn QueryErrorKind = "ambiguous_column"
)

// QueryError wraps a store execution failure with its kind and the SQL that
// caused it.
type QueryError struct {
	Kind QueryErrorKind
	SQL  string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed (%s): %v", e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// QueryEngine executes read-only projections against the analytical store.
type QueryEngine interface {
	ExecuteRead(ctx context.Context, sql string, args ...interface{}) ([]map[string]interface{}, error)
}

type queryEngine struct {
	db *gorm.DB
}

// NewQueryEngine creates a read-only query engine over the mart connection.
func NewQueryEngine(db *gorm.DB) QueryEngine {
	return &queryEngine{db: db}
}

// ExecuteRead runs a SELECT and returns rows as column-name maps. Non-SELECT
// text is rejected with ErrNotAllowed before touching the store.
func (q *queryEngine) ExecuteRead(ctx context.Context, sql string, args ...interface{}) ([]map[string]interface{}, error) {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(sql)), "select") {
		return nil, ErrNotAllowed
	}

	var rows []map[string]interface{}
	if err := q.db.WithContext(ctx).Raw(sql, args...).Find(&rows).Error; err != nil {
		return nil, classifyExecError(sql, err)
	}
	return rows, nil
}

func classifyExecError(sql string, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such table"):
		// The mart is rebuilt as a whole; a missing table means no build ran.
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	case strings.Contains(msg, "ambiguous column"):
		return &QueryError{Kind: KindAmbiguousColumn, SQL: sql, Err: err}
	default:
		return &QueryError{Kind: KindExecution, SQL: sql, Err: err}
	}
}
