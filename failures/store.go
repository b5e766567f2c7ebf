// Package failures reads the local failure catalog built out-of-band from the
// session source's failure-reasons API.
package failures

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"dev.lkm.one/crosscheck/common"
)

// Store - Read-only failure catalog. The whole table is loaded up front so
// concurrent lookups from the detail wave need no locking.
type Store struct {
	details map[int]common.FailureDetail
}

// Open - Load the failure catalog from the sqlite file at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open failure catalog: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `SELECT id, code, cause, resolution FROM failures`)
	if err != nil {
		return nil, fmt.Errorf("failed to read failure catalog: %w", err)
	}
	defer rows.Close()

	details := make(map[int]common.FailureDetail)
	for rows.Next() {
		var id int
		var detail common.FailureDetail
		if err := rows.Scan(&id, &detail.Code, &detail.Cause, &detail.Resolution); err != nil {
			return nil, fmt.Errorf("failed to scan failure catalog row: %w", err)
		}
		details[id] = detail
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read failure catalog: %w", err)
	}

	log.WithFields(log.Fields{
		"failure_count": len(details),
		"path":          path,
	}).Info("Loaded failure catalog")

	return &Store{details: details}, nil
}

// NewStaticStore - Build a store from an in-memory catalog. Used by tests and
// by tooling that sidesteps the sqlite file.
func NewStaticStore(details map[int]common.FailureDetail) *Store {
	if details == nil {
		details = make(map[int]common.FailureDetail)
	}
	return &Store{details: details}
}

// Lookup - Resolve a failure ID. A miss means "no known cause", not an error.
func (store *Store) Lookup(failureID int) (common.FailureDetail, bool) {
	detail, found := store.details[failureID]
	return detail, found
}

// Len - Number of catalog entries.
func (store *Store) Len() int {
	return len(store.details)
}
