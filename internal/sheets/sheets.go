// Package sheets abstracts the external tabular stores the portal reads:
// the master table and the per-program registration lists. Implementations
// return raw rows; interpreting them is the caller's job.
package sheets

import "context"

// Source reads external tabular data. Both methods fetch fresh on every call;
// the portal deliberately does no cross-request caching, so the staleness
// window is zero at the cost of one full read per query.
type Source interface {
	// ReadTable returns all rows of the named tab of the catalog document,
	// header row included.
	ReadTable(ctx context.Context, name string) ([][]string, error)

	// ReadFirstSheet returns all rows of the first tab of the document with
	// the given identifier, header row included.
	ReadFirstSheet(ctx context.Context, id string) ([][]string, error)
}
