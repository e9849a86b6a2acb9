// Package liveness maintains the per-table liveness metadata of a columnar
// document store: which documents exist, where their rows live, and which of
// those rows are dead.
//
// Each table carries two small sidecar files next to its column data:
//
//   - The lookup table (".spt"): a checkpointed, delta-encoded mapping from
//     sparse 64-bit document IDs to dense 32-bit row positions.
//   - The tombstone bitmap (".spm"): one bit per row position; a set bit
//     marks the row dead without touching column data.
//
// Deleting documents never rewrites columns. It resolves document IDs to
// rows through the lookup table and sets their bits in the bitmap; readers
// filter dead rows out of query results. This package implements both file
// formats plus the two operations composed from them: marking a batch of
// documents dead (MarkKilled) and reporting the documents currently dead
// (Killed).
//
// Both files may be read while another process is appending to them, so the
// lookup decoder is deliberately tolerant: structural truncation ends
// decoding early and surfaces as an incomplete table, never as an error.
// Only a damaged fixed-size header is fatal. See the lookup package for the
// exact recovery rules.
//
// # Quick Start
//
//	blobs := blobstore.NewLocalStore("/var/lib/store/tables")
//	store, err := liveness.New(blobs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	res, err := store.MarkKilled(ctx, "products.0", []model.DocumentID{1001, 1002})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("killed %d rows, %d IDs unresolved\n", res.NewlyKilled, len(res.Unresolved))
//
//	rep, err := store.Killed(ctx, "products.0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, doc := range rep.DocIDs {
//	    fmt.Println(doc)
//	}
//
// Table files can live on the local filesystem, in memory, on S3, or on
// MinIO; see the blobstore package.
package liveness

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/indexlab/liveness/blobstore"
	"github.com/indexlab/liveness/lookup"
	"github.com/indexlab/liveness/model"
	"github.com/indexlab/liveness/tombstone"
)

// Store runs liveness operations against tables held in a blob store.
//
// Store keeps no state between calls: every operation re-reads and
// re-decodes the files it needs, because another process run may have
// rewritten them in the meantime. At the sizes these files reach, staleness
// costs more than the decode.
type Store struct {
	blobs   blobstore.BlobStore
	metrics MetricsCollector
	logger  *Logger
}

// New creates a Store over the given blob store.
func New(blobs blobstore.BlobStore, optFns ...Option) (*Store, error) {
	if blobs == nil {
		return nil, errors.New("liveness: nil blob store")
	}

	opts := applyOptions(optFns)

	return &Store{
		blobs:   blobs,
		metrics: opts.metricsCollector,
		logger:  opts.logger,
	}, nil
}

// load fetches and decodes both metadata files of a table. The two blobs
// are independent, so they are fetched concurrently.
func (s *Store) load(ctx context.Context, table string) (*lookup.Table, *tombstone.Bitmap, error) {
	lookupName := model.LookupPath(table)
	tombName := model.TombstonePath(table)

	var (
		tbl *lookup.Table
		bm  *tombstone.Bitmap
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, release, err := blobstore.Fetch(ctx, s.blobs, lookupName)
		if err != nil {
			return translateOpenError(err, lookupName, ErrTableNotFound)
		}
		defer release()

		tbl, err = lookup.Decode(data)
		if err != nil {
			return fmt.Errorf("decode %s: %w", lookupName, err)
		}
		return nil
	})
	g.Go(func() error {
		data, release, err := blobstore.Fetch(ctx, s.blobs, tombName)
		if err != nil {
			return translateOpenError(err, tombName, ErrTombstoneNotFound)
		}
		defer release()

		bm = tombstone.FromBytes(data)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return tbl, bm, nil
}

// KillResult reports the outcome of a MarkKilled call.
//
// Requested, Resolved, and Unresolved count documents; NewlyKilled and
// AlreadyKilled count rows. In a well-formed table the two domains line up
// (Resolved == NewlyKilled + AlreadyKilled), but a corrupt table with
// duplicate entries can resolve two documents onto one row.
type KillResult struct {
	// Requested is the number of distinct document IDs asked for.
	Requested int

	// Resolved is how many of them the lookup table could map to a row.
	Resolved int

	// NewlyKilled is the number of rows whose bit this call set.
	NewlyKilled int

	// AlreadyKilled is the number of resolved rows that were dead before
	// this call.
	AlreadyKilled int

	// Unresolved holds the document IDs absent from the lookup table,
	// sorted ascending. Unresolved IDs are an outcome, not an error.
	Unresolved []model.DocumentID

	// TableComplete is false when the lookup table decoded with fewer
	// entries than its header promised; unresolved IDs may then include
	// documents the table would normally know.
	TableComplete bool
}

// MarkKilled marks the given documents dead in the named table.
//
// Document IDs are deduplicated, resolved to rows through the lookup table,
// and the resolved rows' bits are set in the tombstone bitmap. The bitmap
// file is rewritten in full whenever at least one document resolved — even
// if every resolved row was already dead. When nothing resolves, the file
// is left untouched.
//
// IDs the table does not know are collected in KillResult.Unresolved and
// never fail the call. A missing lookup or bitmap file does: both are
// created by the store's indexer and must exist before documents can be
// killed.
func (s *Store) MarkKilled(ctx context.Context, table string, docs []model.DocumentID) (*KillResult, error) {
	start := time.Now()

	tbl, bm, err := s.load(ctx, table)
	if err != nil {
		s.metrics.RecordMark(len(docs), 0, time.Since(start), err)
		s.logger.LogMark(ctx, table, nil, err)
		return nil, err
	}
	if !tbl.Complete() {
		s.logger.LogIncompleteTable(ctx, table, tbl.Len(), int(tbl.Header().DocumentCount))
	}

	res := &KillResult{TableComplete: tbl.Complete()}

	rows := NewRowSet()
	seen := make(map[model.DocumentID]struct{}, len(docs))
	for _, doc := range docs {
		if _, dup := seen[doc]; dup {
			continue
		}
		seen[doc] = struct{}{}
		res.Requested++

		if row, ok := tbl.RowByDoc(doc); ok {
			res.Resolved++
			rows.Add(row)
		} else {
			res.Unresolved = append(res.Unresolved, doc)
		}
	}
	slices.Sort(res.Unresolved)

	for row := range rows.Iterator() {
		if bm.Contains(row) {
			res.AlreadyKilled++
		} else {
			bm.Set(row)
			res.NewlyKilled++
		}
	}

	if !rows.IsEmpty() {
		tombName := model.TombstonePath(table)
		if err := s.blobs.Put(ctx, tombName, bm.Bytes()); err != nil {
			err = fmt.Errorf("write %s: %w", tombName, err)
			s.metrics.RecordMark(res.Requested, res.Resolved, time.Since(start), err)
			s.logger.LogMark(ctx, table, nil, err)
			return nil, err
		}
	}

	s.metrics.RecordMark(res.Requested, res.Resolved, time.Since(start), nil)
	s.logger.LogMark(ctx, table, res, nil)
	return res, nil
}

// Report lists the documents currently dead in a table.
type Report struct {
	// DocIDs holds the document IDs of all dead rows the lookup table could
	// resolve, sorted ascending. Two dead rows mapping to one document
	// (possible only in corrupt tables) yield two entries.
	DocIDs []model.DocumentID

	// Orphans counts dead rows with no document in the lookup table. They
	// carry no reportable ID; a nonzero count usually means the bitmap
	// outlived a table rewrite.
	Orphans int

	// TableComplete is false when the lookup table decoded incompletely;
	// orphans may then include rows the table would normally resolve.
	TableComplete bool
}

// Killed reports the documents currently marked dead in the named table.
func (s *Store) Killed(ctx context.Context, table string) (*Report, error) {
	start := time.Now()

	tbl, bm, err := s.load(ctx, table)
	if err != nil {
		s.metrics.RecordReport(0, time.Since(start), err)
		s.logger.LogReport(ctx, table, nil, err)
		return nil, err
	}
	if !tbl.Complete() {
		s.logger.LogIncompleteTable(ctx, table, tbl.Len(), int(tbl.Header().DocumentCount))
	}

	rep := &Report{TableComplete: tbl.Complete()}
	bm.ForEach(func(row model.RowID) bool {
		if doc, ok := tbl.DocByRow(row); ok {
			rep.DocIDs = append(rep.DocIDs, doc)
		} else {
			rep.Orphans++
		}
		return true
	})
	slices.Sort(rep.DocIDs)

	s.metrics.RecordReport(len(rep.DocIDs), time.Since(start), nil)
	s.logger.LogReport(ctx, table, rep, nil)
	return rep, nil
}

// Tables lists the table base names under the given prefix, sorted. A table
// is anything with a lookup file; a bitmap without one is invisible here.
func (s *Store) Tables(ctx context.Context, prefix string) ([]string, error) {
	names, err := s.blobs.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}

	var tables []string
	for _, name := range names {
		if strings.HasSuffix(name, model.LookupSuffix) {
			tables = append(tables, model.TableBase(name))
		}
	}
	sort.Strings(tables)
	return tables, nil
}
