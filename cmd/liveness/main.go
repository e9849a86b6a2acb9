// Command liveness maintains the liveness metadata files of columnar store
// tables: it marks documents from a kill list as dead and reports the
// documents currently dead.
//
// Table files can live in a local directory (default), on Amazon S3, or on
// a MinIO deployment; see the -store flag.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	gojson "github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/indexlab/liveness"
	"github.com/indexlab/liveness/blobstore"
	miniostore "github.com/indexlab/liveness/blobstore/minio"
	s3store "github.com/indexlab/liveness/blobstore/s3"
	"github.com/indexlab/liveness/internal/zio"
	"github.com/indexlab/liveness/killlist"
	"github.com/indexlab/liveness/model"
)

const usage = `Usage: liveness <command> [flags]

Commands:
  mark     mark documents from a kill list as dead
  report   print the document IDs currently dead in a table
  tables   list tables in the store

Run 'liveness <command> -h' for command flags.

Store selection (-store, all commands):
  local directory (default ".")    -store /var/lib/store/tables
  Amazon S3                        -store s3://bucket/prefix
  MinIO (MINIO_* env credentials)  -store minio://endpoint/bucket/prefix
`

// unresolvedPreview caps how many unresolved document IDs the mark summary
// prints before collapsing the rest into a count.
const unresolvedPreview = 10

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "mark":
		err = runMark(os.Args[2:])
	case "report":
		err = runReport(os.Args[2:])
	case "tables":
		err = runTables(os.Args[2:])
	case "help", "-h", "-help", "--help":
		fmt.Fprint(os.Stderr, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, liveness.ErrTombstoneNotFound) {
			fmt.Fprintln(os.Stderr, "Note: the .spm file is created by the indexer. If it is missing, the table may need to be created first.")
		}
		os.Exit(1)
	}
}

func runMark(args []string) error {
	fs := flag.NewFlagSet("mark", flag.ExitOnError)
	storeSpec := fs.String("store", ".", "blob store holding the table files")
	tableName := fs.String("table", "", "table base name, e.g. products.0 (required)")
	killPath := fs.String("killlist", "", "kill-list file, one document ID per line (required)")
	jsonOut := fs.Bool("json", false, "print a JSON summary to stdout")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	if *tableName == "" || *killPath == "" {
		fs.Usage()
		return errors.New("mark: -table and -killlist are required")
	}

	ctx := context.Background()

	fmt.Fprintf(os.Stderr, "Reading document IDs from %s...\n", *killPath)
	list, err := killlist.Open(*killPath)
	if err != nil {
		return err
	}
	for _, m := range list.Malformed {
		fmt.Fprintf(os.Stderr, "Warning: Skipping invalid line: %s\n", m.Text)
	}
	fmt.Fprintf(os.Stderr, "Found %d document IDs to mark as killed\n", list.Len())
	if list.Len() == 0 {
		fmt.Fprintln(os.Stderr, "No document IDs to process.")
		return nil
	}

	store, err := newStore(ctx, *storeSpec, *verbose)
	if err != nil {
		return err
	}

	res, err := store.MarkKilled(ctx, *tableName, list.Docs)
	if err != nil {
		return err
	}

	if len(res.Unresolved) > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d document IDs not found in lookup table:\n", len(res.Unresolved))
		preview := res.Unresolved
		if len(preview) > unresolvedPreview {
			preview = preview[:unresolvedPreview]
		}
		for _, doc := range preview {
			fmt.Fprintf(os.Stderr, "  %d\n", doc)
		}
		if rest := len(res.Unresolved) - len(preview); rest > 0 {
			fmt.Fprintf(os.Stderr, "  ... and %d more\n", rest)
		}
	}

	if *jsonOut {
		return writeJSON(os.Stdout, markSummary{
			Table:         *tableName,
			Requested:     res.Requested,
			Resolved:      res.Resolved,
			NewlyKilled:   res.NewlyKilled,
			AlreadyKilled: res.AlreadyKilled,
			Unresolved:    res.Unresolved,
			TableComplete: res.TableComplete,
			Updated:       res.Resolved > 0,
		})
	}

	if res.Resolved == 0 {
		fmt.Fprintln(os.Stderr, "No valid row IDs to mark as killed.")
		return nil
	}
	fmt.Fprintf(os.Stderr, "Successfully marked %d documents as killed\n", res.Resolved)
	fmt.Fprintf(os.Stderr, "Updated file: %s\n", model.TombstonePath(*tableName))
	return nil
}

func runReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	storeSpec := fs.String("store", ".", "blob store holding the table files")
	tableName := fs.String("table", "", "table base name (required)")
	outPath := fs.String("o", "", "write document IDs here instead of stdout (.zst/.lz4/.gz compress)")
	jsonOut := fs.Bool("json", false, "emit a JSON summary instead of plain lines")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	if *tableName == "" {
		fs.Usage()
		return errors.New("report: -table is required")
	}

	ctx := context.Background()

	store, err := newStore(ctx, *storeSpec, *verbose)
	if err != nil {
		return err
	}

	rep, err := store.Killed(ctx, *tableName)
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	var closeOut func() error
	if *outPath != "" {
		wc, err := zio.Create(*outPath)
		if err != nil {
			return err
		}
		out = wc
		closeOut = wc.Close
	}

	if *jsonOut {
		err = writeJSON(out, reportSummary{
			Table:         *tableName,
			Killed:        rep.DocIDs,
			Orphans:       rep.Orphans,
			TableComplete: rep.TableComplete,
		})
	} else {
		// Plain mode keeps stdout machine-parseable: one ID per line,
		// nothing else.
		bw := bufio.NewWriter(out)
		for _, doc := range rep.DocIDs {
			fmt.Fprintf(bw, "%d\n", doc)
		}
		err = bw.Flush()
	}
	if closeOut != nil {
		if cerr := closeOut(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return err
	}

	if rep.Orphans > 0 {
		fmt.Fprintf(os.Stderr, "Warning: %d killed rows have no document mapping\n", rep.Orphans)
	}
	return nil
}

func runTables(args []string) error {
	fs := flag.NewFlagSet("tables", flag.ExitOnError)
	storeSpec := fs.String("store", ".", "blob store holding the table files")
	prefix := fs.String("prefix", "", "list only tables whose base name starts with this prefix")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	ctx := context.Background()

	store, err := newStore(ctx, *storeSpec, *verbose)
	if err != nil {
		return err
	}

	tables, err := store.Tables(ctx, *prefix)
	if err != nil {
		return err
	}
	for _, name := range tables {
		fmt.Println(name)
	}
	return nil
}

type markSummary struct {
	Table         string             `json:"table"`
	Requested     int                `json:"requested"`
	Resolved      int                `json:"resolved"`
	NewlyKilled   int                `json:"newly_killed"`
	AlreadyKilled int                `json:"already_killed"`
	Unresolved    []model.DocumentID `json:"unresolved,omitempty"`
	TableComplete bool               `json:"table_complete"`
	Updated       bool               `json:"updated"`
}

type reportSummary struct {
	Table         string             `json:"table"`
	Killed        []model.DocumentID `json:"killed"`
	Orphans       int                `json:"orphans"`
	TableComplete bool               `json:"table_complete"`
}

func writeJSON(w io.Writer, v any) error {
	data, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func newStore(ctx context.Context, spec string, verbose bool) (*liveness.Store, error) {
	blobs, err := openBlobs(ctx, spec)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return liveness.New(blobs, liveness.WithLogLevel(level))
}

// openBlobs picks a blob store backend from a -store spec. Anything that is
// not an s3:// or minio:// URL is a local directory.
func openBlobs(ctx context.Context, spec string) (blobstore.BlobStore, error) {
	switch {
	case strings.HasPrefix(spec, "s3://"):
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(spec, "s3://"), "/")
		if bucket == "" {
			return nil, fmt.Errorf("invalid store %q: want s3://bucket[/prefix]", spec)
		}
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return s3store.NewStore(awss3.NewFromConfig(cfg), bucket, prefix), nil

	case strings.HasPrefix(spec, "minio://"):
		rest := strings.TrimPrefix(spec, "minio://")
		endpoint, rest, _ := strings.Cut(rest, "/")
		bucket, prefix, _ := strings.Cut(rest, "/")
		if endpoint == "" || bucket == "" {
			return nil, fmt.Errorf("invalid store %q: want minio://endpoint/bucket[/prefix]", spec)
		}
		client, err := minio.New(endpoint, &minio.Options{
			Creds:  credentials.NewEnvMinio(),
			Secure: os.Getenv("MINIO_INSECURE") == "",
		})
		if err != nil {
			return nil, fmt.Errorf("connect to MinIO at %s: %w", endpoint, err)
		}
		return miniostore.NewStore(client, bucket, prefix), nil

	default:
		return blobstore.NewLocalStore(spec), nil
	}
}
