// Package killlist parses kill-list files: plain text with one document ID
// per line. Blank lines and lines starting with '#' are skipped; anything
// else that does not parse as an unsigned decimal is collected as malformed
// and skipped, never fatal. Files ending in .zst, .lz4, or .gz are
// decompressed transparently.
package killlist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/indexlab/liveness/internal/zio"
	"github.com/indexlab/liveness/model"
)

// Malformed records one skipped input line.
type Malformed struct {
	Line int // 1-based
	Text string
}

func (m Malformed) String() string {
	return fmt.Sprintf("line %d: %q", m.Line, m.Text)
}

// List is the parsed content of a kill-list file. Docs preserves first
// occurrence order with duplicates removed.
type List struct {
	Docs      []model.DocumentID
	Malformed []Malformed
}

// Len returns the number of distinct document IDs.
func (l *List) Len() int {
	return len(l.Docs)
}

// Parse reads document IDs from r. The only error it returns is a read
// failure; bad content is reported through List.Malformed.
func Parse(r io.Reader) (*List, error) {
	list := &List{}
	seen := make(map[model.DocumentID]struct{})

	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, err := strconv.ParseUint(line, 10, 64)
		if err != nil {
			list.Malformed = append(list.Malformed, Malformed{Line: n, Text: line})
			continue
		}

		doc := model.DocumentID(id)
		if _, dup := seen[doc]; dup {
			continue
		}
		seen[doc] = struct{}{}
		list.Docs = append(list.Docs, doc)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("killlist: read: %w", err)
	}
	return list, nil
}

// Open parses the kill list at path, decompressing by extension.
func Open(path string) (*List, error) {
	r, err := zio.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return Parse(r)
}
