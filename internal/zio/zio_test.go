package zio

import (
	"io"
	"path/filepath"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	payload := []byte("1001\n1002\n# comment\n1003\n")

	for _, name := range []string{"ids.txt", "ids.txt.zst", "ids.txt.lz4", "ids.txt.gz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			w, err := Create(path)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := w.Write(payload); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}

			r, err := OpenReader(path)
			if err != nil {
				t.Fatal(err)
			}
			defer r.Close()

			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != string(payload) {
				t.Errorf("round trip mismatch: %q", got)
			}
		})
	}
}

func TestOpenReaderMissing(t *testing.T) {
	if _, err := OpenReader(filepath.Join(t.TempDir(), "absent.zst")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtensionCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.GZ")

	w, err := Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("42\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "42\n" {
		t.Errorf("got %q", got)
	}
}
