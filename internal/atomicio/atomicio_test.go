// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package atomicio

import (
	"os"
	"path/filepath"
	"testing"

	"go.astrophena.name/nooti/internal/testutil"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	name := filepath.Join(t.TempDir(), "test.json")

	if err := WriteFile(name, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, string(b), "hello")

	// Overwrite and check that no temporary files are left behind.
	if err := WriteFile(name, []byte("world"), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err = os.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, string(b), "world")

	entries, err := os.ReadDir(filepath.Dir(name))
	if err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, len(entries), 1)
}
