// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package logger

import (
	"fmt"
	"testing"

	"go.astrophena.name/nooti/internal/testutil"
)

func TestStreamerLines(t *testing.T) {
	t.Parallel()

	s := NewStreamer(10)
	fmt.Fprintf(s, "hello\nworld\n")

	testutil.AssertEqual(t, s.Lines(), []string{"hello\n", "world\n"})
}

func TestStreamerPartialLine(t *testing.T) {
	t.Parallel()

	s := NewStreamer(10)
	fmt.Fprint(s, "hel")
	fmt.Fprint(s, "lo\n")

	testutil.AssertEqual(t, s.Lines(), []string{"hello\n"})
}

func TestStreamerOverflow(t *testing.T) {
	t.Parallel()

	s := NewStreamer(2)
	for i := range 5 {
		fmt.Fprintf(s, "line %d\n", i)
	}

	testutil.AssertEqual(t, s.Lines(), []string{"line 3\n", "line 4\n"})
}
