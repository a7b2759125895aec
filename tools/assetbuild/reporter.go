package assetbuild

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Reporter writes build errors in the "<file>: <message>" form that IDE
// error lists pick up.
type Reporter struct {
	mu sync.Mutex
	w  io.Writer
	n  int
}

func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stderr
	}
	return &Reporter{w: w}
}

// Error reports message. file may be empty.
func (r *Reporter) Error(message, file string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.n++
	if file != "" {
		fmt.Fprintf(r.w, "%s: %s\n", file, message)
		return
	}
	fmt.Fprintf(r.w, "%s\n", message)
}

// Count returns how many errors were reported.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}
