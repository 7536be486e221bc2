package fs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bft-labs/fqdnledger/internal/domain"
)

// ListFile implements ports.LineSource for a local domain list file.
type ListFile struct {
	path string
}

// NewListFile creates a ListFile for the given path.
func NewListFile(path string) *ListFile {
	return &ListFile{path: path}
}

// ReadLines returns every line of the list with "\n" or "\r\n" stripped.
// Lines have no length limit; an oversized line is left for the validator
// to reject. Failing to open or read the file is reported wrapping
// domain.ErrInputMissing.
func (l *ListFile) ReadLines(ctx context.Context) ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInputMissing, err)
	}
	defer f.Close()

	var lines []string
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: read %s: %w", domain.ErrInputMissing, l.path, err)
		}
		if line != "" || err == nil {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if err != nil {
			return lines, nil
		}
	}
}

// Path returns the list file path.
func (l *ListFile) Path() string {
	return l.path
}
