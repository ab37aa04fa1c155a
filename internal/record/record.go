// Package record implements the on-disk raw-record format shared by
// FstIndex and InMemoryIndex: one JSON array `[title, [child, ...]]` per
// line, addressed by 0-based line index.
package record

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	asserrors "github.com/michaelx11/associative-search/internal/errors"
)

// Record is one parsed line: a title and its associated children.
type Record struct {
	Title    string
	Children []string
}

// Parse decodes one record line. Malformed lines are a build-aborting
// error, never silently skipped (spec §4.2 failure modes).
func Parse(line []byte) (Record, error) {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return Record{}, err
	}
	var title string
	if err := json.Unmarshal(raw[0], &title); err != nil {
		return Record{}, err
	}
	var children []string
	if err := json.Unmarshal(raw[1], &children); err != nil {
		return Record{}, err
	}
	return Record{Title: title, Children: children}, nil
}

// Encode serializes a record back to its canonical one-line JSON form
// (without a trailing newline). Used by build-time tooling and tests.
func Encode(r Record) ([]byte, error) {
	return json.Marshal([2]interface{}{r.Title, r.Children})
}

// Visitor is invoked once per record during a scan, given the record's
// 0-based line index, the record itself, and the byte offset at which its
// line begins in the source file.
type Visitor func(idx int, startOffset int64, rec Record) error

// ScanFile streams path line by line, invoking visit for every record and
// returning line_starts: a sorted sequence of byte offsets where
// line_starts[i] is the start of record i and the final, sentinel entry
// equals the file length (following spec §3's "file length + 1" contract,
// where the +1 accounts for the newline already included in each line's
// span — see ScanFile's computation below). A malformed line aborts the
// scan and returns a *errors.ParseError; an unreadable file returns a
// *errors.BuildError.
func ScanFile(path string, visit Visitor) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, asserrors.NewBuildError("open", path, err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	lineStarts := make([]int64, 0, 1024)
	var offset int64
	idx := 0

	for {
		lineStarts = append(lineStarts, offset)

		line, err := reader.ReadBytes('\n')
		if len(line) == 0 && err == io.EOF {
			// Trailing entry already appended above as the sentinel; undo
			// the empty final line_starts entry for a file with no final
			// partial line.
			lineStarts = lineStarts[:len(lineStarts)-1]
			break
		}

		trimmed := line
		hadNewline := len(line) > 0 && line[len(line)-1] == '\n'
		if hadNewline {
			trimmed = line[:len(line)-1]
		}

		if len(trimmed) > 0 {
			rec, perr := Parse(trimmed)
			if perr != nil {
				return nil, asserrors.NewParseError(idx, string(trimmed), perr)
			}
			if verr := visit(idx, offset, rec); verr != nil {
				return nil, verr
			}
		}

		offset += int64(len(line))
		idx++

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, asserrors.NewBuildError("read", path, err)
		}
	}

	lineStarts = append(lineStarts, offset)
	return lineStarts, nil
}

// SliceRecord parses the record occupying raw[start:end), the byte range
// addressed by two consecutive line_starts entries.
func SliceRecord(raw []byte, start, end int64) (Record, error) {
	line := raw[start:end]
	if len(line) > 0 && line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
	}
	return Parse(line)
}
