// Package parser converts raw log lines into structured records.
// A Parser holds no shared state, so a value may be created per request
// without synchronization.
package parser

import (
	"fmt"
	"time"

	"github.com/Nikhil-sh2112/azure-webapp/internal/logging"
	"github.com/Nikhil-sh2112/azure-webapp/internal/models"
)

// minTokens is the number of whitespace-separated segments a line needs to
// produce a record: date, time, level, and at least one message character.
const minTokens = 4

// ParseError reports a log line whose timestamp could not be parsed.
// It is fatal for the whole run; there is no partial-parse recovery.
type ParseError struct {
	Line  int    // 1-based input line number
	Token string // the timestamp token that failed to parse
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid timestamp %q: %v", e.Line, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser parses raw log lines into LogRecords.
type Parser struct {
	// DroppedLines counts malformed lines discarded during the last Parse
	// call. Malformed lines are not an error, just excluded.
	DroppedLines int
}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse converts an ordered sequence of raw lines into an ordered sequence
// of LogRecords. Lines with fewer than four whitespace-separated tokens are
// silently dropped. A line whose timestamp fails to parse aborts the run
// with a *ParseError.
func (p *Parser) Parse(lines []string) ([]models.LogRecord, error) {
	p.DroppedLines = 0
	records := make([]models.LogRecord, 0, len(lines))

	for i, line := range lines {
		tokens := splitTokens(line, minTokens)
		if len(tokens) < minTokens {
			p.DroppedLines++
			continue
		}

		stamp := tokens[0] + " " + tokens[1]
		ts, err := time.Parse(models.TimestampLayout, stamp)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Token: stamp, Err: err}
		}

		records = append(records, models.LogRecord{
			Timestamp: ts,
			Level:     tokens[2],
			Message:   tokens[3],
		})
	}

	if p.DroppedLines > 0 {
		logging.ParserLogger().Debug("Dropped malformed lines",
			logging.Count("dropped", int64(p.DroppedLines)),
			logging.Count("parsed", int64(len(records))),
		)
	}
	return records, nil
}

// splitTokens splits a line into at most n tokens on runs of whitespace.
// The final token is the untouched remainder, preserving internal
// whitespace; leading whitespace is trimmed only at the split boundary.
// Trailing whitespace on the line is stripped first.
func splitTokens(line string, n int) []string {
	end := len(line)
	for end > 0 && isSpace(line[end-1]) {
		end--
	}
	line = line[:end]

	tokens := make([]string, 0, n)
	i := 0
	for len(tokens) < n-1 {
		for i < len(line) && isSpace(line[i]) {
			i++
		}
		if i == len(line) {
			return tokens
		}
		start := i
		for i < len(line) && !isSpace(line[i]) {
			i++
		}
		tokens = append(tokens, line[start:i])
	}

	for i < len(line) && isSpace(line[i]) {
		i++
	}
	if i < len(line) {
		tokens = append(tokens, line[i:])
	}
	return tokens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}
