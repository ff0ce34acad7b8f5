// Package integrity fingerprints raw log input so an analysis run can be
// tied back to the exact batch of lines it scored. Two runs over the same
// input carry the same fingerprint in their reports.
package integrity

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// Fingerprinter computes BLAKE3 digests over log input batches.
type Fingerprinter struct{}

// New creates a Fingerprinter.
func New() *Fingerprinter {
	return &Fingerprinter{}
}

// Fingerprint hashes a batch of raw log lines. Each line is hashed with a
// trailing newline so that line boundaries are part of the digest:
// ["a", "b"] and ["a b"] produce different fingerprints.
func (f *Fingerprinter) Fingerprint(lines []string) string {
	h := blake3.New()
	for _, line := range lines {
		h.WriteString(line)
		h.WriteString("\n")
	}
	return hex.EncodeToString(h.Sum(nil))
}

// FingerprintFile hashes a log file's contents line by line, matching the
// digest Fingerprint produces for the same lines.
func (f *Fingerprinter) FingerprintFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for fingerprinting: %w", err)
	}
	defer file.Close()

	h := blake3.New()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		h.WriteString(scanner.Text())
		h.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read file for fingerprinting: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// FingerprintReader hashes everything from r as a single stream.
func (f *Fingerprinter) FingerprintReader(r io.Reader) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to read stream for fingerprinting: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
