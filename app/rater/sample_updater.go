package rater

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// sampleUpdater represents a file that can be read and appended to.
// this is a helper for dynamic reloading of samples used by Rater
type sampleUpdater struct {
	fileName string
}

// newSampleUpdater creates a new sampleUpdater
func newSampleUpdater(fileName string) *sampleUpdater {
	return &sampleUpdater{fileName: fileName}
}

// reader returns a reader for the file, caller must close it
func (s *sampleUpdater) reader() (io.ReadCloser, error) {
	fh, err := os.Open(s.fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.fileName, err)
	}
	return fh, nil
}

// append a line to the file, preventing duplicates
func (s *sampleUpdater) append(line string) error {
	clean := strings.ReplaceAll(strings.TrimSpace(line), "\n", " ")

	// check if the line is already in the file
	if fh, err := os.Open(s.fileName); err == nil {
		scanner := bufio.NewScanner(fh)
		for scanner.Scan() {
			if strings.EqualFold(strings.TrimSpace(scanner.Text()), clean) {
				fh.Close()
				return nil
			}
		}
		fh.Close()
	}

	fh, err := os.OpenFile(s.fileName, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644) //nolint:gosec // keep it readable by all
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.fileName, err)
	}
	defer fh.Close()

	if _, err = fh.WriteString(clean + "\n"); err != nil {
		return fmt.Errorf("failed to write to %s: %w", s.fileName, err)
	}
	return nil
}
