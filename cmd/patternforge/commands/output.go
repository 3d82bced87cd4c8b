package commands

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteOutput writes the match report to a file or stdout. Report
// formatting beyond JSON (SARIF, Markdown, HTML) is an external
// collaborator's job per the library's scope; this always writes the
// JSON the caller built.
func WriteOutput(content, outputPath string) error {
	if outputPath == "" {
		fmt.Print(content)
		return nil
	}

	// Create parent directories
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	// Write file
	if err := os.WriteFile(outputPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Report written to: %s\n", outputPath)
	return nil
}
