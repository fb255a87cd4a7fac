package orchestrator

import (
	"os"

	"eventdate/internal/classifier"
	"eventdate/internal/scanner"
	"eventdate/internal/source"
)

// StatusResult contains the per-directory breakdown of pending values.
type StatusResult struct {
	ByInput    map[string]*InputStatus // Status per input directory
	GrandTotal int                     // Total values across all directories
}

// InputStatus contains status for one input directory.
type InputStatus struct {
	Directory string         // The input directory path
	Files     int            // Readable value files
	Values    int            // Values in those files
	ByReason  map[string]int // Failing values per reason code
	Missing   bool           // Directory does not exist
}

// Status checks every input directory without writing a run log and
// groups failing values by reason per directory.
func (o *Orchestrator) Status() (*StatusResult, error) {
	result := &StatusResult{
		ByInput: make(map[string]*InputStatus),
	}

	opts := o.scanOptions()
	for _, inputDir := range o.config.InputDirectories {
		status := &InputStatus{
			Directory: inputDir,
			ByReason:  make(map[string]int),
		}
		result.ByInput[inputDir] = status

		if _, err := os.Stat(inputDir); os.IsNotExist(err) {
			status.Missing = true
			continue
		}

		files, err := scanner.ScanWithOptions(inputDir, opts)
		if err != nil {
			continue
		}

		for _, file := range files {
			values, err := source.ReadValues(file.FullPath)
			if err != nil {
				continue
			}
			status.Files++
			for _, v := range values {
				status.Values++
				if c := classifier.Classify(v.Text, o.measures); c.Failed() {
					status.ByReason[string(c.Reason)]++
				}
			}
		}

		result.GrandTotal += status.Values
	}

	return result, nil
}

// StatusFromPath is a convenience function that creates an orchestrator and runs Status.
func StatusFromPath(configPath string) (*StatusResult, error) {
	o, err := NewOrchestratorFromPath(configPath)
	if err != nil {
		return nil, err
	}
	return o.Status()
}
