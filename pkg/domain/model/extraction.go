package model

// ProgressFunc receives human readable status lines during extraction.
// It is called on the extracting goroutine; callers marshal the value to their own context.
type ProgressFunc func(status string)

// Report calls f when it is set
func (f ProgressFunc) Report(status string) {
	if f != nil {
		f(status)
	}
}

// ExtractRequest is an extraction of one document into <OutputRoot>/<stem>_images
type ExtractRequest struct {
	SourcePath string
	OutputRoot string // Empty means the directory of SourcePath
	Progress   ProgressFunc
}

// ExtractedFile is one image written to disk
type ExtractedFile struct {
	Entry   string `json:"entry"`   // Entry name inside the archive
	Path    string `json:"path"`    // Written file path
	Size    int64  `json:"size"`    // Bytes written
	Renamed bool   `json:"renamed"` // True when the base name collided and a suffix was added
}

// ExtractionResult represents the outcome of a successful extraction
type ExtractionResult struct {
	Count     int             `json:"count"`
	OutputDir string          `json:"output_dir"`
	Files     []ExtractedFile `json:"files"`
}
