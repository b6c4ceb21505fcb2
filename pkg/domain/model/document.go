package model

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// DocumentFormat is the display format of a source document, derived from its file extension
type DocumentFormat string

const (
	FormatPPTX    DocumentFormat = "pptx"
	FormatPPTM    DocumentFormat = "pptm"
	FormatPPSX    DocumentFormat = "ppsx"
	FormatPOTX    DocumentFormat = "potx"
	FormatDOCX    DocumentFormat = "docx"
	FormatDOCM    DocumentFormat = "docm"
	FormatDOTX    DocumentFormat = "dotx"
	FormatUnknown DocumentFormat = "unknown"
)

var supportedFormats = map[string]DocumentFormat{
	".pptx": FormatPPTX,
	".pptm": FormatPPTM,
	".ppsx": FormatPPSX,
	".potx": FormatPOTX,
	".docx": FormatDOCX,
	".docm": FormatDOCM,
	".dotx": FormatDOTX,
}

// imagesDirSuffix is appended to the source stem to name the output directory
const imagesDirSuffix = "_images"

// SourceDocument is an Office Open XML document on the local filesystem. It is never modified.
type SourceDocument struct {
	Path string
}

// Name returns the base name of the document
func (x SourceDocument) Name() string {
	return filepath.Base(x.Path)
}

// Stem returns the base name without its extension
func (x SourceDocument) Stem() string {
	name := x.Name()
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Format returns the document format for display and caller-side validation.
// Extraction itself does not depend on it.
func (x SourceDocument) Format() DocumentFormat {
	if f, ok := supportedFormats[strings.ToLower(filepath.Ext(x.Path))]; ok {
		return f
	}
	return FormatUnknown
}

// IsSupportedFormat reports whether the file extension is a known Office Open XML package
func (x SourceDocument) IsSupportedFormat() bool {
	return x.Format() != FormatUnknown
}

// DefaultOutputRoot is the directory that contains the document
func (x SourceDocument) DefaultOutputRoot() string {
	return filepath.Dir(x.Path)
}

// ImagesDirName returns "<stem>_images"
func (x SourceDocument) ImagesDirName() string {
	return x.Stem() + imagesDirSuffix
}

// ImagesDir returns the output directory under root. An empty root means DefaultOutputRoot.
func (x SourceDocument) ImagesDir(root string) string {
	if root == "" {
		root = x.DefaultOutputRoot()
	}
	return filepath.Join(root, x.ImagesDirName())
}

// SupportedExtensions lists accepted document extensions in sorted order, for help and error messages
func SupportedExtensions() []string {
	return slices.Sorted(maps.Keys(supportedFormats))
}
