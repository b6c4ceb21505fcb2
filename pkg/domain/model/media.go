package model

import (
	"path"
	"strings"
)

// MediaPrefixes are the package directories holding embedded media for presentations and word documents.
// Both are checked for every container.
var MediaPrefixes = []string{
	"word/media/",
	"ppt/media/",
}

// ImageExtensions is the set of recognized image extensions, lowercase and without the dot
var ImageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"bmp":  {},
	"tiff": {},
	"tif":  {},
	"wmf":  {},
	"emf":  {},
	"svg":  {},
	"wdp":  {},
}

// MediaEntry is an archive entry selected for extraction. It only lives while the archive is read.
type MediaEntry struct {
	Name string // Entry name inside the archive, slash separated
	Data []byte // Uncompressed payload
}

// IsMediaPath reports whether an archive entry name lies under one of MediaPrefixes
func IsMediaPath(name string) bool {
	for _, prefix := range MediaPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// EntryBase returns the base name of an archive entry. Archive names always use forward slashes.
func EntryBase(name string) string {
	return path.Base(name)
}

// EntryExtension returns the lowercase extension of the entry's base name, without the dot
func EntryExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(EntryBase(name)), "."))
}

// IsImageExtension reports whether ext (lowercase, no dot) is a recognized image extension
func IsImageExtension(ext string) bool {
	_, ok := ImageExtensions[ext]
	return ok
}

// IsImageEntry reports whether the archive entry is an embedded image to extract
func IsImageEntry(name string) bool {
	if strings.HasSuffix(name, "/") || !IsMediaPath(name) {
		return false
	}
	return IsImageExtension(EntryExtension(name))
}
