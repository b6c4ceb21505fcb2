package model_test

import (
	"testing"

	"github.com/m-mizutani/officeimg/pkg/domain/model"
)

func TestIsImageEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		expected bool
	}{
		{name: "word png", entry: "word/media/image1.png", expected: true},
		{name: "ppt jpeg", entry: "ppt/media/image2.jpeg", expected: true},
		{name: "upper case extension", entry: "ppt/media/image3.PNG", expected: true},
		{name: "enhanced metafile", entry: "word/media/image4.emf", expected: true},
		{name: "hd photo", entry: "ppt/media/hdphoto1.wdp", expected: true},
		{name: "tif short form", entry: "ppt/media/scan.tif", expected: true},
		{name: "nested media directory", entry: "ppt/media/sub/image5.gif", expected: true},
		{name: "ole object", entry: "word/media/oleObject1.bin", expected: false},
		{name: "xml under media", entry: "ppt/media/item.xml", expected: false},
		{name: "audio", entry: "ppt/media/media1.mp4", expected: false},
		{name: "media directory entry", entry: "ppt/media/", expected: false},
		{name: "image outside media", entry: "docProps/thumbnail.jpeg", expected: false},
		{name: "excel media is not scanned", entry: "xl/media/image1.png", expected: false},
		{name: "prefix must match from the start", entry: "custom/word/media/image1.png", expected: false},
		{name: "no extension", entry: "word/media/image", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := model.IsImageEntry(tt.entry); got != tt.expected {
				t.Errorf("IsImageEntry(%q) = %v, want %v", tt.entry, got, tt.expected)
			}
		})
	}
}

func TestEntryExtension(t *testing.T) {
	tests := map[string]string{
		"word/media/image1.PNG": "png",
		"ppt/media/a.b.JpEg":    "jpeg",
		"ppt/media/noext":       "",
	}

	for entry, want := range tests {
		if got := model.EntryExtension(entry); got != want {
			t.Errorf("EntryExtension(%q) = %q, want %q", entry, got, want)
		}
	}
}
