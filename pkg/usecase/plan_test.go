package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestCandidateName(t *testing.T) {
	testCases := []struct {
		base    string
		counter int
		attempt int
		want    string
	}{
		{"image1.png", 3, 0, "image1.png"},
		{"image1.png", 3, 1, "image1_3.png"},
		{"image1.png", 3, 2, "image1_3_2.png"},
		{"image1.png", 3, 7, "image1_3_7.png"},
		{"noext", 1, 1, "noext_1"},
		{"archive.tar.gz", 2, 1, "archive.tar_2.gz"},
	}

	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			gt.Equal(t, candidateName(tc.base, tc.counter, tc.attempt), tc.want)
		})
	}
}

func TestDestinationPlan(t *testing.T) {
	t.Run("free name is kept", func(t *testing.T) {
		plan := newDestinationPlan(t.TempDir())
		name, renamed, err := plan.claim("image1.png", 1)
		gt.NoError(t, err)
		gt.Equal(t, name, "image1.png")
		gt.False(t, renamed)
	})

	t.Run("claimed names are case folded", func(t *testing.T) {
		plan := newDestinationPlan(t.TempDir())
		_, _, err := plan.claim("Photo.JPG", 1)
		gt.NoError(t, err)

		name, renamed, err := plan.claim("photo.jpg", 2)
		gt.NoError(t, err)
		gt.Equal(t, name, "photo_2.jpg")
		gt.True(t, renamed)
	})

	t.Run("files on disk are skipped", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"image1.png", "image1_4.png", "image1_4_2.png"} {
			gt.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
		}

		plan := newDestinationPlan(dir)
		name, renamed, err := plan.claim("image1.png", 4)
		gt.NoError(t, err)
		gt.Equal(t, name, "image1_4_3.png")
		gt.True(t, renamed)
		gt.Equal(t, plan.path(name), filepath.Join(dir, "image1_4_3.png"))
	})
}
