package usecase_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
	"github.com/m-mizutani/officeimg/pkg/usecase"
)

func TestExtractMedia_Success(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src := createTestDocument(t, dir, "deck.pptx",
		entry("[Content_Types].xml", "<Types/>"),
		entry("ppt/slides/slide1.xml", "<p:sld/>"),
		entry("ppt/media/image1.png", "png-bytes"),
		entry("ppt/media/image2.JPEG", "jpeg-bytes"),
		entry("ppt/media/media1.mp4", "video"),
		entry("ppt/media/image3.emf", "emf-bytes"),
	)
	outDir := filepath.Join(dir, "deck_images")

	var progress []string
	result, err := usecase.ExtractMedia(ctx, src, outDir, func(status string) {
		progress = append(progress, status)
	})
	gt.NoError(t, err)

	gt.Equal(t, result.Count, 3)
	gt.Equal(t, result.OutputDir, outDir)
	gt.A(t, result.Files).Length(3)
	gt.A(t, listDir(t, outDir)).Length(3)

	expected := map[string]string{
		"image1.png":  "png-bytes",
		"image2.JPEG": "jpeg-bytes",
		"image3.emf":  "emf-bytes",
	}
	for name, data := range expected {
		content, err := os.ReadFile(filepath.Join(outDir, name))
		gt.NoError(t, err)
		gt.Equal(t, string(content), data)
	}

	gt.Equal(t, result.Files[0].Entry, "ppt/media/image1.png")
	gt.Equal(t, result.Files[0].Size, int64(len("png-bytes")))
	gt.False(t, result.Files[0].Renamed)

	gt.A(t, progress).Length(4)
	gt.Equal(t, progress[0], "found 4 media files in deck.pptx, 3 recognized as images")
	gt.Equal(t, progress[1], "extracted image 1/3 (png) -> image1.png")
	gt.Equal(t, progress[2], "extracted image 2/3 (jpeg) -> image2.JPEG")
}

func TestExtractMedia_WordDocument(t *testing.T) {
	dir := t.TempDir()
	src := createTestDocument(t, dir, "report.docx",
		entry("word/document.xml", "<w:document/>"),
		entry("word/media/image1.gif", "gif"),
		entry("word/media/", ""),
		entry("word/embeddings/oleObject1.bin", "ole"),
	)
	outDir := filepath.Join(dir, "out")

	result, err := usecase.ExtractMedia(context.Background(), src, outDir, nil)
	gt.NoError(t, err)
	gt.Equal(t, result.Count, 1)

	content, err := os.ReadFile(filepath.Join(outDir, "image1.gif"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "gif")
}

func TestExtractMedia_SameStemDifferentExtension(t *testing.T) {
	dir := t.TempDir()
	src := createTestDocument(t, dir, "deck.pptx",
		entry("ppt/media/image1.png", "a"),
		entry("ppt/media/image1.jpeg", "b"),
	)
	outDir := filepath.Join(dir, "deck_images")

	result, err := usecase.ExtractMedia(context.Background(), src, outDir, nil)
	gt.NoError(t, err)
	gt.Equal(t, result.Count, 2)

	for _, name := range []string{"image1.png", "image1.jpeg"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		gt.NoError(t, err)
	}
}

func TestExtractMedia_DuplicateBaseNameInArchive(t *testing.T) {
	dir := t.TempDir()
	src := createTestDocument(t, dir, "mixed.docx",
		entry("word/media/image1.png", "from-word"),
		entry("ppt/media/image1.png", "from-ppt"),
		entry("ppt/media/IMAGE1.PNG", "upper"),
	)
	outDir := filepath.Join(dir, "mixed_images")

	result, err := usecase.ExtractMedia(context.Background(), src, outDir, nil)
	gt.NoError(t, err)
	gt.Equal(t, result.Count, 3)
	gt.A(t, listDir(t, outDir)).Length(3)

	content, err := os.ReadFile(filepath.Join(outDir, "image1.png"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "from-word")

	content, err = os.ReadFile(filepath.Join(outDir, "image1_2.png"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "from-ppt")
	gt.True(t, result.Files[1].Renamed)

	// names differing only in case still collide
	content, err = os.ReadFile(filepath.Join(outDir, "IMAGE1_3.PNG"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "upper")
}

func TestExtractMedia_ExistingFilesAreKept(t *testing.T) {
	dir := t.TempDir()
	src := createTestDocument(t, dir, "deck.pptx",
		entry("ppt/media/image1.png", "new"),
	)
	outDir := filepath.Join(dir, "deck_images")
	gt.NoError(t, os.MkdirAll(outDir, 0755))
	gt.NoError(t, os.WriteFile(filepath.Join(outDir, "image1.png"), []byte("old"), 0644))
	gt.NoError(t, os.WriteFile(filepath.Join(outDir, "image1_1.png"), []byte("older"), 0644))

	result, err := usecase.ExtractMedia(context.Background(), src, outDir, nil)
	gt.NoError(t, err)
	gt.Equal(t, result.Count, 1)
	gt.Equal(t, result.Files[0].Path, filepath.Join(outDir, "image1_1_2.png"))

	content, err := os.ReadFile(filepath.Join(outDir, "image1.png"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "old")

	content, err = os.ReadFile(filepath.Join(outDir, "image1_1_2.png"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "new")
}

func TestExtractMedia_RepeatedRunsDoNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := createTestDocument(t, dir, "deck.pptx",
		entry("ppt/media/image1.png", "a"),
		entry("ppt/media/image2.png", "b"),
	)
	outDir := filepath.Join(dir, "deck_images")

	for range 2 {
		result, err := usecase.ExtractMedia(context.Background(), src, outDir, nil)
		gt.NoError(t, err)
		gt.Equal(t, result.Count, 2)
	}
	gt.A(t, listDir(t, outDir)).Length(4)
}

func TestExtractMedia_NoMedia(t *testing.T) {
	dir := t.TempDir()
	src := createTestDocument(t, dir, "empty.docx",
		entry("word/document.xml", "<w:document/>"),
		entry("word/media/readme.txt", "not an image"),
	)
	outDir := filepath.Join(dir, "empty_images")

	var progress []string
	result, err := usecase.ExtractMedia(context.Background(), src, outDir, func(s string) {
		progress = append(progress, s)
	})
	gt.NoError(t, err)
	gt.Equal(t, result.Count, 0)
	gt.A(t, result.Files).Length(0)
	gt.A(t, progress).Length(1)
	gt.Equal(t, progress[0], "found 1 media files in empty.docx, 0 recognized as images")

	info, err := os.Stat(outDir)
	gt.NoError(t, err)
	gt.True(t, info.IsDir())
}

func TestExtractMedia_EscapingEntryNames(t *testing.T) {
	dir := t.TempDir()
	src := createTestDocument(t, dir, "evil.pptx",
		entry("ppt/media/../../../escape.png", "x"),
	)
	outDir := filepath.Join(dir, "sub", "evil_images")

	result, err := usecase.ExtractMedia(context.Background(), src, outDir, nil)
	gt.NoError(t, err)
	gt.Equal(t, result.Count, 1)
	gt.Equal(t, result.Files[0].Path, filepath.Join(outDir, "escape.png"))

	_, err = os.Stat(filepath.Join(dir, "escape.png"))
	gt.True(t, os.IsNotExist(err))
}

func TestExtractMedia_Errors(t *testing.T) {
	t.Run("not a zip archive", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "broken.pptx")
		gt.NoError(t, os.WriteFile(src, []byte("this is not valid zip data"), 0644))
		outDir := filepath.Join(dir, "broken_images")

		result, err := usecase.ExtractMedia(context.Background(), src, outDir, nil)
		gt.Value(t, result).Nil()
		gt.Error(t, err).Contains("not a valid Office Open XML container")
		gt.True(t, goerr.HasTag(err, types.ErrTagInvalidContainer))
		gt.Equal(t, types.KindOf(err), types.KindInvalidContainer)

		// nothing is created for a rejected container
		_, err = os.Stat(outDir)
		gt.True(t, os.IsNotExist(err))
	})

	t.Run("compound file", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "legacy.ppt")
		data := append([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, make([]byte, 64)...)
		gt.NoError(t, os.WriteFile(src, data, 0644))

		_, err := usecase.ExtractMedia(context.Background(), src, filepath.Join(dir, "out"), nil)
		gt.Equal(t, types.KindOf(err), types.KindInvalidContainer)

		detail, ok := goerr.Values(err)["detail"].(string)
		gt.True(t, ok)
		gt.String(t, detail).Contains("OLE2")
	})

	t.Run("unreadable entry keeps earlier files", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "damaged.pptx")

		// Stored entries keep payloads verbatim, so the second one can be altered in place
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		for _, e := range []testEntry{
			entry("ppt/media/a.png", "first-image-payload"),
			entry("ppt/media/b.png", "second-image-payload"),
		} {
			w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: zip.Store})
			gt.NoError(t, err)
			_, err = w.Write(e.data)
			gt.NoError(t, err)
		}
		gt.NoError(t, zw.Close())

		data := buf.Bytes()
		idx := bytes.Index(data, []byte("second-image-payload"))
		gt.True(t, idx >= 0)
		copy(data[idx:], "SECOND")
		gt.NoError(t, os.WriteFile(src, data, 0644))

		outDir := filepath.Join(dir, "damaged_images")
		result, err := usecase.ExtractMedia(context.Background(), src, outDir, nil)
		gt.Value(t, result).Nil()
		gt.Error(t, err).Contains("failed to read archive entry")
		gt.Equal(t, types.KindOf(err), types.KindIOFailure)
		gt.True(t, errors.Is(err, zip.ErrChecksum))

		written, err := os.ReadFile(filepath.Join(outDir, "a.png"))
		gt.NoError(t, err)
		gt.Equal(t, string(written), "first-image-payload")
		gt.A(t, listDir(t, outDir)).Length(1)
	})

	t.Run("missing source", func(t *testing.T) {
		dir := t.TempDir()
		_, err := usecase.ExtractMedia(context.Background(), filepath.Join(dir, "nope.docx"), filepath.Join(dir, "out"), nil)
		gt.Error(t, err).Contains("does not exist")
		gt.Equal(t, types.KindOf(err), types.KindInvalidInput)
	})

	t.Run("source is a directory", func(t *testing.T) {
		dir := t.TempDir()
		_, err := usecase.ExtractMedia(context.Background(), dir, filepath.Join(dir, "out"), nil)
		gt.Equal(t, types.KindOf(err), types.KindInvalidInput)
	})

	t.Run("empty output directory", func(t *testing.T) {
		dir := t.TempDir()
		src := createTestDocument(t, dir, "deck.pptx", entry("ppt/media/image1.png", "a"))
		_, err := usecase.ExtractMedia(context.Background(), src, "", nil)
		gt.Equal(t, types.KindOf(err), types.KindInvalidInput)
	})

	t.Run("output path is a file", func(t *testing.T) {
		dir := t.TempDir()
		src := createTestDocument(t, dir, "deck.pptx", entry("ppt/media/image1.png", "a"))
		blocker := filepath.Join(dir, "deck_images")
		gt.NoError(t, os.WriteFile(blocker, []byte("file"), 0644))

		_, err := usecase.ExtractMedia(context.Background(), src, blocker, nil)
		gt.Error(t, err).Contains("failed to create output directory")
		gt.Equal(t, types.KindOf(err), types.KindIOFailure)
	})
}
