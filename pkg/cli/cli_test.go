package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/officeimg/pkg/cli/config"
	"github.com/m-mizutani/officeimg/pkg/domain/model"
	"github.com/m-mizutani/officeimg/pkg/domain/types"
	"github.com/m-mizutani/officeimg/pkg/usecase"
)

func writeDocument(t *testing.T, dir, name string, images int) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i := 1; i <= images; i++ {
		w, err := zw.Create(fmt.Sprintf("ppt/media/image%d.png", i))
		gt.NoError(t, err)
		_, err = w.Write([]byte("png"))
		gt.NoError(t, err)
	}
	gt.NoError(t, zw.Close())

	path := filepath.Join(dir, name)
	gt.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func TestRun_Extract(t *testing.T) {
	dir := t.TempDir()
	src := writeDocument(t, dir, "deck.pptx", 3)
	out := filepath.Join(dir, "out")

	err := Run(context.Background(), []string{"officeimg", "--log-level", "error", "extract", "--quiet", "--output", out, src})
	gt.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(out, "deck_images"))
	gt.NoError(t, err)
	gt.A(t, entries).Length(3)
}

func TestRun_ExtractProfile(t *testing.T) {
	dir := t.TempDir()
	src := writeDocument(t, dir, "deck.pptx", 1)
	out := filepath.Join(dir, "from-profile")

	profile := filepath.Join(dir, "officeimg.toml")
	gt.NoError(t, os.WriteFile(profile, []byte("[extract]\noutput = \""+filepath.ToSlash(out)+"\"\n"), 0644))

	err := Run(context.Background(), []string{"officeimg", "--log-level", "error", "--config", profile, "extract", "-q", src})
	gt.NoError(t, err)

	_, err = os.Stat(filepath.Join(out, "deck_images", "image1.png"))
	gt.NoError(t, err)
}

func TestRun_ExtractFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeDocument(t, dir, "good.pptx", 1)
	broken := filepath.Join(dir, "broken.docx")
	gt.NoError(t, os.WriteFile(broken, []byte("not a zip"), 0644))

	err := Run(context.Background(), []string{"officeimg", "--log-level", "error", "extract", "-q", broken, good})
	gt.Error(t, err).Contains("some documents could not be processed")
	gt.True(t, goerr.HasTag(err, errTagReported))

	// the valid document is still processed
	_, err = os.Stat(filepath.Join(dir, "good_images", "image1.png"))
	gt.NoError(t, err)
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := Run(context.Background(), []string{"officeimg", "--log-level", "verbose", "extract", "x.pptx"})
	gt.Error(t, err).Contains("invalid log level")
}

func TestRun_ExtractWithoutFiles(t *testing.T) {
	err := Run(context.Background(), []string{"officeimg", "--log-level", "error", "extract"})
	gt.Equal(t, types.KindOf(err), types.KindInvalidInput)
}

func TestExtractDocument(t *testing.T) {
	dir := t.TempDir()
	uc := usecase.NewExtract()

	t.Run("progress is rendered", func(t *testing.T) {
		src := writeDocument(t, dir, "deck.pptx", 2)

		var buf bytes.Buffer
		result, err := extractDocument(context.Background(), uc, &config.Extract{}, newConsole(&buf, false), src)
		gt.NoError(t, err)
		gt.Equal(t, result.Count, 2)
		gt.String(t, buf.String()).Contains("found 2 media files in deck.pptx, 2 recognized as images")
		gt.String(t, buf.String()).Contains("extracted image 2/2 (png) -> image2.png")
	})

	t.Run("quiet hides progress", func(t *testing.T) {
		src := writeDocument(t, dir, "quiet.pptx", 1)

		var buf bytes.Buffer
		_, err := extractDocument(context.Background(), uc, &config.Extract{}, newConsole(&buf, true), src)
		gt.NoError(t, err)
		gt.Equal(t, buf.Len(), 0)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		src := writeDocument(t, dir, "deck.zip", 1)

		_, err := extractDocument(context.Background(), uc, &config.Extract{}, newConsole(&bytes.Buffer{}, true), src)
		gt.Equal(t, types.KindOf(err), types.KindInvalidInput)

		result, err := extractDocument(context.Background(), uc, &config.Extract{Force: true}, newConsole(&bytes.Buffer{}, true), src)
		gt.NoError(t, err)
		gt.Equal(t, result.Count, 1)
	})
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	out := newConsole(&buf, false)

	out.summary("deck.pptx", &model.ExtractionResult{Count: 2, OutputDir: "/tmp/deck_images"})
	gt.String(t, buf.String()).Contains("saved 2 images to /tmp/deck_images")

	buf.Reset()
	out.summary("plain.docx", &model.ExtractionResult{})
	gt.String(t, buf.String()).Contains("no images found in the document")

	buf.Reset()
	out.failure("legacy.ppt", goerr.New("not a valid Office Open XML container",
		goerr.V("detail", "legacy PowerPoint 97-2003 presentation (.ppt); save it as .pptx and retry"),
		goerr.T(types.ErrTagInvalidContainer)))
	gt.String(t, buf.String()).Contains("invalid_container")
	gt.String(t, buf.String()).Contains("save it as .pptx")
}
