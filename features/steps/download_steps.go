//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"tiksave-bot/application/resolve"
	"tiksave-bot/cmd"
	"tiksave-bot/infrastructure/filesystem"
	"tiksave-bot/infrastructure/storage"

	"github.com/cucumber/godog"
)

// downloadContext holds test state for download command scenarios
type downloadContext struct {
	tempDir string
	output  *bytes.Buffer
	err     error
}

// SharedDownloadContext is reset before each scenario via Before hook
var SharedDownloadContext *downloadContext

func getDownloadContext() *downloadContext {
	return SharedDownloadContext
}

func InitializeDownloadScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "tiksave-download-")
		if err != nil {
			return c, err
		}
		SharedDownloadContext = &downloadContext{
			tempDir: tempDir,
			output:  &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedDownloadContext != nil && SharedDownloadContext.tempDir != "" {
			os.RemoveAll(SharedDownloadContext.tempDir)
		}
		SharedDownloadContext = nil
		return c, nil
	})

	ctx.Step(`^I download "([^"]*)"$`, iDownload)
	ctx.Step(`^the command reports a saved video and audio pair$`, theCommandReportsVideoAudioPair)
	ctx.Step(`^the command reports (\d+) saved photos$`, theCommandReportsSavedPhotos)
	ctx.Step(`^the download fails with "([^"]*)"$`, theDownloadFailsWith)
}

func iDownload(url string) error {
	d := getDownloadContext()
	a := getAPIContext()

	store, err := storage.NewStore(d.tempDir, zerolog.Nop())
	if err != nil {
		return err
	}

	resolver := resolve.NewService(a.extractor, a.fetcher, a.deriver, filesystem.NewChecker(), store, "128k", zerolog.Nop())

	d.err = cmd.RunDownloadWithDependencies(context.Background(), resolver, url, d.output)
	return nil
}

func theCommandReportsVideoAudioPair() error {
	d := getDownloadContext()
	if d.err != nil {
		return fmt.Errorf("unexpected error: %v", d.err)
	}

	out := d.output.String()
	if !strings.Contains(out, "Video: ") {
		return fmt.Errorf("expected a video line, got: %q", out)
	}
	if !strings.Contains(out, "Audio: ") {
		return fmt.Errorf("expected an audio line, got: %q", out)
	}
	if !strings.Contains(out, "Saved 2 file(s)") {
		return fmt.Errorf("expected a two-file summary, got: %q", out)
	}
	return nil
}

func theCommandReportsSavedPhotos(count int) error {
	d := getDownloadContext()
	if d.err != nil {
		return fmt.Errorf("unexpected error: %v", d.err)
	}

	out := d.output.String()
	for i := 1; i <= count; i++ {
		if !strings.Contains(out, fmt.Sprintf("Photo %d: ", i)) {
			return fmt.Errorf("expected a line for photo %d, got: %q", i, out)
		}
	}
	if !strings.Contains(out, fmt.Sprintf("Saved %d file(s)", count)) {
		return fmt.Errorf("expected a %d-file summary, got: %q", count, out)
	}
	return nil
}

func theDownloadFailsWith(fragment string) error {
	d := getDownloadContext()
	if d.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(d.err.Error(), fragment) {
		return fmt.Errorf("expected error mentioning %q, got: %v", fragment, d.err)
	}
	return nil
}
