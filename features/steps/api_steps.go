//go:build integration

package steps

import (
	"context"
	"fmt"
	"os"

	"tiksave-bot/domain/media"

	"github.com/cucumber/godog"
)

// mockExtractor scripts extraction API lookups per URL and records the
// order they arrive in
type mockExtractor struct {
	lookups map[string]*media.Lookup
	errs    map[string]error
	gotURLs []string
}

func (m *mockExtractor) Lookup(ctx context.Context, url string) (*media.Lookup, error) {
	m.gotURLs = append(m.gotURLs, url)
	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	if lookup, ok := m.lookups[url]; ok {
		return lookup, nil
	}
	return nil, fmt.Errorf("no scripted lookup for %s", url)
}

// mockFetcher writes a small file at destPath so cleanup can be
// observed on disk
type mockFetcher struct {
	gotURLs []string
}

func (m *mockFetcher) Fetch(ctx context.Context, url, destPath string) error {
	m.gotURLs = append(m.gotURLs, url)
	return os.WriteFile(destPath, []byte("payload"), 0644)
}

// mockDeriver writes the derived track without running ffmpeg
type mockDeriver struct {
	gotSources []string
}

func (m *mockDeriver) Derive(ctx context.Context, req *media.DeriveRequest, outputPath string) error {
	m.gotSources = append(m.gotSources, req.SourceVideoPath)
	return os.WriteFile(outputPath, []byte("audio"), 0644)
}

// apiContext holds the scripted extraction API shared by the bot and
// download scenarios
type apiContext struct {
	extractor *mockExtractor
	fetcher   *mockFetcher
	deriver   *mockDeriver
}

// SharedAPIContext is reset before each scenario via Before hook
var SharedAPIContext *apiContext

func getAPIContext() *apiContext {
	return SharedAPIContext
}

func InitializeAPIScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedAPIContext = &apiContext{
			extractor: &mockExtractor{
				lookups: make(map[string]*media.Lookup),
				errs:    make(map[string]error),
			},
			fetcher: &mockFetcher{},
			deriver: &mockDeriver{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		SharedAPIContext = nil
		return c, nil
	})

	ctx.Step(`^the extraction API knows "([^"]*)" as a video titled "([^"]*)" by "([^"]*)"$`, theAPIKnowsVideo)
	ctx.Step(`^the extraction API knows "([^"]*)" as a gallery of (\d+) photos$`, theAPIKnowsGallery)
	ctx.Step(`^the extraction API rejects "([^"]*)" with "([^"]*)"$`, theAPIRejects)
}

func theAPIKnowsVideo(url, title, author string) error {
	a := getAPIContext()
	a.extractor.lookups[url] = &media.Lookup{
		Title:     title,
		Author:    author,
		Duration:  15,
		PlayURL:   url + "/play",
		HDPlayURL: url + "/hd",
	}
	return nil
}

func theAPIKnowsGallery(url string, count int) error {
	a := getAPIContext()
	lookup := &media.Lookup{Title: "gallery", Author: "user"}
	for i := 0; i < count; i++ {
		lookup.Images = append(lookup.Images, fmt.Sprintf("%s/img%d", url, i))
	}
	a.extractor.lookups[url] = lookup
	return nil
}

func theAPIRejects(url, reason string) error {
	a := getAPIContext()
	a.extractor.errs[url] = &media.ResolutionError{URL: url, Reason: reason}
	return nil
}
