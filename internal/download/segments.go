package download

import (
	"context"
	"strings"
	"sync"

	"ripsub/internal/scraper"
)

// fetchSegments downloads every segment URL and returns the bodies in
// input order. Up to concurrency requests run in parallel; the first
// failure cancels the rest.
func fetchSegments(ctx context.Context, client *scraper.Client, urls []string, concurrency int) ([]string, error) {
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(urls) {
		concurrency = len(urls)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bodies := make([]string, len(urls))
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for worker := 0; worker < concurrency; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				body, err := client.GetText(ctx, urls[index])
				if err != nil {
					fail(err)
					return
				}
				bodies[index] = body
			}
		}()
	}

feed:
	for index := range urls {
		select {
		case jobs <- index:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	// Cancellation can stop the feed loop before every segment was handed
	// out; the holes must not pass as a complete download.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return bodies, nil
}

// concatSegments joins segment bodies into one parser input. Segments
// after the first have their WEBVTT header stripped so the result reads
// as a single document. Input order is preserved.
func concatSegments(bodies []string) string {
	parts := make([]string, 0, len(bodies))
	for i, body := range bodies {
		if i > 0 {
			body = stripHeader(body)
		}
		parts = append(parts, strings.TrimRight(body, "\r\n"))
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// stripHeader drops a segment's WEBVTT header line, including any
// metadata on it. Only the header line goes; cues stay intact even when
// no blank line follows the header. Bodies without a recognizable header
// pass through unchanged.
func stripHeader(body string) string {
	trimmed := strings.TrimPrefix(body, "\ufeff")
	line, rest, found := strings.Cut(trimmed, "\n")
	if !found {
		return body
	}
	line = strings.TrimRight(line, " \t\r")
	if line != "WEBVTT" && !strings.HasPrefix(line, "WEBVTT ") && !strings.HasPrefix(line, "WEBVTT\t") {
		return body
	}
	return strings.TrimLeft(rest, "\r\n")
}
