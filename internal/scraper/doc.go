// Package scraper resolves streaming-store URLs to media metadata and
// subtitle playlist locations. Each supported site implements Scraper;
// a Registry routes an input URL to the scraper that claims it.
package scraper
