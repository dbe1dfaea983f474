// Package scraper fetches and parses the KOERI "last earthquakes" list.
//
// The source is a fixed-column plain-text table served as a Windows-1254
// encoded HTML page. The client handles fetching with retries and charset
// decoding; the parser turns table lines into validated Observations.
package scraper
