// Package tvtropes discovers works connected through shared tropes on the TV Tropes wiki.
//
// Works and tropes are identified by their canonical page URL. A Fetcher downloads and
// parses pages politely (per-host spacing, bounded retry, page memoization); Source,
// Validator and Names build the ports on top of one shared Fetcher.
package tvtropes
