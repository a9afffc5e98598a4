// Package database provides the SQLite page cache of the crawler.
//
// PageCache stores fetched page bodies keyed by URL together with the time
// they were fetched and a SHA3-256 digest of the body. It implements
// fetcher.Store, so a fetcher.CachingFetcher can serve repeated crawls from
// disk instead of the network.
//
// We use modernc.org/sqlite because it is CGO-free: the cache is a single
// file under the XDG cache directory and the binary cross-compiles as is.
// WAL mode lets the concurrent detail workers read while one of them writes.
package database
