// Package fetcher provides the document retrieval layer of the crawler.
//
// # Components
//
//   - Fetcher: The interface every transport implements (url in, bytes out)
//   - Client: The HTTP implementation, optionally routed through a SOCKS5 proxy
//   - FetchWithRetry: The fixed-count retry policy wrapped around any Fetcher
//   - CachingFetcher: A decorator that serves fresh bodies from a Store
//
// # Retry policy
//
// A failed fetch is retried immediately, without backoff, while retries remain.
// When the retries are exhausted the error of the last attempt is returned
// unchanged, so callers can still inspect it with errors.As.
//
// # Usage
//
//	client := fetcher.NewClient(fetcher.WithTimeout(30 * time.Second))
//	body, err := fetcher.FetchWithRetry(ctx, client, "https://www.irasutoya.com/", 2)
package fetcher
