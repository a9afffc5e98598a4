// Package log provides the slog loggers of the crawler.
//
// Every logger built here wraps its handler in a SecureHandler, which
//   - masks request credentials (cookies, authorization headers, proxy
//     passwords) so that logs can be shared when reporting a crawl problem,
//   - truncates long string values such as the script fragment quoted in a
//     skipped item's reason.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Warn("skipped item", "url", u, "reason", reason)
//
//	// Masked even in verbose mode.
//	logger.Debug("request", "cookie", "session=abc123")
package log
