// Package shared holds helpers used across packages that belong to no single
// domain.
//
// The testutil subpackage provides CaptureHandler, a slog.Handler that
// records log output so tests can assert on messages and attributes:
//
//	logger, logs := testutil.NewTestLogger(t)
//	client := reddit.NewClient(url, reddit.WithLogger(logger))
//	...
//	testutil.AssertLogged(t, logs, slog.LevelInfo, "Found daily thread")
package shared
