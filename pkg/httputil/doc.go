// Package httputil provides the HTTP plumbing shared by the layout client
// and the device notifier.
//
// # Retry
//
// [Retry] runs an operation up to a fixed number of attempts with
// exponential backoff. Only errors wrapped in [RetryableError] (connection
// failures, 5xx responses) are retried; everything else is returned
// immediately:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return fetch(ctx)
//	})
//
// [CheckStatus] maps a response status to nil, [ErrNotFound], or a network
// error, marking server errors as retryable.
//
// # Caching
//
// [Cache] keeps JSON values on disk (~/.cache/einkplacer/ by default) with
// an optional TTL. The client uses it to remember the last layout it
// fetched, so a device layout can still be inspected while the layout
// service is unreachable:
//
//	cache, err := httputil.NewCache("", 0)
//	layouts := cache.Namespace("layout:")
//	layouts.Set("latest", doc)
//
// The cache can be removed with `einkplacer fetch --clear-cache` or by
// deleting the directory.
package httputil
