// Package storage persists exported layouts for the layout service.
//
// Every backend implements [Store]. Saving a layout assigns it a UUID and a
// timestamped filename of the form layout_YYYYmmdd_HHMMSS.json; the most
// recent layout is always reachable as "latest":
//   - memory: in-process, for tests and throwaway servers
//   - file: one JSON document per layout in a directory, mirrored to latest.json
//   - redis: one key per layout plus a sorted-set index by creation time
//   - mongo: one document per layout in a collection
//
// # Usage
//
//	store, err := storage.Open(ctx, storage.Config{Backend: "file", Dir: "layouts"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	sum, err := store.Save(ctx, records)
//	doc, err := store.Latest(ctx)
//
// [Open] wraps the backend with [Instrument], so every operation is reported
// to the storage hooks of package observability.
package storage
