// Package localstore implements the domain repositories on top of a kv.Store using
// the browser-storage layout: the "users" key holds a JSON array of credentials and
// the "latestScanReport" key holds one JSON report discriminated by its "type" field.
package localstore
