// Package watch pushes file-system change notifications for an assets folder.
//
// The catalog and registry detect edits by polling modification times on a
// fixed interval. A Watcher shortens that delay: it subscribes to
// file-system events under the assets folder and, after a quiet debounce
// window, reports the changed content files in one batch so the owner can
// run a check immediately. Polling remains the source of truth; a missed
// event only delays detection until the next interval.
package watch
