// Package watch reloads files when they change on disk.
//
// A Watcher tracks individual files by watching their parent directories,
// which keeps it working across editors that save by writing a temporary
// file and renaming it over the original. Bursts of events for the same
// save are coalesced with a debouncer before the callback fires.
package watch
