// Package watch re-sorts JSON files whenever they change. It monitors the
// given files and directory trees, debounces rapid events, and triggers a
// batch run after each quiet period.
package watch
