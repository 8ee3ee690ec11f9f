// Package namespace implements the display session core: the LIFO stack of
// active namespaces, their pages and data, and the expiry timers that bound
// how long non-persistent content stays on screen.
//
// Model:
//   - A namespace groups the pages and data of one skill or component
//   - The active stack orders namespaces by recency; index 0 is on display
//   - Loaded namespaces are cached for the process lifetime, eviction from
//     the stack only clears their visible state
//   - Every mutation broadcasts a wire-protocol delta through the Transport
//     so connected display clients stay converged
//
// Persistence:
//   - A boolean spec pins a namespace until it is explicitly removed
//   - A non-negative number displays it for that many seconds
//   - Showing a new namespace evicts the non-persistent ones below it
//   - The configured idle/home namespace never auto-expires
//
// All stack state is guarded by a single mutex in Manager; bus handlers and
// timer callbacks serialize through it.
package namespace
