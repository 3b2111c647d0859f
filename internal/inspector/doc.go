// Package inspector serves a live view of a reconciliation session.
//
// The inspector observes every pass of its reconciler. After each pass it
// broadcasts a Message over WebSocket carrying the pass statistics, the
// mutations the pass made to the document and the resulting HTML. Browsers
// opening "/" get a small page that renders this stream.
//
// Routes:
//
//	GET  /        inspector page
//	GET  /ws      WebSocket stream of Messages
//	GET  /tree    current HTML (?pretty=1 for indented output)
//	POST /tree    reconcile to a JSON or YAML tree description
//	GET  /stats   the last Message as JSON
//	GET  /metrics Prometheus metrics, when a collector is configured
package inspector
