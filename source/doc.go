// Package source defines the connector boundary for pulling documents out
// of workplace systems. A connector names its logical source, can verify
// its credentials, and fetches documents in the pipeline's canonical
// shape. The directory connector reads exported files from disk; remote
// platform connectors implement the same interface elsewhere.
package source
