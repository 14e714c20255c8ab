// Package server holds the HTTP server configuration.
//
// The serve command owns the Fiber application; this package defines the
// settings it reads: bind address, API key and the interval at which the
// open session is ticked while serving.
package server
