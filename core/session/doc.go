// Package session owns the catalog, registry and loader of one open project.
//
// A Session replaces process-wide singletons: every component is created by
// New and reachable only through the session, so several projects (or
// parallel tests) can be open at once without sharing state.
//
// The owner drives the session from one goroutine:
//
//	s := session.New(cfg, logger, m, content.Inspectors(), content.RegisterFactories)
//	if err := s.Open(ctx); err != nil { ... }
//	defer s.Close()
//	for range ticker.C {
//	    s.Tick(frameTime)
//	}
//
// Tick runs the catalog's modification check and the registry's reload
// check on the same interval, then delivers finished async loads. A file
// change seen by the catalog reloads the cached asset through the registry
// and refreshes the catalog's dependency edges.
package session
