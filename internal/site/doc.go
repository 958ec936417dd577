// Package site materializes the post collection into a static site.
//
// A build runs an ordered list of stages (discover, derive, validate, collate,
// prepare output, render, write pages, assets, feeds) over a shared BuildState.
// Each stage reports success, a warning or a fatal error; the first fatal error
// aborts the build. Every build produces a BuildReport persisted as JSON next
// to the generated site.
package site
