// Package doctree turns the flat set of documentation sources of each section
// into the navigation tree, the list of pre-renderable routes and the
// directory listings used for generated landing pages.
//
// An Index is built once from an immutable snapshot of sources and only read
// afterwards, so it is safe for concurrent use.
package doctree
