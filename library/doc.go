// Package library wires the catalog, the directory, the circulation, the ledger and the reports
// on top of one journal and one in-memory event store.
//
// Setup returns the constructed components for direct use, RunDemo plays the demonstration scenario.
package library
