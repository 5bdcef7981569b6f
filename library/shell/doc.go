// Package shell contains the imperative shell around the pure domain in package core:
// mapping between domain events and storable events, event metadata, the Journal on top of the event store,
// retry with exponential backoff for optimistic concurrency conflicts and command observability helpers.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' or 'adapters' layer.
package shell
