// Package core contains the domain of the library: books in a catalog, the users of the library
// and the circulation of books between them.
//
// Besides the entities (Book, Author, Reader, Librarian, Loan, LedgerEntry) it holds the domain events
// that are journaled for every state change, the DecisionResult returned by pure Decide functions
// and the domain errors.
//
// Events represent meaningful business occurrences like BookAddedToCatalog and BookLentToReader rather than
// generic create/update operations. All of them implement the DomainEvent interface.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
