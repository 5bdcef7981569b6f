// Package catalog holds the books of the library and searches them.
//
// Every Add and Remove is journaled as BookAddedToCatalog / BookRemovedFromCatalog,
// so the circulation can decide whether a book is in the catalog from the journal alone.
// Remove decides on the journal as well: a book with an open loan stays in the catalog.
//
// AddBook, EditBook and RemoveBook do the same on behalf of a librarian and send a notification.
package catalog
