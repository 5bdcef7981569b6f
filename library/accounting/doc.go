// Package accounting keeps the ledger of issued and returned books.
//
// The ledger is not a second store: its entries are the BookLentToReader and BookReturnedByReader events
// in the journal, in the order of their sequence numbers. Issue and ReturnBook append them with the
// optimistic concurrency check of the decision that produced them.
package accounting
