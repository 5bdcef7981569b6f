package library

import (
	"context"
	"fmt"
	"io"

	"github.com/AntonStoeckl/library-catalog-go/library/core"
)

// RunDemo plays the demonstration scenario on lib and writes what happens to w:
// a librarian and a reader are registered, two books are added, the reader borrows a book,
// fails to borrow it again and returns it, the reports are generated and the ledger is printed.
func RunDemo(ctx context.Context, lib *Library, w io.Writer) error {
	librarian := core.NewLibrarian("Erko", "erko@example.com")
	if err := lib.Directory.RegisterUser(ctx, librarian); err != nil {
		return err
	}
	lib.Directory.Login(ctx, librarian)

	warAndPeace := core.NewBook("Voina i mir", "1",
		core.WithAuthors("Lev Tolstoi"),
		core.WithGenre("Roman"),
		core.WithPublicationYear(1998),
	)
	abaiZholy := core.NewBook("Abay joly", "2",
		core.WithAuthors("Muhtar Auezov"),
		core.WithGenre("Biography"),
	)

	for _, book := range []*core.Book{warAndPeace, abaiZholy} {
		if err := lib.Catalog.AddBook(ctx, librarian, book); err != nil {
			return err
		}
	}

	reader := core.NewReader("Manat", "Murat", "manat@example.com", "1")
	if err := lib.Directory.RegisterUser(ctx, reader); err != nil {
		return err
	}
	lib.Directory.Login(ctx, reader)

	for _, book := range lib.Catalog.SearchByAuthor("tolstoi") {
		if _, err := fmt.Fprintln(w, book.Info()); err != nil {
			return err
		}
	}

	if _, err := lib.Circulation.IssueBook(ctx, librarian, warAndPeace, reader); err != nil {
		return err
	}

	if _, err := lib.Circulation.Borrow(ctx, warAndPeace, reader); err != nil {
		if _, printErr := fmt.Fprintln(w, err.Error()); printErr != nil {
			return printErr
		}
	}

	if _, err := lib.Circulation.ReturnBook(ctx, librarian, warAndPeace, reader); err != nil {
		return err
	}

	for _, text := range []string{lib.Reports.BookPopularityReport(ctx), lib.Reports.ReaderActivityReport(ctx)} {
		if _, err := fmt.Fprintln(w, text); err != nil {
			return err
		}
	}

	return lib.Ledger.PrintLog(ctx, w)
}
