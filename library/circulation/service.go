package circulation

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-catalog-go/library/accounting"
	"github.com/AntonStoeckl/library-catalog-go/library/core"
	"github.com/AntonStoeckl/library-catalog-go/library/shell"
)

var (
	ErrNilBook         = errors.New("book must not be nil")
	ErrNilHoldings     = errors.New("holdings must not be nil")
	ErrNilLedger       = errors.New("ledger must not be nil")
	ErrNoLibrarian     = errors.New("librarian must have an ID")
	ErrUnexpectedEvent = errors.New("decision produced an unexpected event")
)

// Holdings tells whether exactly this book is held by the library, the Catalog implements it.
type Holdings interface {
	Contains(book *core.Book) bool
}

// Receipt is the outcome of a return.
// Idempotent is true when the book had already been returned by this reader and nothing changed.
type Receipt struct {
	Loan       core.Loan
	Idempotent bool
}

// Service lends and takes back books. It is safe for concurrent use.
type Service struct {
	journal  *shell.Journal
	holdings Holdings
	ledger   *accounting.Ledger

	mu    sync.RWMutex
	loans []core.Loan

	logger           shell.ContextualLogger
	metricsCollector shell.MetricsCollector
	clock            func() time.Time
	nextLoanID       func() core.LoanIDString
}

// NewService creates a Service that decides on the history in journal and records into ledger.
// Only the book instances in holdings can be lent or taken back, copies of them with the same ISBN can't.
func NewService(journal *shell.Journal, holdings Holdings, ledger *accounting.Ledger, options ...Option) (*Service, error) {
	if journal == nil {
		return nil, shell.ErrNilJournal
	}

	if holdings == nil {
		return nil, ErrNilHoldings
	}

	if ledger == nil {
		return nil, ErrNilLedger
	}

	s := &Service{
		journal:    journal,
		holdings:   holdings,
		ledger:     ledger,
		loans:      make([]core.Loan, 0),
		logger:     shell.NopLogger(),
		clock:      time.Now,
		nextLoanID: func() core.LoanIDString { return uuid.Must(uuid.NewV7()).String() },
	}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Borrow lends a book to a reader (self-service).
// On success the book is unavailable and exactly one open loan and one ledger issue entry exist.
// On failure nothing changes, the failure is journaled outside the ledger.
func (s *Service) Borrow(ctx context.Context, book *core.Book, reader core.Reader) (core.Loan, error) {
	return s.lend(ctx, book, reader, "")
}

// IssueBook lends a book to a reader on behalf of a librarian, see Borrow.
func (s *Service) IssueBook(ctx context.Context, librarian core.Librarian, book *core.Book, reader core.Reader) (core.Loan, error) {
	if librarian.ID == "" {
		return core.Loan{}, ErrNoLibrarian
	}

	return s.lend(shell.WithActor(ctx, librarian.ID), book, reader, librarian.ID)
}

// Return takes a book back from its borrower (self-service).
// Returning a book again that this reader already returned is idempotent.
func (s *Service) Return(ctx context.Context, book *core.Book, reader core.Reader) (Receipt, error) {
	return s.takeBack(ctx, book, reader, "")
}

// ReturnBook takes a book back from its borrower on behalf of a librarian, see Return.
func (s *Service) ReturnBook(ctx context.Context, librarian core.Librarian, book *core.Book, reader core.Reader) (Receipt, error) {
	if librarian.ID == "" {
		return Receipt{}, ErrNoLibrarian
	}

	return s.takeBack(shell.WithActor(ctx, librarian.ID), book, reader, librarian.ID)
}

// Loans returns all loans, open and closed, in the order they were opened. The slice is a copy.
func (s *Service) Loans() []core.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.loans)
}

// OpenLoanFor returns the open loan of the book with this ISBN.
func (s *Service) OpenLoanFor(isbn core.ISBNString) (core.Loan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := slices.IndexFunc(s.loans, func(l core.Loan) bool { return l.BookISBN == isbn && l.IsOpen() })
	if idx < 0 {
		return core.Loan{}, false
	}

	return s.loans[idx], true
}

func (s *Service) lend(ctx context.Context, book *core.Book, reader core.Reader, issuedBy core.UserIDString) (core.Loan, error) {
	if book == nil {
		return core.Loan{}, ErrNilBook
	}

	startTime := time.Now()
	shell.LogCommandStart(ctx, s.logger, BorrowBookCommandType)

	book.Lock()
	defer book.Unlock()

	command := BuildBorrowBook(s.nextLoanID(), book, reader, issuedBy, s.clock())
	filter := BuildEventFilter(command.BookISBN, command.ReaderID, command.IssuedBy)
	// the book's lock keeps its catalog membership stable until the command is finished
	isHeld := s.holdings.Contains(book)

	var result core.DecisionResult
	retryMetrics, err := s.journal.Retry(ctx, command.CommandType(), func(ctx context.Context) error {
		history, maxSequenceNumber, loadErr := s.journal.Load(ctx, filter)
		if loadErr != nil {
			return loadErr
		}

		result = DecideBorrow(history, command)
		if result.HasError() == nil && !isHeld {
			result = borrowFailed(command, core.ErrBookNotInCatalog)
		}

		if result.HasError() != nil {
			return s.ledger.RecordFailure(ctx, filter, maxSequenceNumber, result.Event)
		}

		lent, ok := result.Event.(core.BookLentToReader)
		if !ok {
			return ErrUnexpectedEvent
		}

		return s.ledger.Issue(ctx, filter, maxSequenceNumber, lent)
	})

	if err == nil {
		err = result.HasError()
	}

	if err != nil {
		shell.FinishCommand(ctx, s.logger, s.metricsCollector, command.CommandType(), startTime,
			shell.StatusError, shell.NewErrorResult(retryMetrics), err)

		return core.Loan{}, err
	}

	loan := core.Loan{
		ID:        command.LoanID,
		BookISBN:  command.BookISBN,
		BookTitle: command.BookTitle,
		ReaderID:  command.ReaderID,
		IssuedAt:  command.OccurredAt,
		IssuedBy:  command.IssuedBy,
	}

	book.SetAvailable(false)

	s.mu.Lock()
	s.loans = append(s.loans, loan)
	s.mu.Unlock()

	shell.FinishCommand(ctx, s.logger, s.metricsCollector, command.CommandType(), startTime,
		shell.ClassifyBusinessOutcome(result), shell.NewSuccessResult(retryMetrics), nil)

	return loan, nil
}

func (s *Service) takeBack(ctx context.Context, book *core.Book, reader core.Reader, receivedBy core.UserIDString) (Receipt, error) {
	if book == nil {
		return Receipt{}, ErrNilBook
	}

	startTime := time.Now()
	shell.LogCommandStart(ctx, s.logger, ReturnBookCommandType)

	book.Lock()
	defer book.Unlock()

	command := BuildReturnBook(book, reader, receivedBy, s.clock())
	filter := BuildEventFilter(command.BookISBN, command.ReaderID, command.ReceivedBy)
	isHeld := s.holdings.Contains(book)

	var result core.DecisionResult
	retryMetrics, err := s.journal.Retry(ctx, command.CommandType(), func(ctx context.Context) error {
		history, maxSequenceNumber, loadErr := s.journal.Load(ctx, filter)
		if loadErr != nil {
			return loadErr
		}

		result = DecideReturn(history, command)
		if result.HasEventToAppend() && result.HasError() == nil && !isHeld {
			result = returnFailed(command, core.ErrBookNotInCatalog)
		}

		if !result.HasEventToAppend() {
			return nil
		}

		if result.HasError() != nil {
			return s.ledger.RecordFailure(ctx, filter, maxSequenceNumber, result.Event)
		}

		returned, ok := result.Event.(core.BookReturnedByReader)
		if !ok {
			return ErrUnexpectedEvent
		}

		return s.ledger.ReturnBook(ctx, filter, maxSequenceNumber, returned)
	})

	if err == nil {
		err = result.HasError()
	}

	if err != nil {
		shell.FinishCommand(ctx, s.logger, s.metricsCollector, command.CommandType(), startTime,
			shell.StatusError, shell.NewErrorResult(retryMetrics), err)

		return Receipt{}, err
	}

	if result.IsIdempotent() {
		shell.FinishCommand(ctx, s.logger, s.metricsCollector, command.CommandType(), startTime,
			shell.StatusIdempotent, shell.NewIdempotentResult(retryMetrics), nil)

		return Receipt{Loan: s.lastClosedLoan(command.BookISBN, command.ReaderID), Idempotent: true}, nil
	}

	returned := result.Event.(core.BookReturnedByReader) //nolint:forcetypeassert // checked inside the retry loop

	book.SetAvailable(true)
	loan := s.closeLoan(returned)

	shell.FinishCommand(ctx, s.logger, s.metricsCollector, command.CommandType(), startTime,
		shell.ClassifyBusinessOutcome(result), shell.NewSuccessResult(retryMetrics), nil)

	return Receipt{Loan: loan}, nil
}

// closeLoan closes the loan the return event refers to. A loan that was opened by another Service on the
// same journal is added closed, so Loans always reflects the returns of this Service.
func (s *Service) closeLoan(returned core.BookReturnedByReader) core.Loan {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := slices.IndexFunc(s.loans, func(l core.Loan) bool { return l.ID == returned.LoanID })
	if idx < 0 {
		loan := core.Loan{
			ID:        returned.LoanID,
			BookISBN:  returned.BookISBN,
			BookTitle: returned.BookTitle,
			ReaderID:  returned.ReaderID,
		}.Closed(returned.OccurredAt)
		s.loans = append(s.loans, loan)

		return loan
	}

	s.loans[idx] = s.loans[idx].Closed(returned.OccurredAt)

	return s.loans[idx]
}

func (s *Service) lastClosedLoan(isbn core.ISBNString, readerID core.UserIDString) core.Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.loans) - 1; i >= 0; i-- {
		if l := s.loans[i]; l.BookISBN == isbn && l.ReaderID == readerID && !l.IsOpen() {
			return l
		}
	}

	return core.Loan{}
}
