package model

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	bookModel "pubs-backend/internal/domains/book/model"
	"pubs-backend/internal/shared"
	"pubs-backend/internal/shared/entity"
	"pubs-backend/internal/shared/valueobject"
)

// ContractStatus is the author's contract lifecycle
type ContractStatus string

const (
	ContractStatusPending    ContractStatus = "pending"
	ContractStatusActive     ContractStatus = "active"
	ContractStatusSuspended  ContractStatus = "suspended"
	ContractStatusTerminated ContractStatus = "terminated"
)

func (cs ContractStatus) IsValid() bool {
	switch cs {
	case ContractStatusPending, ContractStatusActive, ContractStatusSuspended, ContractStatusTerminated:
		return true
	}
	return false
}

func (cs ContractStatus) String() string {
	return string(cs)
}

// =====================================================
// AGGREGATE: Author
// =====================================================
type Author struct {
	entity.Base

	firstName      string
	lastName       string
	email          string
	phone          *string
	address        *valueobject.Address
	biography      *string
	contractStatus ContractStatus

	bookAuthors []*bookModel.BookAuthor
}

// NewAuthor creates an author with a pending contract.
func NewAuthor(firstName, lastName, email string, phone *string) (*Author, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, shared.NewInvalidArgument("firstName", "first name cannot be empty")
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, shared.NewInvalidArgument("lastName", "last name cannot be empty")
	}
	if strings.TrimSpace(email) == "" {
		return nil, shared.NewInvalidArgument("email", "email cannot be empty")
	}

	return &Author{
		Base:           entity.NewBase(),
		firstName:      firstName,
		lastName:       lastName,
		email:          email,
		phone:          phone,
		contractStatus: ContractStatusPending,
	}, nil
}

func (a *Author) FirstName() string                    { return a.firstName }
func (a *Author) LastName() string                     { return a.lastName }
func (a *Author) Email() string                        { return a.email }
func (a *Author) Phone() *string                       { return a.phone }
func (a *Author) Address() *valueobject.Address        { return a.address }
func (a *Author) Biography() *string                   { return a.biography }
func (a *Author) ContractStatus() ContractStatus       { return a.contractStatus }
func (a *Author) BookAuthors() []*bookModel.BookAuthor { return append([]*bookModel.BookAuthor(nil), a.bookAuthors...) }

// FullName is derived, never stored.
func (a *Author) FullName() string {
	return a.firstName + " " + a.lastName
}

func (a *Author) UpdateContactInfo(email string, phone *string) error {
	if strings.TrimSpace(email) == "" {
		return shared.NewInvalidArgument("email", "email cannot be empty")
	}

	a.email = email
	a.phone = phone
	a.Touch()
	return nil
}

// UpdateAddress replaces the whole address value.
func (a *Author) UpdateAddress(address *valueobject.Address) error {
	if address == nil {
		return shared.NewInvalidArgument("address", "address is required")
	}

	addr := *address
	a.address = &addr
	a.Touch()
	return nil
}

func (a *Author) UpdateBiography(biography string) {
	a.biography = &biography
	a.Touch()
}

func (a *Author) UpdateContractStatus(status ContractStatus) error {
	if !status.IsValid() {
		return shared.NewInvalidArgument("contractStatus", "unknown contract status "+string(status))
	}

	a.contractStatus = status
	a.Touch()
	return nil
}

// AddBook links a book to this author. Same link shape as Book.AddAuthor.
func (a *Author) AddBook(book entity.Identifiable, authorOrder int, royaltyPercentage decimal.Decimal) (*bookModel.BookAuthor, error) {
	if entity.IsNil(book) {
		return nil, shared.NewInvalidArgument("book", "book is required")
	}
	if a.hasBook(book.ID()) {
		return nil, shared.NewInvalidArgument("book", "book already linked to this author")
	}

	link, err := bookModel.NewBookAuthor(book.ID(), a.ID(), authorOrder, royaltyPercentage)
	if err != nil {
		return nil, err
	}

	a.bookAuthors = append(a.bookAuthors, link)
	a.Touch()
	return link, nil
}

func (a *Author) hasBook(bookID uuid.UUID) bool {
	for _, link := range a.bookAuthors {
		if link.BookID() == bookID {
			return true
		}
	}
	return false
}

// =====================================================
// SNAPSHOT (persistence shape)
// =====================================================

type AuthorSnapshot struct {
	Base           entity.Snapshot
	FirstName      string
	LastName       string
	Email          string
	Phone          *string
	Address        *valueobject.Address
	Biography      *string
	ContractStatus ContractStatus
}

func (a *Author) Snapshot() AuthorSnapshot {
	return AuthorSnapshot{
		Base:           a.Base.Snapshot(),
		FirstName:      a.firstName,
		LastName:       a.lastName,
		Email:          a.email,
		Phone:          a.phone,
		Address:        a.address,
		Biography:      a.biography,
		ContractStatus: a.contractStatus,
	}
}

// RestoreAuthor rebuilds an Author loaded by a repository.
func RestoreAuthor(s AuthorSnapshot, books []*bookModel.BookAuthor) *Author {
	return &Author{
		Base:           entity.Restore(s.Base),
		firstName:      s.FirstName,
		lastName:       s.LastName,
		email:          s.Email,
		phone:          s.Phone,
		address:        s.Address,
		biography:      s.Biography,
		contractStatus: s.ContractStatus,
		bookAuthors:    books,
	}
}
