package domain

import (
	"time"
)

// DocumentType identifies the identity document shown by the client.
type DocumentType string

const (
	DocIDCard         DocumentType = "ID_CARD"
	DocDriversLicense DocumentType = "DRIVERS_LICENSE"
	DocPassport       DocumentType = "PASSPORT"
	DocOther          DocumentType = "OTHER"
)

// DocumentTypes lists the accepted document types in display order.
var DocumentTypes = []DocumentType{DocIDCard, DocDriversLicense, DocPassport, DocOther}

// RentalKind is the category of equipment being rented.
type RentalKind string

const (
	KindSUP      RentalKind = "SUP"
	KindKayak    RentalKind = "KAYAK"
	KindLounger  RentalKind = "LOUNGER"
	KindPhoneBag RentalKind = "PHONE_BAG"
	KindDryBag   RentalKind = "DRY_BAG"
)

// RentalKinds lists the rental kinds in display order.
var RentalKinds = []RentalKind{KindSUP, KindKayak, KindLounger, KindPhoneBag, KindDryBag}

// HasSlot reports whether rentals of this kind are bound to a physical slot.
func (k RentalKind) HasSlot() bool {
	return k == KindLounger || k == KindPhoneBag || k == KindDryBag
}

// PaymentMethod is how the rental was paid.
type PaymentMethod string

const (
	PayCard         PaymentMethod = "CARD"
	PayBankTransfer PaymentMethod = "BANK_TRANSFER"
)

// PaymentMethods lists the accepted payment methods in display order.
var PaymentMethods = []PaymentMethod{PayCard, PayBankTransfer}

// RentalRecord is a completed rental as persisted by the record store.
type RentalRecord struct {
	Date             string        `json:"date"`
	LastName         string        `json:"lastName"`
	FirstName        string        `json:"firstName"`
	IDDocumentType   DocumentType  `json:"idDocumentType"`
	IDDocumentNumber string        `json:"idDocumentNumber"`
	Phone            string        `json:"phone"`
	IsMember         bool          `json:"isMember"`
	RentalKind       RentalKind    `json:"rentalKind"`
	RentalVariant    string        `json:"rentalVariant"`
	SlotIdentifier   string        `json:"slotIdentifier,omitempty"`
	Duration         string        `json:"duration"`
	PaymentMethod    PaymentMethod `json:"paymentMethod"`
	Amount           Amount        `json:"amount"`
	ReceiptPhotoRef  string        `json:"receiptPhotoRef,omitempty"`
	Notes            string        `json:"notes,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// Identity returns the client identity fields of the record.
func (r RentalRecord) Identity() ClientIdentity {
	return ClientIdentity{
		LastName:         r.LastName,
		FirstName:        r.FirstName,
		IDDocumentType:   r.IDDocumentType,
		IDDocumentNumber: r.IDDocumentNumber,
		Phone:            r.Phone,
		IsMember:         r.IsMember,
	}
}

// ClientName is the grouping key used for clients: last name then first name.
func (r RentalRecord) ClientName() string {
	return r.LastName + " " + r.FirstName
}

// ClientIdentity holds the fields that describe who the client is.
// It is what the base client snapshot carries between rentals of one session.
type ClientIdentity struct {
	LastName         string       `json:"lastName"`
	FirstName        string       `json:"firstName"`
	IDDocumentType   DocumentType `json:"idDocumentType"`
	IDDocumentNumber string       `json:"idDocumentNumber"`
	Phone            string       `json:"phone"`
	IsMember         bool         `json:"isMember"`
}
