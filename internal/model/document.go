// Package model defines the core domain models used throughout the application.
package model

import "time"

// Bank identifies the issuer of a document.
type Bank string

// Known issuers.
const (
	BankUnknown     Bank = "UNKNOWN"
	BankDeutsche    Bank = "db"
	BankSantanderUK Bank = "santanderuk"
	BankCitibankUK  Bank = "citibankuk"
	BankFirstDirect Bank = "firstdirect"
	BankMonzo       Bank = "monzo"
	BankOpenbank    Bank = "openbank"
)

// DocType is the subject of a document once classified.
type DocType string

// Known document subjects.
const (
	DocUnknown    DocType = "UNKNOWN"
	DocStatement  DocType = "statement"
	DocReceipt    DocType = "recibo"
	DocInvestment DocType = "inversio"
	DocFund       DocType = "fons"
	DocDebit      DocType = "debit"
	DocSummary    DocType = "resumen"
	DocMovements  DocType = "extracto"
	DocMortgage   DocType = "hipoteca"
	DocTransfer   DocType = "transferencia"
	DocInsurance  DocType = "seguros"
	DocNote       DocType = "nota"
	DocFiscal     DocType = "fiscal"
)

// UnclassifiedDate is the placeholder date of every document no issuer
// recognised, so they all end up filed together for manual review.
var UnclassifiedDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// DocumentMetadata is the result of classifying one document.
type DocumentMetadata struct {
	PeriodStart    time.Time
	PeriodEnd      *time.Time
	Bank           Bank
	Classification DocType
	// Entity is the name of the party debited, originating, etc.
	Entity string
	// ExtraInfo holds policy ids, notes and anything else that belongs in the file name.
	ExtraInfo string
}

// Unclassified returns the sentinel metadata used when no issuer matched.
func Unclassified() DocumentMetadata {
	return DocumentMetadata{
		PeriodStart:    UnclassifiedDate,
		Bank:           BankUnknown,
		Classification: DocUnknown,
	}
}

// IsUnclassified reports whether m is the unclassified sentinel.
func (m DocumentMetadata) IsUnclassified() bool {
	return m.Bank == BankUnknown
}

// SinglePoint returns metadata whose period starts and ends on the same day.
func SinglePoint(date time.Time, bank Bank, class DocType, entity, extra string) DocumentMetadata {
	end := date
	return DocumentMetadata{
		PeriodStart:    date,
		PeriodEnd:      &end,
		Bank:           bank,
		Classification: class,
		Entity:         entity,
		ExtraInfo:      extra,
	}
}
