package banks

import (
	"regexp"

	"github.com/Veraticus/docket/internal/dates"
	"github.com/Veraticus/docket/internal/filing"
	"github.com/Veraticus/docket/internal/model"
)

// Month alternations used by the British statement ranges.
const (
	shortMonths = `(?:Jan|Feb|Mar|May|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`
	longMonths  = `(?:January|February|March|May|April|June|July|August|September|October|November|December)`
	dayOrdinal  = `[0-9thndst]+`
)

// NewSantanderUK returns the classifier for Santander UK documents.
func NewSantanderUK() *Issuer {
	return &Issuer{
		bank: model.BankSantanderUK,
		gate: NewGate(
			"BX0084",
			"BX0179",
			"BX0098",
			"BX0158",
			"Santander, Cust Opers, PO Box 1109, Bradford, BD1 5XS",
		),
		grammar: dates.Grammar{
			// 5th Mar 2018 to 4th Apr 2018
			dates.Range(`(?s)^.*` + dayOrdinal + ` ` + shortMonths + ` \d{4} to (?P<date>` + dayOrdinal + ` ` + shortMonths + ` \d{4}).*`),
			// 5th Mar 2018to 4th Apr 2018
			dates.Range(`(?s)^.*` + shortMonths + ` \d{4}to (?P<date>.* ` + shortMonths + ` \d{4}).*`),
			// From 01/07/2018 to 30/06/2019
			dates.Range(`(?s)^.*From \d{2}/\d{2}/\d{4} to (?P<date>\d{2}/\d{2}/\d{4}).*`),
			// 6 April 2018 to 5 April 2019, 6 April 2018 - 5 April 2019
			dates.Range(`(?s)^.*` + longMonths + ` \d{4} (?:to|-) (?P<date>.* ` + longMonths + ` \d{4}).*`),
			dates.Regexp{
				Label:   "date label",
				Pattern: regexp.MustCompile(`^Date:\n (?P<date>\d{2}-\d{2}-\d{4})`),
				Parse:   dates.ParseGB,
			},
		},
		rules: filing.Rules{
			{
				Classification: model.DocStatement,
				Entity:         "cash isa",
				ExtraInfo:      "summary",
				Required: filing.All(
					"BX0084",
					"Individual Savings",
				),
			},
			{
				Classification: model.DocNote,
				Entity:         "comisiones",
				ExtraInfo:      "summary",
				Required: filing.All(
					"BX0179",
					"Statement of Fees",
				),
			},
			{
				Classification: model.DocStatement,
				Entity:         "current",
				Required: filing.All(
					"BX0098",
					"Your account summary",
					"Current Account earnings",
				),
			},
			{
				Classification: model.DocStatement,
				Entity:         "esaver",
				Required: filing.All(
					"BX0098",
					"Your account summary",
					"Your current eSaver (Issue 11)",
				),
			},
			{
				Classification: model.DocStatement,
				Entity:         "current",
				Required: filing.All(
					"BX0098",
					"Your account summary",
					"123 Current Account",
				),
			},
			{
				Classification: model.DocTransfer,
				Entity:         "outgoing",
				ExtraInfo:      "europe",
				Required: filing.All(
					"Telegraphic Transfer Issued",
					"Please be advised that the following telegraphic transfer has been debited",
					"CURRENCY\nEUR",
				),
			},
			{
				Classification: model.DocFiscal,
				Entity:         "cuentas",
				ExtraInfo:      "summary",
				Required: filing.All(
					"BX0158",
					"Your Account Summary",
					"If you need to complete a",
					"tax return",
					"it contains the information you need",
				),
			},
		},
	}
}

// NewCitibankUK returns the classifier for Citibank UK documents.
func NewCitibankUK() *Issuer {
	return &Issuer{
		bank: model.BankCitibankUK,
		gate: NewGate(
			"Summary of your Citi Relationship",
			"SUMMARY OF YOUR CITIBANK ACCOUNT",
		),
		grammar: dates.Grammar{
			// 01/07/2018 - 30/06/2019
			dates.Range(`(?s)^.*\d{2}/\d{2}/\d{4} - (?P<date>\d{2}/\d{2}/\d{4}).*`),
			// 5 Mar 2018 - 24 Apr 2018
			dates.Range(`(?s)^.*` + dayOrdinal + ` ` + shortMonths + ` \d{4} - (?P<date>` + dayOrdinal + ` ` + shortMonths + ` \d{4}).*`),
		},
		rules: filing.Rules{
			{
				Classification: model.DocStatement,
				Entity:         "current",
				ExtraInfo:      "summary",
				Required:       filing.All("Relationship report for"),
			},
			{
				Classification: model.DocStatement,
				Entity:         "current",
				ExtraInfo:      "summary",
				Required:       filing.All("SUMMARY OF YOUR CITIBANK ACCOUNT"),
			},
		},
	}
}

// NewFirstDirect returns the classifier for first direct documents.
func NewFirstDirect() *Issuer {
	return &Issuer{
		bank: model.BankFirstDirect,
		gate: NewGate(
			"firstdirect.com",
			"is a division of HSBC UK Bank plc",
		),
		grammar: dates.Grammar{
			// From 6 Apr to 5 Oct 2019
			dates.Range(`(?s)^.*[F|f]rom ` + dayOrdinal + ` ` + shortMonths + ` (?:to|-) (?P<date>` + dayOrdinal + ` ` + shortMonths + ` \d{4}).*`),
			// 6 April to 5 April 2019, 6 April - 5 April 2019
			dates.Range(`(?s)^.*` + dayOrdinal + ` ` + longMonths + ` (?:to|-) (?P<date>` + dayOrdinal + ` ` + longMonths + ` \d{4}).*`),
			// 6 April 2018 and 5 April 2019, 6 April 2018 to 5 April 2019
			dates.Range(`(?s)^.*` + dayOrdinal + ` ` + longMonths + ` \d{4} (?:and|to) (?P<date>` + dayOrdinal + ` ` + longMonths + ` \d{4}).*`),
		},
		rules: filing.Rules{
			{
				Classification: model.DocStatement,
				Entity:         "current",
				Required: filing.All(
					"AccountSummary",
					"Your 1st Account details",
				),
			},
			{
				Classification: model.DocStatement,
				Entity:         "bonus",
				Required: filing.All(
					"AccountSummary",
					"Your Bonus Savings A/C details",
				),
			},
			{
				Classification: model.DocStatement,
				Entity:         "regular-saver",
				Required: filing.All(
					"AccountSummary",
					"Your Regular Saver details",
				),
			},
			{
				Classification: model.DocStatement,
				Entity:         "savings",
				Required: filing.All(
					"AccountSummary",
					"Your Savings Account details",
				),
			},
			{
				Classification: model.DocNote,
				Entity:         "comisiones",
				ExtraInfo:      "anual",
				Required: filing.All(
					"Additional Information\nBetween",
					"your average debit balance",
					"your average \ncredit balance",
				),
			},
			{
				Classification: model.DocNote,
				Entity:         "comisiones",
				ExtraInfo:      "anual",
				Required: filing.All(
					"What is this Annual Summary",
					"annual summary of your account charges",
				),
			},
			{
				Classification: model.DocNote,
				Entity:         "comisiones",
				ExtraInfo:      "anual",
				Required:       filing.All("Detailed statement of fees paid on the account"),
			},
		},
	}
}
