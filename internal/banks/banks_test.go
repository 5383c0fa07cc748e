package banks

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/docket/internal/dates"
	"github.com/Veraticus/docket/internal/filing"
	"github.com/Veraticus/docket/internal/lines"
	"github.com/Veraticus/docket/internal/model"
)

const dbNeedle = "Servei Deutsche Bank Online"

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestDefault_Order(t *testing.T) {
	var got []model.Bank
	for _, c := range Default() {
		got = append(got, c.Bank())
	}
	assert.Equal(t, []model.Bank{
		model.BankDeutsche,
		model.BankSantanderUK,
		model.BankCitibankUK,
		model.BankFirstDirect,
	}, got)

	c, ok := Default().Lookup(model.BankCitibankUK)
	require.True(t, ok)
	assert.Equal(t, model.BankCitibankUK, c.Bank())
	_, ok = Default().Lookup(model.BankMonzo)
	assert.False(t, ok)
}

func TestGate(t *testing.T) {
	g := NewGate("Summary of your Citi Relationship", "OFICINA\nBARNA")

	assert.True(t, g.Open(lines.Sequence{"x", "Summary of your Citi Relationship 2018"}))
	assert.True(t, g.Open(lines.Sequence{"OFICINA\nBARNA\n0001"}))
	assert.False(t, g.Open(lines.Sequence{"Summary of your", "Citi Relationship"}), "needles never span two lines")
	assert.False(t, g.Open(nil))
	assert.False(t, NewGate().Open(lines.Sequence{"anything"}))

	assert.Equal(t, []string{"Summary of your Citi Relationship", "OFICINA\nBARNA"},
		g.Matches(lines.Sequence{"OFICINA\nBARNA", "Summary of your Citi Relationship"}))
}

func TestGate_Concurrent(t *testing.T) {
	g := NewGate(deutscheNeedles()...)
	seq := lines.Sequence{"header", "Deutsche Bank, S.A. Española"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.True(t, g.Open(seq))
			}
		}()
	}
	wg.Wait()
}

// Every rule of every table must be reachable: a document carrying just its
// literals is classified by that rule.
func TestRules_Tables(t *testing.T) {
	banks := []struct {
		issuer   *Issuer
		needle   string
		dateLine string
		want     time.Time
	}{
		{issuer: NewDeutsche(), needle: dbNeedle, dateLine: "FECHA\n15.01.2020", want: day(2020, time.January, 15)},
		{issuer: NewSantanderUK(), needle: "Santander, Cust Opers, PO Box 1109, Bradford, BD1 5XS", dateLine: "5th Mar 2018 to 4th Apr 2018", want: day(2018, time.April, 4)},
		{issuer: NewCitibankUK(), needle: "Summary of your Citi Relationship", dateLine: "5 Mar 2018 - 24 Apr 2018", want: day(2018, time.April, 24)},
		{issuer: NewFirstDirect(), needle: "firstdirect.com", dateLine: "6 April 2018 to 5 April 2019", want: day(2019, time.April, 5)},
	}

	for _, b := range banks {
		t.Run(string(b.issuer.Bank()), func(t *testing.T) {
			assert.Empty(t, b.issuer.Rules().Shadowed())
			for _, rule := range b.issuer.Rules() {
				var seq lines.Sequence
				for _, c := range rule.Required {
					seq = append(seq, string(c.(filing.Literal)))
				}
				seq = append(seq, b.needle, b.dateLine)

				require.True(t, b.issuer.Gate(seq))
				md, err := b.issuer.Classify(seq)
				require.NoError(t, err, rule.String())
				assert.Equal(t, b.issuer.Bank(), md.Bank)
				assert.Equal(t, rule.Classification, md.Classification, rule.String())
				assert.Equal(t, rule.Entity, md.Entity, rule.String())
				assert.Equal(t, rule.ExtraInfo, md.ExtraInfo, rule.String())
				assert.Equal(t, b.want, md.PeriodStart, rule.String())
				assert.Nil(t, md.PeriodEnd)
			}
		})
	}
}

func TestDeutsche_TableSizes(t *testing.T) {
	db := NewDeutsche()
	assert.Len(t, db.Rules(), 40)
	assert.Len(t, db.Needles(), 13)
	assert.Equal(t, []string{"debit", "perfil", "renovacio", "abono", "recibo"}, db.SpecialCases())
}

func debitNotice(emisor, date string) lines.Sequence {
	return lines.Sequence{
		"ADEUDO POR DOMICILIACIÓN SEPA\nREF. 0001",
		emisor + "\nAJUNTAMENT DE BARCELONA",
		"TITULAR DOMICILIACIÓN\nJOHN DOE",
		"CONCEPTO DE PAGO\nIBI 2019",
		"CUENTA CLIENTE (IBAN)\nES00 0019 0000",
		"IDENTIFICACIÓN EMISOR\nES12000P0801900",
		"FECHA\n" + date,
		"Deutsche Bank, Sociedad Anónima",
	}
}

func TestDeutsche_SpecialCases(t *testing.T) {
	end := func(d time.Time) *time.Time { return &d }

	tests := []struct {
		want model.DocumentMetadata
		name string
		seq  lines.Sequence
	}{
		{
			name: "direct debit",
			seq:  debitNotice("EMISOR - ORDENANTE", "01.03.2019"),
			want: model.DocumentMetadata{
				PeriodStart:    day(2019, time.March, 1),
				PeriodEnd:      end(day(2019, time.March, 1)),
				Bank:           model.BankDeutsche,
				Classification: model.DocDebit,
				Entity:         "AJUNTAMENT DE BARCELONA",
				ExtraInfo:      "IBI 2019",
			},
		},
		{
			name: "direct debit with typeset dash",
			seq:  debitNotice("EMISOR −ORDENANTE", "28.02.2020"),
			want: model.DocumentMetadata{
				PeriodStart:    day(2020, time.February, 28),
				PeriodEnd:      end(day(2020, time.February, 28)),
				Bank:           model.BankDeutsche,
				Classification: model.DocDebit,
				Entity:         "AJUNTAMENT DE BARCELONA",
				ExtraInfo:      "IBI 2019",
			},
		},
		{
			name: "investor profile",
			seq:  lines.Sequence{dbNeedle, "DWS AHORRO F.I.", "PERFIL DE RISC\n3"},
			want: model.DocumentMetadata{
				PeriodStart:    day(1900, time.January, 1),
				PeriodEnd:      end(day(1900, time.January, 1)),
				Bank:           model.BankDeutsche,
				Classification: model.DocFund,
				Entity:         "perfil",
				ExtraInfo:      "detail",
			},
		},
		{
			name: "mortgage renewal detail",
			seq: lines.Sequence{
				dbNeedle,
				"CAPITAL PENDENT\nPER CÀLCUL\nD'INTERESSOS",
				"DATA \nVENCIMENT\nAMORTITZACIÓ\n15/06/2018\n15/12/2018",
			},
			want: model.DocumentMetadata{
				PeriodStart:    day(2018, time.June, 15),
				PeriodEnd:      end(day(2018, time.June, 15)),
				Bank:           model.BankDeutsche,
				Classification: model.DocMortgage,
				Entity:         "renovacio",
				ExtraInfo:      "detail",
			},
		},
		{
			name: "incoming transfer",
			seq: lines.Sequence{
				dbNeedle,
				"ABONO TRANSFERENCIA SEPA",
				"ORDENANTE\nNOMBRE:\nDOMICILIO:\n",
				"  JANE ROE \nCALLE MAYOR 1",
				"FECHA\n10.04.2019",
			},
			want: model.DocumentMetadata{
				PeriodStart:    day(2019, time.April, 10),
				Bank:           model.BankDeutsche,
				Classification: model.DocTransfer,
				Entity:         "alquiler_ciencies",
				ExtraInfo:      "JANE ROE",
			},
		},
		{
			name: "online receipt",
			seq: lines.Sequence{
				"RECIBO\nNº 1",
				"Tipo de recibo\nImporte\nFecha de cargo\nEstado",
				"Titular de la domiciliación\nEmisor\nCuenta de cargo",
				"JOHN DOE\nSPORT I RELAX S.L.\nES00 0019",
				"Concepto",
				"CUOTA MENSUAL",
				"Fecha:",
				"05/02/2020",
				dbNeedle,
			},
			want: model.DocumentMetadata{
				PeriodStart:    day(2020, time.February, 5),
				Bank:           model.BankDeutsche,
				Classification: model.DocDebit,
				Entity:         "SPORT I RELAX S.L.",
				ExtraInfo:      "CUOTA MENSUAL",
			},
		},
	}

	db := NewDeutsche()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, db.Gate(tt.seq))
			got, err := db.Classify(tt.seq)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeutsche_Failures(t *testing.T) {
	withoutConcept := debitNotice("EMISOR - ORDENANTE", "01.03.2019")
	withoutConcept = append(withoutConcept[:3:3], withoutConcept[4:]...)

	tests := []struct {
		wantErr error
		name    string
		anchor  string
		seq     lines.Sequence
	}{
		{
			name:    "unknown template",
			seq:     lines.Sequence{dbNeedle, "Carta informativa"},
			wantErr: ErrUnrecognizedTemplate,
		},
		{
			name:    "rule without date",
			seq:     lines.Sequence{dbNeedle, "EXTRACTE INTEGRAT DB"},
			wantErr: ErrMissingDate,
		},
		{
			name:    "rule with impossible date",
			seq:     lines.Sequence{dbNeedle, "EXTRACTE INTEGRAT DB", "DATA \n31.04.2018"},
			wantErr: dates.ErrInvalidDate,
		},
		{
			name:    "debit missing concept",
			seq:     withoutConcept,
			wantErr: ErrMissingAnchor,
			anchor:  "CONCEPTO DE PAGO",
		},
		{
			name:    "debit with impossible date",
			seq:     debitNotice("EMISOR - ORDENANTE", "30.02.2019"),
			wantErr: dates.ErrInvalidDate,
		},
		{
			name:    "transfer without originator",
			seq:     lines.Sequence{dbNeedle, "ABONO TRANSFERENCIA SEPA", "FECHA\n10.04.2019"},
			wantErr: ErrMissingAnchor,
			anchor:  "ORDENANTE\nNOMBRE:\nDOMICILIO:\n",
		},
		{
			name: "receipt with short party block",
			seq: lines.Sequence{
				dbNeedle,
				"RECIBO\nNº 1",
				"Tipo de recibo\nImporte\nFecha de cargo\nEstado",
				"Titular de la domiciliación\nEmisor\nCuenta de cargo",
				"JOHN DOE\nSPORT I RELAX S.L.",
			},
			wantErr: ErrMissingAnchor,
		},
		{
			name:    "renewal without maturity header",
			seq:     lines.Sequence{dbNeedle, "CAPITAL PENDENT\nPER CÀLCUL\nD'INTERESSOS"},
			wantErr: ErrMissingAnchor,
			anchor:  "DATA \nVENCIMENT\nAMORTITZACIÓ\n",
		},
	}

	db := NewDeutsche()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Classify(tt.seq)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), string(model.BankDeutsche))

			if tt.anchor != "" {
				var anchorErr *AnchorError
				require.True(t, errors.As(err, &anchorErr))
				assert.Equal(t, tt.anchor, anchorErr.Anchor)
			}
		})
	}
}

func TestUK_DateLayouts(t *testing.T) {
	tests := []struct {
		want   time.Time
		issuer *Issuer
		name   string
		seq    lines.Sequence
	}{
		{
			name:   "santander ordinal range",
			issuer: NewSantanderUK(),
			seq:    lines.Sequence{"BX0098", "Your account summary", "123 Current Account", "29th Oct 2013 to 2nd May 2014"},
			want:   day(2014, time.May, 2),
		},
		{
			name:   "santander glued range",
			issuer: NewSantanderUK(),
			seq:    lines.Sequence{"BX0098", "Your account summary", "123 Current Account", "5th Mar 2018to 4th Apr 2018"},
			want:   day(2018, time.April, 4),
		},
		{
			name:   "santander numeric range",
			issuer: NewSantanderUK(),
			seq:    lines.Sequence{"BX0084", "Individual Savings", "Period\nFrom 01/07/2018 to 30/06/2019\nInterest"},
			want:   day(2019, time.June, 30),
		},
		{
			name:   "santander long month range",
			issuer: NewSantanderUK(),
			seq:    lines.Sequence{"BX0179", "Statement of Fees", "Fees for 6 April 2018 - 5 April 2019"},
			want:   day(2019, time.April, 5),
		},
		{
			name:   "santander date label",
			issuer: NewSantanderUK(),
			seq: lines.Sequence{
				"Telegraphic Transfer Issued",
				"Please be advised that the following telegraphic transfer has been debited",
				"CURRENCY\nEUR",
				"Date:\n 11-02-2014",
				"Santander, Cust Opers, PO Box 1109, Bradford, BD1 5XS",
			},
			want: day(2014, time.February, 11),
		},
		{
			name:   "citibank numeric range",
			issuer: NewCitibankUK(),
			seq:    lines.Sequence{"SUMMARY OF YOUR CITIBANK ACCOUNT", "Statement\n01/07/2018 - 30/06/2019\n"},
			want:   day(2019, time.June, 30),
		},
		{
			name:   "first direct range without start year",
			issuer: NewFirstDirect(),
			seq:    lines.Sequence{"firstdirect.com", "AccountSummary", "Your 1st Account details", "From 6 Apr to 5 Oct 2019"},
			want:   day(2019, time.October, 5),
		},
		{
			name:   "first direct between",
			issuer: NewFirstDirect(),
			seq:    lines.Sequence{"is a division of HSBC UK Bank plc", "Detailed statement of fees paid on the account", "Between 6 April 2018 and 5 April 2019"},
			want:   day(2019, time.April, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.issuer.Gate(tt.seq))
			md, err := tt.issuer.Classify(tt.seq)
			require.NoError(t, err)
			assert.Equal(t, tt.want, md.PeriodStart)
		})
	}
}

func TestUK_Unrecognized(t *testing.T) {
	for _, issuer := range []*Issuer{NewSantanderUK(), NewCitibankUK(), NewFirstDirect()} {
		seq := lines.Sequence(issuer.Needles()[:1])
		seq = append(seq, "Unrelated letter")
		require.True(t, issuer.Gate(seq))

		_, err := issuer.Classify(seq)
		assert.ErrorIs(t, err, ErrUnrecognizedTemplate, string(issuer.Bank()))
	}
}
