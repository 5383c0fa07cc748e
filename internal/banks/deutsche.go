package banks

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/docket/internal/dates"
	"github.com/Veraticus/docket/internal/filing"
	"github.com/Veraticus/docket/internal/lines"
	"github.com/Veraticus/docket/internal/model"
)

// NewDeutsche returns the classifier for Deutsche Bank España documents,
// written in Spanish or Catalan.
func NewDeutsche() *Issuer {
	is := &Issuer{
		bank:    model.BankDeutsche,
		gate:    NewGate(deutscheNeedles()...),
		rules:   deutscheRules(),
		grammar: deutscheGrammar(),
	}
	db := deutsche{is}
	is.special = []SpecialCase{
		{Name: "debit", Detect: db.isDebit, Extract: db.debit},
		{Name: "perfil", Detect: db.isPerfil, Extract: db.perfil},
		{Name: "renovacio", Detect: db.isRenovacio, Extract: db.renovacio},
		{Name: "abono", Detect: db.isAbono, Extract: db.abono},
		{Name: "recibo", Detect: db.isRecibo, Extract: db.recibo},
	}
	return is
}

func deutscheNeedles() []string {
	return []string{
		"DEUTSCHE BANK SOCIEDAD ANONIMA",
		"Deutsche Bank, Sociedad Anónima",
		"Servei Deutsche Bank Online",
		"Servicio Deutsche Bank Online",
		"Deutsche Bank Online: www.deutsche-bank.es",
		"Deutsche Bank, S.A. Española",
		"Deutsche Bank no será responsable",
		"DEUTSCHE ASSET MANAGEMENT",
		"A−80017403",
		"A−08000614",
		"BARNA-V.AUGUSTA",
		"BARNA−V.AUGUSTA",
		"OFICINA\nBARNA−V.AUGUSTA",
	}
}

func deutscheGrammar() dates.Grammar {
	langs := []dates.Language{dates.Catalan, dates.Spanish}
	return dates.Grammar{
		dates.Override{Prefix: "DATA\nF1./0./11/", Date: time.Date(2010, time.December, 13, 0, 0, 0, 0, time.UTC)},
		dates.BlockLabel{Labels: []string{"DATA", "FECHA"}},
		dates.PeriodPhrase{Prefix: "Període de ", Langs: langs},
		dates.AdjacentLabel{Labels: []string{"Fecha:"}},
		dates.Stacked{Connector: "de", Langs: langs},
		dates.StackedShort{Langs: langs},
		dates.MonthHeading{Langs: []dates.Language{dates.Spanish}},
		dates.Phrase{Connectors: []string{"de"}, Langs: []dates.Language{dates.Spanish, dates.Catalan}},
	}
}

func deutscheRules() filing.Rules {
	return filing.Rules{
		{
			Classification: model.DocNote,
			Entity:         "acuse recibo",
			ExtraInfo:      "suscripcion",
			Required: filing.All(
				"RECLAMACIÓN ACUSE DE RECIBO CONTRATO",
				"CONTRATO FONDOS",
			),
		},
		{
			Classification: model.DocNote,
			Entity:         "cambio",
			ExtraInfo:      "comisiones",
			Required: filing.All(
				"Li recordem que amb el Servei Credit Express db pot traspassar el saldo",
				"A partir del",
				"s’aplicarà una comissió del",
			),
		},
		{
			Classification: model.DocNote,
			Entity:         "cambio",
			ExtraInfo:      "proveedor seguro",
			Required: filing.All(
				"de mediació d’assegurances i reassegurances\nprivades",
				"Deutsche Bank, Broker Correduría",
			),
		},
		{
			Classification: model.DocInsurance,
			Entity:         "deutsche",
			ExtraInfo:      "seguro vida",
			Required: filing.All(
				"SISTEMA DE PREVISION db",
				"SEGURO DE VIDA db (CONDICIONES PARTICULARES",
			),
		},
		{
			Classification: model.DocNote,
			Entity:         "recaudacion ejecutiva",
			ExtraInfo:      "multa",
			Required: filing.All(
				"RECAUDACIÓN EJECUTIVA",
				"DEUDOR\n",
			),
		},
		{
			Classification: model.DocFiscal,
			Entity:         "cuenta",
			ExtraInfo:      "resum anual",
			Required:       filing.All("RESUMEN ANUAL CUENTA NOMINA DB"),
		},
		{
			Classification: model.DocFiscal,
			Entity:         "cuenta",
			ExtraInfo:      "resum anual",
			Required:       filing.All("RESUMEN ANUAL CUENTA NOMINA BANCA ASOCIADA DB"),
		},
		{
			Classification: model.DocNote,
			Entity:         "cambio",
			ExtraInfo:      "comisiones",
			Required: filing.All(
				"Estimada Sra.",
				"Nos ponemos en contacto con Usted para informarle de la siguiente modificación",
				"de la condición general 35",
			),
		},
		{
			Classification: model.DocNote,
			Entity:         "cambio",
			ExtraInfo:      "comisiones",
			Required: filing.All(
				"Ens adrecem a vostè per comunicar−li una modificació als seu/s contracte/s",
				"de targeta de crèdit",
			),
		},
		{
			Classification: model.DocNote,
			Entity:         "cambio",
			ExtraInfo:      "comisiones",
			Required: filing.All(
				"Ens adrecem a vostè per comunicar−li les modificacions que afecten el seu",
				"contracte de targeta de crèdit",
			),
		},
		{
			Classification: model.DocFund,
			Entity:         "resum anual",
			ExtraInfo:      "comisiones",
			Required:       filing.All("EXTRACTO ANUAL INTEGRADO DE COMISIONES Y GASTOS"),
		},
		{
			Classification: model.DocFiscal,
			Entity:         "hipoteca",
			ExtraInfo:      "resum anual",
			Required:       filing.All("RESUM ANUAL PRÉSTEC HIPOTECARI"),
		},
		{
			Classification: model.DocStatement,
			Entity:         "liquidacio",
			ExtraInfo:      "interes",
			Required:       filing.All("LIQUIDACIÓN INTERESES CUENTA A LA VISTA"),
		},
		{
			Classification: model.DocStatement,
			Entity:         "liquidacio",
			ExtraInfo:      "interes",
			Required:       filing.All("LIQUIDACIÓN INTERESES CUENTA NOMINA BANCA ASOCIADA DB"),
		},
		{
			Classification: model.DocFiscal,
			Entity:         "fons",
			ExtraInfo:      "resum anual detail",
			Required:       filing.All("DETALL DE REEMBORSAMENTS DE FONS D'INVERSIÓ"),
		},
		{
			Classification: model.DocFiscal,
			Entity:         "fons",
			ExtraInfo:      "resum anual detail",
			Required:       filing.All("DETALL DE REEMBORSAMENTS DE FONS D’INVERSIÓ"),
		},
		{
			Classification: model.DocFiscal,
			Entity:         "fons",
			ExtraInfo:      "resum anual",
			Required: filing.All(
				"RESUM ANUAL A EFECTES DEL PATRIMONI",
				"FONS D'INVERSIÓ",
			),
		},
		{
			Classification: model.DocFiscal,
			Entity:         "fons",
			ExtraInfo:      "resum anual",
			Required:       filing.All("RESUM ANUAL A EFECTES DEL PATRIMONI: FONS D’INVERSIÓ"),
		},
		{
			Classification: model.DocSummary,
			Entity:         "extracte",
			Required:       filing.All("EXTRACTE INTEGRAT DB"),
		},
		{
			Classification: model.DocNote,
			Entity:         "envio tarjeta",
			Required:       filing.All("AVÍS D´ENTREGA DE LA SEVA TARGETA"),
		},
		{
			Classification: model.DocNote,
			Entity:         "envio tarjeta",
			Required:       filing.All("AVÍS DE RECOLLIDA DE TARGETA"),
		},
		{
			Classification: model.DocFund,
			Entity:         "perfil",
			ExtraInfo:      "intro",
			Required:       filing.All("Re: INFORMACIÓ SOBRE ELS PERFILS DELS SEUS PRODUCTES"),
		},
		{
			Classification: model.DocFund,
			Entity:         "posicion",
			Required:       filing.All("ESTAT DE POSICIÓ DE FONS D' INVERSIÓ"),
		},
		{
			Classification: model.DocFund,
			Entity:         "posicion",
			Required:       filing.All("ESTAT DE POSICIÓ DE FONS D’ INVERSIÓ"),
		},
		{
			Classification: model.DocFund,
			Entity:         "posicion",
			Required:       filing.All("EXTRACTE DEL FONS D’INVERSIÓ"),
		},
		{
			Classification: model.DocFund,
			Entity:         "posicion",
			Required:       filing.All("ESTADO DE POSICIÓN DE FONDOS DE INVERSIÓN"),
		},
		{
			Classification: model.DocFund,
			Entity:         "suscripcion",
			Required:       filing.All("FONDOS DE INVERSION - SUSCRIPCION"),
		},
		{
			Classification: model.DocMovements,
			Entity:         "cuenta",
			Required:       filing.All("EXTRACTO CUENTA NOMINA BANCA ASOCIADA DB"),
		},
		{
			Classification: model.DocMovements,
			Entity:         "cuenta",
			Required:       filing.All("EXTRACTO DE CUENTA CORRIENTE DB"),
		},
		{
			Classification: model.DocMortgage,
			Entity:         "renovacio",
			ExtraInfo:      "summary",
			Required:       filing.All("RENOVACIÓ TIPUS D'INTERÈS DEL SEU PRÉSTEC NOMINAT EN EUR"),
		},
		{
			Classification: model.DocMortgage,
			Entity:         "renovacio",
			ExtraInfo:      "summary",
			Required:       filing.All("REF.:RENOVACIÓ TIPUS D’INTERÈS DEL SEU PRÉSTEC"),
		},
		{
			Classification: model.DocStatement,
			Entity:         "tarjeta",
			Required:       filing.All("EXTRACTE LIQUIDACIÓ COMPTE TARGETA DE CRÈDIT"),
		},
		{
			Classification: model.DocMortgage,
			Entity:         "pago",
			Required:       filing.All("CÀRREC REBUT PRÉSTEC HIPOTECARI"),
		},
		{
			Classification: model.DocFund,
			Entity:         "liquidacio",
			Required:       filing.All("LIQUIDACIÓ OPERACIONS DE"),
		},
		{
			Classification: model.DocInsurance,
			Entity:         "zurich",
			ExtraInfo:      "multiriesgo",
			Required:       filing.All("NOVES CONDICIONS DE LA CUENTA MULTIRIESGO db"),
		},
		{
			Classification: model.DocInsurance,
			Entity:         "deutsche",
			ExtraInfo:      "vida",
			Required: filing.All(
				"EXTRACTO DEL SISTEMA DE PREVISION",
				"PRODUCTE\nSEGURO DE VIDA",
			),
		},
		{
			Classification: model.DocFiscal,
			Entity:         "extracto",
			ExtraInfo:      "1",
			Required: filing.All(
				"EXTRACTO FISCAL DB",
				"aro\nRut",
			),
		},
		{
			Classification: model.DocFiscal,
			Entity:         "extracto",
			ExtraInfo:      "1",
			Required: filing.All(
				"EXTRACTE FISCAL DB",
				"aro\nRut",
			),
		},
		{
			Classification: model.DocFiscal,
			Entity:         "extracto",
			ExtraInfo:      "2",
			Required: filing.All(
				"EXTRACTO FISCAL DB",
				"az\nOscar",
			),
		},
		{
			Classification: model.DocFiscal,
			Entity:         "extracto",
			ExtraInfo:      "2",
			Required: filing.All(
				"EXTRACTE FISCAL DB",
				"az\nOscar",
			),
		},
	}
}

// deutsche holds the special-case extractors.
type deutsche struct {
	*Issuer
}

const (
	debitHeader    = "ADEUDO POR DOMICILIACIÓN SEPA"
	perfilFund     = "DWS AHORRO F.I."
	perfilRisk     = "PERFIL DE RISC"
	abonoHeader    = "ABONO TRANSFERENCIA SEPA"
	abonoParty     = "ORDENANTE\nNOMBRE:\nDOMICILIO:\n"
	reciboTable    = "Tipo de recibo\nImporte\nFecha de cargo\nEstado"
	reciboTitle    = "RECIBO\n"
	reciboParties  = "Titular de la domiciliación\nEmisor\nCuenta de cargo"
	reciboConcept  = "Concepto"
	renovacioTable = "CAPITAL PENDENT\nPER CÀLCUL\nD'INTERESSOS"
)

var (
	renovacioTableVariants = []string{renovacioTable, "CAPITAL PENDENT\nPER CÀLCUL\nD’INTERESSOS\n"}
	renovacioHeaders       = []string{"DATA \nVENCIMENT\nAMORTITZACIÓ\n", "DATA\nVENCIMENT\nAMORTITZACIÓ\n"}
	perfilDate             = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
)

func (d deutsche) isDebit(seq lines.Sequence) bool {
	return seq.StartsBlock(debitHeader)
}

// debit reads a SEPA direct debit notice, where every field is a
// "LABEL\nvalue" block.
func (d deutsche) debit(seq lines.Sequence) (model.DocumentMetadata, error) {
	fields := map[string]string{}
	for _, anchor := range [][]string{
		{"EMISOR - ORDENANTE", "EMISOR −ORDENANTE"},
		{"TITULAR DOMICILIACIÓN"},
		{"CONCEPTO DE PAGO"},
		{"CUENTA CLIENTE (IBAN)"},
		{"IDENTIFICACIÓN EMISOR"},
		{"FECHA"},
	} {
		value, ok := firstStartingWith(seq, anchor...)
		if !ok || strings.TrimSpace(value) == "" {
			return model.DocumentMetadata{}, &AnchorError{Case: "debit", Anchor: anchor[0]}
		}
		fields[anchor[0]] = value
	}

	date, err := parseLayout("debit", "02.01.2006", fields["FECHA"])
	if err != nil {
		return model.DocumentMetadata{}, err
	}
	return model.SinglePoint(date, d.bank, model.DocDebit, fields["EMISOR - ORDENANTE"], fields["CONCEPTO DE PAGO"]), nil
}

func (d deutsche) isPerfil(seq lines.Sequence) bool {
	if !seq.HasLine(perfilFund) {
		return false
	}
	_, ok := seq.FindStartingWith(perfilRisk)
	return ok
}

// perfil describes an investor profile letter. Its only printed date is a
// template placeholder, so a fixed date is used.
func (d deutsche) perfil(lines.Sequence) (model.DocumentMetadata, error) {
	return model.SinglePoint(perfilDate, d.bank, model.DocFund, "perfil", "detail"), nil
}

func (d deutsche) isRenovacio(seq lines.Sequence) bool {
	for _, v := range renovacioTableVariants {
		if seq.Has(v) {
			return true
		}
	}
	return false
}

// renovacio reads the mortgage renewal detail table. The date is the first
// value under the maturity column header.
func (d deutsche) renovacio(seq lines.Sequence) (model.DocumentMetadata, error) {
	for _, header := range renovacioHeaders {
		line, ok := seq.FindContaining(header)
		if !ok {
			continue
		}
		value := line[strings.Index(line, header)+len(header):]
		if len(value) > len("02/01/2006") {
			value = value[:len("02/01/2006")]
		}
		date, err := parseLayout("renovacio", "02/01/2006", value)
		if err != nil {
			return model.DocumentMetadata{}, err
		}
		return model.SinglePoint(date, d.bank, model.DocMortgage, "renovacio", "detail"), nil
	}
	return model.DocumentMetadata{}, &AnchorError{Case: "renovacio", Anchor: renovacioHeaders[0]}
}

func (d deutsche) isAbono(seq lines.Sequence) bool {
	return seq.Has(abonoHeader)
}

// abono reads an incoming SEPA transfer; the originator is the first row of
// the block following the originator header.
func (d deutsche) abono(seq lines.Sequence) (model.DocumentMetadata, error) {
	next, ok := seq.FindAfterContaining(abonoParty)
	party := ""
	if ok {
		party = strings.TrimSpace(lines.Rows(next)[0])
	}
	if party == "" {
		return model.DocumentMetadata{}, &AnchorError{Case: "abono", Anchor: abonoParty}
	}
	return d.dated(seq, model.DocTransfer, "alquiler_ciencies", party)
}

func (d deutsche) isRecibo(seq lines.Sequence) bool {
	return seq.Has(reciboTable) && seq.Has(reciboTitle)
}

// recibo reads an online receipt, where the holder, issuer and account
// values sit in the block after their stacked labels.
func (d deutsche) recibo(seq lines.Sequence) (model.DocumentMetadata, error) {
	parties, ok := seq.FindAfter(reciboParties)
	if !ok {
		return model.DocumentMetadata{}, &AnchorError{Case: "recibo", Anchor: reciboParties}
	}
	rows := lines.Rows(parties)
	if len(rows) != 3 {
		return model.DocumentMetadata{}, fmt.Errorf("recibo: expected holder, issuer and account under %q, got %d rows: %w",
			reciboParties, len(rows), ErrMissingAnchor)
	}
	titular, emisor := strings.TrimSpace(rows[0]), strings.TrimSpace(rows[1])
	if titular == "" || emisor == "" {
		return model.DocumentMetadata{}, &AnchorError{Case: "recibo", Anchor: reciboParties}
	}
	concept, ok := seq.FindAfter(reciboConcept)
	if !ok || strings.TrimSpace(concept) == "" {
		return model.DocumentMetadata{}, &AnchorError{Case: "recibo", Anchor: reciboConcept}
	}
	return d.dated(seq, model.DocDebit, emisor, concept)
}

// dated builds a single-date record using the bank grammar.
func (d deutsche) dated(seq lines.Sequence, class model.DocType, entity, extra string) (model.DocumentMetadata, error) {
	date, err := d.FindDate(seq)
	if err != nil {
		return model.DocumentMetadata{}, err
	}
	return model.DocumentMetadata{
		PeriodStart:    date,
		Bank:           d.bank,
		Classification: class,
		Entity:         entity,
		ExtraInfo:      extra,
	}, nil
}

func firstStartingWith(seq lines.Sequence, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		if v, ok := seq.FindStartingWith(p); ok {
			return v, true
		}
	}
	return "", false
}

func parseLayout(name, layout, value string) (time.Time, error) {
	t, err := time.Parse(layout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &dates.DateError{Strategy: name, Line: value, Err: fmt.Errorf("%w: %v", dates.ErrInvalidDate, err)}
	}
	date, err := dates.Validate(t.Year(), t.Month(), t.Day())
	if err != nil {
		return time.Time{}, &dates.DateError{Strategy: name, Line: value, Err: err}
	}
	return date, nil
}
