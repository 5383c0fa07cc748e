package filing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/docket/internal/lines"
	"github.com/Veraticus/docket/internal/model"
)

func TestConditions(t *testing.T) {
	seq := lines.Sequence{"EXTRACTO FISCAL DB", "Titular\naro\nRut", "OFICINA 0001"}

	tests := []struct {
		cond Condition
		name string
		want bool
	}{
		{name: "literal present", cond: Literal("FISCAL DB"), want: true},
		{name: "literal spanning rows", cond: Literal("aro\nRut"), want: true},
		{name: "literal absent", cond: Literal("EXTRACTE FISCAL"), want: false},
		{name: "all parts in one line", cond: AllOf{"Titular", "Rut"}, want: true},
		{name: "parts split across lines", cond: AllOf{"FISCAL", "Rut"}, want: false},
		{name: "empty conjunction", cond: AllOf{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Holds(seq))
		})
	}
}

func TestRule_Applies(t *testing.T) {
	seq := lines.Sequence{"RECLAMACIÓN ACUSE DE RECIBO CONTRATO", "CONTRATO FONDOS"}

	assert.True(t, Rule{Required: All("RECLAMACIÓN ACUSE DE RECIBO CONTRATO", "CONTRATO FONDOS")}.Applies(seq))
	assert.False(t, Rule{Required: All("RECLAMACIÓN ACUSE DE RECIBO CONTRATO", "SUSCRIPCION")}.Applies(seq))
	assert.False(t, Rule{}.Applies(seq), "a rule without conditions never applies")
}

func TestRules_FirstIsOrderDependent(t *testing.T) {
	generic := Rule{Classification: model.DocFiscal, Entity: "extracto", Required: All("EXTRACTO FISCAL DB")}
	specific := Rule{Classification: model.DocFiscal, Entity: "extracto", ExtraInfo: "1", Required: All("EXTRACTO FISCAL DB", "aro\nRut")}
	seq := lines.Sequence{"EXTRACTO FISCAL DB", "aro\nRut"}

	got, ok := Rules{specific, generic}.First(seq)
	assert.True(t, ok)
	assert.Equal(t, "1", got.ExtraInfo)

	got, ok = Rules{generic, specific}.First(seq)
	assert.True(t, ok)
	assert.Empty(t, got.ExtraInfo)

	_, ok = Rules{specific}.First(lines.Sequence{"nothing"})
	assert.False(t, ok)
}

func TestRules_Shadowed(t *testing.T) {
	rules := Rules{
		{Required: All("A")},
		{Required: All("A", "B")},
		{Required: All("C")},
		{Required: []Condition{AllOf{"C", "D"}}},
	}
	assert.Equal(t, [][2]int{{0, 1}}, rules.Shadowed())
}

func TestRule_String(t *testing.T) {
	r := Rule{Classification: model.DocNote, Entity: "cambio", Required: []Condition{Literal("x"), AllOf{"a", "b"}}}
	assert.Equal(t, `nota "cambio" "" <- "x" & all("a", "b")`, r.String())
}
