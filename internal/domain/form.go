package domain

import (
	"strings"
	"time"
)

// FieldKind controls how a field is edited and how its value is normalised.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldYesNo
	FieldDate
)

const (
	Yes = "Sim"
	No  = "Não"

	// DateLayout is the dd/mm/yyyy format used for the collection date.
	DateLayout = "02/01/2006"
)

type Field struct {
	Key     string
	Label   string
	Header  string // sheet column owned by this field
	Kind    FieldKind
	Default string
}

type Section struct {
	Title  string
	Fields []Field
}

// Field keys referenced outside the template.
const (
	FieldSampleNumber = "sample_number"
	FieldServiceOrder = "service_order"
	FieldCollectedOn  = "collected_on"
)

// Sections is the collection form, in display order.
var Sections = []Section{
	{
		Title: "Geral",
		Fields: []Field{
			{Key: "origin_state", Label: "Estado de Origem", Header: "Estado de Origem", Default: "AM"},
			{Key: "client", Label: "Cliente", Header: "Cliente", Default: "Pie - Oliveira Energia"},
			{Key: FieldCollectedOn, Label: "Data da coleta", Header: "Data da coleta", Kind: FieldDate},
			{Key: "operation_site", Label: "Local de operação:", Header: "Local de operação"},
			{Key: "ugd", Label: "UGD:", Header: "UGD"},
			{Key: "collected_by", Label: "Responsável Pela Coleta:", Header: "Responsável Pela Coleta"},
			{Key: FieldSampleNumber, Label: "n.º da Amostra", Header: KeyHeader},
			{Key: FieldServiceOrder, Label: "Ordem de Serviço (O.S.)", Header: ServiceOrderHeader},
		},
	},
	{
		Title: "Equipamento",
		Fields: []Field{
			{Key: "serial_number", Label: "n.º de série:", Header: "n.º de série Equipamento"},
			{Key: "fleet", Label: "Frota:", Header: "Frota"},
			{Key: "oil_hours", Label: "Horímetro do Óleo:", Header: "Horímetro do Óleo"},
			{Key: "oil_changed", Label: "Houve troca de óleo após coleta?", Header: "Houve troca de óleo após coleta?", Kind: FieldYesNo, Default: No},
			{Key: "filter_changed", Label: "Trocado o filtro após coleta?", Header: "Troca de Filtro após coleta", Kind: FieldYesNo, Default: No},
			{Key: "site_changed", Label: "Houve mudança do local de operação?", Header: "Houve mudança do local de operação?", Kind: FieldYesNo, Default: No},
			{Key: "equipment_maker", Label: "Fabricante do Equipamento:", Header: "Fabricante", Default: "Scania"},
			{Key: "equipment_model", Label: "Modelo:", Header: "Modelo", Default: "DC13"},
			{Key: "engine_hours", Label: "Horímetro do Motor", Header: "Horímetro do Motor"},
		},
	},
	{
		Title: "Óleo",
		Fields: []Field{
			{Key: "oil_topped_up", Label: "Houve complemento de óleo?", Header: "Houve complemento de óleo", Kind: FieldYesNo, Default: No},
			{Key: "topped_up_liters", Label: "Se sim, quantos litros?", Header: "Se sim, quantos litros"},
			{Key: "sample_source", Label: "Amostra coletada:", Header: "Amostra coletada", Default: "Motor"},
			{Key: "oil_maker", Label: "Fabricante:", Header: "Fabricante do Óleo", Default: "Mobil"},
			{Key: "viscosity", Label: "Grau de viscosidade:", Header: "Grau de viscosidade", Default: "15W40"},
			{Key: "oil_name", Label: "Nome:", Header: "Nome", Default: "Mobil Delvac"},
			{Key: "filter_debris", Label: "Apresentou limalha no filtro ou na tela?", Header: "Apresentou limalha no filtro ou na tela?", Kind: FieldYesNo, Default: No},
			{Key: "plug_debris", Label: "Apresentou limalhas no bujão magnético?", Header: "Apresentou limalhas no bujão magnético?", Kind: FieldYesNo, Default: No},
			{Key: "abnormal_noise", Label: "Equipamento apresentou ruído anormal?", Header: "Equipamento apresentou ruído anormal?", Kind: FieldYesNo, Default: No},
			{Key: "leaks", Label: "Existem vazamentos no sistema?", Header: "Existem vazamentos no sistema", Kind: FieldYesNo, Default: No},
			{Key: "normal_temperature", Label: "A temperatura de operação está normal?", Header: "A temperatura de operação está normal?", Kind: FieldYesNo, Default: No},
			{Key: "normal_performance", Label: "O desempenho do sistema está normal?", Header: "O desempenho do sistema está normal?", Kind: FieldYesNo, Default: No},
			{Key: "anomaly_details", Label: "Detalhes das anormalidades (caso Haja):", Header: "Detalhes das anormalidades (caso Haja)"},
		},
	},
	{
		Title: "Contato",
		Fields: []Field{
			{Key: "contact_name", Label: "Pessoa de contato:", Header: "Pessoa de contato", Default: "Francisco Sampaio"},
			{Key: "contact_phone", Label: "Telefone:", Header: "Telefone", Default: "(92) 99437-6579"},
		},
	},
}

var fieldsByKey = func() map[string]Field {
	m := make(map[string]Field)
	for _, s := range Sections {
		for _, f := range s.Fields {
			m[f.Key] = f
		}
	}
	return m
}()

// FieldByKey returns the template field with the given key.
func FieldByKey(key string) (Field, bool) {
	f, ok := fieldsByKey[key]
	return f, ok
}

// Fields returns every template field in display order.
func Fields() []Field {
	var out []Field
	for _, s := range Sections {
		out = append(out, s.Fields...)
	}
	return out
}

// Form holds the values being edited, keyed by field key.
type Form map[string]string

// NewForm returns a form seeded with the template defaults. The collection
// date defaults to now.
func NewForm(now time.Time) Form {
	form := make(Form, len(fieldsByKey))
	for _, f := range Fields() {
		switch f.Kind {
		case FieldDate:
			form[f.Key] = now.Format(DateLayout)
		default:
			form[f.Key] = f.Default
		}
	}
	return form
}

func (f Form) Get(key string) string {
	return f[key]
}

// Set stores a value, normalising yes/no fields to Sim/Não. Unknown keys are ignored.
func (f Form) Set(key, value string) {
	field, ok := fieldsByKey[key]
	if !ok {
		return
	}
	if field.Kind == FieldYesNo {
		value = NormalizeYesNo(value)
	}
	f[key] = value
}

// Bool reports whether a yes/no field is set to Sim.
func (f Form) Bool(key string) bool {
	return f[key] == Yes
}

// SampleNumber returns the trimmed record key.
func (f Form) SampleNumber() string {
	return strings.TrimSpace(f[FieldSampleNumber])
}

func (f Form) Clone() Form {
	out := make(Form, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// NormalizeYesNo maps the usual truthy spellings to Sim and everything else to Não.
func NormalizeYesNo(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "sim", "s", "yes", "y", "true", "1", "on", "x":
		return Yes
	default:
		return No
	}
}
