package models

import "encoding/xml"

const (
	DefaultCarrier   = "Bakof Log"
	DefaultTransport = "TERRESTRE"
)

// Cotacao is the detailed quote document used internally and by support
// staff. Erro is set instead of Resultados when the quote failed.
type Cotacao struct {
	XMLName    xml.Name    `xml:"cotacao"`
	Resultados []Resultado `xml:"resultado"`
	Distancia  *Distancia  `xml:"distancia,omitempty"`
	Ignorados  *Ignorados  `xml:"ignorados,omitempty"`
	Erro       string      `xml:"erro,omitempty"`
}

type Resultado struct {
	Codigo            string        `xml:"codigo"`
	Transportadora    string        `xml:"transportadora"`
	Servico           string        `xml:"servico"`
	Transporte        string        `xml:"transporte"`
	Valor             Money         `xml:"valor"`
	PrazoMin          int           `xml:"prazo_min"`
	PrazoMax          int           `xml:"prazo_max"`
	EntregaDomiciliar int           `xml:"entrega_domiciliar"`
	Detalhes          []ItemDetalhe `xml:"detalhes>item"`
}

type ItemDetalhe struct {
	Codigo          string     `xml:"codigo"`
	Quantidade      int        `xml:"quantidade"`
	Categoria       string     `xml:"categoria"`
	TamanhoControle Meters     `xml:"tamanho_controle"`
	OrigemTamanho   string     `xml:"origem_tamanho"`
	Km              Kilometers `xml:"km"`
	ValorUnitario   Money      `xml:"valor_unitario"`
	Valor           Money      `xml:"valor"`
}

// Distancia explains how the distance was obtained.
type Distancia struct {
	Km     Kilometers `xml:"km"`
	Origem string     `xml:"origem"`
	CEP    string     `xml:"cep,omitempty"`
	UF     string     `xml:"uf,omitempty"`
}

// Ignorados lists the malformed items left out of the quote. It is nil when
// every item was used so the element is omitted.
type Ignorados struct {
	Itens []Ignorado `xml:"item"`
}

// AddIgnorado appends an ignored item, allocating the list on first use.
func (c *Cotacao) AddIgnorado(indice int, motivo string) {
	if c.Ignorados == nil {
		c.Ignorados = &Ignorados{}
	}
	c.Ignorados.Itens = append(c.Ignorados.Itens, Ignorado{Indice: indice, Motivo: motivo})
}

type Ignorado struct {
	Indice int    `xml:"indice"`
	Motivo string `xml:"motivo"`
}
