package models

import "encoding/xml"

// FreteResponse is the document the e-commerce platform expects from a
// freight webhook. It is returned on success and on failure alike.
type FreteResponse struct {
	XMLName  xml.Name  `xml:"frete"`
	Servicos []Servico `xml:"servicos>servico"`
}

// Servico is one shipping option. Prazo is the delivery time in days.
type Servico struct {
	Codigo  string `xml:"codigo"`
	Valor   Money  `xml:"valor"`
	Prazo   int    `xml:"prazo"`
	Erro    int    `xml:"erro"`
	MsgErro string `xml:"msg_erro"`
}

// NewFreteError builds the platform error document: a single service with
// erro=1 and valor 0.00.
func NewFreteError(message string) FreteResponse {
	return FreteResponse{Servicos: []Servico{{Erro: 1, MsgErro: message}}}
}
