// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fields

// defaultCategories is the catalog used when no catalog file is configured.
var defaultCategories = []Category{
	{
		Name:  "empresa",
		Label: "Empresa",
		Fields: []Field{
			{Key: "razao_social", Label: "Razão social"},
			{Key: "cnpj", Label: "CNPJ"},
			{Key: "endereco", Label: "Endereço"},
			{Key: "representante", Label: "Representante legal"},
			{Key: "representante_cpf", Label: "CPF do representante"},
		},
	},
	{
		Name:  "cliente",
		Label: "Cliente",
		Fields: []Field{
			{Key: "nome", Label: "Nome"},
			{Key: "cnpj", Label: "CNPJ"},
			{Key: "endereco", Label: "Endereço"},
			{Key: "email", Label: "E-mail"},
			{Key: "telefone", Label: "Telefone"},
			{Key: "representante", Label: "Representante legal"},
			{Key: "representante_cpf", Label: "CPF do representante"},
		},
	},
	{
		Name:  "proposta",
		Label: "Proposta",
		Fields: []Field{
			{Key: "servico", Label: "Descrição do serviço"},
			{Key: "turno", Label: "Turno"},
			{Key: "horario", Label: "Horário"},
			{Key: "regime", Label: "Regime"},
			{Key: "quantidade", Label: "Quantidade"},
			{Key: "valor_unitario", Label: "Valor unitário"},
			{Key: "valor_mensal", Label: "Valor mensal"},
		},
	},
	{
		Name:  "contrato",
		Label: "Contrato",
		Fields: []Field{
			{Key: "data_inicio", Label: "Data de início"},
			{Key: "vigencia_meses", Label: "Vigência (meses)"},
			{Key: "aviso_previo_dias", Label: "Aviso prévio (dias)"},
			{Key: "data_assinatura", Label: "Data de assinatura"},
			{Key: "cidade", Label: "Cidade"},
		},
	},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := NewCatalog(defaultCategories)
	if err != nil {
		panic(err)
	}
	return c
}
