package reporting

import "errors"

var (
	ErrMissingPeriod  = errors.New("é necessário informar as datas de início e fim")
	ErrInvalidPeriod  = errors.New("a data de início não pode ser posterior à data de fim")
	ErrPeriodTooLong  = errors.New("o período máximo de um relatório é de 366 dias")
	ErrInvalidKind    = errors.New("tipo de transação inválido, use all, sales ou refunds")
	ErrUpstreamFetch  = errors.New("não foi possível carregar os dados do relatório")
	ErrInvalidDataset = errors.New("conjunto de exportação inválido, use transactions ou daily")
)
