package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tbourn/cadastro-clientes/internal/domain"
	"github.com/tbourn/cadastro-clientes/internal/report"
	"github.com/tbourn/cadastro-clientes/internal/services"
)

// fieldLabels are the form labels shown to the user.
var fieldLabels = map[domain.Field]string{
	domain.FieldName:    "Nome",
	domain.FieldAddress: "Endereço",
	domain.FieldPhone:   "Telefone",
	domain.FieldCPF:     "CPF",
	domain.FieldRG:      "RG",
	domain.FieldEmail:   "Email",
}

// Message maps an error returned by the store or the report sink to the
// text shown to the user.
func Message(err error) string {
	var (
		uerr *services.UniquenessError
		ierr *services.InvalidInputError
	)
	switch {
	case errors.As(err, &uerr):
		return fmt.Sprintf("%s já cadastrado.", fieldLabels[uerr.Field])
	case errors.As(err, &ierr):
		return fmt.Sprintf("O campo %s é obrigatório.", fieldLabels[ierr.Field])
	case errors.Is(err, services.ErrStorageUnavailable):
		return "Banco de dados indisponível. Tente novamente."
	case errors.Is(err, report.ErrReportSink):
		return "Não foi possível gerar o relatório PDF; o relatório anterior foi mantido."
	case errors.Is(err, report.ErrReportOpen):
		cause := strings.TrimPrefix(err.Error(), report.ErrReportOpen.Error()+": ")
		return fmt.Sprintf("Não foi possível abrir o relatório PDF: %s", cause)
	default:
		return err.Error()
	}
}
