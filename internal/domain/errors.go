package domain

import (
	"errors"
	"fmt"
)

// Import errors carry the literal text shown to the driver.
var (
	ErrEmptyProfileData = errors.New("Dados do motorista vazios.")
	ErrMissingDriverID  = errors.New("ID do motorista não identificado.")
	ErrNoCompletedTrips = errors.New("Nenhuma corrida concluída identificada.")
	ErrImportInProgress = errors.New("Já existe uma importação em andamento.")
	ErrUnsupportedFile  = errors.New("Formato de arquivo não suportado. Envie um .xlsx ou .xls.")
	ErrSheetTooLarge    = errors.New("A planilha excede o limite de 50.000 linhas por aba.")
)

var (
	ErrUnauthenticated   = errors.New("Usuário não autenticado")
	ErrInvalidSimulation = errors.New("invalid simulation input")
	ErrProfileNotFound   = errors.New("driver profile not found")
)

// MissingSheetError names the first accepted name of a required sheet. For
// the trip ledger Sheet is order_info.
type MissingSheetError struct {
	Sheet string
}

func (e *MissingSheetError) Error() string {
	return fmt.Sprintf("Aba %q não encontrada.", e.Sheet)
}

// ImportError marks a failure of the upsert boundary after the workbook was
// accepted.
type ImportError struct {
	Stage string
	Err   error
}

func (e *ImportError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

func (e *ImportError) Unwrap() error { return e.Err }

// AuthError is shown inline on the sign-in form.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "Ocorreu um erro na autenticação."
	}
	return e.Message
}

// FetchError means the dashboard could not be read at all.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// AssistantError wraps a text-generation failure. It is logged, never shown.
type AssistantError struct {
	Err error
}

func (e *AssistantError) Error() string {
	return "assistant: " + e.Err.Error()
}

func (e *AssistantError) Unwrap() error { return e.Err }

// IsUserFacing reports whether err carries a message meant for the driver.
func IsUserFacing(err error) bool {
	var sheet *MissingSheetError
	var imp *ImportError
	return errors.As(err, &sheet) ||
		errors.As(err, &imp) ||
		errors.Is(err, ErrEmptyProfileData) ||
		errors.Is(err, ErrMissingDriverID) ||
		errors.Is(err, ErrNoCompletedTrips) ||
		errors.Is(err, ErrUnsupportedFile) ||
		errors.Is(err, ErrSheetTooLarge)
}
