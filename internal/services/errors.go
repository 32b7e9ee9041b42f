package services

import "errors"

// Business-rule errors. The messages double as the user-facing error strings
// returned by the HTTP layer, hence the Portuguese.
var (
	ErrInvalidInput        = errors.New("Dados inválidos")
	ErrSessionNotFound     = errors.New("Sessão de leitura inválida")
	ErrSessionClosed       = errors.New("Sessão já foi finalizada")
	ErrBookNotFound        = errors.New("Livro não encontrado")
	ErrUserNotFound        = errors.New("Usuário não encontrado")
	ErrLevelRequired       = errors.New("Nível insuficiente para este livro")
	ErrEmailTaken          = errors.New("Email já cadastrado")
	ErrInvalidCredentials  = errors.New("Credenciais inválidas")
	ErrInsufficientBalance = errors.New("Saldo insuficiente")
	ErrWithdrawalTooSmall  = errors.New("Valor mínimo de saque não atingido")
	ErrWithdrawalNotFound  = errors.New("Saque não encontrado")
	ErrWithdrawalSettled   = errors.New("Saque já foi processado")
)
