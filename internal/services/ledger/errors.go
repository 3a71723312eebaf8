package ledger

import "errors"

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrNothingToUpdate     = errors.New("nothing to update")
	ErrForbidden           = errors.New("forbidden")
)
