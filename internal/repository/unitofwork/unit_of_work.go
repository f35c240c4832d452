package unitofwork

import (
	"context"

	"code-concierge-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CodeMatrixRepository() contract.CodeMatrixRepository
	ExcelMappingRepository() contract.ExcelMappingRepository
	PdfFileRepository() contract.PdfFileRepository

	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
