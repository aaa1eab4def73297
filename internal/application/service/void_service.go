package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/tillpoint-api/internal/domain/entity"
	"github.com/sangkips/tillpoint-api/internal/domain/enum"
	"github.com/sangkips/tillpoint-api/internal/domain/repository"
	"github.com/sangkips/tillpoint-api/pkg/apperror"
	"github.com/sangkips/tillpoint-api/pkg/pagination"
)

// VoidService keeps the append-only audit log of voided lines, carts and held transactions
type VoidService struct {
	voidRepo repository.VoidRecordRepository
}

// NewVoidService creates a new void service
func NewVoidService(voidRepo repository.VoidRecordRepository) *VoidService {
	return &VoidService{voidRepo: voidRepo}
}

// RecordVoidInput represents a void to record
type RecordVoidInput struct {
	OwnerID     uuid.UUID
	TillID      *uuid.UUID
	VoidType    enum.VoidType
	SubjectRef  *string
	SubjectName string
	Quantity    int
	UnitPrice   int64
	TotalAmount int64
	Reason      string
}

// Record appends a void record
func (s *VoidService) Record(ctx context.Context, input *RecordVoidInput) (*entity.VoidRecord, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, apperror.ErrReasonRequired
	}
	if !input.VoidType.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid void type")
	}

	record := &entity.VoidRecord{
		OwnerID:     input.OwnerID,
		TillID:      input.TillID,
		VoidType:    input.VoidType,
		SubjectRef:  input.SubjectRef,
		SubjectName: input.SubjectName,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		TotalAmount: input.TotalAmount,
		Reason:      reason,
	}
	if err := s.voidRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// RecordBestEffort records a void after the voiding operation has already
// committed. Failures are logged, never returned.
func (s *VoidService) RecordBestEffort(ctx context.Context, input *RecordVoidInput) {
	if _, err := s.Record(ctx, input); err != nil {
		log.Printf("[void] failed to record %s void for %s (owner %s): %v",
			input.VoidType, input.SubjectName, input.OwnerID, err)
	}
}

// ListVoids lists void records with filtering, newest first
func (s *VoidService) ListVoids(ctx context.Context, filter *repository.VoidFilter) (*pagination.PaginatedResult[entity.VoidRecord], error) {
	filter.Pagination = pageParams(filter.Pagination)
	items, total, err := s.voidRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(filter.Pagination.Page, filter.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

func pageParams(p *pagination.PaginationParams) *pagination.PaginationParams {
	if p == nil {
		p = pagination.DefaultPagination()
	}
	p.Validate()
	return p
}

func stringRef(s string) *string {
	return &s
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
