package models

import (
	"time"

	"github.com/tourvia/TRV-BookingService/internal/domain"
)

// Request модели

// ApplyStopSaleRequest запрос на применение stop-sale
type ApplyStopSaleRequest struct {
	UserID    int64     `json:"userId"`
	TourID    int64     `json:"tourId"`
	OptionIDs []string  `json:"optionIds,omitempty"` // Пустой список - правило на весь тур
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    string    `json:"reason"`
}

// ListStopSalesRequest запрос на получение правил stop-sale тура
type ListStopSalesRequest struct {
	UserID     int64 `json:"userId"`
	TourID     int64 `json:"tourId"`
	IncludeLog bool  `json:"includeLog,omitempty"` // Включить журнал аудита
}

// Response модели

// StopSaleRuleResponse ответ с данными правила stop-sale
type StopSaleRuleResponse struct {
	ID        int64    `json:"id"`
	TourID    int64    `json:"tourId"`
	OptionIDs []string `json:"optionIds,omitempty"`
	StartDate string   `json:"startDate"` // "2026-07-01"
	EndDate   string   `json:"endDate"`   // "2026-07-10"
	Reason    string   `json:"reason"`
	CreatedBy int64    `json:"createdBy"`

	CreatedAt time.Time `json:"createdAt"`
}

// StopSaleLogEntryResponse запись журнала аудита stop-sale
type StopSaleLogEntryResponse struct {
	ID        int64  `json:"id"`
	RuleID    int64  `json:"ruleId"`
	TourID    int64  `json:"tourId"`
	ActorID   int64  `json:"actorId"`
	Status    string `json:"status"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason"`

	CreatedAt time.Time `json:"createdAt"`
}

// StopSaleListResponse ответ со списком правил и (опционально) журналом
type StopSaleListResponse struct {
	Rules []StopSaleRuleResponse     `json:"rules"`
	Log   []StopSaleLogEntryResponse `json:"log,omitempty"`
}

// Методы конвертации

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.StopSaleRule) *StopSaleRuleResponse {
	if r == nil {
		return nil
	}

	return &StopSaleRuleResponse{
		ID:        r.ID,
		TourID:    r.TourID,
		OptionIDs: r.OptionIDs,
		StartDate: r.StartDate.Format(domain.DateFormat),
		EndDate:   r.EndDate.Format(domain.DateFormat),
		Reason:    r.Reason,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []*domain.StopSaleRule) []StopSaleRuleResponse {
	result := make([]StopSaleRuleResponse, 0, len(rules))
	for _, rule := range rules {
		if resp := FromDomainRule(rule); resp != nil {
			result = append(result, *resp)
		}
	}
	return result
}

// FromDomainLogEntry конвертирует запись журнала в DTO
func FromDomainLogEntry(e *domain.StopSaleLogEntry) *StopSaleLogEntryResponse {
	if e == nil {
		return nil
	}

	return &StopSaleLogEntryResponse{
		ID:        e.ID,
		RuleID:    e.RuleID,
		TourID:    e.TourID,
		ActorID:   e.ActorID,
		Status:    string(e.Status),
		StartDate: e.StartDate.Format(domain.DateFormat),
		EndDate:   e.EndDate.Format(domain.DateFormat),
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
	}
}

// FromDomainLogEntryList конвертирует журнал в DTO
func FromDomainLogEntryList(entries []*domain.StopSaleLogEntry) []StopSaleLogEntryResponse {
	result := make([]StopSaleLogEntryResponse, 0, len(entries))
	for _, entry := range entries {
		if resp := FromDomainLogEntry(entry); resp != nil {
			result = append(result, *resp)
		}
	}
	return result
}
