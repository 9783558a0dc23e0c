// Package mapper converts persistence models to API response types.
package mapper

import (
	"encoding/json"
	"strings"

	"github.com/webslinger-cto/fieldserve-api/internal/domain"
)

// ToUserResponse maps a user to its response type
func ToUserResponse(u *domain.User) *domain.UserResponse {
	return &domain.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToTechnicianResponse maps a technician to its response type
func ToTechnicianResponse(t *domain.Technician) *domain.TechnicianResponse {
	resp := &domain.TechnicianResponse{
		ID:             t.ID,
		UserID:         t.UserID,
		Status:         t.Status,
		Classification: t.Classification,
		CommissionRate: t.CommissionRate,
		HourlyRate:     t.HourlyRate,
		EmergencyRate:  t.EmergencyRate,
		LeadFee:        t.LeadFee,
		MaxDailyJobs:   t.MaxDailyJobs,
		ServiceTypes:   SplitServiceTypes(t.ServiceTypes),
		CreatedAt:      t.CreatedAt,
	}
	if t.User != nil {
		resp.DisplayName = t.User.DisplayName
		resp.Email = t.User.Email
	}
	return resp
}

// SplitServiceTypes parses the stored comma-separated service type list
func SplitServiceTypes(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// JoinServiceTypes serializes a service type list for storage
func JoinServiceTypes(types []string) string {
	cleaned := make([]string, 0, len(types))
	for _, t := range types {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ",")
}

// ToSalespersonResponse maps a salesperson to its response type
func ToSalespersonResponse(sp *domain.Salesperson) *domain.SalespersonResponse {
	resp := &domain.SalespersonResponse{
		ID:             sp.ID,
		UserID:         sp.UserID,
		CommissionRate: sp.CommissionRate,
		Territory:      sp.Territory,
		IsActive:       sp.IsActive,
		CreatedAt:      sp.CreatedAt,
	}
	if sp.User != nil {
		resp.DisplayName = sp.User.DisplayName
		resp.Email = sp.User.Email
	}
	return resp
}

// ToLeadResponse maps a lead to its response type
func ToLeadResponse(l *domain.Lead) *domain.LeadResponse {
	return &domain.LeadResponse{
		ID:             l.ID,
		Name:           l.Name,
		Phone:          l.Phone,
		Email:          l.Email,
		Address:        l.Address,
		City:           l.City,
		PostalCode:     l.PostalCode,
		ServiceType:    l.ServiceType,
		Description:    l.Description,
		Source:         l.Source,
		Status:         l.Status,
		Score:          l.Score,
		SLADeadline:    l.SLADeadline,
		SLABreached:    l.SLABreached,
		DuplicateOfID:  l.DuplicateOfID,
		ConvertedJobID: l.ConvertedJobID,
		CreatedAt:      l.CreatedAt,
	}
}

// ToJobResponse maps a job to its response type, deriving cost and profit
func ToJobResponse(j *domain.Job) *domain.JobResponse {
	resp := &domain.JobResponse{
		ID:                   j.ID,
		CustomerName:         j.CustomerName,
		CustomerPhone:        j.CustomerPhone,
		CustomerEmail:        j.CustomerEmail,
		Address:              j.Address,
		City:                 j.City,
		PostalCode:           j.PostalCode,
		Latitude:             j.Latitude,
		Longitude:            j.Longitude,
		ServiceType:          j.ServiceType,
		Description:          j.Description,
		Priority:             j.Priority,
		Status:               j.Status,
		AssignedTechnicianID: j.AssignedTechnicianID,
		SalespersonID:        j.SalespersonID,
		LeadID:               j.LeadID,
		ScheduledAt:          j.ScheduledAt,
		EstimatedDuration:    j.EstimatedDuration,
		StartedAt:            j.StartedAt,
		CompletedAt:          j.CompletedAt,
		CancelReason:         j.CancelReason,
		ArrivalVerified:      j.ArrivalVerified,
		ArrivalDistance:      j.ArrivalDistance,
		ArrivalAt:            j.ArrivalAt,
		LaborCost:            j.LaborCost,
		MaterialsCost:        j.MaterialsCost,
		TravelExpense:        j.TravelExpense,
		EquipmentCost:        j.EquipmentCost,
		OtherExpenses:        j.OtherExpenses,
		TotalRevenue:         j.TotalRevenue,
		TotalCost:            j.TotalCost(),
		Profit:               j.Profit(),
		CreatedAt:            j.CreatedAt,
	}
	if j.AssignedTechnician != nil && j.AssignedTechnician.User != nil {
		resp.TechnicianName = j.AssignedTechnician.User.DisplayName
	}
	return resp
}

// ParseLineItems decodes the stored line item JSON, treating empty as none
func ParseLineItems(raw string) []domain.QuoteLineItem {
	if raw == "" {
		return nil
	}
	var items []domain.QuoteLineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

// ParseLaborEntries decodes the stored labor entry JSON
func ParseLaborEntries(raw string) []domain.QuoteLaborEntry {
	if raw == "" {
		return nil
	}
	var entries []domain.QuoteLaborEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	return entries
}

// ToQuoteResponse maps a quote to its internal response type
func ToQuoteResponse(q *domain.Quote) *domain.QuoteResponse {
	return &domain.QuoteResponse{
		ID:            q.ID,
		JobID:         q.JobID,
		CustomerName:  q.CustomerName,
		CustomerPhone: q.CustomerPhone,
		CustomerEmail: q.CustomerEmail,
		Title:         q.Title,
		Status:        q.Status,
		LineItems:     ParseLineItems(q.LineItemsJSON),
		LaborEntries:  ParseLaborEntries(q.LaborEntriesJSON),
		Subtotal:      q.Subtotal,
		LaborTotal:    q.LaborTotal,
		TaxRate:       q.TaxRate,
		TaxAmount:     q.TaxAmount,
		Total:         q.Total,
		SentAt:        q.SentAt,
		ViewedAt:      q.ViewedAt,
		RespondedAt:   q.RespondedAt,
		ExpiresAt:     q.ExpiresAt,
		DeclineReason: q.DeclineReason,
		CreatedAt:     q.CreatedAt,
	}
}

// ToPublicQuoteResponse maps a quote to its customer-facing view
func ToPublicQuoteResponse(q *domain.Quote) *domain.PublicQuoteResponse {
	return &domain.PublicQuoteResponse{
		CustomerName: q.CustomerName,
		Title:        q.Title,
		Status:       q.Status,
		LineItems:    ParseLineItems(q.LineItemsJSON),
		LaborEntries: ParseLaborEntries(q.LaborEntriesJSON),
		Subtotal:     q.Subtotal,
		LaborTotal:   q.LaborTotal,
		TaxRate:      q.TaxRate,
		TaxAmount:    q.TaxAmount,
		Total:        q.Total,
		ExpiresAt:    q.ExpiresAt,
	}
}

// ToCallResponse maps a call to its response type
func ToCallResponse(c *domain.Call) *domain.CallResponse {
	return &domain.CallResponse{
		ID:               c.ID,
		CallerName:       c.CallerName,
		CallerNumber:     c.CallerNumber,
		DurationSeconds:  c.DurationSeconds,
		Outcome:          c.Outcome,
		Notes:            c.Notes,
		LeadID:           c.LeadID,
		ConvertedQuoteID: c.ConvertedQuoteID,
		OccurredAt:       c.OccurredAt,
	}
}

// ToPayrollStatementResponse maps a payroll statement to its response type
func ToPayrollStatementResponse(s *domain.PayrollStatement) *domain.PayrollStatementResponse {
	resp := &domain.PayrollStatementResponse{
		ID:               s.ID,
		TechnicianID:     s.TechnicianID,
		PeriodStart:      s.PeriodStart,
		PeriodEnd:        s.PeriodEnd,
		JobCount:         s.JobCount,
		RegularHours:     s.RegularHours,
		EmergencyHours:   s.EmergencyHours,
		RegularPay:       s.RegularPay,
		EmergencyPay:     s.EmergencyPay,
		CommissionEarned: s.CommissionEarned,
		GrossPay:         s.GrossPay,
		LeadFees:         s.LeadFees,
		EstimatedTax:     s.EstimatedTax,
		NetPay:           s.NetPay,
		GeneratedAt:      s.GeneratedAt,
	}
	if s.Technician != nil && s.Technician.User != nil {
		resp.TechnicianName = s.Technician.User.DisplayName
	}
	return resp
}

// ToCommissionResponse maps a sales commission to its response type
func ToCommissionResponse(c *domain.SalesCommission) *domain.CommissionResponse {
	resp := &domain.CommissionResponse{
		ID:               c.ID,
		JobID:            c.JobID,
		SalespersonID:    c.SalespersonID,
		NetProfit:        c.NetProfit,
		CommissionRate:   c.CommissionRate,
		CommissionAmount: c.CommissionAmount,
		Status:           c.Status,
		CalculatedAt:     c.CalculatedAt,
	}
	if c.Salesperson != nil && c.Salesperson.User != nil {
		resp.SalespersonName = c.Salesperson.User.DisplayName
	}
	return resp
}

// ToRevenueEventResponse maps a revenue event to its response type
func ToRevenueEventResponse(e *domain.RevenueEvent) *domain.RevenueEventResponse {
	return &domain.RevenueEventResponse{
		ID:         e.ID,
		JobID:      e.JobID,
		Amount:     e.Amount,
		OccurredAt: e.OccurredAt,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
	}
}

// ToNotificationResponse maps a notification to its response type
func ToNotificationResponse(n *domain.Notification) *domain.NotificationResponse {
	return &domain.NotificationResponse{
		ID:         n.ID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		Read:       n.Read,
		ReadAt:     n.ReadAt,
		EntityID:   n.EntityID,
		EntityType: n.EntityType,
		CreatedAt:  n.CreatedAt,
	}
}

// ToFileResponse maps a stored file to its response type
func ToFileResponse(f *domain.File) *domain.FileResponse {
	return &domain.FileResponse{
		ID:          f.ID,
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		CreatedAt:   f.CreatedAt,
	}
}
