package domain

import (
	"time"

	"github.com/google/uuid"
)

// --- Auth ---

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type CreateUserRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=8"`
	DisplayName string   `json:"displayName" validate:"required,max=200"`
	Phone       string   `json:"phone" validate:"omitempty,max=50"`
	Role        UserRole `json:"role" validate:"required"`
}

type UpdateUserRequest struct {
	DisplayName *string   `json:"displayName" validate:"omitempty,max=200"`
	Phone       *string   `json:"phone" validate:"omitempty,max=50"`
	Role        *UserRole `json:"role"`
	IsActive    *bool     `json:"isActive"`
}

type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	DisplayName   string     `json:"displayName"`
	Phone         string     `json:"phone,omitempty"`
	Role          UserRole   `json:"role"`
	EffectiveRole UserRole   `json:"effectiveRole,omitempty"`
	IsActive      bool       `json:"isActive"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// --- Technicians ---

type CreateTechnicianRequest struct {
	UserID         uuid.UUID                `json:"userId" validate:"required"`
	Classification TechnicianClassification `json:"classification" validate:"omitempty,oneof=apprentice journeyman master"`
	CommissionRate float64                  `json:"commissionRate" validate:"gte=0,lte=1"`
	HourlyRate     float64                  `json:"hourlyRate" validate:"gte=0"`
	EmergencyRate  float64                  `json:"emergencyRate" validate:"omitempty,gte=1"`
	LeadFee        float64                  `json:"leadFee" validate:"gte=0"`
	MaxDailyJobs   int                      `json:"maxDailyJobs" validate:"omitempty,gte=1,lte=24"`
	ServiceTypes   []string                 `json:"serviceTypes"`
}

type TechnicianStatusRequest struct {
	Status TechnicianStatus `json:"status" validate:"required"`
}

type UpdateTechnicianRequest struct {
	Status         *TechnicianStatus         `json:"status"`
	Classification *TechnicianClassification `json:"classification"`
	CommissionRate *float64                  `json:"commissionRate" validate:"omitempty,gte=0,lte=1"`
	HourlyRate     *float64                  `json:"hourlyRate" validate:"omitempty,gte=0"`
	EmergencyRate  *float64                  `json:"emergencyRate" validate:"omitempty,gte=1"`
	LeadFee        *float64                  `json:"leadFee" validate:"omitempty,gte=0"`
	MaxDailyJobs   *int                      `json:"maxDailyJobs" validate:"omitempty,gte=1,lte=24"`
	ServiceTypes   []string                  `json:"serviceTypes"`
}

type TechnicianResponse struct {
	ID             uuid.UUID                `json:"id"`
	UserID         uuid.UUID                `json:"userId"`
	DisplayName    string                   `json:"displayName,omitempty"`
	Email          string                   `json:"email,omitempty"`
	Status         TechnicianStatus         `json:"status"`
	Classification TechnicianClassification `json:"classification"`
	CommissionRate float64                  `json:"commissionRate"`
	HourlyRate     float64                  `json:"hourlyRate"`
	EmergencyRate  float64                  `json:"emergencyRate"`
	LeadFee        float64                  `json:"leadFee"`
	MaxDailyJobs   int                      `json:"maxDailyJobs"`
	ServiceTypes   []string                 `json:"serviceTypes"`
	CreatedAt      time.Time                `json:"createdAt"`
}

// --- Salespersons ---

type CreateSalespersonRequest struct {
	UserID         uuid.UUID `json:"userId" validate:"required"`
	CommissionRate float64   `json:"commissionRate" validate:"gte=0,lte=1"`
	Territory      string    `json:"territory" validate:"omitempty,max=200"`
}

type UpdateSalespersonRequest struct {
	CommissionRate *float64 `json:"commissionRate" validate:"omitempty,gte=0,lte=1"`
	Territory      *string  `json:"territory" validate:"omitempty,max=200"`
	IsActive       *bool    `json:"isActive"`
}

type SalespersonResponse struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	DisplayName    string    `json:"displayName,omitempty"`
	Email          string    `json:"email,omitempty"`
	CommissionRate float64   `json:"commissionRate"`
	Territory      string    `json:"territory,omitempty"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
}

// --- Leads ---

type CreateLeadRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Phone       string     `json:"phone" validate:"omitempty,max=50"`
	Email       string     `json:"email" validate:"omitempty,email"`
	Address     string     `json:"address" validate:"omitempty,max=500"`
	City        string     `json:"city" validate:"omitempty,max=100"`
	PostalCode  string     `json:"postalCode" validate:"omitempty,max=20"`
	ServiceType string     `json:"serviceType" validate:"omitempty,max=100"`
	Description string     `json:"description"`
	Source      LeadSource `json:"source" validate:"omitempty"`
}

type UpdateLeadRequest struct {
	Name        *string     `json:"name" validate:"omitempty,max=200"`
	Phone       *string     `json:"phone" validate:"omitempty,max=50"`
	Email       *string     `json:"email" validate:"omitempty,email"`
	Address     *string     `json:"address" validate:"omitempty,max=500"`
	City        *string     `json:"city" validate:"omitempty,max=100"`
	PostalCode  *string     `json:"postalCode" validate:"omitempty,max=20"`
	ServiceType *string     `json:"serviceType" validate:"omitempty,max=100"`
	Description *string     `json:"description"`
	Status      *LeadStatus `json:"status"`
	Score       *int        `json:"score" validate:"omitempty,gte=0,lte=100"`
}

type ConvertLeadRequest struct {
	ServiceType       string      `json:"serviceType" validate:"omitempty,max=100"`
	Priority          JobPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	ScheduledAt       *time.Time  `json:"scheduledAt"`
	EstimatedDuration int         `json:"estimatedDuration" validate:"omitempty,gte=15"`
	SalespersonID     *uuid.UUID  `json:"salespersonId"`
}

type LeadResponse struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	Address        string     `json:"address,omitempty"`
	City           string     `json:"city,omitempty"`
	PostalCode     string     `json:"postalCode,omitempty"`
	ServiceType    string     `json:"serviceType,omitempty"`
	Description    string     `json:"description,omitempty"`
	Source         LeadSource `json:"source"`
	Status         LeadStatus `json:"status"`
	Score          int        `json:"score"`
	SLADeadline    *time.Time `json:"slaDeadline,omitempty"`
	SLABreached    bool       `json:"slaBreached"`
	DuplicateOfID  *uuid.UUID `json:"duplicateOfId,omitempty"`
	ConvertedJobID *uuid.UUID `json:"convertedJobId,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// --- Jobs ---

type CreateJobRequest struct {
	CustomerName      string      `json:"customerName" validate:"required,max=200"`
	CustomerPhone     string      `json:"customerPhone" validate:"omitempty,max=50"`
	CustomerEmail     string      `json:"customerEmail" validate:"omitempty,email"`
	Address           string      `json:"address" validate:"required,max=500"`
	City              string      `json:"city" validate:"omitempty,max=100"`
	PostalCode        string      `json:"postalCode" validate:"omitempty,max=20"`
	Latitude          *float64    `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude         *float64    `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	ServiceType       string      `json:"serviceType" validate:"required,max=100"`
	Description       string      `json:"description"`
	Priority          JobPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	SalespersonID     *uuid.UUID  `json:"salespersonId"`
	ScheduledAt       *time.Time  `json:"scheduledAt"`
	EstimatedDuration int         `json:"estimatedDuration" validate:"omitempty,gte=15"`
}

type UpdateJobRequest struct {
	CustomerName      *string      `json:"customerName" validate:"omitempty,max=200"`
	CustomerPhone     *string      `json:"customerPhone" validate:"omitempty,max=50"`
	CustomerEmail     *string      `json:"customerEmail" validate:"omitempty,email"`
	Address           *string      `json:"address" validate:"omitempty,max=500"`
	City              *string      `json:"city" validate:"omitempty,max=100"`
	PostalCode        *string      `json:"postalCode" validate:"omitempty,max=20"`
	Latitude          *float64     `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude         *float64     `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	ServiceType       *string      `json:"serviceType" validate:"omitempty,max=100"`
	Description       *string      `json:"description"`
	Priority          *JobPriority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	SalespersonID     *uuid.UUID   `json:"salespersonId"`
	ScheduledAt       *time.Time   `json:"scheduledAt"`
	EstimatedDuration *int         `json:"estimatedDuration" validate:"omitempty,gte=15"`
}

type AssignJobRequest struct {
	TechnicianID uuid.UUID `json:"technicianId" validate:"required"`
}

// ArriveRequest carries the reported position. Coordinates are optional so
// clients without a GPS fix can still report arrival.
type ArriveRequest struct {
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

type CompleteJobRequest struct {
	LaborCost     *float64 `json:"laborCost" validate:"omitempty,gte=0"`
	MaterialsCost *float64 `json:"materialsCost" validate:"omitempty,gte=0"`
	TravelExpense *float64 `json:"travelExpense" validate:"omitempty,gte=0"`
	EquipmentCost *float64 `json:"equipmentCost" validate:"omitempty,gte=0"`
	OtherExpenses *float64 `json:"otherExpenses" validate:"omitempty,gte=0"`
	TotalRevenue  *float64 `json:"totalRevenue" validate:"omitempty,gte=0"`
	Notes         string   `json:"notes"`
}

type CancelJobRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type JobResponse struct {
	ID                   uuid.UUID   `json:"id"`
	CustomerName         string      `json:"customerName"`
	CustomerPhone        string      `json:"customerPhone,omitempty"`
	CustomerEmail        string      `json:"customerEmail,omitempty"`
	Address              string      `json:"address"`
	City                 string      `json:"city,omitempty"`
	PostalCode           string      `json:"postalCode,omitempty"`
	Latitude             *float64    `json:"latitude,omitempty"`
	Longitude            *float64    `json:"longitude,omitempty"`
	ServiceType          string      `json:"serviceType"`
	Description          string      `json:"description,omitempty"`
	Priority             JobPriority `json:"priority"`
	Status               JobStatus   `json:"status"`
	AssignedTechnicianID *uuid.UUID  `json:"assignedTechnicianId,omitempty"`
	TechnicianName       string      `json:"technicianName,omitempty"`
	SalespersonID        *uuid.UUID  `json:"salespersonId,omitempty"`
	LeadID               *uuid.UUID  `json:"leadId,omitempty"`
	ScheduledAt          *time.Time  `json:"scheduledAt,omitempty"`
	EstimatedDuration    int         `json:"estimatedDuration"`
	StartedAt            *time.Time  `json:"startedAt,omitempty"`
	CompletedAt          *time.Time  `json:"completedAt,omitempty"`
	CancelReason         string      `json:"cancelReason,omitempty"`
	ArrivalVerified      bool        `json:"arrivalVerified"`
	ArrivalDistance      *float64    `json:"arrivalDistance,omitempty"`
	ArrivalAt            *time.Time  `json:"arrivalAt,omitempty"`
	LaborCost            float64     `json:"laborCost"`
	MaterialsCost        float64     `json:"materialsCost"`
	TravelExpense        float64     `json:"travelExpense"`
	EquipmentCost        float64     `json:"equipmentCost"`
	OtherExpenses        float64     `json:"otherExpenses"`
	TotalRevenue         float64     `json:"totalRevenue"`
	TotalCost            float64     `json:"totalCost"`
	Profit               float64     `json:"profit"`
	CreatedAt            time.Time   `json:"createdAt"`
}

// --- Quotes ---

type CreateQuoteRequest struct {
	JobID         *uuid.UUID        `json:"jobId"`
	CustomerName  string            `json:"customerName" validate:"required,max=200"`
	CustomerPhone string            `json:"customerPhone" validate:"omitempty,max=50"`
	CustomerEmail string            `json:"customerEmail" validate:"omitempty,email"`
	Title         string            `json:"title" validate:"required,max=200"`
	LineItems     []QuoteLineItem   `json:"lineItems" validate:"dive"`
	LaborEntries  []QuoteLaborEntry `json:"laborEntries" validate:"dive"`
	TaxRate       *float64          `json:"taxRate" validate:"omitempty,gte=0,lte=1"`
}

type UpdateQuoteRequest struct {
	CustomerName  *string           `json:"customerName" validate:"omitempty,max=200"`
	CustomerPhone *string           `json:"customerPhone" validate:"omitempty,max=50"`
	CustomerEmail *string           `json:"customerEmail" validate:"omitempty,email"`
	Title         *string           `json:"title" validate:"omitempty,max=200"`
	LineItems     []QuoteLineItem   `json:"lineItems" validate:"omitempty,dive"`
	LaborEntries  []QuoteLaborEntry `json:"laborEntries" validate:"omitempty,dive"`
	TaxRate       *float64          `json:"taxRate" validate:"omitempty,gte=0,lte=1"`
}

type AcceptQuoteRequest struct {
	SMSOptIn                bool `json:"smsOptIn"`
	SMSOwnershipConfirmed   bool `json:"smsOwnershipConfirmed"`
	EmailOptIn              bool `json:"emailOptIn"`
	EmailOwnershipConfirmed bool `json:"emailOwnershipConfirmed"`
}

type DeclineQuoteRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type QuoteResponse struct {
	ID            uuid.UUID         `json:"id"`
	JobID         *uuid.UUID        `json:"jobId,omitempty"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone,omitempty"`
	CustomerEmail string            `json:"customerEmail,omitempty"`
	Title         string            `json:"title"`
	Status        QuoteStatus       `json:"status"`
	LineItems     []QuoteLineItem   `json:"lineItems"`
	LaborEntries  []QuoteLaborEntry `json:"laborEntries"`
	Subtotal      float64           `json:"subtotal"`
	LaborTotal    float64           `json:"laborTotal"`
	TaxRate       float64           `json:"taxRate"`
	TaxAmount     float64           `json:"taxAmount"`
	Total         float64           `json:"total"`
	SentAt        *time.Time        `json:"sentAt,omitempty"`
	ViewedAt      *time.Time        `json:"viewedAt,omitempty"`
	RespondedAt   *time.Time        `json:"respondedAt,omitempty"`
	ExpiresAt     *time.Time        `json:"expiresAt,omitempty"`
	DeclineReason string            `json:"declineReason,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// PublicQuoteResponse is the customer-facing view, served by the token
// routes. It never exposes internal identifiers.
type PublicQuoteResponse struct {
	CustomerName string            `json:"customerName"`
	Title        string            `json:"title"`
	Status       QuoteStatus       `json:"status"`
	LineItems    []QuoteLineItem   `json:"lineItems"`
	LaborEntries []QuoteLaborEntry `json:"laborEntries"`
	Subtotal     float64           `json:"subtotal"`
	LaborTotal   float64           `json:"laborTotal"`
	TaxRate      float64           `json:"taxRate"`
	TaxAmount    float64           `json:"taxAmount"`
	Total        float64           `json:"total"`
	ExpiresAt    *time.Time        `json:"expiresAt,omitempty"`
}

// --- Calls ---

type CreateCallRequest struct {
	CallerName      string      `json:"callerName" validate:"omitempty,max=200"`
	CallerNumber    string      `json:"callerNumber" validate:"required,max=50"`
	DurationSeconds int         `json:"durationSeconds" validate:"gte=0"`
	Outcome         CallOutcome `json:"outcome" validate:"omitempty,oneof=answered missed voicemail booked"`
	Notes           string      `json:"notes"`
	OccurredAt      *time.Time  `json:"occurredAt"`
}

type CallResponse struct {
	ID               uuid.UUID   `json:"id"`
	CallerName       string      `json:"callerName,omitempty"`
	CallerNumber     string      `json:"callerNumber"`
	DurationSeconds  int         `json:"durationSeconds"`
	Outcome          CallOutcome `json:"outcome"`
	Notes            string      `json:"notes,omitempty"`
	LeadID           *uuid.UUID  `json:"leadId,omitempty"`
	ConvertedQuoteID *uuid.UUID  `json:"convertedQuoteId,omitempty"`
	OccurredAt       time.Time   `json:"occurredAt"`
}

// --- Payroll ---

type PayrollRunRequest struct {
	TechnicianID *uuid.UUID `json:"technicianId"` // nil runs all technicians
	PeriodStart  time.Time  `json:"periodStart" validate:"required"`
	PeriodEnd    time.Time  `json:"periodEnd" validate:"required"`
}

type PayrollStatementResponse struct {
	ID               uuid.UUID `json:"id"`
	TechnicianID     uuid.UUID `json:"technicianId"`
	TechnicianName   string    `json:"technicianName,omitempty"`
	PeriodStart      time.Time `json:"periodStart"`
	PeriodEnd        time.Time `json:"periodEnd"`
	JobCount         int       `json:"jobCount"`
	RegularHours     float64   `json:"regularHours"`
	EmergencyHours   float64   `json:"emergencyHours"`
	RegularPay       float64   `json:"regularPay"`
	EmergencyPay     float64   `json:"emergencyPay"`
	CommissionEarned float64   `json:"commissionEarned"`
	GrossPay         float64   `json:"grossPay"`
	LeadFees         float64   `json:"leadFees"`
	EstimatedTax     float64   `json:"estimatedTax"`
	NetPay           float64   `json:"netPay"`
	GeneratedAt      time.Time `json:"generatedAt"`
}

// --- Revenue ---

type CreateRevenueEventRequest struct {
	JobID      uuid.UUID  `json:"jobId" validate:"required"`
	Amount     float64    `json:"amount" validate:"required,gt=0"`
	OccurredAt *time.Time `json:"occurredAt"`
	Notes      string     `json:"notes"`
}

type RevenueEventResponse struct {
	ID         uuid.UUID `json:"id"`
	JobID      uuid.UUID `json:"jobId"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurredAt"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// --- Commissions ---

type CommissionResponse struct {
	ID               uuid.UUID        `json:"id"`
	JobID            uuid.UUID        `json:"jobId"`
	SalespersonID    uuid.UUID        `json:"salespersonId"`
	SalespersonName  string           `json:"salespersonName,omitempty"`
	NetProfit        float64          `json:"netProfit"`
	CommissionRate   float64          `json:"commissionRate"`
	CommissionAmount float64          `json:"commissionAmount"`
	Status           CommissionStatus `json:"status"`
	CalculatedAt     time.Time        `json:"calculatedAt"`
}

type CommissionEarningsResponse struct {
	SalespersonID uuid.UUID `json:"salespersonId"`
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	TotalEarned   float64   `json:"totalEarned"`
}

// --- Catalog / settings ---

type PricebookItemRequest struct {
	Code         string  `json:"code" validate:"required,max=50"`
	Name         string  `json:"name" validate:"required,max=200"`
	Category     string  `json:"category" validate:"omitempty,max=100"`
	Description  string  `json:"description"`
	UnitPrice    float64 `json:"unitPrice" validate:"gte=0"`
	LaborMinutes int     `json:"laborMinutes" validate:"gte=0"`
	IsActive     *bool   `json:"isActive"`
}

type CampaignRequest struct {
	Name     string     `json:"name" validate:"required,max=200"`
	Source   LeadSource `json:"source" validate:"required"`
	IsActive *bool      `json:"isActive"`
	Notes    string     `json:"notes"`
}

type MarketingSpendRequest struct {
	Month  string  `json:"month" validate:"required"` // YYYY-MM
	Amount float64 `json:"amount" validate:"required,gte=0"`
}

type BusinessIntakeRequest struct {
	CompanyName          string   `json:"companyName" validate:"required,max=200"`
	LicenseNumber        string   `json:"licenseNumber" validate:"omitempty,max=100"`
	ServiceArea          string   `json:"serviceArea" validate:"omitempty,max=500"`
	DefaultTaxRate       *float64 `json:"defaultTaxRate" validate:"omitempty,gte=0,lte=1"`
	DefaultLeadFee       *float64 `json:"defaultLeadFee" validate:"omitempty,gte=0"`
	DefaultEmergencyRate *float64 `json:"defaultEmergencyRate" validate:"omitempty,gte=1"`
}

// --- Notifications ---

type NotificationResponse struct {
	ID         uuid.UUID  `json:"id"`
	Type       string     `json:"type"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Read       bool       `json:"read"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	EntityID   *uuid.UUID `json:"entityId,omitempty"`
	EntityType string     `json:"entityType,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// --- Files ---

type FileResponse struct {
	ID          uuid.UUID `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// --- Analytics ---

type RevenueSummaryResponse struct {
	From            time.Time                `json:"from"`
	To              time.Time                `json:"to"`
	EventRevenue    float64                  `json:"eventRevenue"`
	FallbackRevenue float64                  `json:"fallbackRevenue"`
	TotalRevenue    float64                  `json:"totalRevenue"`
	JobsWithEvents  int                      `json:"jobsWithEvents"`
	JobsFallback    int                      `json:"jobsFallback"`
	ByTechnician    []TechnicianRevenueEntry `json:"byTechnician"`
}

// TechnicianRevenueEntry is the per-technician slice of the reconciliation.
// Completed jobs with no assigned technician fall into a single entry with
// a nil technicianId.
type TechnicianRevenueEntry struct {
	TechnicianID    *uuid.UUID `json:"technicianId"`
	TechnicianName  string     `json:"technicianName,omitempty"`
	EventRevenue    float64    `json:"eventRevenue"`
	FallbackRevenue float64    `json:"fallbackRevenue"`
	TotalRevenue    float64    `json:"totalRevenue"`
	JobsWithEvents  int        `json:"jobsWithEvents"`
	JobsFallback    int        `json:"jobsFallback"`
}

type MarketingROIEntry struct {
	CampaignID    uuid.UUID  `json:"campaignId"`
	CampaignName  string     `json:"campaignName"`
	Source        LeadSource `json:"source"`
	Spend         float64    `json:"spend"`
	Leads         int        `json:"leads"`
	ConvertedJobs int        `json:"convertedJobs"`
	Revenue       float64    `json:"revenue"`
	CostPerLead   float64    `json:"costPerLead"`
	ROI           float64    `json:"roi"`
}

type DashboardResponse struct {
	OpenJobs         int     `json:"openJobs"`
	JobsToday        int     `json:"jobsToday"`
	CompletedThisWeek int    `json:"completedThisWeek"`
	NewLeads         int     `json:"newLeads"`
	SLABreaches      int     `json:"slaBreaches"`
	OpenQuotes       int     `json:"openQuotes"`
	QuoteAcceptRate  float64 `json:"quoteAcceptRate"`
	RevenueThisMonth float64 `json:"revenueThisMonth"`
}

// --- Common list wrapper ---

type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}
