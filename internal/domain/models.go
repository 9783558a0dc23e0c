package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns a UUID when the caller didn't set one. IDs are
// generated app-side so the same models work against Postgres in production
// and sqlite in tests.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// UserRole represents the role of a user in the system
type UserRole string

const (
	RoleAdmin       UserRole = "admin"
	RoleDispatcher  UserRole = "dispatcher"
	RoleTechnician  UserRole = "technician"
	RoleSalesperson UserRole = "salesperson"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDispatcher, RoleTechnician, RoleSalesperson:
		return true
	}
	return false
}

// User represents an authenticated user of the system
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(255);not null;column:password_hash"`
	DisplayName  string     `gorm:"type:varchar(200);not null;column:display_name"`
	Phone        string     `gorm:"type:varchar(50)"`
	Role         UserRole   `gorm:"type:varchar(50);not null;index"`
	IsActive     bool       `gorm:"not null;default:true;column:is_active"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// TechnicianStatus represents the duty status of a technician
type TechnicianStatus string

const (
	TechnicianStatusAvailable TechnicianStatus = "available"
	TechnicianStatusBusy      TechnicianStatus = "busy"
	TechnicianStatusOffDuty   TechnicianStatus = "off_duty"
	TechnicianStatusOnBreak   TechnicianStatus = "on_break"
)

// IsValid checks if the TechnicianStatus is a valid enum value
func (s TechnicianStatus) IsValid() bool {
	switch s {
	case TechnicianStatusAvailable, TechnicianStatusBusy, TechnicianStatusOffDuty, TechnicianStatusOnBreak:
		return true
	}
	return false
}

// TechnicianClassification represents the trade classification of a technician
type TechnicianClassification string

const (
	ClassificationApprentice TechnicianClassification = "apprentice"
	ClassificationJourneyman TechnicianClassification = "journeyman"
	ClassificationMaster     TechnicianClassification = "master"
)

// Technician represents a field technician profile
type Technician struct {
	BaseModel
	UserID         uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex;column:user_id"`
	User           *User                    `gorm:"foreignKey:UserID"`
	Status         TechnicianStatus         `gorm:"type:varchar(50);not null;default:'available';index"`
	Classification TechnicianClassification `gorm:"type:varchar(50);not null;default:'journeyman'"`
	CommissionRate float64                  `gorm:"type:decimal(5,4);not null;default:0;column:commission_rate"`
	HourlyRate     float64                  `gorm:"type:decimal(10,2);not null;default:0;column:hourly_rate"`
	EmergencyRate  float64                  `gorm:"type:decimal(5,2);not null;default:1.5;column:emergency_rate"` // multiplier on hourly rate
	LeadFee        float64                  `gorm:"type:decimal(10,2);not null;default:0;column:lead_fee"`        // flat per-job deduction
	MaxDailyJobs   int                      `gorm:"not null;default:8;column:max_daily_jobs"`
	ServiceTypes   string                   `gorm:"type:varchar(500);column:service_types"` // comma-separated approved service types
}

// Salesperson represents a sales profile. Commission is computed on net
// profit, not revenue (unlike technician commission).
type Salesperson struct {
	BaseModel
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:user_id"`
	User           *User     `gorm:"foreignKey:UserID"`
	CommissionRate float64   `gorm:"type:decimal(5,4);not null;default:0;column:commission_rate"`
	Territory      string    `gorm:"type:varchar(200)"`
	IsActive       bool      `gorm:"not null;default:true;column:is_active"`
}

// LeadSource represents where an inbound lead originated
type LeadSource string

const (
	LeadSourceELocal    LeadSource = "elocal"
	LeadSourceNetworx   LeadSource = "networx"
	LeadSourceAngi      LeadSource = "angi"
	LeadSourceThumbtack LeadSource = "thumbtack"
	LeadSourceInquirly  LeadSource = "inquirly"
	LeadSourceZapier    LeadSource = "zapier"
	LeadSourceWebsite   LeadSource = "website"
	LeadSourcePhone     LeadSource = "phone"
	LeadSourceReferral  LeadSource = "referral"
	LeadSourceOther     LeadSource = "other"
)

// IsValid checks if the LeadSource is a valid enum value
func (s LeadSource) IsValid() bool {
	switch s {
	case LeadSourceELocal, LeadSourceNetworx, LeadSourceAngi, LeadSourceThumbtack,
		LeadSourceInquirly, LeadSourceZapier, LeadSourceWebsite, LeadSourcePhone,
		LeadSourceReferral, LeadSourceOther:
		return true
	}
	return false
}

// LeadStatus represents the qualification pipeline of a lead
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusScheduled LeadStatus = "scheduled"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
	LeadStatusDuplicate LeadStatus = "duplicate"
	LeadStatusSpam      LeadStatus = "spam"
)

// IsValid checks if the LeadStatus is a valid enum value
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusScheduled,
		LeadStatusConverted, LeadStatusLost, LeadStatusDuplicate, LeadStatusSpam:
		return true
	}
	return false
}

// IsTerminal reports whether the lead status is a pipeline exit
func (s LeadStatus) IsTerminal() bool {
	switch s {
	case LeadStatusConverted, LeadStatusLost, LeadStatusDuplicate, LeadStatusSpam:
		return true
	}
	return false
}

// Lead represents an inbound customer inquiry before it becomes billable work
type Lead struct {
	BaseModel
	Name           string     `gorm:"type:varchar(200);not null"`
	Phone          string     `gorm:"type:varchar(50);index"`
	Email          string     `gorm:"type:varchar(255);index"`
	Address        string     `gorm:"type:varchar(500)"`
	City           string     `gorm:"type:varchar(100)"`
	PostalCode     string     `gorm:"type:varchar(20)"`
	ServiceType    string     `gorm:"type:varchar(100);column:service_type"`
	Description    string     `gorm:"type:text"`
	Source         LeadSource `gorm:"type:varchar(50);not null;default:'other';index"`
	Status         LeadStatus `gorm:"type:varchar(50);not null;default:'new';index"`
	Score          int        `gorm:"not null;default:0"`
	SLADeadline    *time.Time `gorm:"column:sla_deadline"`
	SLABreached    bool       `gorm:"not null;default:false;column:sla_breached"`
	DuplicateOfID  *uuid.UUID `gorm:"type:uuid;column:duplicate_of_id"`
	ConvertedJobID *uuid.UUID `gorm:"type:uuid;column:converted_job_id"`
	RawPayload     string     `gorm:"type:jsonb;column:raw_payload"` // original webhook payload, kept opaque
}

// JobPriority represents the urgency of a job
type JobPriority string

const (
	JobPriorityLow    JobPriority = "low"
	JobPriorityMedium JobPriority = "medium"
	JobPriorityHigh   JobPriority = "high"
	JobPriorityUrgent JobPriority = "urgent"
)

// IsEmergency reports whether jobs of this priority are paid at the
// emergency hourly rate.
func (p JobPriority) IsEmergency() bool {
	return p == JobPriorityHigh || p == JobPriorityUrgent
}

// JobStatus represents the lifecycle status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusAssigned   JobStatus = "assigned"
	JobStatusConfirmed  JobStatus = "confirmed"
	JobStatusEnRoute    JobStatus = "en_route"
	JobStatusOnSite     JobStatus = "on_site"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// IsValid checks if the JobStatus is a valid enum value
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusAssigned, JobStatusConfirmed, JobStatusEnRoute,
		JobStatusOnSite, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the job lifecycle
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// Job represents a scheduled/worked service engagement, the central work order
type Job struct {
	BaseModel
	CustomerName  string      `gorm:"type:varchar(200);not null;column:customer_name"`
	CustomerPhone string      `gorm:"type:varchar(50);column:customer_phone"`
	CustomerEmail string      `gorm:"type:varchar(255);column:customer_email"`
	Address       string      `gorm:"type:varchar(500);not null"`
	City          string      `gorm:"type:varchar(100)"`
	PostalCode    string      `gorm:"type:varchar(20)"`
	Latitude      *float64    `gorm:"type:decimal(9,6)"`
	Longitude     *float64    `gorm:"type:decimal(9,6)"`
	ServiceType   string      `gorm:"type:varchar(100);not null;column:service_type"`
	Description   string      `gorm:"type:text"`
	Priority      JobPriority `gorm:"type:varchar(20);not null;default:'medium';index"`
	Status        JobStatus   `gorm:"type:varchar(50);not null;default:'pending';index"`

	AssignedTechnicianID *uuid.UUID   `gorm:"type:uuid;index;column:assigned_technician_id"`
	AssignedTechnician   *Technician  `gorm:"foreignKey:AssignedTechnicianID"`
	SalespersonID        *uuid.UUID   `gorm:"type:uuid;index;column:salesperson_id"`
	Salesperson          *Salesperson `gorm:"foreignKey:SalespersonID"`
	LeadID               *uuid.UUID   `gorm:"type:uuid;index;column:lead_id"`

	ScheduledAt       *time.Time `gorm:"column:scheduled_at;index"`
	EstimatedDuration int        `gorm:"not null;default:60;column:estimated_duration"` // minutes
	StartedAt         *time.Time `gorm:"column:started_at"`
	CompletedAt       *time.Time `gorm:"column:completed_at"`
	CancelReason      string     `gorm:"type:varchar(500);column:cancel_reason"`

	// Arrival verification, captured on the en_route -> on_site transition
	ArrivalLat      *float64   `gorm:"type:decimal(9,6);column:arrival_lat"`
	ArrivalLng      *float64   `gorm:"type:decimal(9,6);column:arrival_lng"`
	ArrivalDistance *float64   `gorm:"type:decimal(10,2);column:arrival_distance"` // meters
	ArrivalVerified bool       `gorm:"not null;default:false;column:arrival_verified"`
	ArrivalAt       *time.Time `gorm:"column:arrival_at"`

	// Financials
	LaborCost     float64 `gorm:"type:decimal(12,2);not null;default:0;column:labor_cost"`
	MaterialsCost float64 `gorm:"type:decimal(12,2);not null;default:0;column:materials_cost"`
	TravelExpense float64 `gorm:"type:decimal(12,2);not null;default:0;column:travel_expense"`
	EquipmentCost float64 `gorm:"type:decimal(12,2);not null;default:0;column:equipment_cost"`
	OtherExpenses float64 `gorm:"type:decimal(12,2);not null;default:0;column:other_expenses"`
	TotalRevenue  float64 `gorm:"type:decimal(12,2);not null;default:0;column:total_revenue"`
}

// TotalCost sums all cost components of the job
func (j *Job) TotalCost() float64 {
	return j.LaborCost + j.MaterialsCost + j.TravelExpense + j.EquipmentCost + j.OtherExpenses
}

// Profit is revenue minus total cost. Derived, never stored.
func (j *Job) Profit() float64 {
	return j.TotalRevenue - j.TotalCost()
}

// WorkedHours returns actual hours when both timestamps are present, falling
// back to the estimate otherwise.
func (j *Job) WorkedHours() float64 {
	if j.StartedAt != nil && j.CompletedAt != nil && j.CompletedAt.After(*j.StartedAt) {
		return j.CompletedAt.Sub(*j.StartedAt).Hours()
	}
	return float64(j.EstimatedDuration) / 60.0
}

// IsPoolJob reports whether the job is visible for technician self-claiming
func (j *Job) IsPoolJob() bool {
	return j.Status == JobStatusPending && j.AssignedTechnicianID == nil
}

// QuoteStatus represents the lifecycle status of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusViewed   QuoteStatus = "viewed"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusDeclined QuoteStatus = "declined"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// IsValid checks if the QuoteStatus is a valid enum value
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusViewed,
		QuoteStatusAccepted, QuoteStatusDeclined, QuoteStatusExpired:
		return true
	}
	return false
}

// IsOpen reports whether the quote can still be accepted or declined
func (s QuoteStatus) IsOpen() bool {
	return s == QuoteStatusSent || s == QuoteStatusViewed
}

// QuoteLineItem is a priced item on a quote. Line items are persisted as a
// serialized JSON column on the quote, and totals are recomputed server-side
// from the parsed list on every write.
type QuoteLineItem struct {
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	PricebookCode string  `json:"pricebookCode,omitempty"`
}

// Total returns quantity * unit price
func (li QuoteLineItem) Total() float64 {
	return li.Quantity * li.UnitPrice
}

// QuoteLaborEntry is a labor charge on a quote
type QuoteLaborEntry struct {
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	Rate        float64 `json:"rate"`
}

// Total returns hours * rate
func (le QuoteLaborEntry) Total() float64 {
	return le.Hours * le.Rate
}

// Quote represents a priced proposal sent to a customer
type Quote struct {
	BaseModel
	JobID         *uuid.UUID  `gorm:"type:uuid;index;column:job_id"`
	Job           *Job        `gorm:"foreignKey:JobID"`
	CustomerName  string      `gorm:"type:varchar(200);not null;column:customer_name"`
	CustomerPhone string      `gorm:"type:varchar(50);column:customer_phone"`
	CustomerEmail string      `gorm:"type:varchar(255);column:customer_email"`
	Title         string      `gorm:"type:varchar(200);not null"`
	Status        QuoteStatus `gorm:"type:varchar(50);not null;default:'draft';index"`

	LineItemsJSON    string `gorm:"type:jsonb;column:line_items"`
	LaborEntriesJSON string `gorm:"type:jsonb;column:labor_entries"`

	Subtotal   float64 `gorm:"type:decimal(12,2);not null;default:0"`
	LaborTotal float64 `gorm:"type:decimal(12,2);not null;default:0;column:labor_total"`
	TaxRate    float64 `gorm:"type:decimal(5,4);not null;default:0;column:tax_rate"`
	TaxAmount  float64 `gorm:"type:decimal(12,2);not null;default:0;column:tax_amount"`
	Total      float64 `gorm:"type:decimal(12,2);not null;default:0"`

	// Public customer-facing access
	AccessToken   *string    `gorm:"type:varchar(100);uniqueIndex;column:access_token"`
	SentAt        *time.Time `gorm:"column:sent_at"`
	ViewedAt      *time.Time `gorm:"column:viewed_at"`
	RespondedAt   *time.Time `gorm:"column:responded_at"`
	ExpiresAt     *time.Time `gorm:"column:expires_at"`
	DeclineReason string     `gorm:"type:varchar(500);column:decline_reason"`

	// Customer contact consent, captured on acceptance
	SMSOptIn                bool `gorm:"not null;default:false;column:sms_opt_in"`
	SMSOwnershipConfirmed   bool `gorm:"not null;default:false;column:sms_ownership_confirmed"`
	EmailOptIn              bool `gorm:"not null;default:false;column:email_opt_in"`
	EmailOwnershipConfirmed bool `gorm:"not null;default:false;column:email_ownership_confirmed"`
}

// CommissionStatus represents the payment state of a sales commission
type CommissionStatus string

const (
	CommissionStatusPending  CommissionStatus = "pending"
	CommissionStatusApproved CommissionStatus = "approved"
	CommissionStatusPaid     CommissionStatus = "paid"
)

// SalesCommission is a point-in-time commission snapshot, one row per
// completed job per salesperson. The rate is copied at calculation time so
// later rate changes never alter past commissions.
type SalesCommission struct {
	BaseModel
	JobID            uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex;column:job_id"`
	Job              *Job             `gorm:"foreignKey:JobID"`
	SalespersonID    uuid.UUID        `gorm:"type:uuid;not null;index;column:salesperson_id"`
	Salesperson      *Salesperson     `gorm:"foreignKey:SalespersonID"`
	NetProfit        float64          `gorm:"type:decimal(12,2);not null;column:net_profit"`
	CommissionRate   float64          `gorm:"type:decimal(5,4);not null;column:commission_rate"`
	CommissionAmount float64          `gorm:"type:decimal(12,2);not null;column:commission_amount"`
	Status           CommissionStatus `gorm:"type:varchar(50);not null;default:'pending';index"`
	CalculatedAt     time.Time        `gorm:"not null;column:calculated_at"`
}

// PayrollStatement is a persisted payroll-run snapshot for one technician
// over one period. Statements are immutable once generated; later edits to
// the underlying jobs do not change them.
type PayrollStatement struct {
	BaseModel
	TechnicianID     uuid.UUID   `gorm:"type:uuid;not null;index;column:technician_id"`
	Technician       *Technician `gorm:"foreignKey:TechnicianID"`
	PeriodStart      time.Time   `gorm:"type:date;not null;column:period_start"`
	PeriodEnd        time.Time   `gorm:"type:date;not null;column:period_end"`
	JobCount         int         `gorm:"not null;column:job_count"`
	RegularHours     float64     `gorm:"type:decimal(8,2);not null;column:regular_hours"`
	EmergencyHours   float64     `gorm:"type:decimal(8,2);not null;column:emergency_hours"`
	RegularPay       float64     `gorm:"type:decimal(12,2);not null;column:regular_pay"`
	EmergencyPay     float64     `gorm:"type:decimal(12,2);not null;column:emergency_pay"`
	CommissionEarned float64     `gorm:"type:decimal(12,2);not null;column:commission_earned"`
	GrossPay         float64     `gorm:"type:decimal(12,2);not null;column:gross_pay"`
	LeadFees         float64     `gorm:"type:decimal(12,2);not null;column:lead_fees"`
	EstimatedTax     float64     `gorm:"type:decimal(12,2);not null;column:estimated_tax"`
	NetPay           float64     `gorm:"type:decimal(12,2);not null;column:net_pay"`
	GeneratedAt      time.Time   `gorm:"not null;column:generated_at"`
	GeneratedByID    *uuid.UUID  `gorm:"type:uuid;column:generated_by_id"`
}

// RevenueEvent is an authoritative revenue record for a job. When present it
// supersedes the job's own revenue fields in analytics.
type RevenueEvent struct {
	BaseModel
	JobID        uuid.UUID  `gorm:"type:uuid;not null;index;column:job_id"`
	Job          *Job       `gorm:"foreignKey:JobID"`
	Amount       float64    `gorm:"type:decimal(12,2);not null"`
	OccurredAt   time.Time  `gorm:"not null;column:occurred_at"`
	RecordedByID *uuid.UUID `gorm:"type:uuid;column:recorded_by_id"`
	Notes        string     `gorm:"type:text"`
}

// CallOutcome represents the result of an inbound call
type CallOutcome string

const (
	CallOutcomeAnswered  CallOutcome = "answered"
	CallOutcomeMissed    CallOutcome = "missed"
	CallOutcomeVoicemail CallOutcome = "voicemail"
	CallOutcomeBooked    CallOutcome = "booked"
)

// Call represents an inbound phone call record
type Call struct {
	BaseModel
	CallerName       string      `gorm:"type:varchar(200);column:caller_name"`
	CallerNumber     string      `gorm:"type:varchar(50);not null;column:caller_number;index"`
	DurationSeconds  int         `gorm:"not null;default:0;column:duration_seconds"`
	Outcome          CallOutcome `gorm:"type:varchar(50);not null;default:'answered'"`
	Notes            string      `gorm:"type:text"`
	LeadID           *uuid.UUID  `gorm:"type:uuid;column:lead_id"`
	ConvertedQuoteID *uuid.UUID  `gorm:"type:uuid;column:converted_quote_id"`
	OccurredAt       time.Time   `gorm:"not null;column:occurred_at;index"`
}

// NotificationType represents the type of notification
type NotificationType string

const (
	NotificationTypeJobAssigned   NotificationType = "job_assigned"
	NotificationTypeJobStatus     NotificationType = "job_status_changed"
	NotificationTypeJobCompleted  NotificationType = "job_completed"
	NotificationTypeQuoteAccepted NotificationType = "quote_accepted"
	NotificationTypeQuoteDeclined NotificationType = "quote_declined"
	NotificationTypeLeadAssigned  NotificationType = "lead_assigned"
	NotificationTypeSLABreach     NotificationType = "lead_sla_breach"
	NotificationTypeCommission    NotificationType = "commission_recorded"
)

// Notification represents a user inbox item with read/unread state and an
// optional deep-link target
type Notification struct {
	BaseModel
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Type       string    `gorm:"type:varchar(50);not null"`
	Title      string    `gorm:"type:varchar(200);not null"`
	Message    string    `gorm:"type:varchar(500);not null"`
	Read       bool      `gorm:"column:read;not null;default:false;index"`
	ReadAt     *time.Time
	EntityID   *uuid.UUID `gorm:"type:uuid"`
	EntityType string     `gorm:"type:varchar(50)"`
}

// PricebookItem represents a service catalog entry
type PricebookItem struct {
	BaseModel
	Code         string  `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string  `gorm:"type:varchar(200);not null"`
	Category     string  `gorm:"type:varchar(100);index"`
	Description  string  `gorm:"type:text"`
	UnitPrice    float64 `gorm:"type:decimal(12,2);not null;column:unit_price"`
	LaborMinutes int     `gorm:"not null;default:0;column:labor_minutes"`
	IsActive     bool    `gorm:"not null;default:true;column:is_active"`
}

// Campaign represents a marketing campaign tracked for ROI
type Campaign struct {
	BaseModel
	Name     string           `gorm:"type:varchar(200);not null"`
	Source   LeadSource       `gorm:"type:varchar(50);not null;index"`
	IsActive bool             `gorm:"not null;default:true;column:is_active"`
	Notes    string           `gorm:"type:text"`
	Spend    []MarketingSpend `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE"`
}

// MarketingSpend records monthly spend for a campaign
type MarketingSpend struct {
	BaseModel
	CampaignID uuid.UUID `gorm:"type:uuid;not null;index;column:campaign_id"`
	Month      time.Time `gorm:"type:date;not null"` // first day of month
	Amount     float64   `gorm:"type:decimal(12,2);not null"`
}

// BusinessIntake is the business profile row. A single record feeds the
// defaults used by payroll and quote tax computation.
type BusinessIntake struct {
	BaseModel
	CompanyName          string  `gorm:"type:varchar(200);not null;column:company_name"`
	LicenseNumber        string  `gorm:"type:varchar(100);column:license_number"`
	ServiceArea          string  `gorm:"type:varchar(500);column:service_area"`
	DefaultTaxRate       float64 `gorm:"type:decimal(5,4);not null;default:0;column:default_tax_rate"`
	DefaultLeadFee       float64 `gorm:"type:decimal(10,2);not null;default:0;column:default_lead_fee"`
	DefaultEmergencyRate float64 `gorm:"type:decimal(5,2);not null;default:1.5;column:default_emergency_rate"`
}

// File represents an uploaded file (job-site photo or quote attachment)
type File struct {
	BaseModel
	Filename     string     `gorm:"type:varchar(255);not null"`
	ContentType  string     `gorm:"type:varchar(100);not null"`
	Size         int64      `gorm:"not null"`
	StoragePath  string     `gorm:"type:varchar(500);not null;unique"`
	JobID        *uuid.UUID `gorm:"type:uuid;index;column:job_id"`
	QuoteID      *uuid.UUID `gorm:"type:uuid;index;column:quote_id"`
	UploadedByID *uuid.UUID `gorm:"type:uuid;column:uploaded_by_id"`
}
