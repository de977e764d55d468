package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =============================== Enums ================================== */

// Role defines the type of user in the system.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleAttorney  Role = "ATTORNEY"
	RoleParalegal Role = "PARALEGAL"
	RoleViewer    Role = "VIEWER"
)

// CaseType classifies the kind of legal matter.
type CaseType string

const (
	CaseLitigation    CaseType = "LITIGATION"
	CaseInvestigative CaseType = "INVESTIGATION"
	CaseRegulatory    CaseType = "REGULATORY"
	CaseDispute       CaseType = "DISPUTE"
)

// CaseStatus defines lifecycle states for a case. Any state may follow any
// other; status is set directly by PATCH with no transition table.
type CaseStatus string

const (
	CaseIntake        CaseStatus = "INTAKE"
	CaseInvestigation CaseStatus = "INVESTIGATION"
	CaseActive        CaseStatus = "ACTIVE"
	CaseClosed        CaseStatus = "CLOSED"
)

// Priority is shared by cases and diary entries.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// InvoiceStatus defines lifecycle states for an invoice.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "DRAFT"
	InvoiceSent  InvoiceStatus = "SENT"
	InvoicePaid  InvoiceStatus = "PAID"
	InvoiceVoid  InvoiceStatus = "VOID"
)

// ExpenseStatus defines lifecycle states for an expense.
type ExpenseStatus string

const (
	ExpenseRecorded   ExpenseStatus = "RECORDED"
	ExpenseReimbursed ExpenseStatus = "REIMBURSED"
)

// ExpenseCategory classifies an expense.
type ExpenseCategory string

const (
	ExpenseCourtFee ExpenseCategory = "COURT_FEE"
	ExpenseTravel   ExpenseCategory = "TRAVEL"
	ExpenseFiling   ExpenseCategory = "FILING"
	ExpenseOther    ExpenseCategory = "OTHER"
)

// RateType is how a lawyer charges.
type RateType string

const (
	RateHourly      RateType = "HOURLY"
	RateFlat        RateType = "FLAT"
	RateContingency RateType = "CONTINGENCY"
)

// VerificationStatus of a lawyer profile.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// BookingStatus defines lifecycle states for a booking.
type BookingStatus string

const (
	BookingRequested BookingStatus = "REQUESTED"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingDeclined  BookingStatus = "DECLINED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// IntakeStatus defines lifecycle states for an intake form.
type IntakeStatus string

const (
	IntakeNew      IntakeStatus = "NEW"
	IntakeInReview IntakeStatus = "IN_REVIEW"
	IntakeApproved IntakeStatus = "APPROVED"
	IntakeDeclined IntakeStatus = "DECLINED"
)

/* ========================= Embedded value types ========================= */

// Party is a named participant on a case.
type Party struct {
	Name string `json:"name"`
	Role string `json:"role"` // PLAINTIFF | DEFENDANT | CLIENT | OTHER
}

// InvoiceItem is a single billable line. Total is derived, never client-set.
type InvoiceItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Rate        float64 `json:"rate"`
	Total       float64 `json:"total"`
}

// AvailabilitySlot is a weekly recurring slot on a lawyer profile.
type AvailabilitySlot struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0-6, Sunday first
	StartTime string `json:"startTime"` // HH:mm
	EndTime   string `json:"endTime"`   // HH:mm
	Timezone  string `json:"timezone"`
}

// ReviewsSummary is a denormalized rating rollup on a lawyer profile.
type ReviewsSummary struct {
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

/* =============================== Entities =============================== */

// User represents a member of the firm.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'ATTORNEY'" json:"role"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Case represents a legal matter.
type Case struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string     `gorm:"not null" json:"title"`
	Description  string     `json:"description"`
	CaseType     CaseType   `gorm:"type:varchar(20);not null" json:"caseType"`
	Status       CaseStatus `gorm:"type:varchar(20);default:'INTAKE'" json:"status"`
	Priority     Priority   `gorm:"type:varchar(10);default:'MEDIUM'" json:"priority"`
	Region       string     `json:"region"`
	Jurisdiction string     `json:"jurisdiction"`
	AssignedToID *uuid.UUID `gorm:"type:uuid;index" json:"assignedToId"`
	ClientID     *uuid.UUID `gorm:"type:uuid;index" json:"clientId"`
	Parties      []Party    `gorm:"serializer:json" json:"parties"`
	SLADeadline  *time.Time `json:"slaDeadline"`
	IsLegalHold  bool       `gorm:"default:false" json:"isLegalHold"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"assignedTo,omitempty"`
}

func (c *Case) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Client represents a person or organization the firm works for.
// CaseIDs mirrors Case.ClientID; both sides are kept consistent on attach.
type Client struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string      `gorm:"not null" json:"name"`
	Organization string      `json:"organization"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Notes        string      `json:"notes"`
	CaseIDs      []uuid.UUID `gorm:"serializer:json" json:"caseIds"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (c *Client) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TimeEntry is billable (or non-billable) time logged against a case.
// TotalAmount is always recomputed from hours and rate before save.
type TimeEntry struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CaseID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"caseId"`
	ClientID    *uuid.UUID `gorm:"type:uuid" json:"clientId"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	Description string     `gorm:"not null" json:"description"`
	Rate        float64    `gorm:"not null" json:"rate"`
	Hours       float64    `gorm:"not null" json:"hours"`
	Billable    bool       `gorm:"default:true" json:"billable"`
	Billed      bool       `gorm:"default:false" json:"billed"`
	StartedAt   *time.Time `json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt"`
	TotalAmount float64    `gorm:"not null" json:"totalAmount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Case *Case `gorm:"foreignKey:CaseID" json:"case,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (t *TimeEntry) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Invoice carries derived financial fields. Subtotal, taxAmount, total, and
// each item total are recomputed on every save; client input is ignored.
type Invoice struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ClientID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"clientId"`
	CaseID     *uuid.UUID    `gorm:"type:uuid" json:"caseId"`
	IssuedByID uuid.UUID     `gorm:"type:uuid;not null" json:"issuedById"`
	Items      []InvoiceItem `gorm:"serializer:json" json:"items"`
	TaxRate    float64       `gorm:"default:0" json:"taxRate"`
	Subtotal   float64       `gorm:"not null;default:0" json:"subtotal"`
	TaxAmount  float64       `gorm:"not null;default:0" json:"taxAmount"`
	Total      float64       `gorm:"not null;default:0" json:"total"`
	Status     InvoiceStatus `gorm:"type:varchar(10);default:'DRAFT'" json:"status"`
	DueDate    *time.Time    `json:"dueDate"`
	Currency   string        `gorm:"default:'INR'" json:"currency"`
	GSTNumber  string        `json:"gstNumber"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`

	Client   *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Case     *Case   `gorm:"foreignKey:CaseID" json:"case,omitempty"`
	IssuedBy *User   `gorm:"foreignKey:IssuedByID" json:"issuedBy,omitempty"`
}

func (i *Invoice) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Expense is an out-of-pocket cost incurred on behalf of a case or client.
type Expense struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CaseID       *uuid.UUID      `gorm:"type:uuid" json:"caseId"`
	ClientID     *uuid.UUID      `gorm:"type:uuid" json:"clientId"`
	IncurredByID uuid.UUID       `gorm:"type:uuid;not null" json:"incurredById"`
	Description  string          `gorm:"not null" json:"description"`
	Amount       float64         `gorm:"not null" json:"amount"`
	Category     ExpenseCategory `gorm:"type:varchar(20);default:'OTHER'" json:"category"`
	Billable     bool            `gorm:"default:true" json:"billable"`
	Status       ExpenseStatus   `gorm:"type:varchar(20);default:'RECORDED'" json:"status"`
	ReceiptURL   string          `json:"receiptUrl"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`

	Case       *Case   `gorm:"foreignKey:CaseID" json:"case,omitempty"`
	Client     *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	IncurredBy *User   `gorm:"foreignKey:IncurredByID" json:"incurredBy,omitempty"`
}

func (e *Expense) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// DiaryEntry is a private note scoped to its owner on read.
type DiaryEntry struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	Note      string     `gorm:"not null" json:"note"`
	Date      time.Time  `json:"date"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"ownerId"`
	CaseID    *uuid.UUID `gorm:"type:uuid" json:"caseId"`
	Priority  Priority   `gorm:"type:varchar(10);default:'MEDIUM'" json:"priority"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	Case *Case `gorm:"foreignKey:CaseID" json:"case,omitempty"`
}

func (d *DiaryEntry) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// LawyerProfile is the public marketplace listing, one per user.
type LawyerProfile struct {
	ID                 uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	FullName           string             `gorm:"not null" json:"fullName"`
	Headline           string             `json:"headline"`
	Bio                string             `json:"bio"`
	PracticeAreas      []string           `gorm:"serializer:json" json:"practiceAreas"`
	Jurisdictions      []string           `gorm:"serializer:json" json:"jurisdictions"`
	Languages          []string           `gorm:"serializer:json" json:"languages"`
	RateType           RateType           `gorm:"type:varchar(20);default:'HOURLY'" json:"rateType"`
	RateAmount         float64            `json:"rateAmount"`
	Availability       []AvailabilitySlot `gorm:"serializer:json" json:"availability"`
	YearsExperience    int                `json:"yearsExperience"`
	VerificationStatus VerificationStatus `gorm:"type:varchar(10);default:'PENDING'" json:"verificationStatus"`
	Badges             []string           `gorm:"serializer:json" json:"badges"`
	ReviewsSummary     ReviewsSummary     `gorm:"serializer:json" json:"reviewsSummary"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (p *LawyerProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Booking is a consultation request against a lawyer profile.
// No ordering invariant is enforced between StartsAt and EndsAt.
type Booking struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	LawyerProfileID uuid.UUID     `gorm:"type:uuid;not null;index" json:"lawyerProfileId"`
	CreatedByID     *uuid.UUID    `gorm:"type:uuid" json:"createdById"`
	ContactName     string        `gorm:"not null" json:"contactName"`
	ContactEmail    string        `gorm:"not null" json:"contactEmail"`
	PracticeArea    string        `gorm:"not null" json:"practiceArea"`
	Message         string        `json:"message"`
	StartsAt        time.Time     `gorm:"not null" json:"startsAt"`
	EndsAt          time.Time     `gorm:"not null" json:"endsAt"`
	Timezone        string        `gorm:"not null" json:"timezone"`
	Status          BookingStatus `gorm:"type:varchar(10);default:'REQUESTED'" json:"status"`
	MeetingURL      string        `json:"meetingUrl"`
	RateType        RateType      `gorm:"type:varchar(20);default:'HOURLY'" json:"rateType"`
	PriceQuote      float64       `json:"priceQuote"`
	Currency        string        `gorm:"default:'USD'" json:"currency"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`

	LawyerProfile *LawyerProfile `gorm:"foreignKey:LawyerProfileID" json:"lawyerProfile,omitempty"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// IntakeForm is a public inquiry submitted by a prospective client.
type IntakeForm struct {
	ID                     uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ContactName            string       `gorm:"not null" json:"contactName"`
	ContactEmail           string       `gorm:"not null" json:"contactEmail"`
	PracticeArea           string       `gorm:"not null" json:"practiceArea"`
	CaseType               string       `json:"caseType"`
	Description            string       `json:"description"`
	Budget                 float64      `json:"budget"`
	Urgency                Priority     `gorm:"type:varchar(10);default:'MEDIUM'" json:"urgency"`
	Jurisdiction           string       `json:"jurisdiction"`
	PreferredContactMethod string       `gorm:"default:'EMAIL'" json:"preferredContactMethod"`
	Status                 IntakeStatus `gorm:"type:varchar(10);default:'NEW'" json:"status"`
	Documents              []string     `gorm:"serializer:json" json:"documents"`
	CreatedAt              time.Time    `json:"createdAt"`
	UpdatedAt              time.Time    `json:"updatedAt"`
}

func (f *IntakeForm) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// Document is file metadata for an object stored out of process.
type Document struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CaseID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"caseId"`
	FileName     string     `gorm:"not null" json:"fileName"`
	FileType     string     `json:"fileType"`
	StorageKey   string     `gorm:"not null" json:"storageKey"`
	Size         int64      `json:"size"`
	UploadedByID *uuid.UUID `gorm:"type:uuid" json:"uploadedById"`
	Tags         []string   `gorm:"serializer:json" json:"tags"`
	IsRedacted   bool       `gorm:"default:false" json:"isRedacted"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Case *Case `gorm:"foreignKey:CaseID" json:"case,omitempty"`
}

func (d *Document) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// AuditLog is an append-only record of a mutating action. Entries are written
// once and never updated or deleted by the application.
type AuditLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"actorId"`
	Action     string         `gorm:"type:varchar(50);not null" json:"action"`
	EntityType string         `gorm:"type:varchar(40);not null" json:"entityType"`
	EntityID   *uuid.UUID     `gorm:"type:uuid" json:"entityId"`
	Metadata   map[string]any `gorm:"serializer:json" json:"metadata"`
	CreatedAt  time.Time      `json:"createdAt"`

	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (l *AuditLog) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{}, &Client{}, &Case{}, &TimeEntry{}, &Invoice{}, &Expense{},
		&DiaryEntry{}, &LawyerProfile{}, &Booking{}, &IntakeForm{},
		&Document{}, &AuditLog{},
	}
}
