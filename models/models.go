package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Учётная запись (сотрудник NEEPCO или представитель поставщика)
type User struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	Role         Role      `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Сущность Поставщика
type Vendor struct {
	ID                 int          `db:"id" json:"id"`
	Name               string       `db:"name" json:"name"`
	BusinessType       BusinessType `db:"business_type" json:"businessType"`
	ContactPerson      string       `db:"contact_person" json:"contactPerson"`
	Email              string       `db:"email" json:"email"`
	Phone              string       `db:"phone" json:"phone"`
	Address            string       `db:"address" json:"address"`
	RegistrationNumber *string      `db:"registration_number" json:"registrationNumber,omitempty"`
	Status             VendorStatus `db:"status" json:"status"`
	ComplianceScore    int          `db:"compliance_score" json:"complianceScore"`
	UserID             int          `db:"user_id" json:"userId"`
	CreatedAt          time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time    `db:"updated_at" json:"updatedAt"`
}

// Сущность Тендера
type Tender struct {
	ID                 int             `db:"id" json:"id"`
	Title              string          `db:"title" json:"title"`
	Description        string          `db:"description" json:"description"`
	EstimatedValue     decimal.Decimal `db:"estimated_value" json:"estimatedValue"`
	SubmissionDeadline Date            `db:"submission_deadline" json:"submissionDeadline"`
	Status             TenderStatus    `db:"status" json:"status"`
	Category           Category        `db:"category" json:"category"`
	IsReservedForMSE   bool            `db:"is_reserved_for_mse" json:"isReservedForMSE"`
	CreatedBy          int             `db:"created_by" json:"createdBy"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updatedAt"`
}

// Сущность Предложения
type Bid struct {
	ID                int             `db:"id" json:"id"`
	TenderID          int             `db:"tender_id" json:"tender"`
	VendorID          int             `db:"vendor_id" json:"vendor"`
	Amount            decimal.Decimal `db:"amount" json:"amount"`
	TechnicalProposal string          `db:"technical_proposal" json:"technicalProposal"`
	Status            BidStatus       `db:"status" json:"status"`
	TechnicalScore    *int            `db:"technical_score" json:"technicalScore,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updatedAt"`
}

// BidView - предложение с названием тендера и именем поставщика для списков
type BidView struct {
	Bid
	TenderTitle string `db:"tender_title" json:"tenderTitle"`
	VendorName  string `db:"vendor_name" json:"vendorName"`
}

// Сущность Платежа
type Payment struct {
	ID              int             `db:"id" json:"id"`
	VendorID        int             `db:"vendor_id" json:"vendor"`
	TenderID        *int            `db:"tender_id" json:"tender,omitempty"`
	BidID           *int            `db:"bid_id" json:"bid,omitempty"`
	InvoiceID       *int            `db:"invoice_id" json:"invoice,omitempty"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	Status          PaymentStatus   `db:"status" json:"status"`
	PaymentMethod   PaymentMethod   `db:"payment_method" json:"paymentMethod"`
	ProcessedBy     int             `db:"processed_by" json:"processedBy"`
	PaymentDate     *time.Time      `db:"payment_date" json:"paymentDate,omitempty"`
	ReferenceNumber *string         `db:"reference_number" json:"referenceNumber,omitempty"`
	Remarks         *string         `db:"remarks" json:"remarks,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

type PaymentView struct {
	Payment
	VendorName      string `db:"vendor_name" json:"vendorName"`
	ProcessedByName string `db:"processed_by_name" json:"processedByName"`
}

// Счёт поставщика
type Invoice struct {
	ID            int             `db:"id" json:"id"`
	VendorID      int             `db:"vendor_id" json:"vendor"`
	TenderID      *int            `db:"tender_id" json:"tender,omitempty"`
	InvoiceNumber string          `db:"invoice_number" json:"invoiceNumber"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	IssueDate     Date            `db:"issue_date" json:"issueDate"`
	DueDate       Date            `db:"due_date" json:"dueDate"`
	Status        InvoiceStatus   `db:"status" json:"status"`
	Description   *string         `db:"description" json:"description,omitempty"`
	CreatedBy     int             `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

type InvoiceView struct {
	Invoice
	VendorName string `db:"vendor_name" json:"vendorName"`
}

// График платежей
type PaymentSchedule struct {
	ID            int             `db:"id" json:"id"`
	VendorID      int             `db:"vendor_id" json:"vendor"`
	PaymentID     *int            `db:"payment_id" json:"payment,omitempty"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	ScheduledDate Date            `db:"scheduled_date" json:"scheduledDate"`
	Frequency     Frequency       `db:"frequency" json:"frequency"`
	Status        ScheduleStatus  `db:"status" json:"status"`
	Remarks       *string         `db:"remarks" json:"remarks,omitempty"`
	CreatedBy     int             `db:"created_by" json:"createdBy"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// Уведомление для ленты пользователя
type Notification struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Kind      string    `db:"kind" json:"kind"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
