package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeEmail приводит адрес к виду, в котором он хранится и ищется
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Запросы на создание и частичное обновление.
// В Patch-структурах nil-указатель означает "поле не передано",
// поэтому "" и 0 перезаписывают сохранённое значение.

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=200"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VendorCreate struct {
	Name               string       `json:"name" validate:"required,max=200"`
	BusinessType       BusinessType `json:"businessType" validate:"required,oneof=MSE 'Large Enterprise'"`
	ContactPerson      string       `json:"contactPerson" validate:"required,max=100"`
	Email              string       `json:"email" validate:"required,email,max=200"`
	Phone              string       `json:"phone" validate:"required,max=30"`
	Address            string       `json:"address" validate:"required,max=500"`
	RegistrationNumber *string      `json:"registrationNumber" validate:"omitnil,max=50"`
	UserID             int          `json:"userId" validate:"omitempty,gt=0"` // учитывается только для администратора
}

// NewVendor: статус и рейтинг всегда начальные, независимо от тела запроса
func (c VendorCreate) NewVendor(userID int) *Vendor {
	return &Vendor{
		Name:               c.Name,
		BusinessType:       c.BusinessType,
		ContactPerson:      c.ContactPerson,
		Email:              NormalizeEmail(c.Email),
		Phone:              c.Phone,
		Address:            c.Address,
		RegistrationNumber: c.RegistrationNumber,
		Status:             VendorPending,
		ComplianceScore:    0,
		UserID:             userID,
	}
}

type VendorPatch struct {
	Name               *string          `json:"name" validate:"omitnil,min=1,max=200"`
	BusinessType       *BusinessType    `json:"businessType" validate:"omitnil,oneof=MSE 'Large Enterprise'"`
	ContactPerson      *string          `json:"contactPerson" validate:"omitnil,min=1,max=100"`
	Email              *string          `json:"email" validate:"omitnil,email,max=200"`
	Phone              *string          `json:"phone" validate:"omitnil,max=30"`
	Address            *string          `json:"address" validate:"omitnil,max=500"`
	RegistrationNumber Optional[string] `json:"registrationNumber" validate:"-"`
	Status             *VendorStatus    `json:"status" validate:"omitnil,oneof=Pending Active Suspended"`
	ComplianceScore    *int             `json:"complianceScore" validate:"omitnil,min=0,max=100"`
}

// TouchesStaffFields: статус и рейтинг меняют только сотрудники
func (p VendorPatch) TouchesStaffFields() bool {
	return p.Status != nil || p.ComplianceScore != nil
}

func (p VendorPatch) Apply(v *Vendor) {
	setIf(&v.Name, p.Name)
	setIf(&v.BusinessType, p.BusinessType)
	setIf(&v.ContactPerson, p.ContactPerson)
	if p.Email != nil {
		v.Email = NormalizeEmail(*p.Email)
	}
	setIf(&v.Phone, p.Phone)
	setIf(&v.Address, p.Address)
	p.RegistrationNumber.Apply(&v.RegistrationNumber)
	setIf(&v.Status, p.Status)
	setIf(&v.ComplianceScore, p.ComplianceScore)
}

type TenderCreate struct {
	Title              string          `json:"title" validate:"required,max=200"`
	Description        string          `json:"description" validate:"required,max=5000"`
	EstimatedValue     decimal.Decimal `json:"estimatedValue" validate:"required,gt=0,money"`
	SubmissionDeadline Date            `json:"submissionDeadline" validate:"required"`
	Category           Category        `json:"category" validate:"required,oneof=goods services works"`
	IsReservedForMSE   bool            `json:"isReservedForMSE"`
}

func (c TenderCreate) NewTender(createdBy int) *Tender {
	return &Tender{
		Title:              c.Title,
		Description:        c.Description,
		EstimatedValue:     c.EstimatedValue,
		SubmissionDeadline: c.SubmissionDeadline,
		Status:             TenderDraft,
		Category:           c.Category,
		IsReservedForMSE:   c.IsReservedForMSE,
		CreatedBy:          createdBy,
	}
}

type TenderPatch struct {
	Title              *string          `json:"title" validate:"omitnil,min=1,max=200"`
	Description        *string          `json:"description" validate:"omitnil,max=5000"`
	EstimatedValue     *decimal.Decimal `json:"estimatedValue" validate:"omitnil,gt=0,money"`
	SubmissionDeadline *Date            `json:"submissionDeadline" validate:"omitnil"`
	Status             *TenderStatus    `json:"status" validate:"omitnil,oneof=draft published under_review awarded cancelled"`
	Category           *Category        `json:"category" validate:"omitnil,oneof=goods services works"`
	IsReservedForMSE   *bool            `json:"isReservedForMSE"`
}

func (p TenderPatch) Apply(t *Tender) {
	setIf(&t.Title, p.Title)
	setIf(&t.Description, p.Description)
	setIf(&t.EstimatedValue, p.EstimatedValue)
	setIf(&t.SubmissionDeadline, p.SubmissionDeadline)
	setIf(&t.Status, p.Status)
	setIf(&t.Category, p.Category)
	setIf(&t.IsReservedForMSE, p.IsReservedForMSE)
}

type BidCreate struct {
	TenderID          int             `json:"tender" validate:"required,gt=0"`
	VendorID          int             `json:"vendor" validate:"omitempty,gt=0"` // для поставщика берётся из его учётной записи
	Amount            decimal.Decimal `json:"amount" validate:"required,gt=0,money"`
	TechnicalProposal string          `json:"technicalProposal" validate:"max=10000"`
}

func (c BidCreate) NewBid(vendorID int) *Bid {
	return &Bid{
		TenderID:          c.TenderID,
		VendorID:          vendorID,
		Amount:            c.Amount,
		TechnicalProposal: c.TechnicalProposal,
		Status:            BidSubmitted,
	}
}

type BidPatch struct {
	Amount            *decimal.Decimal `json:"amount" validate:"omitnil,gt=0,money"`
	TechnicalProposal *string          `json:"technicalProposal" validate:"omitnil,max=10000"`
	Status            *BidStatus       `json:"status" validate:"omitnil,oneof=submitted under_review accepted rejected"`
	TechnicalScore    *int             `json:"technicalScore" validate:"omitnil,min=0,max=100"`
}

// TouchesStaffFields: оценку и статус выставляет комиссия
func (p BidPatch) TouchesStaffFields() bool {
	return p.Status != nil || p.TechnicalScore != nil
}

func (p BidPatch) Apply(b *Bid) {
	setIf(&b.Amount, p.Amount)
	setIf(&b.TechnicalProposal, p.TechnicalProposal)
	setIf(&b.Status, p.Status)
	if p.TechnicalScore != nil {
		score := *p.TechnicalScore
		b.TechnicalScore = &score
	}
}

type PaymentCreate struct {
	VendorID        int             `json:"vendor" validate:"required,gt=0"`
	TenderID        *int            `json:"tender" validate:"omitnil,gt=0"`
	BidID           *int            `json:"bid" validate:"omitnil,gt=0"`
	InvoiceID       *int            `json:"invoice" validate:"omitnil,gt=0"`
	Amount          decimal.Decimal `json:"amount" validate:"required,gt=0,money"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod" validate:"required,oneof=bank_transfer check credit_card"`
	ReferenceNumber *string         `json:"referenceNumber" validate:"omitnil,max=100"`
	Remarks         *string         `json:"remarks" validate:"omitnil,max=1000"`
}

func (c PaymentCreate) NewPayment(processedBy int) *Payment {
	return &Payment{
		VendorID:        c.VendorID,
		TenderID:        c.TenderID,
		BidID:           c.BidID,
		InvoiceID:       c.InvoiceID,
		Amount:          c.Amount,
		Status:          PaymentPending,
		PaymentMethod:   c.PaymentMethod,
		ProcessedBy:     processedBy,
		ReferenceNumber: c.ReferenceNumber,
		Remarks:         c.Remarks,
	}
}

type PaymentPatch struct {
	Amount          *decimal.Decimal `json:"amount" validate:"omitnil,gt=0,money"`
	Status          *PaymentStatus   `json:"status" validate:"omitnil,oneof=pending processing completed failed"`
	PaymentMethod   *PaymentMethod   `json:"paymentMethod" validate:"omitnil,oneof=bank_transfer check credit_card"`
	TenderID        Optional[int]    `json:"tender" validate:"-"`
	BidID           Optional[int]    `json:"bid" validate:"-"`
	InvoiceID       Optional[int]    `json:"invoice" validate:"-"`
	ReferenceNumber Optional[string] `json:"referenceNumber" validate:"-"`
	Remarks         Optional[string] `json:"remarks" validate:"-"`
}

func (p PaymentPatch) Apply(pay *Payment) {
	setIf(&pay.Amount, p.Amount)
	setIf(&pay.Status, p.Status)
	setIf(&pay.PaymentMethod, p.PaymentMethod)
	p.TenderID.Apply(&pay.TenderID)
	p.BidID.Apply(&pay.BidID)
	p.InvoiceID.Apply(&pay.InvoiceID)
	p.ReferenceNumber.Apply(&pay.ReferenceNumber)
	p.Remarks.Apply(&pay.Remarks)
}

type InvoiceCreate struct {
	VendorID      int             `json:"vendor" validate:"omitempty,gt=0"`
	TenderID      *int            `json:"tender" validate:"omitnil,gt=0"`
	InvoiceNumber string          `json:"invoiceNumber" validate:"required,max=50"`
	Amount        decimal.Decimal `json:"amount" validate:"required,gt=0,money"`
	IssueDate     Date            `json:"issueDate" validate:"required"`
	DueDate       Date            `json:"dueDate" validate:"required"`
	Description   *string         `json:"description" validate:"omitnil,max=1000"`
}

func (c InvoiceCreate) NewInvoice(vendorID, createdBy int) *Invoice {
	return &Invoice{
		VendorID:      vendorID,
		TenderID:      c.TenderID,
		InvoiceNumber: c.InvoiceNumber,
		Amount:        c.Amount,
		IssueDate:     c.IssueDate,
		DueDate:       c.DueDate,
		Status:        InvoicePending,
		Description:   c.Description,
		CreatedBy:     createdBy,
	}
}

type InvoicePatch struct {
	Amount      *decimal.Decimal `json:"amount" validate:"omitnil,gt=0,money"`
	DueDate     *Date            `json:"dueDate" validate:"omitnil"`
	Status      *InvoiceStatus   `json:"status" validate:"omitnil,oneof=pending approved rejected paid"`
	Description Optional[string] `json:"description" validate:"-"`
}

func (p InvoicePatch) Apply(inv *Invoice) {
	setIf(&inv.Amount, p.Amount)
	setIf(&inv.DueDate, p.DueDate)
	setIf(&inv.Status, p.Status)
	p.Description.Apply(&inv.Description)
}

type PaymentScheduleCreate struct {
	VendorID      int             `json:"vendor" validate:"required,gt=0"`
	PaymentID     *int            `json:"payment" validate:"omitnil,gt=0"`
	Amount        decimal.Decimal `json:"amount" validate:"required,gt=0,money"`
	ScheduledDate Date            `json:"scheduledDate" validate:"required,future"`
	Frequency     Frequency       `json:"frequency" validate:"required,oneof=once monthly quarterly"`
	Remarks       *string         `json:"remarks" validate:"omitnil,max=1000"`
}

func (c PaymentScheduleCreate) NewSchedule(createdBy int) *PaymentSchedule {
	return &PaymentSchedule{
		VendorID:      c.VendorID,
		PaymentID:     c.PaymentID,
		Amount:        c.Amount,
		ScheduledDate: c.ScheduledDate,
		Frequency:     c.Frequency,
		Status:        ScheduleScheduled,
		Remarks:       c.Remarks,
		CreatedBy:     createdBy,
	}
}

type PaymentSchedulePatch struct {
	Amount        *decimal.Decimal `json:"amount" validate:"omitnil,gt=0,money"`
	ScheduledDate *Date            `json:"scheduledDate" validate:"omitnil,future"`
	Frequency     *Frequency       `json:"frequency" validate:"omitnil,oneof=once monthly quarterly"`
	Status        *ScheduleStatus  `json:"status" validate:"omitnil,oneof=scheduled executed cancelled"`
	PaymentID     Optional[int]    `json:"payment" validate:"-"`
	Remarks       Optional[string] `json:"remarks" validate:"-"`
}

func (p PaymentSchedulePatch) Apply(s *PaymentSchedule) {
	setIf(&s.Amount, p.Amount)
	setIf(&s.ScheduledDate, p.ScheduledDate)
	setIf(&s.Frequency, p.Frequency)
	setIf(&s.Status, p.Status)
	p.PaymentID.Apply(&s.PaymentID)
	p.Remarks.Apply(&s.Remarks)
}

type NotificationCreate struct {
	UserID  int    `json:"userId" validate:"required,gt=0"`
	Title   string `json:"title" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=2000"`
	Kind    string `json:"kind" validate:"omitempty,max=50"`
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
