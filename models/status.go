package models

type (
	Role           string // Роль пользователя
	BusinessType   string // Классификация поставщика
	VendorStatus   string
	TenderStatus   string
	Category       string
	BidStatus      string
	PaymentStatus  string
	PaymentMethod  string
	InvoiceStatus  string
	ScheduleStatus string
	Frequency      string
)

const (
	RoleAdmin              Role = "admin"
	RoleProcurementOfficer Role = "procurement_officer"
	RoleFinanceOfficer     Role = "finance_officer"
	RoleVendor             Role = "vendor"
)

const (
	BusinessMSE   BusinessType = "MSE"
	BusinessLarge BusinessType = "Large Enterprise"
)

const (
	VendorPending   VendorStatus = "Pending"
	VendorActive    VendorStatus = "Active"
	VendorSuspended VendorStatus = "Suspended"
)

const (
	TenderDraft       TenderStatus = "draft"
	TenderPublished   TenderStatus = "published"
	TenderUnderReview TenderStatus = "under_review"
	TenderAwarded     TenderStatus = "awarded"
	TenderCancelled   TenderStatus = "cancelled"
)

const (
	CategoryGoods    Category = "goods"
	CategoryServices Category = "services"
	CategoryWorks    Category = "works"
)

const (
	BidSubmitted   BidStatus = "submitted"
	BidUnderReview BidStatus = "under_review"
	BidAccepted    BidStatus = "accepted"
	BidRejected    BidStatus = "rejected"
)

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
)

const (
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodCheck        PaymentMethod = "check"
	MethodCreditCard   PaymentMethod = "credit_card"
)

const (
	InvoicePending  InvoiceStatus = "pending"
	InvoiceApproved InvoiceStatus = "approved"
	InvoiceRejected InvoiceStatus = "rejected"
	InvoicePaid     InvoiceStatus = "paid"
)

const (
	ScheduleScheduled ScheduleStatus = "scheduled"
	ScheduleExecuted  ScheduleStatus = "executed"
	ScheduleCancelled ScheduleStatus = "cancelled"
)

const (
	FrequencyOnce      Frequency = "once"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
)

// IsStaff возвращает true для сотрудников NEEPCO
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleProcurementOfficer, RoleFinanceOfficer:
		return true
	default:
		return false
	}
}

func ValidRole(r Role) bool {
	return r == RoleVendor || r.IsStaff()
}

// Допустимые переходы статусов. Повторная установка текущего статуса разрешена везде.
var (
	tenderTransitions = map[TenderStatus][]TenderStatus{
		TenderDraft:       {TenderPublished, TenderCancelled},
		TenderPublished:   {TenderUnderReview, TenderCancelled},
		TenderUnderReview: {TenderAwarded, TenderCancelled},
	}
	bidTransitions = map[BidStatus][]BidStatus{
		BidSubmitted:   {BidUnderReview, BidAccepted, BidRejected},
		BidUnderReview: {BidAccepted, BidRejected},
	}
	paymentTransitions = map[PaymentStatus][]PaymentStatus{
		PaymentPending:    {PaymentProcessing, PaymentCompleted, PaymentFailed},
		PaymentProcessing: {PaymentCompleted, PaymentFailed},
		PaymentFailed:     {PaymentPending},
	}
	invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
		InvoicePending:  {InvoiceApproved, InvoiceRejected},
		InvoiceApproved: {InvoicePaid},
	}
	scheduleTransitions = map[ScheduleStatus][]ScheduleStatus{
		ScheduleScheduled: {ScheduleExecuted, ScheduleCancelled},
	}
)

func canTransition[S comparable](table map[S][]S, from, to S) bool {
	if from == to {
		return true
	}
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s TenderStatus) CanTransitionTo(next TenderStatus) bool {
	return canTransition(tenderTransitions, s, next)
}

// AcceptsBids: предложения принимаются только по опубликованному тендеру
func (s TenderStatus) AcceptsBids() bool {
	return s == TenderPublished
}

func (s BidStatus) CanTransitionTo(next BidStatus) bool {
	return canTransition(bidTransitions, s, next)
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	return canTransition(paymentTransitions, s, next)
}

func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	return canTransition(invoiceTransitions, s, next)
}

func (s ScheduleStatus) CanTransitionTo(next ScheduleStatus) bool {
	return canTransition(scheduleTransitions, s, next)
}
