package handlers

import (
	"context"

	"procurement/db"
	"procurement/models"
)

type StorageInterface interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)

	CreateVendor(ctx context.Context, v *models.Vendor) error
	GetVendor(ctx context.Context, id int) (*models.Vendor, error)
	VendorIDForUser(ctx context.Context, userID int) (int, error)
	ListVendors(ctx context.Context, f db.VendorFilter, limit, offset int) ([]models.Vendor, error)
	UpdateVendor(ctx context.Context, v *models.Vendor) error
	DeleteVendor(ctx context.Context, id int) error

	CreateTender(ctx context.Context, t *models.Tender) error
	GetTender(ctx context.Context, id int) (*models.Tender, error)
	ListTenders(ctx context.Context, f db.TenderFilter, limit, offset int) ([]models.Tender, error)
	UpdateTender(ctx context.Context, t *models.Tender) error
	DeleteTender(ctx context.Context, id int) error

	CreateBid(ctx context.Context, b *models.Bid) error
	GetBid(ctx context.Context, id int) (*models.BidView, error)
	ListBidsForTender(ctx context.Context, tenderID, limit, offset int) ([]models.BidView, error)
	ListBidsForVendor(ctx context.Context, vendorID, limit, offset int) ([]models.BidView, error)
	UpdateBid(ctx context.Context, b *models.Bid) error

	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPayment(ctx context.Context, id int) (*models.PaymentView, error)
	ListPayments(ctx context.Context, f db.PaymentFilter, limit, offset int) ([]models.PaymentView, error)
	UpdatePayment(ctx context.Context, p *models.Payment) error

	CreateInvoice(ctx context.Context, inv *models.Invoice) error
	GetInvoice(ctx context.Context, id int) (*models.InvoiceView, error)
	ListInvoices(ctx context.Context, f db.InvoiceFilter, limit, offset int) ([]models.InvoiceView, error)
	UpdateInvoice(ctx context.Context, inv *models.Invoice) error

	CreatePaymentSchedule(ctx context.Context, ps *models.PaymentSchedule) error
	GetPaymentSchedule(ctx context.Context, id int) (*models.PaymentSchedule, error)
	ListPaymentSchedules(ctx context.Context, f db.ScheduleFilter, limit, offset int) ([]models.PaymentSchedule, error)
	UpdatePaymentSchedule(ctx context.Context, ps *models.PaymentSchedule) error

	CreateNotification(ctx context.Context, n *models.Notification) error
	GetNotification(ctx context.Context, id int) (*models.Notification, error)
	ListNotifications(ctx context.Context, userID int, unreadOnly bool, limit, offset int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int) (*models.Notification, error)
}
