package handlers_test

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"procurement/db"
	"procurement/internal/apperr"
	"procurement/models"
)

// MockStorage реализует StorageInterface в памяти
type MockStorage struct {
	mu     sync.Mutex
	nextID int

	users         map[int]*models.User
	vendors       map[int]*models.Vendor
	tenders       map[int]*models.Tender
	bids          map[int]*models.Bid
	payments      map[int]*models.Payment
	invoices      map[int]*models.Invoice
	schedules     map[int]*models.PaymentSchedule
	notifications map[int]*models.Notification

	pingErr      error
	tenderFilter db.TenderFilter
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		users:         map[int]*models.User{},
		vendors:       map[int]*models.Vendor{},
		tenders:       map[int]*models.Tender{},
		bids:          map[int]*models.Bid{},
		payments:      map[int]*models.Payment{},
		invoices:      map[int]*models.Invoice{},
		schedules:     map[int]*models.PaymentSchedule{},
		notifications: map[int]*models.Notification{},
	}
}

func (m *MockStorage) id() int {
	m.nextID++
	return m.nextID
}

func sortedKeys[V any](src map[int]V) []int {
	keys := make([]int, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	return items[offset:min(len(items), offset+limit)]
}

func (m *MockStorage) Ping(ctx context.Context) error { return m.pingErr }

func (m *MockStorage) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperr.Conflict("user with this email already exists")
		}
	}
	u.ID = m.id()
	u.CreatedAt = time.Now()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MockStorage) GetUser(ctx context.Context, id int) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	cp := *u
	return &cp, nil
}

func (m *MockStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// как в db: lower(email) = $1, адрес уже нормализован
	for _, u := range m.users {
		if strings.ToLower(u.Email) == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func (m *MockStorage) CreateVendor(ctx context.Context, v *models.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.vendors {
		if strings.EqualFold(existing.Email, v.Email) {
			return apperr.Conflict("vendor with this email already exists")
		}
		if existing.UserID == v.UserID {
			return apperr.Conflict("user already owns a vendor record")
		}
	}
	v.ID = m.id()
	v.CreatedAt, v.UpdatedAt = time.Now(), time.Now()
	cp := *v
	m.vendors[v.ID] = &cp
	return nil
}

func (m *MockStorage) GetVendor(ctx context.Context, id int) (*models.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vendors[id]
	if !ok {
		return nil, apperr.NotFound("vendor")
	}
	cp := *v
	return &cp, nil
}

func (m *MockStorage) VendorIDForUser(ctx context.Context, userID int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.vendors {
		if v.UserID == userID {
			return v.ID, nil
		}
	}
	return 0, nil
}

func (m *MockStorage) ListVendors(ctx context.Context, f db.VendorFilter, limit, offset int) ([]models.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Vendor{}
	for _, id := range sortedKeys(m.vendors) {
		v := m.vendors[id]
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.BusinessType != "" && v.BusinessType != f.BusinessType {
			continue
		}
		out = append(out, *v)
	}
	return page(out, limit, offset), nil
}

func (m *MockStorage) UpdateVendor(ctx context.Context, v *models.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vendors[v.ID]; !ok {
		return apperr.NotFound("vendor")
	}
	v.UpdatedAt = time.Now()
	cp := *v
	m.vendors[v.ID] = &cp
	return nil
}

func (m *MockStorage) DeleteVendor(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vendors[id]; !ok {
		return apperr.NotFound("vendor")
	}
	deps := 0
	for _, b := range m.bids {
		if b.VendorID == id {
			deps++
		}
	}
	for _, p := range m.payments {
		if p.VendorID == id {
			deps++
		}
	}
	if deps > 0 {
		return apperr.Conflict("vendor has %d dependent records", deps)
	}
	delete(m.vendors, id)
	return nil
}

func (m *MockStorage) CreateTender(ctx context.Context, t *models.Tender) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.ID = m.id()
	t.CreatedAt, t.UpdatedAt = time.Now(), time.Now()
	cp := *t
	m.tenders[t.ID] = &cp
	return nil
}

func (m *MockStorage) GetTender(ctx context.Context, id int) (*models.Tender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tenders[id]
	if !ok {
		return nil, apperr.NotFound("tender")
	}
	cp := *t
	return &cp, nil
}

func (m *MockStorage) ListTenders(ctx context.Context, f db.TenderFilter, limit, offset int) ([]models.Tender, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenderFilter = f
	out := []models.Tender{}
	for _, id := range sortedKeys(m.tenders) {
		t := m.tenders[id]
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, t.Status) {
			continue
		}
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, t.Category) {
			continue
		}
		if f.MSEOnly && !t.IsReservedForMSE {
			continue
		}
		out = append(out, *t)
	}
	return page(out, limit, offset), nil
}

func (m *MockStorage) UpdateTender(ctx context.Context, t *models.Tender) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenders[t.ID]; !ok {
		return apperr.NotFound("tender")
	}
	cp := *t
	m.tenders[t.ID] = &cp
	return nil
}

func (m *MockStorage) DeleteTender(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tenders[id]; !ok {
		return apperr.NotFound("tender")
	}
	deps := 0
	for _, b := range m.bids {
		if b.TenderID == id {
			deps++
		}
	}
	if deps > 0 {
		return apperr.Conflict("tender has %d dependent records", deps)
	}
	delete(m.tenders, id)
	return nil
}

func (m *MockStorage) CreateBid(ctx context.Context, b *models.Bid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.bids {
		if existing.TenderID == b.TenderID && existing.VendorID == b.VendorID {
			return apperr.Conflict("vendor has already submitted a bid for this tender")
		}
	}
	b.ID = m.id()
	b.CreatedAt, b.UpdatedAt = time.Now(), time.Now()
	cp := *b
	m.bids[b.ID] = &cp
	return nil
}

func (m *MockStorage) bidView(b *models.Bid) models.BidView {
	view := models.BidView{Bid: *b}
	if t, ok := m.tenders[b.TenderID]; ok {
		view.TenderTitle = t.Title
	}
	if v, ok := m.vendors[b.VendorID]; ok {
		view.VendorName = v.Name
	}
	return view
}

func (m *MockStorage) GetBid(ctx context.Context, id int) (*models.BidView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bids[id]
	if !ok {
		return nil, apperr.NotFound("bid")
	}
	view := m.bidView(b)
	return &view, nil
}

func (m *MockStorage) ListBidsForTender(ctx context.Context, tenderID, limit, offset int) ([]models.BidView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.BidView{}
	for _, id := range sortedKeys(m.bids) {
		if b := m.bids[id]; b.TenderID == tenderID {
			out = append(out, m.bidView(b))
		}
	}
	return page(out, limit, offset), nil
}

func (m *MockStorage) ListBidsForVendor(ctx context.Context, vendorID, limit, offset int) ([]models.BidView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.BidView{}
	for _, id := range sortedKeys(m.bids) {
		if b := m.bids[id]; b.VendorID == vendorID {
			out = append(out, m.bidView(b))
		}
	}
	return page(out, limit, offset), nil
}

func (m *MockStorage) UpdateBid(ctx context.Context, b *models.Bid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bids[b.ID]; !ok {
		return apperr.NotFound("bid")
	}
	cp := *b
	m.bids[b.ID] = &cp
	return nil
}

func (m *MockStorage) CreatePayment(ctx context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.id()
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *MockStorage) paymentView(p *models.Payment) models.PaymentView {
	view := models.PaymentView{Payment: *p}
	if v, ok := m.vendors[p.VendorID]; ok {
		view.VendorName = v.Name
	}
	if u, ok := m.users[p.ProcessedBy]; ok {
		view.ProcessedByName = u.Name
	}
	return view
}

func (m *MockStorage) GetPayment(ctx context.Context, id int) (*models.PaymentView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, apperr.NotFound("payment")
	}
	view := m.paymentView(p)
	return &view, nil
}

func (m *MockStorage) ListPayments(ctx context.Context, f db.PaymentFilter, limit, offset int) ([]models.PaymentView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PaymentView{}
	for _, id := range sortedKeys(m.payments) {
		p := m.payments[id]
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.VendorID != 0 && p.VendorID != f.VendorID {
			continue
		}
		out = append(out, m.paymentView(p))
	}
	return page(out, limit, offset), nil
}

func (m *MockStorage) UpdatePayment(ctx context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[p.ID]; !ok {
		return apperr.NotFound("payment")
	}
	cp := *p
	m.payments[p.ID] = &cp
	return nil
}

func (m *MockStorage) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.invoices {
		if existing.VendorID == inv.VendorID && existing.InvoiceNumber == inv.InvoiceNumber {
			return apperr.Conflict("invoice with this number already exists for the vendor")
		}
	}
	inv.ID = m.id()
	inv.CreatedAt, inv.UpdatedAt = time.Now(), time.Now()
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *MockStorage) GetInvoice(ctx context.Context, id int) (*models.InvoiceView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, apperr.NotFound("invoice")
	}
	view := models.InvoiceView{Invoice: *inv}
	if v, ok := m.vendors[inv.VendorID]; ok {
		view.VendorName = v.Name
	}
	return &view, nil
}

func (m *MockStorage) ListInvoices(ctx context.Context, f db.InvoiceFilter, limit, offset int) ([]models.InvoiceView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.InvoiceView{}
	for _, id := range sortedKeys(m.invoices) {
		inv := m.invoices[id]
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.VendorID != 0 && inv.VendorID != f.VendorID {
			continue
		}
		out = append(out, models.InvoiceView{Invoice: *inv})
	}
	return page(out, limit, offset), nil
}

func (m *MockStorage) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[inv.ID]; !ok {
		return apperr.NotFound("invoice")
	}
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *MockStorage) CreatePaymentSchedule(ctx context.Context, ps *models.PaymentSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps.ID = m.id()
	ps.CreatedAt, ps.UpdatedAt = time.Now(), time.Now()
	cp := *ps
	m.schedules[ps.ID] = &cp
	return nil
}

func (m *MockStorage) GetPaymentSchedule(ctx context.Context, id int) (*models.PaymentSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps, ok := m.schedules[id]
	if !ok {
		return nil, apperr.NotFound("payment schedule")
	}
	cp := *ps
	return &cp, nil
}

func (m *MockStorage) ListPaymentSchedules(ctx context.Context, f db.ScheduleFilter, limit, offset int) ([]models.PaymentSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.PaymentSchedule{}
	for _, id := range sortedKeys(m.schedules) {
		ps := m.schedules[id]
		if f.Status != "" && ps.Status != f.Status {
			continue
		}
		out = append(out, *ps)
	}
	return page(out, limit, offset), nil
}

func (m *MockStorage) UpdatePaymentSchedule(ctx context.Context, ps *models.PaymentSchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.schedules[ps.ID]; !ok {
		return apperr.NotFound("payment schedule")
	}
	cp := *ps
	m.schedules[ps.ID] = &cp
	return nil
}

func (m *MockStorage) CreateNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n.ID = m.id()
	n.CreatedAt = time.Now()
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *MockStorage) GetNotification(ctx context.Context, id int) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, apperr.NotFound("notification")
	}
	cp := *n
	return &cp, nil
}

func (m *MockStorage) ListNotifications(ctx context.Context, userID int, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Notification{}
	for _, id := range sortedKeys(m.notifications) {
		n := m.notifications[id]
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, *n)
	}
	return page(out, limit, offset), nil
}

func (m *MockStorage) MarkNotificationRead(ctx context.Context, id int) (*models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, apperr.NotFound("notification")
	}
	n.Read = true
	cp := *n
	return &cp, nil
}
