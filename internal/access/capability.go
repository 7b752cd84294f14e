package access

import "procurement/models"

// Проверки прав, зависящие от конкретного ресурса, а не только от роли.

// CanActOnVendor: сотрудник или владелец карточки поставщика
func CanActOnVendor(a Actor, vendorID int) bool {
	if a.IsStaff() {
		return true
	}
	return a.Role == models.RoleVendor && a.VendorID != 0 && a.VendorID == vendorID
}

// CanManageVendor: менять статус и рейтинг поставщика
func CanManageVendor(a Actor) bool {
	return a.HasRole(models.RoleAdmin, models.RoleProcurementOfficer)
}

// CanReviewBids: статус и техническая оценка предложения
func CanReviewBids(a Actor) bool {
	return a.HasRole(models.RoleAdmin, models.RoleProcurementOfficer)
}

// CanUpdateBid: комиссия или поставщик, подавший предложение
func CanUpdateBid(a Actor, bid *models.Bid) bool {
	if CanReviewBids(a) {
		return true
	}
	return a.Role == models.RoleVendor && a.VendorID != 0 && bid.VendorID == a.VendorID
}

func CanHandleFinance(a Actor) bool {
	return a.HasRole(models.RoleAdmin, models.RoleFinanceOfficer)
}

// CanReadVendorFinance: финансы или поставщик - получатель платежа/автор счёта
func CanReadVendorFinance(a Actor, vendorID int) bool {
	if CanHandleFinance(a) {
		return true
	}
	return a.Role == models.RoleVendor && a.VendorID != 0 && a.VendorID == vendorID
}

func CanReadNotification(a Actor, n *models.Notification) bool {
	return n.UserID == a.UserID
}
