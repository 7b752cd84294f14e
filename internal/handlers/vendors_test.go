package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"procurement/models"
)

func TestCreateVendorIgnoresStatusAndScore(t *testing.T) {
	env := newTestEnv(t)
	vendorUser := env.user(models.RoleVendor)

	w := env.request(http.MethodPost, "/api/vendors", vendorUser, `{
        "name": "Hill Traders",
        "businessType": "Large Enterprise",
        "contactPerson": "R. Das",
        "email": "sales@hill.test",
        "phone": "555",
        "address": "Guwahati",
        "status": "Active",
        "complianceScore": 95,
        "userId": 777
    }`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	vendor := decodeBody[models.Vendor](t, w)
	require.Equal(t, models.VendorPending, vendor.Status)
	require.Equal(t, 0, vendor.ComplianceScore)
	require.Equal(t, vendorUser.ID, vendor.UserID)
}

func TestAdminCreatesVendorForUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(models.RoleAdmin)
	owner := env.user(models.RoleVendor)

	w := env.request(http.MethodPost, "/api/vendors", admin, fmt.Sprintf(`{
        "name": "Valley Supplies", "businessType": "MSE", "contactPerson": "K", "email": "k@valley.test",
        "phone": "1", "address": "A", "userId": %d}`, owner.ID))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, owner.ID, decodeBody[models.Vendor](t, w).UserID)
}

func TestCreateVendorDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	first := env.user(models.RoleVendor)
	second := env.user(models.RoleVendor)
	body := `{"name":"A","businessType":"MSE","contactPerson":"C","email":"dup@x.test","phone":"1","address":"A"}`

	require.Equal(t, http.StatusCreated, env.request(http.MethodPost, "/api/vendors", first, body).Code)
	w := env.request(http.MethodPost, "/api/vendors", second, body)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateVendorEmailCase(t *testing.T) {
	env := newTestEnv(t)
	first := env.user(models.RoleVendor)
	second := env.user(models.RoleVendor)

	w := env.request(http.MethodPost, "/api/vendors", first,
		`{"name":"A","businessType":"MSE","contactPerson":"C","email":"Sales@River.Test","phone":"1","address":"A"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	vendor := decodeBody[models.Vendor](t, w)
	require.Equal(t, "sales@river.test", vendor.Email)

	w = env.request(http.MethodPost, "/api/vendors", second,
		`{"name":"B","businessType":"MSE","contactPerson":"C","email":"SALES@river.test","phone":"1","address":"A"}`)
	require.Equal(t, http.StatusConflict, w.Code)

	w = env.request(http.MethodPut, fmt.Sprintf("/api/vendors/%d", vendor.ID), first, `{"email":"Office@River.Test"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "office@river.test", decodeBody[models.Vendor](t, w).Email)
}

func TestCreateVendorValidation(t *testing.T) {
	env := newTestEnv(t)
	vendorUser := env.user(models.RoleVendor)

	w := env.request(http.MethodPost, "/api/vendors", vendorUser,
		`{"name":"A","businessType":"Startup","contactPerson":"C","email":"not-an-email","phone":"1","address":"A"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decodeBody[errorBody](t, w).Fields
	require.Len(t, fields, 2)
	require.Equal(t, "businessType", fields[0].Field)
	require.Equal(t, "email", fields[1].Field)
	require.Equal(t, "email", fields[1].Rule)
}

func TestUpdateVendorPhonePatch(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(models.RoleVendor)
	vendor := env.vendor(owner, models.BusinessMSE, models.VendorPending)
	path := fmt.Sprintf("/api/vendors/%d", vendor.ID)

	w := env.request(http.MethodPut, path, owner, `{"address":"New address"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody[models.Vendor](t, w)
	require.Equal(t, "123", updated.Phone)
	require.Equal(t, "New address", updated.Address)

	// явная пустая строка очищает поле
	w = env.request(http.MethodPut, path, owner, `{"phone":""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "", decodeBody[models.Vendor](t, w).Phone)

	stored, err := env.store.GetVendor(context.Background(), vendor.ID)
	require.NoError(t, err)
	require.Equal(t, "", stored.Phone)
	require.Equal(t, "New address", stored.Address)
}

func TestUpdateVendorRegistrationNumberNull(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(models.RoleVendor)
	vendor := env.vendor(owner, models.BusinessMSE, models.VendorPending)
	path := fmt.Sprintf("/api/vendors/%d", vendor.ID)

	w := env.request(http.MethodPut, path, owner, `{"registrationNumber":"REG-1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "REG-1", *decodeBody[models.Vendor](t, w).RegistrationNumber)

	w = env.request(http.MethodPut, path, owner, `{"name":"Renamed"}`)
	require.Equal(t, "REG-1", *decodeBody[models.Vendor](t, w).RegistrationNumber)

	w = env.request(http.MethodPut, path, owner, `{"registrationNumber":null}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, decodeBody[models.Vendor](t, w).RegistrationNumber)
}

func TestUpdateVendorStaffFields(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(models.RoleVendor)
	officer := env.user(models.RoleProcurementOfficer)
	finance := env.user(models.RoleFinanceOfficer)
	vendor := env.vendor(owner, models.BusinessMSE, models.VendorPending)
	path := fmt.Sprintf("/api/vendors/%d", vendor.ID)

	w := env.request(http.MethodPut, path, owner, `{"status":"Active"}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(http.MethodPut, path, finance, `{"complianceScore":50}`)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(http.MethodPut, path, officer, `{"status":"Active","complianceScore":0}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decodeBody[models.Vendor](t, w)
	require.Equal(t, models.VendorActive, updated.Status)
	require.Equal(t, 0, updated.ComplianceScore)

	w = env.request(http.MethodPut, path, officer, `{"complianceScore":101}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVendorOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(models.RoleVendor)
	stranger := env.user(models.RoleVendor)
	vendor := env.vendor(owner, models.BusinessMSE, models.VendorActive)
	env.vendor(stranger, models.BusinessLarge, models.VendorActive)
	path := fmt.Sprintf("/api/vendors/%d", vendor.ID)

	require.Equal(t, http.StatusOK, env.request(http.MethodGet, path, owner, "").Code)
	require.Equal(t, http.StatusForbidden, env.request(http.MethodGet, path, stranger, "").Code)
	require.Equal(t, http.StatusForbidden, env.request(http.MethodPut, path, stranger, `{"name":"Mine"}`).Code)
	require.Equal(t, http.StatusForbidden,
		env.request(http.MethodGet, fmt.Sprintf("/api/bids/vendor/%d", vendor.ID), stranger, "").Code)
}

func TestListVendors(t *testing.T) {
	env := newTestEnv(t)
	officer := env.user(models.RoleProcurementOfficer)
	vendorUser := env.user(models.RoleVendor)
	env.vendor(env.user(models.RoleVendor), models.BusinessMSE, models.VendorActive)
	env.vendor(env.user(models.RoleVendor), models.BusinessLarge, models.VendorActive)
	env.vendor(env.user(models.RoleVendor), models.BusinessMSE, models.VendorSuspended)

	w := env.request(http.MethodGet, "/api/vendors?status=Active", officer, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decodeBody[[]models.Vendor](t, w), 2)

	w = env.request(http.MethodGet, "/api/vendors?status=Gone", officer, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(http.MethodGet, "/api/vendors/mse", vendorUser, "")
	require.Equal(t, http.StatusOK, w.Code)
	mse := decodeBody[[]models.Vendor](t, w)
	require.Len(t, mse, 2)
	for _, v := range mse {
		require.Equal(t, models.BusinessMSE, v.BusinessType)
	}

	w = env.request(http.MethodGet, "/api/vendors?limit=1&offset=1", officer, "")
	require.Len(t, decodeBody[[]models.Vendor](t, w), 1)
}

func TestDeleteVendor(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(models.RoleAdmin)
	busy := env.vendor(env.user(models.RoleVendor), models.BusinessMSE, models.VendorActive)
	idle := env.vendor(env.user(models.RoleVendor), models.BusinessMSE, models.VendorActive)
	require.NoError(t, env.store.CreatePayment(context.Background(), &models.Payment{
		VendorID: busy.ID, Amount: decimal.NewFromInt(5), Status: models.PaymentPending,
		PaymentMethod: models.MethodCheck, ProcessedBy: admin.ID,
	}))

	w := env.request(http.MethodDelete, fmt.Sprintf("/api/vendors/%d", busy.ID), admin, "")
	require.Equal(t, http.StatusConflict, w.Code)

	w = env.request(http.MethodDelete, fmt.Sprintf("/api/vendors/%d", idle.ID), admin, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, env.store.vendors, idle.ID)
}
