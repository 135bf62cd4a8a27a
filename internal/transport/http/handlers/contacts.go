package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/transport/http/middleware"
	"github.com/AhmedKhaled-74/UserManagement-Amzon/internal/usecase"
)

// ContactHandler exposes address and phone endpoints for the authenticated
// user.
type ContactHandler struct {
	contacts *usecase.ContactService
}

// NewContactHandler constructs ContactHandler.
func NewContactHandler(contacts *usecase.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// RegisterRoutes binds contact routes. The group must already carry the auth
// middleware.
func (h *ContactHandler) RegisterRoutes(r *gin.RouterGroup) {
	addresses := r.Group("/addresses")
	addresses.GET("", h.listAddresses)
	addresses.POST("", h.addAddress)
	addresses.PUT("/:addressId", h.updateAddress)
	addresses.DELETE("/:addressId", h.deleteAddress)
	addresses.POST("/:addressId/default", h.setDefaultAddress)

	phones := r.Group("/phones")
	phones.GET("", h.listPhones)
	phones.POST("", h.addPhone)
	phones.PUT("/:phoneId", h.updatePhone)
	phones.DELETE("/:phoneId", h.deletePhone)
	phones.POST("/:phoneId/default", h.setDefaultPhone)
}

func (h *ContactHandler) listAddresses(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	addresses, err := h.contacts.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	payloads := make([]AddressPayload, 0, len(addresses))
	for _, address := range addresses {
		payloads = append(payloads, newAddressPayload(address))
	}

	c.JSON(http.StatusOK, AddressListResponse{Addresses: payloads})
}

func (h *ContactHandler) addAddress(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid address payload"))
		return
	}

	address, err := h.contacts.AddAddress(c.Request.Context(), userID, addressInput(req))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newAddressPayload(*address))
}

func (h *ContactHandler) updateAddress(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid address payload"))
		return
	}

	address, err := h.contacts.UpdateAddress(c.Request.Context(), userID, c.Param("addressId"), addressInput(req))
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, newAddressPayload(*address))
}

func (h *ContactHandler) deleteAddress(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.contacts.DeleteAddress(c.Request.Context(), userID, c.Param("addressId")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ContactHandler) setDefaultAddress(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.contacts.SetDefaultAddress(c.Request.Context(), userID, c.Param("addressId")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "default address updated"})
}

func (h *ContactHandler) listPhones(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	phones, err := h.contacts.ListPhones(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	payloads := make([]PhonePayload, 0, len(phones))
	for _, phone := range phones {
		payloads = append(payloads, newPhonePayload(phone))
	}

	c.JSON(http.StatusOK, PhoneListResponse{Phones: payloads})
}

func (h *ContactHandler) addPhone(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid phone payload"))
		return
	}

	phone, err := h.contacts.AddPhone(c.Request.Context(), userID, usecase.PhoneInput{
		Number:    req.Number,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPhonePayload(*phone))
}

func (h *ContactHandler) updatePhone(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req PhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid phone payload"))
		return
	}

	phone, err := h.contacts.UpdatePhone(c.Request.Context(), userID, c.Param("phoneId"), usecase.PhoneInput{
		Number:    req.Number,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPhonePayload(*phone))
}

func (h *ContactHandler) deletePhone(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.contacts.DeletePhone(c.Request.Context(), userID, c.Param("phoneId")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ContactHandler) setDefaultPhone(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.contacts.SetDefaultPhone(c.Request.Context(), userID, c.Param("phoneId")); err != nil {
		RespondWithMappedError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "default phone updated"})
}

func addressInput(req AddressRequest) usecase.AddressInput {
	return usecase.AddressInput{
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		Country:   req.Country,
		IsDefault: req.IsDefault,
	}
}
