package handlers

import (
	"aquaops/internal/domain/catalogs/customer"
	"aquaops/internal/domain/catalogs/moderator"
	"aquaops/internal/infrastructure/http/v1/dto"
)

// CustomerHandler serves /customers.
type CustomerHandler = ResourceHandler[
	*customer.Customer,
	customer.CreateInput,
	customer.UpdateInput,
	dto.CreateCustomerRequest,
	dto.UpdateCustomerRequest,
]

// NewCustomerHandler creates the customer handler.
func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	return NewResourceHandler[
		*customer.Customer,
		customer.CreateInput,
		customer.UpdateInput,
		dto.CreateCustomerRequest,
		dto.UpdateCustomerRequest,
	](base, service, dto.CreateCustomerRequest.ToInput, dto.UpdateCustomerRequest.ToInput)
}

// ModeratorHandler serves /moderators.
type ModeratorHandler = ResourceHandler[
	*moderator.Moderator,
	moderator.CreateInput,
	moderator.UpdateInput,
	dto.CreateModeratorRequest,
	dto.UpdateModeratorRequest,
]

// NewModeratorHandler creates the moderator handler.
func NewModeratorHandler(base *BaseHandler, service *moderator.Service) *ModeratorHandler {
	return NewResourceHandler[
		*moderator.Moderator,
		moderator.CreateInput,
		moderator.UpdateInput,
		dto.CreateModeratorRequest,
		dto.UpdateModeratorRequest,
	](base, service, dto.CreateModeratorRequest.ToInput, dto.UpdateModeratorRequest.ToInput)
}
