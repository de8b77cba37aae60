package handlers

import (
	"aquaops/internal/domain/documents/delivery"
	"aquaops/internal/domain/documents/expense"
	"aquaops/internal/domain/documents/miscellaneous"
	"aquaops/internal/infrastructure/http/v1/dto"
)

// DeliveryHandler serves /deliveries.
type DeliveryHandler = ResourceHandler[
	*delivery.Delivery,
	delivery.CreateInput,
	delivery.UpdateInput,
	dto.CreateDeliveryRequest,
	dto.UpdateDeliveryRequest,
]

// NewDeliveryHandler creates the delivery handler.
func NewDeliveryHandler(base *BaseHandler, service *delivery.Service) *DeliveryHandler {
	return NewResourceHandler[
		*delivery.Delivery,
		delivery.CreateInput,
		delivery.UpdateInput,
		dto.CreateDeliveryRequest,
		dto.UpdateDeliveryRequest,
	](base, service, dto.CreateDeliveryRequest.ToInput, dto.UpdateDeliveryRequest.ToInput)
}

// MiscellaneousHandler serves /miscellaneous.
type MiscellaneousHandler = ResourceHandler[
	*miscellaneous.Miscellaneous,
	miscellaneous.CreateInput,
	miscellaneous.UpdateInput,
	dto.CreateMiscellaneousRequest,
	dto.UpdateMiscellaneousRequest,
]

// NewMiscellaneousHandler creates the miscellaneous sale handler.
func NewMiscellaneousHandler(base *BaseHandler, service *miscellaneous.Service) *MiscellaneousHandler {
	return NewResourceHandler[
		*miscellaneous.Miscellaneous,
		miscellaneous.CreateInput,
		miscellaneous.UpdateInput,
		dto.CreateMiscellaneousRequest,
		dto.UpdateMiscellaneousRequest,
	](base, service, dto.CreateMiscellaneousRequest.ToInput, dto.UpdateMiscellaneousRequest.ToInput)
}

// ExpenseHandler serves /expenses.
type ExpenseHandler = ResourceHandler[
	*expense.OtherExpense,
	expense.CreateInput,
	expense.UpdateInput,
	dto.CreateExpenseRequest,
	dto.UpdateExpenseRequest,
]

// NewExpenseHandler creates the expense handler.
func NewExpenseHandler(base *BaseHandler, service *expense.Service) *ExpenseHandler {
	return NewResourceHandler[
		*expense.OtherExpense,
		expense.CreateInput,
		expense.UpdateInput,
		dto.CreateExpenseRequest,
		dto.UpdateExpenseRequest,
	](base, service, dto.CreateExpenseRequest.ToInput, dto.UpdateExpenseRequest.ToInput)
}
