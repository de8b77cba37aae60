package dto

import (
	"aquaops/internal/core/id"
	"aquaops/internal/core/types"
	"aquaops/internal/domain/catalogs/customer"
)

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Name        string      `json:"name" binding:"required"`
	Phone       string      `json:"phone"`
	Area        string      `json:"area"`
	Address     string      `json:"address"`
	ModeratorID *id.ID      `json:"moderatorId"`
	BottlePrice types.Money `json:"bottlePrice"`
	Deposit     int64       `json:"deposit" binding:"min=0"`
	Balance     types.Money `json:"balance"`
	Bottles     int64       `json:"bottles" binding:"min=0"`
}

// ToInput converts the request.
func (r CreateCustomerRequest) ToInput() customer.CreateInput {
	return customer.CreateInput{
		Name:        r.Name,
		Phone:       r.Phone,
		Area:        r.Area,
		Address:     r.Address,
		ModeratorID: r.ModeratorID,
		BottlePrice: r.BottlePrice,
		Deposit:     r.Deposit,
		Balance:     r.Balance,
		Bottles:     r.Bottles,
	}
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	Name        string      `json:"name" binding:"required"`
	Phone       string      `json:"phone"`
	Area        string      `json:"area"`
	Address     string      `json:"address"`
	ModeratorID *id.ID      `json:"moderatorId"`
	BottlePrice types.Money `json:"bottlePrice"`
	Deposit     int64       `json:"deposit" binding:"min=0"`
	Version     int         `json:"version" binding:"required,min=1"`
}

// ToInput converts the request.
func (r UpdateCustomerRequest) ToInput() customer.UpdateInput {
	return customer.UpdateInput{
		Name:        r.Name,
		Phone:       r.Phone,
		Area:        r.Area,
		Address:     r.Address,
		ModeratorID: r.ModeratorID,
		BottlePrice: r.BottlePrice,
		Deposit:     r.Deposit,
		Version:     r.Version,
	}
}
