package model

import (
	"time"
)

// Address is embedded in a Restaurant; it has no identity of its own.
type Address struct {
	Street       string  `json:"rua" validate:"trimmin=3"`
	Number       string  `json:"numero" validate:"trimmin=1"`
	PostalCode   string  `json:"cep" validate:"required,postalcode"`
	Neighborhood string  `json:"bairro" validate:"trimmin=2"`
	City         string  `json:"cidade" validate:"trimmin=2"`
	State        string  `json:"uf" validate:"len=2"`
	Latitude     *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"required,min=-180,max=180"`
}

// Coordinate is a convenience for filling Latitude and Longitude.
func Coordinate(v float64) *float64 { return &v }

type Restaurant struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	TaxID     string    `json:"cnpj"`
	Address   Address   `json:"endereco"`
	CreatedAt time.Time `json:"dataCriacao"`
}

func (r *Restaurant) Identity() (string, time.Time) { return r.ID, r.CreatedAt }

func (r *Restaurant) SetIdentity(id string, createdAt time.Time) {
	r.ID = id
	r.CreatedAt = createdAt
}

// RestaurantInput is the registration payload.
type RestaurantInput struct {
	Name    string   `json:"nome" validate:"trimmin=2"`
	TaxID   string   `json:"cnpj" validate:"required,taxid"`
	Address *Address `json:"endereco" validate:"required"`
}

// Restaurant builds the record to persist; identity is assigned on save.
func (in RestaurantInput) Restaurant() Restaurant {
	r := Restaurant{Name: in.Name, TaxID: in.TaxID}
	if in.Address != nil {
		r.Address = *in.Address
	}
	return r
}

// Input returns the validation view of an existing record.
func (r Restaurant) Input() RestaurantInput {
	addr := r.Address
	return RestaurantInput{Name: r.Name, TaxID: r.TaxID, Address: &addr}
}

type RestaurantPatch struct {
	Name    *string  `json:"nome,omitempty"`
	TaxID   *string  `json:"cnpj,omitempty"`
	Address *Address `json:"endereco,omitempty"`
}

func (p RestaurantPatch) Apply(r *Restaurant) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.TaxID != nil {
		r.TaxID = *p.TaxID
	}
	if p.Address != nil {
		r.Address = *p.Address
	}
}

// RestaurantFilter narrows a restaurant listing. Empty fields match all.
type RestaurantFilter struct {
	Name string
	City string
}
