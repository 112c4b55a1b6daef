package model

import (
	"strings"
	"time"
)

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"nome"`
	Description  string    `json:"descricao"`
	Price        float64   `json:"preco"`
	ImageURL     string    `json:"imagem"`
	RestaurantID string    `json:"restauranteId"`
	Category     *string   `json:"categoria,omitempty"`
	CreatedAt    time.Time `json:"dataCriacao"`
}

func (p *Product) Identity() (string, time.Time) { return p.ID, p.CreatedAt }

func (p *Product) SetIdentity(id string, createdAt time.Time) {
	p.ID = id
	p.CreatedAt = createdAt
}

type ProductInput struct {
	Name         string  `json:"nome" validate:"trimmin=2"`
	Description  string  `json:"descricao" validate:"trimmin=10"`
	Price        float64 `json:"preco" validate:"required,gt=0"`
	ImageURL     string  `json:"imagem" validate:"required,url"`
	RestaurantID string  `json:"restauranteId" validate:"trimmin=1"`
	Category     *string `json:"categoria,omitempty"`
}

func (in ProductInput) Product() Product {
	return Product{
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		ImageURL:     in.ImageURL,
		RestaurantID: in.RestaurantID,
		Category:     in.Category,
	}
}

func (p Product) Input() ProductInput {
	return ProductInput{
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		ImageURL:     p.ImageURL,
		RestaurantID: p.RestaurantID,
		Category:     p.Category,
	}
}

type ProductPatch struct {
	Name         *string  `json:"nome,omitempty"`
	Description  *string  `json:"descricao,omitempty"`
	Price        *float64 `json:"preco,omitempty"`
	ImageURL     *string  `json:"imagem,omitempty"`
	RestaurantID *string  `json:"restauranteId,omitempty"`
	Category     *string  `json:"categoria,omitempty"`
}

func (p ProductPatch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.ImageURL != nil {
		prod.ImageURL = *p.ImageURL
	}
	if p.RestaurantID != nil {
		prod.RestaurantID = *p.RestaurantID
	}
	if p.Category != nil {
		prod.Category = p.Category
	}
}

// ProductFilter combines criteria with AND. Zero values are ignored.
type ProductFilter struct {
	Name         string
	Category     string
	MinPrice     *float64
	MaxPrice     *float64
	RestaurantID string
}

const (
	SortAscending  = "asc"
	SortDescending = "desc"
)

// Matches reports whether p satisfies every set criterion. Name is a
// case-insensitive substring, Category a case-insensitive exact match and the
// price bounds are inclusive.
func (f ProductFilter) Matches(p Product) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Category != "" && (p.Category == nil || !strings.EqualFold(*p.Category, f.Category)) {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.RestaurantID != "" && p.RestaurantID != f.RestaurantID {
		return false
	}
	return true
}
