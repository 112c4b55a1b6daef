package validator

import (
	"testing"

	"cardapio/internal/model"

	"github.com/stretchr/testify/assert"
)

func validAddress() *model.Address {
	return &model.Address{
		Street:       "Rua das Flores",
		Number:       "123",
		PostalCode:   "01310-100",
		Neighborhood: "Centro",
		City:         "São Paulo",
		State:        "SP",
		Latitude:     model.Coordinate(-23.5614),
		Longitude:    model.Coordinate(-46.6559),
	}
}

func TestFieldValidators(t *testing.T) {
	assert.True(t, ValidEmail("ana@example.com"))
	assert.False(t, ValidEmail("ana@example"))
	assert.False(t, ValidEmail("ana example@x.com"))

	assert.True(t, ValidTaxID("12.345.678/0001-95"))
	assert.True(t, ValidTaxID("12345678000195"))
	assert.False(t, ValidTaxID("1234567800019"))
	assert.False(t, ValidTaxID("11.111.111/1111-11"))

	assert.True(t, ValidPostalCode("01310-100"))
	assert.True(t, ValidPostalCode("01310100"))
	assert.False(t, ValidPostalCode("0131-0100"))

	assert.True(t, ValidCoordinates(-90, 180))
	assert.False(t, ValidCoordinates(90.1, 0))
	assert.False(t, ValidCoordinates(0, -180.5))

	assert.True(t, ValidPrice(0.01))
	assert.False(t, ValidPrice(0))
	assert.False(t, ValidPrice(-3))

	assert.True(t, ValidURL("https://cdn.example.com/img/feijoada.png"))
	assert.False(t, ValidURL("not a url"))
	assert.False(t, ValidURL(""))
}

func TestCheckPassword(t *testing.T) {
	ok, msg := CheckPassword("abc1")
	assert.False(t, ok)
	assert.Equal(t, msgPasswordTooShort, msg)

	ok, msg = CheckPassword("123456")
	assert.False(t, ok)
	assert.Equal(t, msgPasswordLetter, msg)

	ok, msg = CheckPassword("abcdef")
	assert.False(t, ok)
	assert.Equal(t, msgPasswordDigit, msg)

	ok, _ = CheckPassword("abc123")
	assert.True(t, ok)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "12.345.678/0001-95", FormatTaxID("12345678000195"))
	assert.Equal(t, "123", FormatTaxID("123"))
	assert.Equal(t, "01310-100", FormatPostalCode("01310100"))
	assert.Equal(t, "01310100", Digits("01310-100"))
}

func TestValidateUser(t *testing.T) {
	r := ValidateUser(model.UserInput{Name: "Ana", Email: "ana@example.com", Password: "senha1", Role: model.RoleClient})
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)

	r = ValidateUser(model.UserInput{Name: " A ", Email: "bad", Password: "", Role: "owner"})
	assert.False(t, r.Valid)
	assert.Equal(t, []string{
		"name must have at least 2 characters",
		"invalid email",
		"password is required",
		"invalid user role",
	}, r.Errors)

	r = ValidateUser(model.UserInput{Name: "Ana", Email: "ana@example.com", Password: "abcdefg", Role: model.RoleAdmin})
	assert.Equal(t, []string{msgPasswordDigit}, r.Errors)
}

func TestValidateRestaurant(t *testing.T) {
	in := model.RestaurantInput{Name: "Cantina", TaxID: "12.345.678/0001-95", Address: validAddress()}
	assert.True(t, ValidateRestaurant(in).Valid)

	r := ValidateRestaurant(model.RestaurantInput{Name: "C", TaxID: "00000000000000"})
	assert.Equal(t, []string{
		"restaurant name must have at least 2 characters",
		"invalid tax id",
		"address is required",
	}, r.Errors)

	addr := validAddress()
	addr.Street = "R"
	addr.PostalCode = "123"
	addr.State = "São Paulo"
	addr.Latitude = model.Coordinate(100)
	addr.Longitude = model.Coordinate(200)
	r = ValidateRestaurant(model.RestaurantInput{Name: "Cantina", TaxID: "12345678000195", Address: addr})
	assert.Equal(t, []string{
		"street must have at least 3 characters",
		"invalid postal code",
		"state must have 2 characters",
		"invalid coordinates",
	}, r.Errors)
}

func TestValidateRestaurant_MissingCoordinates(t *testing.T) {
	addr := validAddress()
	addr.Latitude = nil
	r := ValidateRestaurant(model.RestaurantInput{Name: "Cantina", TaxID: "12345678000195", Address: addr})
	assert.False(t, r.Valid)
	assert.Equal(t, []string{"coordinates must be numbers"}, r.Errors)

	addr.Longitude = nil
	r = ValidateRestaurant(model.RestaurantInput{Name: "Cantina", TaxID: "12345678000195", Address: addr})
	assert.Equal(t, []string{"coordinates must be numbers"}, r.Errors)

	addr.Latitude = model.Coordinate(0)
	addr.Longitude = model.Coordinate(0)
	assert.True(t, ValidateRestaurant(model.RestaurantInput{Name: "Cantina", TaxID: "12345678000195", Address: addr}).Valid)
}

func TestValidateProduct_CollectsEveryViolation(t *testing.T) {
	r := ValidateProduct(model.ProductInput{
		Name:         "",
		Description:  "abc",
		Price:        -5,
		ImageURL:     "https://cdn.example.com/a.png",
		RestaurantID: "r1",
	})
	assert.False(t, r.Valid)
	assert.Equal(t, []string{
		"product name must have at least 2 characters",
		"description must have at least 10 characters",
		"price must be a positive value",
	}, r.Errors)
	assert.Equal(t,
		"product name must have at least 2 characters, description must have at least 10 characters, price must be a positive value",
		r.Message())
}

func TestValidateProduct_ImageMessages(t *testing.T) {
	base := model.ProductInput{
		Name:         "Moqueca",
		Description:  "Moqueca baiana com dendê",
		Price:        59.9,
		RestaurantID: "r1",
	}
	r := ValidateProduct(base)
	assert.Equal(t, []string{"image is required"}, r.Errors)

	base.ImageURL = "imagem.png"
	r = ValidateProduct(base)
	assert.Equal(t, []string{"invalid image URL"}, r.Errors)

	base.ImageURL = "https://cdn.example.com/moqueca.jpg"
	base.RestaurantID = "  "
	r = ValidateProduct(base)
	assert.Equal(t, []string{"restaurant id is required"}, r.Errors)
}
