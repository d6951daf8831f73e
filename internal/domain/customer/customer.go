package customer

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// Address has no lifecycle of its own; it lives and dies with its customer.
type Address struct {
	ZipCode string `json:"zipCode"`
	Street  string `json:"street"`
}

type Customer struct {
	ID           int64           `json:"id"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	TaxID        string          `json:"taxId"`
	Income       decimal.Decimal `json:"income"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	Address      Address         `json:"address"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func NewCustomer(firstName, lastName, taxID string, income decimal.Decimal, email string, address Address) *Customer {
	now := time.Now()
	return &Customer{
		FirstName: firstName,
		LastName:  lastName,
		TaxID:     taxID,
		Income:    income,
		Email:     email,
		Address:   address,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetPassword stores a bcrypt hash of the given credential. The plaintext
// is never persisted.
func (c *Customer) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.PasswordHash = string(hash)
	return nil
}

func (c *Customer) CheckPassword(plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(plaintext)) == nil
}

// ProfileUpdate carries the fields the update path may change. Tax id and
// password are immutable once the customer exists.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Income    decimal.Decimal
	Email     string
	ZipCode   string
	Street    string
}

func (c *Customer) ApplyProfileUpdate(upd ProfileUpdate) {
	c.FirstName = upd.FirstName
	c.LastName = upd.LastName
	c.Income = upd.Income
	c.Email = upd.Email
	c.Address.ZipCode = upd.ZipCode
	c.Address.Street = upd.Street
	c.UpdatedAt = time.Now()
}
