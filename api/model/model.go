/*
Copyright 2025 Nordgeld Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/nordgeld/nordgeld"
	"github.com/nordgeld/nordgeld/model"
)

func (l *Login) ValidateLogin() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Email, validation.Required, is.Email),
	)
}

func (a *CreateAccount) ValidateCreateAccount() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.AccountType, validation.Required),
		validation.Field(&a.Currency, validation.Required),
		validation.Field(&a.OwnerID, validation.Required),
	)
}

func (t *CreateTransfer) ValidateCreateTransfer() error {
	return validation.ValidateStruct(t,
		validation.Field(&t.FromAccountID, validation.Required),
		validation.Field(&t.ToAccountID, validation.Required),
	)
}

func (d *CreateDeposit) ValidateCreateDeposit() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.ToAccountID, validation.Required),
	)
}

func (u *CreateUser) ValidateCreateUser() error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Email, validation.Required, is.Email),
		validation.Field(&u.FirstName, validation.Required),
		validation.Field(&u.LastName, validation.Required),
		validation.Field(&u.Role, validation.In(model.RoleCustomer, model.RoleAdmin)),
	)
}

func (a *CreateAccount) ToAccount() model.Account {
	return model.Account{
		Type:     a.AccountType,
		Name:     a.Name,
		Number:   a.Number,
		IBAN:     a.IBAN,
		Balance:  a.InitialBalance,
		Currency: a.Currency,
		OwnerID:  a.OwnerID,
	}
}

func (t *CreateTransfer) ToTransferRequest() nordgeld.TransferRequest {
	return nordgeld.TransferRequest{
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		Description:   t.Description,
	}
}

func (d *CreateDeposit) ToDepositRequest() nordgeld.DepositRequest {
	return nordgeld.DepositRequest{
		ToAccountID: d.ToAccountID,
		Amount:      d.Amount,
		Description: d.Description,
	}
}

func (u *CreateUser) ToUser() model.User {
	return model.User{
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}
