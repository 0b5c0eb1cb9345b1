package model_test

import (
	"testing"

	"github.com/jrsteele09/arcash/internal/utils"
	"github.com/jrsteele09/arcash/model"
	"github.com/stretchr/testify/require"
)

func TestLoginRequest_Validate(t *testing.T) {
	require.NoError(t, model.LoginRequest{Email: "ana@example.com", Password: "x"}.Validate())
	require.Error(t, model.LoginRequest{Email: "", Password: "x"}.Validate())
	require.Error(t, model.LoginRequest{Email: "not-an-email", Password: "x"}.Validate())
	require.Error(t, model.LoginRequest{Email: "ana@example.com"}.Validate())
}

func TestRegisterRequest_Validate(t *testing.T) {
	valid := model.RegisterRequest{Name: "Ana", Surname: "Gomez", Email: "ana@example.com", Password: "Password1"}
	require.NoError(t, valid.Validate())

	noName := valid
	noName.Name = " "
	require.ErrorContains(t, noName.Validate(), "name is required")

	short := valid
	short.Password = "abc"
	require.ErrorContains(t, short.Validate(), "at least 8")
}

func TestAliasRequest_Validate(t *testing.T) {
	require.NoError(t, model.AliasRequest{Alias: "ana.gomez.mp"}.Validate())
	require.Error(t, model.AliasRequest{Alias: "abc"}.Validate())
	require.Error(t, model.AliasRequest{Alias: "ana gomez"}.Validate())
}

func TestUpdateUserRequest_Validate(t *testing.T) {
	require.Error(t, model.UpdateUserRequest{Name: utils.Ptr("Ana")}.Validate())
	require.NoError(t, model.UpdateUserRequest{CurrentPassword: "old", Name: utils.Ptr("Ana")}.Validate())
	require.Error(t, model.UpdateUserRequest{CurrentPassword: "old", NewPassword: utils.Ptr("short")}.Validate())
}

func TestAmountValidation(t *testing.T) {
	require.Error(t, model.TransferRequest{Amount: 0}.Validate())
	require.NoError(t, model.TransferRequest{Amount: 10}.Validate())
	require.Error(t, model.BalanceRequest{Amount: -1}.Validate())
	require.Error(t, model.TaxRequest{}.Validate())
}
