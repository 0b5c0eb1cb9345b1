package server

import "net/http"

func (s *Server) initRoutes() {
	public := s.APIMiddleware()
	authed := s.APIMiddleware(s.RequireAuth())
	owner := s.APIMiddleware(s.RequireAuth(), s.RequireAccountOwner())
	admin := s.APIMiddleware(s.RequireAuth(), s.RequireAdmin())

	// Preflight for every path
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {}, public...))

	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), public...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), public...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), public...))

	s.RegisterRouteHandler("POST "+RouteValidateEmail, ChainMiddleware(s.ValidateEmailHandler(), public...))
	s.RegisterRouteHandler("POST "+RouteResendVerification, ChainMiddleware(s.ResendValidationHandler(), public...))

	s.RegisterRouteHandler("POST "+RouteSendRecoverMail, ChainMiddleware(s.SendRecoverMailHandler(), public...))
	s.RegisterRouteHandler("POST "+RouteResendPasswordRecovery, ChainMiddleware(s.ResendPasswordRecoveryHandler(), public...))
	s.RegisterRouteHandler("POST "+RouteValidateRecoveryToken, ChainMiddleware(s.ValidateRecoveryTokenHandler(), public...))
	s.RegisterRouteHandler("POST "+RouteResetPassword, ChainMiddleware(s.ResetPasswordHandler(), public...))

	// USER
	s.RegisterRouteHandler("POST "+RouteUserCreate, ChainMiddleware(s.RegisterHandler(), public...))
	s.RegisterRouteHandler("GET "+RouteUserData, ChainMiddleware(s.UserDataHandler(), authed...))
	s.RegisterRouteHandler("PUT "+RouteUserData, ChainMiddleware(s.UpdateUserDataHandler(), authed...))

	// ACCOUNTS
	s.RegisterRouteHandler("GET "+RouteAccountBalance, ChainMiddleware(s.BalanceHandler(), owner...))
	s.RegisterRouteHandler("PUT "+RouteAccountDeposit, ChainMiddleware(s.DepositHandler(), owner...))
	s.RegisterRouteHandler("PUT "+RouteAccountAlias, ChainMiddleware(s.AliasHandler(), owner...))

	// TRANSACTIONS
	s.RegisterRouteHandler("GET "+RouteTransactionsGet, ChainMiddleware(s.TransactionsGetHandler(), authed...))
	s.RegisterRouteHandler("POST "+RouteTransfer, ChainMiddleware(s.TransferHandler(), owner...))

	// FAVORITES
	s.RegisterRouteHandler("GET "+RouteFavorites, ChainMiddleware(s.FavoritesHandler(), authed...))
	s.RegisterRouteHandler("POST "+RouteFavorites, ChainMiddleware(s.CreateFavoriteHandler(), authed...))
	s.RegisterRouteHandler("GET "+RouteFavorite, ChainMiddleware(s.FavoriteHandler(), authed...))
	s.RegisterRouteHandler("PUT "+RouteFavorite, ChainMiddleware(s.UpdateFavoriteHandler(), authed...))
	s.RegisterRouteHandler("DELETE "+RouteFavorite, ChainMiddleware(s.DeleteFavoriteHandler(), authed...))

	// ADMIN
	s.RegisterRouteHandler("GET "+RouteAdminUsers, ChainMiddleware(s.AdminUsersListHandler(), admin...))
	s.RegisterRouteHandler("GET "+RouteAdminUser, ChainMiddleware(s.AdminUserHandler(), admin...))
	s.RegisterRouteHandler("PUT "+RouteAdminUser, ChainMiddleware(s.AdminUpdateUserHandler(), admin...))

	// TAXES
	s.RegisterRouteHandler("POST "+RouteTaxesARS, ChainMiddleware(s.CalculateARSHandler(), authed...))
	s.RegisterRouteHandler("POST "+RouteTaxesUSD, ChainMiddleware(s.CalculateUSDHandler(), authed...))
}
