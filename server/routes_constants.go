package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - Login, Refresh & Logout
	RouteAuthLogin   = "/auth/login"
	RouteAuthRefresh = "/auth/refresh"
	RouteAuthLogout  = "/auth/logout"

	// Auth Routes - Email Verification
	RouteValidateEmail      = "/auth/validate"
	RouteResendVerification = "/auth/resend-validation"

	// Auth Routes - Password Recovery
	RouteSendRecoverMail        = "/auth/send-recover-mail"
	RouteResendPasswordRecovery = "/auth/resend-password-recovery"
	RouteValidateRecoveryToken  = "/auth/validate-recovery-token"
	RouteResetPassword          = "/auth/reset-password"

	// User Routes
	RouteUserCreate = "/user/create"
	RouteUserData   = "/user/data"

	// Account Routes
	RouteAccountBalance = "/accounts/{id}/showBalance"
	RouteAccountDeposit = "/accounts/{id}/balance"
	RouteAccountAlias   = "/accounts/{id}/alias"

	// Transaction Routes
	// GET /transactions/{id}/getTransactions and GET /transactions/search/{q} overlap as
	// mux patterns, so both are served by one route.
	RouteTransactionsGet      = "/transactions/{id}/{action}"
	TransactionsSearchSegment = "search"
	TransactionsListAction    = "getTransactions"
	RouteTransfer             = "/transactions/{id}/transfer/{destId}"

	// Favorite Routes
	RouteFavorites = "/favorites"
	RouteFavorite  = "/favorites/{id}"

	// Admin Routes
	RouteAdminUsers = "/admin/users"
	RouteAdminUser  = "/admin/users/{id}"

	// Tax Routes
	RouteTaxesARS = "/impuestos/calculateARS"
	RouteTaxesUSD = "/impuestos/calculateUSD"
)

// RefreshCookieName is the HttpOnly cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"
