package auth

import apperrors "github.com/jrsteele09/arcash/internal/errors"

var (
	InvalidCredentialsErr     = apperrors.Wrapf(apperrors.ErrUnauthorized, "invalid credentials")
	UserBlockedErr            = apperrors.Wrapf(apperrors.ErrForbidden, "user blocked")
	UserUnverifiedErr         = apperrors.Wrapf(apperrors.ErrForbidden, "user not verified")
	UserPasswordsDontMatchErr = apperrors.Wrapf(apperrors.ErrUnauthorized, "current password is incorrect")
	EmailTakenErr             = apperrors.Wrapf(apperrors.ErrConflict, "email already registered")
	InvalidActionTokenErr     = apperrors.Wrapf(apperrors.ErrBadRequest, "invalid or expired token")
	AlreadyVerifiedErr        = apperrors.Wrapf(apperrors.ErrBadRequest, "email already verified")
	ResendTooSoonErr          = apperrors.Wrapf(apperrors.ErrRateLimited, "please wait before requesting another email")
)
