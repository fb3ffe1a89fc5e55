package errors

import "errors"

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	LoginInvalid      = Definition{Code: "LOGIN_INVALID", Message: "Invalid username or password"}
	UsernameTaken     = Definition{Code: "USERNAME_TAKEN", Message: "Username or email already exists"}
	Unauthorized      = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	InvalidUserID     = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
	AccessDenied      = Definition{Code: "ACCESS_DENIED", Message: "Access denied"}
	InvalidRequest    = Definition{Code: "INVALID_REQUEST", Message: "Invalid request"}
	AccountInactive   = Definition{Code: "ACCOUNT_INACTIVE", Message: "Account is inactive"}
	RoleNotPermitted  = Definition{Code: "ROLE_NOT_PERMITTED", Message: "Role not permitted for this operation"}
	TooManyRequests   = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, please try again later"}
)

// 产检记录模块错误。
var (
	PregnancyNotFound = Definition{Code: "PREGNANCY_NOT_FOUND", Message: "Pregnancy not found"}
	PregnancyInactive = Definition{Code: "PREGNANCY_INACTIVE", Message: "Pregnancy is not active"}
	VisitNotFound     = Definition{Code: "VISIT_NOT_FOUND", Message: "Visit not found"}
	VisitWeekInvalid  = Definition{Code: "VISIT_WEEK_INVALID", Message: "Gestational week out of range"}
)

// 风险预警模块错误。
var (
	AlertNotFound        = Definition{Code: "ALERT_NOT_FOUND", Message: "Alert not found"}
	AlertAlreadyResolved = Definition{Code: "ALERT_ALREADY_RESOLVED", Message: "Alert already resolved"}
)

// 提醒模块错误。
var (
	ReminderNotFound = Definition{Code: "REMINDER_NOT_FOUND", Message: "Reminder not found"}
)

// token 包使用的哨兵错误。
var (
	ErrTokenGeneratorNotInitialized = errors.New("token generator not initialized")
	ErrUnexpectedSigningMethod      = errors.New("unexpected signing method")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrInvalidTokenClaims           = errors.New("invalid token claims")
	ErrInvalidTokenType             = errors.New("invalid token type")
	ErrUserIDNotFound               = errors.New("user id not found in claims")
)

// SkipMessageError 消费者返回该错误时直接 Ack，不再重新投递。
type SkipMessageError struct {
	Reason string
}

func (e *SkipMessageError) Error() string {
	return e.Reason
}

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	LoginInvalid.Code:         LoginInvalid,
	UsernameTaken.Code:        UsernameTaken,
	Unauthorized.Code:         Unauthorized,
	InvalidUserID.Code:        InvalidUserID,
	AccessDenied.Code:         AccessDenied,
	InvalidRequest.Code:       InvalidRequest,
	AccountInactive.Code:      AccountInactive,
	RoleNotPermitted.Code:     RoleNotPermitted,
	TooManyRequests.Code:      TooManyRequests,
	PregnancyNotFound.Code:    PregnancyNotFound,
	PregnancyInactive.Code:    PregnancyInactive,
	VisitNotFound.Code:        VisitNotFound,
	VisitWeekInvalid.Code:     VisitWeekInvalid,
	AlertNotFound.Code:        AlertNotFound,
	AlertAlreadyResolved.Code: AlertAlreadyResolved,
	ReminderNotFound.Code:     ReminderNotFound,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
