package middlewares

type ctxKey string

const (
	CtxUserID    ctxKey = "userID"
	CtxRole      ctxKey = "role"
	CtxRequestID ctxKey = "requestID"
)
