package types

type SuccessEnvelope struct {
	Data   any `json:"data"`
	Toasts any `json:"toasts,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
