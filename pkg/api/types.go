package api

// Request is the body of POST /chat. Field names follow the service's
// wire contract.
type Request struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
	ClientID  string `json:"client_id"`
	Language  string `json:"language"`
}

// Response is a successful answer from the service. Answer carries
// rendered Markdown markup produced by a trusted server.
type Response struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

// errorBody is the service's error shape on non-2xx statuses.
type errorBody struct {
	Detail string `json:"detail"`
}
