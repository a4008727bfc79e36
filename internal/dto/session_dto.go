package dto

type CreateSessionResponse struct {
	SessionId string `json:"session_id"`
}
