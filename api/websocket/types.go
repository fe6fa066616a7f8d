package websocket

type ConnectParams struct {
	FileID string `form:"file_id" binding:"required"`
	Token  string `form:"token"` // jwt; may instead arrive as an Authorization bearer header
}
