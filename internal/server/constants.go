package server

import "time"

const (
	ReadHeaderTimeout = 5 * time.Second
	RequestSizeLimit  = 1 << 20 // 1MB
)

// Log Messages
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
)
