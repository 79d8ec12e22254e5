package handlers

import (
	"kioskpos-backend/gateway"
	"kioskpos-backend/pos"
	"kioskpos-backend/session"
)

// Package-level wiring, set once from main before the router starts. Mirrors
// the database package's global collections.
var (
	Sessions    *session.Manager
	Gateway     *gateway.Client
	POS         *pos.Client
	adminSecret string
)

func Init(sessions *session.Manager, gw *gateway.Client, posClient *pos.Client, admin string) {
	Sessions = sessions
	Gateway = gw
	POS = posClient
	adminSecret = admin
}
