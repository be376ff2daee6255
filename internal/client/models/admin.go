package models

import "time"

// Stats is the dashboard overview.
type Stats struct {
	Accounts AccountStats `json:"usuarios"`
	Reports  ReportStats  `json:"denuncias"`
	Activity []Activity   `json:"atividade"`
}

type AccountStats struct {
	Total     int `json:"total"`
	Active    int `json:"ativos"`
	Companies int `json:"empresas"`
}

type ReportStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pendentes"`
	Resolved int `json:"resolvidas"`
}

// Activity is one entry of the recent activity feed.
type Activity struct {
	Type        string `json:"tipo"`
	Description string `json:"descricao"`
	Date        string `json:"data"`
}

// SystemInfo describes the backend build and clock.
type SystemInfo struct {
	Version    string    `json:"version"`
	NodeEnv    string    `json:"nodeEnv"`
	ServerTime time.Time `json:"serverTime"`
}

// ResetResult carries the admin credential created by a maintenance reset.
type ResetResult struct {
	Admin struct {
		Email    string `json:"email"`
		Password string `json:"senha"`
	} `json:"admin"`
}

// PurgeResult reports how many accounts a purge removed.
type PurgeResult struct {
	Removed int `json:"removidos"`
}
