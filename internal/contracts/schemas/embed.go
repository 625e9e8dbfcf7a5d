package schemas

import "embed"

// RequestsFS содержит JSON-схемы тел запросов представления.
//
//go:embed requests
var RequestsFS embed.FS
