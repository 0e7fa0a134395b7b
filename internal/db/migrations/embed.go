package migrations

import "embed"

//go:embed postgres/*.sql mysql/*.sql sqlite/*.sql
var FS embed.FS
