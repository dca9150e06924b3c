// Package migrations embeds the schema files for both databases and applies
// them in lexical filename order.
package migrations

import "embed"

// PostgresFS holds the trade record and sandwich outcome schemas.
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS holds the pool snapshot timeseries schema.
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS
