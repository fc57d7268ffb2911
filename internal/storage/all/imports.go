// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each backend, which register their
// factories with the storage package. Importing it makes these kinds
// available:
//
//   - "postgres"  (salesetl/internal/storage/postgres)
//   - "mssql"     (salesetl/internal/storage/mssql)
//   - "sqlite"    (salesetl/internal/storage/sqlite)
//   - "mysql"     (salesetl/internal/storage/mysql)
//   - "snowflake" (salesetl/internal/storage/snowflake)
//
// A binary that needs only a subset can import those backends directly.
package all

import (
	_ "salesetl/internal/storage/mssql"
	_ "salesetl/internal/storage/mysql"
	_ "salesetl/internal/storage/postgres"
	_ "salesetl/internal/storage/snowflake"
	_ "salesetl/internal/storage/sqlite"
)
