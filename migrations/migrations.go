// Package migrations holds the PostgreSQL schema read by the payroll repositories.
package migrations

import _ "embed"

//go:embed 0001_payroll.sql
var Payroll string
