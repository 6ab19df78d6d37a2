// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema holds the table and column identifiers of the ledger database.

Repositories build SQL with fmt.Sprintf over these structs instead of string
literals, so a renamed column is a compile-time change in one place.

Tables:

  - core.catalog: one row per TAP entry.
  - core.contributor, core.distribution, core.income: children of a catalog,
    cascade-deleted with it.
  - system.auditlog: append-only change events.
*/
package schema
