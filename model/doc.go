// Package model defines the identifier domains shared by every package in
// this module.
//
//   - DocumentID: sparse, client-assigned primary key (uint64)
//   - RowID: dense storage position within a table (uint32)
//   - InvalidRowID: reserved row value, also the lookup-table block terminator
//
// It also fixes the on-disk naming convention: <base>.spt for the lookup
// table and <base>.spm for the tombstone bitmap.
package model
