// Package storage provides sql-backed stores for the classifier data: labeled review
// samples and the log of classification results. Each table is represented by a struct,
// and each struct has methods to work the table with business logic for this data type.
// The engine subpackage hides the dialect differences between sqlite and postgres.
package storage
