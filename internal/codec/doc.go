// Package codec moves table rows in and out of the store as JSON or YAML
// documents. A document names its table and lists rows as column/value maps;
// cmd/ormdemo uses it for the export and import commands.
package codec
