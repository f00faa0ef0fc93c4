package store

import (
	"strings"
)

// filter renders the WHERE and LIMIT clauses for opts against a table
// with the given sequence and timestamp columns.
func filter(opts QueryOpts, seqCol, tsCol string) (string, []any) {
	var conds []string
	var args []any

	if opts.After > 0 {
		conds = append(conds, seqCol+" > ?")
		args = append(args, opts.After)
	}
	if opts.Before > 0 {
		conds = append(conds, seqCol+" < ?")
		args = append(args, opts.Before)
	}
	if !opts.From.IsZero() {
		conds = append(conds, tsCol+" >= ?")
		args = append(args, opts.From.UTC())
	}
	if !opts.To.IsZero() {
		conds = append(conds, tsCol+" <= ?")
		args = append(args, opts.To.UTC())
	}

	var b strings.Builder
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY " + seqCol + " DESC")
	if opts.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, opts.Limit)
	}
	return b.String(), args
}
