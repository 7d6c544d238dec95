package record

// EmptyMD5 is the MD5 of zero bytes. Every empty file shares it, so it is
// excluded from duplicate reports unless asked for.
const EmptyMD5 = "d41d8cd98f00b204e9800998ecf8427e"

// Entry is a record tagged with the 1-based index of the record file it
// was read from.
type Entry struct {
	Source int
	Record *Record
}

// Group is a set of entries sharing one MD5 digest.
type Group struct {
	MD5     string
	Entries []Entry
}

// DupOptions filters duplicate detection.
type DupOptions struct {
	// IncludeEmpty keeps the group of empty files.
	IncludeEmpty bool

	// Keep, when set, drops entries for which it returns false. Filtering
	// happens before group sizes are checked.
	Keep func(*Record) bool
}

// Duplicates groups entries by MD5 and returns groups with more than one
// member. Groups are ordered by first appearance, members by input order.
func Duplicates(entries []Entry, opts DupOptions) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, e := range entries {
		if !opts.IncludeEmpty && e.Record.MD5 == EmptyMD5 {
			continue
		}
		if opts.Keep != nil && !opts.Keep(e.Record) {
			continue
		}
		i, ok := index[e.Record.MD5]
		if !ok {
			i = len(groups)
			index[e.Record.MD5] = i
			groups = append(groups, Group{MD5: e.Record.MD5})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Entries) > 1 {
			out = append(out, g)
		}
	}
	return out
}
