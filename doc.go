/*
Package phrasebook provides an in-process translation store. Translations
are loaded incrementally from YAML documents (locale -> nested keys ->
values), deep-merged into one cumulative tree, and looked up by path.

	s := phrasebook.New(nil)
	n, err := s.LoadString("en:\n  greeting:\n    hello: Hello!")
	// n == 1
	v, ok := s.DirectLookup("en", "greeting", "hello")
	// v == phrasebook.String("Hello!"), ok == true
	v, ok, err = s.Lookup("en", "greeting.hello", nil, "")

Values

A tree is made of Values: String, Integer, Float, Symbol, Boolean, Null,
Sequence and *Mapping. Integers and floats keep their text; Int64 and
Float64 parse it on demand, so a malformed number never fails a load.
Plain scalars starting with a colon (":name") become Symbols.

Merging

Each loaded document is built completely, checked to be a mapping, and
only then merged. For every key of the document: a missing key is added;
when both the stored and the incoming values are mappings they are merged
recursively; otherwise the incoming value replaces the stored one.
Sequences are replaced, never merged element-wise. Duplicate keys within
a document follow the same rules.

Keys

Lookup keys such as "greeting.hello" are split on a separator and cached
per separator, so repeated lookups do not split strings again. The cache
is never evicted.

Parsers

Documents are parsed by YAMLParser unless Options.Parser says otherwise.
yaml.v3 reports syntax errors without a column, so LoadError.Column is 0
for them; callers that need columns should use goccy.Parser from the
parser/goccy package.

Persistence

A store can load documents from any Persist (see the persist/file and
persist/s3 packages), and save or restore snapshots of its tree. Snapshots
are protobuf encoded and named by the blake2b hash of their content.

Concurrency

A Store is not safe for concurrent use; Synchronized adds the locking.
*/
package phrasebook
