// Package declaration reads metadata definitions from declaration files.
//
// A declaration file is a YAML (or JSON) document listing at most five
// comparison fields plus the default platform name:
//
//	platform_name: My Platform
//	timestamp_encoding: rfc3339
//	fields:
//	  - field: books_read
//	    key: books_read
//	    type: integer_greater_than_or_equal
//	    name: Books read
//	    description: Total books read
//
// Loaders fetch the raw bytes (see Loader); Parse turns a Document into a
// metadata.Definition, applying every declaration-time check of the core.
package declaration
