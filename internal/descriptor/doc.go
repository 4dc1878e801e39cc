// Package descriptor reads and writes the INI-like descriptor files that drive
// an installation.
//
// Two descriptors live beside the executable:
//
//   - version.ini names the archive that should be installed and where an
//     operator can download it:
//
//     [zip]
//     file: BaseTools-bins-2014.zip
//     url: https://example.org/BaseTools-bins-2014.zip
//
//   - installed.ini is written after a successful install and names the
//     archive that was last extracted:
//
//     [zip]
//     file: BaseTools-bins-2014.zip
//
// # Format
//
// Only the [zip] section is read. The marker line must match exactly, with no
// surrounding whitespace. The section ends at end of file or at the next line
// that starts with '['. Inside the section, lines beginning with "file:" or
// "url:" are read. Every other line is ignored.
//
// A value is everything after the first ':' with leading spaces skipped and
// trailing whitespace removed. Lines may end in LF or CRLF, and a UTF-8 byte
// order mark on the first line is dropped.
//
// # Roles
//
// version.ini is required: if it is missing or names no archive, parsing fails
// with an error wrapping ErrNotFound. installed.ini is optional: if it is
// missing or has no [zip] section, parsing succeeds and returns a descriptor
// that reports Exists() == false.
package descriptor
