package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexUnterminatedAtom   Code = 1003
	LexBadNumber          Code = 1004

	// Syntax
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynUnclosedDelimiter Code = 2002
	SynExpectDo          Code = 2003
	SynExpectEnd         Code = 2004
	SynExpectIdentifier  Code = 2005
	SynExpectAliasPath   Code = 2006
	SynExpectArrow       Code = 2007
	SynExpectExpression  Code = 2008

	// I/O
	IOLoadFileError Code = 3001

	// Lint
	LintInfo                 Code = 4000
	LintUnhandledMultiError  Code = 4001
	LintInternalInconsistent Code = 4099
)

var codeIDs = map[Code]string{
	UnknownCode:              "UNKNOWN",
	LexInfo:                  "LEX0000",
	LexUnknownChar:           "LEX0001",
	LexUnterminatedString:    "LEX0002",
	LexUnterminatedAtom:      "LEX0003",
	LexBadNumber:             "LEX0004",
	SynInfo:                  "SYN0000",
	SynUnexpectedToken:       "SYN0001",
	SynUnclosedDelimiter:     "SYN0002",
	SynExpectDo:              "SYN0003",
	SynExpectEnd:             "SYN0004",
	SynExpectIdentifier:      "SYN0005",
	SynExpectAliasPath:       "SYN0006",
	SynExpectArrow:           "SYN0007",
	SynExpectExpression:      "SYN0008",
	IOLoadFileError:          "IO0001",
	LintInfo:                 "LINT0000",
	LintUnhandledMultiError:  "LINT0001",
	LintInternalInconsistent: "LINT0099",
}

// ID returns the stable short identifier used in output formats.
func (c Code) ID() string {
	if id, ok := codeIDs[c]; ok {
		return id
	}
	return fmt.Sprintf("CODE%04d", uint16(c))
}

func (c Code) String() string {
	return c.ID()
}
