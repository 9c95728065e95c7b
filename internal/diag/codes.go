package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                   Code = 1000
	LexUnknownChar            Code = 1001
	LexUnterminatedString     Code = 1002
	LexUnterminatedTemplate   Code = 1003
	LexBadNumber              Code = 1004
	LexUnbalancedBracket      Code = 1005
	LexTokenTooLong           Code = 1006
	LexUnterminatedComment    Code = 1007

	// Парсерные
	SynInfo                   Code = 2000
	SynUnexpectedToken        Code = 2001
	SynUnclosedBlock          Code = 2002
	SynMissingBlock           Code = 2003
	SynEmptyCondition         Code = 2004
	SynDanglingElse           Code = 2005
	SynStrayToken             Code = 2006
	SynForMissingIn           Code = 2013
	SynForBadHeader           Code = 2014
	SynForBadRange            Code = 2015
	SynDoMissingWhile         Code = 2020
	SynSwitchBadScrutinee     Code = 2025
	SynSwitchBadCase          Code = 2026
	SynSwitchDefaultNotLast   Code = 2027
	SynFunBadName             Code = 2030
	SynFunBadSignature        Code = 2031
	SynFunBadParam            Code = 2032
	SynExpectIdentifier       Code = 2102
	SynExpectType             Code = 2202
	SynExpectExpression       Code = 2203
	SynExpectColon            Code = 2204
	SynVariadicMustBeLast     Code = 2207
	SynReservedName           Code = 2300
	SynDuplicateVariable      Code = 2301
	SynDuplicateFunction      Code = 2302
	SynLoopControlOutsideLoop Code = 2303
	SynBadDeclaration         Code = 2304

	// I/O
	IOLoadFileError Code = 4001

	// Ошибки выполнения
	RunError             Code = 5000
	RunUndefinedVariable Code = 5001
	RunUndefinedFunction Code = 5002
	RunTypeMismatch      Code = 5003
	RunRangeBound        Code = 5004
	RunIterationSource   Code = 5005
	RunDivisionByZero    Code = 5006
	RunArity             Code = 5007
	RunFinalAssign       Code = 5008
	RunTimeout           Code = 5009
	RunCallDepth         Code = 5010
	RunReturnMismatch    Code = 5011
	RunIndex             Code = 5012
	RunCanceled          Code = 5013
	RunInternal          Code = 5099
)

var (
	codeDescription = map[Code]string{
		UnknownCode:               "Unknown error",
		LexInfo:                   "Lexical information",
		LexUnknownChar:            "Unknown character",
		LexUnterminatedString:     "Unterminated string literal",
		LexUnterminatedTemplate:   "Unterminated template string",
		LexBadNumber:              "Bad number literal",
		LexUnbalancedBracket:      "Unbalanced brackets",
		LexTokenTooLong:           "Token too long",
		LexUnterminatedComment:    "Unterminated block comment",
		SynInfo:                   "Syntax information",
		SynUnexpectedToken:        "Unexpected token",
		SynUnclosedBlock:          "Unclosed block",
		SynMissingBlock:           "Missing block",
		SynEmptyCondition:         "Empty condition",
		SynDanglingElse:           "Dangling else",
		SynStrayToken:             "Token outside of its construct",
		SynForMissingIn:           "Missing 'in' in for header",
		SynForBadHeader:           "Malformed for header",
		SynForBadRange:            "Malformed range",
		SynDoMissingWhile:         "Missing 'while' after do block",
		SynSwitchBadScrutinee:     "Invalid switch value",
		SynSwitchBadCase:          "Malformed case",
		SynSwitchDefaultNotLast:   "Default must be the last section",
		SynFunBadName:             "Invalid function name",
		SynFunBadSignature:        "Malformed function signature",
		SynFunBadParam:            "Malformed parameter",
		SynExpectIdentifier:       "Expected identifier",
		SynExpectType:             "Expected type",
		SynExpectExpression:       "Expected expression",
		SynExpectColon:            "Expected ':'",
		SynVariadicMustBeLast:     "Variadic parameter must be last",
		SynReservedName:           "Reserved name",
		SynDuplicateVariable:      "Duplicate variable declaration",
		SynDuplicateFunction:      "Duplicate function definition",
		SynLoopControlOutsideLoop: "Loop control outside of a loop",
		SynBadDeclaration:         "Malformed declaration",
		IOLoadFileError:           "Failed to load file",
		RunError:                  "Runtime error",
		RunUndefinedVariable:      "Undefined variable",
		RunUndefinedFunction:      "Undefined function",
		RunTypeMismatch:           "Type mismatch",
		RunRangeBound:             "Invalid range bound",
		RunIterationSource:        "Invalid iteration source",
		RunDivisionByZero:         "Division by zero",
		RunArity:                  "Wrong number of arguments",
		RunFinalAssign:            "Assignment to a final binding",
		RunTimeout:                "Execution timeout",
		RunCallDepth:              "Call depth exceeded",
		RunReturnMismatch:         "Return values do not match the signature",
		RunIndex:                  "Invalid index",
		RunCanceled:               "Execution canceled",
		RunInternal:               "Internal interpreter error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("RUN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
