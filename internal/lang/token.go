// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package lang

import (
	"fmt"
	"strings"
)

// Token is a classified lexeme. Value holds the raw text. For number tokens
// Int holds the decoded value.
type Token struct {
	Span  Span
	Type  TokenType
	Value string
	Int   uint64
}

func (t Token) String() string {
	return fmt.Sprintf("%-12s %-10q %s", t.Type, t.Value, t.Span.Start)
}

type TokenType uint16

const (
	TokenTypeUnknown      TokenType = 0
	TokenTypeParenOpen    TokenType = 1
	TokenTypeParenClose   TokenType = 2
	TokenTypePlus         TokenType = 3
	TokenTypeEqual        TokenType = 4
	TokenTypeComma        TokenType = 5
	TokenTypeIdentifier   TokenType = 6
	TokenTypeNumber       TokenType = 7
	TokenTypeKeywordInt   TokenType = 8
	TokenTypeKeywordBool  TokenType = 9
	TokenTypeKeywordTrue  TokenType = 10
	TokenTypeKeywordFalse TokenType = 11
	TokenTypeKeywordLet   TokenType = 12
	TokenTypeKeywordIn    TokenType = 13
	TokenTypeKeywordIf    TokenType = 14
	TokenTypeKeywordThen  TokenType = 15
	TokenTypeKeywordElse  TokenType = 16
)

func (t TokenType) String() string {
	switch t {
	case TokenTypeUnknown:
		return "Unknown"
	case TokenTypeParenOpen:
		return "OpenParen"
	case TokenTypeParenClose:
		return "CloseParen"
	case TokenTypePlus:
		return "Plus"
	case TokenTypeEqual:
		return "Equal"
	case TokenTypeComma:
		return "Comma"
	case TokenTypeIdentifier:
		return "Identifier"
	case TokenTypeNumber:
		return "Number"
	case TokenTypeKeywordInt:
		return "Int"
	case TokenTypeKeywordBool:
		return "Bool"
	case TokenTypeKeywordTrue:
		return "True"
	case TokenTypeKeywordFalse:
		return "False"
	case TokenTypeKeywordLet:
		return "Let"
	case TokenTypeKeywordIn:
		return "In"
	case TokenTypeKeywordIf:
		return "If"
	case TokenTypeKeywordThen:
		return "Then"
	case TokenTypeKeywordElse:
		return "Else"
	default:
		return fmt.Sprintf("TokenType(%d)", uint16(t))
	}
}

// IsKeyword reports whether t is one of the reserved word kinds.
func (t TokenType) IsKeyword() bool {
	return t >= TokenTypeKeywordInt && t <= TokenTypeKeywordElse
}

// DescribeTypes renders a set of token types for "expecting ..." messages.
func DescribeTypes(types []TokenType) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
	}
}
